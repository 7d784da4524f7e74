package pipeline

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/processing/colorindex"
	"superpixel-otsu/internal/processing/segmentation"
)

// ImageLoader builds frames from image files.
type ImageLoader struct {
	index       colorindex.Index
	segmenter   segmentation.Segmenter
	resizeWidth int
	logger      logger.Logger
}

// NewLoader returns a loader that decodes an image, optionally downsizes it to
// resizeWidth, derives the color index image and labels its regions.
func NewLoader(index colorindex.Index, segmenter segmentation.Segmenter, resizeWidth int, log logger.Logger) *ImageLoader {
	return &ImageLoader{
		index:       index,
		segmenter:   segmenter,
		resizeWidth: resizeWidth,
		logger:      logger.OrNop(log),
	}
}

func (l *ImageLoader) Load(path string) (*models.Frame, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, errors.Wrapf(models.ErrInvalidInput, "unsupported image format: %s", path)
	}

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":   path,
		"format": strings.ToLower(format.String()),
	})

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return l.FromImage(path, img)
}

// FromImage builds a frame from an already decoded image.
func (l *ImageLoader) FromImage(path string, img image.Image) (*models.Frame, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.Wrapf(models.ErrInvalidInput, "empty image: %s", path)
	}
	if l.resizeWidth > 0 && bounds.Dx() > l.resizeWidth {
		img = imaging.Resize(img, l.resizeWidth, 0, imaging.Lanczos)
	}

	index, err := l.index.Apply(img)
	if err != nil {
		return nil, errors.Wrapf(err, "color index %s", l.index.Name)
	}
	labels, err := l.segmenter.Segment(index)
	if err != nil {
		return nil, errors.Wrap(err, "segmentation failed")
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"path":   path,
		"width":  index.Width,
		"height": index.Height,
		"index":  l.index.Name,
	})

	return &models.Frame{
		Path:     path,
		Original: img,
		Index:    index,
		Labels:   labels,
		Invert:   l.index.Invert,
	}, nil
}

// IsImage reports whether path has an extension the loader can decode.
func IsImage(path string) bool {
	_, err := imaging.FormatFromFilename(path)
	return err == nil
}
