package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
)

// ImageSaver writes masks and index images with imaging.
type ImageSaver struct {
	dir       string
	indexName string
	saveIndex bool
	logger    logger.Logger
}

// NewSaver writes `<name>_sprseg_<INDEX><ext>` masks, and with saveIndex also
// the `<name>_<INDEX><ext>` index images, into dir. An empty dir writes next to
// the input image.
func NewSaver(dir, indexName string, saveIndex bool, log logger.Logger) *ImageSaver {
	return &ImageSaver{
		dir:       dir,
		indexName: indexName,
		saveIndex: saveIndex,
		logger:    logger.OrNop(log),
	}
}

func (s *ImageSaver) Save(frame *models.Frame, result *models.FrameResult) error {
	if frame == nil || result == nil || result.Mask == nil {
		return errors.Wrap(models.ErrInvalidInput, "no mask to save")
	}

	maskPath := s.outputPath(frame.Path, "_sprseg_"+s.indexName)
	if err := imaging.Save(result.Mask.ToGray(), maskPath); err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{"path": maskPath})
		return errors.Wrapf(err, "saving mask %s", maskPath)
	}

	fields := map[string]interface{}{"mask": maskPath}
	if s.saveIndex && frame.Index != nil {
		indexPath := s.outputPath(frame.Path, "_"+s.indexName)
		if err := imaging.Save(frame.Index.ToGray(), indexPath); err != nil {
			s.logger.Error("ImageSaver", err, map[string]interface{}{"path": indexPath})
			return errors.Wrapf(err, "saving index image %s", indexPath)
		}
		fields["index"] = indexPath
	}

	s.logger.Info("ImageSaver", "image saved", fields)
	return nil
}

// Owns reports whether path looks like a file this saver writes.
func (s *ImageSaver) Owns(path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(name, "_sprseg_"+s.indexName) ||
		(s.saveIndex && strings.HasSuffix(name, "_"+s.indexName))
}

// outputPath keeps the input extension when it is writable and falls back to
// PNG otherwise.
func (s *ImageSaver) outputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	name := strings.TrimSuffix(filepath.Base(input), ext)
	if _, err := imaging.FormatFromExtension(ext); err != nil || ext == "" {
		ext = ".png"
	}
	dir := s.dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name+suffix+ext)
}
