// Package segmentation produces the region label maps consumed by the
// superpixel threshold. Labels are always dense: ids run from 0 without gaps
// in row-major order of first appearance.
package segmentation

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/opencv/safe"
)

// Method names accepted by New.
const (
	MethodGrid       = "grid"
	MethodComponents = "components"
)

// Segmenter labels an intensity image.
type Segmenter interface {
	Segment(img *models.IntensityImage) (*models.LabelMap, error)
}

// GridSegmenter tiles the image into square cells.
type GridSegmenter struct {
	Size int
}

func (s GridSegmenter) Segment(img *models.IntensityImage) (*models.LabelMap, error) {
	if img == nil {
		return nil, errors.Wrap(models.ErrInvalidInput, "nil image")
	}
	return Grid(img.Width, img.Height, s.Size)
}

// ComponentSegmenter splits quantised intensity bands into connected
// components, then cuts them along a grid.
type ComponentSegmenter struct {
	Bands int
	Size  int
}

func (s ComponentSegmenter) Segment(img *models.IntensityImage) (*models.LabelMap, error) {
	return Components(img, s.Bands, s.Size)
}

// New returns the segmenter registered under method.
func New(method string, size, bands int) (Segmenter, error) {
	switch method {
	case MethodGrid, "":
		return GridSegmenter{Size: size}, nil
	case MethodComponents:
		return ComponentSegmenter{Bands: bands, Size: size}, nil
	default:
		return nil, errors.Wrapf(models.ErrInvalidInput, "unknown segmentation method %q", method)
	}
}

// Grid labels a w×h image with square cells of the given size. Cells on the
// right and bottom edges may be smaller.
func Grid(w, h, size int) (*models.LabelMap, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(models.ErrInvalidInput, "invalid dimensions: %dx%d", w, h)
	}
	if size <= 0 {
		return nil, errors.Wrapf(models.ErrInvalidInput, "cell size must be positive, got: %d", size)
	}
	cols := (w + size - 1) / size
	labels := models.NewLabelMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			labels.Set(x, y, (y/size)*cols+x/size)
		}
	}
	return labels, nil
}

// Components quantises img into bands equal intensity ranges, labels the
// 8-connected components of every band and subdivides each component by a grid
// of the given size. A size of 0 disables the subdivision.
func Components(img *models.IntensityImage, bands, size int) (*models.LabelMap, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, errors.Wrap(models.ErrInvalidInput, "empty image")
	}
	if bands < 1 || bands > models.Levels {
		return nil, errors.Wrapf(models.ErrInvalidInput, "bands must be in [1,256], got: %d", bands)
	}
	if size < 0 {
		return nil, errors.Wrapf(models.ErrInvalidInput, "cell size must not be negative, got: %d", size)
	}

	quantised := make([]int, img.Len())
	for i, v := range img.Pix {
		quantised[i] = int(v) * bands / models.Levels
	}

	type key struct{ band, component, cell int }
	ids := make(map[key]int)
	out := models.NewLabelMap(img.Width, img.Height)
	componentOf := make([]int, img.Len())

	for band := 0; band < bands; band++ {
		binary := models.NewIntensityImage(img.Width, img.Height)
		present := false
		for i, q := range quantised {
			if q == band {
				binary.Pix[i] = 255
				present = true
			}
		}
		if !present {
			continue
		}
		comps, err := connectedComponents(binary)
		if err != nil {
			return nil, errors.Wrapf(err, "band %d", band)
		}
		for i, q := range quantised {
			if q == band {
				componentOf[i] = comps.Labels[i]
			}
		}
	}

	cols := 1
	if size > 0 {
		cols = (img.Width + size - 1) / size
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := y*img.Width + x
			cell := 0
			if size > 0 {
				cell = (y/size)*cols + x/size
			}
			k := key{quantised[i], componentOf[i], cell}
			id, ok := ids[k]
			if !ok {
				id = len(ids)
				ids[k] = id
			}
			out.Labels[i] = id
		}
	}
	return out, nil
}

func connectedComponents(binary *models.IntensityImage) (*models.LabelMap, error) {
	src, err := safe.NewMatFromIntensity(binary)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	labels := gocv.NewMat()
	gocv.ConnectedComponents(src.GetMat(), &labels)
	out, err := safe.Adopt(labels)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	return out.ToLabels()
}
