package models

import (
	"image"

	"github.com/pkg/errors"
)

// IntensityImage is an 8-bit single channel grid stored row-major.
type IntensityImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewIntensityImage allocates a zeroed w×h grid.
func NewIntensityImage(w, h int) *IntensityImage {
	return &IntensityImage{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// IntensityFromRows builds a grid from equally sized rows. It is mostly used by tests.
func IntensityFromRows(rows [][]uint8) (*IntensityImage, error) {
	if len(rows) == 0 {
		return NewIntensityImage(0, 0), nil
	}
	img := NewIntensityImage(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != img.Width {
			return nil, errors.Wrapf(ErrInvalidInput, "row %d has %d samples, want %d", y, len(row), img.Width)
		}
		copy(img.Pix[y*img.Width:], row)
	}
	return img, nil
}

// IntensityFromGray copies an image.Gray into a grid anchored at (0,0).
func IntensityFromGray(g *image.Gray) *IntensityImage {
	b := g.Bounds()
	img := NewIntensityImage(b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		copy(img.Pix[y*img.Width:(y+1)*img.Width], g.Pix[y*g.Stride:y*g.Stride+img.Width])
	}
	return img
}

func (im *IntensityImage) At(x, y int) uint8 { return im.Pix[y*im.Width+x] }

func (im *IntensityImage) Set(x, y int, v uint8) { im.Pix[y*im.Width+x] = v }

// Len returns the number of samples.
func (im *IntensityImage) Len() int { return len(im.Pix) }

// ToGray converts the grid to an image.Gray for saving or display.
func (im *IntensityImage) ToGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
	copy(g.Pix, im.Pix)
	return g
}

// LabelMap assigns a region id to every grid position, row-major.
type LabelMap struct {
	Width  int
	Height int
	Labels []int
}

// NewLabelMap allocates a w×h label grid with every position in region 0.
func NewLabelMap(w, h int) *LabelMap {
	return &LabelMap{Width: w, Height: h, Labels: make([]int, w*h)}
}

// LabelsFromRows builds a label grid from equally sized rows.
func LabelsFromRows(rows [][]int) (*LabelMap, error) {
	if len(rows) == 0 {
		return NewLabelMap(0, 0), nil
	}
	lm := NewLabelMap(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != lm.Width {
			return nil, errors.Wrapf(ErrInvalidInput, "row %d has %d labels, want %d", y, len(row), lm.Width)
		}
		copy(lm.Labels[y*lm.Width:], row)
	}
	return lm, nil
}

func (lm *LabelMap) At(x, y int) int { return lm.Labels[y*lm.Width+x] }

func (lm *LabelMap) Set(x, y, id int) { lm.Labels[y*lm.Width+x] = id }

// SameShape reports whether the label grid matches the intensity grid.
func (lm *LabelMap) SameShape(im *IntensityImage) bool {
	return lm.Width == im.Width && lm.Height == im.Height && len(lm.Labels) == len(im.Pix)
}

// Mask is the binary segmentation output; true marks foreground.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask allocates an all-background mask.
func NewMask(w, h int) *Mask {
	return &Mask{Width: w, Height: h, Pix: make([]bool, w*h)}
}

func (m *Mask) At(x, y int) bool { return m.Pix[y*m.Width+x] }

// Count returns the number of foreground positions.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// ToGray renders foreground as 255 and background as 0.
func (m *Mask) ToGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v {
			g.Pix[i] = 255
		}
	}
	return g
}
