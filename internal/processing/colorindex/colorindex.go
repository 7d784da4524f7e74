// Package colorindex turns RGB images into single channel vegetation indices
// and rescales them to the 8-bit intensity images thresholded downstream.
package colorindex

import (
	"image"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"superpixel-otsu/internal/models"
)

// Index is a per-pixel function of r, g and b in [0,1]. Invert reports the
// polarity to threshold with: plants score low on CIVE and high elsewhere.
type Index struct {
	Name      string
	Invert    bool
	normalize bool
	fn        func(r, g, b float64) float64
}

func linear(rw, gw, bw, offset float64) func(r, g, b float64) float64 {
	return func(r, g, b float64) float64 {
		return rw*r + gw*g + bw*b + offset
	}
}

func veg(r, g, b float64) float64 {
	const a = 0.667
	den := math.Pow(r, a) * math.Pow(b, 1-a)
	if den <= 1e-3 {
		return g * 1e3
	}
	return g / den
}

var base = map[string]struct {
	invert bool
	fn     func(r, g, b float64) float64
}{
	"ExG":  {false, linear(-1, 2, -1, 0)},
	"mExG": {false, linear(-0.884, 1.262, -0.311, 0)},
	"ExR":  {false, linear(1.3, -1, 0, 0)},
	"CIVE": {true, linear(0.441, -0.811, 0.385, 18.78745)},
	"VEG":  {false, veg},
}

// DefaultName is the index used when none is configured.
const DefaultName = "CIVE"

// Lookup resolves an index name. A leading "n" selects the chromaticity
// normalised variant (r, g and b divided by their sum).
func Lookup(name string) (Index, error) {
	if b, ok := base[name]; ok {
		return Index{Name: name, Invert: b.invert, fn: b.fn}, nil
	}
	if strings.HasPrefix(name, "n") {
		if b, ok := base[name[1:]]; ok {
			return Index{Name: name, Invert: b.invert, normalize: true, fn: b.fn}, nil
		}
	}
	return Index{}, errors.Wrapf(models.ErrInvalidInput, "unknown color index %q", name)
}

// Names lists every accepted index name.
func Names() []string {
	names := make([]string, 0, 2*len(base))
	for name := range base {
		names = append(names, name, "n"+name)
	}
	sort.Strings(names)
	return names
}

// Value evaluates the index for one pixel.
func (ix Index) Value(r, g, b float64) float64 {
	if ix.normalize {
		if sum := r + g + b; sum > 0 {
			r, g, b = r/sum, g/sum, b/sum
		}
	}
	return ix.fn(r, g, b)
}

// Compute evaluates the index over img in row-major order.
func (ix Index) Compute(img image.Image) []float64 {
	bounds := img.Bounds()
	out := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out = append(out, ix.Value(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff))
		}
	}
	return out
}

// Apply computes the index and rescales it to an intensity image.
func (ix Index) Apply(img image.Image) (*models.IntensityImage, error) {
	bounds := img.Bounds()
	return Rescale(ix.Compute(img), bounds.Dx(), bounds.Dy())
}

// Rescale maps [min,max] of values linearly onto [0,255]. A constant input maps
// to 0.
func Rescale(values []float64, w, h int) (*models.IntensityImage, error) {
	if w <= 0 || h <= 0 || len(values) != w*h {
		return nil, errors.Wrapf(models.ErrInvalidInput, "%d values for a %dx%d image", len(values), w, h)
	}
	out := models.NewIntensityImage(w, h)
	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		return out, nil
	}
	scale := 255 / (hi - lo)
	for i, v := range values {
		out.Pix[i] = uint8(math.Round((v - lo) * scale))
	}
	return out, nil
}
