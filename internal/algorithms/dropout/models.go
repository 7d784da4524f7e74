package dropout

import (
	"github.com/pkg/errors"

	"superpixel-otsu/internal/models"
)

// Average is the weighted mean intensity. Level 0 is left out of the weighted
// sum but its pixels still count in the denominator.
type Average struct{}

func (Average) Name() string { return NameAverage }

func (Average) Value(h *models.Histogram) float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	return h.WeightedSum() / float64(total)
}

// Median is the smallest level whose doubled cumulative count exceeds the
// total. When it equals the total exactly the value is halfway to the next
// populated level.
type Median struct{}

func (Median) Name() string { return NameMedian }

func (Median) Value(h *models.Histogram) float64 {
	total := h.Total()
	cum := 0
	for i := 0; i < models.Levels; i++ {
		cum += h[i]
		switch {
		case cum*2 > total:
			return float64(i)
		case cum*2 == total && cum > 0:
			for j := i + 1; j < models.Levels; j++ {
				if h[j] > 0 {
					return float64(i+j) / 2
				}
			}
			return float64(i)
		}
	}
	return 0
}

// KPercent places the drop-out value at the first level, scanning from the
// dark end (or the bright end when Invert is set), where the mass already
// passed exceeds 1-K of the region. A region is then accepted for threshold t
// when at least a fraction K of its pixels lies beyond t.
type KPercent struct {
	K      float64
	Invert bool
}

// NewKPercent validates k.
func NewKPercent(k float64, invert bool) (KPercent, error) {
	if err := models.CheckRatio("k", k); err != nil {
		return KPercent{}, errors.Wrap(err, "percentage model")
	}
	return KPercent{K: k, Invert: invert}, nil
}

func (KPercent) Name() string { return NameKPercent }

func (m KPercent) Value(h *models.Histogram) float64 {
	total := float64(h.Total())
	if total == 0 {
		return 0
	}
	cut := 1 - m.K
	cum := 0
	if !m.Invert {
		for i := 1; i < models.Levels; i++ {
			cum += h[i-1]
			if float64(cum)/total > cut {
				return float64(i)
			}
		}
		return models.Levels - 1
	}
	for i := models.Levels - 2; i >= 0; i-- {
		cum += h[i+1]
		if float64(cum)/total > cut {
			return float64(i)
		}
	}
	return 0
}

// Candidate is one step of a region's acceptance curve: for acceptance
// fraction Fraction the region's drop-out value becomes Level.
type Candidate struct {
	Fraction float64
	Level    int
	Region   int
}

// AllPercent lists, for every region, each level at which its cumulative
// fraction changes. It feeds the percentage sweep only.
func AllPercent(hists []models.Histogram, invert bool) []Candidate {
	var out []Candidate
	for r := range hists {
		h := &hists[r]
		total := float64(h.Total())
		if total == 0 {
			continue
		}
		cum, prev := 0, 0
		if !invert {
			for i := 1; i < models.Levels; i++ {
				cum += h[i-1]
				if i != 1 && prev != cum {
					out = append(out, Candidate{Fraction: 1 - float64(prev)/total, Level: i, Region: r})
				}
				prev = cum
			}
			continue
		}
		for i := models.Levels - 2; i >= 0; i-- {
			cum += h[i+1]
			if i != models.Levels-2 && prev != cum {
				out = append(out, Candidate{Fraction: 1 - float64(prev)/total, Level: i, Region: r})
			}
			prev = cum
		}
	}
	return out
}
