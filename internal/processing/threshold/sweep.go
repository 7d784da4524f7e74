package threshold

import (
	"sort"

	"github.com/pkg/errors"

	"superpixel-otsu/internal/algorithms/dropout"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
)

// Default acceptance window of the percentage sweep.
const (
	DefaultKStart = 0.2
	DefaultKEnd   = 0.8
)

// SweepResult is the best (k, threshold) pair found by a sweep.
type SweepResult struct {
	models.ThresholdResult
	K float64
	// DropOut holds the region values in force at K.
	DropOut []float64
	Tests   int
}

// Sweeper searches jointly over the acceptance fraction k and the threshold.
//
// It is a grid search over k: each distinct fraction taken from the
// AllPercent candidates updates the drop-out values and reruns Full, so every
// step costs O(256·R). Candidates are ordered by fraction descending (ascending
// when inverted); fractions below KStart are skipped and the sweep stops at the
// first fraction above KEnd, even if smaller fractions follow later in the
// order.
type Sweeper struct {
	KStart float64
	KEnd   float64
	Logger logger.Logger
}

// NewSweeper validates the window.
func NewSweeper(kStart, kEnd float64, log logger.Logger) (*Sweeper, error) {
	if err := models.CheckRatio("k_start", kStart); err != nil {
		return nil, err
	}
	if err := models.CheckRatio("k_end", kEnd); err != nil {
		return nil, err
	}
	if kStart > kEnd {
		return nil, errors.Wrapf(models.ErrInvalidInput, "k_start %v above k_end %v", kStart, kEnd)
	}
	return &Sweeper{KStart: kStart, KEnd: kEnd, Logger: logger.OrNop(log)}, nil
}

// Run sweeps k over the window for one image.
func (s *Sweeper) Run(total int, hists []models.Histogram, invert bool) SweepResult {
	candidates := dropout.AllPercent(hists, invert)
	sortCandidates(candidates, invert)

	current := initialDropOut(len(hists), invert)
	best := SweepResult{DropOut: append([]float64(nil), current...)}

	for i := 0; i < len(candidates); {
		k := candidates[i].Fraction
		for i < len(candidates) && candidates[i].Fraction == k {
			current[candidates[i].Region] = float64(candidates[i].Level)
			i++
		}
		if k < s.KStart {
			continue
		}
		if k > s.KEnd {
			break
		}

		best.Tests++
		res := Full(total, hists, current, invert)
		s.Logger.Debug("PercentageSweep", "test", map[string]interface{}{
			"test":      best.Tests,
			"k":         k,
			"variance":  res.Variance,
			"threshold": res.Threshold,
		})
		if res.Variance > best.Variance {
			best.ThresholdResult = res
			best.K = k
			copy(best.DropOut, current)
		}
	}

	s.Logger.Debug("PercentageSweep", "sweep finished", map[string]interface{}{
		"k":         best.K,
		"threshold": best.Threshold,
		"tests":     best.Tests,
	})
	return best
}

// initialDropOut places every region just inside the scanned range before any
// candidate has been applied.
func initialDropOut(n int, invert bool) []float64 {
	start := 1.0
	if invert {
		start = models.Levels - 2
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = start
	}
	return values
}

func sortCandidates(c []dropout.Candidate, invert bool) {
	mult := 1.0
	if invert {
		mult = -1
	}
	sort.Slice(c, func(i, j int) bool {
		fi, fj := -c[i].Fraction*mult, -c[j].Fraction*mult
		if fi != fj {
			return fi < fj
		}
		li, lj := mult*float64(c[i].Level), mult*float64(c[j].Level)
		if li != lj {
			return li < lj
		}
		return c[i].Region < c[j].Region
	})
}
