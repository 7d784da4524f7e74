// Package dropout reduces a region histogram to a single representative
// intensity, the drop-out value, that stands in for the region's pixels during
// thresholding.
package dropout

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"superpixel-otsu/internal/models"
)

// Model derives the drop-out value of one region.
type Model interface {
	Name() string
	Value(h *models.Histogram) float64
}

// Model names accepted by New.
const (
	NameAverage  = "avg"
	NameMedian   = "med"
	NameKPercent = "perc"
)

// DefaultK is the acceptance fraction used when none is configured.
const DefaultK = 0.7

// New returns the model registered under name. k is only read by the
// percentage model.
func New(name string, k float64, invert bool) (Model, error) {
	switch name {
	case NameAverage, "":
		return Average{}, nil
	case NameMedian:
		return Median{}, nil
	case NameKPercent:
		return NewKPercent(k, invert)
	default:
		return nil, errors.Wrapf(models.ErrInvalidInput, "unknown drop-out model %q", name)
	}
}

// Names lists the single-pass models.
func Names() []string { return []string{NameAverage, NameMedian, NameKPercent} }

// Evaluate applies m to every histogram, spreading regions over workers.
// Empty regions get 0.
func Evaluate(m Model, hists []models.Histogram, workers int) []float64 {
	values := make([]float64, len(hists))
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(hists) {
		workers = len(hists)
	}
	if workers <= 1 {
		for r := range hists {
			values[r] = value(m, &hists[r])
		}
		return values
	}

	per := (len(hists) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(hists); start += per {
		end := start + per
		if end > len(hists) {
			end = len(hists)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for r := start; r < end; r++ {
				values[r] = value(m, &hists[r])
			}
		}(start, end)
	}
	wg.Wait()
	return values
}

func value(m Model, h *models.Histogram) float64 {
	if h.Total() == 0 {
		return 0
	}
	return m.Value(h)
}
