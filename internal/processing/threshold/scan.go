package threshold

import (
	"math"

	"superpixel-otsu/internal/models"
)

// MergeLevel is the candidate threshold at which a region with drop-out value v
// joins the accumulated class: the first level the scan reaches that is not
// below v (ascending) or not above v (descending). Thresholds and masks agree
// on every side of this level.
func MergeLevel(v float64, invert bool) int {
	var level int
	if invert {
		level = int(math.Floor(v))
	} else {
		level = int(math.Ceil(v))
	}
	if level < 0 {
		return 0
	}
	if level > models.Levels-1 {
		return models.Levels - 1
	}
	return level
}

// levels yields the candidate thresholds in scan order.
func levels(invert bool) [models.Levels]int {
	var order [models.Levels]int
	for i := 0; i < models.Levels; i++ {
		if invert {
			order[i] = models.Levels - 1 - i
		} else {
			order[i] = i
		}
	}
	return order
}

// accumulator carries the running class statistics of one scan.
type accumulator struct {
	total  float64
	sumAll float64
	wB     float64
	sumB   float64
	result models.ThresholdResult
}

func newAccumulator(total int, sumAll float64) *accumulator {
	return &accumulator{
		total:  float64(total),
		sumAll: sumAll,
		result: models.ThresholdResult{Curve: make([]float64, models.Levels)},
	}
}

// evaluate scores threshold t and reports whether the scan should continue.
func (a *accumulator) evaluate(t int) bool {
	if a.wB == 0 {
		return true
	}
	wF := a.total - a.wB
	if wF <= 0 {
		return false
	}

	mB := a.sumB / a.wB
	mF := (a.sumAll - a.sumB) / wF
	variance := a.wB * wF * (mB - mF) * (mB - mF)
	a.result.Curve[t] = variance

	if variance > a.result.Variance {
		a.result.Variance = variance
		a.result.Threshold = t
	}
	return true
}

func (a *accumulator) done() models.ThresholdResult {
	if a.result.Variance == 0 {
		a.result.Threshold = 0
	}
	return a.result
}

// Full finds the threshold maximising the between-class variance when every
// region contributes its complete histogram. A region's histogram moves into
// the accumulated class once the scan reaches its merge level. Cost is
// O(256·R) in the worst case.
func Full(total int, hists []models.Histogram, values []float64, invert bool) models.ThresholdResult {
	sumAll := 0.0
	for r := range hists {
		sumAll += hists[r].WeightedSum()
	}

	sorted := SortRegions(values, invert)
	acc := newAccumulator(total, sumAll)
	current := 0
	for _, t := range levels(invert) {
		for current < len(sorted) && reached(sorted[current].Value, t, invert) {
			h := &hists[sorted[current].Region]
			acc.wB += float64(h.Total())
			acc.sumB += h.WeightedSum()
			current++
		}
		if !acc.evaluate(t) {
			break
		}
	}
	return acc.done()
}

func reached(v float64, t int, invert bool) bool {
	if invert {
		return MergeLevel(v, true) >= t
	}
	return MergeLevel(v, false) <= t
}

// Reduced approximates Full by collapsing each region to one point at its merge
// level weighted by its pixel count, then scanning the resulting 256-bin
// histogram. It matches Full whenever every region holds a single pixel.
func Reduced(total int, values []float64, weights []int, invert bool) models.ThresholdResult {
	var bins [models.Levels]float64
	for r, v := range values {
		bins[MergeLevel(v, invert)] += float64(weights[r])
	}
	sumAll := 0.0
	for i := 0; i < models.Levels; i++ {
		sumAll += float64(i) * bins[i]
	}

	acc := newAccumulator(total, sumAll)
	for _, t := range levels(invert) {
		acc.wB += bins[t]
		acc.sumB += float64(t) * bins[t]
		if !acc.evaluate(t) {
			break
		}
	}
	return acc.done()
}
