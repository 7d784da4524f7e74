package models

// Levels is the number of intensity levels of an 8-bit sample.
const Levels = 256

// Histogram counts the samples of one region per intensity level.
type Histogram [Levels]int

// Total returns the number of samples counted.
func (h *Histogram) Total() int {
	n := 0
	for i := 0; i < Levels; i++ {
		n += h[i]
	}
	return n
}

// WeightedSum returns Σ i·h[i]. Level 0 contributes nothing.
func (h *Histogram) WeightedSum() float64 {
	s := 0.0
	for i := 1; i < Levels; i++ {
		s += float64(i) * float64(h[i])
	}
	return s
}

// Min and Max return the lowest and highest populated level, or -1 when empty.
func (h *Histogram) Min() int {
	for i := 0; i < Levels; i++ {
		if h[i] > 0 {
			return i
		}
	}
	return -1
}

func (h *Histogram) Max() int {
	for i := Levels - 1; i >= 0; i-- {
		if h[i] > 0 {
			return i
		}
	}
	return -1
}

// ThresholdResult is the outcome of one variance-maximising scan.
type ThresholdResult struct {
	Threshold int
	Variance  float64
	// Curve holds the between-class variance per candidate threshold. Levels that
	// were skipped or never reached stay 0.
	Curve []float64
}

// Plateau returns the first and last threshold of the run of levels that share
// the maximal variance and contain Threshold. Any threshold on the plateau splits
// the regions identically.
func (r ThresholdResult) Plateau() (first, last int) {
	first, last = r.Threshold, r.Threshold
	if len(r.Curve) != Levels || r.Variance == 0 {
		return first, last
	}
	for first > 0 && r.Curve[first-1] == r.Variance {
		first--
	}
	for last < Levels-1 && r.Curve[last+1] == r.Variance {
		last++
	}
	return first, last
}
