// Package temporal carries a threshold across the images of a sequence with
// exponential recency weighting.
package temporal

import (
	"math"

	"superpixel-otsu/internal/models"
)

// Smoother holds the sequence state: the last smoothed threshold. The zero
// value is not usable; create one per sequence with NewSmoother.
type Smoother struct {
	alpha  float64
	prev   int
	primed bool
}

// NewSmoother validates alpha. Alpha 1 disables memory, alpha 0 keeps the first
// threshold forever.
func NewSmoother(alpha float64) (*Smoother, error) {
	if err := models.CheckRatio("alpha", alpha); err != nil {
		return nil, err
	}
	return &Smoother{alpha: alpha}, nil
}

// Update blends raw into the running value and returns the smoothed threshold.
// The first call of a sequence returns raw unchanged.
func (s *Smoother) Update(raw int) int {
	if !s.primed {
		s.prev, s.primed = raw, true
		return raw
	}
	s.prev = Blend(s.prev, raw, s.alpha)
	return s.prev
}

// Last returns the current smoothed value and whether one exists.
func (s *Smoother) Last() (int, bool) { return s.prev, s.primed }

// Blend returns round(prev·(1-alpha) + raw·alpha).
func Blend(prev, raw int, alpha float64) int {
	return int(math.Round(float64(prev)*(1-alpha) + float64(raw)*alpha))
}
