package threshold

import "superpixel-otsu/internal/models"

// Accepts reports whether a region with drop-out value v is foreground for
// threshold t. A value equal to the threshold is rejected under both
// polarities.
func Accepts(v float64, t int, invert bool) bool {
	if invert {
		return v < float64(t)
	}
	return v > float64(t)
}

// BuildMask marks the pixels of every accepted region. Accepted regions sit at
// the tail of sorted, so the walk stops at the first rejected one. It returns
// the mask and the number of accepted regions.
func BuildMask(labels *models.LabelMap, sorted []RegionValue, t int, invert bool) (*models.Mask, int) {
	accepted := make([]bool, len(sorted))
	n := 0
	for i := len(sorted) - 1; i >= 0 && Accepts(sorted[i].Value, t, invert); i-- {
		accepted[sorted[i].Region] = true
		n++
	}

	mask := models.NewMask(labels.Width, labels.Height)
	for i, id := range labels.Labels {
		if id < len(accepted) && accepted[id] {
			mask.Pix[i] = true
		}
	}
	return mask, n
}
