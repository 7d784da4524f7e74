package pipeline

import (
	"github.com/pkg/errors"

	"superpixel-otsu/internal/models"
)

// MaskMetrics compares a mask against a reference mask of the same size.
type MaskMetrics struct {
	IoU       float64 // intersection over union of the foregrounds
	Dice      float64 // Dice similarity coefficient
	Agreement float64 // fraction of pixels with the same class
}

// CompareMasks scores got against ref. Two empty foregrounds count as a
// perfect match.
func CompareMasks(got, ref *models.Mask) (MaskMetrics, error) {
	if got == nil || ref == nil {
		return MaskMetrics{}, errors.Wrap(models.ErrInvalidInput, "masks cannot be nil")
	}
	if got.Width != ref.Width || got.Height != ref.Height {
		return MaskMetrics{}, errors.Wrapf(models.ErrInvalidInput, "mask dimensions must match: %dx%d vs %dx%d",
			got.Width, got.Height, ref.Width, ref.Height)
	}

	var truePositive, falsePositive, falseNegative, trueNegative int
	for i, g := range got.Pix {
		r := ref.Pix[i]
		switch {
		case g && r:
			truePositive++
		case g && !r:
			falsePositive++
		case !g && r:
			falseNegative++
		default:
			trueNegative++
		}
	}

	metrics := MaskMetrics{IoU: 1, Dice: 1}
	if union := truePositive + falsePositive + falseNegative; union > 0 {
		metrics.IoU = float64(truePositive) / float64(union)
		metrics.Dice = 2 * float64(truePositive) / float64(2*truePositive+falsePositive+falseNegative)
	}
	if total := len(got.Pix); total > 0 {
		metrics.Agreement = float64(truePositive+trueNegative) / float64(total)
	}
	return metrics, nil
}

func (m MaskMetrics) Fields() map[string]interface{} {
	return map[string]interface{}{
		"iou":       m.IoU,
		"dice":      m.Dice,
		"agreement": m.Agreement,
	}
}
