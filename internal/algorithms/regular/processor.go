// Package regular is the pixel-level baseline: classic Otsu thresholding of the
// index image through OpenCV, ignoring region labels.
package regular

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/opencv/safe"
)

// Name is the registry name of the processor.
const Name = "Regular Otsu"

type Processor struct {
	name   string
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{
		name:   Name,
		logger: logger.OrNop(log),
	}
}

func (p *Processor) GetName() string {
	return p.name
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return map[string]interface{}{}
}

// ValidateParameters accepts anything: the baseline has no tunables.
func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	return nil
}

// Process computes the Otsu threshold over all pixels of the index image. The
// foreground is every pixel above the threshold, or every pixel at or below it
// when the index is inverted.
func (p *Processor) Process(frame *models.Frame, params map[string]interface{}) (*models.FrameResult, error) {
	if frame == nil || frame.Index == nil {
		return nil, errors.Wrap(models.ErrInvalidInput, "nil frame")
	}

	t, mask, err := threshold(frame.Index, 0, thresholdType(frame.Invert)|gocv.ThresholdOtsu)
	if err != nil {
		return nil, errors.Wrap(err, "otsu threshold failed")
	}

	result := &models.FrameResult{
		Path:      frame.Path,
		Raw:       models.ThresholdResult{Threshold: t},
		Threshold: t,
		Mask:      mask,
		Accepted:  mask.Count(),
		Invert:    frame.Invert,
	}

	p.logger.Debug("RegularOtsu", "threshold computed", map[string]interface{}{
		"path":       frame.Path,
		"threshold":  t,
		"foreground": result.Accepted,
	})
	return result, nil
}

// Remask applies a fixed threshold t to the frame's index image.
func (p *Processor) Remask(frame *models.Frame, result *models.FrameResult, t int) error {
	if frame == nil || frame.Index == nil {
		return errors.Wrap(models.ErrInvalidInput, "remask needs the index image")
	}
	_, mask, err := threshold(frame.Index, t, thresholdType(result.Invert))
	if err != nil {
		return errors.Wrap(err, "fixed threshold failed")
	}
	result.Mask = mask
	result.Accepted = mask.Count()
	result.Threshold = t
	return nil
}

func thresholdType(invert bool) gocv.ThresholdType {
	if invert {
		return gocv.ThresholdBinaryInv
	}
	return gocv.ThresholdBinary
}

func threshold(img *models.IntensityImage, t int, typ gocv.ThresholdType) (int, *models.Mask, error) {
	src, err := safe.NewMatFromIntensity(img)
	if err != nil {
		return 0, nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	used := gocv.Threshold(src.GetMat(), &dst, float32(t), 255, typ)
	out, err := safe.Adopt(dst)
	if err != nil {
		return 0, nil, err
	}
	defer out.Close()

	binary, err := out.ToIntensity()
	if err != nil {
		return 0, nil, err
	}
	mask := models.NewMask(img.Width, img.Height)
	for i, v := range binary.Pix {
		mask.Pix[i] = v != 0
	}
	return int(used), mask, nil
}
