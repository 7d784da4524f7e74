// Package superpixel runs Otsu's method on regions instead of pixels: every
// region is reduced to a drop-out value and the threshold is chosen over those
// values.
package superpixel

import (
	"github.com/pkg/errors"

	"superpixel-otsu/internal/algorithms/dropout"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/processing/histogram"
	"superpixel-otsu/internal/processing/threshold"
)

// Parameter keys.
const (
	ParamModel   = "model"
	ParamK       = "k"
	ParamVariant = "variant"
	ParamKStart  = "k_start"
	ParamKEnd    = "k_end"
	ParamWorkers = "workers"
)

// Name is the registry name of the processor.
const Name = "Superpixel Otsu"

// ModelSweep selects the percentage sweep instead of a fixed drop-out model.
const ModelSweep = "sweep"

// Scan variants.
const (
	VariantFull    = "full"
	VariantReduced = "reduced"
)

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
	return map[string]interface{}{
		ParamModel:   dropout.NameAverage,
		ParamK:       dropout.DefaultK,
		ParamVariant: VariantFull,
		ParamKStart:  threshold.DefaultKStart,
		ParamKEnd:    threshold.DefaultKEnd,
		ParamWorkers: 0,
	}
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	model := stringParam(params, ParamModel, dropout.NameAverage)
	switch model {
	case dropout.NameAverage, dropout.NameMedian, dropout.NameKPercent, ModelSweep:
	default:
		return errors.Wrapf(models.ErrInvalidInput, "model must be one of avg, med, perc, sweep, got: %s", model)
	}

	variant := stringParam(params, ParamVariant, VariantFull)
	if variant != VariantFull && variant != VariantReduced {
		return errors.Wrapf(models.ErrInvalidInput, "variant must be 'full' or 'reduced', got: %s", variant)
	}
	if model == ModelSweep && variant == VariantReduced {
		return errors.Wrap(models.ErrInvalidInput, "the percentage sweep only runs the full scan")
	}

	if err := models.CheckRatio(ParamK, floatParam(params, ParamK, dropout.DefaultK)); err != nil {
		return err
	}
	_, err := threshold.NewSweeper(
		floatParam(params, ParamKStart, threshold.DefaultKStart),
		floatParam(params, ParamKEnd, threshold.DefaultKEnd),
		nil,
	)
	return err
}

// Process thresholds one frame. Aggregation and drop-out evaluation are spread
// over workers; the scan itself is sequential.
func (p *Processor) Process(frame *models.Frame, params map[string]interface{}) (*models.FrameResult, error) {
	if err := p.ValidateParameters(params); err != nil {
		return nil, errors.Wrap(err, "parameter validation failed")
	}
	if frame == nil {
		return nil, errors.Wrap(models.ErrInvalidInput, "nil frame")
	}

	workers := intParam(params, ParamWorkers, 0)
	hists, err := histogram.NewRegionBuilder(workers).Build(frame.Index, frame.Labels)
	if err != nil {
		return nil, errors.Wrap(err, "histogram aggregation failed")
	}
	total := frame.Index.Len()

	result := &models.FrameResult{
		Path:    frame.Path,
		Regions: len(hists),
		Invert:  frame.Invert,
	}

	model := stringParam(params, ParamModel, dropout.NameAverage)
	if model == ModelSweep {
		sweeper, err := threshold.NewSweeper(
			floatParam(params, ParamKStart, threshold.DefaultKStart),
			floatParam(params, ParamKEnd, threshold.DefaultKEnd),
			p.logger,
		)
		if err != nil {
			return nil, err
		}
		best := sweeper.Run(total, hists, frame.Invert)
		result.Raw = best.ThresholdResult
		result.DropOut = best.DropOut
		result.K = best.K
	} else {
		m, err := dropout.New(model, floatParam(params, ParamK, dropout.DefaultK), frame.Invert)
		if err != nil {
			return nil, err
		}
		result.DropOut = dropout.Evaluate(m, hists, workers)
		if stringParam(params, ParamVariant, VariantFull) == VariantReduced {
			result.Raw = threshold.Reduced(total, result.DropOut, histogram.Totals(hists), frame.Invert)
		} else {
			result.Raw = threshold.Full(total, hists, result.DropOut, frame.Invert)
		}
	}

	first, last := result.Raw.Plateau()
	result.Plateau = [2]int{first, last}

	p.logger.Debug("SuperpixelOtsu", "best threshold", map[string]interface{}{
		"path":          frame.Path,
		"model":         model,
		"threshold":     result.Raw.Threshold,
		"variance":      result.Raw.Variance,
		"plateau_first": first,
		"plateau_last":  last,
	})

	if err := p.Remask(frame, result, result.Raw.Threshold); err != nil {
		return nil, err
	}
	return result, nil
}

// Remask rebuilds the mask of a processed frame for threshold t, reusing the
// drop-out values already computed.
func (p *Processor) Remask(frame *models.Frame, result *models.FrameResult, t int) error {
	if frame == nil || frame.Labels == nil {
		return errors.Wrap(models.ErrInvalidInput, "remask needs the frame labels")
	}
	sorted := threshold.SortRegions(result.DropOut, result.Invert)
	result.Mask, result.Accepted = threshold.BuildMask(frame.Labels, sorted, t, result.Invert)
	result.Threshold = t

	p.logger.Debug("SuperpixelOtsu", "mask built", map[string]interface{}{
		"threshold": t,
		"accepted":  result.Accepted,
		"regions":   result.Regions,
	})
	return nil
}

func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func floatParam(params map[string]interface{}, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func intParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key].(int); ok {
		return v
	}
	return def
}
