package pipeline

import (
	"github.com/pkg/errors"

	"superpixel-otsu/internal/algorithms"
	"superpixel-otsu/internal/debug/timing"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
)

type frameProcessor struct {
	loader    FrameLoader
	algorithm algorithms.Algorithm
	params    map[string]interface{}
	timing    *timing.Tracker
	logger    logger.Logger
}

// run loads and thresholds one image. It has no sequence state and is safe to
// call from several goroutines.
func (p *frameProcessor) run(path string) (*models.Frame, *models.FrameResult, error) {
	span := p.timing.StartTiming("load")
	frame, err := p.loader.Load(path)
	p.timing.EndTiming(span)
	if err != nil {
		return nil, nil, err
	}

	p.logger.Debug("FrameProcessor", "processing started", map[string]interface{}{
		"algorithm": p.algorithm.GetName(),
		"path":      path,
	})

	span = p.timing.StartTiming("threshold")
	result, err := p.algorithm.Process(frame, p.params)
	elapsed := p.timing.EndTiming(span)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "%s failed on %s", p.algorithm.GetName(), path)
	}

	p.logger.Info("FrameProcessor", "Otsu's segmentation completed", map[string]interface{}{
		"algorithm": p.algorithm.GetName(),
		"path":      path,
		"threshold": result.Raw.Threshold,
		"accepted":  result.Accepted,
		"regions":   result.Regions,
		"elapsed":   elapsed.String(),
	})
	return frame, result, nil
}
