package pipeline

import (
	"context"
	"runtime"

	"github.com/pkg/errors"

	"superpixel-otsu/internal/algorithms"
	"superpixel-otsu/internal/debug/timing"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/processing/temporal"
)

// Options configures a Coordinator.
type Options struct {
	// Workers bounds the images loaded and thresholded at once. Below 1 it
	// defaults to runtime.NumCPU().
	Workers int
	// Alpha is the recency weight of the temporal smoother.
	Alpha  float64
	Params map[string]interface{}
	// KeepFrames retains the decoded frame and full result in every
	// SequenceEntry. Only the viewer needs them.
	KeepFrames bool
}

// Coordinator runs an algorithm over a sequence of images. Images are loaded
// and thresholded concurrently; the smoothing, remasking and saving that
// follow happen strictly in input order.
type Coordinator struct {
	processor *frameProcessor
	alpha     float64
	workers   int
	keep      bool
	saver     ResultSaver
	baseline  algorithms.Algorithm
	timing    *timing.Tracker
	logger    logger.Logger
}

func NewCoordinator(loader FrameLoader, algorithm algorithms.Algorithm, opts Options, log logger.Logger) (*Coordinator, error) {
	if loader == nil || algorithm == nil {
		return nil, errors.Wrap(models.ErrInvalidInput, "coordinator needs a loader and an algorithm")
	}
	if err := models.CheckRatio("alpha", opts.Alpha); err != nil {
		return nil, err
	}
	if err := algorithm.ValidateParameters(opts.Params); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	log = logger.OrNop(log)
	tracker := timing.NewTracker()
	return &Coordinator{
		processor: &frameProcessor{
			loader:    loader,
			algorithm: algorithm,
			params:    opts.Params,
			timing:    tracker,
			logger:    log,
		},
		alpha:   opts.Alpha,
		workers: workers,
		keep:    opts.KeepFrames,
		timing:  tracker,
		logger:  log,
	}, nil
}

// WithSaver persists every finished frame through s.
func (c *Coordinator) WithSaver(s ResultSaver) *Coordinator {
	c.saver = s
	return c
}

// WithBaseline logs how every final mask compares with the mask of alg.
func (c *Coordinator) WithBaseline(alg algorithms.Algorithm) *Coordinator {
	c.baseline = alg
	return c
}

// Timings exposes the per-stage durations recorded so far.
func (c *Coordinator) Timings() *timing.Tracker {
	return c.timing
}

// NewSequence starts a fresh smoothing state.
func (c *Coordinator) NewSequence() (*temporal.Smoother, error) {
	return temporal.NewSmoother(c.alpha)
}

type slot struct {
	frame  *models.Frame
	result *models.FrameResult
	err    error
	done   chan struct{}
}

// RunSequence processes paths as one sequence and returns an entry per image
// in input order. The first failure or a cancelled ctx aborts the run.
func (c *Coordinator) RunSequence(ctx context.Context, paths []string) ([]SequenceEntry, error) {
	seq, err := c.NewSequence()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]*slot, len(paths))
	for i := range slots {
		slots[i] = &slot{done: make(chan struct{})}
	}

	go func() {
		sem := make(chan struct{}, c.workers)
		for i, path := range paths {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				for _, s := range slots[i:] {
					s.err = ctx.Err()
					close(s.done)
				}
				return
			}
			go func(s *slot, path string) {
				defer func() {
					<-sem
					close(s.done)
				}()
				if err := ctx.Err(); err != nil {
					s.err = err
					return
				}
				s.frame, s.result, s.err = c.processor.run(path)
			}(slots[i], path)
		}
	}()

	entries := make([]SequenceEntry, 0, len(paths))
	for i, s := range slots {
		<-s.done
		if s.err != nil {
			return nil, errors.Wrapf(s.err, "image %d (%s)", i, paths[i])
		}
		entry, err := c.finish(seq, s.frame, s.result)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ProcessNext appends one image to the sequence carried by seq.
func (c *Coordinator) ProcessNext(ctx context.Context, path string, seq *temporal.Smoother) (SequenceEntry, error) {
	if err := ctx.Err(); err != nil {
		return SequenceEntry{}, err
	}
	frame, result, err := c.processor.run(path)
	if err != nil {
		return SequenceEntry{}, err
	}
	return c.finish(seq, frame, result)
}

func (c *Coordinator) finish(seq *temporal.Smoother, frame *models.Frame, result *models.FrameResult) (SequenceEntry, error) {
	raw := result.Raw.Threshold
	previous, _ := seq.Last()
	smoothed := seq.Update(raw)
	if smoothed != raw {
		span := c.timing.StartTiming("remask")
		err := c.processor.algorithm.Remask(frame, result, smoothed)
		c.timing.EndTiming(span)
		if err != nil {
			return SequenceEntry{}, errors.Wrapf(err, "remask %s", frame.Path)
		}
		c.logger.Info("Coordinator", "recency corrected", map[string]interface{}{
			"path":     frame.Path,
			"previous": previous,
			"raw":      raw,
			"smoothed": smoothed,
		})
	}

	if c.baseline != nil {
		c.compare(frame, result)
	}

	if c.saver != nil {
		span := c.timing.StartTiming("save")
		err := c.saver.Save(frame, result)
		c.timing.EndTiming(span)
		if err != nil {
			return SequenceEntry{}, err
		}
	}

	entry := SequenceEntry{
		Path:     frame.Path,
		Raw:      raw,
		Smoothed: smoothed,
		Mask:     result.Mask,
	}
	if c.keep {
		entry.Frame, entry.Result = frame, result
	}
	return entry, nil
}

func (c *Coordinator) compare(frame *models.Frame, result *models.FrameResult) {
	ref, err := c.baseline.Process(frame, nil)
	if err != nil {
		c.logger.Warning("Coordinator", "baseline failed", map[string]interface{}{
			"path":  frame.Path,
			"error": err.Error(),
		})
		return
	}
	metrics, err := CompareMasks(result.Mask, ref.Mask)
	if err != nil {
		c.logger.Error("Coordinator", err, map[string]interface{}{"path": frame.Path})
		return
	}
	fields := metrics.Fields()
	fields["path"] = frame.Path
	fields["baseline_threshold"] = ref.Threshold
	c.logger.Info("Coordinator", "baseline comparison", fields)
}
