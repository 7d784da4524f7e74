package pipeline

import (
	"superpixel-otsu/internal/models"
)

// FrameLoader turns an image path into a frame ready for thresholding.
type FrameLoader interface {
	Load(path string) (*models.Frame, error)
}

// ResultSaver persists the outcome of one frame.
type ResultSaver interface {
	Save(frame *models.Frame, result *models.FrameResult) error
}

// SequenceEntry is the per-image output of a sequence run. Frame and Result
// are set only when the coordinator keeps frames.
type SequenceEntry struct {
	Path     string
	Raw      int
	Smoothed int
	Mask     *models.Mask
	Frame    *models.Frame
	Result   *models.FrameResult
}
