package algorithms

import (
	"superpixel-otsu/internal/models"
)

// Algorithm thresholds one frame and can rebuild its mask for another
// threshold without recomputing the scan.
type Algorithm interface {
	Process(frame *models.Frame, params map[string]interface{}) (*models.FrameResult, error)
	Remask(frame *models.Frame, result *models.FrameResult, t int) error
	ValidateParameters(params map[string]interface{}) error
	GetDefaultParameters() map[string]interface{}
	GetName() string
}
