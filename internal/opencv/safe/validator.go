package safe

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"superpixel-otsu/internal/models"
)

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return errors.Wrapf(models.ErrInvalidInput, "Mat is nil for operation: %s", operation)
	}
	if !mat.IsValid() {
		return errors.Wrapf(models.ErrInvalidInput, "Mat is invalid for operation: %s", operation)
	}
	if mat.Empty() {
		return errors.Wrapf(models.ErrInvalidInput, "Mat is empty for operation: %s", operation)
	}
	return nil
}

func ValidateMatType(mat *Mat, want gocv.MatType, operation string) error {
	if err := ValidateMatForOperation(mat, operation); err != nil {
		return err
	}
	if got := mat.Type(); got != want {
		return errors.Wrapf(models.ErrInvalidInput, "%s requires Mat type %v, got %v", operation, want, got)
	}
	return nil
}
