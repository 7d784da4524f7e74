package models

import "github.com/pkg/errors"

// ErrInvalidInput marks every rejected input: mismatched grid shapes, label ids
// that cannot serve as dense array indices, and parameters outside their range.
var ErrInvalidInput = errors.New("invalid input")

// CheckRatio rejects a ratio parameter (alpha, k) outside [0,1].
func CheckRatio(name string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return errors.Wrapf(ErrInvalidInput, "%s must be in [0,1], got %v", name, v)
	}
	return nil
}
