// Package safe wraps gocv matrices so that they are closed exactly once and
// can be converted to and from the pure-Go image types.
package safe

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"superpixel-otsu/internal/models"
)

type Mat struct {
	mat     gocv.Mat
	isValid int32
	mu      sync.RWMutex
	id      uint64
}

var nextMatID uint64

// NewMatFromIntensity copies an intensity image into a single channel 8-bit
// matrix.
func NewMatFromIntensity(img *models.IntensityImage) (*Mat, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, errors.Wrap(models.ErrInvalidInput, "empty intensity image")
	}
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC1, img.Pix)
	if err != nil {
		return nil, errors.Wrap(err, "creating Mat from intensity image")
	}
	// NewMatFromBytes shares the Go slice; clone so the Mat owns its data.
	owned := mat.Clone()
	mat.Close()
	return wrap(owned), nil
}

// Adopt takes ownership of a Mat produced by a gocv call.
func Adopt(mat gocv.Mat) (*Mat, error) {
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("source Mat is empty")
	}
	return wrap(mat), nil
}

func wrap(mat gocv.Mat) *Mat {
	sm := &Mat{
		mat:     mat,
		isValid: 1,
		id:      atomic.AddUint64(&nextMatID, 1),
	}
	runtime.SetFinalizer(sm, (*Mat).finalize)
	return sm
}

func (sm *Mat) IsValid() bool {
	return atomic.LoadInt32(&sm.isValid) == 1
}

func (sm *Mat) Empty() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return true
	}
	return sm.mat.Empty()
}

func (sm *Mat) Rows() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Rows()
}

func (sm *Mat) Cols() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Cols()
}

func (sm *Mat) Channels() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Channels()
}

func (sm *Mat) Type() gocv.MatType {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return gocv.MatTypeCV8UC1
	}
	return sm.mat.Type()
}

// GetMat exposes the underlying matrix. It stays owned by sm.
func (sm *Mat) GetMat() gocv.Mat {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.mat
}

func (sm *Mat) ID() uint64 {
	return sm.id
}

// ToIntensity copies a single channel 8-bit matrix out as an intensity image.
func (sm *Mat) ToIntensity() (*models.IntensityImage, error) {
	if err := ValidateMatType(sm, gocv.MatTypeCV8UC1, "ToIntensity"); err != nil {
		return nil, err
	}
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	img := models.NewIntensityImage(sm.mat.Cols(), sm.mat.Rows())
	copy(img.Pix, sm.mat.ToBytes())
	return img, nil
}

// ToLabels reads a 32-bit signed label matrix, as written by the connected
// component functions, into a label map.
func (sm *Mat) ToLabels() (*models.LabelMap, error) {
	if err := ValidateMatType(sm, gocv.MatTypeCV32SC1, "ToLabels"); err != nil {
		return nil, err
	}
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	rows, cols := sm.mat.Rows(), sm.mat.Cols()
	labels := models.NewLabelMap(cols, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			labels.Set(x, y, int(sm.mat.GetIntAt(y, x)))
		}
	}
	return labels, nil
}

func (sm *Mat) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if atomic.CompareAndSwapInt32(&sm.isValid, 1, 0) {
		if !sm.mat.Empty() {
			sm.mat.Close()
		}
		runtime.SetFinalizer(sm, nil)
	}
}

// finalize releases the native memory if Close was never called.
func (sm *Mat) finalize() {
	if atomic.LoadInt32(&sm.isValid) == 1 {
		sm.Close()
	}
}
