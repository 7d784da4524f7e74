package safe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"superpixel-otsu/internal/models"
)

func TestIntensityRoundTrip(t *testing.T) {
	img, err := models.IntensityFromRows([][]uint8{
		{0, 10, 20},
		{30, 40, 255},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mat, err := NewMatFromIntensity(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer mat.Close()

	if mat.Rows() != 2 || mat.Cols() != 3 || mat.Channels() != 1 {
		t.Fatalf("got %dx%dx%d, want 2x3x1", mat.Rows(), mat.Cols(), mat.Channels())
	}
	back, err := mat.ToIntensity()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(img, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	img := models.NewIntensityImage(4, 4)
	mat, err := NewMatFromIntensity(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mat.Close()
	mat.Close()
	if mat.IsValid() || !mat.Empty() {
		t.Error("closed Mat still reports valid data")
	}
	if _, err := mat.ToIntensity(); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestToLabelsRejectsWrongType(t *testing.T) {
	mat, err := NewMatFromIntensity(models.NewIntensityImage(2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer mat.Close()
	if _, err := mat.ToLabels(); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestNewMatRejectsDimensions(t *testing.T) {
	if _, err := NewMatFromIntensity(models.NewIntensityImage(0, 3)); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}
