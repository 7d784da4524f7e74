package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMaskToGray(t *testing.T) {
	m := NewMask(3, 2)
	m.Pix[1] = true
	m.Pix[5] = true

	g := m.ToGray()
	if b := g.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	want := []uint8{0, 255, 0, 0, 0, 255}
	if diff := cmp.Diff(want, g.Pix); diff != "" {
		t.Errorf("gray pixels mismatch (-want +got):\n%s", diff)
	}
	if m.Count() != 2 {
		t.Errorf("count = %d, want 2", m.Count())
	}
}

func TestIntensityGrayRoundTrip(t *testing.T) {
	img, err := IntensityFromRows([][]uint8{{0, 10, 20}, {30, 40, 255}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back := IntensityFromGray(img.ToGray())
	if diff := cmp.Diff(img, back); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if _, err := IntensityFromRows([][]uint8{{1, 2}, {3}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ragged rows: got %v, want ErrInvalidInput", err)
	}
}
