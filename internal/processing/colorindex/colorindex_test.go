package colorindex

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"superpixel-otsu/internal/models"
)

func TestValues(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    float64
	}{
		{"ExG", 0.2, 0.6, 0.1, 0.9},
		{"ExR", 0.5, 0.25, 0, 0.4},
		{"CIVE", 0, 0, 0, 18.78745},
		{"mExG", 1, 1, 1, 0.067},
		{"VEG", 0, 0.5, 0, 500},
		{"VEG", 1, 0.5, 1, 0.5},
		{"nExG", 0.2, 0.6, 0.2, 0.6},
	}
	for _, test := range tests {
		ix, err := Lookup(test.name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", test.name, err)
		}
		if got := ix.Value(test.r, test.g, test.b); math.Abs(got-test.want) > 1e-9 {
			t.Errorf("%s(%v,%v,%v) = %v, want %v", test.name, test.r, test.g, test.b, got, test.want)
		}
	}
}

func TestPolarity(t *testing.T) {
	for _, name := range Names() {
		ix, err := Lookup(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantInvert := name == "CIVE" || name == "nCIVE"
		if ix.Invert != wantInvert {
			t.Errorf("%s: invert = %v, want %v", name, ix.Invert, wantInvert)
		}
	}
	if _, err := Lookup("NDVI"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestRescale(t *testing.T) {
	got, err := Rescale([]float64{-1, 0, 1, 0.5}, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]uint8{0, 128, 255, 191}, got.Pix); diff != "" {
		t.Errorf("rescale mismatch (-want +got):\n%s", diff)
	}

	flat, err := Rescale([]float64{3, 3}, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]uint8{0, 0}, flat.Pix, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("constant input mismatch (-want +got):\n%s", diff)
	}

	if _, err := Rescale([]float64{1}, 2, 2); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestApplySeparatesPlants(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 40, G: 160, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 120, G: 90, B: 70, A: 255})

	exg, _ := Lookup("ExG")
	out, err := exg.Apply(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Pix[0] != 255 || out.Pix[1] != 0 {
		t.Errorf("ExG = %v, want plant bright", out.Pix)
	}

	cive, _ := Lookup("CIVE")
	out, err = cive.Apply(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Pix[0] != 0 || out.Pix[1] != 255 {
		t.Errorf("CIVE = %v, want plant dark", out.Pix)
	}
}
