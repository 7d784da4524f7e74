package segmentation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"superpixel-otsu/internal/models"
)

func TestGrid(t *testing.T) {
	got, err := Grid(5, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{
		0, 0, 1, 1, 2,
		0, 0, 1, 1, 2,
		3, 3, 4, 4, 5,
	}
	if diff := cmp.Diff(want, got.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestGridRejects(t *testing.T) {
	for _, c := range [][3]int{{0, 4, 2}, {4, 4, 0}, {4, -1, 2}} {
		if _, err := Grid(c[0], c[1], c[2]); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Grid%v: got %v, want ErrInvalidInput", c, err)
		}
	}
}

func TestComponents(t *testing.T) {
	img, err := models.IntensityFromRows([][]uint8{
		{10, 10, 200, 10},
		{10, 10, 200, 10},
		{200, 200, 200, 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Components(img, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{
		0, 0, 1, 2,
		0, 0, 1, 2,
		1, 1, 1, 2,
	}
	if diff := cmp.Diff(want, got.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestComponentsSubdivided(t *testing.T) {
	img := models.NewIntensityImage(4, 2)
	got, err := Components(img, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 0, 1, 1, 0, 0, 1, 1}
	if diff := cmp.Diff(want, got.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	if _, err := New("slic", 8, 4); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
	s, err := New(MethodGrid, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labels, err := s.Segment(models.NewIntensityImage(4, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labels.Labels[15] != 3 {
		t.Errorf("last cell id = %d, want 3", labels.Labels[15])
	}
}
