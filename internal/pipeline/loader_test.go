package pipeline

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/processing/colorindex"
	"superpixel-otsu/internal/processing/segmentation"
)

// writeField saves a 16×8 image with green plants on the left half and soil on
// the right half.
func writeField(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			c := color.NRGBA{R: 40, G: 170, B: 30, A: 255}
			if x >= 8 {
				c = color.NRGBA{R: 130, G: 100, B: 80, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newTestLoader(t *testing.T, resize int) *ImageLoader {
	t.Helper()
	index, err := colorindex.Lookup("CIVE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewLoader(index, segmentation.GridSegmenter{Size: 4}, resize, nil)
}

func TestLoaderBuildsFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.png")
	writeField(t, path)

	frame, err := newTestLoader(t, 0).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !frame.Invert {
		t.Error("CIVE frames must be inverted")
	}
	if frame.Index.Width != 16 || frame.Index.Height != 8 || !frame.Labels.SameShape(frame.Index) {
		t.Fatalf("unexpected shapes: index %dx%d", frame.Index.Width, frame.Index.Height)
	}
	if frame.Index.At(0, 0) != 0 || frame.Index.At(15, 7) != 255 {
		t.Errorf("plants should be darkest and soil brightest, got %d and %d", frame.Index.At(0, 0), frame.Index.At(15, 7))
	}
	if got := frame.Labels.At(15, 7); got != 7 {
		t.Errorf("last grid cell = %d, want 7", got)
	}
}

func TestLoaderResizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.png")
	writeField(t, path)

	frame, err := newTestLoader(t, 8).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Index.Width != 8 || frame.Index.Height != 4 {
		t.Errorf("resized to %dx%d, want 8x4", frame.Index.Width, frame.Index.Height)
	}
}

func TestLoaderRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestLoader(t, 0).Load(path); err == nil {
		t.Error("expected an error for a text file")
	}
	if IsImage(path) || !IsImage("a/b/frame.JPG") {
		t.Error("IsImage misclassified extensions")
	}
}

func TestSaverNamesOutputs(t *testing.T) {
	dir := t.TempDir()
	frame := &models.Frame{Path: "/data/day1/frame01.jpg", Index: models.NewIntensityImage(4, 4)}
	result := &models.FrameResult{Mask: models.NewMask(4, 4)}
	result.Mask.Pix[0] = true

	saver := NewSaver(dir, "CIVE", true, nil)
	if err := saver.Save(frame, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"frame01_CIVE.jpg", "frame01_sprseg_CIVE.jpg"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}

	for _, name := range names {
		if !saver.Owns(filepath.Join(dir, name)) {
			t.Errorf("saver does not recognise its own output %s", name)
		}
	}
	if saver.Owns("/data/day1/frame01.jpg") {
		t.Error("saver claims an input image")
	}
}

func TestSaverFallsBackToPNG(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir, "ExG", false, nil)
	frame := &models.Frame{Path: "scan.raw"}
	if err := saver.Save(frame, &models.FrameResult{Mask: models.NewMask(2, 2)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan_sprseg_ExG.png")); err != nil {
		t.Errorf("expected PNG mask: %v", err)
	}
}
