package cli

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// execute runs the root command with an empty config file so that the
// caller's home directory does not leak into the test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeField(t *testing.T, path string, soil color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.NRGBA{R: 40, G: 170, B: 30, A: 255}
			if x >= 8 {
				c = soil
			}
			img.SetNRGBA(x, y, c)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
}

func TestRunPrintsThresholds(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeField(t, a, color.NRGBA{R: 130, G: 100, B: 80, A: 255})
	writeField(t, b, color.NRGBA{R: 150, G: 90, B: 70, A: 255})

	out, err := execute(t, "run", "-i", a, "-i", b, "--region-size", "4", "--save", "--workers", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 {
		t.Fatalf("got output %q, want two thresholds", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_sprseg_CIVE.png")); err != nil {
		t.Errorf("mask not saved: %v", err)
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	if _, err := execute(t, "run", "-i", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected an error for a missing image")
	}
}

func TestPlotSummary(t *testing.T) {
	dir := t.TempDir()
	series := filepath.Join(dir, "thresholds.txt")
	if err := os.WriteFile(series, []byte("100\n110\n120\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	png := filepath.Join(dir, "plot.png")

	out, err := execute(t, "plot", "-i", series, "-o", png)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "count=3 mean=110.00 stddev=10.00 min=100 max=120") {
		t.Errorf("unexpected summary %q", out)
	}
	if _, err := os.Stat(png); err != nil {
		t.Errorf("plot not written: %v", err)
	}
}
