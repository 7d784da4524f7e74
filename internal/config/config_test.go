package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"superpixel-otsu/internal/models"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "model: perc\nk: 0.6\ncolor_index: ExG\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPOTSU_ALPHA", "0.5")
	t.Setenv("SPOTSU_LOG_JSON", "true")

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Default()
	want.Model = "perc"
	want.K = 0.6
	want.ColorIndex = "ExG"
	want.Alpha = 0.5
	want.Log.Level = "debug"
	want.Log.JSON = true
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"alpha", func(c *Config) { c.Alpha = 1.2 }},
		{"k", func(c *Config) { c.K = -0.1 }},
		{"window", func(c *Config) { c.KStart, c.KEnd = 0.9, 0.1 }},
		{"model", func(c *Config) { c.Model = "mode" }},
		{"variant", func(c *Config) { c.Variant = "fast" }},
		{"index", func(c *Config) { c.ColorIndex = "NDVI" }},
		{"segmenter", func(c *Config) { c.Segmenter = "slic" }},
		{"region size", func(c *Config) { c.RegionSize = 0 }},
		{"bands", func(c *Config) { c.Segmenter, c.Bands = "components", 0 }},
		{"workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestParams(t *testing.T) {
	cfg := Default()
	cfg.Model = "sweep"
	want := map[string]interface{}{
		"model":   "sweep",
		"k":       0.7,
		"variant": "full",
		"k_start": 0.2,
		"k_end":   0.8,
		"workers": 0,
	}
	if diff := cmp.Diff(want, cfg.Params()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}
