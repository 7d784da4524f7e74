// Package config holds the typed run configuration and its viper bindings.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"superpixel-otsu/internal/algorithms/dropout"
	"superpixel-otsu/internal/algorithms/superpixel"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
	"superpixel-otsu/internal/processing/colorindex"
	"superpixel-otsu/internal/processing/segmentation"
	"superpixel-otsu/internal/processing/threshold"
)

// EnvPrefix prefixes every environment override, e.g. SPOTSU_ALPHA.
const EnvPrefix = "SPOTSU"

// Name is the base name of the default config file, looked up in $HOME.
const Name = ".superpixel-otsu"

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	JSON       bool   `mapstructure:"json"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Report struct {
	Plot      string `mapstructure:"plot"`
	Histogram string `mapstructure:"histogram"`
}

type Config struct {
	Model       string  `mapstructure:"model"`
	K           float64 `mapstructure:"k"`
	KStart      float64 `mapstructure:"k_start"`
	KEnd        float64 `mapstructure:"k_end"`
	Variant     string  `mapstructure:"variant"`
	Alpha       float64 `mapstructure:"alpha"`
	ColorIndex  string  `mapstructure:"color_index"`
	Segmenter   string  `mapstructure:"segmenter"`
	RegionSize  int     `mapstructure:"region_size"`
	Bands       int     `mapstructure:"bands"`
	ResizeWidth int     `mapstructure:"resize_width"`
	Workers     int     `mapstructure:"workers"`
	Save        bool    `mapstructure:"save"`
	SaveIndex   bool    `mapstructure:"save_index"`
	OutputDir   string  `mapstructure:"output_dir"`
	Display     bool    `mapstructure:"display"`
	Compare     bool    `mapstructure:"compare"`
	Log         Log     `mapstructure:"log"`
	Report      Report  `mapstructure:"report"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Model:      dropout.NameAverage,
		K:          dropout.DefaultK,
		KStart:     threshold.DefaultKStart,
		KEnd:       threshold.DefaultKEnd,
		Variant:    superpixel.VariantFull,
		Alpha:      1,
		ColorIndex: colorindex.DefaultName,
		Segmenter:  segmentation.MethodGrid,
		RegionSize: 8,
		Bands:      16,
		Log: Log{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// SetDefaults registers Default on v so that file, environment and flags
// override it key by key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("model", d.Model)
	v.SetDefault("k", d.K)
	v.SetDefault("k_start", d.KStart)
	v.SetDefault("k_end", d.KEnd)
	v.SetDefault("variant", d.Variant)
	v.SetDefault("alpha", d.Alpha)
	v.SetDefault("color_index", d.ColorIndex)
	v.SetDefault("segmenter", d.Segmenter)
	v.SetDefault("region_size", d.RegionSize)
	v.SetDefault("bands", d.Bands)
	v.SetDefault("resize_width", d.ResizeWidth)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("save", d.Save)
	v.SetDefault("save_index", d.SaveIndex)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("display", d.Display)
	v.SetDefault("compare", d.Compare)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("report.plot", d.Report.Plot)
	v.SetDefault("report.histogram", d.Report.Histogram)
}

// BindEnv enables SPOTSU_ prefixed environment overrides, with dots in nested
// keys replaced by underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown names and out of range values.
func (c *Config) Validate() error {
	if err := superpixel.NewProcessor(nil).ValidateParameters(c.Params()); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if err := models.CheckRatio("alpha", c.Alpha); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, err := colorindex.Lookup(c.ColorIndex); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, err := c.NewSegmenter(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if c.RegionSize < 1 {
		return errors.Wrapf(models.ErrInvalidInput, "invalid configuration: region_size must be positive, got: %d", c.RegionSize)
	}
	if c.Segmenter == segmentation.MethodComponents && (c.Bands < 1 || c.Bands > models.Levels) {
		return errors.Wrapf(models.ErrInvalidInput, "invalid configuration: bands must be in [1,256], got: %d", c.Bands)
	}
	if c.ResizeWidth < 0 || c.Workers < 0 {
		return errors.Wrap(models.ErrInvalidInput, "invalid configuration: resize_width and workers must not be negative")
	}
	return nil
}

// Params returns the superpixel processor parameters.
func (c *Config) Params() map[string]interface{} {
	return map[string]interface{}{
		superpixel.ParamModel:   c.Model,
		superpixel.ParamK:       c.K,
		superpixel.ParamVariant: c.Variant,
		superpixel.ParamKStart:  c.KStart,
		superpixel.ParamKEnd:    c.KEnd,
		superpixel.ParamWorkers: c.Workers,
	}
}

func (c *Config) NewSegmenter() (segmentation.Segmenter, error) {
	return segmentation.New(c.Segmenter, c.RegionSize, c.Bands)
}

func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		File:       c.Log.File,
		JSON:       c.Log.JSON,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}
