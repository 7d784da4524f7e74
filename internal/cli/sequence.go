package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"superpixel-otsu/internal/algorithms"
	"superpixel-otsu/internal/algorithms/regular"
	"superpixel-otsu/internal/algorithms/superpixel"
	"superpixel-otsu/internal/config"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/pipeline"
	"superpixel-otsu/internal/processing/colorindex"
	"superpixel-otsu/internal/report"
)

// sequenceFlags maps flag names to configuration keys.
var sequenceFlags = map[string]string{
	"model":        "model",
	"k":            "k",
	"k-start":      "k_start",
	"k-end":        "k_end",
	"variant":      "variant",
	"alpha":        "alpha",
	"color-index":  "color_index",
	"segmenter":    "segmenter",
	"region-size":  "region_size",
	"bands":        "bands",
	"resize-width": "resize_width",
	"workers":      "workers",
	"save":         "save",
	"save-index":   "save_index",
	"output-dir":   "output_dir",
	"display":      "display",
	"compare":      "compare",
	"plot":         "report.plot",
	"histogram":    "report.histogram",
}

func addSequenceFlags(cmd *cobra.Command, withModel bool) {
	d := config.Default()
	flags := cmd.Flags()
	if withModel {
		flags.StringP("model", "m", d.Model, "drop-out model: avg, med, perc or sweep")
		flags.Float64P("k", "k", d.K, "acceptance fraction of the perc model")
		flags.Float64("k-start", d.KStart, "lowest fraction tried by the sweep")
		flags.Float64("k-end", d.KEnd, "highest fraction tried by the sweep")
		flags.String("variant", d.Variant, "scan variant: full or reduced")
		flags.String("segmenter", d.Segmenter, "region generator: grid or components")
		flags.Int("region-size", d.RegionSize, "grid cell size in pixels")
		flags.Int("bands", d.Bands, "intensity bands of the components segmenter")
		flags.Bool("compare", d.Compare, "log agreement with the pixel-level baseline")
	}
	flags.Float64P("alpha", "a", d.Alpha, "recency factor in [0,1]; lower values mean longer memory")
	flags.StringP("color-index", "x", d.ColorIndex, "color index: CIVE, ExG, ExR, mExG, VEG, or n-prefixed normalised variants")
	flags.Int("resize-width", d.ResizeWidth, "downsize wider images to this width (0 keeps the size)")
	flags.IntP("workers", "w", d.Workers, "images processed at once (0 uses every CPU)")
	flags.BoolP("save", "s", d.Save, "save masks as <name>_sprseg_<INDEX><ext>")
	flags.Bool("save-index", d.SaveIndex, "also save the color index images")
	flags.StringP("output-dir", "o", d.OutputDir, "directory for saved images (default: next to the input)")
	flags.BoolP("display", "d", d.Display, "show the results in a window")
	flags.String("plot", d.Report.Plot, "write a threshold evolution plot to this file")
	flags.String("histogram", d.Report.Histogram, "write a threshold histogram to this file")
}

type sequence struct {
	cfg         *config.Config
	log         logger.Logger
	index       colorindex.Index
	coordinator *pipeline.Coordinator
	saver       *pipeline.ImageSaver
}

func newSequence(cfg *config.Config, log logger.Logger, algorithm string) (*sequence, error) {
	index, err := colorindex.Lookup(cfg.ColorIndex)
	if err != nil {
		return nil, err
	}
	segmenter, err := cfg.NewSegmenter()
	if err != nil {
		return nil, err
	}

	manager := algorithms.NewManager(log)
	if err := manager.SetCurrentAlgorithm(algorithm); err != nil {
		return nil, err
	}
	if algorithm == superpixel.Name {
		if err := manager.SetParameters(algorithm, cfg.Params()); err != nil {
			return nil, err
		}
	}
	alg, params := manager.Current()

	loader := pipeline.NewLoader(index, segmenter, cfg.ResizeWidth, log)
	coord, err := pipeline.NewCoordinator(loader, alg, pipeline.Options{
		Workers:    cfg.Workers,
		Alpha:      cfg.Alpha,
		Params:     params,
		KeepFrames: cfg.Display,
	}, log)
	if err != nil {
		return nil, err
	}

	seq := &sequence{cfg: cfg, log: log, index: index, coordinator: coord}
	if cfg.Save {
		seq.saver = pipeline.NewSaver(cfg.OutputDir, index.Name, cfg.SaveIndex, log)
		coord.WithSaver(seq.saver)
	}
	if cfg.Compare && algorithm != regular.Name {
		baseline, err := manager.GetAlgorithm(regular.Name)
		if err != nil {
			return nil, err
		}
		coord.WithBaseline(baseline)
	}

	log.Info("CLI", "sequence configured", map[string]interface{}{
		"algorithm":   algorithm,
		"color_index": index.Name,
		"invert":      index.Invert,
		"alpha":       cfg.Alpha,
		"params":      params,
	})
	return seq, nil
}

// finish prints the smoothed thresholds, logs their summary and renders the
// configured reports.
func (s *sequence) finish(out io.Writer, entries []pipeline.SequenceEntry) error {
	series := make([]int, len(entries))
	for i, e := range entries {
		series[i] = e.Smoothed
	}
	if err := report.WriteSeries(out, series); err != nil {
		return err
	}
	s.log.Info("CLI", "sequence finished", report.Summarize(series).Fields())
	s.log.Debug("CLI", "stage timings", s.coordinator.Timings().Fields())

	title := "Thresholds (" + s.index.Name + ")"
	if path := s.cfg.Report.Plot; path != "" {
		if err := report.PlotSeries(series, title, path); err != nil {
			return err
		}
	}
	if path := s.cfg.Report.Histogram; path != "" {
		if err := report.PlotHistogram(series, title, path); err != nil {
			return err
		}
	}
	return nil
}

// imagePaths merges the -i flag values with positional arguments.
func imagePaths(cmd *cobra.Command, args []string) ([]string, error) {
	paths, err := cmd.Flags().GetStringSlice("images")
	if err != nil {
		return nil, errors.Wrap(err, "reading --images")
	}
	paths = append(paths, args...)
	if len(paths) == 0 {
		return nil, errors.New("no input images, use -i or pass paths as arguments")
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, errors.Wrapf(err, "input %s", p)
		}
	}
	return paths, nil
}
