package report

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"superpixel-otsu/internal/models"
)

// Plot dimensions.
const (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// PlotSeries draws the threshold of every image against its position in the
// sequence and saves it to path. The format follows the extension.
func PlotSeries(series []int, title, path string) error {
	if len(series) == 0 {
		return errors.Wrap(models.ErrInvalidInput, "empty series")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "image"
	p.Y.Label.Text = "threshold"
	p.Y.Min, p.Y.Max = 0, models.Levels-1

	points := make(plotter.XYs, len(series))
	for i, v := range series {
		points[i].X = float64(i)
		points[i].Y = float64(v)
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrap(err, "building line")
	}
	p.Add(line, plotter.NewGrid())

	return errors.Wrapf(p.Save(PlotWidth, PlotHeight, path), "saving %s", path)
}

// PlotHistogram draws the distribution of thresholds over 256 bins.
func PlotHistogram(series []int, title, path string) error {
	if len(series) == 0 {
		return errors.Wrap(models.ErrInvalidInput, "empty series")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "threshold"
	p.Y.Label.Text = "images"
	p.X.Min, p.X.Max = 0, models.Levels-1

	hist, err := plotter.NewHist(plotter.Values(toFloats(series)), models.Levels)
	if err != nil {
		return errors.Wrap(err, "building histogram")
	}
	p.Add(hist)

	return errors.Wrapf(p.Save(PlotWidth, PlotHeight, path), "saving %s", path)
}
