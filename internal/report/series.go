// Package report reads and writes threshold series and renders them with
// gonum/plot.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"superpixel-otsu/internal/models"
)

// ReadSeries parses one integer threshold per line. Blank lines are skipped.
func ReadSeries(r io.Reader) ([]int, error) {
	var series []int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.Wrapf(models.ErrInvalidInput, "line %d: %q is not a threshold", line, text)
		}
		if v < 0 || v >= models.Levels {
			return nil, errors.Wrapf(models.ErrInvalidInput, "line %d: threshold %d outside [0,255]", line, v)
		}
		series = append(series, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading series")
	}
	return series, nil
}

// WriteSeries writes one threshold per line.
func WriteSeries(w io.Writer, series []int) error {
	bw := bufio.NewWriter(w)
	for _, v := range series {
		if _, err := fmt.Fprintln(bw, v); err != nil {
			return errors.Wrap(err, "writing series")
		}
	}
	return errors.Wrap(bw.Flush(), "writing series")
}

// Summary describes a threshold series.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes the summary of series. StdDev is the sample standard
// deviation and is 0 for fewer than two values.
func Summarize(series []int) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	values := toFloats(series)
	s := Summary{
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

func (s Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"count":  s.Count,
		"mean":   s.Mean,
		"stddev": s.StdDev,
		"min":    s.Min,
		"max":    s.Max,
	}
}

func toFloats(series []int) []float64 {
	values := make([]float64, len(series))
	for i, v := range series {
		values[i] = float64(v)
	}
	return values
}
