package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"superpixel-otsu/internal/report"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a threshold series written by run or regular",
	Long: `Reads one threshold per line (from a file or "-" for stdin), prints its
summary and plots either its evolution over the sequence or its histogram.
The output format follows the extension of --output (png, svg, pdf...).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		histogram, _ := cmd.Flags().GetBool("histogram")
		title, _ := cmd.Flags().GetString("title")

		series, err := readSeries(cmd.InOrStdin(), input)
		if err != nil {
			return err
		}

		s := report.Summarize(series)
		fmt.Fprintf(cmd.OutOrStdout(), "count=%d mean=%.2f stddev=%.2f min=%.0f max=%.0f\n",
			s.Count, s.Mean, s.StdDev, s.Min, s.Max)

		if output == "" {
			return nil
		}
		if histogram {
			return report.PlotHistogram(series, title, output)
		}
		return report.PlotSeries(series, title, output)
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringP("input", "i", "-", "threshold series file, - for stdin")
	plotCmd.Flags().StringP("output", "o", "", "plot file; only the summary is printed when empty")
	plotCmd.Flags().Bool("histogram", false, "plot the distribution instead of the evolution")
	plotCmd.Flags().String("title", "Thresholds", "plot title")
}

func readSeries(stdin io.Reader, path string) ([]int, error) {
	if path == "-" {
		return report.ReadSeries(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return report.ReadSeries(f)
}
