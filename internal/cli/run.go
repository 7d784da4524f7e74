package cli

import (
	"github.com/spf13/cobra"

	"superpixel-otsu/internal/algorithms/regular"
	"superpixel-otsu/internal/algorithms/superpixel"
	"superpixel-otsu/internal/views"
)

var runCmd = &cobra.Command{
	Use:   "run [images...]",
	Short: "Threshold a sequence of images with superpixel Otsu",
	Long: `Processes the images in order as one sequence and prints the smoothed
threshold of every image, one per line.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, sequenceFlags)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSequence(cmd, args, superpixel.Name)
	},
}

var regularCmd = &cobra.Command{
	Use:   "regular [images...]",
	Short: "Threshold a sequence of images with pixel-level Otsu",
	Long: `Baseline for comparison: classic Otsu over all pixels of the color index
image, smoothed across the sequence like the superpixel variant.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, sequenceFlags)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSequence(cmd, args, regular.Name)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, regularCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().StringSliceP("images", "i", nil, "input images, in sequence order")
		addSequenceFlags(cmd, cmd == runCmd)
	}
}

func runSequence(cmd *cobra.Command, args []string, algorithm string) error {
	paths, err := imagePaths(cmd, args)
	if err != nil {
		return err
	}
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	seq, err := newSequence(cfg, log, algorithm)
	if err != nil {
		return err
	}

	entries, err := seq.coordinator.RunSequence(cmd.Context(), paths)
	if err != nil {
		return err
	}
	if err := seq.finish(cmd.OutOrStdout(), entries); err != nil {
		return err
	}

	if cfg.Display {
		views.Run("superpixel-otsu: "+algorithm, entries)
	}
	return nil
}
