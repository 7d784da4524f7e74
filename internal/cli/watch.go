package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"superpixel-otsu/internal/algorithms/superpixel"
	"superpixel-otsu/internal/pipeline"
	"superpixel-otsu/internal/views"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Threshold images as they appear in a directory",
	Long: `Treats the images written into DIR as one live sequence and prints the
smoothed threshold of each as soon as it is processed. Stops on interrupt.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, sequenceFlags)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return errors.Errorf("%s is not a directory", dir)
		}
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		seq, err := newSequence(cfg, log, superpixel.Name)
		if err != nil {
			return err
		}

		watcher := pipeline.NewWatcher(seq.coordinator, dir, log)
		if seq.saver != nil {
			watcher.WithIgnore(seq.saver.Owns)
		}

		out := cmd.OutOrStdout()
		emit := func(e pipeline.SequenceEntry) { fmt.Fprintln(out, e.Smoothed) }

		if !cfg.Display {
			return watcher.Run(cmd.Context(), emit)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		var runErr error
		views.RunLive("superpixel-otsu: "+dir, func(rv *views.ResultView) {
			runErr = watcher.Run(ctx, func(e pipeline.SequenceEntry) {
				emit(e)
				rv.Append(e)
			})
		})
		// The window is closed; stop the watcher.
		cancel()
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addSequenceFlags(watchCmd, true)
}
