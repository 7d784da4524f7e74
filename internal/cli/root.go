// Package cli wires the configuration, the pipeline and the reports into the
// superpixel-otsu command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"superpixel-otsu/internal/config"
	"superpixel-otsu/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "superpixel-otsu",
	Short: "Superpixel based Otsu thresholding for image sequences",
	Long: `Thresholds color index images region by region: every superpixel is
reduced to a drop-out value, Otsu's method picks the threshold over those
values and the threshold is smoothed across the images of a sequence.`,
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process receives an
// interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.superpixel-otsu.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "also write logs to this file, rotated")
	flags.Bool("log-json", false, "log JSON instead of console output")
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.file", flags.Lookup("log-file"))
	viper.BindPFlag("log.json", flags.Lookup("log-json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(config.Name)
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags ties the flags of the running command to viper keys. Binding at
// run time keeps commands that share a key from overriding each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok || err != nil {
			return
		}
		err = viper.BindPFlag(key, f)
	})
	return errors.Wrap(err, "binding flags")
}

// setup loads the configuration and builds the logger.
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LoggerOptions())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
