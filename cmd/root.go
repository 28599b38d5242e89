/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/kaleidoscope/config"
	"github.com/mmuldo/kaleidoscope/extract"
	"github.com/mmuldo/kaleidoscope/image"
	"github.com/mmuldo/kaleidoscope/store"
)

var (
	cfgFile string
	verbose bool
	v       *viper.Viper
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kaleidoscope",
	Short: "Matches the dominant colors of an image against a reference palette",
	Long: `kaleidoscope reduces an image to its dominant colors, matches each one to
the closest color of a configured palette and stores how much of the image
each color covers.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if e := rootCmd.ExecuteContext(ctx); e != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kaleidoscope.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v = config.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, e := homedir.Dir()
		if e != nil {
			fmt.Fprintln(os.Stderr, e)
			os.Exit(1)
		}
		v.AddConfigPath(home)
		v.SetConfigName(".kaleidoscope")
	}

	if e := v.ReadInConfig(); e != nil {
		if _, ok := e.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config:", e)
			os.Exit(1)
		}
	}
}

func newLogger() hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "kaleidoscope",
		Output: os.Stderr,
		Level:  level,
	})
}

// newPipeline builds a pipeline with one store per owner kind.
// An invalid color in the configuration is reported here, before any run.
func newPipeline(kinds []string, logger hclog.Logger) (*extract.Pipeline, *config.Config, error) {
	cfg, e := config.FromViper(v)
	if e != nil {
		return nil, nil, e
	}

	p, e := cfg.Palette()
	if e != nil {
		logger.Error("invalid palette", "error", e)
		return nil, nil, e
	}
	if p.Len() > 0 {
		logger.Debug("loaded palette", "colors", p.Len())
	}

	reg := store.NewRegistry()
	for _, k := range kinds {
		s, e := cfg.OpenStore(k)
		if e != nil {
			return nil, nil, e
		}
		reg.Register(k, s)
	}

	settings := extract.Settings{
		Palette:        p,
		NumberOfColors: cfg.NumberOfColors,
		Method:         cfg.ImageMethod,
		Workers:        cfg.Workers,
	}
	return extract.New(settings, image.NewQuantizer(), reg, logger), cfg, nil
}
