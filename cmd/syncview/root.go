package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/syncview"
	"github.com/tsawler/syncview/config"
	"github.com/tsawler/syncview/internal/logging"
	"github.com/tsawler/syncview/source"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "syncview",
	Short: "Render documents page by page and keep their scroll positions in sync",
	Long: `syncview renders paginated documents into scroll containers, lazily and
page by page, and mirrors scrolling between containers that opt into sync.
The commands here drive headless containers: export rendered pages, replay
a synchronized scroll, or run a script against the viewer API.`,
	SilenceUsage: true,
}

func execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads and validates the config and installs the logger it
// asks for.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	syncview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

func fetcherFromConfig(cfg *config.Config) (*source.Fetcher, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	return source.NewFetcher(timeout), nil
}
