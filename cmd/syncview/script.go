package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/script"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.js>",
	Short: "Run a JavaScript file against the viewer API",
	Long: `Runs a script in a runtime exposing createContainer, loadPdf, scrollTo,
scrollSynchronizer, onPageChanged and the rest of the viewer API. The value
of the last expression is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().Duration("timeout", time.Minute, "interrupt the script after this long")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fetcher, err := fetcherFromConfig(cfg)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	code, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading script %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	host, err := script.NewHost(script.Options{
		Viewport:       scroll.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		ReferenceWidth: cfg.ReferenceWidth,
		PageGap:        cfg.PageGap,
		Fetcher:        fetcher,
		Log:            func(msg string) { fmt.Fprintln(out, msg) },
	})
	if err != nil {
		return err
	}
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	result, err := host.Run(ctx, string(code))
	if err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}
	if result != nil {
		fmt.Fprintln(out, result)
	}
	return nil
}
