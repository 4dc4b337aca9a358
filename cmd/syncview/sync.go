package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/syncview"
	"github.com/tsawler/syncview/scroll"
)

var syncCmd = &cobra.Command{
	Use:   "sync <source> <source>...",
	Short: "Load documents side by side and replay a synchronized scroll",
	Long: `Loads every source into its own container, opts all of them into one sync
group and scrolls the first container to each --to offset in turn. After
every step the offset and current page of each container are printed.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Float64Slice("to", []float64{0}, "vertical offsets to scroll the first container to")
	syncCmd.Flags().Float64("x", 0, "horizontal offset applied with every step")
	syncCmd.Flags().Float64("zoom", -1, "zoom factor (overrides config; 0 fits the viewport width)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fetcher, err := fetcherFromConfig(cfg)
	if err != nil {
		return err
	}
	steps, _ := cmd.Flags().GetFloat64Slice("to")
	x, _ := cmd.Flags().GetFloat64("x")
	if zoom, _ := cmd.Flags().GetFloat64("zoom"); zoom >= 0 {
		cfg.Zoom = zoom
	}

	tree := scroll.NewTree()
	group := syncview.NewGroup(tree)
	defer group.Close()

	viewers := make([]*syncview.Viewer, len(args))
	for i, src := range args {
		v := newViewer(cfg, fetcher, fmt.Sprintf("doc%d", i+1), syncview.WithGroup(group))
		defer v.Close()
		tree.Mount(v.Container())
		if err := v.Load(ctx, src); err != nil {
			return err
		}
		viewers[i] = v
	}
	for _, v := range viewers {
		v.SetSyncEnabled(true)
	}

	out := cmd.OutOrStdout()
	lead := viewers[0].Container()
	for _, y := range steps {
		lead.ScrollTo(scroll.Offset{X: x, Y: y})
		fmt.Fprintf(out, "scroll %s to %v\n", lead.ID(), scroll.Offset{X: x, Y: y})
		for _, v := range viewers {
			fmt.Fprintf(out, "  %s offset %v page %d/%d\n", v.ID(), v.Container().Offset(), v.CurrentPage(), v.TotalPages())
		}
	}
	return nil
}
