package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/syncview"
	"github.com/tsawler/syncview/config"
	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/source"
	"github.com/tsawler/syncview/surface"
)

var renderCmd = &cobra.Command{
	Use:   "render <source>",
	Short: "Render a document and export its pages as PNG files",
	Long: `Loads a document from a path, an http(s) URL or a base64 data URL into a
headless container, renders every page and writes one PNG per page.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "pages", "output directory")
	renderCmd.Flags().Float64("zoom", -1, "zoom factor (overrides config; 0 fits the viewport width)")
	renderCmd.Flags().Float64("scroll", 0, "scroll offset to report the current page at")
	renderCmd.Flags().Bool("inline", false, "embed the document as a data URL before loading")
	renderCmd.Flags().Int("thumbs", 0, "also write thumbnails of at most this width")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fetcher, err := fetcherFromConfig(cfg)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	scrollY, _ := cmd.Flags().GetFloat64("scroll")
	inline, _ := cmd.Flags().GetBool("inline")
	thumbs, _ := cmd.Flags().GetInt("thumbs")
	if zoom >= 0 {
		cfg.Zoom = zoom
	}

	src := args[0]
	if inline {
		if src, err = embed(ctx, fetcher, src, cfg.MaxInlineBytes); err != nil {
			return err
		}
	}

	v := newViewer(cfg, fetcher, "")
	defer v.Close()
	if err := v.Load(ctx, src); err != nil {
		return err
	}
	if scrollY > 0 {
		v.Container().ScrollTo(scroll.Offset{Y: scrollY})
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	surfaces := v.Surfaces()
	rep := newReporter(cmd.ErrOrStderr())
	rep.Start(len(surfaces))
	for i, s := range surfaces {
		name := fmt.Sprintf("page-%03d.png", s.Page())
		if err := s.SavePNG(filepath.Join(outDir, name)); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		if thumbs > 0 {
			if err := writeThumbnail(s, filepath.Join(outDir, fmt.Sprintf("thumb-%03d.png", s.Page())), thumbs); err != nil {
				return err
			}
		}
		rep.Update(i+1, name)
	}
	rep.Finish()

	fmt.Fprintf(cmd.OutOrStdout(), "pages: %d\ncurrent page: %d\noutput: %s\n", v.TotalPages(), v.CurrentPage(), outDir)
	return nil
}

func newViewer(cfg *config.Config, fetcher *source.Fetcher, id string, opts ...syncview.ViewerOption) *syncview.Viewer {
	region := scroll.NewRegion(id, scroll.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height})
	opts = append([]syncview.ViewerOption{
		syncview.WithFetcher(fetcher),
		syncview.WithReferenceWidth(cfg.ReferenceWidth),
		syncview.WithPageGap(cfg.PageGap),
		syncview.WithZoom(cfg.Zoom),
	}, opts...)
	return syncview.NewViewer(region, opts...)
}

// embed turns src into a data URL, refusing payloads over max bytes.
func embed(ctx context.Context, f *source.Fetcher, src string, max int64) (string, error) {
	data, err := f.Fetch(ctx, src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	return source.EncodeDataURL(data, "", max)
}

func writeThumbnail(s *surface.Surface, path string, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, surface.Thumbnail(s.Image(), width)); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
