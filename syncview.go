// Package syncview shows paginated documents in scroll containers that can
// be kept in lock-step with each other.
//
// A [Viewer] renders one document into one container, lazily, as the
// container scrolls. A [Group] owns the set of containers that opted into
// synchronized scrolling and mirrors every user scroll in one of them onto
// all the others, without feedback between them.
//
// Basic usage:
//
//	tree := scroll.NewTree()
//	left := scroll.NewRegion("left", scroll.Size{Width: 800, Height: 1000})
//	right := scroll.NewRegion("right", scroll.Size{Width: 800, Height: 1000})
//	tree.Mount(left)
//	tree.Mount(right)
//
//	group := syncview.NewGroup(tree)
//	defer group.Close()
//
//	a := syncview.NewViewer(left, syncview.WithGroup(group))
//	b := syncview.NewViewer(right, syncview.WithGroup(group))
//	defer a.Close()
//	defer b.Close()
//
//	if err := a.Load(ctx, "before.pdf"); err != nil {
//	    // handle error
//	}
//	if err := b.Load(ctx, "after.pdf"); err != nil {
//	    // handle error
//	}
//	a.SetSyncEnabled(true)
//	b.SetSyncEnabled(true)
//
//	left.ScrollTo(scroll.Offset{Y: 1200}) // right follows
//
// The lower-level packages scroll, render and syncscroll are usable on their
// own.
package syncview

import (
	"log/slog"

	"github.com/tsawler/syncview/internal/logging"
)

// SetLogger sets the logger used by every package of the module. A nil
// logger restores the default, which discards everything.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logging.Logger()
}
