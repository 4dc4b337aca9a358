// Package scroll models the scrollable regions that host rendered pages.
//
// A [Container] is a named viewport over a larger content area. Its scroll
// offset can be changed by the user (through the host) or programmatically
// (by the synchronizer). Either way every change that actually moves the
// offset produces exactly one scroll [Event], delivered synchronously to the
// registered listeners before [Container.ScrollTo] returns.
//
// # Regions
//
// [Region] is the in-memory Container used by headless hosts and tests:
//
//	r := scroll.NewRegion("left", scroll.Size{Width: 800, Height: 1000})
//	r.SetContentSize(scroll.Size{Width: 800, Height: 5000})
//	id := r.AddScrollListener(func(ev scroll.Event) { ... })
//	r.ScrollTo(scroll.Offset{Y: 1200})
//	r.RemoveScrollListener(id)
//
// Passing an empty id to [NewRegion] generates one of the form
// "scrollable_<uuid>".
//
// # Trees
//
// A [Tree] is the set of currently mounted containers, looked up by id. The
// synchronizer resolves ids through it, so a container that is not mounted
// simply cannot be wired.
package scroll
