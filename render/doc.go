// Package render renders a document lazily into a scroll container.
//
// A [Renderer] owns one document, one scale factor and one surface per page.
// Pages are stacked vertically in the container, separated by a fixed gap.
//
// # Rendering
//
// Loading renders every page eagerly, in ascending order, so the first paint
// shows the whole document. After that, [Renderer.OnScroll] renders only the
// pages that enter the visibility band and have not been rendered during the
// scroll session. A scale change re-renders every page.
//
// Only one page render runs at a time per renderer. A render requested while
// another is in flight is dropped, not queued; the next visibility check
// requests it again.
//
// # Visibility band
//
// With a viewport of height vh, a page is near-visible when any part of its
// rectangle, in container coordinates, lies within [-vh, vh]. The band drives
// both lazy rendering and [CurrentPageOf].
//
// # Scale
//
// A scale set explicitly is pinned and survives container resizes. Without
// one, the scale is the container width divided by the reference page width
// (800 by default) and is recomputed on every resize.
package render
