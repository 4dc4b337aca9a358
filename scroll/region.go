package scroll

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// IDPrefix is prepended to generated container ids.
const IDPrefix = "scrollable_"

// NewID returns a new collision-resistant container id.
func NewID() string {
	return IDPrefix + uuid.NewString()
}

type scrollEntry struct {
	id      ListenerID
	fn      Listener
	removed bool
}

type resizeEntry struct {
	id      ListenerID
	fn      ResizeListener
	removed bool
}

// Region is an in-memory Container. The zero value is not usable; create
// regions with NewRegion.
type Region struct {
	id string

	mu       sync.Mutex
	offset   Offset
	viewport Size
	content  Size
	seq      uint64
	nextID   ListenerID
	scrolls  []*scrollEntry
	resizes  []*resizeEntry
}

var _ Container = (*Region)(nil)

// NewRegion creates a region with the given viewport. An empty id is replaced
// by a generated one.
func NewRegion(id string, viewport Size) *Region {
	if id == "" {
		id = NewID()
	}
	return &Region{id: id, viewport: viewport}
}

// ID returns the region's identifier.
func (r *Region) ID() string { return r.id }

// Offset returns the current scroll position.
func (r *Region) Offset() Offset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset
}

// ScrollTo moves the region, clamping each axis to [0, content-viewport].
func (r *Region) ScrollTo(o Offset) bool {
	r.mu.Lock()
	next := r.clampLocked(o)
	if next == r.offset {
		r.mu.Unlock()
		return false
	}
	ev := r.advanceLocked(next)
	listeners := r.scrollSnapshotLocked()
	r.mu.Unlock()

	r.dispatch(listeners, ev)
	return true
}

// Viewport returns the visible size.
func (r *Region) Viewport() Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

// SetViewport changes the visible size. Resize listeners are called when the
// size differs from the current one; a resulting clamp is reported as a scroll.
func (r *Region) SetViewport(s Size) {
	r.mu.Lock()
	if s == r.viewport {
		r.mu.Unlock()
		return
	}
	r.viewport = s
	resizes := make([]*resizeEntry, len(r.resizes))
	copy(resizes, r.resizes)
	ev, moved := r.reclampLocked()
	var scrolls []*scrollEntry
	if moved {
		scrolls = r.scrollSnapshotLocked()
	}
	r.mu.Unlock()

	for _, e := range resizes {
		if r.live(func() bool { return !e.removed }) {
			e.fn(s)
		}
	}
	if moved {
		r.dispatch(scrolls, ev)
	}
}

// ContentSize returns the scrollable content size.
func (r *Region) ContentSize() Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}

// SetContentSize changes the scrollable content size.
func (r *Region) SetContentSize(s Size) {
	r.mu.Lock()
	r.content = s
	ev, moved := r.reclampLocked()
	var scrolls []*scrollEntry
	if moved {
		scrolls = r.scrollSnapshotLocked()
	}
	r.mu.Unlock()

	if moved {
		r.dispatch(scrolls, ev)
	}
}

// AddScrollListener registers l and returns its id.
func (r *Region) AddScrollListener(l Listener) ListenerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.scrolls = append(r.scrolls, &scrollEntry{id: r.nextID, fn: l})
	return r.nextID
}

// RemoveScrollListener removes the listener with the given id. It reports
// whether a listener was removed.
func (r *Region) RemoveScrollListener(id ListenerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.scrolls {
		if e.id == id {
			e.removed = true
			r.scrolls = append(r.scrolls[:i:i], r.scrolls[i+1:]...)
			return true
		}
	}
	return false
}

// ScrollListenerCount returns the number of installed scroll listeners.
func (r *Region) ScrollListenerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scrolls)
}

// AddResizeListener registers l and returns its id.
func (r *Region) AddResizeListener(l ResizeListener) ListenerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.resizes = append(r.resizes, &resizeEntry{id: r.nextID, fn: l})
	return r.nextID
}

// RemoveResizeListener removes the resize listener with the given id.
func (r *Region) RemoveResizeListener(id ListenerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.resizes {
		if e.id == id {
			e.removed = true
			r.resizes = append(r.resizes[:i:i], r.resizes[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Region) clampLocked(o Offset) Offset {
	maxX := math.Max(0, r.content.Width-r.viewport.Width)
	maxY := math.Max(0, r.content.Height-r.viewport.Height)
	return Offset{
		X: math.Min(math.Max(0, o.X), maxX),
		Y: math.Min(math.Max(0, o.Y), maxY),
	}
}

func (r *Region) reclampLocked() (Event, bool) {
	next := r.clampLocked(r.offset)
	if next == r.offset {
		return Event{}, false
	}
	return r.advanceLocked(next), true
}

func (r *Region) advanceLocked(next Offset) Event {
	r.offset = next
	r.seq++
	return Event{Container: r.id, Offset: next, Seq: r.seq}
}

func (r *Region) scrollSnapshotLocked() []*scrollEntry {
	out := make([]*scrollEntry, len(r.scrolls))
	copy(out, r.scrolls)
	return out
}

// dispatch calls each listener that is still installed at the moment it is
// reached. Listeners may add or remove listeners, or scroll other regions.
func (r *Region) dispatch(listeners []*scrollEntry, ev Event) {
	for _, e := range listeners {
		if r.live(func() bool { return !e.removed }) {
			e.fn(ev)
		}
	}
}

func (r *Region) live(check func() bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return check()
}
