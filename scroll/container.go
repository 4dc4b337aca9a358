package scroll

import "fmt"

// Offset is a scroll position in pixels from the top-left of the content.
type Offset struct {
	X, Y float64
}

// String returns the offset as "(x, y)".
func (o Offset) String() string {
	return fmt.Sprintf("(%g, %g)", o.X, o.Y)
}

// Size is a width and height in pixels.
type Size struct {
	Width, Height float64
}

// Event describes one scroll of a container.
type Event struct {
	// Container is the id of the container that scrolled.
	Container string
	// Offset is the position after the scroll.
	Offset Offset
	// Seq increases by one for every scroll event of the container. All
	// listeners invoked for the same scroll see the same Seq.
	Seq uint64
}

// Listener receives scroll events.
type Listener func(Event)

// ResizeListener receives the new viewport size.
type ResizeListener func(Size)

// ListenerID identifies an installed listener for later removal.
type ListenerID uint64

// Container is a scrollable region in the host's rendering tree.
type Container interface {
	// ID returns the container's identifier.
	ID() string

	// Offset returns the current scroll position.
	Offset() Offset

	// ScrollTo moves the scroll position, clamped to the scrollable range.
	// It reports whether the position changed. When it did, scroll listeners
	// have been called before ScrollTo returns.
	ScrollTo(o Offset) bool

	// Viewport returns the visible size of the container.
	Viewport() Size

	// SetViewport changes the visible size and notifies resize listeners.
	SetViewport(s Size)

	// ContentSize returns the size of the scrollable content.
	ContentSize() Size

	// SetContentSize changes the size of the scrollable content. If the
	// current offset no longer fits it is clamped, which is a scroll.
	SetContentSize(s Size)

	AddScrollListener(l Listener) ListenerID
	RemoveScrollListener(id ListenerID) bool
	ScrollListenerCount() int

	AddResizeListener(l ResizeListener) ListenerID
	RemoveResizeListener(id ListenerID) bool
}

// Lookup resolves container ids to mounted containers.
type Lookup interface {
	Lookup(id string) (Container, bool)
}
