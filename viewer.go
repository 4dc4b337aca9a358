package syncview

import (
	"context"
	"math"
	"sync"

	"github.com/tsawler/syncview/internal/logging"
	"github.com/tsawler/syncview/render"
	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/source"
	"github.com/tsawler/syncview/surface"
)

// zoomEpsilon is the smallest zoom change a Viewer applies.
const zoomEpsilon = 0.01

// Viewer shows one document in one scroll container.
type Viewer struct {
	container   scroll.Container
	renderer    *render.Renderer
	participant *Participant
	group       *Group

	ctx      context.Context
	cancel   context.CancelFunc
	scrollID scroll.ListenerID
	resizeID scroll.ListenerID

	mu       sync.Mutex
	zoom     float64
	current  int
	nextHook uint64
	hooks    []pageHook
	closed   bool
}

type pageHook struct {
	id uint64
	fn func(page int)
}

type viewerConfig struct {
	group       *Group
	syncEnabled bool
	render      render.Options
	fetcher     *source.Fetcher
}

// ViewerOption configures a Viewer.
type ViewerOption func(*viewerConfig)

// WithGroup attaches the viewer's container to g.
func WithGroup(g *Group) ViewerOption {
	return func(c *viewerConfig) { c.group = g }
}

// WithSyncEnabled sets the initial sync participation. It only has an effect
// together with WithGroup.
func WithSyncEnabled(enabled bool) ViewerOption {
	return func(c *viewerConfig) { c.syncEnabled = enabled }
}

// WithZoom pins the initial zoom factor. Without it the zoom fits the
// container width.
func WithZoom(factor float64) ViewerOption {
	return func(c *viewerConfig) { c.render.Scale = factor }
}

// WithReferenceWidth sets the page width that fits the container at zoom 1.
func WithReferenceWidth(width float64) ViewerOption {
	return func(c *viewerConfig) { c.render.ReferenceWidth = width }
}

// WithPageGap sets the vertical space between pages.
func WithPageGap(gap float64) ViewerOption {
	return func(c *viewerConfig) { c.render.PageGap = gap }
}

// WithFetcher sets the fetcher used to resolve sources.
func WithFetcher(f *source.Fetcher) ViewerOption {
	return func(c *viewerConfig) { c.fetcher = f }
}

// WithOpener replaces source resolution and decoding altogether.
func WithOpener(o render.Opener) ViewerOption {
	return func(c *viewerConfig) { c.render.Opener = o }
}

// WithRenderHook sets a function called after every page render with the
// page's error, if any.
func WithRenderHook(fn func(page int, err error)) ViewerOption {
	return func(c *viewerConfig) { c.render.OnRender = fn }
}

// NewViewer creates a viewer for container. The viewer starts following the
// container's scroll and resize events immediately.
func NewViewer(container scroll.Container, opts ...ViewerOption) *Viewer {
	var cfg viewerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.render.Opener == nil && cfg.fetcher != nil {
		cfg.render.Opener = render.DefaultOpener(cfg.fetcher)
	}

	ctx, cancel := context.WithCancel(context.Background())
	v := &Viewer{
		container: container,
		renderer:  render.New(container, cfg.render),
		group:     cfg.group,
		ctx:       ctx,
		cancel:    cancel,
		zoom:      math.Max(cfg.render.Scale, 0),
		current:   1,
	}

	if cfg.group != nil {
		cfg.group.Attach(container.ID())
		v.participant = NewParticipant(cfg.group.Registry(), container.ID())
	} else {
		v.participant = NewParticipant(nil, container.ID())
	}

	v.scrollID = container.AddScrollListener(func(scroll.Event) { v.handleScroll() })
	v.resizeID = container.AddResizeListener(func(scroll.Size) { v.updateCurrentPage() })

	v.participant.SetEnabled(cfg.syncEnabled)
	return v
}

// ID returns the container id.
func (v *Viewer) ID() string { return v.container.ID() }

// Container returns the viewer's container.
func (v *Viewer) Container() scroll.Container { return v.container }

// Renderer returns the underlying renderer.
func (v *Viewer) Renderer() *render.Renderer { return v.renderer }

// Load replaces the shown document. It fails with a *render.LoadError when
// the source cannot be fetched or decoded, leaving the viewer as it was.
func (v *Viewer) Load(ctx context.Context, src string) error {
	if err := v.renderer.Load(ctx, src); err != nil {
		logging.Logger().Warn("document load failed", "container", v.ID(), "err", err)
		v.updateCurrentPage()
		return err
	}
	v.updateCurrentPage()
	return nil
}

// Zoom returns the zoom factor last applied; zero means fit to width.
func (v *Viewer) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// SetZoom applies factor when it differs from the current zoom by more than
// 0.01. A factor of zero or less returns to fit-to-width.
func (v *Viewer) SetZoom(ctx context.Context, factor float64) error {
	factor = math.Max(factor, 0)
	v.mu.Lock()
	if math.Abs(factor-v.zoom) <= zoomEpsilon {
		v.mu.Unlock()
		return nil
	}
	v.zoom = factor
	v.mu.Unlock()

	err := v.renderer.SetScale(ctx, factor)
	v.updateCurrentPage()
	return err
}

// CurrentPage returns the page closest to the middle of the viewport.
func (v *Viewer) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// TotalPages returns the page count, or 1 before a document is loaded.
func (v *Viewer) TotalPages() int { return v.renderer.TotalPages() }

// Surfaces returns the rendered page surfaces in page order.
func (v *Viewer) Surfaces() []*surface.Surface { return v.renderer.Surfaces() }

// OnPageChanged registers fn to be called with the new current page each
// time it changes. The returned function unregisters it.
func (v *Viewer) OnPageChanged(fn func(page int)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextHook++
	id := v.nextHook
	v.hooks = append(v.hooks, pageHook{id: id, fn: fn})
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, h := range v.hooks {
			if h.id == id {
				v.hooks = append(v.hooks[:i:i], v.hooks[i+1:]...)
				return
			}
		}
	}
}

// SyncEnabled reports whether the viewer takes part in synchronized
// scrolling.
func (v *Viewer) SyncEnabled() bool { return v.participant.Enabled() }

// SetSyncEnabled opts the viewer in or out of its group's synchronized
// scrolling. Without a group it only records the flag.
func (v *Viewer) SetSyncEnabled(enabled bool) { v.participant.SetEnabled(enabled) }

// Close leaves the group, stops following the container and releases the
// document.
func (v *Viewer) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.hooks = nil
	v.mu.Unlock()

	v.participant.Close()
	if v.group != nil {
		v.group.Detach(v.ID())
	}
	v.container.RemoveScrollListener(v.scrollID)
	v.container.RemoveResizeListener(v.resizeID)
	v.cancel()
	return v.renderer.Close()
}

func (v *Viewer) handleScroll() {
	if err := v.renderer.OnScroll(v.ctx); err != nil && v.ctx.Err() == nil {
		logging.Logger().Debug("lazy render reported errors", "container", v.ID(), "err", err)
	}
	v.updateCurrentPage()
}

func (v *Viewer) updateCurrentPage() {
	page := v.renderer.CurrentPage()

	v.mu.Lock()
	if v.closed || page == v.current {
		v.mu.Unlock()
		return
	}
	v.current = page
	hooks := make([]pageHook, len(v.hooks))
	copy(hooks, v.hooks)
	v.mu.Unlock()

	for _, h := range hooks {
		h.fn(page)
	}
}
