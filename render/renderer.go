package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/tsawler/syncview/document"
	"github.com/tsawler/syncview/internal/logging"
	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/source"
	"github.com/tsawler/syncview/surface"
)

// Defaults for Options.
const (
	DefaultReferenceWidth = 800.0
	DefaultPageGap        = 12.0
)

// Document is a decoded, paginated document. *document.Document implements
// it.
type Document interface {
	PageCount() int
	PageSize(page int) (document.Size, error)
	Content(ctx context.Context, page int) (*document.Content, error)
	Close() error
}

// Opener turns a source string into a Document.
type Opener func(ctx context.Context, src string) (Document, error)

// DefaultOpener fetches sources with f and decodes them as PDF.
func DefaultOpener(f *source.Fetcher) Opener {
	return func(ctx context.Context, src string) (Document, error) {
		data, err := f.Fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		doc, err := document.Open(ctx, data)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// Options configures a Renderer.
type Options struct {
	// ReferenceWidth is the canonical page width used to fit the container
	// width when no scale is pinned.
	ReferenceWidth float64
	// PageGap is the vertical space between stacked pages. Zero means
	// DefaultPageGap; a negative gap stacks pages without space.
	PageGap float64
	// Scale pins an initial scale. Zero fits the container width.
	Scale float64
	// Opener decodes sources. Nil uses DefaultOpener with a zero Fetcher.
	Opener Opener
	// OnRender, if set, is called after every page render that ran, with the
	// page's RenderError or nil.
	OnRender func(page int, err error)
}

func (o Options) withDefaults() Options {
	if o.ReferenceWidth <= 0 {
		o.ReferenceWidth = DefaultReferenceWidth
	}
	if o.PageGap < 0 {
		o.PageGap = 0
	} else if o.PageGap == 0 {
		o.PageGap = DefaultPageGap
	}
	if o.Opener == nil {
		o.Opener = DefaultOpener(&source.Fetcher{})
	}
	return o
}

// Renderer renders one document into one container.
type Renderer struct {
	container scroll.Container
	opts      Options
	inFlight  atomic.Bool
	resizeID  scroll.ListenerID

	mu       sync.Mutex
	gen      uint64
	doc      Document
	surfaces []*surface.Surface
	rendered []bool
	scale    float64
	pinned   bool
	closed   bool
}

// New creates a renderer for container. The renderer follows the container's
// resize events until Close.
func New(container scroll.Container, opts Options) *Renderer {
	r := &Renderer{container: container, opts: opts.withDefaults()}
	if r.opts.Scale > 0 {
		r.scale, r.pinned = r.opts.Scale, true
	} else {
		r.scale = r.fitScale()
	}
	r.resizeID = container.AddResizeListener(func(scroll.Size) {
		if err := r.handleResize(context.Background()); err != nil {
			logging.Logger().Warn("re-render after resize failed", "container", container.ID(), "err", err)
		}
	})
	return r
}

// Load replaces the current document with the one named by src and renders
// every page. If src cannot be fetched or decoded any previous document is
// released, the renderer returns to the unloaded state and a *LoadError is
// returned. Page render failures do not fail Load; they are logged and
// reported through Options.OnRender.
func (r *Renderer) Load(ctx context.Context, src string) error {
	log := logging.Logger()

	doc, err := r.opts.Opener(ctx, src)
	if err != nil {
		r.unload()
		return &LoadError{Source: src, Err: err}
	}
	n := doc.PageCount()
	if n <= 0 {
		doc.Close()
		r.unload()
		return &LoadError{Source: src, Err: errors.New("document has no pages")}
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		doc.Close()
		return &LoadError{Source: src, Err: errors.New("renderer closed")}
	}
	oldDoc, oldSurfaces := r.doc, r.surfaces
	r.gen++
	r.doc = doc
	r.surfaces = make([]*surface.Surface, n)
	r.rendered = make([]bool, n)
	if !r.pinned {
		r.scale = r.fitScale()
	}
	scale := r.scale
	r.mu.Unlock()

	release(oldDoc, oldSurfaces)
	r.container.SetContentSize(scroll.Size{})

	log.Info("document loaded", "container", r.container.ID(), "pages", n, "scale", scale)

	if err := r.RenderAllPages(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("some pages failed to render", "container", r.container.ID(), "err", err)
	}
	return nil
}

// Loaded reports whether a document is loaded.
func (r *Renderer) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc != nil
}

// TotalPages returns the page count, or 1 when nothing is loaded.
func (r *Renderer) TotalPages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return 1
	}
	return len(r.surfaces)
}

// Scale returns the current scale factor.
func (r *Renderer) Scale() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scale
}

// Pinned reports whether the scale was set explicitly.
func (r *Renderer) Pinned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pinned
}

// SetScale pins the scale to factor and re-renders every page. A factor of
// zero or less unpins the scale and fits the container width instead.
func (r *Renderer) SetScale(ctx context.Context, factor float64) error {
	r.mu.Lock()
	if factor > 0 {
		r.scale, r.pinned = factor, true
	} else {
		r.scale, r.pinned = r.fitScale(), false
	}
	loaded := r.doc != nil
	r.mu.Unlock()

	if !loaded {
		return nil
	}
	return r.RenderAllPages(ctx)
}

// RenderAllPages renders pages 1..TotalPages in ascending order. A failing
// page does not stop the others; all RenderErrors are joined.
func (r *Renderer) RenderAllPages(ctx context.Context) error {
	r.mu.Lock()
	if r.doc == nil {
		r.mu.Unlock()
		return ErrNoDocument
	}
	n := len(r.surfaces)
	r.mu.Unlock()

	var errs []error
	for page := 1; page <= n; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.RenderPage(ctx, page); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RenderPage draws page at the current scale. It reports whether the render
// ran: a call made while another render of this renderer is in flight is
// dropped and returns false with a nil error.
func (r *Renderer) RenderPage(ctx context.Context, page int) (bool, error) {
	log := logging.Logger()

	if !r.inFlight.CompareAndSwap(false, true) {
		log.Debug("render dropped, another is in flight", "container", r.container.ID(), "page", page)
		return false, nil
	}
	defer r.inFlight.Store(false)

	r.mu.Lock()
	doc, gen, scale := r.doc, r.gen, r.scale
	if doc == nil {
		r.mu.Unlock()
		return false, ErrNoDocument
	}
	if page < 1 || page > len(r.surfaces) {
		n := len(r.surfaces)
		r.mu.Unlock()
		return false, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, n)
	}
	s := r.surfaces[page-1]
	r.mu.Unlock()

	err := r.draw(ctx, doc, gen, page, scale, s)
	if errors.Is(err, errStale) {
		return false, nil
	}
	if err != nil {
		err = &RenderError{Page: page, Err: err}
		log.Warn("page render failed", "container", r.container.ID(), "page", page, "err", err)
	}

	r.updateLayout()
	if r.opts.OnRender != nil {
		r.opts.OnRender(page, err)
	}
	return true, err
}

// errStale marks a render whose document was replaced while it ran.
var errStale = errors.New("document replaced during render")

func (r *Renderer) draw(ctx context.Context, doc Document, gen uint64, page int, scale float64, s *surface.Surface) error {
	size, err := doc.PageSize(page)
	if err != nil {
		// Keep a blank placeholder so later pages hold their position.
		if s == nil {
			if attachErr := r.attach(gen, page, surface.New(page, 1, 1)); attachErr != nil {
				return attachErr
			}
		}
		return err
	}
	w, h := surface.PixelSize(size.Width, size.Height, scale)

	if s == nil {
		s = surface.New(page, w, h)
		if err := r.attach(gen, page, s); err != nil {
			return err
		}
	} else if err := s.Resize(w, h); err != nil {
		return err
	}

	content, err := doc.Content(ctx, page)
	if err != nil {
		return err
	}
	return surface.Paint(s, content, scale)
}

// attach stores s as the surface of page unless the document was replaced
// since gen.
func (r *Renderer) attach(gen uint64, page int, s *surface.Surface) error {
	r.mu.Lock()
	if r.gen != gen {
		r.mu.Unlock()
		s.Close()
		return errStale
	}
	r.surfaces[page-1] = s
	r.mu.Unlock()
	return nil
}

// OnScroll renders every page in the visibility band that has not been
// rendered during this scroll session, then marks it. Dropped renders stay
// unmarked and are retried on the next call.
func (r *Renderer) OnScroll(ctx context.Context) error {
	vh := r.container.Viewport().Height
	var errs []error
	for _, rect := range r.PageRects() {
		if !rect.InBand(vh) || r.isRendered(rect.Page) {
			continue
		}
		ran, err := r.RenderPage(ctx, rect.Page)
		if err != nil {
			errs = append(errs, err)
		}
		if ran {
			r.markRendered(rect.Page)
		}
	}
	return errors.Join(errs...)
}

// CurrentPage returns the page closest to the middle of the viewport.
func (r *Renderer) CurrentPage() int {
	return CurrentPageOf(r.PageRects(), r.container.Viewport().Height)
}

// PageRects returns the rectangles of pages that have a surface, relative to
// the current scroll position.
func (r *Renderer) PageRects() []PageRect {
	return stack(r.heights(), r.opts.PageGap, r.container.Offset().Y)
}

// Surface returns the surface of page, or nil if it has not been created.
func (r *Renderer) Surface(page int) *surface.Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page < 1 || page > len(r.surfaces) {
		return nil
	}
	return r.surfaces[page-1]
}

// Surfaces returns the created surfaces in page order.
func (r *Renderer) Surfaces() []*surface.Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*surface.Surface, 0, len(r.surfaces))
	for _, s := range r.surfaces {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Close releases the document and surfaces and stops following resizes.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.gen++
	doc, surfaces := r.doc, r.surfaces
	r.doc, r.surfaces, r.rendered = nil, nil, nil
	r.mu.Unlock()

	r.container.RemoveResizeListener(r.resizeID)
	return release(doc, surfaces)
}

// unload drops the current document after a failed Load.
func (r *Renderer) unload() {
	r.mu.Lock()
	if r.closed || r.doc == nil {
		r.mu.Unlock()
		return
	}
	r.gen++
	doc, surfaces := r.doc, r.surfaces
	r.doc, r.surfaces, r.rendered = nil, nil, nil
	r.mu.Unlock()

	if err := release(doc, surfaces); err != nil {
		logging.Logger().Debug("releasing previous document failed", "container", r.container.ID(), "err", err)
	}
	r.container.SetContentSize(scroll.Size{})
}

func (r *Renderer) handleResize(ctx context.Context) error {
	r.mu.Lock()
	if !r.pinned {
		r.scale = r.fitScale()
	}
	loaded := r.doc != nil
	r.mu.Unlock()

	if !loaded {
		return nil
	}
	return r.RenderAllPages(ctx)
}

// fitScale derives the scale from the container width. A container without
// width falls back to 1.
func (r *Renderer) fitScale() float64 {
	w := r.container.Viewport().Width
	if w <= 0 || math.IsNaN(w) {
		return 1
	}
	return w / r.opts.ReferenceWidth
}

func (r *Renderer) heights() []float64 {
	r.mu.Lock()
	surfaces := make([]*surface.Surface, len(r.surfaces))
	copy(surfaces, r.surfaces)
	r.mu.Unlock()

	heights := make([]float64, len(surfaces))
	for i, s := range surfaces {
		if s != nil {
			_, h := s.Size()
			heights[i] = float64(h)
		}
	}
	return heights
}

func (r *Renderer) updateLayout() {
	r.mu.Lock()
	surfaces := make([]*surface.Surface, len(r.surfaces))
	copy(surfaces, r.surfaces)
	r.mu.Unlock()

	heights := make([]float64, len(surfaces))
	width := 0.0
	for i, s := range surfaces {
		if s == nil {
			continue
		}
		w, h := s.Size()
		heights[i] = float64(h)
		width = math.Max(width, float64(w))
	}
	r.container.SetContentSize(scroll.Size{Width: width, Height: contentHeight(heights, r.opts.PageGap)})
}

func (r *Renderer) isRendered(page int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page >= 1 && page <= len(r.rendered) && r.rendered[page-1]
}

func (r *Renderer) markRendered(page int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page >= 1 && page <= len(r.rendered) {
		r.rendered[page-1] = true
	}
}

func release(doc Document, surfaces []*surface.Surface) error {
	var errs []error
	for _, s := range surfaces {
		if s != nil {
			errs = append(errs, s.Close())
		}
	}
	if doc != nil {
		errs = append(errs, doc.Close())
	}
	return errors.Join(errs...)
}
