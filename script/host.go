// Package script runs JavaScript that drives viewers, containers and sync
// groups, the way a page script drives them in a browser.
//
// The runtime exposes these globals:
//
//	createContainer([id], [width], [height]) -> id
//	loadPdf(source, containerId, [zoom])     -> total pages
//	setZoom(containerId, zoom)
//	scrollTo(containerId, x, y)
//	offset(containerId)                      -> {x, y}
//	currentPage(containerId)                 -> page
//	totalPages(containerId)                  -> pages
//	onPageChanged(containerId, fn)
//	enableSyncScroll(containerId)
//	disableSyncScroll(containerId)
//	scrollSynchronizer(containerIds)
//	savePage(containerId, page, path)
//	log(...values)
//
// A Host is not safe for concurrent use.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/tsawler/syncview"
	"github.com/tsawler/syncview/internal/logging"
	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/source"
)

// ErrUnknownContainer is thrown into scripts that name a container the host
// did not create.
var ErrUnknownContainer = errors.New("unknown container")

// Options configures a Host.
type Options struct {
	// Viewport is the size of containers created without an explicit size.
	Viewport scroll.Size
	// ReferenceWidth and PageGap are passed to every viewer.
	ReferenceWidth float64
	PageGap        float64
	// Fetcher resolves document sources. Nil uses a zero Fetcher.
	Fetcher *source.Fetcher
	// Log receives the arguments of log(). Nil logs at info level.
	Log func(msg string)
}

// Host owns a JavaScript runtime and the containers and viewers scripts
// create.
type Host struct {
	vm      *goja.Runtime
	opts    Options
	tree    *scroll.Tree
	group   *syncview.Group
	viewers map[string]*syncview.Viewer
	ctx     context.Context
}

// NewHost returns a host with the viewer API installed.
func NewHost(opts Options) (*Host, error) {
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = scroll.Size{Width: 800, Height: 1000}
	}
	if opts.Fetcher == nil {
		opts.Fetcher = &source.Fetcher{}
	}
	tree := scroll.NewTree()
	h := &Host{
		vm:      goja.New(),
		opts:    opts,
		tree:    tree,
		viewers: make(map[string]*syncview.Viewer),
		ctx:     context.Background(),
	}
	h.group = syncview.NewGroup(tree, syncview.WithWiringErrorHandler(func(err error) {
		logging.Logger().Debug("script sync wiring", "err", err)
	}))
	if err := h.register(); err != nil {
		return nil, err
	}
	return h, nil
}

// Tree returns the mounted containers.
func (h *Host) Tree() *scroll.Tree { return h.tree }

// Group returns the sync group shared by all containers of the host.
func (h *Host) Group() *syncview.Group { return h.group }

// Viewer returns the viewer of container id.
func (h *Host) Viewer(id string) (*syncview.Viewer, bool) {
	v, ok := h.viewers[id]
	return v, ok
}

// Run executes src. Cancelling ctx interrupts the script.
func (h *Host) Run(ctx context.Context, src string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer h.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			h.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	h.ctx = ctx
	defer func() { h.ctx = context.Background() }()

	val, err := h.vm.RunString(src)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// Close closes every viewer and the sync group.
func (h *Host) Close() error {
	var errs []error
	for id, v := range h.viewers {
		errs = append(errs, v.Close())
		h.tree.Unmount(id)
	}
	h.viewers = map[string]*syncview.Viewer{}
	h.group.Close()
	return errors.Join(errs...)
}

func (h *Host) register() error {
	funcs := map[string]func(goja.FunctionCall) goja.Value{
		"createContainer":    h.createContainer,
		"loadPdf":            h.loadPdf,
		"setZoom":            h.setZoom,
		"scrollTo":           h.scrollTo,
		"offset":             h.offset,
		"currentPage":        h.currentPage,
		"totalPages":         h.totalPages,
		"onPageChanged":      h.onPageChanged,
		"enableSyncScroll":   h.enableSync,
		"disableSyncScroll":  h.disableSync,
		"scrollSynchronizer": h.scrollSynchronizer,
		"savePage":           h.savePage,
		"log":                h.log,
	}
	for name, fn := range funcs {
		if err := h.vm.Set(name, fn); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	return nil
}

// throw raises err as a JavaScript exception.
func (h *Host) throw(err error) {
	panic(h.vm.NewGoError(err))
}

func (h *Host) viewer(call goja.FunctionCall, i int) *syncview.Viewer {
	id := call.Argument(i).String()
	v, ok := h.viewers[id]
	if !ok {
		h.throw(fmt.Errorf("%w: %q", ErrUnknownContainer, id))
	}
	return v
}

func (h *Host) createContainer(call goja.FunctionCall) goja.Value {
	id := ""
	if arg := call.Argument(0); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
		id = arg.String()
	}
	if _, exists := h.viewers[id]; exists {
		h.throw(fmt.Errorf("container %q already exists", id))
	}
	size := h.opts.Viewport
	if w := call.Argument(1); !goja.IsUndefined(w) {
		size.Width = w.ToFloat()
	}
	if ht := call.Argument(2); !goja.IsUndefined(ht) {
		size.Height = ht.ToFloat()
	}

	region := scroll.NewRegion(id, size)
	h.tree.Mount(region)
	h.viewers[region.ID()] = syncview.NewViewer(region,
		syncview.WithGroup(h.group),
		syncview.WithFetcher(h.opts.Fetcher),
		syncview.WithReferenceWidth(h.opts.ReferenceWidth),
		syncview.WithPageGap(h.opts.PageGap),
	)
	return h.vm.ToValue(region.ID())
}

func (h *Host) loadPdf(call goja.FunctionCall) goja.Value {
	v := h.viewer(call, 1)
	if zoom := call.Argument(2); !goja.IsUndefined(zoom) && !goja.IsNull(zoom) {
		h.applyZoom(v, zoom.ToFloat())
	}
	if err := v.Load(h.ctx, call.Argument(0).String()); err != nil {
		h.throw(err)
	}
	return h.vm.ToValue(v.TotalPages())
}

func (h *Host) setZoom(call goja.FunctionCall) goja.Value {
	h.applyZoom(h.viewer(call, 0), call.Argument(1).ToFloat())
	return goja.Undefined()
}

// applyZoom logs failures: a zoom change only fails per page.
func (h *Host) applyZoom(v *syncview.Viewer, zoom float64) {
	if err := v.SetZoom(h.ctx, zoom); err != nil {
		logging.Logger().Warn("zoom re-render reported errors", "container", v.ID(), "err", err)
	}
}

func (h *Host) scrollTo(call goja.FunctionCall) goja.Value {
	v := h.viewer(call, 0)
	moved := v.Container().ScrollTo(scroll.Offset{X: call.Argument(1).ToFloat(), Y: call.Argument(2).ToFloat()})
	return h.vm.ToValue(moved)
}

func (h *Host) offset(call goja.FunctionCall) goja.Value {
	o := h.viewer(call, 0).Container().Offset()
	obj := h.vm.NewObject()
	obj.Set("x", o.X)
	obj.Set("y", o.Y)
	return obj
}

func (h *Host) currentPage(call goja.FunctionCall) goja.Value {
	return h.vm.ToValue(h.viewer(call, 0).CurrentPage())
}

func (h *Host) totalPages(call goja.FunctionCall) goja.Value {
	return h.vm.ToValue(h.viewer(call, 0).TotalPages())
}

func (h *Host) onPageChanged(call goja.FunctionCall) goja.Value {
	v := h.viewer(call, 0)
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		h.throw(errors.New("onPageChanged expects a function"))
	}
	v.OnPageChanged(func(page int) {
		if _, err := fn(goja.Undefined(), h.vm.ToValue(page)); err != nil {
			logging.Logger().Warn("page change callback failed", "container", v.ID(), "err", err)
		}
	})
	return goja.Undefined()
}

func (h *Host) enableSync(call goja.FunctionCall) goja.Value {
	h.viewer(call, 0).SetSyncEnabled(true)
	return goja.Undefined()
}

func (h *Host) disableSync(call goja.FunctionCall) goja.Value {
	h.viewer(call, 0).SetSyncEnabled(false)
	return goja.Undefined()
}

// scrollSynchronizer opts exactly the given containers into sync and every
// other container out.
func (h *Host) scrollSynchronizer(call goja.FunctionCall) goja.Value {
	var ids []string
	if err := h.vm.ExportTo(call.Argument(0), &ids); err != nil {
		h.throw(fmt.Errorf("scrollSynchronizer expects an array of ids: %w", err))
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := h.viewers[id]; !ok {
			h.throw(fmt.Errorf("%w: %q", ErrUnknownContainer, id))
		}
		want[id] = true
	}
	for id, v := range h.viewers {
		v.SetSyncEnabled(want[id])
	}
	return goja.Undefined()
}

func (h *Host) savePage(call goja.FunctionCall) goja.Value {
	v := h.viewer(call, 0)
	page := int(call.Argument(1).ToInteger())
	s := v.Renderer().Surface(page)
	if s == nil {
		h.throw(fmt.Errorf("page %d of %q is not rendered", page, v.ID()))
	}
	if err := s.SavePNG(call.Argument(2).String()); err != nil {
		h.throw(err)
	}
	return goja.Undefined()
}

func (h *Host) log(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	msg := strings.Join(parts, " ")
	if h.opts.Log != nil {
		h.opts.Log(msg)
	} else {
		logging.Logger().Info(msg, "source", "script")
	}
	return goja.Undefined()
}
