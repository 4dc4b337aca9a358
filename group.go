package syncview

import (
	"sort"
	"sync"

	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/syncscroll"
)

// Group keeps the scroll positions of its active containers in lock-step.
//
// Containers are attached to a group and then opted in and out through the
// group's registry, usually by a Viewer's Participant. Every change of the
// active set tears the mirroring down and installs it again for exactly the
// new set.
type Group struct {
	registry    *syncscroll.Registry
	sync        *syncscroll.Synchronizer
	onWiring    func(error)
	unsubscribe func()

	mu       sync.Mutex
	attached map[string]struct{}
	closed   bool
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithWiringErrorHandler sets a function called with every *syncscroll.WiringError
// produced while installing the mirroring. Such errors are never fatal; by
// default they are only logged.
func WithWiringErrorHandler(fn func(error)) GroupOption {
	return func(g *Group) { g.onWiring = fn }
}

// NewGroup returns a group resolving container ids through lookup, usually a
// *scroll.Tree.
func NewGroup(lookup scroll.Lookup, opts ...GroupOption) *Group {
	g := &Group{
		registry: syncscroll.NewRegistry(),
		sync:     syncscroll.NewSynchronizer(lookup),
		attached: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.unsubscribe = g.registry.Subscribe(g.install)
	return g
}

// Registry returns the group's registry.
func (g *Group) Registry() *syncscroll.Registry { return g.registry }

// Synchronizer returns the group's synchronizer.
func (g *Group) Synchronizer() *syncscroll.Synchronizer { return g.sync }

// Attach adds id to the containers the group manages. Attaching does not
// enable synchronization for id.
func (g *Group) Attach(id string) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.attached[id] = struct{}{}
	g.mu.Unlock()

	g.install(g.registry.ActiveIDs())
}

// Detach disables id and removes it from the group.
func (g *Group) Detach(id string) {
	g.registry.Disable(id)

	g.mu.Lock()
	delete(g.attached, id)
	g.mu.Unlock()
}

// Attached returns the managed container ids, sorted.
func (g *Group) Attached() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attachedLocked()
}

// Close removes all mirroring and stops following the registry.
func (g *Group) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	g.unsubscribe()
	g.sync.Close()
}

func (g *Group) install(active []string) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	all := g.attachedLocked()
	// Only attached ids are wired, so every installed listener has a source
	// the next teardown covers.
	wired := make([]string, 0, len(active))
	for _, id := range active {
		if _, ok := g.attached[id]; ok {
			wired = append(wired, id)
		}
	}
	g.mu.Unlock()

	for _, err := range g.sync.Install(all, wired) {
		if g.onWiring != nil {
			g.onWiring(err)
		}
	}
}

func (g *Group) attachedLocked() []string {
	ids := make([]string, 0, len(g.attached))
	for id := range g.attached {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
