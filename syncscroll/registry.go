package syncscroll

import (
	"sort"
	"sync"
)

// Observer is notified with the new active set after every change.
type Observer func(active []string)

// Registry is the set of container ids that participate in synchronization.
// Adding a present id or removing an absent one is a no-op that notifies
// nobody.
type Registry struct {
	mu        sync.Mutex
	active    map[string]struct{}
	observers map[int]Observer
	nextObs   int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		active:    make(map[string]struct{}),
		observers: make(map[int]Observer),
	}
}

// Enable adds id to the active set. It reports whether the set changed.
func (r *Registry) Enable(id string) bool {
	r.mu.Lock()
	if _, ok := r.active[id]; ok {
		r.mu.Unlock()
		return false
	}
	r.active[id] = struct{}{}
	active, observers := r.snapshotLocked()
	r.mu.Unlock()

	notify(observers, active)
	return true
}

// Disable removes id from the active set. It reports whether the set changed.
func (r *Registry) Disable(id string) bool {
	r.mu.Lock()
	if _, ok := r.active[id]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.active, id)
	active, observers := r.snapshotLocked()
	r.mu.Unlock()

	notify(observers, active)
	return true
}

// IsActive reports whether id is in the active set.
func (r *Registry) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[id]
	return ok
}

// ActiveIDs returns a sorted copy of the active set.
func (r *Registry) ActiveIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

// Subscribe registers fn for change notifications. Notifications are
// delivered synchronously from Enable or Disable, in no particular order
// between observers. The returned function removes the subscription.
func (r *Registry) Subscribe(fn Observer) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextObs++
	key := r.nextObs
	r.observers[key] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.observers, key)
		})
	}
}

func (r *Registry) activeLocked() []string {
	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) snapshotLocked() ([]string, []Observer) {
	observers := make([]Observer, 0, len(r.observers))
	for _, o := range r.observers {
		observers = append(observers, o)
	}
	return r.activeLocked(), observers
}

func notify(observers []Observer, active []string) {
	for _, o := range observers {
		o(append([]string(nil), active...))
	}
}
