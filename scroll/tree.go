package scroll

import (
	"sort"
	"sync"
)

// Tree is the set of mounted containers, keyed by id.
type Tree struct {
	mu         sync.RWMutex
	containers map[string]Container
}

var _ Lookup = (*Tree)(nil)

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{containers: make(map[string]Container)}
}

// Mount adds c to the tree, replacing any container with the same id.
func (t *Tree) Mount(c Container) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.containers[c.ID()] = c
}

// Unmount removes the container with the given id. It reports whether a
// container was mounted under that id.
func (t *Tree) Unmount(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.containers[id]; !ok {
		return false
	}
	delete(t.containers, id)
	return true
}

// Lookup returns the container mounted under id.
func (t *Tree) Lookup(id string) (Container, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.containers[id]
	return c, ok
}

// IDs returns the mounted ids in sorted order.
func (t *Tree) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.containers))
	for id := range t.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
