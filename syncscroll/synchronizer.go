package syncscroll

import (
	"sort"
	"sync"

	"github.com/tsawler/syncview/internal/logging"
	"github.com/tsawler/syncview/scroll"
)

// pair is an ordered (source, target) link.
type pair struct {
	source, target string
}

// handler is one installed listener. The container is kept so that teardown
// works even after the container has been unmounted.
type handler struct {
	container scroll.Container
	listener  scroll.ListenerID
}

// programmatic is the per-container feedback flag. armed is set right before
// the synchronizer writes the container's offset; the scroll cycle that
// consumes it is remembered by seq so that every listener of the cycle skips.
// Seq counters are per container, so the flag only matches the container it
// was armed for.
type programmatic struct {
	container scroll.Container
	armed     bool
	consumed  bool
	seq       uint64
}

// Synchronizer mirrors scroll offsets between active containers.
type Synchronizer struct {
	lookup scroll.Lookup

	mu       sync.Mutex
	handlers map[pair]handler
	flags    map[string]*programmatic
	mirrors  uint64
}

// NewSynchronizer returns a synchronizer that resolves ids through lookup.
func NewSynchronizer(lookup scroll.Lookup) *Synchronizer {
	return &Synchronizer{
		lookup:   lookup,
		handlers: make(map[pair]handler),
		flags:    make(map[string]*programmatic),
	}
}

// Install rebuilds the wiring. Every listener whose source is in all is
// removed; then each ordered pair of distinct ids in active gets one listener
// on the source container. Active ids without a mounted container are skipped
// and returned as *WiringError values.
func (s *Synchronizer) Install(all, active []string) []error {
	log := logging.Logger()

	s.teardown(all)

	ids := uniqueSorted(active)
	var skipped []error
	for _, id := range ids {
		c, ok := s.lookup.Lookup(id)
		if !ok {
			log.Debug("sync wiring skipped unmounted container", "id", id)
			skipped = append(skipped, &WiringError{ID: id})
			continue
		}
		for _, other := range ids {
			if other == id {
				continue
			}
			s.installPair(c, id, other)
		}
	}

	log.Debug("sync wiring installed", "active", len(ids), "skipped", len(skipped))
	return skipped
}

// Listeners returns the sorted targets that source currently mirrors onto.
func (s *Synchronizer) Listeners(source string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var targets []string
	for p := range s.handlers {
		if p.source == source {
			targets = append(targets, p.target)
		}
	}
	sort.Strings(targets)
	return targets
}

// Mirrors returns the number of offset writes performed so far.
func (s *Synchronizer) Mirrors() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirrors
}

// Close removes every installed listener.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	var sources []string
	for p := range s.handlers {
		sources = append(sources, p.source)
	}
	s.mu.Unlock()
	s.teardown(sources)
}

func (s *Synchronizer) teardown(ids []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	var removed []handler
	for p, h := range s.handlers {
		if want[p.source] {
			removed = append(removed, h)
			delete(s.handlers, p)
		}
	}
	for id := range want {
		delete(s.flags, id)
	}
	s.mu.Unlock()

	for _, h := range removed {
		h.container.RemoveScrollListener(h.listener)
	}
}

func (s *Synchronizer) installPair(c scroll.Container, source, target string) {
	p := pair{source: source, target: target}

	s.mu.Lock()
	old, exists := s.handlers[p]
	delete(s.handlers, p)
	s.mu.Unlock()
	if exists {
		old.container.RemoveScrollListener(old.listener)
	}

	id := c.AddScrollListener(func(ev scroll.Event) {
		if s.consume(c, source, ev.Seq) {
			return
		}
		s.mirror(source, target)
	})

	s.mu.Lock()
	s.handlers[p] = handler{container: c, listener: id}
	s.mu.Unlock()
}

// consume reports whether the scroll event seq of id was caused by the
// synchronizer, consuming the armed flag on the first listener that sees it.
func (s *Synchronizer) consume(c scroll.Container, id string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flags[id]
	if f == nil || f.container != c {
		return false
	}
	if f.armed {
		f.armed = false
		f.consumed = true
		f.seq = seq
		return true
	}
	return f.consumed && f.seq == seq
}

func (s *Synchronizer) mirror(source, target string) {
	from, ok := s.lookup.Lookup(source)
	if !ok {
		return
	}
	to, ok := s.lookup.Lookup(target)
	if !ok {
		return
	}
	offset := from.Offset()
	if to.Offset() == offset {
		return
	}

	s.arm(to, target)
	to.ScrollTo(offset)
	// A clamped write that does not move the target dispatches nothing, so
	// the flag must not outlive the write.
	s.disarm(target)
}

func (s *Synchronizer) arm(c scroll.Container, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flags[id]
	if f == nil || f.container != c {
		f = &programmatic{container: c}
		s.flags[id] = f
	}
	f.armed = true
	s.mirrors++
}

func (s *Synchronizer) disarm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.flags[id]; f != nil {
		f.armed = false
	}
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
