package syncview

import (
	"sync"

	"github.com/tsawler/syncview/syncscroll"
)

// Participant is the capability to opt one container in and out of
// synchronized scrolling. Types that take part in a group hold one.
type Participant struct {
	registry *syncscroll.Registry
	id       string

	mu      sync.Mutex
	enabled bool
	closed  bool
}

// NewParticipant returns a disabled participant for id. A nil registry gives
// a participant whose toggles have no effect.
func NewParticipant(registry *syncscroll.Registry, id string) *Participant {
	return &Participant{registry: registry, id: id}
}

// ID returns the container id.
func (p *Participant) ID() string { return p.id }

// Enabled reports the participation flag.
func (p *Participant) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// SetEnabled changes the participation flag and updates the registry when it
// changes. It is a no-op after Close.
func (p *Participant) SetEnabled(enabled bool) {
	p.mu.Lock()
	if p.closed || p.enabled == enabled {
		p.mu.Unlock()
		return
	}
	p.enabled = enabled
	p.mu.Unlock()

	if p.registry == nil {
		return
	}
	if enabled {
		p.registry.Enable(p.id)
	} else {
		p.registry.Disable(p.id)
	}
}

// Close disables the participant for good.
func (p *Participant) Close() {
	p.SetEnabled(false)
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
