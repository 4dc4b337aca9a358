package scroll

import (
	"strings"
	"testing"
)

func newTestRegion(id string) *Region {
	r := NewRegion(id, Size{Width: 400, Height: 500})
	r.SetContentSize(Size{Width: 1000, Height: 3000})
	return r
}

func TestNewRegionGeneratesID(t *testing.T) {
	a := NewRegion("", Size{})
	b := NewRegion("", Size{})
	if !strings.HasPrefix(a.ID(), IDPrefix) {
		t.Errorf("expected generated id with prefix %q, got %q", IDPrefix, a.ID())
	}
	if a.ID() == b.ID() {
		t.Errorf("expected distinct generated ids, got %q twice", a.ID())
	}

	c := NewRegion("left", Size{})
	if c.ID() != "left" {
		t.Errorf("expected caller id to be kept, got %q", c.ID())
	}
}

func TestScrollToClamps(t *testing.T) {
	tests := []struct {
		name string
		in   Offset
		want Offset
	}{
		{"inside", Offset{X: 10, Y: 20}, Offset{X: 10, Y: 20}},
		{"negative", Offset{X: -5, Y: -5}, Offset{}},
		{"past end", Offset{X: 5000, Y: 5000}, Offset{X: 600, Y: 2500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegion("a")
			r.ScrollTo(tt.in)
			if got := r.Offset(); got != tt.want {
				t.Errorf("ScrollTo(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScrollToDispatchesOnlyOnChange(t *testing.T) {
	r := newTestRegion("a")
	var events []Event
	r.AddScrollListener(func(ev Event) { events = append(events, ev) })

	if !r.ScrollTo(Offset{Y: 100}) {
		t.Fatal("expected first scroll to move")
	}
	if r.ScrollTo(Offset{Y: 100}) {
		t.Error("expected scroll to the same offset to report no change")
	}
	r.ScrollTo(Offset{Y: 200})

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Seq != 1 || events[1].Seq != 2 {
		t.Errorf("expected sequence 1,2, got %d,%d", events[0].Seq, events[1].Seq)
	}
	if events[1].Container != "a" || events[1].Offset != (Offset{Y: 200}) {
		t.Errorf("unexpected event: %+v", events[1])
	}
}

func TestListenersShareSeqWithinOneScroll(t *testing.T) {
	r := newTestRegion("a")
	var seqs []uint64
	for i := 0; i < 3; i++ {
		r.AddScrollListener(func(ev Event) { seqs = append(seqs, ev.Seq) })
	}
	r.ScrollTo(Offset{Y: 50})

	if len(seqs) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(seqs))
	}
	for _, s := range seqs {
		if s != seqs[0] {
			t.Errorf("expected one seq for all listeners, got %v", seqs)
		}
	}
}

func TestRemoveScrollListener(t *testing.T) {
	r := newTestRegion("a")
	calls := 0
	id := r.AddScrollListener(func(Event) { calls++ })
	if r.ScrollListenerCount() != 1 {
		t.Fatalf("expected 1 listener, got %d", r.ScrollListenerCount())
	}
	if !r.RemoveScrollListener(id) {
		t.Fatal("expected removal to succeed")
	}
	if r.RemoveScrollListener(id) {
		t.Error("expected second removal to report false")
	}
	r.ScrollTo(Offset{Y: 10})
	if calls != 0 {
		t.Errorf("removed listener was called %d times", calls)
	}
}

func TestListenerRemovedDuringDispatchIsSkipped(t *testing.T) {
	r := newTestRegion("a")
	var second ListenerID
	secondCalls := 0
	r.AddScrollListener(func(Event) { r.RemoveScrollListener(second) })
	second = r.AddScrollListener(func(Event) { secondCalls++ })

	r.ScrollTo(Offset{Y: 10})
	if secondCalls != 0 {
		t.Errorf("listener removed mid-dispatch was called %d times", secondCalls)
	}
}

func TestSetContentSizeClampIsAScroll(t *testing.T) {
	r := newTestRegion("a")
	r.ScrollTo(Offset{Y: 2000})

	var got []Offset
	r.AddScrollListener(func(ev Event) { got = append(got, ev.Offset) })
	r.SetContentSize(Size{Width: 1000, Height: 1000})

	if len(got) != 1 || got[0] != (Offset{Y: 500}) {
		t.Errorf("expected one clamp event to (0, 500), got %v", got)
	}
}

func TestSetViewportNotifiesResize(t *testing.T) {
	r := newTestRegion("a")
	var sizes []Size
	id := r.AddResizeListener(func(s Size) { sizes = append(sizes, s) })

	r.SetViewport(Size{Width: 600, Height: 500})
	r.SetViewport(Size{Width: 600, Height: 500})
	r.RemoveResizeListener(id)
	r.SetViewport(Size{Width: 700, Height: 500})

	if len(sizes) != 1 || sizes[0].Width != 600 {
		t.Errorf("expected a single resize to width 600, got %v", sizes)
	}
}

func TestTree(t *testing.T) {
	tree := NewTree()
	tree.Mount(NewRegion("b", Size{}))
	tree.Mount(NewRegion("a", Size{}))

	if _, ok := tree.Lookup("a"); !ok {
		t.Error("expected a to be mounted")
	}
	if ids := tree.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected ids: %v", ids)
	}
	if !tree.Unmount("a") {
		t.Error("expected unmount to succeed")
	}
	if tree.Unmount("a") {
		t.Error("expected second unmount to report false")
	}
	if _, ok := tree.Lookup("a"); ok {
		t.Error("expected a to be gone")
	}
}
