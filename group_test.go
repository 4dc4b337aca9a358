package syncview

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/syncscroll"
)

func mountRegions(t *testing.T, ids ...string) (*scroll.Tree, map[string]*scroll.Region) {
	t.Helper()
	tree := scroll.NewTree()
	regions := make(map[string]*scroll.Region, len(ids))
	for _, id := range ids {
		r := scroll.NewRegion(id, scroll.Size{Width: 100, Height: 100})
		r.SetContentSize(scroll.Size{Width: 500, Height: 5000})
		tree.Mount(r)
		regions[id] = r
	}
	return tree, regions
}

func TestGroupReinstallsOnChange(t *testing.T) {
	tree, regions := mountRegions(t, "a", "b", "c")
	g := NewGroup(tree)
	defer g.Close()
	for _, id := range []string{"a", "b", "c"} {
		g.Attach(id)
	}

	g.Registry().Enable("a")
	if got := g.Synchronizer().Listeners("a"); len(got) != 0 {
		t.Errorf("single active container has listeners %v", got)
	}

	g.Registry().Enable("b")
	g.Registry().Enable("c")
	if got := g.Synchronizer().Listeners("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Listeners(a) = %v, want [b c]", got)
	}
	for id, r := range regions {
		if n := r.ScrollListenerCount(); n != 2 {
			t.Errorf("%s has %d listeners, want 2", id, n)
		}
	}

	g.Registry().Disable("b")
	if got := g.Synchronizer().Listeners("a"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("after disable Listeners(a) = %v, want [c]", got)
	}
	if n := regions["b"].ScrollListenerCount(); n != 0 {
		t.Errorf("disabled container still has %d listeners", n)
	}

	regions["a"].ScrollTo(scroll.Offset{X: 10, Y: 300})
	if got := regions["c"].Offset(); got != (scroll.Offset{X: 10, Y: 300}) {
		t.Errorf("c offset = %v, want (10,300)", got)
	}
	if got := regions["b"].Offset(); got != (scroll.Offset{}) {
		t.Errorf("disabled b moved to %v", got)
	}
}

func TestGroupDetachTearsDown(t *testing.T) {
	tree, regions := mountRegions(t, "a", "b")
	g := NewGroup(tree)
	defer g.Close()
	g.Attach("a")
	g.Attach("b")
	g.Registry().Enable("a")
	g.Registry().Enable("b")

	g.Detach("b")
	if g.Registry().IsActive("b") {
		t.Error("detached id still active")
	}
	if !reflect.DeepEqual(g.Attached(), []string{"a"}) {
		t.Errorf("Attached() = %v, want [a]", g.Attached())
	}
	for id, r := range regions {
		if n := r.ScrollListenerCount(); n != 0 {
			t.Errorf("%s has %d listeners after detach", id, n)
		}
	}
}

func TestGroupIgnoresUnattachedIDs(t *testing.T) {
	tree, regions := mountRegions(t, "a", "b")
	g := NewGroup(tree)
	defer g.Close()
	g.Attach("a")

	g.Registry().Enable("a")
	g.Registry().Enable("b")
	if n := regions["b"].ScrollListenerCount(); n != 0 {
		t.Errorf("unattached container has %d listeners", n)
	}

	g.Attach("b")
	if n := regions["b"].ScrollListenerCount(); n != 1 {
		t.Errorf("attached container has %d listeners, want 1", n)
	}
}

func TestGroupReportsWiringErrors(t *testing.T) {
	tree, _ := mountRegions(t, "a")
	var errs []error
	g := NewGroup(tree, WithWiringErrorHandler(func(err error) { errs = append(errs, err) }))
	defer g.Close()

	g.Attach("a")
	g.Attach("ghost")
	g.Registry().Enable("a")
	g.Registry().Enable("ghost")

	if len(errs) != 1 {
		t.Fatalf("got %d wiring errors, want 1: %v", len(errs), errs)
	}
	var we *syncscroll.WiringError
	if !errors.As(errs[0], &we) || we.ID != "ghost" || !errors.Is(errs[0], syncscroll.ErrNotMounted) {
		t.Errorf("error = %v", errs[0])
	}
	if got := g.Synchronizer().Listeners("a"); !reflect.DeepEqual(got, []string{"ghost"}) {
		t.Errorf("Listeners(a) = %v, want [ghost]", got)
	}
}

func TestGroupClose(t *testing.T) {
	tree, regions := mountRegions(t, "a", "b")
	g := NewGroup(tree)
	g.Attach("a")
	g.Attach("b")
	g.Registry().Enable("a")
	g.Registry().Enable("b")

	g.Close()
	g.Close()
	for id, r := range regions {
		if n := r.ScrollListenerCount(); n != 0 {
			t.Errorf("%s has %d listeners after close", id, n)
		}
	}
	g.Registry().Disable("a")
	g.Registry().Enable("a")
	if n := regions["a"].ScrollListenerCount(); n != 0 {
		t.Errorf("closed group reinstalled %d listeners", n)
	}
}
