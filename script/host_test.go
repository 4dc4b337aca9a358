package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/syncview/internal/pdftest"
	"github.com/tsawler/syncview/scroll"
	"github.com/tsawler/syncview/source"
)

func newHost(t *testing.T) *Host {
	t.Helper()
	h, err := NewHost(Options{Viewport: scroll.Size{Width: 400, Height: 600}})
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	data := pdftest.Build(pdftest.Letter(""), pdftest.Letter(""), pdftest.Letter(""))
	src, err := source.EncodeDataURL(data, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.vm.Set("doc", src); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHostSyncScript(t *testing.T) {
	h := newHost(t)
	out, err := h.Run(context.Background(), `
		const a = createContainer("a");
		const b = createContainer("b");
		loadPdf(doc, a, 1);
		loadPdf(doc, b, 1);
		scrollSynchronizer([a, b]);
		scrollTo(a, 20, 900);
		const o = offset(b);
		[totalPages(a), currentPage(b), o.x, o.y].join(",");
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "3,2,20,900" {
		t.Errorf("script result = %v, want 3,2,20,900", out)
	}

	v, ok := h.Viewer("b")
	if !ok || v.CurrentPage() != 2 {
		t.Errorf("viewer b current page = %v", v)
	}
	if got := h.Group().Synchronizer().Listeners("a"); len(got) != 1 || got[0] != "b" {
		t.Errorf("Listeners(a) = %v, want [b]", got)
	}
}

func TestHostDisableSync(t *testing.T) {
	h := newHost(t)
	out, err := h.Run(context.Background(), `
		createContainer("a");
		createContainer("b");
		loadPdf(doc, "a", 1);
		loadPdf(doc, "b", 1);
		enableSyncScroll("a");
		enableSyncScroll("b");
		disableSyncScroll("b");
		scrollTo("a", 0, 500);
		offset("b").y;
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fmt.Sprint(out) != "0" {
		t.Errorf("b offset = %v, want 0", out)
	}
}

func TestHostPageChangedCallback(t *testing.T) {
	h := newHost(t)
	out, err := h.Run(context.Background(), `
		const seen = [];
		const id = createContainer();
		loadPdf(doc, id, 1);
		onPageChanged(id, p => seen.push(p));
		scrollTo(id, 0, 900);
		scrollTo(id, 0, 950);
		scrollTo(id, 0, 0);
		seen.join(",");
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "2,1" {
		t.Errorf("page changes = %v, want 2,1", out)
	}
}

func TestHostGeneratedContainerID(t *testing.T) {
	h := newHost(t)
	out, err := h.Run(context.Background(), `createContainer()`)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := out.(string)
	if !strings.HasPrefix(id, scroll.IDPrefix) {
		t.Errorf("generated id = %q, want prefix %q", id, scroll.IDPrefix)
	}
	if _, ok := h.Tree().Lookup(id); !ok {
		t.Errorf("container %q not mounted", id)
	}
}

func TestHostLoadErrorIsThrown(t *testing.T) {
	h := newHost(t)
	out, err := h.Run(context.Background(), `
		const id = createContainer("x");
		let msg = "";
		try {
			loadPdf("data:application/pdf;base64,bm90IGEgcGRm", id);
		} catch (e) {
			msg = String(e);
		}
		[msg.length > 0, totalPages(id)].join(",");
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "true,1" {
		t.Errorf("result = %v, want true,1", out)
	}
}

func TestHostUnknownContainer(t *testing.T) {
	h := newHost(t)
	if _, err := h.Run(context.Background(), `currentPage("nope")`); err == nil {
		t.Fatal("expected an error for an unknown container")
	}
}

func TestHostSavePage(t *testing.T) {
	h := newHost(t)
	path := filepath.Join(t.TempDir(), "page1.png")
	if err := h.vm.Set("out", path); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Run(context.Background(), `
		createContainer("a");
		loadPdf(doc, "a", 0.5);
		savePage("a", 1, out);
	`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("expected a png at %s, stat err = %v", path, err)
	}
}

func TestHostLog(t *testing.T) {
	var got []string
	h, err := NewHost(Options{Log: func(msg string) { got = append(got, msg) }})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if _, err := h.Run(context.Background(), `log("pages", 3)`); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "pages 3" {
		t.Errorf("log = %v", got)
	}
}

func TestHostContextCancellation(t *testing.T) {
	h := newHost(t)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	if _, err := h.Run(ctx, "while (true) {}"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
	if _, err := h.Run(context.Background(), "1 + 1"); err != nil {
		t.Fatalf("host should recover after cancellation, got %v", err)
	}

	done, stop := context.WithCancel(context.Background())
	stop()
	if _, err := h.Run(done, "42"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}
