package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/syncview/internal/pdftest"
)

func openFixture(t *testing.T, pgs ...pdftest.Page) *Document {
	t.Helper()
	doc, err := Open(context.Background(), pdftest.Build(pgs...))
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"header", []byte("%PDF-1.7\n"), true},
		{"leading junk", append([]byte("junk\n"), []byte("%PDF-1.4")...), true},
		{"too short", []byte("%PD"), false},
		{"html", []byte("<!DOCTYPE html><html>"), false},
		{"header past window", append(make([]byte, headerWindow), []byte("%PDF-1.4")...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDF(tt.data); got != tt.want {
				t.Errorf("IsPDF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenPageCountAndSizes(t *testing.T) {
	doc := openFixture(t,
		pdftest.Page{Width: 600, Height: 800},
		pdftest.Page{Width: 600, Height: 800},
		pdftest.Page{Width: 800, Height: 600, Rotate: 90},
	)

	if n := doc.PageCount(); n != 3 {
		t.Fatalf("PageCount() = %d, want 3", n)
	}

	want := []Size{{600, 800}, {600, 800}, {600, 800}}
	for i, w := range want {
		got, err := doc.PageSize(i + 1)
		if err != nil {
			t.Fatalf("PageSize(%d): %v", i+1, err)
		}
		if got != w {
			t.Errorf("PageSize(%d) = %v, want %v", i+1, got, w)
		}
	}

	if _, err := doc.PageSize(0); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("PageSize(0) error = %v, want ErrPageOutOfRange", err)
	}
	if _, err := doc.PageSize(4); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("PageSize(4) error = %v, want ErrPageOutOfRange", err)
	}
}

func TestOpenRejectsCorruptData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello world")},
		{"truncated", []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Open(context.Background(), tt.data)
			if err == nil {
				doc.Close()
				t.Fatal("expected error")
			}
		})
	}

	if _, err := Open(context.Background(), []byte("nope")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
}

func TestContent(t *testing.T) {
	doc := openFixture(t, pdftest.Letter(strings.Join([]string{
		"1 0 0 rg",
		"72 72 200 100 re f",
		"BT /F1 24 Tf 72 700 Td (Hello) Tj ET",
	}, "\n")))

	c, err := doc.Content(context.Background(), 1)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if c.Media != (Size{612, 792}) {
		t.Errorf("media = %v", c.Media)
	}

	var found bool
	for _, r := range c.Rects {
		if r.Filled && r.Width == 200 && r.Height == 100 {
			found = true
			if r.FillColor != (Color{1, 0, 0}) {
				t.Errorf("fill color = %v, want red", r.FillColor)
			}
		}
	}
	if !found {
		t.Errorf("expected a filled 200x100 rectangle, got %+v", c.Rects)
	}

	var text strings.Builder
	for _, tx := range c.Text {
		text.WriteString(tx.Value)
	}
	if !strings.Contains(text.String(), "Hello") {
		t.Errorf("expected text to contain Hello, got %q", text.String())
	}
}

func TestContentEmptyPage(t *testing.T) {
	doc := openFixture(t, pdftest.Page{Width: 300, Height: 400})
	c, err := doc.Content(context.Background(), 1)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if len(c.Rects)+len(c.Lines)+len(c.Text) != 0 {
		t.Errorf("expected empty content, got %+v", c)
	}
}

func TestCloseRemovesSpoolFile(t *testing.T) {
	doc, err := Open(context.Background(), pdftest.Build(pdftest.Letter("")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	spool := doc.temp
	if _, err := os.Stat(spool); err != nil {
		t.Fatalf("expected spool file: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if _, err := os.Stat(spool); !os.IsNotExist(err) {
		t.Errorf("expected spool file to be removed, stat err = %v", err)
	}
	if _, err := doc.PageSize(1); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.pdf")
	if err := os.WriteFile(path, pdftest.Build(pdftest.Letter(""), pdftest.Letter("")), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer doc.Close()
	if doc.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", doc.PageCount())
	}
	if doc.temp != "" {
		t.Error("OpenFile should not spool")
	}
}
