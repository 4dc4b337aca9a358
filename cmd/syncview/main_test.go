package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/syncview/internal/pdftest"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("syncview %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func writePDF(t *testing.T, dir string, pages int) string {
	t.Helper()
	ps := make([]pdftest.Page, pages)
	for i := range ps {
		ps[i] = pdftest.Letter("0 0 1 rg 72 72 72 72 re f")
	}
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, pdftest.Build(ps...), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	if out := run(t, "version"); !strings.HasPrefix(out, "syncview ") {
		t.Errorf("version output = %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("CI", "1")
	dir := t.TempDir()
	doc := writePDF(t, dir, 2)
	outDir := filepath.Join(dir, "out")

	out := run(t, "render", doc,
		"--config", filepath.Join(dir, "none.yml"),
		"--out", outDir, "--zoom", "0.5", "--inline", "--thumbs", "50")

	if !strings.Contains(out, "pages: 2") {
		t.Errorf("output = %q", out)
	}
	for _, name := range []string{"page-001.png", "page-002.png", "thumb-001.png", "thumb-002.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestSyncCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writePDF(t, dir, 3)

	out := run(t, "sync", doc, doc,
		"--config", filepath.Join(dir, "none.yml"),
		"--zoom", "1", "--to", "900")

	if !strings.Contains(out, "doc2 offset (0, 900) page 2/3") {
		t.Errorf("output = %q", out)
	}
}

func TestScriptCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.js")
	if err := os.WriteFile(path, []byte(`log("hello"); 1 + 2`), 0644); err != nil {
		t.Fatal(err)
	}
	out := run(t, "script", path, "--config", filepath.Join(dir, "none.yml"))
	if out != "hello\n3\n" {
		t.Errorf("output = %q", out)
	}
}
