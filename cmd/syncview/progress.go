package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// reporter provides progress feedback while pages are exported.
type reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// newReporter returns a terminal progress bar, or a line reporter when the
// CI environment variable is set.
func newReporter(w io.Writer) reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &lineReporter{w: w}
	}
	return &barReporter{w: w}
}

type barReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Exporting pages"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *barReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

type lineReporter struct {
	w     io.Writer
	total int
}

func (r *lineReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Exporting %d pages\n", total)
}

func (r *lineReporter) Update(current int, message string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *lineReporter) Finish() {
	fmt.Fprintln(r.w, "Export complete")
}
