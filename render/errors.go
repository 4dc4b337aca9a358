package render

import (
	"errors"
	"fmt"
)

// ErrNoDocument is returned by operations that need a loaded document.
var ErrNoDocument = errors.New("no document loaded")

// ErrPageOutOfRange is returned for page numbers outside 1..TotalPages.
var ErrPageOutOfRange = errors.New("page out of range")

// LoadError reports a source that could not be fetched or decoded. The
// renderer stays in its pre-load state.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", abbreviate(e.Source), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RenderError reports a page that failed to draw. Other pages are unaffected.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// abbreviate keeps inline payloads out of error messages.
func abbreviate(src string) string {
	const max = 64
	if len(src) <= max {
		return fmt.Sprintf("%q", src)
	}
	return fmt.Sprintf("%q (%d bytes)", src[:max]+"...", len(src))
}
