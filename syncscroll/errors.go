package syncscroll

import (
	"errors"
	"fmt"
)

// ErrNotMounted is matched by every WiringError.
var ErrNotMounted = errors.New("container not mounted")

// WiringError reports an active id that had no mounted container when the
// synchronizer was installed. It is informational: the id is skipped.
type WiringError struct {
	ID string
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("sync wiring skipped %q: %v", e.ID, ErrNotMounted)
}

// Unwrap returns ErrNotMounted.
func (e *WiringError) Unwrap() error { return ErrNotMounted }
