package document

import (
	"bytes"
	"errors"
)

// headerWindow is how far into the data the %PDF- marker may appear. Readers
// tolerate leading junk before the header, up to this many bytes.
const headerWindow = 1024

// ErrNotPDF is returned when the data has no PDF header.
var ErrNotPDF = errors.New("data is not a PDF document")

// IsPDF reports whether data carries a PDF header within the first 1024
// bytes.
func IsPDF(data []byte) bool {
	return headerOffset(data) >= 0
}

func headerOffset(data []byte) int {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	return bytes.Index(window, []byte("%PDF-"))
}
