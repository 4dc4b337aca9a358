// Package surface provides the raster surfaces that rendered pages are drawn
// on, and the painter that draws document content onto them.
//
// A Surface is created once per page and then resized in place for every
// later render; its identity is the page number.
package surface

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gogpu/gg"
)

// Surface is one page's drawable raster.
type Surface struct {
	page int

	mu sync.Mutex
	dc *gg.Context
}

// New creates a surface for page with the given pixel size. Sizes below one
// pixel are raised to one.
func New(page, width, height int) *Surface {
	width, height = atLeastOne(width), atLeastOne(height)
	return &Surface{page: page, dc: gg.NewContext(width, height)}
}

// Page returns the page number the surface belongs to.
func (s *Surface) Page() int { return s.page }

// Size returns the pixel size.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Width(), s.dc.Height()
}

// Resize changes the pixel size in place. The pixels are cleared when the
// size changes.
func (s *Surface) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dc.Resize(atLeastOne(width), atLeastOne(height)); err != nil {
		return fmt.Errorf("failed to resize surface for page %d: %w", s.page, err)
	}
	return nil
}

// Draw runs fn with exclusive access to the drawing context.
func (s *Surface) Draw(fn func(dc *gg.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.dc)
}

// Image returns the current pixels.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Image()
}

// SavePNG writes the surface to path.
func (s *Surface) SavePNG(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.SavePNG(path)
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Close()
}

// PixelSize returns floor(points*scale) for both axes.
func PixelSize(width, height, scale float64) (int, int) {
	return int(math.Floor(width * scale)), int(math.Floor(height * scale))
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
