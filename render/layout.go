package render

import "math"

// PageRect is a page's vertical extent in container coordinates: Top is
// relative to the top of the viewport, so it is negative once the page has
// scrolled above it.
type PageRect struct {
	Page   int
	Top    float64
	Height float64
}

// Bottom returns Top + Height.
func (r PageRect) Bottom() float64 { return r.Top + r.Height }

// InBand reports whether any part of r intersects [-vh, vh].
func (r PageRect) InBand(vh float64) bool {
	return r.Top <= vh && r.Bottom() >= -vh
}

// CurrentPageOf picks the current page from page rectangles ordered by page
// number.
//
// Among pages in the visibility band it returns the one whose vertical center
// is closest to the viewport midpoint. If none is in the band it scans in
// order: a page above the viewport top becomes the choice and the scan goes
// on, the first page below it becomes the choice and ends the scan. With no
// choice at all it returns 1.
func CurrentPageOf(rects []PageRect, vh float64) int {
	closest := 0
	best := math.Inf(1)
	for _, r := range rects {
		if !r.InBand(vh) {
			continue
		}
		if d := math.Abs(r.Top + r.Height/2 - vh/2); d < best {
			best = d
			closest = r.Page
		}
	}
	if closest != 0 {
		return closest
	}

	for _, r := range rects {
		if r.Top < 0 {
			closest = r.Page
		}
		if r.Top > 0 {
			closest = r.Page
			break
		}
	}
	if closest != 0 {
		return closest
	}
	return 1
}

// stack lays pages out top to bottom. heights[i] is page i+1's height; a zero
// height is a page with no surface yet, which takes no space and no gap.
func stack(heights []float64, gap, scrollY float64) []PageRect {
	rects := make([]PageRect, 0, len(heights))
	y := 0.0
	for i, h := range heights {
		if h <= 0 {
			continue
		}
		rects = append(rects, PageRect{Page: i + 1, Top: y - scrollY, Height: h})
		y += h + gap
	}
	return rects
}

// contentHeight is the total stacked height including gaps.
func contentHeight(heights []float64, gap float64) float64 {
	total := 0.0
	for _, h := range heights {
		if h > 0 {
			total += h + gap
		}
	}
	return total
}
