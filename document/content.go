package document

// Color is an RGB color with components in [0, 1].
type Color [3]float64

// Size is a page size in PDF points.
type Size struct {
	Width, Height float64
}

// Rect is a filled and/or stroked rectangle. X and Y are the bottom-left
// corner.
type Rect struct {
	X, Y, Width, Height float64

	Filled      bool
	FillColor   Color
	Stroked     bool
	StrokeColor Color
	StrokeWidth float64
}

// Line is a stroked straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
}

// Text is a run of text whose baseline starts at (X, Y).
type Text struct {
	X, Y  float64
	Size  float64
	Value string
}

// Content is everything drawable on one page.
type Content struct {
	// Media is the unrotated media box size.
	Media Size
	// Rotate is the clockwise display rotation: 0, 90, 180 or 270.
	Rotate int

	Rects []Rect
	Lines []Line
	Text  []Text
}

// Displayed returns the page size after rotation.
func (c *Content) Displayed() Size {
	return rotatedSize(c.Media, c.Rotate)
}

func rotatedSize(s Size, rotate int) Size {
	if rotate == 90 || rotate == 270 {
		return Size{Width: s.Height, Height: s.Width}
	}
	return s
}

// normalizeRotation folds any multiple of 90 into 0..270.
func normalizeRotation(r int) int {
	r %= 360
	if r < 0 {
		r += 360
	}
	switch r {
	case 90, 180, 270:
		return r
	default:
		return 0
	}
}
