package surface

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tsawler/syncview/document"
)

// minTextSize is the smallest font size, in pixels, worth drawing.
const minTextSize = 1.0

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func defaultFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Paint resizes s to the displayed page size at scale and draws c onto it.
func Paint(s *Surface, c *document.Content, scale float64) error {
	disp := c.Displayed()
	w, h := PixelSize(disp.Width, disp.Height, scale)
	if err := s.Resize(w, h); err != nil {
		return err
	}

	return s.Draw(func(dc *gg.Context) error {
		dc.ClearWithColor(gg.White)
		p := painter{dc: dc, media: c.Media, rotate: c.Rotate, scale: scale}

		for _, r := range c.Rects {
			if err := p.rect(r); err != nil {
				return err
			}
		}
		for _, l := range c.Lines {
			if err := p.line(l); err != nil {
				return err
			}
		}
		if len(c.Text) > 0 {
			src, err := defaultFont()
			if err != nil {
				return fmt.Errorf("failed to load font: %w", err)
			}
			for _, t := range c.Text {
				p.text(src, t)
			}
		}
		return nil
	})
}

type painter struct {
	dc     *gg.Context
	media  document.Size
	rotate int
	scale  float64
}

// device maps a PDF user-space point (origin bottom-left, y up) to surface
// pixels (origin top-left, y down), applying the page rotation clockwise.
func (p painter) device(x, y float64) (float64, float64) {
	w, h := p.media.Width, p.media.Height
	var dx, dy float64
	switch p.rotate {
	case 90:
		dx, dy = y, x
	case 180:
		dx, dy = w-x, y
	case 270:
		dx, dy = h-y, w-x
	default:
		dx, dy = x, h-y
	}
	return dx * p.scale, dy * p.scale
}

func (p painter) rect(r document.Rect) error {
	corners := [4][2]float64{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	trace := func() {
		for i, c := range corners {
			x, y := p.device(c[0], c[1])
			if i == 0 {
				p.dc.MoveTo(x, y)
			} else {
				p.dc.LineTo(x, y)
			}
		}
		p.dc.ClosePath()
	}

	if r.Filled {
		trace()
		p.dc.SetRGB(r.FillColor[0], r.FillColor[1], r.FillColor[2])
		if err := p.dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill rectangle: %w", err)
		}
	}
	if r.Stroked {
		trace()
		p.dc.SetRGB(r.StrokeColor[0], r.StrokeColor[1], r.StrokeColor[2])
		p.dc.SetLineWidth(lineWidth(r.StrokeWidth, p.scale))
		if err := p.dc.Stroke(); err != nil {
			return fmt.Errorf("failed to stroke rectangle: %w", err)
		}
	}
	return nil
}

func (p painter) line(l document.Line) error {
	x1, y1 := p.device(l.X1, l.Y1)
	x2, y2 := p.device(l.X2, l.Y2)
	p.dc.SetRGB(l.Color[0], l.Color[1], l.Color[2])
	p.dc.SetLineWidth(lineWidth(l.Width, p.scale))
	p.dc.DrawLine(x1, y1, x2, y2)
	if err := p.dc.Stroke(); err != nil {
		return fmt.Errorf("failed to stroke line: %w", err)
	}
	return nil
}

func (p painter) text(src *text.FontSource, t document.Text) {
	size := t.Size * p.scale
	if size < minTextSize {
		return
	}
	x, y := p.device(t.X, t.Y)
	p.dc.SetFont(src.Face(size))
	p.dc.SetRGB(0, 0, 0)
	p.dc.DrawString(t.Value, x, y)
}

// lineWidth scales a PDF line width; zero means the thinnest visible line.
func lineWidth(w, scale float64) float64 {
	if w <= 0 {
		return 1
	}
	if px := w * scale; px > 1 {
		return px
	}
	return 1
}
