package surface

import (
	"image"

	"golang.org/x/image/draw"
)

// Thumbnail scales img down to maxWidth pixels wide, keeping the aspect
// ratio. Images already narrower than maxWidth are copied unscaled.
func Thumbnail(img image.Image, maxWidth int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = atLeastOne(h * maxWidth / w)
		w = maxWidth
	}
	dst := image.NewRGBA(image.Rect(0, 0, atLeastOne(w), atLeastOne(h)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
