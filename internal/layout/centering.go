package layout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextWidth returns the width of the ink bounding box of s drawn with face.
func TextWidth(face font.Face, s string) fixed.Int26_6 {
	bounds, _ := font.BoundString(face, s)
	return bounds.Max.X - bounds.Min.X
}

// CenterX returns the horizontal origin that centers s on a surface of the
// given width. The result keeps sub-pixel precision; it goes negative when
// the text is wider than the surface.
func CenterX(face font.Face, s string, surfaceWidth int) float64 {
	return (float64(surfaceWidth) - toFloat(TextWidth(face, s))) / 2
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
