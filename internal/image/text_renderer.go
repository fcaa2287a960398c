package image

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"certinator/internal/domain"
	"certinator/internal/layout"
)

// Fonts are rasterized at 72 DPI so a point equals a pixel.
const fontDPI = 72

type TextRenderer struct{}

// LoadFace parses the font from src and returns a face at size points.
// TrueType is tried first, OpenType (including CFF outlines) second.
func (tr *TextRenderer) LoadFace(src io.Reader, size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", size)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}

	if f, err := truetype.Parse(data); err == nil {
		return truetype.NewFace(f, &truetype.Options{
			Size:    float64(size),
			DPI:     fontDPI,
			Hinting: font.HintingNone,
		}), nil
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     fontDPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %dpt: %w", size, err)
	}
	return face, nil
}

// DrawCentered draws text horizontally centered on dc. With AnchorTop, y is
// the ascender line; with AnchorBaseline it is the baseline.
func (tr *TextRenderer) DrawCentered(dc *gg.Context, face font.Face, text string, y int, anchor string, clr color.Color) {
	x := layout.CenterX(face, text, dc.Width())

	baseline := float64(y)
	if anchor != domain.AnchorBaseline {
		baseline += float64(face.Metrics().Ascent) / 64
	}

	dc.SetFontFace(face)
	dc.SetColor(clr)
	dc.DrawString(text, x, baseline)
}
