package image

import (
	"image"

	"github.com/fogleman/gg"

	"certinator/internal/domain"
	"certinator/internal/layout"
)

// Renderer composites names onto certificate templates.
type Renderer struct {
	processor    *Processor
	textRenderer *TextRenderer
}

func NewRenderer(processor *Processor, textRenderer *TextRenderer) *Renderer {
	return &Renderer{
		processor:    processor,
		textRenderer: textRenderer,
	}
}

// Render draws req.Name onto a fresh decode of the template. The template and
// font sources are only read, so the same request renders pixel-identical
// output every time.
func (r *Renderer) Render(req domain.RenderRequest) (image.Image, error) {
	tpl, err := r.processor.Decode(req.Template.Open())
	if err != nil {
		return nil, &domain.DecodeError{Source: domain.SourceTemplate, Err: err}
	}

	text := layout.SpaceOut(req.Name, req.Options.Spacing)

	face, err := r.textRenderer.LoadFace(req.Font.Open(), req.Options.FontSize)
	if err != nil {
		return nil, &domain.DecodeError{Source: domain.SourceFont, Err: err}
	}
	defer face.Close()

	clr, err := ParseColor(req.Options.Color)
	if err != nil {
		return nil, &domain.RenderError{Name: req.Name, Err: err}
	}

	dc := gg.NewContextForImage(tpl)
	r.textRenderer.DrawCentered(dc, face, text, req.Options.Y, req.Options.VerticalAnchor, clr)

	if req.Options.QR.Enabled() {
		if err := StampQR(dc, req.Options.QR, req.Name); err != nil {
			return nil, &domain.RenderError{Name: req.Name, Err: err}
		}
	}

	return dc.Image(), nil
}
