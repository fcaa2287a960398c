package image

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"certinator/internal/domain"
)

type Processor struct{}

// Decode reads a template raster, applying EXIF orientation when present.
func (p *Processor) Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// Encode writes img in the configured output format.
func (p *Processor) Encode(w io.Writer, img image.Image, opts domain.Options) error {
	if opts.OutputFormat == domain.FormatJPEG {
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.JPEGQuality))
	}
	return imaging.Encode(w, img, imaging.PNG)
}

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Images already narrow enough are returned as is.
func (p *Processor) Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}

// EncodePreview encodes a downscaled PNG preview.
func (p *Processor) EncodePreview(w io.Writer, img image.Image, maxWidth int) error {
	if err := imaging.Encode(w, p.Thumbnail(img, maxWidth), imaging.PNG); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}
