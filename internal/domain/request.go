package domain

import (
	"bytes"
	"fmt"
	"io"
)

const (
	AnchorTop      = "top"
	AnchorBaseline = "baseline"

	FormatPNG  = "png"
	FormatJPEG = "jpeg"

	CollisionOverwrite = "overwrite"
	CollisionSuffix    = "suffix"
	CollisionFail      = "fail"
)

// Source is an immutable upload. Open hands out a fresh reader on every call
// so repeated renders never observe a consumed stream.
type Source struct {
	Name string
	data []byte
}

func NewSource(name string, data []byte) Source {
	return Source{Name: name, data: data}
}

func (s Source) Open() io.Reader {
	return bytes.NewReader(s.data)
}

func (s Source) Len() int {
	return len(s.data)
}

func (s Source) Empty() bool {
	return len(s.data) == 0
}

// Assets are the shared read-only inputs of one batch.
type Assets struct {
	Template Source
	Font     Source
}

func (a Assets) Validate() error {
	if a.Template.Empty() {
		return &ValidationError{Input: SourceTemplate, Err: fmt.Errorf("no template uploaded")}
	}
	if a.Font.Empty() {
		return &ValidationError{Input: SourceFont, Err: fmt.Errorf("no font uploaded")}
	}
	return nil
}

type QR struct {
	Content string `yaml:"content"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Size    int    `yaml:"size"`
}

func (q QR) Enabled() bool {
	return q.Content != ""
}

// Options is passed by value into the renderer and orchestrator.
type Options struct {
	Y               int    `yaml:"y_coordinate"`
	FontSize        int    `yaml:"font_size"`
	Spacing         int    `yaml:"extra_spaces"`
	Color           string `yaml:"font_color"`
	VerticalAnchor  string `yaml:"vertical_anchor"`
	OutputFormat    string `yaml:"output_format"`
	JPEGQuality     int    `yaml:"jpeg_quality"`
	OnCollision     string `yaml:"on_collision"`
	ContinueOnError bool   `yaml:"continue_on_error"`
	PreviewWidth    int    `yaml:"preview_width"`
	QR              QR     `yaml:"qr"`
}

func DefaultOptions() Options {
	return Options{
		Y:              846,
		FontSize:       55,
		Spacing:        2,
		Color:          "#000000",
		VerticalAnchor: AnchorTop,
		OutputFormat:   FormatPNG,
		JPEGQuality:    95,
		OnCollision:    CollisionOverwrite,
		PreviewWidth:   800,
		QR:             QR{Size: 160},
	}
}

func (o Options) Validate() error {
	fail := func(format string, args ...any) error {
		return &ValidationError{
			Input: "options",
			Err:   fmt.Errorf("%w: %s", ErrInvalidOptions, fmt.Sprintf(format, args...)),
		}
	}

	if o.Spacing < 1 {
		return fail("extra_spaces must be >= 1, got %d", o.Spacing)
	}
	if o.FontSize <= 0 {
		return fail("font_size must be positive, got %d", o.FontSize)
	}
	switch o.VerticalAnchor {
	case AnchorTop, AnchorBaseline:
	default:
		return fail("unknown vertical_anchor %q", o.VerticalAnchor)
	}
	switch o.OutputFormat {
	case FormatPNG, FormatJPEG:
	default:
		return fail("unknown output_format %q", o.OutputFormat)
	}
	if o.OutputFormat == FormatJPEG && (o.JPEGQuality < 1 || o.JPEGQuality > 100) {
		return fail("jpeg_quality must be within 1..100, got %d", o.JPEGQuality)
	}
	switch o.OnCollision {
	case CollisionOverwrite, CollisionSuffix, CollisionFail:
	default:
		return fail("unknown on_collision %q", o.OnCollision)
	}
	if o.QR.Enabled() && o.QR.Size <= 0 {
		return fail("qr.size must be positive, got %d", o.QR.Size)
	}
	return nil
}

// Extension is the fixed file extension of rendered certificates.
func (o Options) Extension() string {
	if o.OutputFormat == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// RenderRequest bundles everything needed to render one name.
type RenderRequest struct {
	Assets
	Name    string
	Options Options
}
