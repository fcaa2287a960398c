package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_WrapAndMatch(t *testing.T) {
	v := &ValidationError{Input: "names", Err: ErrMissingColumn}
	assert.ErrorIs(t, fmt.Errorf("load: %w", v), ErrMissingColumn)
	assert.Contains(t, v.Error(), "names")

	d := &DecodeError{Source: SourceFont, Err: errors.New("bad magic")}
	var got *DecodeError
	require.ErrorAs(t, fmt.Errorf("render: %w", d), &got)
	assert.Equal(t, SourceFont, got.Source)

	r := &RenderError{Name: "Bob", Err: errors.New("unknown color")}
	assert.Contains(t, r.Error(), `"Bob"`)
}

func TestStage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ValidationError{Input: "names", Err: ErrNoNames}, "validation"},
		{fmt.Errorf("x: %w", &DecodeError{Source: SourceTemplate, Err: errors.New("eof")}), "decode:template"},
		{&DecodeError{Source: SourceFont, Err: errors.New("eof")}, "decode:font"},
		{&RenderError{Err: errors.New("boom")}, "render"},
		{errors.New("disk full"), "internal"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Stage(tc.err))
	}
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero spacing", func(o *Options) { o.Spacing = 0 }},
		{"zero font size", func(o *Options) { o.FontSize = 0 }},
		{"negative font size", func(o *Options) { o.FontSize = -3 }},
		{"unknown anchor", func(o *Options) { o.VerticalAnchor = "middle" }},
		{"unknown format", func(o *Options) { o.OutputFormat = "gif" }},
		{"bad jpeg quality", func(o *Options) { o.OutputFormat = FormatJPEG; o.JPEGQuality = 0 }},
		{"unknown collision", func(o *Options) { o.OnCollision = "merge" }},
		{"qr without size", func(o *Options) { o.QR = QR{Content: "x"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultOptions()
			tc.mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOptions)
			assert.Equal(t, "validation", Stage(err))
		})
	}
}

func TestSource_OpenIsRepeatable(t *testing.T) {
	s := NewSource("t.png", []byte("abc"))
	for i := 0; i < 3; i++ {
		buf := make([]byte, 3)
		n, err := s.Open().Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(buf[:n]))
	}
}

func TestAssets_Validate(t *testing.T) {
	err := Assets{Font: NewSource("f.ttf", []byte{1})}.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, SourceTemplate, ve.Input)

	err = Assets{Template: NewSource("t.png", []byte{1})}.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, SourceFont, ve.Input)
}

func TestOptions_Extension(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, ".png", o.Extension())
	o.OutputFormat = FormatJPEG
	assert.Equal(t, ".jpg", o.Extension())
}
