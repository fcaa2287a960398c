package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn     = errors.New("required column is missing")
	ErrNoNames           = errors.New("no names left after dropping empty rows")
	ErrInvalidOptions    = errors.New("invalid render options")
	ErrFilenameCollision = errors.New("two names share the same file name")
)

// Upload sources a DecodeError can be attributed to.
const (
	SourceTemplate = "template"
	SourceFont     = "font"
)

// ValidationError is raised before any rendering starts.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DecodeError means the template or font bytes could not be decoded.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RenderError is a drawing-stage failure for a single name.
type RenderError struct {
	Name string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("render failed: %v", e.Err)
	}
	return fmt.Sprintf("render failed for %q: %v", e.Name, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Stage names the pipeline stage an error belongs to: "validation",
// "decode:<source>", "render" or "internal".
func Stage(err error) string {
	var ve *ValidationError
	var de *DecodeError
	var re *RenderError
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &de):
		return "decode:" + de.Source
	case errors.As(err, &re):
		return "render"
	default:
		return "internal"
	}
}
