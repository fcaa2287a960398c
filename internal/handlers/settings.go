package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"certinator/internal/domain"
	"certinator/internal/storage"
)

const setUsage = "Usage: /set <key> <value>\n" +
	"Keys: y, size, spaces, color, anchor (top|baseline), format (png|jpeg), collisions (overwrite|suffix|fail), skip_failed (on|off)"

func applySetting(opts *domain.Options, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number, got %q", key, value)
		}
		return n, nil
	}

	var err error
	switch strings.ToLower(key) {
	case "y":
		opts.Y, err = atoi()
	case "size":
		opts.FontSize, err = atoi()
	case "spaces":
		opts.Spacing, err = atoi()
	case "color":
		opts.Color = value
	case "anchor":
		opts.VerticalAnchor = strings.ToLower(value)
	case "format":
		opts.OutputFormat = strings.ToLower(value)
		if opts.OutputFormat == "jpg" {
			opts.OutputFormat = domain.FormatJPEG
		}
	case "collisions":
		opts.OnCollision = strings.ToLower(value)
	case "skip_failed":
		switch strings.ToLower(value) {
		case "on", "true", "yes":
			opts.ContinueOnError = true
		case "off", "false", "no":
			opts.ContinueOnError = false
		default:
			err = fmt.Errorf("skip_failed must be on or off, got %q", value)
		}
	default:
		err = fmt.Errorf("unknown setting %q", key)
	}
	return err
}

func describeSession(s storage.Session) string {
	status := func(src domain.Source) string {
		if src.Empty() {
			return "missing"
		}
		return src.Name
	}

	o := s.Options
	return fmt.Sprintf("⚙️ Settings\n"+
		"Template: %s\nFont: %s\nNames: %d\n\n"+
		"y = %d\nsize = %d\nspaces = %d\ncolor = %s\nanchor = %s\nformat = %s\ncollisions = %s\nskip_failed = %t",
		status(s.Assets.Template), status(s.Assets.Font), len(s.Names),
		o.Y, o.FontSize, o.Spacing, o.Color, o.VerticalAnchor, o.OutputFormat, o.OnCollision, o.ContinueOnError,
	)
}

// userMessage turns a pipeline error into a message naming the upload or
// name at fault.
func userMessage(err error) string {
	var ve *domain.ValidationError
	var de *domain.DecodeError
	var re *domain.RenderError

	switch {
	case errors.As(err, &ve):
		return "⚠️ " + err.Error()
	case errors.As(err, &de) && de.Source == domain.SourceTemplate:
		return "🖼️ Your template image could not be read: " + de.Err.Error()
	case errors.As(err, &de):
		return "🔤 Your font could not be loaded: " + de.Err.Error()
	case errors.As(err, &re):
		return "🎨 " + re.Error()
	default:
		return "🚧 An error occurred during generation: " + err.Error()
	}
}
