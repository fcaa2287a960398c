package image

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b) and CSS color names.
func ParseColor(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return nil, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(v, "#") {
		return parseHex(v[1:])
	}
	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		return parseRGBFunc(v[4 : len(v)-1])
	}
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unsupported color %q", s)
}

func parseHex(h string) (color.Color, error) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return nil, fmt.Errorf("invalid hex color #%s", h)
	}

	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color #%s", h[:len(h)-2])
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}

func parseRGBFunc(body string) (color.Color, error) {
	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("rgb() needs 3 components, got %d", len(parts))
	}

	var c [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("rgb() component %q out of range", strings.TrimSpace(p))
		}
		c[i] = uint8(n)
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}
