package imagepkg

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DefaultBackground is the canvas color when none or an invalid one is given.
const DefaultBackground = "#121212"

// ParseHexColor parses a CSS hex color in #rgb or #rrggbb form. The leading
// "#" is optional. The result is always opaque.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// BackgroundOrDefault parses s, falling back to DefaultBackground.
func BackgroundOrDefault(s string) color.NRGBA {
	if c, err := ParseHexColor(s); err == nil {
		return c
	}
	c, _ := ParseHexColor(DefaultBackground)
	return c
}
