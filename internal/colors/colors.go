// Package colors resolves color tokens received over the control channels.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned when a token is neither a color name nor hex.
var ErrUnknownColor = errors.New("unknown color")

// Resolve parses a color name ("red", "DarkOrange") or a hex value with or
// without the leading '#' ("#29B6F6", "c70000", "fff").
func Resolve(token string) (color.RGBA, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return color.RGBA{}, fmt.Errorf("%w: empty token", ErrUnknownColor)
	}

	if c, ok := colornames.Map[strings.ToLower(t)]; ok {
		return c, nil
	}

	if !strings.HasPrefix(t, "#") {
		t = "#" + t
	}
	c, err := colorful.Hex(t)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, token)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats c as lowercase rrggbb without the leading '#'.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return strings.TrimPrefix(cf.Hex(), "#")
}
