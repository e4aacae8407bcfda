// Package glyph builds the immutable bitmap set the clock face is drawn from:
// the digits 0-9, the ':' separator and the 'X' overlay, each a fixed-size
// alpha mask.
package glyph

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
)

const (
	// Width and Height are the default glyph cell size for a 64x32 panel.
	Width  = 13
	Height = 32
)

// Chars lists every character a Set must provide.
const Chars = "0123456789:X"

// Set maps each supported character to its bitmap. It is never mutated after
// construction.
type Set struct {
	width  int
	height int
	glyphs map[rune]*image.Alpha
	face   font.Face
}

// New assembles a Set from prepared bitmaps. Every character of Chars must be
// present and sized width x height. face renders free text (scrolling
// messages) and may be nil when no text is ever shown.
func New(width, height int, glyphs map[rune]*image.Alpha, face font.Face) (*Set, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid glyph size: %dx%d", width, height)
	}
	set := &Set{
		width:  width,
		height: height,
		glyphs: make(map[rune]*image.Alpha, len(Chars)),
		face:   face,
	}
	for _, r := range Chars {
		g, ok := glyphs[r]
		if !ok || g == nil {
			return nil, fmt.Errorf("missing glyph %q", r)
		}
		if b := g.Bounds(); b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("glyph %q is %dx%d, want %dx%d", r, b.Dx(), b.Dy(), width, height)
		}
		set.glyphs[r] = g
	}
	return set, nil
}

// Glyph returns the bitmap for r, or nil when r is unsupported.
func (s *Set) Glyph(r rune) *image.Alpha { return s.glyphs[r] }

// Digit returns the bitmap for d in [0, 9].
func (s *Set) Digit(d int) *image.Alpha {
	if d < 0 || d > 9 {
		return nil
	}
	return s.glyphs[rune('0'+d)]
}

// Size returns the glyph cell size.
func (s *Set) Size() (width, height int) { return s.width, s.height }

// Face is the font used for free text.
func (s *Set) Face() font.Face { return s.face }
