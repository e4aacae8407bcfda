package glyph

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the point size at which Go Mono fits a 13 pixel cell.
const DefaultSize = 21

//go:embed assets/x.svg
var defaultX []byte

// Options controls how a Set is rasterized.
type Options struct {
	// FontPath is a TrueType file. Empty selects the built-in Go Mono Bold.
	FontPath string
	// Size is the font size in points at 72 DPI. Zero selects DefaultSize.
	Size float64
	// SVGDir optionally holds per-glyph SVG overrides named 0.svg .. 9.svg,
	// colon.svg and x.svg.
	SVGDir string
	// Width and Height override the cell size. Zero selects 13x32.
	Width, Height int
}

// Default rasterizes the built-in set.
func Default() (*Set, error) {
	return Load(Options{})
}

// Load rasterizes every glyph in Chars. Glyphs come from the font, stretched
// vertically so the digit band fills the cell, unless an SVG override exists.
// The X glyph falls back to the embedded SVG.
func Load(opts Options) (*Set, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Width <= 0 {
		opts.Width = Width
	}
	if opts.Height <= 0 {
		opts.Height = Height
	}

	ttf := gomonobold.TTF
	if opts.FontPath != "" {
		data, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", opts.FontPath, err)
		}
		ttf = data
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    opts.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	glyphs := make(map[rune]*image.Alpha, len(Chars))
	for _, r := range Chars {
		svg, err := overrideSVG(opts.SVGDir, r)
		if err != nil {
			return nil, err
		}
		if svg == nil && r == 'X' {
			svg = defaultX
		}
		if svg != nil {
			g, err := rasterizeSVG(bytes.NewReader(svg), opts.Width, opts.Height)
			if err != nil {
				return nil, fmt.Errorf("failed to rasterize glyph %q: %w", r, err)
			}
			glyphs[r] = g
			continue
		}
		glyphs[r] = rasterizeRune(face, r, opts.Width, opts.Height)
	}
	return New(opts.Width, opts.Height, glyphs, face)
}

func overrideSVG(dir string, r rune) ([]byte, error) {
	if dir == "" {
		return nil, nil
	}
	name := string(r) + ".svg"
	switch r {
	case ':':
		name = "colon.svg"
	case 'X':
		name = "x.svg"
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read glyph override %s: %w", name, err)
	}
	return data, nil
}

// rasterizeRune draws r centred in a cell as wide as the target and as tall
// as the font line, then stretches the band the digits occupy to the full
// target height.
func rasterizeRune(face font.Face, r rune, width, height int) *image.Alpha {
	m := face.Metrics()
	line := (m.Ascent + m.Descent).Ceil()
	src := image.NewAlpha(image.Rect(0, 0, width, line))

	adv := font.MeasureString(face, string(r))
	d := font.Drawer{
		Dst:  src,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(width-adv.Ceil()) / 2, Y: m.Ascent},
	}
	d.DrawString(string(r))

	band, _ := font.BoundString(face, "0123456789")
	top := (m.Ascent + band.Min.Y).Floor()
	bottom := (m.Ascent + band.Max.Y).Ceil()
	if top < 0 {
		top = 0
	}
	if bottom > line || bottom <= top {
		bottom = line
	}

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, image.Rect(0, top, width, bottom), draw.Src, nil)
	return dst
}

func rasterizeSVG(r io.Reader, width, height int) (*image.Alpha, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)

	dst := image.NewAlpha(rgba.Bounds())
	for i := range dst.Pix {
		dst.Pix[i] = rgba.Pix[i*4+3]
	}
	return dst, nil
}
