package display

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/fkcurrie/xclock-led-golang/internal/fade"
	"github.com/fkcurrie/xclock-led-golang/internal/glitch"
)

// referenceWidth is the panel width the slot positions are laid out for.
const referenceWidth = 64

// layout holds the left edge of each digit slot and of the separator cell.
type layout struct {
	slots     [glitch.Slots]int
	separator int
}

// layoutFor scales the 64 pixel layout to width.
func layoutFor(width int) layout {
	l := layout{slots: [glitch.Slots]int{2, 15, 36, 49}, separator: 26}
	if width == referenceWidth {
		return l
	}
	for i, x := range l.slots {
		l.slots[i] = x * width / referenceWidth
	}
	l.separator = l.separator * width / referenceWidth
	return l
}

// compose builds the frame for now. The second result reports a blank frame:
// the sink should be cleared rather than drawn. Steps run in a fixed order;
// the fade step comes after the overlays so a snap affects the next frame.
func (r *Renderer) compose(now time.Time) (*image.RGBA, bool) {
	img := r.blank()
	elapsed := r.time.Tick(now)

	if r.fade.Dark() {
		return img, true
	}

	scrolling := r.scrollText != ""
	if scrolling {
		r.drawScroll(img)
	} else {
		r.drawClock(img)
	}

	if digits, ok := r.numerals.Scramble(r.rng); ok && !scrolling {
		for i, d := range digits {
			r.drawGlyph(img, r.layout.slots[i], r.glyphs.Digit(d), r.textColor)
		}
	}

	r.x.Update(r.rng)
	if !scrolling {
		for _, slot := range r.x.Positions() {
			r.drawGlyph(img, r.layout.slots[slot], r.glyphs.Glyph('X'), r.xColor)
		}
	}

	if scrolling {
		r.visual.Advance(r.rng)
	} else {
		r.visual.Apply(img, r.rng)
	}

	if snap, ok := r.fade.Step(elapsed); ok {
		r.applySnap(snap)
	}

	if !r.time.ShowNumbers() {
		return r.blank(), true
	}

	scale(img, r.fade.Brightness())
	return img, false
}

func (r *Renderer) blank() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	return img
}

func (r *Renderer) applySnap(s fade.Snap) {
	if s.ClearX {
		r.x.Clear()
	}
	r.time.Jump(s.Time)
}

func (r *Renderer) drawClock(img *image.RGBA) {
	t := r.time.Display()
	if r.time.ShowDots() {
		r.drawGlyph(img, r.layout.separator, r.glyphs.Glyph(':'), r.textColor)
	}
	h, m := t.Hour(), t.Minute()
	digits := [glitch.Slots]int{h / 10, h % 10, m / 10, m % 10}
	for i, d := range digits {
		r.drawGlyph(img, r.layout.slots[i], r.glyphs.Digit(d), r.textColor)
	}
}

// drawGlyph clears the glyph cell at x to the background, then paints mask
// in c.
func (r *Renderer) drawGlyph(img *image.RGBA, x int, mask *image.Alpha, c color.RGBA) {
	if mask == nil {
		return
	}
	b := mask.Bounds()
	cell := image.Rect(x, 0, x+b.Dx(), b.Dy()).Intersect(img.Bounds())
	draw.Draw(img, cell, image.NewUniform(r.background), image.Point{}, draw.Src)
	draw.DrawMask(img, cell, image.NewUniform(c), image.Point{}, mask, b.Min, draw.Over)
}

// drawScroll draws the scroll text entering from the right edge and moves it
// one pixel left. The offset wraps once the text has fully left the panel.
func (r *Renderer) drawScroll(img *image.RGBA) {
	face := r.glyphs.Face()
	if face == nil {
		return
	}
	width := font.MeasureString(face, r.scrollText).Ceil()
	m := face.Metrics()
	baseline := (r.height + m.Ascent.Ceil() - m.Descent.Ceil()) / 2

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.textColor),
		Face: face,
		Dot:  fixed.P(r.width-r.scrollOffset, baseline),
	}
	d.DrawString(r.scrollText)

	r.scrollOffset++
	if r.scrollOffset > width+r.width {
		r.scrollOffset = 0
	}
}

// scale multiplies every color channel by brightness/100.
func scale(img *image.RGBA, brightness float64) {
	if brightness >= fade.MaxBrightness {
		return
	}
	f := brightness / fade.MaxBrightness
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(float64(img.Pix[i]) * f)
		img.Pix[i+1] = uint8(float64(img.Pix[i+1]) * f)
		img.Pix[i+2] = uint8(float64(img.Pix[i+2]) * f)
	}
}
