// Package glitch implements the three display glitches: the horizontal
// pixel-shear distortion, the X overlay and the numeral scramble. All three
// run on effect.Effect.
package glitch

import (
	"image"

	"github.com/fkcurrie/xclock-led-golang/internal/effect"
)

const (
	// DefaultIntensity is the shear intensity used when none is given.
	DefaultIntensity = 4

	minBurst = 3
	maxBurst = 7

	minBand = 2
	maxBand = 6
)

// Visual is the pixel-shear glitch.
type Visual struct {
	effect.Effect[struct{}]
	Intensity int
}

// NewVisual returns an idle visual glitch.
func NewVisual() *Visual {
	return &Visual{
		Effect: effect.New[struct{}](func(rng effect.Rand) (struct{}, int) {
			return struct{}{}, effect.Between(rng, minBurst, maxBurst)
		}),
		Intensity: DefaultIntensity,
	}
}

// Set configures the glitch: freq -1 glitches every frame, 0 turns it off,
// anything else glitches in 3-7 frame bursts with probability freq/10000.
func (v *Visual) Set(freq, intensity int) {
	if intensity < 0 {
		intensity = 0
	}
	v.Intensity = intensity
	switch {
	case freq < 0:
		v.Mode = effect.Continuous
	case freq == 0:
		v.Mode = effect.Off
	default:
		v.Mode = effect.Probabilistic
		v.Freq = freq
	}
}

// Apply advances the glitch one frame and shears img when it is active.
func (v *Visual) Apply(img *image.RGBA, rng effect.Rand) bool {
	if !v.Advance(rng).Active {
		return false
	}
	Shear(img, v.Intensity, rng)
	return true
}

// Shear cuts between intensity/2 and intensity horizontal bands of 2-6 rows
// out of img and pastes each back shifted by up to 2*intensity pixels either
// way, wrapping around the row.
func Shear(img *image.RGBA, intensity int, rng effect.Rand) {
	b := img.Bounds()
	if b.Empty() || intensity <= 0 {
		return
	}
	n := effect.Between(rng, intensity/2, intensity)
	for i := 0; i < n; i++ {
		row := effect.Between(rng, 0, b.Dy())
		size := effect.Between(rng, minBand, maxBand)
		amount := effect.Between(rng, -2*intensity, 2*intensity)
		shiftBand(img, row, size, amount)
	}
}

func shiftBand(img *image.RGBA, row, size, amount int) {
	b := img.Bounds()
	w := b.Dx()
	if amount%w == 0 {
		return
	}
	line := make([]uint8, w*4)
	for y := row; y < row+size && y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		px := img.Pix[off : off+w*4]
		copy(line, px)
		for x := 0; x < w; x++ {
			nx := ((x+amount)%w + w) % w
			copy(px[nx*4:nx*4+4], line[x*4:x*4+4])
		}
	}
}
