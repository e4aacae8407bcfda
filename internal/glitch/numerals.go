package glitch

import "github.com/fkcurrie/xclock-led-golang/internal/effect"

// Numerals scrambles all four digits for a number of frames.
type Numerals struct {
	effect.Effect[struct{}]
}

// NewNumerals returns an idle scramble.
func NewNumerals() *Numerals {
	return &Numerals{Effect: effect.New[struct{}](nil)}
}

// Start scrambles the next frames frames.
func (n *Numerals) Start(frames int) { n.Countdown(frames) }

// Scramble advances the countdown. While it runs it returns four random
// digits to draw in place of the time.
func (n *Numerals) Scramble(rng effect.Rand) ([Slots]int, bool) {
	var digits [Slots]int
	if !n.Advance(rng).Active {
		return digits, false
	}
	for i := range digits {
		digits[i] = rng.Intn(10)
	}
	return digits, true
}
