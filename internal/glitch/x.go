package glitch

import "github.com/fkcurrie/xclock-led-golang/internal/effect"

// Slots is the number of digit positions on the clock face.
const Slots = 4

// X replaces digit slots with an X glyph.
type X struct {
	effect.Effect[[]int]

	// Number is how many slots a burst replaces (1-4).
	Number int
	// Frames is how long a burst holds.
	Frames int
}

// NewX returns an X glitch that is off and shows nothing.
func NewX() *X {
	x := &X{Number: 1, Frames: 1}
	x.Effect = effect.New[[]int](x.burst)
	return x
}

func (x *X) burst(rng effect.Rand) ([]int, int) {
	slots := []int{0, 1, 2, 3}
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	n := x.Number
	if n < 0 {
		n = 0
	}
	if n > Slots {
		n = Slots
	}
	return slots[:n], x.Frames
}

// Configure sets burst shape without changing the mode.
func (x *X) Configure(number, frames int) {
	x.Number = number
	x.Frames = frames
}

// SetRandom enables probabilistic bursts; freq 0 turns the glitch off.
func (x *X) SetRandom(freq, number, frames int) {
	if freq == 0 {
		x.Mode = effect.Off
		return
	}
	x.Configure(number, frames)
	x.Freq = freq
	x.Mode = effect.Probabilistic
}

// SetSingle arms one burst on the next frame.
func (x *X) SetSingle(number, frames int) {
	x.Configure(number, frames)
	x.Mode = effect.Single
}

// Start triggers a burst immediately.
func (x *X) Start(rng effect.Rand) { x.Fire(rng) }

// Update advances the glitch one frame, clearing positions when a burst ends.
func (x *X) Update(rng effect.Rand) {
	if f := x.Advance(rng); f.Expired && !f.Fired {
		x.Payload = nil
	}
}

// Positions returns the slots currently showing an X.
func (x *X) Positions() []int { return x.Payload }

// SetPositions shows an X at every slot whose mask byte is 'X' and turns the
// glitch off so the mask persists. The mask must be exactly four bytes long;
// anything else is rejected and leaves the glitch untouched.
func (x *X) SetPositions(mask string) bool {
	if len(mask) != Slots {
		return false
	}
	x.Stop()
	positions := []int{}
	for i := 0; i < Slots; i++ {
		if mask[i] == 'X' {
			positions = append(positions, i)
		}
	}
	x.Payload = positions
	return true
}

// Clear removes every X without touching the mode.
func (x *X) Clear() { x.Payload = nil }
