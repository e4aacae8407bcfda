// Package effect implements the probabilistic, countdown-driven state machine
// shared by every glitch on the display.
//
// An Effect is off, continuous, probabilistic or single-shot. Each frame it
// consumes one step of any running burst; probabilistic effects roll against
// Freq (out of FreqScale) whenever they are idle, single-shot effects fire once
// and turn themselves off. What a burst carries (its payload) and how long it
// lasts are supplied by the owner through a Burst function.
package effect

import "fmt"

// FreqScale is the denominator of every trigger frequency.
const FreqScale = 10000

// Mode selects how an effect triggers.
type Mode int

const (
	Off Mode = iota
	Continuous
	Probabilistic
	Single
)

func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case Continuous:
		return "continuous"
	case Probabilistic:
		return "probabilistic"
	case Single:
		return "single"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Rand is the source of every random draw made by the effects. *math/rand.Rand
// satisfies it; tests substitute scripted sequences.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Between returns a uniform integer in [lo, hi]. When hi <= lo it returns lo.
func Between(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Roll draws a uniform integer in [0, FreqScale] and reports whether it is at
// most freq. A non-positive freq never fires.
func Roll(rng Rand, freq int) bool {
	if freq <= 0 {
		return false
	}
	return rng.Intn(FreqScale+1) <= freq
}

// Burst produces the payload of a freshly triggered effect and the number of
// frames it stays active.
type Burst[P any] func(rng Rand) (payload P, frames int)

// Frame reports what happened to an effect during one Advance.
type Frame struct {
	// Active is set when the effect should be rendered this frame.
	Active bool
	// Fired is set when a new burst was triggered this frame.
	Fired bool
	// Expired is set when a running burst counted down to zero.
	Expired bool
}

// Effect is one probabilistic effect with payload P.
type Effect[P any] struct {
	Mode    Mode
	Freq    int
	Step    int
	Payload P

	burst Burst[P]
}

// New returns an idle effect whose bursts come from burst.
func New[P any](burst Burst[P]) Effect[P] {
	return Effect[P]{burst: burst}
}

// Advance runs the effect for one frame.
func (e *Effect[P]) Advance(rng Rand) Frame {
	var f Frame
	if e.Step > 0 {
		e.Step--
		f.Active = true
		f.Expired = e.Step == 0
	}

	switch e.Mode {
	case Continuous:
		f.Active = true
	case Probabilistic:
		if e.Step == 0 && Roll(rng, e.Freq) {
			e.Fire(rng)
			f.Fired = true
		}
	case Single:
		e.Mode = Off
		e.Fire(rng)
		f.Fired = true
	}
	return f
}

// Fire starts a burst immediately, regardless of mode.
func (e *Effect[P]) Fire(rng Rand) {
	if e.burst == nil {
		return
	}
	e.Payload, e.Step = e.burst(rng)
}

// Countdown starts a burst of n frames without touching the payload.
func (e *Effect[P]) Countdown(n int) {
	if n < 0 {
		n = 0
	}
	e.Step = n
}

// Stop turns the effect off and abandons any running burst.
func (e *Effect[P]) Stop() {
	e.Mode = Off
	e.Step = 0
}

// Running reports whether a burst is counting down.
func (e *Effect[P]) Running() bool {
	return e.Step > 0
}
