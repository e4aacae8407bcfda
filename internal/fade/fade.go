// Package fade interpolates display brightness over real time.
package fade

import (
	"math"
	"time"
)

const (
	MinBrightness = 0
	MaxBrightness = 100
)

// Snap is a pending "fade out, jump the clock, fade back" operation.
type Snap struct {
	// Time is where the clock jumps once brightness reaches zero.
	Time time.Time
	// Next is the brightness the return fade heads to.
	Next float64
	// ClearX drops every X overlay at the moment of the jump.
	ClearX bool
}

// Fader holds brightness and any fade in progress. Brightness may be
// fractional while a fade runs.
type Fader struct {
	brightness float64
	last       float64
	target     float64
	elapsed    time.Duration
	duration   time.Duration

	snap *Snap
}

// New returns a fader resting at brightness.
func New(brightness float64) *Fader {
	b := clamp(brightness)
	return &Fader{brightness: b, last: b, target: b}
}

func (f *Fader) Brightness() float64 { return f.brightness }
func (f *Fader) Target() float64     { return f.target }

// Fading reports whether brightness is still moving toward its target.
func (f *Fader) Fading() bool { return f.brightness != f.target }

// Dark reports a display that is at zero and staying there.
func (f *Fader) Dark() bool { return f.brightness == 0 && f.target == 0 }

// Set starts a fade to target over duration. A non-positive duration applies
// the target immediately and abandons the fade in progress.
func (f *Fader) Set(target float64, duration time.Duration) {
	f.last = f.brightness
	f.target = clamp(target)
	f.elapsed = 0
	if duration <= 0 {
		f.brightness = f.target
		f.duration = 0
		return
	}
	f.duration = duration
}

// FadeSnap fades to black over duration, then the next Step returning ok
// carries the jump to to. The return fade goes back to the brightness held at
// the time of the call over the same duration. With a non-positive duration
// the snap is returned immediately and brightness is left alone.
func (f *Fader) FadeSnap(to time.Time, duration time.Duration, clearX bool) (Snap, bool) {
	s := Snap{Time: to, Next: f.brightness, ClearX: clearX}
	if duration <= 0 {
		f.snap = nil
		return s, true
	}
	f.snap = &s
	f.Set(0, duration)
	return Snap{}, false
}

// Pending returns the snap waiting for the fade-out to finish.
func (f *Fader) Pending() (Snap, bool) {
	if f.snap == nil {
		return Snap{}, false
	}
	return *f.snap, true
}

// CancelSnap drops a pending snap without touching the fade.
func (f *Fader) CancelSnap() { f.snap = nil }

// Step advances the fade by real elapsed time. When a pending snap completes
// it is returned and the return fade begins.
func (f *Fader) Step(realElapsed time.Duration) (Snap, bool) {
	if f.brightness == f.target {
		return Snap{}, false
	}

	f.elapsed += realElapsed
	pct := 1.0
	if f.duration > 0 {
		pct = float64(f.elapsed) / float64(f.duration)
	}
	if pct < 1 {
		f.brightness = f.last + (f.target-f.last)*pct
	} else {
		f.brightness = f.target
	}

	if f.snap == nil || f.brightness != f.target {
		return Snap{}, false
	}
	s := *f.snap
	f.snap = nil
	f.last = f.brightness
	f.elapsed = 0
	f.target = clamp(s.Next)
	return s, true
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < MinBrightness {
		return MinBrightness
	}
	if v > MaxBrightness {
		return MaxBrightness
	}
	return v
}
