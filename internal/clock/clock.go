// Package clock tracks the time shown on the display.
//
// The cursor advances by real elapsed time multiplied by a dilation factor.
// Freezing pins the displayed instant; unfreezing resumes from that instant.
// Blink phase is derived from the cursor every tick.
package clock

import (
	"math"
	"time"
)

// fastBlink is the per-frame dilated step above which the blink phase simply
// flips every frame.
const fastBlink = time.Second

// Clock is the dilated time cursor plus blink state. It is not safe for
// concurrent use; the renderer serializes access.
type Clock struct {
	current  time.Time
	frozen   *time.Time
	dilation float64
	lastTick time.Time

	realElapsed time.Duration

	blinkDots   bool
	blinkAll    bool
	blinkState  bool
	showDots    bool
	showNumbers bool
}

// New returns a realtime clock starting at now.
func New(now time.Time) *Clock {
	return &Clock{
		current:     now,
		dilation:    1,
		lastTick:    now,
		blinkDots:   true,
		blinkState:  true,
		showDots:    true,
		showNumbers: true,
	}
}

// Tick advances the cursor to real time now and updates the blink phase.
// It returns the real elapsed time since the previous tick.
func (c *Clock) Tick(now time.Time) time.Duration {
	c.realElapsed = now.Sub(c.lastTick)
	c.lastTick = now

	dilated := time.Duration(float64(c.realElapsed) * c.dilation)
	c.current = c.current.Add(dilated)

	if c.blinkDots || c.blinkAll {
		if math.Abs(float64(dilated)) > float64(fastBlink) {
			c.blinkState = !c.blinkState
		} else {
			c.blinkState = c.current.Nanosecond() >= int(500*time.Millisecond)
		}
		c.showDots = c.blinkState
	}
	if c.blinkAll {
		c.showNumbers = c.blinkState
	}
	return c.realElapsed
}

// RealElapsed is the undilated duration of the last tick.
func (c *Clock) RealElapsed() time.Duration { return c.realElapsed }

// Current is the running cursor, frozen or not.
func (c *Clock) Current() time.Time { return c.current }

// Display is the instant that should be drawn.
func (c *Clock) Display() time.Time {
	if c.frozen != nil {
		return *c.frozen
	}
	return c.current
}

// Frozen reports whether the display is pinned.
func (c *Clock) Frozen() bool { return c.frozen != nil }

// Dilation returns the current time multiplier.
func (c *Clock) Dilation() float64 { return c.dilation }

// SetDilation sets the time multiplier. Zero stops time, negative reverses it.
func (c *Clock) SetDilation(f float64) { c.dilation = f }

// SetTime moves the cursor to hour:minute:00 on the same day and unfreezes.
func (c *Clock) SetTime(hour, minute int) {
	c.current = At(c.current, hour, minute)
	c.frozen = nil
}

// SetFreeze pins or releases the displayed instant. Releasing resumes the
// cursor from the pinned instant.
func (c *Clock) SetFreeze(enabled bool) {
	switch {
	case !enabled && c.frozen != nil:
		c.current = *c.frozen
		c.frozen = nil
	case enabled && c.frozen == nil:
		t := c.current
		c.frozen = &t
	}
}

// Unfreeze drops a pinned instant without moving the cursor.
func (c *Clock) Unfreeze() { c.frozen = nil }

// Jump teleports the cursor.
func (c *Clock) Jump(t time.Time) { c.current = t }

// Now jumps the cursor to wall-clock time, optionally resetting dilation.
func (c *Clock) Now(now time.Time, resetDilation bool) {
	if resetDilation {
		c.dilation = 1
	}
	c.current = now
}

// Increment shifts the cursor by minutes and zeroes the seconds.
func (c *Clock) Increment(minutes int) {
	c.current = zeroSeconds(c.current.Add(time.Duration(minutes) * time.Minute))
}

// ZeroSeconds truncates the cursor to the minute.
func (c *Clock) ZeroSeconds() { c.current = zeroSeconds(c.current) }

// SetBlinkDots toggles separator blinking. Disabling leaves the dots lit.
func (c *Clock) SetBlinkDots(enabled bool) {
	c.blinkDots = enabled
	c.showDots = !enabled
}

// SetBlinkAll toggles whole-display blinking. Disabling leaves digits lit.
func (c *Clock) SetBlinkAll(enabled bool) {
	c.blinkAll = enabled
	c.showNumbers = !enabled
}

func (c *Clock) BlinkDots() bool   { return c.blinkDots }
func (c *Clock) BlinkAll() bool    { return c.blinkAll }
func (c *Clock) ShowDots() bool    { return c.showDots }
func (c *Clock) ShowNumbers() bool { return c.showNumbers }

// At returns t with the clock set to hour:minute:00, keeping the date.
func At(t time.Time, hour, minute int) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, t.Location())
}

func zeroSeconds(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}
