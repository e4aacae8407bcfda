// Package command defines the control commands accepted by the clock, decodes
// them from loosely typed wire arguments and dispatches them to the display.
package command

// Command is one state mutation. The concrete types below form a closed set;
// the display applies them with a type switch.
type Command interface {
	Name() string
}

// Wire names, as used by the OSC address basename and the HTTP API.
const (
	NameTime          = "time"
	NameFreeze        = "freeze"
	NameTimeNow       = "timenow"
	NameIncrementTime = "increment_time"
	NameTimeDilation  = "time_dilation"
	NameBrightness    = "brightness"
	NameColor         = "color"
	NameXColor        = "x_color"
	NameBackground    = "bg"
	NameRandomGlitch  = "random_glitch"
	NameRandomXGlitch = "random_x_glitch"
	NameSingleXGlitch = "single_x_glitch"
	NameXPositions    = "x_positions"
	NameGlitchTo      = "glitch_to"
	NameFadeSnap      = "fadesnap"
	NameNormal        = "normal"
	NameBlinkDots     = "blink_dots"
	NameBlinkAll      = "blink_all"
	NameFramerate     = "framerate"
	NameDisplayText   = "display_text"
	NameShowIP        = "showip"
)

// SetTime shows hour:minute:00 and clears any freeze.
type SetTime struct{ Hour, Minute int }

// Freeze pins or releases the displayed time.
type Freeze struct{ Enabled bool }

// TimeNow jumps to wall-clock time.
type TimeNow struct{ ResetDilation bool }

// IncrementTime shifts the time by Minutes.
type IncrementTime struct{ Minutes int }

// TimeDilation sets the time multiplier.
type TimeDilation struct{ Factor float64 }

// Brightness sets or fades brightness (0-100) over Duration seconds.
type Brightness struct {
	Target   float64
	Duration float64
}

// TextColor sets the digit and separator color.
type TextColor struct{ Color string }

// XColor sets the X overlay color.
type XColor struct{ Color string }

// Background sets the background color.
type Background struct{ Color string }

// RandomGlitch configures the visual glitch: Freq -1 is continuous, 0 off.
type RandomGlitch struct{ Freq, Intensity int }

// RandomXGlitch enables probabilistic X bursts; Freq 0 turns them off. An
// empty Color keeps the current X color.
type RandomXGlitch struct {
	Freq, Num, Frames int
	Color             string
}

// SingleXGlitch fires one X burst.
type SingleXGlitch struct {
	Num, Frames int
	Color       string
}

// XPositions sets an explicit four-slot X mask, 'X' marking a slot.
type XPositions struct {
	Positions string
	Color     string
}

// GlitchTo jumps the time and scrambles the digits for Frames frames.
type GlitchTo struct{ Hour, Minute, Frames int }

// FadeSnap fades to black over Duration seconds, jumps to hour:minute and
// fades back.
type FadeSnap struct {
	Hour, Minute int
	Duration     float64
	ClearX       bool
}

// Normal resets effects, timing and blinking.
type Normal struct{}

// BlinkDots toggles separator blinking.
type BlinkDots struct{ Enabled bool }

// BlinkAll toggles whole-display blinking.
type BlinkAll struct{ Enabled bool }

// Framerate sets the frame period in seconds.
type Framerate struct{ Rate float64 }

// DisplayText scrolls Text instead of the clock; empty restores the clock.
type DisplayText struct{ Text string }

// ShowIP scrolls the local address. The dispatcher turns it into DisplayText.
type ShowIP struct{ Enabled bool }

func (SetTime) Name() string       { return NameTime }
func (Freeze) Name() string        { return NameFreeze }
func (TimeNow) Name() string       { return NameTimeNow }
func (IncrementTime) Name() string { return NameIncrementTime }
func (TimeDilation) Name() string  { return NameTimeDilation }
func (Brightness) Name() string    { return NameBrightness }
func (TextColor) Name() string     { return NameColor }
func (XColor) Name() string        { return NameXColor }
func (Background) Name() string    { return NameBackground }
func (RandomGlitch) Name() string  { return NameRandomGlitch }
func (RandomXGlitch) Name() string { return NameRandomXGlitch }
func (SingleXGlitch) Name() string { return NameSingleXGlitch }
func (XPositions) Name() string    { return NameXPositions }
func (GlitchTo) Name() string      { return NameGlitchTo }
func (FadeSnap) Name() string      { return NameFadeSnap }
func (Normal) Name() string        { return NameNormal }
func (BlinkDots) Name() string     { return NameBlinkDots }
func (BlinkAll) Name() string      { return NameBlinkAll }
func (Framerate) Name() string     { return NameFramerate }
func (DisplayText) Name() string   { return NameDisplayText }
func (ShowIP) Name() string        { return NameShowIP }
