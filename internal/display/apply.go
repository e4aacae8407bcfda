package display

import (
	"image/color"

	"github.com/fkcurrie/xclock-led-golang/internal/clock"
	"github.com/fkcurrie/xclock-led-golang/internal/colors"
	"github.com/fkcurrie/xclock-led-golang/internal/command"
	"github.com/fkcurrie/xclock-led-golang/internal/effect"
	"github.com/fkcurrie/xclock-led-golang/internal/types"
)

// Apply mutates the display state for one decoded command. It takes effect
// from the next frame.
func (r *Renderer) Apply(cmd command.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch c := cmd.(type) {
	case command.SetTime:
		r.time.SetTime(c.Hour, c.Minute)
	case command.Freeze:
		r.time.SetFreeze(c.Enabled)
	case command.TimeNow:
		r.time.Now(r.clock.Now(), c.ResetDilation)
	case command.IncrementTime:
		r.time.Increment(c.Minutes)
	case command.TimeDilation:
		r.time.SetDilation(c.Factor)
	case command.Brightness:
		r.fade.Set(c.Target, seconds(c.Duration))
	case command.TextColor:
		r.setColor(&r.textColor, c.Color)
	case command.XColor:
		r.setColor(&r.xColor, c.Color)
	case command.Background:
		r.setColor(&r.background, c.Color)
	case command.RandomGlitch:
		r.visual.Set(c.Freq, c.Intensity)
	case command.RandomXGlitch:
		if c.Freq != 0 {
			r.setOptionalColor(&r.xColor, c.Color)
		}
		r.x.SetRandom(c.Freq, c.Num, c.Frames)
	case command.SingleXGlitch:
		r.setOptionalColor(&r.xColor, c.Color)
		r.x.SetSingle(c.Num, c.Frames)
	case command.XPositions:
		if !r.x.SetPositions(c.Positions) {
			r.log.Warn("Invalid x positions %q", c.Positions)
			return
		}
		r.setOptionalColor(&r.xColor, c.Color)
	case command.GlitchTo:
		r.time.SetTime(c.Hour, c.Minute)
		r.numerals.Start(c.Frames)
	case command.FadeSnap:
		to := clock.At(r.time.Current(), c.Hour, c.Minute)
		if snap, ok := r.fade.FadeSnap(to, seconds(c.Duration), c.ClearX); ok {
			r.applySnap(snap)
		}
		r.time.Unfreeze()
	case command.Normal:
		r.normal()
	case command.BlinkDots:
		r.time.SetBlinkDots(c.Enabled)
	case command.BlinkAll:
		r.time.SetBlinkAll(c.Enabled)
	case command.Framerate:
		if d := seconds(c.Rate); d > 0 {
			r.period = d
		}
	case command.DisplayText:
		if c.Text != r.scrollText {
			r.scrollOffset = 0
		}
		r.scrollText = c.Text
	default:
		r.log.Warn("Unsupported command %s", cmd.Name())
	}
}

// normal returns to a plain running clock.
func (r *Renderer) normal() {
	r.x.Stop()
	r.time.SetFreeze(false)
	r.time.SetBlinkAll(false)
	r.time.SetBlinkDots(true)
	r.visual.Stop()
	r.time.SetDilation(1)
	r.time.ZeroSeconds()
	r.x.Clear()
	r.xColor = r.textColor
}

// setColor resolves token into dst. Unknown colors are logged and dst keeps
// its value.
func (r *Renderer) setColor(dst *color.RGBA, token string) {
	c, err := colors.Resolve(token)
	if err != nil {
		r.log.Warn("Color %s cannot be parsed: %v", token, err)
		return
	}
	*dst = c
}

func (r *Renderer) setOptionalColor(dst *color.RGBA, token string) {
	if token != "" {
		r.setColor(dst, token)
	}
}

// Status returns a snapshot of the display state.
func (r *Renderer) Status() types.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.time.Display()
	visualFreq := 0
	switch r.visual.Mode {
	case effect.Continuous:
		visualFreq = -1
	case effect.Probabilistic:
		visualFreq = r.visual.Freq
	}

	return types.Status{
		Time: types.TimeStatus{
			Hour:   t.Hour(),
			Minute: t.Minute(),
			Frozen: r.time.Frozen(),
		},
		Appearance: types.AppearanceStatus{
			Brightness: int(r.fade.Brightness()),
			TextColor:  colors.Hex(r.textColor),
			XColor:     colors.Hex(r.xColor),
			Background: colors.Hex(r.background),
		},
		Effects: types.EffectsStatus{
			TimeDilation: r.time.Dilation(),
			BlinkDots:    r.time.BlinkDots(),
			BlinkAll:     r.time.BlinkAll(),
		},
		Glitches: types.GlitchStatus{
			VisualGlitchFreq:   visualFreq,
			VisualGlitchActive: r.visual.Mode != effect.Off,
			XGlitchFreq:        r.x.Freq,
			XGlitchActive:      r.x.Mode == effect.Probabilistic,
			XGlitchNumber:      r.x.Number,
			XGlitchFrames:      r.x.Frames,
		},
		XPositions: append([]int{}, r.x.Positions()...),
		ScrollText: r.scrollText,
	}
}
