// Package display owns the clock face state and turns it into frames.
package display

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fkcurrie/xclock-led-golang/internal/clock"
	"github.com/fkcurrie/xclock-led-golang/internal/colors"
	"github.com/fkcurrie/xclock-led-golang/internal/effect"
	"github.com/fkcurrie/xclock-led-golang/internal/fade"
	"github.com/fkcurrie/xclock-led-golang/internal/glitch"
	"github.com/fkcurrie/xclock-led-golang/internal/glyph"
	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/internal/types"
)

// Renderer handles the display state and rendering logic. Commands and frame
// composition are serialized by mu; sink I/O happens outside it.
type Renderer struct {
	mu     sync.Mutex
	matrix types.Matrix
	log    *logger.Logger
	clock  clockwork.Clock
	rng    effect.Rand
	glyphs *glyph.Set

	width, height int
	layout        layout
	period        time.Duration

	time     *clock.Clock
	fade     *fade.Fader
	visual   *glitch.Visual
	x        *glitch.X
	numerals *glitch.Numerals

	textColor  color.RGBA
	xColor     color.RGBA
	background color.RGBA

	scrollText   string
	scrollOffset int

	latest *image.RGBA
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithClock sets the time source. Tests pass a clockwork fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(r *Renderer) { r.clock = c }
}

// WithRand sets the random source shared by the glitch engines.
func WithRand(rng effect.Rand) Option {
	return func(r *Renderer) { r.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// NewRenderer creates a new renderer instance. The display starts dark and
// fades up to cfg.Brightness over cfg.FadeIn seconds.
func NewRenderer(cfg types.DisplayConfig, glyphs *glyph.Set, opts ...Option) (*Renderer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid display size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Framerate <= 0 {
		return nil, fmt.Errorf("invalid framerate %v", cfg.Framerate)
	}
	if glyphs == nil {
		return nil, fmt.Errorf("no glyph set")
	}
	text, err := colors.Resolve(cfg.TextColor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve text color: %w", err)
	}
	x, err := colors.Resolve(cfg.XColor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve x color: %w", err)
	}
	bg, err := colors.Resolve(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve background: %w", err)
	}

	r := &Renderer{
		width:      cfg.Width,
		height:     cfg.Height,
		layout:     layoutFor(cfg.Width),
		period:     seconds(cfg.Framerate),
		glyphs:     glyphs,
		textColor:  text,
		xColor:     x,
		background: bg,
		visual:     glitch.NewVisual(),
		x:          glitch.NewX(),
		numerals:   glitch.NewNumerals(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.rng == nil {
		r.rng = effect.NewRand()
	}
	if r.log == nil {
		r.log = logger.Discard()
	}

	r.time = clock.New(r.clock.Now())
	r.fade = fade.New(0)
	r.fade.Set(cfg.Brightness, seconds(cfg.FadeIn))
	return r, nil
}

// SetMatrix sets the matrix to render to.
func (r *Renderer) SetMatrix(matrix types.Matrix) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matrix = matrix
}

// Start renders frames until ctx is cancelled. The period is re-read every
// frame so framerate changes apply immediately.
func (r *Renderer) Start(ctx context.Context) error {
	for {
		r.RenderFrame()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.clock.After(r.Period()):
		}
	}
}

// RenderFrame composes one frame and pushes it to the matrix.
func (r *Renderer) RenderFrame() {
	r.mu.Lock()
	frame, blank := r.compose(r.clock.Now())
	r.latest = frame
	matrix := r.matrix
	r.mu.Unlock()

	if matrix == nil {
		return
	}
	var err error
	if blank {
		err = matrix.Clear()
	} else {
		err = matrix.Draw(frame)
	}
	if err != nil {
		r.log.Warn("Failed to render: %v", err)
	}
}

// Frame returns the most recent frame, or nil before the first one. Blank
// frames read as the background color. The image must not be modified.
func (r *Renderer) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Period returns the current frame period.
func (r *Renderer) Period() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.period
}

// Size returns the frame geometry.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
