// Package hub75 drives a HUB75 LED panel by bit-banging GPIO lines wired
// the Adafruit RGB Matrix Bonnet way. Each color channel is one bit: a
// channel lights when it reaches the threshold.
package hub75

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/internal/types"
	"github.com/fkcurrie/xclock-led-golang/pkg/gpio"
)

// DefaultThreshold lights a channel from half intensity up.
const DefaultThreshold = 128

// bytesPerColumn holds R1 G1 B1 R2 G2 B2 for one column of a scan row.
const bytesPerColumn = 6

// Output is one panel signal line.
type Output interface {
	SetValue(value int) error
	Close() error
}

// Opener requests the output line for a GPIO offset.
type Opener func(pin int) (Output, error)

// Panel is a HUB75 panel. It implements types.Matrix.
type Panel struct {
	cfg       types.HUB75Config
	width     int
	height    int
	threshold uint8
	log       *logger.Logger

	mu    sync.Mutex
	lines map[int]Output
	rows  [][]byte
	sleep func(time.Duration)
}

// Open requests every panel line from cfg.Chip.
func Open(cfg types.HUB75Config, width, height int, log *logger.Logger) (*Panel, error) {
	return New(cfg, width, height, func(pin int) (Output, error) {
		return gpio.RequestOutput(cfg.Chip, pin)
	}, log)
}

// New builds a panel with lines from open. Lines already opened are released
// when a later one fails.
func New(cfg types.HUB75Config, width, height int, open Opener, log *logger.Logger) (*Panel, error) {
	if width <= 0 || height <= 0 || height%2 != 0 {
		return nil, fmt.Errorf("invalid panel size %dx%d", width, height)
	}
	threshold := uint8(DefaultThreshold)
	if cfg.Threshold > 0 && cfg.Threshold <= 255 {
		threshold = uint8(cfg.Threshold)
	}
	p := &Panel{
		cfg:       cfg,
		width:     width,
		height:    height,
		threshold: threshold,
		log:       log,
		lines:     make(map[int]Output),
		sleep:     time.Sleep,
	}
	p.rows = make([][]byte, height/2)
	for i := range p.rows {
		p.rows[i] = make([]byte, width*bytesPerColumn)
	}

	log.Info("Requesting GPIO lines...")
	for _, pin := range p.pins() {
		if _, ok := p.lines[pin]; ok {
			continue
		}
		line, err := open(pin)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to request GPIO pin %d: %w", pin, err)
		}
		p.lines[pin] = line
		log.Debug("Successfully requested GPIO pin %d", pin)
	}
	return p, nil
}

func (p *Panel) pins() []int {
	c := p.cfg
	return []int{
		c.R1Pin, c.G1Pin, c.B1Pin,
		c.R2Pin, c.G2Pin, c.B2Pin,
		c.CLKPin, c.OEPin, c.LAPin,
		c.APin, c.BPin, c.CPin, c.DPin, c.EPin,
	}
}

// Size returns the panel geometry.
func (p *Panel) Size() (int, int) { return p.width, p.height }

// Draw converts frame to scan rows and shifts them out.
func (p *Panel) Draw(frame image.Image) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	half := p.height / 2
	b := frame.Bounds()
	for y := 0; y < half; y++ {
		row := p.rows[y]
		for x := 0; x < p.width; x++ {
			i := x * bytesPerColumn
			p.bits(row[i:i+3], frame, b.Min.X+x, b.Min.Y+y)
			p.bits(row[i+3:i+6], frame, b.Min.X+x, b.Min.Y+y+half)
		}
	}
	return p.scan()
}

func (p *Panel) bits(dst []byte, frame image.Image, x, y int) {
	dst[0], dst[1], dst[2] = 0, 0, 0
	if !(image.Point{X: x, Y: y}).In(frame.Bounds()) {
		return
	}
	c := color.RGBAModel.Convert(frame.At(x, y)).(color.RGBA)
	for i, v := range []uint8{c.R, c.G, c.B} {
		if v >= p.threshold && v > 0 {
			dst[i] = 1
		}
	}
}

// Clear shifts out an all-dark frame.
func (p *Panel) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, row := range p.rows {
		clear(row)
	}
	return p.scan()
}

// Close releases all GPIO lines.
func (p *Panel) Close() error {
	for pin, line := range p.lines {
		if err := line.Close(); err != nil {
			p.log.Warn("Error closing pin %d: %v", pin, err)
		}
	}
	p.lines = make(map[int]Output)
	return nil
}

func (p *Panel) scan() error {
	for i, row := range p.rows {
		if err := p.updateRow(i, row); err != nil {
			return err
		}
		p.sleep(50 * time.Microsecond)
	}
	return nil
}

func (p *Panel) setPin(pin, value int) error {
	line, ok := p.lines[pin]
	if !ok {
		return nil
	}
	return line.SetValue(value)
}

// updateRow selects row, shifts its columns in and latches them.
func (p *Panel) updateRow(rowIdx int, row []byte) error {
	c := p.cfg
	addr := rowIdx & 0x1f
	for bit, pin := range []int{c.APin, c.BPin, c.CPin, c.DPin, c.EPin} {
		if err := p.setPin(pin, (addr>>bit)&1); err != nil {
			return err
		}
	}

	// Output off while data changes.
	if err := p.setPin(c.OEPin, 1); err != nil {
		return err
	}

	data := []int{c.R1Pin, c.G1Pin, c.B1Pin, c.R2Pin, c.G2Pin, c.B2Pin}
	for col := 0; col < p.width; col++ {
		px := row[col*bytesPerColumn : (col+1)*bytesPerColumn]
		for i, pin := range data {
			if err := p.setPin(pin, int(px[i])); err != nil {
				return err
			}
		}
		if err := p.pulse(c.CLKPin); err != nil {
			return err
		}
	}

	if err := p.pulse(c.LAPin); err != nil {
		return err
	}
	return p.setPin(c.OEPin, 0)
}

func (p *Panel) pulse(pin int) error {
	if err := p.setPin(pin, 1); err != nil {
		return err
	}
	p.sleep(time.Microsecond)
	return p.setPin(pin, 0)
}
