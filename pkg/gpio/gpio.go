// Package gpio wraps character-device GPIO lines: output pins that drive the
// HUB75 panel and the active-low show-IP switch.
package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Line is the part of a GPIO line this package uses. *gpiocdev.Line
// satisfies it.
type Line interface {
	Value() (int, error)
	SetValue(value int) error
	Close() error
}

// Pin is an output line.
type Pin struct {
	number int
	line   Line
	mu     sync.Mutex
}

// RequestOutput requests pin on chip as an output driven low.
func RequestOutput(chip string, pin int) (*Pin, error) {
	line, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("failed to request %s line %d: %w", chip, pin, err)
	}
	return NewPin(pin, line), nil
}

// NewPin wraps an already requested output line.
func NewPin(number int, line Line) *Pin {
	return &Pin{number: number, line: line}
}

// Number returns the line offset.
func (p *Pin) Number() int { return p.number }

// SetValue drives the pin to value (0 or 1).
func (p *Pin) SetValue(value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line.SetValue(value)
}

// Pulse drives the pin high for duration, then low.
func (p *Pin) Pulse(duration time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.line.SetValue(1); err != nil {
		return err
	}
	time.Sleep(duration)
	return p.line.SetValue(0)
}

// Close releases the line.
func (p *Pin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line.Close()
}

// Switch is a pulled-up input that reads active when held low.
type Switch struct {
	number int
	line   Line
}

// OpenSwitch requests pin on chip as an input with the pull-up enabled.
func OpenSwitch(chip string, pin int) (*Switch, error) {
	line, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s line %d: %w", chip, pin, err)
	}
	return NewSwitch(pin, line), nil
}

// NewSwitch wraps an already requested input line.
func NewSwitch(number int, line Line) *Switch {
	return &Switch{number: number, line: line}
}

// Active reports whether the switch pulls the line low.
func (s *Switch) Active() (bool, error) {
	v, err := s.line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read line %d: %w", s.number, err)
	}
	return v == 0, nil
}

// Close releases the line.
func (s *Switch) Close() error { return s.line.Close() }

// SwitchActive opens the switch, reads it once and releases it.
func SwitchActive(chip string, pin int) (bool, error) {
	s, err := OpenSwitch(chip, pin)
	if err != nil {
		return false, err
	}
	defer s.Close()
	return s.Active()
}
