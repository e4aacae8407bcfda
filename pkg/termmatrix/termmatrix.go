// Package termmatrix shows frames in a terminal, two pixel rows per text
// row using upper half blocks, and provides a sink that discards frames.
package termmatrix

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// upperHalf paints the top pixel in the foreground and the bottom pixel in
// the background.
const upperHalf = '▀'

// Terminal is a types.Matrix backed by a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	width  int
	height int
}

// Open initializes the controlling terminal.
func Open(width, height int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return New(screen, width, height), nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen, width, height int) *Terminal {
	screen.HideCursor()
	screen.Clear()
	return &Terminal{screen: screen, width: width, height: height}
}

// Size returns the panel geometry in pixels.
func (t *Terminal) Size() (int, int) { return t.width, t.height }

// Draw paints frame and shows it.
func (t *Terminal) Draw(frame image.Image) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := frame.Bounds()
	for y := 0; y < t.height; y += 2 {
		for x := 0; x < t.width; x++ {
			top := pixel(frame, b.Min.X+x, b.Min.Y+y)
			bottom := pixel(frame, b.Min.X+x, b.Min.Y+y+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, y/2, upperHalf, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func pixel(frame image.Image, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}).In(frame.Bounds()) {
		return tcell.ColorBlack
	}
	c := color.RGBAModel.Convert(frame.At(x, y)).(color.RGBA)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Clear blanks the screen.
func (t *Terminal) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
	t.screen.Show()
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
	return nil
}

// Discard is a types.Matrix that drops every frame. It serves headless runs
// where only the HTTP preview is wanted.
type Discard struct {
	Width, Height int
}

func (d Discard) Draw(image.Image) error { return nil }
func (d Discard) Clear() error           { return nil }
func (d Discard) Size() (int, int)       { return d.Width, d.Height }
func (d Discard) Close() error           { return nil }
