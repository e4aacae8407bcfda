package types

import "image"

// Matrix is a pixel-matrix display that accepts whole frames.
type Matrix interface {
	// Draw shows a completed frame. Pixels outside the panel are ignored.
	Draw(frame image.Image) error
	// Clear blanks the panel.
	Clear() error
	// Size returns the panel geometry in pixels.
	Size() (width, height int)
	// Close releases the device.
	Close() error
}
