// Package sink opens the frame sink named in the configuration.
package sink

import (
	"fmt"

	"github.com/fkcurrie/xclock-led-golang/internal/config"
	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/internal/types"
	"github.com/fkcurrie/xclock-led-golang/pkg/hub75"
	"github.com/fkcurrie/xclock-led-golang/pkg/termmatrix"
)

// Open returns the matrix selected by cfg.Sink.
func Open(cfg *config.Config, log *logger.Logger) (types.Matrix, error) {
	w, h := cfg.Display.Width, cfg.Display.Height
	switch cfg.Sink {
	case config.SinkHUB75:
		panel, err := hub75.Open(cfg.HUB75, w, h, log)
		if err != nil {
			return nil, err
		}
		return panel, nil
	case config.SinkTerminal:
		term, err := termmatrix.Open(w, h)
		if err != nil {
			return nil, err
		}
		return term, nil
	case config.SinkNone:
		return termmatrix.Discard{Width: w, Height: h}, nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}
