package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fkcurrie/xclock-led-golang/internal/types"
)

// Sink names accepted in Config.Sink.
const (
	SinkHUB75    = "hub75"
	SinkTerminal = "terminal"
	SinkNone     = "none"
)

// Config represents the application configuration
type Config struct {
	Display  types.DisplayConfig `yaml:"display"`
	Control  types.ControlConfig `yaml:"control"`
	HTTP     types.HTTPConfig    `yaml:"http"`
	GPIO     types.GPIOConfig    `yaml:"gpio"`
	HUB75    types.HUB75Config   `yaml:"hub75"`
	Sink     string              `yaml:"sink"`
	ShowIP   bool                `yaml:"show_ip"`
	LogLevel string              `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML (or JSON) file on top of
// the defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Framerate <= 0 {
		return fmt.Errorf("framerate must be positive, got %v", c.Display.Framerate)
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 100 {
		return fmt.Errorf("brightness must be between 0 and 100")
	}
	if c.HUB75.Threshold < 0 || c.HUB75.Threshold > 255 {
		return fmt.Errorf("hub75 threshold must be between 0 and 255, got %d", c.HUB75.Threshold)
	}
	switch c.Sink {
	case SinkHUB75, SinkTerminal, SinkNone:
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Display: types.DisplayConfig{
			Width:      64,
			Height:     32,
			Framerate:  0.05,
			Brightness: 100,
			FadeIn:     10,
			TextColor:  "#29B6F6",
			XColor:     "#C70000",
			Background: "#000000",
		},
		Control: types.ControlConfig{
			Addr:      "0.0.0.0:1337",
			RateLimit: 200,
		},
		HTTP: types.HTTPConfig{
			Addr:         ":8080",
			PreviewScale: 8,
		},
		GPIO: types.GPIOConfig{
			Enabled: true,
			Chip:    "gpiochip0",
			Pin:     25,
		},
		// Adafruit RGB Matrix Bonnet pinout
		HUB75: types.HUB75Config{
			Chip:   "gpiochip0",
			R1Pin:  5,
			G1Pin:  13,
			B1Pin:  6,
			R2Pin:  12,
			G2Pin:  16,
			B2Pin:  23,
			CLKPin: 17,
			OEPin:  4,
			LAPin:  21,
			APin:   22,
			BPin:   26,
			CPin:   27,
			DPin:   20,
			EPin:   24,

			Threshold: 128,
		},
		Sink:     SinkHUB75,
		LogLevel: "info",
	}
}
