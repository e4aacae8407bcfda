package types

// DisplayConfig represents the configuration for the clock face.
type DisplayConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Framerate  float64 `yaml:"framerate"`
	Brightness float64 `yaml:"brightness"`
	// FadeIn is the startup fade from black, in seconds.
	FadeIn     float64 `yaml:"fade_in"`
	TextColor  string  `yaml:"text_color"`
	XColor     string  `yaml:"x_color"`
	Background string  `yaml:"background"`
	Font       string  `yaml:"font"`
	FontSize   float64 `yaml:"font_size"`
	GlyphDir   string  `yaml:"glyph_dir"`
}

// ControlConfig represents the configuration for the OSC command channel.
type ControlConfig struct {
	Addr string `yaml:"addr"`
	// RateLimit caps accepted commands per second; zero disables the cap.
	RateLimit int `yaml:"rate_limit"`
}

// HTTPConfig represents the configuration for the status/preview server.
type HTTPConfig struct {
	Addr         string `yaml:"addr"`
	PreviewScale int    `yaml:"preview_scale"`
}

// GPIOConfig represents the show-IP switch.
type GPIOConfig struct {
	Enabled bool   `yaml:"enabled"`
	Chip    string `yaml:"chip"`
	Pin     int    `yaml:"pin"`
}

// HUB75Config maps panel signals to GPIO line offsets.
type HUB75Config struct {
	Chip   string `yaml:"chip"`
	R1Pin  int    `yaml:"r1"`
	G1Pin  int    `yaml:"g1"`
	B1Pin  int    `yaml:"b1"`
	R2Pin  int    `yaml:"r2"`
	G2Pin  int    `yaml:"g2"`
	B2Pin  int    `yaml:"b2"`
	CLKPin int    `yaml:"clk"`
	OEPin  int    `yaml:"oe"`
	LAPin  int    `yaml:"lat"`
	APin   int    `yaml:"a"`
	BPin   int    `yaml:"b"`
	CPin   int    `yaml:"c"`
	DPin   int    `yaml:"d"`
	EPin   int    `yaml:"e"`

	// Threshold is the channel level (1-255) from which a LED lights.
	// Zero selects the panel default.
	Threshold int `yaml:"threshold"`
}
