package types

// Status is the read-only snapshot exported to the status and preview
// surfaces. Colors are lowercase rrggbb without a leading '#'.
type Status struct {
	Time       TimeStatus       `json:"time"`
	Appearance AppearanceStatus `json:"appearance"`
	Effects    EffectsStatus    `json:"effects"`
	Glitches   GlitchStatus     `json:"glitches"`
	XPositions []int            `json:"x_positions"`
	ScrollText string           `json:"scroll_text"`
}

// TimeStatus is the displayed time.
type TimeStatus struct {
	Hour   int  `json:"hour"`
	Minute int  `json:"minute"`
	Frozen bool `json:"frozen"`
}

// AppearanceStatus holds brightness and colors.
type AppearanceStatus struct {
	Brightness int    `json:"brightness"`
	TextColor  string `json:"text_color"`
	XColor     string `json:"x_color"`
	Background string `json:"background"`
}

// EffectsStatus holds timing effects.
type EffectsStatus struct {
	TimeDilation float64 `json:"time_dilation"`
	BlinkDots    bool    `json:"blink_dots"`
	BlinkAll     bool    `json:"blink_all"`
}

// GlitchStatus describes the glitch engines.
type GlitchStatus struct {
	VisualGlitchFreq   int  `json:"visual_glitch_freq"`
	VisualGlitchActive bool `json:"visual_glitch_active"`
	XGlitchFreq        int  `json:"x_glitch_freq"`
	XGlitchActive      bool `json:"x_glitch_active"`
	XGlitchNumber      int  `json:"x_glitch_number"`
	XGlitchFrames      int  `json:"x_glitch_frames"`
}
