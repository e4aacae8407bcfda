package display

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fkcurrie/xclock-led-golang/internal/command"
	"github.com/fkcurrie/xclock-led-golang/internal/effect"
	"github.com/fkcurrie/xclock-led-golang/internal/glyph"
	"github.com/fkcurrie/xclock-led-golang/internal/types"
)

var (
	start = time.Date(2024, 3, 1, 12, 34, 0, int(600*time.Millisecond), time.UTC)
	cyan  = color.RGBA{0x29, 0xb6, 0xf6, 0xff}
	red   = color.RGBA{0xc7, 0x00, 0x00, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
)

// Rows lit by the synthetic glyphs: digit d lights row 2d, ':' lights
// columns 5-7 of separatorRow and 'X' lights xRow.
const (
	separatorRow = 25
	xRow         = 30
)

type fakeMatrix struct {
	mu     sync.Mutex
	draws  int
	clears int
	last   image.Image
	err    error
}

func (m *fakeMatrix) Draw(frame image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draws++
	m.last = frame
	return m.err
}

func (m *fakeMatrix) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	return m.err
}

func (m *fakeMatrix) Size() (int, int) { return 64, 32 }
func (m *fakeMatrix) Close() error     { return nil }

func (m *fakeMatrix) counts() (draws, clears int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draws, m.clears
}

func testGlyphs(t *testing.T) *glyph.Set {
	t.Helper()
	glyphs := make(map[rune]*image.Alpha)
	row := func(y, x0, x1 int) *image.Alpha {
		a := image.NewAlpha(image.Rect(0, 0, glyph.Width, glyph.Height))
		for x := x0; x <= x1; x++ {
			a.SetAlpha(x, y, color.Alpha{A: 0xff})
		}
		return a
	}
	for d := 0; d < 10; d++ {
		glyphs[rune('0'+d)] = row(2*d, 0, glyph.Width-1)
	}
	glyphs[':'] = row(separatorRow, 5, 7)
	glyphs['X'] = row(xRow, 0, glyph.Width-1)
	set, err := glyph.New(glyph.Width, glyph.Height, glyphs, nil)
	if err != nil {
		t.Fatalf("glyph.New: %v", err)
	}
	return set
}

func testConfig() types.DisplayConfig {
	return types.DisplayConfig{
		Width:      64,
		Height:     32,
		Framerate:  0.05,
		Brightness: 100,
		TextColor:  "#29B6F6",
		XColor:     "#C70000",
		Background: "#000000",
	}
}

type harness struct {
	r       *Renderer
	matrix  *fakeMatrix
	advance func(time.Duration)
	block   func(int)
}

func newHarness(t *testing.T, glyphs *glyph.Set) *harness {
	t.Helper()
	if glyphs == nil {
		glyphs = testGlyphs(t)
	}
	fc := clockwork.NewFakeClockAt(start)
	r, err := NewRenderer(testConfig(), glyphs, WithClock(fc), WithRand(effect.Seeded(1)))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	m := &fakeMatrix{}
	r.SetMatrix(m)
	return &harness{r: r, matrix: m, advance: fc.Advance, block: fc.BlockUntil}
}

// frame advances the fake clock by one period and renders.
func (h *harness) frame() *image.RGBA {
	h.advance(50 * time.Millisecond)
	h.r.RenderFrame()
	return h.r.Frame()
}

// digitAt returns the digit drawn in slot i, or -1.
func digitAt(img *image.RGBA, slot int) int {
	x := layoutFor(64).slots[slot] + 6
	for d := 0; d < 10; d++ {
		if img.RGBAAt(x, 2*d) == cyan {
			return d
		}
	}
	return -1
}

func readTime(img *image.RGBA) [4]int {
	var got [4]int
	for i := range got {
		got[i] = digitAt(img, i)
	}
	return got
}

func TestNewRendererValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*types.DisplayConfig)
	}{
		{name: "zero width", modify: func(c *types.DisplayConfig) { c.Width = 0 }},
		{name: "zero framerate", modify: func(c *types.DisplayConfig) { c.Framerate = 0 }},
		{name: "bad text color", modify: func(c *types.DisplayConfig) { c.TextColor = "nope" }},
		{name: "bad background", modify: func(c *types.DisplayConfig) { c.Background = "#12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := NewRenderer(cfg, testGlyphs(t)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderDrawsTime(t *testing.T) {
	h := newHarness(t, nil)
	img := h.frame()

	if got, want := readTime(img), [4]int{1, 2, 3, 4}; got != want {
		t.Errorf("digits = %v, want %v", got, want)
	}
	if got := img.RGBAAt(32, separatorRow); got != cyan {
		t.Errorf("separator pixel = %v, want %v", got, cyan)
	}
	if got := img.RGBAAt(0, 31); got != black {
		t.Errorf("background pixel = %v, want %v", got, black)
	}
	if draws, clears := h.matrix.counts(); draws != 1 || clears != 0 {
		t.Errorf("draws=%d clears=%d, want 1/0", draws, clears)
	}
}

func TestSeparatorBlinks(t *testing.T) {
	h := newHarness(t, nil)
	img := h.frame() // 12:34:00.65
	if img.RGBAAt(32, separatorRow) != cyan {
		t.Fatal("separator hidden in the second half of the second")
	}
	for i := 0; i < 8; i++ {
		img = h.frame()
	}
	// 12:34:01.05
	if img.RGBAAt(32, separatorRow) != black {
		t.Error("separator shown in the first half of the second")
	}

	h.r.Apply(command.BlinkDots{Enabled: false})
	img = h.frame()
	if img.RGBAAt(32, separatorRow) != cyan {
		t.Error("separator hidden with blinking off")
	}
}

func TestBlankFrames(t *testing.T) {
	tests := []struct {
		name string
		cmds []command.Command
	}{
		{name: "brightness zero", cmds: []command.Command{command.Brightness{Target: 0}}},
		{name: "blink all hidden phase", cmds: []command.Command{
			command.SetTime{Hour: 9, Minute: 0},
			command.Freeze{Enabled: true},
			command.BlinkAll{Enabled: true},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			for _, c := range tt.cmds {
				h.r.Apply(c)
			}
			img := h.frame()
			if draws, clears := h.matrix.counts(); draws != 0 || clears != 1 {
				t.Errorf("draws=%d clears=%d, want 0/1", draws, clears)
			}
			if got := readTime(img); got != [4]int{-1, -1, -1, -1} {
				t.Errorf("blank preview shows digits %v", got)
			}
		})
	}
}

func TestBrightnessScalesFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.Brightness{Target: 50})
	img := h.frame()

	got := img.RGBAAt(layoutFor(64).slots[0]+6, 2)
	want := color.RGBA{R: 0x29 / 2, G: 0xb6 / 2, B: 0xf6 / 2, A: 0xff}
	if got != want {
		t.Errorf("scaled pixel = %v, want %v", got, want)
	}
	if s := h.r.Status(); s.Appearance.Brightness != 50 {
		t.Errorf("brightness = %d, want 50", s.Appearance.Brightness)
	}
}

func TestBrightnessFade(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.Brightness{Target: 40})
	h.frame()
	h.r.Apply(command.Brightness{Target: 100, Duration: 2})

	for i := 0; i < 20; i++ {
		h.frame()
	}
	if got := h.r.Status().Appearance.Brightness; got != 70 {
		t.Errorf("brightness after 1s = %d, want 70", got)
	}
	for i := 0; i < 20; i++ {
		h.frame()
	}
	if got := h.r.Status().Appearance.Brightness; got != 100 {
		t.Errorf("brightness after 2s = %d, want 100", got)
	}
}

func TestFadeSnap(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.XPositions{Positions: "XXXX"})
	h.r.Apply(command.FadeSnap{Hour: 3, Minute: 15, Duration: 1, ClearX: true})

	for i := 0; i < 19; i++ {
		h.frame()
	}
	s := h.r.Status()
	if s.Time.Hour != 12 || len(s.XPositions) != 4 {
		t.Fatalf("snapped early: %+v", s)
	}

	h.frame()
	s = h.r.Status()
	if s.Time.Hour != 3 || s.Time.Minute != 15 {
		t.Errorf("time = %02d:%02d, want 03:15", s.Time.Hour, s.Time.Minute)
	}
	if len(s.XPositions) != 0 {
		t.Errorf("x positions = %v, want none", s.XPositions)
	}
	if s.Appearance.Brightness != 0 {
		t.Errorf("brightness = %d, want 0", s.Appearance.Brightness)
	}

	for i := 0; i < 20; i++ {
		h.frame()
	}
	if got := h.r.Status().Appearance.Brightness; got != 100 {
		t.Errorf("brightness after return fade = %d, want 100", got)
	}
}

func TestFadeSnapImmediate(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.Freeze{Enabled: true})
	h.r.Apply(command.FadeSnap{Hour: 7, Minute: 5})

	s := h.r.Status()
	if s.Time.Hour != 7 || s.Time.Minute != 5 || s.Time.Frozen {
		t.Errorf("time = %+v, want unfrozen 07:05", s.Time)
	}
	if s.Appearance.Brightness != 100 {
		t.Errorf("brightness = %d, want 100", s.Appearance.Brightness)
	}
}

func TestXOverlay(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.XPositions{Positions: "X..X", Color: "blue"})
	img := h.frame()

	blue := color.RGBA{0, 0, 0xff, 0xff}
	for slot, want := range []bool{true, false, false, true} {
		x := layoutFor(64).slots[slot] + 6
		if got := img.RGBAAt(x, xRow) == blue; got != want {
			t.Errorf("slot %d X drawn = %v, want %v", slot, got, want)
		}
	}
	// The X cell is cleared before drawing, so the digit underneath is gone.
	if got := digitAt(img, 0); got != -1 {
		t.Errorf("digit %d visible under X", got)
	}
}

func TestBadXPositionsLeaveState(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.XPositions{Positions: "X..."})
	before := h.r.Status()

	h.r.Apply(command.XPositions{Positions: "XX", Color: "blue"})
	after := h.r.Status()
	if len(after.XPositions) != 1 || after.XPositions[0] != 0 {
		t.Errorf("x positions = %v, want [0]", after.XPositions)
	}
	if after.Appearance.XColor != before.Appearance.XColor {
		t.Errorf("x color changed to %s", after.Appearance.XColor)
	}
}

func TestSingleXGlitch(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.SingleXGlitch{Num: 2, Frames: 3})

	for i := 0; i < 3; i++ {
		h.frame()
		if got := len(h.r.Status().XPositions); got != 2 {
			t.Fatalf("frame %d: %d X positions, want 2", i, got)
		}
	}
	h.frame()
	if got := h.r.Status().XPositions; len(got) != 0 {
		t.Errorf("x positions after burst = %v, want none", got)
	}
}

func TestGlitchTo(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.GlitchTo{Hour: 8, Minute: 27, Frames: 3})
	for i := 0; i < 3; i++ {
		h.frame()
	}
	img := h.frame()
	if got, want := readTime(img), [4]int{0, 8, 2, 7}; got != want {
		t.Errorf("digits after scramble = %v, want %v", got, want)
	}
}

func TestNormal(t *testing.T) {
	h := newHarness(t, nil)
	for _, c := range []command.Command{
		command.RandomXGlitch{Freq: 500, Num: 2, Frames: 5},
		command.XPositions{Positions: "XXXX", Color: "lime"},
		command.Freeze{Enabled: true},
		command.BlinkAll{Enabled: true},
		command.BlinkDots{Enabled: false},
		command.RandomGlitch{Freq: -1, Intensity: 4},
		command.TimeDilation{Factor: 60},
		command.TextColor{Color: "orange"},
		command.Normal{},
	} {
		h.r.Apply(c)
	}

	s := h.r.Status()
	if s.Glitches.XGlitchActive || s.Glitches.VisualGlitchFreq != 0 || s.Glitches.VisualGlitchActive {
		t.Errorf("glitches not reset: %+v", s.Glitches)
	}
	if len(s.XPositions) != 0 {
		t.Errorf("x positions = %v, want none", s.XPositions)
	}
	if s.Time.Frozen {
		t.Error("still frozen")
	}
	if s.Effects != (types.EffectsStatus{TimeDilation: 1, BlinkDots: true}) {
		t.Errorf("effects = %+v", s.Effects)
	}
	if s.Appearance.XColor != s.Appearance.TextColor || s.Appearance.TextColor != "ffa500" {
		t.Errorf("colors = %+v, want x color = text color = ffa500", s.Appearance)
	}
}

func TestGlitchStatus(t *testing.T) {
	tests := []struct {
		name string
		cmds []command.Command
		want types.GlitchStatus
	}{
		{
			name: "off",
			cmds: []command.Command{command.RandomGlitch{Freq: 0, Intensity: 4}},
			want: types.GlitchStatus{XGlitchNumber: 1, XGlitchFrames: 1},
		},
		{
			name: "continuous",
			cmds: []command.Command{command.RandomGlitch{Freq: -1, Intensity: 4}},
			want: types.GlitchStatus{VisualGlitchFreq: -1, VisualGlitchActive: true, XGlitchNumber: 1, XGlitchFrames: 1},
		},
		{
			name: "probabilistic",
			cmds: []command.Command{
				command.RandomGlitch{Freq: 1, Intensity: 2},
				command.RandomXGlitch{Freq: 300, Num: 2, Frames: 3},
			},
			want: types.GlitchStatus{
				VisualGlitchFreq:   1,
				VisualGlitchActive: true,
				XGlitchFreq:        300,
				XGlitchActive:      true,
				XGlitchNumber:      2,
				XGlitchFrames:      3,
			},
		},
		{
			name: "x turned off keeps its frequency",
			cmds: []command.Command{
				command.RandomXGlitch{Freq: 300, Num: 2, Frames: 3},
				command.RandomXGlitch{Freq: 0},
			},
			want: types.GlitchStatus{XGlitchFreq: 300, XGlitchNumber: 2, XGlitchFrames: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			for _, c := range tt.cmds {
				h.r.Apply(c)
			}
			for i := 0; i < 5; i++ {
				h.frame()
			}
			if got := h.r.Status().Glitches; got != tt.want {
				t.Errorf("glitches = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFreezeRoundTrip(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.Freeze{Enabled: true})
	for i := 0; i < 20*60; i++ {
		h.frame()
	}
	if s := h.r.Status(); s.Time.Minute != 34 || !s.Time.Frozen {
		t.Fatalf("frozen time moved: %+v", s.Time)
	}
	h.r.Apply(command.Freeze{Enabled: false})
	if s := h.r.Status(); s.Time.Minute != 34 || s.Time.Frozen {
		t.Errorf("unfreeze did not resume from frozen instant: %+v", s.Time)
	}
}

func TestColorFailureKeepsColor(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.TextColor{Color: "notacolor"})
	h.r.Apply(command.Background{Color: "navy"})

	s := h.r.Status()
	if s.Appearance.TextColor != "29b6f6" {
		t.Errorf("text color = %s, want 29b6f6", s.Appearance.TextColor)
	}
	if s.Appearance.Background != "000080" {
		t.Errorf("background = %s, want 000080", s.Appearance.Background)
	}
}

func TestDisplayText(t *testing.T) {
	set, err := glyph.Default()
	if err != nil {
		t.Fatalf("glyph.Default: %v", err)
	}
	h := newHarness(t, set)
	h.r.Apply(command.XPositions{Positions: "XXXX"})
	h.r.Apply(command.DisplayText{Text: "10.0.0.7"})

	var lit bool
	for i := 0; i < 20; i++ {
		img := h.frame()
		for x := 0; x < 64; x++ {
			if img.RGBAAt(x, xRow) == red {
				t.Fatal("X overlay drawn while scrolling")
			}
			for y := 0; y < 32; y++ {
				if img.RGBAAt(x, y) != black {
					lit = true
				}
			}
		}
	}
	if !lit {
		t.Error("scroll text never drawn")
	}

	h.r.Apply(command.DisplayText{Text: ""})
	if s := h.r.Status(); s.ScrollText != "" {
		t.Errorf("scroll text = %q", s.ScrollText)
	}
}

func TestFramerate(t *testing.T) {
	h := newHarness(t, nil)
	h.r.Apply(command.Framerate{Rate: 0.1})
	if got := h.r.Period(); got != 100*time.Millisecond {
		t.Errorf("period = %v, want 100ms", got)
	}
}

type bogus struct{}

func (bogus) Name() string { return "bogus" }

func TestUnsupportedCommandIgnored(t *testing.T) {
	h := newHarness(t, nil)
	before := h.r.Status()
	h.r.Apply(bogus{})
	if after := h.r.Status(); after.Time != before.Time || after.Appearance != before.Appearance {
		t.Errorf("state changed: %+v", after)
	}
}

func TestSinkErrorsAreNotFatal(t *testing.T) {
	h := newHarness(t, nil)
	h.matrix.err = errors.New("bus fault")
	h.frame()
	h.frame()
	if draws, _ := h.matrix.counts(); draws != 2 {
		t.Errorf("draws = %d, want 2", draws)
	}
}

func TestStartRendersUntilCancelled(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.r.Start(ctx) }()

	h.block(1)
	h.advance(50 * time.Millisecond)
	h.block(1)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start returned %v, want context.Canceled", err)
	}
	if draws, _ := h.matrix.counts(); draws < 2 {
		t.Errorf("draws = %d, want at least 2", draws)
	}
}

func TestLayoutScales(t *testing.T) {
	l := layoutFor(128)
	if l.slots != [4]int{4, 30, 72, 98} || l.separator != 52 {
		t.Errorf("layout = %+v", l)
	}
}
