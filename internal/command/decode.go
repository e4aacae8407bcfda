package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownCommand is returned for a command name with no decoder.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArguments is returned when arguments have the wrong arity, type
	// or range.
	ErrBadArguments = errors.New("bad arguments")
)

const (
	// Slots is the length of an x_positions mask.
	Slots = 4
	// MaxIntensity bounds the visual glitch intensity. Each unit costs up to
	// one band shift per frame.
	MaxIntensity = 64
)

type decoder func(a args) (Command, error)

var decoders = map[string]decoder{
	NameTime: func(a args) (Command, error) {
		if err := a.arity(2, 2); err != nil {
			return nil, err
		}
		h, m, err := a.hourMinute(0)
		return SetTime{Hour: h, Minute: m}, err
	},
	NameFreeze: func(a args) (Command, error) {
		if err := a.arity(0, 1); err != nil {
			return nil, err
		}
		on, err := a.boolean(0, true)
		return Freeze{Enabled: on}, err
	},
	NameTimeNow: func(a args) (Command, error) {
		if err := a.arity(0, 1); err != nil {
			return nil, err
		}
		reset, err := a.boolean(0, false)
		return TimeNow{ResetDilation: reset}, err
	},
	NameIncrementTime: func(a args) (Command, error) {
		if err := a.arity(1, 1); err != nil {
			return nil, err
		}
		m, err := a.integer(0, 0)
		return IncrementTime{Minutes: m}, err
	},
	NameTimeDilation: func(a args) (Command, error) {
		if err := a.arity(0, 1); err != nil {
			return nil, err
		}
		f, err := a.float(0, 1)
		return TimeDilation{Factor: f}, err
	},
	NameBrightness: func(a args) (Command, error) {
		if err := a.arity(1, 2); err != nil {
			return nil, err
		}
		target, err := a.float(0, 0)
		if err != nil {
			return nil, err
		}
		d, err := a.float(1, 0)
		if err == nil && d < 0 {
			err = a.errorf("duration must not be negative")
		}
		return Brightness{Target: target, Duration: d}, err
	},
	NameColor: func(a args) (Command, error) {
		c, err := a.colorOnly()
		return TextColor{Color: c}, err
	},
	NameXColor: func(a args) (Command, error) {
		c, err := a.colorOnly()
		return XColor{Color: c}, err
	},
	NameBackground: func(a args) (Command, error) {
		c, err := a.colorOnly()
		return Background{Color: c}, err
	},
	NameRandomGlitch: func(a args) (Command, error) {
		if err := a.arity(0, 2); err != nil {
			return nil, err
		}
		freq, err := a.integer(0, 100)
		if err != nil {
			return nil, err
		}
		intensity, err := a.integer(1, 4)
		if err != nil {
			return nil, err
		}
		if freq < -1 || intensity < 0 || intensity > MaxIntensity {
			return nil, a.errorf("freq must be >= -1 and intensity between 0 and %d", MaxIntensity)
		}
		return RandomGlitch{Freq: freq, Intensity: intensity}, nil
	},
	NameRandomXGlitch: func(a args) (Command, error) {
		if err := a.arity(1, 4); err != nil {
			return nil, err
		}
		freq, err := a.integer(0, 0)
		if err != nil {
			return nil, err
		}
		if freq < 0 {
			return nil, a.errorf("freq must not be negative")
		}
		num, frames, color, err := a.xBurst(1)
		return RandomXGlitch{Freq: freq, Num: num, Frames: frames, Color: color}, err
	},
	NameSingleXGlitch: func(a args) (Command, error) {
		if err := a.arity(0, 3); err != nil {
			return nil, err
		}
		num, frames, color, err := a.xBurst(0)
		return SingleXGlitch{Num: num, Frames: frames, Color: color}, err
	},
	NameXPositions: func(a args) (Command, error) {
		if err := a.arity(0, 2); err != nil {
			return nil, err
		}
		mask, err := a.str(0, "0000")
		if err != nil {
			return nil, err
		}
		if len(mask) != Slots {
			return nil, a.errorf("must specify four positions, got %q", mask)
		}
		color, err := a.str(1, "")
		return XPositions{Positions: mask, Color: color}, err
	},
	NameGlitchTo: func(a args) (Command, error) {
		if err := a.arity(2, 3); err != nil {
			return nil, err
		}
		h, m, err := a.hourMinute(0)
		if err != nil {
			return nil, err
		}
		frames, err := a.integer(2, 5)
		if err == nil && frames < 0 {
			err = a.errorf("frames must not be negative")
		}
		return GlitchTo{Hour: h, Minute: m, Frames: frames}, err
	},
	NameFadeSnap: func(a args) (Command, error) {
		if err := a.arity(2, 4); err != nil {
			return nil, err
		}
		h, m, err := a.hourMinute(0)
		if err != nil {
			return nil, err
		}
		d, err := a.float(2, 1)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, a.errorf("duration must not be negative")
		}
		clearX, err := a.boolean(3, false)
		return FadeSnap{Hour: h, Minute: m, Duration: d, ClearX: clearX}, err
	},
	NameNormal: func(a args) (Command, error) {
		return Normal{}, a.arity(0, 0)
	},
	NameBlinkDots: func(a args) (Command, error) {
		on, err := a.one()
		return BlinkDots{Enabled: on}, err
	},
	NameBlinkAll: func(a args) (Command, error) {
		on, err := a.one()
		return BlinkAll{Enabled: on}, err
	},
	NameFramerate: func(a args) (Command, error) {
		if err := a.arity(0, 1); err != nil {
			return nil, err
		}
		rate, err := a.float(0, 0.05)
		if err == nil && !(rate > 0) {
			err = a.errorf("rate must be positive")
		}
		return Framerate{Rate: rate}, err
	},
	NameDisplayText: func(a args) (Command, error) {
		if err := a.arity(0, 1); err != nil {
			return nil, err
		}
		text, err := a.str(0, "")
		return DisplayText{Text: text}, err
	},
	NameShowIP: func(a args) (Command, error) {
		on, err := a.flag()
		return ShowIP{Enabled: on}, err
	},
}

// Names returns every decodable command name.
func Names() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	return names
}

// Decode turns a command name and positional wire arguments into a Command,
// filling defaults for omitted trailing arguments.
func Decode(name string, vals []any) (Command, error) {
	dec, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	cmd, err := dec(args{name: name, vals: vals})
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

type args struct {
	name string
	vals []any
}

func (a args) errorf(format string, v ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrBadArguments, a.name, fmt.Sprintf(format, v...))
}

func (a args) arity(min, max int) error {
	if n := len(a.vals); n < min || n > max {
		if min == max {
			return a.errorf("takes %d arguments, got %d", min, n)
		}
		return a.errorf("takes %d to %d arguments, got %d", min, max, n)
	}
	return nil
}

func (a args) present(i int) bool {
	return i < len(a.vals) && a.vals[i] != nil
}

func (a args) integer(i, def int) (int, error) {
	if !a.present(i) {
		return def, nil
	}
	n, err := toInt(a.vals[i])
	if err != nil {
		return 0, a.errorf("argument %d: %v", i+1, err)
	}
	return n, nil
}

func (a args) float(i int, def float64) (float64, error) {
	if !a.present(i) {
		return def, nil
	}
	f, err := toFloat(a.vals[i])
	if err != nil {
		return 0, a.errorf("argument %d: %v", i+1, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, a.errorf("argument %d: must be finite, got %v", i+1, f)
	}
	return f, nil
}

func (a args) str(i int, def string) (string, error) {
	if !a.present(i) {
		return def, nil
	}
	switch v := a.vals[i].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return "", a.errorf("argument %d: want string, got bool", i+1)
	default:
		return fmt.Sprint(v), nil
	}
}

func (a args) boolean(i int, def bool) (bool, error) {
	if !a.present(i) {
		return def, nil
	}
	b, err := toBool(a.vals[i])
	if err != nil {
		return false, a.errorf("argument %d: %v", i+1, err)
	}
	return b, nil
}

// flag decodes the single optional enabled argument shared by the toggles.
func (a args) flag() (bool, error) {
	if err := a.arity(0, 1); err != nil {
		return false, err
	}
	return a.boolean(0, true)
}

// one decodes the blink toggles, which are enabled only by exactly 1 (or
// true). Any other number disables them.
func (a args) one() (bool, error) {
	if err := a.arity(0, 1); err != nil {
		return false, err
	}
	if !a.present(0) {
		return true, nil
	}
	if b, ok := a.vals[0].(bool); ok {
		return b, nil
	}
	if s, ok := a.vals[0].(string); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, nil
		}
	}
	f, err := a.float(0, 1)
	if err != nil {
		return false, err
	}
	return f == 1, nil
}

func (a args) colorOnly() (string, error) {
	if err := a.arity(1, 1); err != nil {
		return "", err
	}
	c, err := a.str(0, "")
	if err == nil && c == "" {
		err = a.errorf("color must not be empty")
	}
	return c, err
}

func (a args) hourMinute(i int) (int, int, error) {
	h, err := a.integer(i, 0)
	if err != nil {
		return 0, 0, err
	}
	m, err := a.integer(i+1, 0)
	if err != nil {
		return 0, 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, a.errorf("invalid time %02d:%02d", h, m)
	}
	return h, m, nil
}

// xBurst decodes num, frames and color starting at argument i.
func (a args) xBurst(i int) (num, frames int, color string, err error) {
	if num, err = a.integer(i, 1); err != nil {
		return
	}
	if frames, err = a.integer(i+1, 1); err != nil {
		return
	}
	if color, err = a.str(i+2, ""); err != nil {
		return
	}
	if num < 1 || num > Slots {
		err = a.errorf("num must be between 1 and %d", Slots)
	} else if frames < 0 {
		err = a.errorf("frames must not be negative")
	}
	return
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("want integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("want integer, got %T", v)
	}
}

func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("want integer, got %v", f)
	}
	return int(f), nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("want number, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("want number, got %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("want boolean, got %q", b)
		}
		return p, nil
	default:
		f, err := toFloat(v)
		if err != nil {
			return false, fmt.Errorf("want boolean, got %T", v)
		}
		return f != 0, nil
	}
}
