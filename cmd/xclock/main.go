package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/fkcurrie/xclock-led-golang/internal/command"
	"github.com/fkcurrie/xclock-led-golang/internal/config"
	"github.com/fkcurrie/xclock-led-golang/internal/control"
	"github.com/fkcurrie/xclock-led-golang/internal/discovery"
	"github.com/fkcurrie/xclock-led-golang/internal/display"
	"github.com/fkcurrie/xclock-led-golang/internal/glyph"
	"github.com/fkcurrie/xclock-led-golang/internal/httpapi"
	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/internal/sink"
	"github.com/fkcurrie/xclock-led-golang/pkg/gpio"
)

func main() {
	// XCLOCK_* settings may also come from a .env file next to the binary.
	_ = godotenv.Load()

	if err := buildCLI().ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	sink       string
	oscAddr    string
	httpAddr   string
	font       string
	glyphDir   string
	logLevel   string
	gpioPin    int
	showIP     bool
	noGPIO     bool
}

// envPrefix maps flags to XCLOCK_* environment variables.
const envPrefix = "XCLOCK"

func newFlagSet(handling flag.ErrorHandling) (*flag.FlagSet, *options) {
	fs := flag.NewFlagSet("xclock", handling)
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "path to YAML or JSON config file")
	fs.StringVar(&o.sink, "sink", "", "frame sink: hub75, terminal or none")
	fs.StringVar(&o.oscAddr, "osc-addr", "", "UDP address for OSC commands")
	fs.StringVar(&o.httpAddr, "http-addr", "", "address for the HTTP preview server")
	fs.StringVar(&o.font, "font", "", "TrueType font for glyphs and scrolling text")
	fs.StringVar(&o.glyphDir, "glyph-dir", "", "directory of SVG glyph overrides")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: off, info or debug")
	fs.IntVar(&o.gpioPin, "gpio-pin", 0, "GPIO line of the show-IP switch")
	fs.BoolVar(&o.showIP, "show-ip", false, "scroll the local IP address at startup")
	fs.BoolVar(&o.noGPIO, "no-gpio", false, "do not read the show-IP switch")
	return fs, o
}

func buildCLI() *ffcli.Command {
	fs, o := newFlagSet(flag.ExitOnError)
	return &ffcli.Command{
		Name:       "xclock",
		ShortUsage: "xclock [flags]",
		ShortHelp:  "Run the glitch clock on a LED matrix",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, _ []string) error {
			cfg, err := loadConfig(fs, o)
			if err != nil {
				return err
			}
			return run(ctx, cfg)
		},
	}
}

// loadConfig reads the config file, then applies flags that were set on the
// command line or through the environment.
func loadConfig(fs *flag.FlagSet, o *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(o.configPath); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sink":
			cfg.Sink = o.sink
		case "osc-addr":
			cfg.Control.Addr = o.oscAddr
		case "http-addr":
			cfg.HTTP.Addr = o.httpAddr
		case "font":
			cfg.Display.Font = o.font
		case "glyph-dir":
			cfg.Display.GlyphDir = o.glyphDir
		case "log-level":
			cfg.LogLevel = o.logLevel
		case "gpio-pin":
			cfg.GPIO.Pin = o.gpioPin
		case "show-ip":
			cfg.ShowIP = o.showIP
		case "no-gpio":
			cfg.GPIO.Enabled = !o.noGPIO
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr)

	glyphs, err := glyph.Load(glyph.Options{
		FontPath: cfg.Display.Font,
		Size:     cfg.Display.FontSize,
		SVGDir:   cfg.Display.GlyphDir,
	})
	if err != nil {
		return fmt.Errorf("failed to load glyphs: %w", err)
	}

	renderer, err := display.NewRenderer(cfg.Display, glyphs, display.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	matrix, err := sink.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s sink: %w", cfg.Sink, err)
	}
	defer matrix.Close()
	renderer.SetMatrix(matrix)

	dispatcher := command.NewDispatcher(renderer, log, discovery.LocalIPv4)
	if cfg.ShowIP || switchActive(cfg, log) {
		dispatcher.Submit(command.ShowIP{Enabled: true})
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	osc := control.NewServer(cfg.Control.Addr,
		control.NewHandler(dispatcher, control.NewLimiter(cfg.Control.RateLimit), log), log)
	web := httpapi.NewServer(renderer, dispatcher, cfg.HTTP.PreviewScale, log)

	tasks := []func(context.Context) error{
		renderer.Start,
		osc.Start,
		func(ctx context.Context) error { return web.Start(ctx, cfg.HTTP.Addr) },
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, task := range tasks {
		wg.Add(1)
		go func(task func(context.Context) error) {
			defer wg.Done()
			if err := task(ctx); err != nil && !errors.Is(err, context.Canceled) {
				once.Do(func() { firstErr = err })
			}
			cancel()
		}(task)
	}
	wg.Wait()

	log.Info("Shutting down...")
	return firstErr
}

// switchActive reads the show-IP switch. Failures only mean no switch.
func switchActive(cfg *config.Config, log *logger.Logger) bool {
	if !cfg.GPIO.Enabled {
		return false
	}
	active, err := gpio.SwitchActive(cfg.GPIO.Chip, cfg.GPIO.Pin)
	if err != nil {
		log.Warn("Failed to read GPIO switch: %v", err)
		return false
	}
	if active {
		log.Info("GPIO pin %d is low", cfg.GPIO.Pin)
	}
	return active
}
