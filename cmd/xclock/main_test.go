package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterbourgon/ff/v3"

	"github.com/fkcurrie/xclock-led-golang/internal/config"
)

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xclock.yaml")
	if err := os.WriteFile(path, []byte("sink: terminal\ncontrol:\n  addr: 127.0.0.1:9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		env   map[string]string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Sink != config.SinkHUB75 || !cfg.GPIO.Enabled {
					t.Errorf("sink=%s gpio=%v", cfg.Sink, cfg.GPIO.Enabled)
				}
			},
		},
		{
			name: "file then flags",
			args: []string{"-config", path, "-sink", "none", "-no-gpio"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Sink != config.SinkNone {
					t.Errorf("sink = %s, want none", cfg.Sink)
				}
				if cfg.Control.Addr != "127.0.0.1:9000" {
					t.Errorf("osc addr = %s", cfg.Control.Addr)
				}
				if cfg.GPIO.Enabled {
					t.Error("gpio still enabled")
				}
			},
		},
		{
			name: "environment",
			env:  map[string]string{"XCLOCK_SHOW_IP": "true", "XCLOCK_GPIO_PIN": "7"},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.ShowIP || cfg.GPIO.Pin != 7 {
					t.Errorf("show_ip=%v pin=%d", cfg.ShowIP, cfg.GPIO.Pin)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs, o := newFlagSet(flag.ContinueOnError)
			if err := ff.Parse(fs, tt.args, ff.WithEnvVarPrefix(envPrefix)); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			cfg, err := loadConfig(fs, o)
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
