package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Display.Width != 64 || cfg.Display.Height != 32 {
		t.Errorf("default panel = %dx%d, want 64x32", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Display.Framerate != 0.05 {
		t.Errorf("default framerate = %v, want 0.05", cfg.Display.Framerate)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml overrides",
			file: "config.yaml",
			body: "display:\n  brightness: 40\n  text_color: red\nsink: terminal\ncontrol:\n  addr: 127.0.0.1:9000\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Display.Brightness != 40 || cfg.Display.TextColor != "red" {
					t.Errorf("display = %+v", cfg.Display)
				}
				if cfg.Sink != SinkTerminal || cfg.Control.Addr != "127.0.0.1:9000" {
					t.Errorf("sink=%q control=%+v", cfg.Sink, cfg.Control)
				}
				if cfg.Display.Width != 64 {
					t.Errorf("unset width lost its default: %d", cfg.Display.Width)
				}
			},
		},
		{
			name: "json still works",
			file: "config.json",
			body: `{"display": {"width": 32, "height": 16}, "sink": "none"}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Display.Width != 32 || cfg.Display.Height != 16 || cfg.Sink != SinkNone {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "hub75 threshold",
			file: "config.yaml",
			body: "hub75:\n  threshold: 64\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.HUB75.Threshold != 64 || cfg.HUB75.CLKPin != 17 {
					t.Errorf("hub75 = %+v", cfg.HUB75)
				}
			},
		},
		{name: "bad threshold", file: "bad.yaml", body: "hub75:\n  threshold: 300\n", wantErr: true},
		{name: "bad sink", file: "bad.yaml", body: "sink: vga\n", wantErr: true},
		{name: "bad framerate", file: "bad.yaml", body: "display:\n  framerate: 0\n", wantErr: true},
		{name: "malformed", file: "bad.yaml", body: "display: [1, 2\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file succeeded")
	}
}
