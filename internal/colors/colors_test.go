package colors

import (
	"errors"
	"image/color"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    color.RGBA
		wantErr bool
	}{
		{name: "name", token: "red", want: color.RGBA{255, 0, 0, 255}},
		{name: "name mixed case", token: "Blue", want: color.RGBA{0, 0, 255, 255}},
		{name: "hex with hash", token: "#29B6F6", want: color.RGBA{0x29, 0xb6, 0xf6, 255}},
		{name: "hex without hash", token: "c70000", want: color.RGBA{0xc7, 0, 0, 255}},
		{name: "short hex", token: "fff", want: color.RGBA{255, 255, 255, 255}},
		{name: "garbage", token: "not-a-color", wantErr: true},
		{name: "empty", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownColor) {
					t.Errorf("Resolve(%q) error = %v, want ErrUnknownColor", tt.token, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0x29, 0xb6, 0xf6, 0xff}); got != "29b6f6" {
		t.Errorf("Hex() = %q, want 29b6f6", got)
	}
	if got := Hex(color.RGBA{}); got != "000000" {
		t.Errorf("Hex() = %q, want 000000", got)
	}
}
