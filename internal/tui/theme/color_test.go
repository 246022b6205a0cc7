package theme

import (
	"math"
	"testing"
)

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in      string
		want    rgb
		wantErr bool
	}{
		{in: "#000000", want: rgb{}},
		{in: "#FF8000", want: rgb{255, 128, 0}},
		{in: "#89b4fa", want: rgb{0x89, 0xb4, 0xfa}},
		{in: "89b4fa", wantErr: true},
		{in: "#89b4f", wantErr: true},
		{in: "#89b4fg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseRGB(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRGB(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRGB(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRGBHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#1e1e2e", "#f38ba8"} {
		if got := mustRGB(hex).hex(); got != hex {
			t.Errorf("hex(%s) = %s", hex, got)
		}
	}
	if got := (rgb{300, -5, 12.7}).hex(); got != "#ff000c" {
		t.Errorf("out of range channels = %s, want #ff000c", got)
	}
}

func TestBlendAndScale(t *testing.T) {
	c := rgb{200, 100, 0}
	if got := c.blend(white, 0.5).hex(); got != "#e3b17f" {
		t.Errorf("blend = %s, want #e3b17f", got)
	}
	if got := c.blend(white, 2); got != white {
		t.Errorf("ratio above 1 = %+v, want white", got)
	}
	if got := c.scale(0.5, 40).hex(); got != "#643228" {
		t.Errorf("scale = %s, want #643228", got)
	}
}

func TestContrast(t *testing.T) {
	if got := contrast(black, white); math.Abs(got-21) > 0.01 {
		t.Errorf("contrast(black, white) = %f, want 21", got)
	}
	if got := contrast(white, white); got != 1 {
		t.Errorf("contrast(white, white) = %f, want 1", got)
	}
}
