package theme

import (
	"fmt"
	"math"
	"strconv"
)

// rgb is a parsed #rrggbb color.
type rgb struct {
	r, g, b float64
}

var (
	black = rgb{}
	white = rgb{255, 255, 255}
)

func parseRGB(hex string) (rgb, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, fmt.Errorf("color %q is not #rrggbb", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("color %q is not #rrggbb", hex)
	}
	return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}, nil
}

func (c rgb) hex() string {
	clamp := func(v float64) int { return int(math.Max(0, math.Min(255, v))) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.r), clamp(c.g), clamp(c.b))
}

// scale multiplies every channel by factor and lifts it to at least floor,
// so dark cells stay visible on dark backgrounds.
func (c rgb) scale(factor, floor float64) rgb {
	ch := func(v float64) float64 { return math.Max(math.Trunc(v*factor), floor) }
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

// blend mixes c towards o; ratio 0 is c and 1 is o.
func (c rgb) blend(o rgb, ratio float64) rgb {
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(a, b float64) float64 { return math.Trunc(a*(1-ratio) + b*ratio) }
	return rgb{mix(c.r, o.r), mix(c.g, o.g), mix(c.b, o.b)}
}

// luminance is the WCAG relative luminance.
func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func contrast(a, b rgb) float64 {
	l1, l2 := a.luminance(), b.luminance()
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// mustRGB parses hex, treating malformed input as black. Themes are
// validated on load, so this only matters for hand-built themes.
func mustRGB(hex string) rgb {
	c, _ := parseRGB(hex)
	return c
}
