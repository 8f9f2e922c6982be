package palette

import (
	"fmt"
	"image/color"
	"math"
	"time"
)

// Hue/saturation pairs glyphs pick from. Saturation is in percent.
var Glyph = [][2]float64{
	{180, 40}, {195, 38}, {210, 42}, {165, 45}, {155, 48},
	{250, 40}, {265, 42}, {325, 45}, {345, 48},
}

const (
	GlyphValueMin = 92.0
	GlyphValueMax = 100.0
)

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return toByte(r + m), toByte(g + m), toByte(b + m)
}

// HSVA builds a color from hue in degrees, saturation and value in percent,
// and a straight alpha.
func HSVA(h, s, v float64, alpha uint8) color.NRGBA {
	r, g, b := hsvToRgb(h, clamp01(s/100), clamp01(v/100))
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// Alpha clamps a computed alpha into a byte.
func Alpha(a float64) uint8 {
	return uint8(math.Round(255 * clamp01(a/255)))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatDuration formats a duration as MM:SS
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
