package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/ambient-vortex/internal/ripple"
)

const (
	breathSegments = 64
	breathRadius   = 120.0
	breathLowGain  = 90.0
)

var breathLayers = []struct {
	scale float64
	alpha uint8
}{
	{1.0, 26},
	{1.5, 18},
	{2.2, 12},
}

// breathRing is the outline of ambient layer i at clock t (ms).
func breathRing(i int, center ripple.Point, t, low, high float64) []ripple.Point {
	r := (breathRadius + breathLowGain*low) * breathLayers[i].scale
	jitter := 3 + 10*high
	phase := t*0.001 + float64(i)*3.14

	pts := make([]ripple.Point, breathSegments)
	for k := range pts {
		ang := float64(k) / breathSegments * 2 * math.Pi
		rr := r + math.Sin(ang*6+phase)*jitter
		pts[k] = ripple.Point{
			X: center.X + math.Cos(ang)*rr,
			Y: center.Y + math.Sin(ang)*rr,
		}
	}
	return pts
}

func drawAmbient(dst *ebiten.Image, center ripple.Point, t, low, high float64) {
	for i, l := range breathLayers {
		clr := color.NRGBA{R: 210, G: 225, B: 255, A: l.alpha}
		ripple.StrokeOutline(dst, breathRing(i, center, t, low, high), clr)
	}
}
