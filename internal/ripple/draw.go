package ripple

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/ambient-vortex/internal/palette"
)

// Draw renders every live ripple onto dst. low and high are the smoothed
// band energies.
func (s *System) Draw(dst *ebiten.Image, now, low, high float64) {
	b := dst.Bounds()
	minDim := float64(min(b.Dx(), b.Dy()))

	for i := range s.ripples {
		r := &s.ripples[i]
		pts, alpha := r.Outline(now, low, high, minDim)
		if alpha <= 0 {
			continue
		}
		for _, a := range r.LayerAlphas(alpha) {
			clr := palette.HSVA(r.Hue, r.Sat, r.Val, palette.Alpha(float64(a)))
			StrokeOutline(dst, pts, clr)
		}
	}
}

// StrokeOutline draws the closed polygon through pts with a 1px line.
func StrokeOutline(dst *ebiten.Image, pts []Point, clr color.Color) {
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), 1, clr, true)
	}
}
