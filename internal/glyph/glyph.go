package glyph

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/ambient-vortex/internal/palette"
)

const (
	arms          = 4
	radiusJitter  = 20.0
	GlowAlpha     = 90.0
	layerRadiusLo = 0.70
	layerRadiusHi = 0.65
	twistBase     = 0.85
	twistPerArm   = 0.38
	twistPerLayer = 0.25
)

// Glyph is one animated character. Its random draws are made once at
// construction; only the position moves afterwards.
type Glyph struct {
	Char  rune
	Index int
	Total int

	Hue float64
	Sat float64
	Val float64

	Arm          int
	ArmPhase     float64
	AngleOffset  float64
	RadiusJitter float64

	X, Y  float64
	Alpha float64
}

func newGlyph(ch rune, index, total int, cx, cy float64, rng *rand.Rand) *Glyph {
	hs := palette.Glyph[rng.IntN(len(palette.Glyph))]
	return &Glyph{
		Char:         ch,
		Index:        index,
		Total:        max(1, total),
		Hue:          hs[0],
		Sat:          hs[1],
		Val:          palette.GlyphValueMin + rng.Float64()*(palette.GlyphValueMax-palette.GlyphValueMin),
		Arm:          rng.IntN(arms),
		ArmPhase:     rng.Float64() * 2 * math.Pi,
		AngleOffset:  rng.Float64() * 2 * math.Pi,
		RadiusJitter: -radiusJitter + rng.Float64()*2*radiusJitter,
		X:            cx,
		Y:            cy,
		Alpha:        GlowAlpha,
	}
}

// layerRatio places the glyph on the depth axis: later glyphs sit further out.
func (g *Glyph) layerRatio() float64 {
	return float64(g.Index+1) / float64(g.Total)
}

// VortexTarget is where the glyph wants to be on the spiral for the given
// global rotation.
func (g *Glyph) VortexTarget(rotation, baseRadius, radiusScale, cx, cy float64) (float64, float64) {
	ratio := g.layerRatio()
	twist := twistBase + twistPerArm*float64(g.Arm)
	ang := g.AngleOffset + rotation*(twist+twistPerLayer*ratio) + g.ArmPhase
	r := baseRadius*(layerRadiusLo+layerRadiusHi*ratio)*(1+radiusScale) + g.RadiusJitter
	return cx + math.Cos(ang)*r, cy + math.Sin(ang)*r
}

// LineTarget is slot idx of total on a horizontal line centered at (cx, cy).
func LineTarget(idx, total int, spacing, cx, cy float64) (float64, float64) {
	width := 0.0
	if total > 1 {
		width = float64(total-1) * spacing
	}
	return cx - width/2 + float64(idx)*spacing, cy
}

// approach moves the glyph a fraction k of the way to (tx, ty).
func (g *Glyph) approach(tx, ty, k float64) {
	g.X += (tx - g.X) * k
	g.Y += (ty - g.Y) * k
}
