package glyph

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/ambient-vortex/internal/palette"
)

const (
	FontSize   = 30.0
	glowScale  = 1.25
	dotRadius  = 2
	fadedValue = 50.0
	fadedDrop  = 30.0
	fadedGlow  = 40.0
	minGlow    = 20.0
)

var separatorColor = color.NRGBA{R: 210, G: 225, B: 255, A: 85}

// Renderer draws glyphs as a soft glow pass under a crisp pass.
type Renderer struct {
	face *text.GoTextFace
	glow *text.GoTextFace
}

func NewRenderer(size float64) (*Renderer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("loading glyph font: %w", err)
	}
	return &Renderer{
		face: &text.GoTextFace{Source: src, Size: size},
		glow: &text.GoTextFace{Source: src, Size: size * glowScale},
	}, nil
}

// Draw renders the active glyphs of f, plus the separator dots in line mode.
// faded dims everything while playback is not progressing.
func (r *Renderer) Draw(dst *ebiten.Image, f *Field, faded bool) {
	for _, g := range f.Active() {
		r.drawGlyph(dst, g, faded)
	}
	for _, p := range f.Separators() {
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), dotRadius, separatorColor, true)
	}
}

func (r *Renderer) drawGlyph(dst *ebiten.Image, g *Glyph, faded bool) {
	val, glowAlpha := g.Val, g.Alpha
	if faded {
		val = max(fadedValue, val-fadedDrop)
		glowAlpha = max(minGlow, glowAlpha-fadedGlow)
	}
	s := string(g.Char)

	op := centered(g.X, g.Y)
	op.ColorScale.ScaleWithColor(palette.HSVA(g.Hue, g.Sat, val, palette.Alpha(glowAlpha)))
	text.Draw(dst, s, r.glow, op)

	op = centered(g.X, g.Y)
	op.ColorScale.ScaleWithColor(palette.HSVA(g.Hue, max(0, g.Sat-5), min(100, val+2), 255))
	text.Draw(dst, s, r.face, op)
}

func centered(x, y float64) *text.DrawOptions {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	return op
}
