package glyph

import "math/rand/v2"

// Mode selects which collection is laid out and drawn.
type Mode int

const (
	Vortex Mode = iota
	Line
)

func (m Mode) String() string {
	if m == Line {
		return "line"
	}
	return "vortex"
}

// FallbackChar is inserted when the vortex would otherwise be empty.
const FallbackChar = 'A'

// Params holds the layout tuning of a Field.
type Params struct {
	CenterX, CenterY float64
	BaseRadius       float64
	LineSpacing      float64
	VortexApproach   float64
	LineApproach     float64
}

// Point is a screen position.
type Point struct{ X, Y float64 }

// Field holds the vortex and line glyph collections. Each collection is
// rebuilt from scratch whenever its backing characters change.
type Field struct {
	params Params
	rng    *rand.Rand
	mode   Mode

	vortexChars []rune
	lineChars   []rune

	vortex []*Glyph
	line   []*Glyph
}

// NewField starts in vortex mode with text as the vortex characters.
func NewField(text string, params Params, rng *rand.Rand) *Field {
	f := &Field{
		params:      params,
		rng:         rng,
		vortexChars: []rune(text),
	}
	f.ensureVortex()
	f.rebuildVortex()
	f.rebuildLine()
	return f
}

func (f *Field) Mode() Mode             { return f.mode }
func (f *Field) VortexChars() []rune    { return f.vortexChars }
func (f *Field) LineChars() []rune      { return f.lineChars }
func (f *Field) VortexGlyphs() []*Glyph { return f.vortex }
func (f *Field) LineGlyphs() []*Glyph   { return f.line }

// Active returns the glyphs of the current mode.
func (f *Field) Active() []*Glyph {
	if f.mode == Line {
		return f.line
	}
	return f.vortex
}

// Type appends ch to the line and switches to line mode.
func (f *Field) Type(ch rune) {
	f.lineChars = append(f.lineChars, ch)
	f.rebuildLine()
	f.mode = Line
}

// Commit moves the typed line into the vortex and switches to vortex mode.
func (f *Field) Commit() {
	if len(f.lineChars) > 0 {
		f.vortexChars = append(f.vortexChars, f.lineChars...)
		f.lineChars = f.lineChars[:0]
		f.rebuildVortex()
		f.rebuildLine()
	}
	f.mode = Vortex
}

// DeleteLast removes the last character backing the active mode.
func (f *Field) DeleteLast() {
	if f.mode == Line {
		if n := len(f.lineChars); n > 0 {
			f.lineChars = f.lineChars[:n-1]
			f.rebuildLine()
		}
		return
	}
	if n := len(f.vortexChars); n > 0 {
		f.vortexChars = f.vortexChars[:n-1]
		f.ensureVortex()
		f.rebuildVortex()
	}
}

// Update moves every active glyph toward its target. A frozen field keeps
// its glyphs where they are.
func (f *Field) Update(rotation, radiusScale float64, frozen bool) {
	p := f.params
	if f.mode == Line {
		k := p.LineApproach
		if frozen {
			k = 0
		}
		for i, g := range f.line {
			tx, ty := LineTarget(i, len(f.line), p.LineSpacing, p.CenterX, p.CenterY)
			g.approach(tx, ty, k)
		}
		return
	}

	if len(f.vortex) == 0 {
		f.ensureVortex()
		f.rebuildVortex()
	}
	k := p.VortexApproach
	if frozen {
		k = 0
	}
	for _, g := range f.vortex {
		tx, ty := g.VortexTarget(rotation, p.BaseRadius, radiusScale, p.CenterX, p.CenterY)
		g.approach(tx, ty, k)
	}
}

// Separators returns the midpoints between adjacent line glyphs. It is empty
// outside line mode.
func (f *Field) Separators() []Point {
	if f.mode != Line || len(f.line) < 2 {
		return nil
	}
	out := make([]Point, 0, len(f.line)-1)
	for i := 0; i+1 < len(f.line); i++ {
		a, b := f.line[i], f.line[i+1]
		out = append(out, Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
	}
	return out
}

func (f *Field) ensureVortex() {
	if len(f.vortexChars) == 0 {
		f.vortexChars = append(f.vortexChars, FallbackChar)
	}
}

func (f *Field) rebuildVortex() {
	f.vortex = f.build(f.vortexChars)
}

func (f *Field) rebuildLine() {
	f.line = f.build(f.lineChars)
}

func (f *Field) build(chars []rune) []*Glyph {
	out := make([]*Glyph, len(chars))
	for i, c := range chars {
		out[i] = newGlyph(c, i, len(chars), f.params.CenterX, f.params.CenterY, f.rng)
	}
	return out
}
