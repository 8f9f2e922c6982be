package ripple

import (
	"math"
	"math/rand/v2"
)

const (
	// Lifetime is how long a ripple stays alive, in milliseconds.
	Lifetime   = 2500.0
	BaseRadius = 40.0

	outlineSegments = 120
	growthFraction  = 0.55
	maxAlpha        = 140.0
	minLayerAlpha   = 20
	layerAlphaStep  = 15
)

// Point is a screen position.
type Point struct{ X, Y float64 }

// Ripple is one expanding ring. Everything but its age is fixed at spawn.
type Ripple struct {
	Emotion
	Kind       Kind
	Birth      float64
	Life       float64
	BaseRadius float64
	Seed       float64
	Center     Point
}

// Age is the time since spawn in milliseconds, never negative.
func (r *Ripple) Age(now float64) float64 {
	return max(0, now-r.Birth)
}

// Alive reports whether the ripple is younger than its lifetime.
func (r *Ripple) Alive(now float64) bool {
	return now-r.Birth < r.Life
}

// Outline computes the jittered ring at time now and its base alpha.
// minDim is the smaller side of the drawing surface. low widens the growth,
// high roughens the edge.
func (r *Ripple) Outline(now, low, high, minDim float64) ([]Point, int) {
	k := min(1, r.Age(now)/r.Life)
	radius := r.BaseRadius + k*growthFraction*minDim*(0.9+0.25*low)
	alpha := int(maxAlpha * math.Pow(1-k, 1.2))
	if alpha <= 0 {
		return nil, 0
	}

	jitter := (4 + 18*high) * r.Amp
	pts := make([]Point, outlineSegments)
	for i := range pts {
		ang := float64(i) / outlineSegments * 2 * math.Pi
		rr := max(1, radius+math.Sin(ang*8+r.Seed)*jitter)
		pts[i] = Point{
			X: r.Center.X + math.Cos(ang)*rr,
			Y: r.Center.Y + math.Sin(ang)*rr,
		}
	}
	return pts, alpha
}

// LayerAlphas returns the alpha of each concentric outline pass.
func (r *Ripple) LayerAlphas(alpha int) []int {
	out := make([]int, r.Thickness)
	for t := range out {
		out[t] = max(minLayerAlpha, alpha-t*layerAlphaStep)
	}
	return out
}

// System owns the live ripples.
type System struct {
	ripples []Ripple
	rng     *rand.Rand
}

func NewSystem(rng *rand.Rand) *System {
	return &System{rng: rng}
}

// Spawn starts a ripple whose emotion comes from ch.
func (s *System) Spawn(ch rune, now float64, at Point) {
	s.SpawnKind(Classify(ch), now, at)
}

// SpawnKind starts a ripple with an explicit emotion class.
func (s *System) SpawnKind(k Kind, now float64, at Point) {
	s.ripples = append(s.ripples, Ripple{
		Emotion:    k.Emotion(),
		Kind:       k,
		Birth:      now,
		Life:       Lifetime,
		BaseRadius: BaseRadius,
		Seed:       s.rng.Float64() * 1000,
		Center:     at,
	})
}

// Cull drops every ripple that has reached its lifetime and reports how many
// were removed.
func (s *System) Cull(now float64) int {
	kept := s.ripples[:0]
	for _, r := range s.ripples {
		if r.Alive(now) {
			kept = append(kept, r)
		}
	}
	removed := len(s.ripples) - len(kept)
	clear(s.ripples[len(kept):])
	s.ripples = kept
	return removed
}

func (s *System) Len() int { return len(s.ripples) }

// Ripples exposes the live set for drawing and inspection.
func (s *System) Ripples() []Ripple { return s.ripples }
