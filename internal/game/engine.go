package game

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/ambient-vortex/internal/analysis"
	"github.com/iburimskiy/ambient-vortex/internal/audio"
	"github.com/iburimskiy/ambient-vortex/internal/config"
	"github.com/iburimskiy/ambient-vortex/internal/glyph"
	"github.com/iburimskiy/ambient-vortex/internal/ripple"
)

// Energy is a live loudness reading in [0, 1].
type Energy interface {
	Volume() float64
}

type silence struct{}

func (silence) Volume() float64 { return 0 }

// State is everything the frame loop mutates. It is owned by the Engine and
// only touched from the frame goroutine.
type State struct {
	Clock       float64
	Rotation    float64
	SpeedScale  float64
	RadiusScale float64
	Frozen      bool

	Energy   *analysis.Smoother
	Playback *audio.Controller
	Ripples  *ripple.System
	Glyphs   *glyph.Field

	dragCooldown float64
	micCooldown  float64
	shotPending  bool
	quit         bool
}

// Engine applies commands and advances the animation one frame at a time.
type Engine struct {
	cfg    config.Config
	log    *zap.SugaredLogger
	mic    Energy
	center ripple.Point
	st     State
	last   audio.State
}

// NewEngine wires the per-frame state. mic may be nil when capture is off.
func NewEngine(cfg config.Config, series *analysis.BandSeries, out audio.Output, mic Energy, rng *rand.Rand, log *zap.SugaredLogger) *Engine {
	if mic == nil {
		mic = silence{}
	}
	center := ripple.Point{X: float64(cfg.Window.Width / 2), Y: float64(cfg.Window.Height / 2)}
	v := cfg.Vortex
	e := &Engine{
		cfg:    cfg,
		log:    log,
		mic:    mic,
		center: center,
		st: State{
			SpeedScale: 1,
			Energy:     analysis.NewSmoother(series, cfg.Playback.Smoothing),
			Playback:   audio.NewController(out, cfg.Playback.FadeStep),
			Ripples:    ripple.NewSystem(rng),
			Glyphs: glyph.NewField(v.DefaultText, glyph.Params{
				CenterX:        center.X,
				CenterY:        center.Y,
				BaseRadius:     v.BaseRadius,
				LineSpacing:    v.LineSpacing,
				VortexApproach: v.VortexApproach,
				LineApproach:   v.LineApproach,
			}, rng),
		},
	}
	e.last = e.st.Playback.State()
	return e
}

func (e *Engine) State() *State        { return &e.st }
func (e *Engine) Center() ripple.Point { return e.center }
func (e *Engine) Quitting() bool       { return e.st.quit }

// TakeScreenshot reports and clears a pending screenshot request.
func (e *Engine) TakeScreenshot() bool {
	p := e.st.shotPending
	e.st.shotPending = false
	return p
}

// Frame runs one tick: cooldowns and clock first, then the frame's
// commands, then the simulation step.
func (e *Engine) Frame(dt float64, cmds []Command) {
	e.Tick(dt)
	for _, c := range cmds {
		e.Dispatch(c)
	}
	e.Step(dt)
}

// Tick advances the engine clock and drains the spawn cooldowns.
func (e *Engine) Tick(dt float64) {
	st := &e.st
	st.Clock += dt
	st.dragCooldown = max(0, st.dragCooldown-dt)
	st.micCooldown = max(0, st.micCooldown-dt)
}

// Dispatch applies a single command.
func (e *Engine) Dispatch(c Command) {
	st := &e.st
	in := e.cfg.Input
	switch c.Kind {
	case Quit:
		st.quit = true
	case FadeOut:
		st.Playback.FadeOut()
	case FadeIn:
		if err := st.Playback.FadeIn(); err != nil {
			e.log.Warnw("restarting track failed", "error", err)
		}
	case Slower:
		st.SpeedScale = max(in.SpeedMin, st.SpeedScale*in.SpeedDown)
	case Faster:
		st.SpeedScale = min(in.SpeedMax, st.SpeedScale*in.SpeedUp)
	case Commit:
		st.Glyphs.Commit()
	case DeleteLast:
		st.Glyphs.DeleteLast()
	case Type:
		if !allowedChar(c.Char) {
			return
		}
		st.Glyphs.Type(c.Char)
		st.Ripples.Spawn(c.Char, st.Clock, e.center)
	case Click:
		st.Ripples.SpawnKind(ripple.Other, st.Clock, ripple.Point{X: c.X, Y: c.Y})
	case Drag:
		if st.dragCooldown > 0 {
			return
		}
		st.Ripples.SpawnKind(ripple.Other, st.Clock, ripple.Point{X: c.X, Y: c.Y})
		st.dragCooldown = in.DragCooldownMs
	case Screenshot:
		st.shotPending = true
	default:
		e.log.Debugw("ignoring command", "command", c.Kind)
	}
}

// Step advances playback, band energy, rotation, ripples and glyphs by one
// frame of dt milliseconds.
func (e *Engine) Step(dt float64) {
	st := &e.st
	v := e.cfg.Vortex

	st.Playback.Update()
	if s := st.Playback.State(); s != e.last {
		e.log.Debugw("playback state changed", "from", e.last, "to", s)
		e.last = s
	}

	pos := float64(st.Playback.Position()) / float64(time.Millisecond)
	lo, mi, _ := st.Energy.Update(pos)

	st.Frozen = !st.Playback.Advancing()
	if !st.Frozen {
		speed := v.RotationBase + mi*v.RotationMusic
		if st.Glyphs.Mode() == glyph.Line {
			speed *= v.LineSlowFactor
		}
		st.Rotation += speed * st.SpeedScale * dt
	}
	st.RadiusScale = (lo - 0.4) * v.RadiusVariation

	if e.cfg.Mic.Enabled && st.micCooldown == 0 && e.mic.Volume() > e.cfg.Mic.Threshold {
		st.Ripples.SpawnKind(ripple.Other, st.Clock, e.center)
		st.micCooldown = e.cfg.Mic.CooldownMs
	}

	st.Ripples.Cull(st.Clock)
	st.Glyphs.Update(st.Rotation, st.RadiusScale, st.Frozen)
}
