package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/ambient-vortex/internal/analysis"
	"github.com/iburimskiy/ambient-vortex/internal/audio"
	"github.com/iburimskiy/ambient-vortex/internal/config"
	"github.com/iburimskiy/ambient-vortex/internal/glyph"
	"github.com/iburimskiy/ambient-vortex/internal/logging"
	"github.com/iburimskiy/ambient-vortex/internal/ripple"
)

const frameMs = 1000.0 / 60

type fakeOutput struct {
	pos        time.Duration
	dur        time.Duration
	paused     bool
	restartErr error
}

func (f *fakeOutput) Position() time.Duration { return f.pos }
func (f *fakeOutput) Duration() time.Duration { return f.dur }
func (f *fakeOutput) SetVolume(float64)       {}
func (f *fakeOutput) SetPaused(p bool)        { f.paused = p }
func (f *fakeOutput) Restart() error          { return f.restartErr }

type fixedMic float64

func (m fixedMic) Volume() float64 { return float64(m) }

func flatSeries(v float64) *analysis.BandSeries {
	return &analysis.BandSeries{
		Low:             []float64{v, v},
		Mid:             []float64{v, v},
		High:            []float64{v, v},
		FrameDurationMs: 1000.0 * analysis.HopSize / 44100,
	}
}

func newTestEngine(t *testing.T, cfg config.Config, mic Energy) (*Engine, *fakeOutput) {
	t.Helper()
	out := &fakeOutput{dur: time.Minute}
	rng := rand.New(rand.NewPCG(1, 2))
	return NewEngine(cfg, flatSeries(0), out, mic, rng, logging.Nop()), out
}

func TestSpeedScaleClamps(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	st := e.State()

	for i := 0; i < 5; i++ {
		e.Dispatch(Command{Kind: Faster})
	}
	assert.InDelta(t, math.Pow(1.15, 5), st.SpeedScale, 1e-9)

	for i := 0; i < 10; i++ {
		e.Dispatch(Command{Kind: Faster})
	}
	assert.Equal(t, 3.0, st.SpeedScale)

	for i := 0; i < 40; i++ {
		e.Dispatch(Command{Kind: Slower})
	}
	assert.Equal(t, 0.1, st.SpeedScale)
}

func TestTypingSpawnsRipplesAtCenter(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	st := e.State()

	for _, r := range "Hi!" {
		e.Dispatch(Command{Kind: Type, Char: r})
	}

	assert.Equal(t, glyph.Line, st.Glyphs.Mode())
	assert.Equal(t, []rune("Hi!"), st.Glyphs.LineChars())
	require.Equal(t, 3, st.Ripples.Len())
	kinds := []ripple.Kind{ripple.Other, ripple.Vowel, ripple.Punct}
	for i, r := range st.Ripples.Ripples() {
		assert.Equal(t, kinds[i], r.Kind)
		assert.Equal(t, ripple.Point{X: 640, Y: 360}, r.Center)
	}
}

func TestDisallowedCharIsIgnored(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	st := e.State()

	for _, r := range []rune{'§', '\t', ' ', '€'} {
		e.Dispatch(Command{Kind: Type, Char: r})
	}
	assert.Equal(t, glyph.Vortex, st.Glyphs.Mode())
	assert.Empty(t, st.Glyphs.LineChars())
	assert.Zero(t, st.Ripples.Len())
}

func TestCommitAppendsLineToVortex(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	st := e.State()

	e.Dispatch(Command{Kind: Type, Char: 'a'})
	e.Dispatch(Command{Kind: Type, Char: 'b'})
	e.Dispatch(Command{Kind: Commit})

	assert.Equal(t, glyph.Vortex, st.Glyphs.Mode())
	assert.Equal(t, []rune("SLOWHEATab"), st.Glyphs.VortexChars())
	assert.Empty(t, st.Glyphs.LineChars())

	e.Dispatch(Command{Kind: DeleteLast})
	assert.Equal(t, []rune("SLOWHEATa"), st.Glyphs.VortexChars())
}

func TestMicSpawnsAtMostOncePerCooldown(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), fixedMic(0.05))
	st := e.State()

	// Stay below the ripple lifetime so nothing is culled.
	for st.Clock < 2400 {
		e.Frame(frameMs, nil)
	}

	rs := st.Ripples.Ripples()
	require.GreaterOrEqual(t, len(rs), 5)
	for i := 1; i < len(rs); i++ {
		gap := rs[i].Birth - rs[i-1].Birth
		assert.GreaterOrEqual(t, gap, 400-1e-6)
		assert.LessOrEqual(t, gap, 400+frameMs+1e-6)
		assert.Equal(t, ripple.Other, rs[i].Kind)
	}
}

func TestMicBelowThresholdOrDisabledDoesNotSpawn(t *testing.T) {
	quiet, _ := newTestEngine(t, config.Default(), fixedMic(0.03))
	cfg := config.Default()
	cfg.Mic.Enabled = false
	off, _ := newTestEngine(t, cfg, fixedMic(1))

	for i := 0; i < 60; i++ {
		quiet.Frame(frameMs, nil)
		off.Frame(frameMs, nil)
	}
	assert.Zero(t, quiet.State().Ripples.Len())
	assert.Zero(t, off.State().Ripples.Len())
}

func TestDragIsThrottled(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	drag := []Command{{Kind: Drag, X: 5, Y: 6}}

	for i := 0; i < 10; i++ {
		e.Frame(10, drag)
	}
	assert.Equal(t, 2, e.State().Ripples.Len())

	e.Frame(10, drag)
	assert.Equal(t, 3, e.State().Ripples.Len())
}

func TestClickSpawnsAtCursor(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	e.Dispatch(Command{Kind: Click, X: 12, Y: 34})
	e.Dispatch(Command{Kind: Click, X: 12, Y: 34})

	rs := e.State().Ripples.Ripples()
	require.Len(t, rs, 2)
	assert.Equal(t, ripple.Point{X: 12, Y: 34}, rs[0].Center)
	assert.Equal(t, ripple.Other, rs[0].Kind)
}

func TestRippleCulledAfterLifetime(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	e.Frame(frameMs, []Command{{Kind: Click}})
	require.Equal(t, 1, e.State().Ripples.Len())

	for e.State().Clock < frameMs+ripple.Lifetime+1 {
		e.Frame(frameMs, nil)
	}
	assert.Zero(t, e.State().Ripples.Len())
}

func TestRotationFreezesWhilePaused(t *testing.T) {
	cfg := config.Default()
	cfg.Playback.FadeStep = 0.5
	e, out := newTestEngine(t, cfg, nil)
	st := e.State()

	e.Frame(frameMs, nil)
	assert.False(t, st.Frozen)
	assert.InDelta(t, cfg.Vortex.RotationBase*frameMs, st.Rotation, 1e-12)

	e.Frame(frameMs, []Command{{Kind: FadeOut}})
	require.Equal(t, audio.Paused, st.Playback.State())
	assert.True(t, out.paused)
	frozenAt := st.Rotation

	for i := 0; i < 30; i++ {
		e.Frame(frameMs, nil)
	}
	assert.True(t, st.Frozen)
	assert.Equal(t, frozenAt, st.Rotation)

	e.Frame(frameMs, []Command{{Kind: FadeIn}})
	assert.False(t, out.paused)
	assert.Greater(t, st.Rotation, frozenAt)
}

func TestLineModeSlowsRotation(t *testing.T) {
	cfg := config.Default()
	vortex, _ := newTestEngine(t, cfg, nil)
	line, _ := newTestEngine(t, cfg, nil)

	vortex.Frame(frameMs, nil)
	line.Frame(frameMs, []Command{{Kind: Type, Char: 'x'}})

	assert.InDelta(t, vortex.State().Rotation*cfg.Vortex.LineSlowFactor, line.State().Rotation, 1e-12)
}

func TestRadiusScaleFollowsLowBand(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	e.Frame(frameMs, nil)
	assert.InDelta(t, -0.4*0.06, e.State().RadiusScale, 1e-12)
}

func TestFailedRestartKeepsEnded(t *testing.T) {
	e, out := newTestEngine(t, config.Default(), nil)
	out.pos = out.dur
	e.Frame(frameMs, nil)
	require.Equal(t, audio.Ended, e.State().Playback.State())

	out.restartErr = errors.New("device gone")
	e.Frame(frameMs, []Command{{Kind: FadeIn}})
	assert.Equal(t, audio.Ended, e.State().Playback.State())
	assert.True(t, e.State().Frozen)
}

func TestQuitAndScreenshotFlags(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	assert.False(t, e.Quitting())
	assert.False(t, e.TakeScreenshot())

	e.Dispatch(Command{Kind: Screenshot})
	assert.True(t, e.TakeScreenshot())
	assert.False(t, e.TakeScreenshot())

	e.Dispatch(Command{Kind: Quit})
	assert.True(t, e.Quitting())
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "delete_last", DeleteLast.String())
	assert.Equal(t, "command(99)", CommandKind(99).String())
}
