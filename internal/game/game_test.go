package game

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/ambient-vortex/internal/config"
	"github.com/iburimskiy/ambient-vortex/internal/ripple"
)

func keys(pressed ...ebiten.Key) func(ebiten.Key) bool {
	set := map[ebiten.Key]bool{}
	for _, k := range pressed {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func kinds(cmds []Command) []CommandKind {
	out := make([]CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestRouteKeyBindings(t *testing.T) {
	r := NewInputRouter()
	cmds := r.route(keys(ebiten.KeyEscape, ebiten.KeyBracketRight, ebiten.KeyEnter), nil, Pointer{})
	assert.Equal(t, []CommandKind{Quit, Faster, Screenshot}, kinds(cmds))
}

func TestRouteTypedCharsSkipBoundKeys(t *testing.T) {
	r := NewInputRouter()
	cmds := r.route(keys(ebiten.KeySpace), []rune{'a', ' ', '[', ']', '!'}, Pointer{})
	require.Len(t, cmds, 3)
	assert.Equal(t, Command{Kind: Commit}, cmds[0])
	assert.Equal(t, Command{Kind: Type, Char: 'a'}, cmds[1])
	assert.Equal(t, Command{Kind: Type, Char: '!'}, cmds[2])
}

func TestRouteClickThenDrag(t *testing.T) {
	r := NewInputRouter()
	none := keys()

	cmds := r.route(none, nil, Pointer{X: 10, Y: 20, Pressed: true, JustPressed: true})
	assert.Equal(t, []Command{{Kind: Click, X: 10, Y: 20}}, cmds)

	assert.Empty(t, r.route(none, nil, Pointer{X: 10, Y: 20, Pressed: true}))

	cmds = r.route(none, nil, Pointer{X: 15, Y: 20, Pressed: true})
	assert.Equal(t, []Command{{Kind: Drag, X: 15, Y: 20}}, cmds)

	assert.Empty(t, r.route(none, nil, Pointer{X: 30, Y: 40}))
}

func TestFrameDeltaClamps(t *testing.T) {
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	now := base
	g := &Game{cfg: config.Default(), now: func() time.Time { return now }}

	assert.InDelta(t, 1000.0/60, g.frameDelta(), 1e-9)

	now = now.Add(20 * time.Millisecond)
	assert.InDelta(t, 20, g.frameDelta(), 1e-9)

	now = now.Add(3 * time.Second)
	assert.Equal(t, maxFrameMs, g.frameDelta())

	now = now.Add(-time.Second)
	assert.Zero(t, g.frameDelta())
}

func TestSaveScreenshotNamesFileByTime(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	path, err := SaveScreenshot(img, dir, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shot_20240102_030405.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 3, cfg.Height)
}

func TestSaveScreenshotFailsOnFileAsDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := SaveScreenshot(image.NewRGBA(image.Rect(0, 0, 1, 1)), blocker, time.Now())
	assert.Error(t, err)
}

func TestBreathRingRadius(t *testing.T) {
	c := ripple.Point{X: 100, Y: 100}
	for i, l := range breathLayers {
		pts := breathRing(i, c, 0, 0.5, 0)
		require.Len(t, pts, breathSegments)
		want := (120 + 90*0.5) * l.scale
		for _, p := range pts {
			d := math.Hypot(p.X-c.X, p.Y-c.Y)
			assert.InDelta(t, want, d, 3+1e-9)
		}
	}
}

func TestStatusLine(t *testing.T) {
	e, _ := newTestEngine(t, config.Default(), nil)
	line := statusLine(e.State(), 83*time.Second, 225*time.Second, 0.012)
	assert.Equal(t, "fading_in 01:23 / 03:45 | speed x1.00 | mic 0.012 | vortex | ripples 0", line)
}
