package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/ambient-vortex/internal/config"
	"github.com/iburimskiy/ambient-vortex/internal/glyph"
)

// maxFrameMs caps dt so a stalled window does not jump the animation.
const maxFrameMs = 250.0

var background = color.RGBA{R: 10, G: 12, B: 18, A: 255}

// Game adapts the Engine to ebiten's Update/Draw loop.
type Game struct {
	engine   *Engine
	input    *InputRouter
	renderer *glyph.Renderer
	cfg      config.Config
	log      *zap.SugaredLogger

	last time.Time
	now  func() time.Time
}

func NewGame(engine *Engine, renderer *glyph.Renderer, cfg config.Config, log *zap.SugaredLogger) *Game {
	return &Game{
		engine:   engine,
		input:    NewInputRouter(),
		renderer: renderer,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (g *Game) Update() error {
	dt := g.frameDelta()
	g.engine.Frame(dt, g.input.Poll())
	if g.engine.Quitting() {
		return ebiten.Termination
	}
	return nil
}

// frameDelta is the wall time since the previous Update in ms, clamped to
// [0, maxFrameMs]. The first frame assumes the target rate.
func (g *Game) frameDelta() float64 {
	now := g.now()
	defer func() { g.last = now }()
	if g.last.IsZero() {
		return 1000 / float64(max(1, g.cfg.Window.TPS))
	}
	dt := float64(now.Sub(g.last)) / float64(time.Millisecond)
	return min(maxFrameMs, max(0, dt))
}

func (g *Game) Draw(screen *ebiten.Image) {
	st := g.engine.State()
	lo, hi := st.Energy.Low, st.Energy.High
	faded := !st.Playback.Advancing()

	screen.Fill(background)
	drawAmbient(screen, g.engine.Center(), st.Clock, lo, hi)
	g.renderer.Draw(screen, st.Glyphs, faded)
	st.Ripples.Draw(screen, st.Clock, lo, hi)
	if g.cfg.ShowHUD {
		drawHUD(screen, g.engine)
	}

	if g.engine.TakeScreenshot() {
		path, err := SaveScreenshot(screen, g.cfg.ExportDir, time.Now())
		if err != nil {
			g.log.Errorw("saving screenshot failed", "error", err)
			return
		}
		g.log.Infow("screenshot saved", "path", path)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
