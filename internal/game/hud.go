package game

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/ambient-vortex/internal/palette"
)

func statusLine(st *State, pos, dur time.Duration, mic float64) string {
	return fmt.Sprintf("%s %s / %s | speed x%.2f | mic %.3f | %s | ripples %d",
		st.Playback.State(),
		palette.FormatDuration(pos),
		palette.FormatDuration(dur),
		st.SpeedScale,
		mic,
		st.Glyphs.Mode(),
		st.Ripples.Len(),
	)
}

func drawHUD(dst *ebiten.Image, e *Engine) {
	st := e.State()
	line := statusLine(st, st.Playback.Position(), st.Playback.Duration(), e.mic.Volume())
	ebitenutil.DebugPrintAt(dst, line, 12, 12)
	ebitenutil.DebugPrintAt(dst, "Up/Down fade | [ ] speed | type, Space commit | Enter shot | Esc quit", 12, 28)
}
