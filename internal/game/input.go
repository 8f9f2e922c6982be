package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type keyBinding struct {
	key  ebiten.Key
	kind CommandKind
}

var keyBindings = []keyBinding{
	{ebiten.KeyEscape, Quit},
	{ebiten.KeyArrowUp, FadeOut},
	{ebiten.KeyArrowDown, FadeIn},
	{ebiten.KeyBracketLeft, Slower},
	{ebiten.KeyBracketRight, Faster},
	{ebiten.KeySpace, Commit},
	{ebiten.KeyEnter, Screenshot},
	{ebiten.KeyBackspace, DeleteLast},
}

// Runes produced by keys that already have a binding.
func reserved(ch rune) bool {
	return ch == ' ' || ch == '[' || ch == ']'
}

// Pointer is the left mouse button and cursor for one frame.
type Pointer struct {
	X, Y        int
	Pressed     bool
	JustPressed bool
}

// InputRouter turns one frame of ebiten input into Commands.
type InputRouter struct {
	chars        []rune
	lastX, lastY int
}

func NewInputRouter() *InputRouter {
	return &InputRouter{}
}

// Poll reads the current ebiten input state. Call it once per Update.
func (r *InputRouter) Poll() []Command {
	r.chars = ebiten.AppendInputChars(r.chars[:0])
	x, y := ebiten.CursorPosition()
	p := Pointer{
		X:           x,
		Y:           y,
		Pressed:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
	}
	return r.route(inpututil.IsKeyJustPressed, r.chars, p)
}

func (r *InputRouter) route(justPressed func(ebiten.Key) bool, chars []rune, p Pointer) []Command {
	var cmds []Command
	for _, b := range keyBindings {
		if justPressed(b.key) {
			cmds = append(cmds, Command{Kind: b.kind})
		}
	}
	for _, ch := range chars {
		if reserved(ch) {
			continue
		}
		cmds = append(cmds, Command{Kind: Type, Char: ch})
	}

	x, y := float64(p.X), float64(p.Y)
	switch {
	case p.JustPressed:
		cmds = append(cmds, Command{Kind: Click, X: x, Y: y})
	case p.Pressed && (p.X != r.lastX || p.Y != r.lastY):
		cmds = append(cmds, Command{Kind: Drag, X: x, Y: y})
	}
	r.lastX, r.lastY = p.X, p.Y
	return cmds
}
