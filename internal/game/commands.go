package game

import (
	"fmt"
	"unicode"

	"github.com/iburimskiy/ambient-vortex/internal/ripple"
)

// CommandKind is one user intent, already decoupled from raw input.
type CommandKind int

const (
	Quit CommandKind = iota
	FadeOut
	FadeIn
	Slower
	Faster
	Commit
	DeleteLast
	Type
	Click
	Drag
	Screenshot
)

var commandNames = [...]string{
	Quit:       "quit",
	FadeOut:    "fade_out",
	FadeIn:     "fade_in",
	Slower:     "slower",
	Faster:     "faster",
	Commit:     "commit",
	DeleteLast: "delete_last",
	Type:       "type",
	Click:      "click",
	Drag:       "drag",
	Screenshot: "screenshot",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return fmt.Sprintf("command(%d)", int(k))
	}
	return commandNames[k]
}

// Command carries a kind plus the payload some kinds need: Char for Type,
// X and Y for Click and Drag.
type Command struct {
	Kind CommandKind
	Char rune
	X, Y float64
}

// allowedChar reports whether ch may be typed into the line.
func allowedChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ripple.IsPunct(ch)
}
