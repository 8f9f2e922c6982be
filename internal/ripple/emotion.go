package ripple

import (
	"strings"
	"unicode"
)

// Kind is the character class that decides a ripple's emotion.
type Kind int

const (
	Other Kind = iota
	Digit
	Vowel
	Punct
)

// Emotion is the look of a ripple: HSV color (saturation and value in
// percent), jitter amplitude and outline thickness.
type Emotion struct {
	Hue       float64
	Sat       float64
	Val       float64
	Amp       float64
	Thickness int
}

var emotions = map[Kind]Emotion{
	Digit: {Hue: 200, Sat: 20, Val: 96, Amp: 0.9, Thickness: 3},
	Vowel: {Hue: 330, Sat: 45, Val: 98, Amp: 0.6, Thickness: 4},
	Punct: {Hue: 260, Sat: 50, Val: 97, Amp: 1.3, Thickness: 2},
	Other: {Hue: 195, Sat: 40, Val: 96, Amp: 0.8, Thickness: 3},
}

// Emotion returns the fixed profile for k.
func (k Kind) Emotion() Emotion { return emotions[k] }

func (k Kind) String() string {
	switch k {
	case Digit:
		return "digit"
	case Vowel:
		return "vowel"
	case Punct:
		return "punct"
	default:
		return "other"
	}
}

const punctuation = ".,!?;:'\"-_/\\()[]{}+=*&%@$#~^|<>"

const vowels = "AEIOUaeiou"

// IsPunct reports whether r is one of the punctuation marks the toy accepts.
func IsPunct(r rune) bool {
	return strings.ContainsRune(punctuation, r)
}

// Classify maps a character to its Kind.
func Classify(r rune) Kind {
	switch {
	case unicode.IsDigit(r):
		return Digit
	case strings.ContainsRune(vowels, r):
		return Vowel
	case IsPunct(r):
		return Punct
	default:
		return Other
	}
}
