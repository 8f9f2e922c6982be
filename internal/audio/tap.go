package audio

import (
	"sync/atomic"

	"github.com/faiface/beep"
)

// positionTap wraps a beep.Streamer and counts the samples that have been
// pulled through it, so the frame loop can read the playback position
// without taking the speaker lock.
type positionTap struct {
	Source beep.Streamer
	played atomic.Int64
}

func newPositionTap(src beep.Streamer) *positionTap {
	return &positionTap{Source: src}
}

func (t *positionTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.played.Add(int64(n))
	}
	return n, ok
}

func (t *positionTap) Err() error { return t.Source.Err() }

// samples returns how many samples have been streamed so far.
func (t *positionTap) samples() int { return int(t.played.Load()) }

func (t *positionTap) reset() { t.played.Store(0) }
