package audio

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// SpeakerOutput plays a WAV file through the default device.
//
// The chain is decoder -> positionTap -> Gain -> Ctrl. Every mutation of the
// chain happens under speaker.Lock.
type SpeakerOutput struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	tap      *positionTap
	gain     *effects.Gain
	ctrl     *beep.Ctrl
	done     atomic.Bool
}

// OpenSpeaker decodes path, initializes the speaker at the file's sample rate
// and starts playback at zero gain.
func OpenSpeaker(path string) (*SpeakerOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
		_ = streamer.Close()
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	tap := newPositionTap(streamer)
	gain := &effects.Gain{Streamer: tap, Gain: -1}
	ctrl := &beep.Ctrl{Streamer: gain, Paused: false}

	o := &SpeakerOutput{
		streamer: streamer,
		format:   format,
		tap:      tap,
		gain:     gain,
		ctrl:     ctrl,
	}
	o.play()
	return o, nil
}

func (o *SpeakerOutput) play() {
	o.done.Store(false)
	speaker.Play(beep.Seq(o.ctrl, beep.Callback(func() {
		o.done.Store(true)
	})))
}

// SampleRate is the device sample rate in Hz.
func (o *SpeakerOutput) SampleRate() int { return int(o.format.SampleRate) }

func (o *SpeakerOutput) Position() time.Duration {
	return o.format.SampleRate.D(o.tap.samples())
}

func (o *SpeakerOutput) Duration() time.Duration {
	return o.format.SampleRate.D(o.streamer.Len())
}

// SetVolume sets a linear gain in [0, 1].
func (o *SpeakerOutput) SetVolume(v float64) {
	speaker.Lock()
	o.gain.Gain = v - 1
	speaker.Unlock()
}

func (o *SpeakerOutput) SetPaused(paused bool) {
	speaker.Lock()
	o.ctrl.Paused = paused
	speaker.Unlock()
}

// Restart rewinds to the beginning and, if the track already drained,
// hands it back to the speaker.
func (o *SpeakerOutput) Restart() error {
	speaker.Lock()
	err := o.streamer.Seek(0)
	if err == nil {
		o.tap.reset()
		o.ctrl.Paused = false
	}
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("rewinding track: %w", err)
	}
	if o.done.Load() {
		o.play()
	}
	return nil
}

// Close stops playback and releases the decoder, which also closes the file.
func (o *SpeakerOutput) Close() error {
	// Clear takes the speaker lock itself.
	speaker.Clear()
	return o.streamer.Close()
}
