package analysis

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat is returned for WAV data that is not 16-bit PCM.
var ErrUnsupportedFormat = errors.New("unsupported audio format: 16-bit PCM WAV required")

const (
	pcmFormat  = 1
	pcmScale   = 32768.0
	bitDepth16 = 16
)

// Waveform is a mono signal with amplitudes in [-1, 1).
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration is the playing time of the waveform.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// LoadWAV decodes a 16-bit PCM WAV file into a mono waveform. Multi-channel
// input is averaged down to one channel.
func LoadWAV(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Waveform{}, fmt.Errorf("%s: invalid WAV file", path)
	}
	if dec.WavAudioFormat != pcmFormat || dec.BitDepth != bitDepth16 {
		return Waveform{}, fmt.Errorf("%s: format %d, %d-bit: %w", path, dec.WavAudioFormat, dec.BitDepth, ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	return Waveform{
		Samples:    Downmix(buf),
		SampleRate: int(dec.SampleRate),
	}, nil
}

// Downmix averages interleaved channels of buf into normalized mono samples.
func Downmix(buf *audio.IntBuffer) []float64 {
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		out[i] = float64(sum) / float64(channels) / pcmScale
	}
	return out
}
