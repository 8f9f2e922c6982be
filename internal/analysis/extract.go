package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	WindowSize = 2048
	HopSize    = WindowSize / 2

	LowCutoffHz  = 200.0
	HighCutoffHz = 2000.0

	normPercentile = 95.0
	normEpsilon    = 1e-9
)

// BandSeries holds per-hop normalized energy for the low, mid and high bands.
type BandSeries struct {
	Low  []float64
	Mid  []float64
	High []float64

	// FrameDurationMs is the playback time covered by one hop.
	FrameDurationMs float64
}

// Len is the number of analysis hops.
func (s *BandSeries) Len() int { return len(s.Low) }

// Index maps a playback position to a hop index, clamped to the series.
func (s *BandSeries) Index(posMs float64) int {
	n := s.Len()
	if n == 0 || s.FrameDurationMs <= 0 || !(posMs > 0) {
		return 0
	}
	idx := math.Floor(posMs / s.FrameDurationMs)
	if idx >= float64(n-1) {
		return n - 1
	}
	return int(idx)
}

// At returns the raw band energies for a playback position.
func (s *BandSeries) At(posMs float64) (lo, mi, hi float64) {
	if s.Len() == 0 {
		return 0, 0, 0
	}
	i := s.Index(posMs)
	return s.Low[i], s.Mid[i], s.High[i]
}

// Extract computes the normalized three-band energy series of w using a
// 2048-point Hann-windowed FFT every 1024 samples.
func Extract(w Waveform) (*BandSeries, error) {
	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", w.SampleRate)
	}

	samples := padSamples(w.Samples)
	numFrames := 1 + (len(samples)-WindowSize)/HopSize

	hann := window.Hann(ones(WindowSize))
	fft := fourier.NewFFT(WindowSize)

	lowBins, midBins, highBins := bandBins(fft, float64(w.SampleRate))

	low := make([]float64, numFrames)
	mid := make([]float64, numFrames)
	high := make([]float64, numFrames)

	frame := make([]float64, WindowSize)
	coeffs := make([]complex128, WindowSize/2+1)
	mags := make([]float64, len(coeffs))
	for f := 0; f < numFrames; f++ {
		start := f * HopSize
		copy(frame, samples[start:start+WindowSize])
		floats.Mul(frame, hann)

		coeffs = fft.Coefficients(coeffs, frame)
		for i, c := range coeffs {
			mags[i] = cmplx.Abs(c)
		}

		low[f] = meanOver(mags, lowBins)
		mid[f] = meanOver(mags, midBins)
		high[f] = meanOver(mags, highBins)
	}

	return &BandSeries{
		Low:             Normalize(low),
		Mid:             Normalize(mid),
		High:            Normalize(high),
		FrameDurationMs: 1000.0 * HopSize / float64(w.SampleRate),
	}, nil
}

// Normalize scales series by its 95th percentile and clamps to [0, 1].
func Normalize(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	copy(out, series)

	p := Percentile(series, normPercentile)
	floats.Scale(1/(p+normEpsilon), out)
	for i, v := range out {
		out[i] = clamp01(v)
	}
	return out
}

// Percentile returns the p-th percentile of values, interpolating linearly
// between the closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// padSamples zero-pads to at least one window plus one hop, then up to a
// whole number of hops.
func padSamples(in []float64) []float64 {
	n := len(in)
	if n < WindowSize+HopSize {
		n = WindowSize + HopSize
	}
	if rem := n % HopSize; rem != 0 {
		n += HopSize - rem
	}
	out := make([]float64, n)
	copy(out, in)
	return out
}

// bandBins splits the FFT bins into the low, mid and high ranges.
func bandBins(fft *fourier.FFT, sampleRate float64) (low, mid, high []int) {
	for i := 0; i <= WindowSize/2; i++ {
		hz := fft.Freq(i) * sampleRate
		switch {
		case hz < LowCutoffHz:
			low = append(low, i)
		case hz < HighCutoffHz:
			mid = append(mid, i)
		default:
			high = append(high, i)
		}
	}
	return low, mid, high
}

func meanOver(mags []float64, bins []int) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bins {
		sum += mags[b]
	}
	return sum / float64(len(bins))
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
