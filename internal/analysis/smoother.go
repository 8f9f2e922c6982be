package analysis

// DefaultSmoothing is the exponential smoothing factor applied per frame.
const DefaultSmoothing = 0.86

// Smoother follows a BandSeries through playback and keeps exponentially
// smoothed band energies.
type Smoother struct {
	Alpha float64

	Low  float64
	Mid  float64
	High float64

	series *BandSeries
}

func NewSmoother(series *BandSeries, alpha float64) *Smoother {
	return &Smoother{Alpha: alpha, series: series}
}

// Update samples the series at posMs and folds it into the smoothed values.
func (s *Smoother) Update(posMs float64) (lo, mi, hi float64) {
	rlo, rmi, rhi := s.series.At(posMs)
	s.Low = smooth(s.Low, rlo, s.Alpha)
	s.Mid = smooth(s.Mid, rmi, s.Alpha)
	s.High = smooth(s.High, rhi, s.Alpha)
	return s.Low, s.Mid, s.High
}

func smooth(prev, next, alpha float64) float64 {
	return prev*alpha + next*(1-alpha)
}
