package mic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestSource() *Source {
	return New(Config{Device: DefaultDevice, Sensitivity: 0.03, Smoothing: 0.8}, zap.NewNop().Sugar())
}

func TestProcessSmoothsRMS(t *testing.T) {
	s := newTestSource()
	assert.Zero(t, s.Volume())

	s.process([]float32{0.5, -0.5, 0.5, -0.5})
	assert.InDelta(t, 0.1, s.Volume(), 1e-9)

	s.process([]float32{0.5, -0.5})
	assert.InDelta(t, 0.18, s.Volume(), 1e-9)
	assert.True(t, s.Speaking())
}

func TestProcessIgnoresEmptyBuffer(t *testing.T) {
	s := newTestSource()
	s.process(nil)
	assert.Zero(t, s.Volume())
	assert.False(t, s.Speaking())
}

func TestVolumeIsClamped(t *testing.T) {
	s := New(Config{Smoothing: 0}, zap.NewNop().Sugar())
	s.process([]float32{4, 4})
	assert.Equal(t, 1.0, s.Volume())
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	s := newTestSource()
	s.Stop()
	s.Stop()
	assert.False(t, s.running)
}
