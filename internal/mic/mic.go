// Package mic tracks the smoothed loudness of a live input device.
//
// Capture runs on its own goroutine. The only value shared with the frame
// loop is the smoothed level, stored as atomic float bits and written solely
// by the capture callback.
package mic

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// DefaultDevice selects the host's default input device.
const DefaultDevice = -1

type Config struct {
	Device      int
	Sensitivity float64
	Smoothing   float64
	SampleRate  float64
}

// Source reports the smoothed RMS level of the configured input device.
// A Source that failed to open its device reports zero.
type Source struct {
	cfg Config
	log *zap.SugaredLogger

	level atomic.Uint64

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func New(cfg Config, log *zap.SugaredLogger) *Source {
	return &Source{cfg: cfg, log: log}
}

// Start begins capturing. Calling Start on a running Source does nothing.
func (s *Source) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.capture(s.stop)
	s.log.Infow("mic capture started", "device", s.cfg.Device)
}

// Stop signals the capture goroutine and waits for it to release the device.
func (s *Source) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("mic capture stopped")
}

// Volume is the smoothed input level clamped to [0, 1].
func (s *Source) Volume() float64 {
	v := math.Float64frombits(s.level.Load())
	return min(1, max(0, v))
}

// Speaking reports whether the level is above the configured sensitivity.
func (s *Source) Speaking() bool {
	return s.Volume() > s.cfg.Sensitivity
}

func (s *Source) capture(stop <-chan struct{}) {
	defer s.wg.Done()

	if err := portaudio.Initialize(); err != nil {
		s.log.Warnw("mic unavailable", "error", err)
		return
	}
	defer portaudio.Terminate()

	stream, err := s.open()
	if err != nil {
		s.log.Warnw("mic unavailable", "error", err)
		return
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		s.log.Warnw("mic capture failed", "error", err)
		return
	}
	<-stop
	if err := stream.Stop(); err != nil {
		s.log.Debugw("stopping mic stream", "error", err)
	}
}

func (s *Source) open() (*portaudio.Stream, error) {
	dev, err := s.device()
	if err != nil {
		return nil, err
	}
	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	if s.cfg.SampleRate > 0 {
		params.SampleRate = s.cfg.SampleRate
	}
	stream, err := portaudio.OpenStream(params, s.process)
	if err != nil {
		return nil, fmt.Errorf("opening input stream on %q: %w", dev.Name, err)
	}
	return stream, nil
}

func (s *Source) device() (*portaudio.DeviceInfo, error) {
	if s.cfg.Device == DefaultDevice {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return dev, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	if s.cfg.Device < 0 || s.cfg.Device >= len(devices) {
		return nil, fmt.Errorf("input device %d out of range (%d devices)", s.cfg.Device, len(devices))
	}
	dev := devices[s.cfg.Device]
	if dev.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no input channels", s.cfg.Device, dev.Name)
	}
	return dev, nil
}

// process is the capture callback: RMS of the buffer folded into the
// smoothed level.
func (s *Source) process(in []float32) {
	if len(in) == 0 {
		return
	}
	sum := 0.0
	for _, v := range in {
		sum += float64(v) * float64(v)
	}
	rms := math.Sqrt(sum / float64(len(in)))

	prev := math.Float64frombits(s.level.Load())
	next := s.cfg.Smoothing*prev + (1-s.cfg.Smoothing)*rms
	s.level.Store(math.Float64bits(next))
}
