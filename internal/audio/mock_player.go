package audio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MockDevice implements Device for testing purposes.
// It simulates audio playback without actually producing sound.
type MockDevice struct {
	// Test configuration
	OpenErr   error         // returned by Open when set
	PlayErr   error         // returned by every sink's Play when set
	PlayDelay time.Duration // simulated playback time
	// When non-nil, Play blocks until the channel is closed.
	Release chan struct{}

	// Test callbacks
	OnPlay  func(buf *FrameBuffer)
	OnClose func()

	mu     sync.Mutex
	played []*FrameBuffer

	// Metrics for testing
	openCount  atomic.Int64
	closeCount atomic.Int64
}

// NewMockDevice creates a mock device that plays instantly.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// Open records the acquisition and returns a mock sink.
func (d *MockDevice) Open(sampleRate, channels int) (Sink, error) {
	if err := validateConfig(sampleRate, channels); err != nil {
		return nil, err
	}
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	d.openCount.Add(1)
	return &mockSink{device: d}, nil
}

// Opens reports how many sinks were acquired.
func (d *MockDevice) Opens() int64 {
	return d.openCount.Load()
}

// Closes reports how many sinks were released.
func (d *MockDevice) Closes() int64 {
	return d.closeCount.Load()
}

// Played returns the buffers handed to sinks, in order.
func (d *MockDevice) Played() []*FrameBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*FrameBuffer, len(d.played))
	copy(out, d.played)
	return out
}

type mockSink struct {
	device    *MockDevice
	closeOnce sync.Once
	closed    atomic.Bool
}

func (s *mockSink) Play(ctx context.Context, buf *FrameBuffer) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	d := s.device

	d.mu.Lock()
	d.played = append(d.played, buf)
	d.mu.Unlock()

	if d.OnPlay != nil {
		d.OnPlay(buf)
	}
	if d.PlayErr != nil {
		return d.PlayErr
	}

	if d.Release != nil {
		select {
		case <-d.Release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if d.PlayDelay > 0 {
		timer := time.NewTimer(d.PlayDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *mockSink) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.device.closeCount.Add(1)
		if s.device.OnClose != nil {
			s.device.OnClose()
		}
	})
	return nil
}

var (
	_ Device = (*MockDevice)(nil)
	_ Device = (*OtoDevice)(nil)
)
