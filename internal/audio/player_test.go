package audio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		channels   int
		want       error
	}{
		{"speech default", DefaultSampleRate, DefaultChannels, nil},
		{"stereo", 48000, 2, nil},
		{"zero sample rate", 0, 1, ErrInvalidSampleRate},
		{"surround", 44100, 6, ErrInvalidChannels},
		{"no channels", 44100, 0, ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.sampleRate, tt.channels)
			if !errors.Is(err, tt.want) {
				t.Errorf("validateConfig() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOtoDeviceRejectsFormatChange(t *testing.T) {
	d := NewOtoDevice(DefaultPlayerConfig())
	// Pretend the context already exists at the speech format.
	d.opened = true
	d.sampleRate = DefaultSampleRate
	d.channels = 1

	if _, err := d.Open(44100, 1); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("Open(44100, 1) = %v, want ErrFormatMismatch", err)
	}
	if _, err := d.Open(DefaultSampleRate, 2); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("Open(24000, 2) = %v, want ErrFormatMismatch", err)
	}
}

func TestNewOtoDeviceDefaultsPollInterval(t *testing.T) {
	d := NewOtoDevice(PlayerConfig{})
	if d.config.PollInterval != DefaultPlayerConfig().PollInterval {
		t.Errorf("PollInterval = %v, want %v", d.config.PollInterval, DefaultPlayerConfig().PollInterval)
	}
}

func TestOtoSinkEmptyBufferAndClose(t *testing.T) {
	s := &otoSink{pollInterval: time.Millisecond}
	empty := &FrameBuffer{SampleRate: DefaultSampleRate, Channels: 1, Data: [][]float32{{}}}

	if err := s.Play(context.Background(), empty); err != nil {
		t.Errorf("Play(empty) = %v, want nil", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := s.Play(context.Background(), empty); !errors.Is(err, ErrSinkClosed) {
		t.Errorf("Play after Close = %v, want ErrSinkClosed", err)
	}
}

func TestMockDeviceTracksAcquisitions(t *testing.T) {
	d := NewMockDevice()
	sink, err := d.Open(DefaultSampleRate, 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	buf := &FrameBuffer{SampleRate: DefaultSampleRate, Channels: 1, Data: [][]float32{{0.1, 0.2}}}
	if err := sink.Play(context.Background(), buf); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	_ = sink.Close()
	_ = sink.Close()

	if d.Opens() != 1 {
		t.Errorf("Opens() = %d, want 1", d.Opens())
	}
	if d.Closes() != 1 {
		t.Errorf("Closes() = %d, want 1", d.Closes())
	}
	if played := d.Played(); len(played) != 1 || played[0] != buf {
		t.Errorf("Played() = %v, want [buf]", played)
	}
}

func TestMockDeviceErrorsAndCancellation(t *testing.T) {
	openErr := errors.New("no device")
	d := &MockDevice{OpenErr: openErr}
	if _, err := d.Open(DefaultSampleRate, 1); !errors.Is(err, openErr) {
		t.Errorf("Open() = %v, want %v", err, openErr)
	}
	if d.Opens() != 0 {
		t.Errorf("Opens() = %d, want 0", d.Opens())
	}

	d = &MockDevice{Release: make(chan struct{})}
	sink, err := d.Open(DefaultSampleRate, 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf := &FrameBuffer{SampleRate: DefaultSampleRate, Channels: 1, Data: [][]float32{{0}}}
	if err := sink.Play(ctx, buf); !errors.Is(err, context.Canceled) {
		t.Errorf("Play(canceled) = %v, want context.Canceled", err)
	}
}
