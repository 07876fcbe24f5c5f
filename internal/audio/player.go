package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/ebitengine/oto/v3"
)

// Device hands out output sinks. A sink is acquired for exactly one
// playback and must be closed afterwards.
type Device interface {
	Open(sampleRate, channels int) (Sink, error)
}

// Sink is an acquired audio output.
type Sink interface {
	// Play blocks until the buffer has been played through, the context is
	// done, or the device reports an error.
	Play(ctx context.Context, buf *FrameBuffer) error

	// Close releases the output. It is safe to call more than once.
	Close() error
}

// PlayerConfig contains configuration for the oto device.
type PlayerConfig struct {
	BufferSize   time.Duration // Device buffer; zero lets oto pick
	PollInterval time.Duration // How often Play checks for completion
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		BufferSize:   0,
		PollInterval: 20 * time.Millisecond,
	}
}

// OtoDevice implements Device on top of oto. oto allows a single context
// per process, so the context is created on first use and every later
// sink must match its format.
type OtoDevice struct {
	config PlayerConfig

	mu         sync.Mutex
	context    *oto.Context
	opened     bool
	sampleRate int
	channels   int
}

// NewOtoDevice creates a device. No audio hardware is touched until the
// first call to Open.
func NewOtoDevice(config PlayerConfig) *OtoDevice {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPlayerConfig().PollInterval
	}
	return &OtoDevice{config: config}
}

// validateConfig validates the requested output format.
func validateConfig(sampleRate, channels int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if channels != 1 && channels != 2 {
		return fmt.Errorf("%w: channels must be 1 (mono) or 2 (stereo), got %d", ErrInvalidChannels, channels)
	}
	return nil
}

// Open acquires a sink for one playback.
func (d *OtoDevice) Open(sampleRate, channels int) (Sink, error) {
	if err := validateConfig(sampleRate, channels); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opened {
		if sampleRate != d.sampleRate || channels != d.channels {
			return nil, fmt.Errorf("%w: device runs at %d Hz/%d ch, got %d Hz/%d ch",
				ErrFormatMismatch, d.sampleRate, d.channels, sampleRate, channels)
		}
		return &otoSink{context: d.context, pollInterval: d.config.PollInterval}, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   d.config.BufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	d.context = ctx
	d.opened = true
	d.sampleRate = sampleRate
	d.channels = channels
	log.Debug("audio device ready", "sample_rate", sampleRate, "channels", channels)

	return &otoSink{context: d.context, pollInterval: d.config.PollInterval}, nil
}

// otoSink plays a single buffer through an oto player.
type otoSink struct {
	context      *oto.Context
	pollInterval time.Duration

	mu     sync.Mutex
	player *oto.Player
	// Keep the interleaved samples alive while oto reads from them.
	data   []byte
	closed bool
}

func (s *otoSink) Play(ctx context.Context, buf *FrameBuffer) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	if buf.Frames() == 0 {
		s.mu.Unlock()
		return nil
	}
	data := buf.Interleaved()
	s.data = data
	s.player = s.context.NewPlayer(bytes.NewReader(data))
	player := s.player
	s.mu.Unlock()

	log.Debug("playing audio",
		"duration", buf.Duration(),
		"size", humanize.Bytes(uint64(len(data))))

	player.Play()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Err()
}

func (s *otoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.player != nil {
		s.player.Pause()
		err = s.player.Close()
		s.player = nil
	}
	s.data = nil
	if err != nil {
		return fmt.Errorf("failed to close oto player: %w", err)
	}
	return nil
}
