// Package playback drives one prayer recitation at a time: it requests
// speech, decodes it and plays it on the audio device.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/audio"
)

// Synthesizer turns text into base64 encoded 16-bit PCM. An empty result
// with a nil error means there is nothing to play.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string, voice assistant.Voice) (string, error)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// DecodeFunc converts synthesized audio into frames.
type DecodeFunc func(encoded string, sampleRate, channels int) (*audio.FrameBuffer, error)

// Request is one thing to read aloud.
type Request struct {
	Text  string
	Voice assistant.Voice
}

// Config holds the audio format expected from the synthesizer.
type Config struct {
	SampleRate int
	Channels   int
}

// DefaultConfig matches the speech service output.
func DefaultConfig() Config {
	return Config{
		SampleRate: audio.DefaultSampleRate,
		Channels:   audio.DefaultChannels,
	}
}

// Controller runs at most one synthesis, decode and play cycle at a time.
// A Play call made while a cycle is in flight does nothing.
type Controller struct {
	synth    Synthesizer
	device   audio.Device
	notifier Notifier
	decode   DecodeFunc
	config   Config

	machine       *StateMachine
	mu            sync.Mutex
	onStateChange func(State)
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where failure messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithDecoder replaces audio.Decode.
func WithDecoder(fn DecodeFunc) Option {
	return func(c *Controller) { c.decode = fn }
}

// WithConfig sets the expected audio format.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		if cfg.SampleRate > 0 {
			c.config.SampleRate = cfg.SampleRate
		}
		if cfg.Channels > 0 {
			c.config.Channels = cfg.Channels
		}
	}
}

// NewController creates a controller in StateIdle.
func NewController(synth Synthesizer, device audio.Device, opts ...Option) *Controller {
	c := &Controller{
		synth:   synth,
		device:  device,
		decode:  audio.Decode,
		config:  DefaultConfig(),
		machine: NewStateMachine(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.setupStateMachine()
	return c
}

func (c *Controller) setupStateMachine() {
	var started time.Time
	c.machine.OnEnter(StateRequesting, func() {
		started = time.Now()
	})
	c.machine.OnExit(StatePlaying, func() {
		log.Debug("playback finished", "took", time.Since(started))
	})
	c.machine.OnEnter(StateError, func() {
		log.Debug("playback entered error state", "after", time.Since(started))
	})
}

// OnStateChange registers a callback invoked after every transition. It is
// called from the goroutine running Play.
func (c *Controller) OnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Busy reports whether a cycle is in flight.
func (c *Controller) Busy() bool {
	return c.State().Busy()
}

func (c *Controller) transition(to State) bool {
	c.mu.Lock()
	ok := c.machine.Transition(to)
	fn := c.onStateChange
	c.mu.Unlock()

	if ok && fn != nil {
		fn(to)
	}
	return ok
}

// Play reads req aloud and blocks until playback ends. It returns nil
// without doing anything when a cycle is already in flight, and nil when
// the synthesizer produced no audio. On failure the user is notified once,
// the controller returns to StateIdle and the error is returned.
func (c *Controller) Play(ctx context.Context, req Request) error {
	if !c.transition(StateRequesting) {
		log.Debug("playback already in progress, ignoring request", "state", c.State())
		return nil
	}
	if c.synth == nil {
		return c.fail(StateRequesting, ErrNoSynthesizer)
	}

	encoded, err := c.synth.SynthesizeSpeech(ctx, req.Text, req.Voice)
	if err != nil {
		return c.fail(StateRequesting, err)
	}
	if encoded == "" {
		log.Debug("nothing to play")
		c.transition(StateIdle)
		return nil
	}

	c.transition(StateDecoding)
	buf, err := c.decode(encoded, c.config.SampleRate, c.config.Channels)
	if err != nil {
		return c.fail(StateDecoding, err)
	}

	c.transition(StatePlaying)
	if err := c.play(ctx, buf); err != nil {
		return c.fail(StatePlaying, err)
	}
	c.transition(StateIdle)
	return nil
}

// play holds the output sink for exactly one buffer.
func (c *Controller) play(ctx context.Context, buf *audio.FrameBuffer) error {
	if c.device == nil {
		return ErrNoDevice
	}
	sink, err := c.device.Open(buf.SampleRate, buf.Channels)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn("unable to release audio output", "error", err)
		}
	}()

	log.Debug("playing", "frames", buf.Frames(), "duration", buf.Duration())
	return sink.Play(ctx, buf)
}

func (c *Controller) fail(stage State, err error) error {
	perr := &PlaybackError{Stage: stage, Err: err}
	log.Error("Playback error", "error", perr)

	c.transition(StateError)
	if c.notifier != nil {
		c.notifier.Notify(FailureMessage)
	}
	c.transition(StateIdle)
	return perr
}
