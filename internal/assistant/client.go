// Package assistant talks to the generative AI service: it reads prayers
// aloud and answers questions about prayers and daily etiquette.
package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/cache"
	"github.com/dustin/go-humanize"
)

const (
	// DefaultSpeechModel is the text-to-speech model.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	// DefaultChatModel answers questions.
	DefaultChatModel = "gemini-3-flash-preview"

	// SystemInstruction fixes the assistant's persona, tone and language.
	SystemInstruction = "Anda adalah asisten islami yang ahli dalam doa-doa harian dan adab. " +
		"Jawablah dengan lembut, sopan, dan berikan referensi jika memungkinkan. " +
		"Gunakan Bahasa Indonesia."

	// FallbackMessage replaces the answer when the service fails.
	FallbackMessage = "Maaf, saya sedang mengalami kendala teknis. Silakan coba lagi nanti."

	speechPrompt = "Read this prayer beautifully and clearly: "
)

// Provider is a generative AI backend.
type Provider interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Speak synthesizes prompt and returns the first raw audio payload,
	// or nil when the response carries none.
	Speak(ctx context.Context, model, prompt string, voice Voice) ([]byte, error)

	// Answer returns the reply to query under the given system instruction.
	Answer(ctx context.Context, model, system, query string) (string, error)
}

// SpeechCache memoizes encoded speech.
type SpeechCache interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// Config holds the models and persona used for requests.
type Config struct {
	SpeechModel       string
	ChatModel         string
	SystemInstruction string
}

// DefaultConfig returns the stock models and persona.
func DefaultConfig() Config {
	return Config{
		SpeechModel:       DefaultSpeechModel,
		ChatModel:         DefaultChatModel,
		SystemInstruction: SystemInstruction,
	}
}

// Client wraps a Provider with request construction, response extraction
// and error translation. Each call is an independent request.
type Client struct {
	provider Provider
	config   Config
	cache    SpeechCache
}

// Option configures a Client.
type Option func(*Client)

// WithSpeechCache memoizes synthesized speech in c. With a cache set,
// repeating a text and voice is answered from memory instead of a fresh
// request, so SynthesizeSpeech is no longer stateless across calls.
func WithSpeechCache(c SpeechCache) Option {
	return func(cl *Client) { cl.cache = c }
}

// New returns a Client using provider. Empty config fields fall back to
// the defaults.
func New(provider Provider, config Config, opts ...Option) *Client {
	def := DefaultConfig()
	if config.SpeechModel == "" {
		config.SpeechModel = def.SpeechModel
	}
	if config.ChatModel == "" {
		config.ChatModel = def.ChatModel
	}
	if config.SystemInstruction == "" {
		config.SystemInstruction = def.SystemInstruction
	}
	c := &Client{provider: provider, config: config}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SpeechPrompt is the instruction sent with text to be read aloud.
func SpeechPrompt(text string) string {
	return speechPrompt + text
}

// SynthesizeSpeech asks the service to read text aloud with voice and
// returns the audio as base64 encoded 16-bit PCM. A response without audio
// yields "" and a nil error. Failures are returned as *SynthesisError.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string, voice Voice) (string, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	if !voice.Valid() {
		return "", &SynthesisError{Provider: c.provider.Name(), Voice: voice, Err: fmt.Errorf("%w: %q", ErrInvalidVoice, voice)}
	}

	key := cache.Key(c.config.SpeechModel, string(voice), text)
	if c.cache != nil {
		if encoded, ok := c.cache.Get(key); ok {
			log.Debug("speech cache hit", "voice", voice, "chars", len(text))
			return encoded, nil
		}
	}

	start := time.Now()
	log.Debug("synthesizing speech",
		"provider", c.provider.Name(),
		"model", c.config.SpeechModel,
		"voice", voice,
		"chars", len(text))

	data, err := c.provider.Speak(ctx, c.config.SpeechModel, SpeechPrompt(text), voice)
	if err != nil {
		log.Error("TTS error", "provider", c.provider.Name(), "error", err)
		return "", &SynthesisError{Provider: c.provider.Name(), Voice: voice, Err: err}
	}
	if len(data) == 0 {
		log.Warn("speech response carried no audio", "provider", c.provider.Name())
		return "", nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	log.Debug("speech synthesized",
		"size", humanize.Bytes(uint64(len(data))),
		"took", time.Since(start))

	if c.cache != nil {
		if err := c.cache.Put(key, encoded); err != nil {
			log.Debug("speech not cached", "error", err)
		}
	}
	return encoded, nil
}

// AnswerQuestion returns the assistant's reply to query. It never fails:
// any error is logged and FallbackMessage is returned instead.
func (c *Client) AnswerQuestion(ctx context.Context, query string) string {
	log.Debug("asking assistant",
		"provider", c.provider.Name(),
		"model", c.config.ChatModel,
		"chars", len(query))

	answer, err := c.provider.Answer(ctx, c.config.ChatModel, c.config.SystemInstruction, query)
	if err != nil {
		aerr := &AssistantError{Provider: c.provider.Name(), Err: err}
		log.Error("Chat error", "error", aerr)
		return FallbackMessage
	}
	return strings.TrimSpace(answer)
}
