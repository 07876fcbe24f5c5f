package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/doa/internal/cache"
)

var errTransport = errors.New("connection reset by peer")

func TestSynthesizeSpeech(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xff, 0x7f}
	p := &MockProvider{Audio: raw}
	c := New(p, Config{})

	got, err := c.SynthesizeSpeech(context.Background(), "بِاسْمِكَ اللَّهُمَّ", VoicePuck)
	if err != nil {
		t.Fatalf("SynthesizeSpeech() error = %v", err)
	}
	if want := base64.StdEncoding.EncodeToString(raw); got != want {
		t.Errorf("SynthesizeSpeech() = %q, want %q", got, want)
	}

	prompts, voices := p.SpeakCalls()
	if len(prompts) != 1 {
		t.Fatalf("provider called %d times, want 1", len(prompts))
	}
	if prompts[0] != "Read this prayer beautifully and clearly: بِاسْمِكَ اللَّهُمَّ" {
		t.Errorf("prompt = %q", prompts[0])
	}
	if voices[0] != VoicePuck {
		t.Errorf("voice = %q, want Puck", voices[0])
	}
}

func TestSynthesizeSpeechDefaultVoice(t *testing.T) {
	p := &MockProvider{Audio: []byte{1, 0}}
	c := New(p, Config{})

	if _, err := c.SynthesizeSpeech(context.Background(), "text", ""); err != nil {
		t.Fatalf("SynthesizeSpeech() error = %v", err)
	}
	_, voices := p.SpeakCalls()
	if voices[0] != DefaultVoice {
		t.Errorf("voice = %q, want %q", voices[0], DefaultVoice)
	}
}

func TestSynthesizeSpeechNoAudio(t *testing.T) {
	c := New(&MockProvider{}, Config{})

	got, err := c.SynthesizeSpeech(context.Background(), "text", VoiceKore)
	if err != nil {
		t.Fatalf("SynthesizeSpeech() error = %v, want nil", err)
	}
	if got != "" {
		t.Errorf("SynthesizeSpeech() = %q, want empty", got)
	}
}

func TestSynthesizeSpeechPropagatesFailure(t *testing.T) {
	c := New(&MockProvider{SpeakErr: errTransport}, Config{})

	_, err := c.SynthesizeSpeech(context.Background(), "text", VoiceKore)
	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("error = %v, want *SynthesisError", err)
	}
	if !errors.Is(err, errTransport) {
		t.Errorf("error does not wrap the transport failure: %v", err)
	}
	if synthErr.Provider != "mock" || synthErr.Voice != VoiceKore {
		t.Errorf("SynthesisError = %+v", synthErr)
	}
}

func TestSynthesizeSpeechInvalidVoice(t *testing.T) {
	p := &MockProvider{Audio: []byte{1, 0}}
	c := New(p, Config{})

	_, err := c.SynthesizeSpeech(context.Background(), "text", Voice("Alloy"))
	if !errors.Is(err, ErrInvalidVoice) {
		t.Errorf("error = %v, want ErrInvalidVoice", err)
	}
	if prompts, _ := p.SpeakCalls(); len(prompts) != 0 {
		t.Error("provider was called for an invalid voice")
	}
}

func TestSynthesizeSpeechCache(t *testing.T) {
	p := &MockProvider{Audio: []byte{1, 0, 2, 0}}
	c := New(p, Config{}, WithSpeechCache(cache.NewMemoryCache(1<<20)))

	first, err := c.SynthesizeSpeech(context.Background(), "text", VoiceKore)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.SynthesizeSpeech(context.Background(), "text", VoiceKore)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("cached result %q differs from %q", second, first)
	}
	if prompts, _ := p.SpeakCalls(); len(prompts) != 1 {
		t.Errorf("provider called %d times, want 1", len(prompts))
	}

	if _, err := c.SynthesizeSpeech(context.Background(), "text", VoiceFenrir); err != nil {
		t.Fatal(err)
	}
	if prompts, _ := p.SpeakCalls(); len(prompts) != 2 {
		t.Errorf("a different voice should miss the cache, provider called %d times", len(prompts))
	}
}

func TestSynthesizeSpeechDoesNotCacheFailures(t *testing.T) {
	p := &MockProvider{SpeakErr: errTransport}
	c := New(p, Config{}, WithSpeechCache(cache.NewMemoryCache(1<<20)))

	_, _ = c.SynthesizeSpeech(context.Background(), "text", VoiceKore)
	p.SpeakErr = nil
	p.Audio = []byte{1, 0}
	got, err := c.SynthesizeSpeech(context.Background(), "text", VoiceKore)
	if err != nil || got == "" {
		t.Errorf("SynthesizeSpeech() = %q, %v after recovery", got, err)
	}
}

func TestAnswerQuestion(t *testing.T) {
	p := &MockProvider{Reply: "  Bacalah doa sebelum tidur.\n"}
	c := New(p, Config{})

	got := c.AnswerQuestion(context.Background(), "Apa doa sebelum tidur?")
	if got != "Bacalah doa sebelum tidur." {
		t.Errorf("AnswerQuestion() = %q", got)
	}

	queries, systems := p.AnswerCalls()
	if len(queries) != 1 || queries[0] != "Apa doa sebelum tidur?" {
		t.Errorf("queries = %v", queries)
	}
	if systems[0] != SystemInstruction {
		t.Errorf("system instruction = %q", systems[0])
	}
	if !strings.Contains(systems[0], "Bahasa Indonesia") {
		t.Error("system instruction should fix the reply language")
	}
}

func TestAnswerQuestionFallback(t *testing.T) {
	c := New(&MockProvider{AnswerErr: errTransport}, Config{})

	if got := c.AnswerQuestion(context.Background(), "halo"); got != FallbackMessage {
		t.Errorf("AnswerQuestion() = %q, want fallback", got)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(&MockProvider{}, Config{ChatModel: "custom-chat"})
	if c.config.SpeechModel != DefaultSpeechModel {
		t.Errorf("SpeechModel = %q", c.config.SpeechModel)
	}
	if c.config.ChatModel != "custom-chat" {
		t.Errorf("ChatModel = %q", c.config.ChatModel)
	}
	if c.config.SystemInstruction != SystemInstruction {
		t.Errorf("SystemInstruction = %q", c.config.SystemInstruction)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", ProviderGemini, false},
		{"Gemini", ProviderGemini, false},
		{"google", ProviderGemini, false},
		{"openai", ProviderOpenAI, false},
		{"watson", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(ProviderConfig{Name: tt.name})
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProvider) {
					t.Errorf("NewProvider(%q) error = %v", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider(%q) error = %v", tt.name, err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestDefaultModels(t *testing.T) {
	tests := []struct {
		provider   string
		wantSpeech string
		wantChat   string
	}{
		{"", DefaultSpeechModel, DefaultChatModel},
		{ProviderGemini, DefaultSpeechModel, DefaultChatModel},
		{ProviderOpenAI, "gpt-4o-mini-tts", "gpt-4o-mini"},
		{" OpenAI ", "gpt-4o-mini-tts", "gpt-4o-mini"},
	}
	for _, tt := range tests {
		speech, chat := DefaultModels(tt.provider)
		if speech != tt.wantSpeech || chat != tt.wantChat {
			t.Errorf("DefaultModels(%q) = %q, %q, want %q, %q", tt.provider, speech, chat, tt.wantSpeech, tt.wantChat)
		}
	}
}
