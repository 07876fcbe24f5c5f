package assistant

import (
	"fmt"
	"strings"
)

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default OpenAI models.
const (
	DefaultOpenAISpeechModel = "gpt-4o-mini-tts"
	DefaultOpenAIChatModel   = "gpt-4o-mini"
)

// DefaultModels returns the speech and chat models used with the named
// backend when none are configured.
func DefaultModels(provider string) (speech, chat string) {
	if strings.EqualFold(strings.TrimSpace(provider), ProviderOpenAI) {
		return DefaultOpenAISpeechModel, DefaultOpenAIChatModel
	}
	return DefaultSpeechModel, DefaultChatModel
}

// ProviderConfig selects and configures a backend.
type ProviderConfig struct {
	Name    string
	APIKey  string
	BaseURL string
}

// NewProvider builds the named backend. An empty name selects Gemini.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", ProviderGemini, "google":
		return &GeminiProvider{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}, nil
	case ProviderOpenAI:
		return &OpenAIProvider{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Name)
	}
}
