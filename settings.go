package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/audio"
	"github.com/dgnsrekt/doa/internal/cache"
	"github.com/dgnsrekt/doa/internal/catalog"
	"github.com/dgnsrekt/doa/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

const maxCacheSizeMB = 1024

// settings are the assistant and audio options read from configuration.
type settings struct {
	Provider    string
	APIKey      string
	BaseURL     string
	SpeechModel string
	ChatModel   string
	Voice       string

	SampleRate int
	Channels   int

	CacheEnabled bool
	CacheMaxSize int // megabytes

	CatalogPath string
}

func defaultSettings() settings {
	return settings{
		Provider:     assistant.ProviderGemini,
		SpeechModel:  assistant.DefaultSpeechModel,
		ChatModel:    assistant.DefaultChatModel,
		Voice:        string(assistant.DefaultVoice),
		SampleRate:   audio.DefaultSampleRate,
		Channels:     audio.DefaultChannels,
		CacheMaxSize: 16,
	}
}

// loadSettings reads settings from v, falling back to the defaults for
// anything unset, and validates them.
func loadSettings(v *viper.Viper) (settings, error) {
	s := defaultSettings()

	if v.IsSet("assistant.provider") {
		s.Provider = v.GetString("assistant.provider")
	}
	s.SpeechModel, s.ChatModel = assistant.DefaultModels(s.Provider)
	if m := v.GetString("assistant.tts_model"); m != "" {
		s.SpeechModel = m
	}
	if m := v.GetString("assistant.chat_model"); m != "" {
		s.ChatModel = m
	}
	if v.IsSet("assistant.base_url") {
		s.BaseURL = v.GetString("assistant.base_url")
	}
	if v.IsSet("voice") {
		s.Voice = v.GetString("voice")
	}

	if v.IsSet("audio.sample_rate") {
		s.SampleRate = v.GetInt("audio.sample_rate")
	}
	if v.IsSet("audio.channels") {
		s.Channels = v.GetInt("audio.channels")
	}
	if v.IsSet("audio.cache.enabled") {
		s.CacheEnabled = v.GetBool("audio.cache.enabled")
	}
	if v.IsSet("audio.cache.max_size") {
		s.CacheMaxSize = v.GetInt("audio.cache.max_size")
	}

	if p := v.GetString("catalog.path"); p != "" {
		s.CatalogPath = utils.ExpandPath(p)
	}

	s.APIKey = apiKey(v, s.Provider)

	if err := s.validate(); err != nil {
		return s, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// apiKey prefers the configured key, then the provider's conventional
// environment variable.
func apiKey(v *viper.Viper, provider string) string {
	if k := v.GetString("assistant.api_key"); k != "" {
		return k
	}
	names := []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}
	if provider == assistant.ProviderOpenAI {
		names = []string{"OPENAI_API_KEY", "API_KEY"}
	}
	for _, name := range names {
		if k := os.Getenv(name); k != "" {
			return k
		}
	}
	return ""
}

func (s settings) validate() error {
	if _, err := assistant.NewProvider(assistant.ProviderConfig{Name: s.Provider}); err != nil {
		return err
	}
	if _, err := assistant.ParseVoice(s.Voice); err != nil {
		return err
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("audio sample_rate must be positive, got %d", s.SampleRate)
	}
	if s.Channels != 1 && s.Channels != 2 {
		return fmt.Errorf("audio channels must be 1 or 2, got %d", s.Channels)
	}
	if s.CacheEnabled && (s.CacheMaxSize < 1 || s.CacheMaxSize > maxCacheSizeMB) {
		return fmt.Errorf("audio cache max_size must be between 1 and %d MB, got %d", maxCacheSizeMB, s.CacheMaxSize)
	}
	if s.CatalogPath != "" {
		if _, err := os.Stat(s.CatalogPath); err != nil {
			return fmt.Errorf("catalog file: %w", err)
		}
	}
	return nil
}

var errNoAPIKey = errors.New("no API key configured")

// newAssistant builds the assistant client described by s, along with its
// speech cache when one is enabled.
func newAssistant(s settings) (*assistant.Client, *cache.MemoryCache, error) {
	if s.APIKey == "" {
		log.Warn("assistant requests will fail", "error", errNoAPIKey, "provider", s.Provider)
	}
	provider, err := assistant.NewProvider(assistant.ProviderConfig{
		Name:    s.Provider,
		APIKey:  s.APIKey,
		BaseURL: s.BaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	var (
		opts        []assistant.Option
		speechCache *cache.MemoryCache
	)
	if s.CacheEnabled {
		capacity := int64(s.CacheMaxSize) * 1024 * 1024
		speechCache = cache.NewMemoryCache(capacity)
		opts = append(opts, assistant.WithSpeechCache(speechCache))
		log.Debug("speech cache enabled", "capacity", humanize.IBytes(uint64(capacity))) //nolint:gosec
	}

	return assistant.New(provider, assistant.Config{
		SpeechModel: s.SpeechModel,
		ChatModel:   s.ChatModel,
	}, opts...), speechCache, nil
}

// logCacheStats records how well the speech cache did. A nil cache logs
// nothing.
func logCacheStats(c *cache.MemoryCache) {
	if c == nil {
		return
	}
	stats := c.Stats()
	log.Debug("speech cache stats",
		"items", stats.ItemCount,
		"size", humanize.IBytes(uint64(stats.Size)), //nolint:gosec
		"hits", stats.Hits,
		"misses", stats.Misses,
		"evictions", stats.Evictions,
		"hit_rate", fmt.Sprintf("%.0f%%", stats.HitRate*100))
}

// openCatalog loads the prayer file at path, or the built-in prayers when
// path is empty.
func openCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load catalog: %w", err)
	}
	log.Debug("loaded catalog", "path", path, "prayers", c.Len())
	return c, nil
}
