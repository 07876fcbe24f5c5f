package assistant

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Voice is a named speech preset.
type Voice string

// Available voice presets.
const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"

	// DefaultVoice is used when no preset is requested.
	DefaultVoice = VoiceKore
)

// Voices lists every preset in display order.
func Voices() []Voice {
	return []Voice{VoiceKore, VoicePuck, VoiceCharon, VoiceFenrir, VoiceZephyr}
}

// Valid reports whether v is a known preset.
func (v Voice) Valid() bool {
	for _, known := range Voices() {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVoice resolves a preset name case-insensitively. An empty name
// yields DefaultVoice.
func ParseVoice(name string) (Voice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultVoice, nil
	}
	for _, v := range Voices() {
		if strings.EqualFold(name, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVoice, name)
}

// openAIVoice maps a preset onto the closest OpenAI speech voice.
func (v Voice) openAIVoice() openai.SpeechVoice {
	switch v {
	case VoicePuck:
		return openai.VoiceFable
	case VoiceCharon:
		return openai.VoiceOnyx
	case VoiceFenrir:
		return openai.VoiceEcho
	case VoiceZephyr:
		return openai.VoiceShimmer
	default:
		return openai.VoiceNova
	}
}
