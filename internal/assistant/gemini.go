package assistant

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API. A fresh client is built for every
// request so a missing credential surfaces as a request failure.
type GeminiProvider struct {
	APIKey     string
	BaseURL    string       // optional endpoint override
	HTTPClient *http.Client // optional
}

// Name implements Provider.
func (g *GeminiProvider) Name() string { return ProviderGemini }

func (g *GeminiProvider) client(ctx context.Context) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:     g.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.HTTPClient,
	}
	if g.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create gemini client: %w", err)
	}
	return c, nil
}

// Speak implements Provider.
func (g *GeminiProvider) Speak(ctx context.Context, model, prompt string, voice Voice) ([]byte, error) {
	c, err := g.client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: string(voice)},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return firstAudio(resp), nil
}

// firstAudio returns the first inline payload in the response.
func firstAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// Answer implements Provider.
func (g *GeminiProvider) Answer(ctx context.Context, model, system, query string) (string, error) {
	c, err := g.client(ctx)
	if err != nil {
		return "", err
	}

	resp, err := c.Models.GenerateContent(ctx, model, genai.Text(query), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
