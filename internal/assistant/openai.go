package assistant

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider calls any OpenAI compatible endpoint. Speech is requested
// as raw PCM, which the API delivers as 24 kHz mono 16-bit little-endian.
type OpenAIProvider struct {
	APIKey     string
	BaseURL    string // optional endpoint override
	HTTPClient *http.Client
}

// Name implements Provider.
func (o *OpenAIProvider) Name() string { return ProviderOpenAI }

func (o *OpenAIProvider) client() *openai.Client {
	cfg := openai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.HTTPClient != nil {
		cfg.HTTPClient = o.HTTPClient
	}
	return openai.NewClientWithConfig(cfg)
}

// Speak implements Provider.
func (o *OpenAIProvider) Speak(ctx context.Context, model, prompt string, voice Voice) ([]byte, error) {
	resp, err := o.client().CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Input:          prompt,
		Voice:          voice.openAIVoice(),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close() //nolint:errcheck

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("unable to read speech response: %w", err)
	}
	return data, nil
}

// Answer implements Provider.
func (o *OpenAIProvider) Answer(ctx context.Context, model, system, query string) (string, error) {
	resp, err := o.client().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
