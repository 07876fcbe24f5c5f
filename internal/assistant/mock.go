package assistant

import (
	"context"
	"sync"
)

// MockProvider is a Provider for tests. It returns the configured audio and
// answer, or the configured errors, and records every request.
type MockProvider struct {
	Audio     []byte
	SpeakErr  error
	Reply     string
	AnswerErr error

	// Gate, when non-nil, blocks every request until it is closed.
	Gate chan struct{}

	mu      sync.Mutex
	prompts []string
	voices  []Voice
	queries []string
	systems []string
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) wait(ctx context.Context) error {
	if m.Gate == nil {
		return nil
	}
	select {
	case <-m.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Speak implements Provider.
func (m *MockProvider) Speak(ctx context.Context, _ string, prompt string, voice Voice) ([]byte, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.voices = append(m.voices, voice)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.SpeakErr != nil {
		return nil, m.SpeakErr
	}
	return m.Audio, nil
}

// Answer implements Provider.
func (m *MockProvider) Answer(ctx context.Context, _ string, system, query string) (string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.systems = append(m.systems, system)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return "", err
	}
	if m.AnswerErr != nil {
		return "", m.AnswerErr
	}
	return m.Reply, nil
}

// SpeakCalls returns the prompts and voices of every speech request.
func (m *MockProvider) SpeakCalls() ([]string, []Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...), append([]Voice(nil), m.voices...)
}

// AnswerCalls returns the queries and system instructions of every
// question.
func (m *MockProvider) AnswerCalls() ([]string, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...), append([]string(nil), m.systems...)
}

var _ Provider = (*MockProvider)(nil)
