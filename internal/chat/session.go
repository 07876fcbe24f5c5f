// Package chat keeps the conversation between the user and the assistant.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// Greeting opens every new session.
	Greeting = "Assalamualaikum. Saya asisten spiritual Anda. " +
		"Ada yang ingin Anda tanyakan mengenai doa atau adab harian?"

	// EmptyReplyMessage replaces an empty answer.
	EmptyReplyMessage = "Mohon maaf, terjadi gangguan koneksi."
)

// Turn is one message in the conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Answerer replies to a question. It never fails; errors are replaced by a
// fallback reply.
type Answerer interface {
	AnswerQuestion(ctx context.Context, query string) string
}

// Session is an ordered conversation with at most one question awaiting a
// reply.
type Session struct {
	ID string

	answerer Answerer

	mu       sync.Mutex
	turns    []Turn
	awaiting bool
}

// Option configures a Session.
type Option func(*Session)

// WithGreeting opens the session with the assistant greeting.
func WithGreeting() Option {
	return func(s *Session) {
		s.turns = append(s.turns, Turn{Role: RoleAssistant, Text: Greeting})
	}
}

// NewSession creates an empty session answered by a.
func NewSession(a Answerer, opts ...Option) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		answerer: a,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds turn to the end of the conversation and returns the updated
// sequence.
func (s *Session) Append(turn Turn) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return s.snapshot()
}

// Turns returns a copy of the conversation.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Awaiting reports whether a question is waiting for its reply.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

func (s *Session) snapshot() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// SendUserMessage appends text as a user turn, waits for the answer and
// appends it as an assistant turn. Blank text, or text sent while an
// earlier question is still awaiting its reply, is ignored: the unchanged
// conversation is returned with false.
func (s *Session) SendUserMessage(ctx context.Context, text string) ([]Turn, bool) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || s.awaiting || s.answerer == nil {
		turns := s.snapshot()
		s.mu.Unlock()
		return turns, false
	}
	s.turns = append(s.turns, Turn{Role: RoleUser, Text: text})
	s.awaiting = true
	s.mu.Unlock()

	start := time.Now()
	log.Debug("question sent", "session", s.ID, "chars", len(text))

	reply := s.answerer.AnswerQuestion(ctx, text)
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReplyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Text: reply})
	s.awaiting = false
	log.Debug("reply received", "session", s.ID, "took", time.Since(start))
	return s.snapshot(), true
}
