package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/doa/internal/assistant"
)

func newSession(p *assistant.MockProvider, opts ...Option) *Session {
	return NewSession(assistant.New(p, assistant.Config{}), opts...)
}

func TestSendUserMessage(t *testing.T) {
	s := newSession(&assistant.MockProvider{Reply: "Bacalah Bismika Allahumma ahya wa amut."})

	turns, ok := s.SendUserMessage(context.Background(), "  Apa doa sebelum tidur?  ")
	if !ok {
		t.Fatal("SendUserMessage() rejected a valid question")
	}
	want := []Turn{
		{Role: RoleUser, Text: "Apa doa sebelum tidur?"},
		{Role: RoleAssistant, Text: "Bacalah Bismika Allahumma ahya wa amut."},
	}
	if len(turns) != len(want) {
		t.Fatalf("got %d turns, want %d", len(turns), len(want))
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, turns[i], want[i])
		}
	}
	if s.Awaiting() {
		t.Error("session still awaiting a reply")
	}
}

func TestSendUserMessageRejectsBlank(t *testing.T) {
	p := &assistant.MockProvider{Reply: "x"}
	s := newSession(p, WithGreeting())

	for _, text := range []string{"", "   ", "\n\t"} {
		turns, ok := s.SendUserMessage(context.Background(), text)
		if ok {
			t.Errorf("SendUserMessage(%q) accepted", text)
		}
		if len(turns) != 1 || turns[0].Text != Greeting {
			t.Errorf("SendUserMessage(%q) changed the conversation: %+v", text, turns)
		}
	}
	if queries, _ := p.AnswerCalls(); len(queries) != 0 {
		t.Errorf("assistant asked %d times, want 0", len(queries))
	}
}

func TestSendUserMessageWhileAwaiting(t *testing.T) {
	gate := make(chan struct{})
	p := &assistant.MockProvider{Reply: "jawaban", Gate: gate}
	s := newSession(p)

	done := make(chan []Turn, 1)
	go func() {
		turns, _ := s.SendUserMessage(context.Background(), "pertama")
		done <- turns
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !s.Awaiting() {
		if time.Now().After(deadline) {
			t.Fatal("first question never sent")
		}
		time.Sleep(time.Millisecond)
	}

	turns, ok := s.SendUserMessage(context.Background(), "kedua")
	if ok {
		t.Error("second question accepted while awaiting a reply")
	}
	if len(turns) != 1 || turns[0].Text != "pertama" {
		t.Errorf("conversation while awaiting = %+v", turns)
	}

	close(gate)
	final := <-done
	if len(final) != 2 || final[1].Role != RoleAssistant || final[1].Text != "jawaban" {
		t.Errorf("final conversation = %+v", final)
	}
	if queries, _ := p.AnswerCalls(); len(queries) != 1 {
		t.Errorf("assistant asked %d times, want 1", len(queries))
	}
}

func TestSendUserMessageFallback(t *testing.T) {
	s := newSession(&assistant.MockProvider{AnswerErr: errors.New("503 Service Unavailable")})

	turns, ok := s.SendUserMessage(context.Background(), "halo")
	if !ok {
		t.Fatal("SendUserMessage() rejected a valid question")
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[1].Role != RoleAssistant || turns[1].Text != assistant.FallbackMessage {
		t.Errorf("reply = %+v, want fallback", turns[1])
	}
	if s.Awaiting() {
		t.Error("session still awaiting after fallback")
	}
}

func TestSendUserMessageEmptyReply(t *testing.T) {
	s := newSession(&assistant.MockProvider{Reply: "  "})

	turns, _ := s.SendUserMessage(context.Background(), "halo")
	if turns[len(turns)-1].Text != EmptyReplyMessage {
		t.Errorf("reply = %q, want %q", turns[len(turns)-1].Text, EmptyReplyMessage)
	}
}

func TestSessionOrdering(t *testing.T) {
	s := newSession(&assistant.MockProvider{Reply: "ok"}, WithGreeting())

	for _, q := range []string{"satu", "dua", "tiga"} {
		if _, ok := s.SendUserMessage(context.Background(), q); !ok {
			t.Fatalf("SendUserMessage(%q) rejected", q)
		}
	}

	turns := s.Turns()
	if len(turns) != 7 {
		t.Fatalf("got %d turns, want 7", len(turns))
	}
	for i, q := range []string{"satu", "dua", "tiga"} {
		user, reply := turns[1+2*i], turns[2+2*i]
		if user.Role != RoleUser || user.Text != q {
			t.Errorf("turn %d = %+v, want user %q", 1+2*i, user, q)
		}
		if reply.Role != RoleAssistant {
			t.Errorf("turn %d = %+v, want assistant", 2+2*i, reply)
		}
	}
}

func TestAppendReturnsCopy(t *testing.T) {
	s := NewSession(nil)
	if s.ID == "" {
		t.Error("session has no ID")
	}

	turns := s.Append(Turn{Role: RoleUser, Text: "a"})
	turns[0].Text = "mutated"
	turns = s.Append(Turn{Role: RoleAssistant, Text: "b"})

	if len(turns) != 2 || turns[0].Text != "a" || turns[1].Text != "b" {
		t.Errorf("Append() = %+v", turns)
	}
}

func TestSendWithoutAnswerer(t *testing.T) {
	s := NewSession(nil)
	if _, ok := s.SendUserMessage(context.Background(), "halo"); ok {
		t.Error("SendUserMessage() accepted without an answerer")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, b := NewSession(nil), NewSession(nil)
	if a.ID == b.ID {
		t.Errorf("duplicate session ID %q", a.ID)
	}
}
