package assistant

import "errors"

var (
	ErrInvalidVoice    = errors.New("unknown voice preset")
	ErrUnknownProvider = errors.New("unknown assistant provider")
)

// SynthesisError reports a failed text-to-speech request. It is returned
// to the caller so playback can surface the failure.
type SynthesisError struct {
	Provider string
	Voice    Voice
	Err      error
}

func (e *SynthesisError) Error() string {
	return "speech synthesis via " + e.Provider + " failed: " + e.Err.Error()
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// AssistantError reports a failed question-answering request. It never
// leaves the client: AnswerQuestion logs it and returns FallbackMessage.
type AssistantError struct {
	Provider string
	Err      error
}

func (e *AssistantError) Error() string {
	return "assistant request via " + e.Provider + " failed: " + e.Err.Error()
}

func (e *AssistantError) Unwrap() error { return e.Err }
