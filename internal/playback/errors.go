package playback

import (
	"errors"
	"fmt"
)

// FailureMessage is shown to the user when a playback cycle fails.
const FailureMessage = "Maaf, pemutaran audio gagal."

var (
	ErrNoSynthesizer = errors.New("no speech synthesizer configured")
	ErrNoDevice      = errors.New("no audio device configured")
)

// PlaybackError records the stage in which a cycle failed.
type PlaybackError struct {
	Stage State // state the controller was in when the failure occurred
	Err   error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed while %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlaybackError) Unwrap() error {
	return e.Err
}
