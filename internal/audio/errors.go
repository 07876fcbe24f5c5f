package audio

import "errors"

var (
	// Decoder errors
	ErrInvalidEncoding   = errors.New("audio payload is not valid base64")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidChannels   = errors.New("invalid number of channels")

	// Output errors
	ErrSinkClosed     = errors.New("audio sink is closed")
	ErrFormatMismatch = errors.New("audio format does not match the output device")
)

// DecodeError reports a malformed or unusable audio payload.
type DecodeError struct {
	Err   error // one of the decoder sentinels
	Cause error // underlying parse error, if any
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return "decode audio: " + e.Err.Error() + ": " + e.Cause.Error()
	}
	return "decode audio: " + e.Err.Error()
}

// Unwrap lets errors.Is match the sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
