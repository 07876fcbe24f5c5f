package audio

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"
	"time"
)

const (
	// DefaultSampleRate is the rate the speech service delivers audio at.
	DefaultSampleRate = 24000
	// DefaultChannels is mono.
	DefaultChannels = 1

	// pcmScale maps a signed 16-bit sample into [-1.0, 1.0).
	pcmScale = 32768.0
	// bytesPerSample for 16-bit PCM.
	bytesPerSample = 2
)

// FrameBuffer holds decoded audio ready for an output device. Data[c] holds
// the samples of channel c; every channel has the same length.
type FrameBuffer struct {
	SampleRate int
	Channels   int
	Data       [][]float32
}

// Frames returns the number of frames (samples per channel).
func (b *FrameBuffer) Frames() int {
	if b == nil || len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns how long the buffer plays for.
func (b *FrameBuffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Interleaved returns the samples as interleaved float32 little-endian
// bytes, the layout expected by the output device.
func (b *FrameBuffer) Interleaved() []byte {
	frames := b.Frames()
	out := make([]byte, frames*b.Channels*4)
	off := 0
	for i := 0; i < frames; i++ {
		for c := 0; c < b.Channels; c++ {
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(b.Data[c][i]))
			off += 4
		}
	}
	return out
}

// Decode turns base64 encoded 16-bit signed little-endian PCM into a
// FrameBuffer. A trailing odd byte is ignored and any samples that do not
// fill a whole frame are dropped. The sample rate and channel count are
// carried through verbatim.
func Decode(encoded string, sampleRate, channels int) (*FrameBuffer, error) {
	if sampleRate <= 0 {
		return nil, &DecodeError{Err: ErrInvalidSampleRate}
	}
	if channels <= 0 {
		return nil, &DecodeError{Err: ErrInvalidChannels}
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, &DecodeError{Err: ErrInvalidEncoding, Cause: err}
	}

	samples := len(raw) / bytesPerSample
	frames := samples / channels

	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * bytesPerSample
			v := int16(binary.LittleEndian.Uint16(raw[off:]))
			data[c][i] = float32(float64(v) / pcmScale)
		}
	}

	return &FrameBuffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Data:       data,
	}, nil
}

// decodeBase64 accepts correctly padded or unpadded standard base64 and
// ignores embedded whitespace. Padding is only valid on a whole quantum.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, s)
	if len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
