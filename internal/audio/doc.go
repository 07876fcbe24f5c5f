// Package audio decodes raw 16-bit PCM speech payloads into normalized
// sample frames and plays them through the system output using oto/v3.
package audio
