// Package speech wraps the speech-to-text and text-to-speech services the
// tutor delegates to.
package speech

import (
	"context"
	"errors"
)

// Transcription is the result of speech-to-text on one recording.
type Transcription struct {
	Text string `json:"text"`

	// Language is the detected spoken language as reported by the service,
	// or "unknown".
	Language string `json:"language"`

	// Confidence is in [0, 1]. Zero when the service reports nothing.
	Confidence float64 `json:"confidence"`
}

// Transcriber turns a recorded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcription, error)
}

// Synthesizer renders text as speech and returns the path of the audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, language, text string) (string, error)
}

var (
	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("speech: empty text")

	// ErrDisabled is returned by the no-op synthesizer.
	ErrDisabled = errors.New("speech: synthesis disabled")
)

// NoopSynthesizer is used when no speech service is configured. Every call
// fails with ErrDisabled, which callers treat as "no audio".
type NoopSynthesizer struct{}

func (NoopSynthesizer) Synthesize(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}
