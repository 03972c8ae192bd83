// Package speech wraps the hosted speech services: Sarvam for
// speech-to-text and ElevenLabs for text-to-speech. Both clients are thin
// HTTP wrappers; neither vendor ships a Go SDK.
package speech

import (
	"context"
	"errors"
	"io"
)

// ErrNoSpeech is returned by a Transcriber when the audio was processed
// successfully but contained no recognizable speech. It is distinct from a
// transport failure: callers should prompt the user to speak again rather
// than retry the request.
var ErrNoSpeech = errors.New("no speech detected in audio")

// Transcriber converts recorded audio into text.
type Transcriber interface {
	// Transcribe reads the audio and returns the recognized text.
	// Returns ErrNoSpeech when the audio carries no usable speech.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	// Synthesize renders the text as audio at the given speed and writes
	// the encoded bytes to w. Speed 1.0 is natural pace.
	Synthesize(ctx context.Context, text string, speed float64, w io.Writer) error
}
