// Package speech defines the interface to external text-to-speech
// synthesis. The coaching core only produces utterance text; turning it
// into audio is a provider concern and stays behind this interface.
package speech

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAudio is returned when synthesis produced no usable clip.
	ErrNoAudio = errors.New("speech: no audio returned")

	// ErrUnavailable is returned when the provider cannot be reached.
	ErrUnavailable = errors.New("speech: provider unavailable")
)

// Clip is one synthesized spoken utterance.
type Clip struct {
	// ID identifies the clip for queueing and playback.
	ID string

	// Text is the utterance that was synthesized.
	Text string

	// Audio is the encoded audio payload. May be empty when synthesis
	// failed; textual feedback still delivers in that case.
	Audio []byte

	// Duration is the estimated playback length.
	Duration time.Duration

	// CreatedAt is when synthesis completed.
	CreatedAt time.Time
}

// Synthesizer converts coaching text to audio. Implementations wrap an
// external TTS service; synthesis failures are non-fatal to the pipeline.
type Synthesizer interface {
	// Synthesize converts text to a playable clip.
	Synthesize(ctx context.Context, text string) (*Clip, error)

	// Health checks provider connectivity.
	Health(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}
