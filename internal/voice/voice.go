// Package voice abstracts the text-to-speech and speech-to-text
// collaborators behind a single serial channel. Speak blocks until audible
// completion; Listen blocks up to its timeout waiting for an utterance.
package voice

import (
	"errors"
	"time"
)

// ErrNoSpeech is returned by Listen when the timeout elapses without any
// utterance. It is an expected outcome, not a fault.
var ErrNoSpeech = errors.New("no speech detected")

// ErrUnintelligible is returned by Listen when speech was heard but could
// not be transcribed. Callers may prompt the speaker to repeat; plain
// silence must not.
var ErrUnintelligible = errors.New("speech not understood")

// Voice is the single voice channel. Implementations must be safe to call
// from one goroutine at a time; the assistant serializes access.
type Voice interface {
	// Speak utters text and returns once playback finished.
	Speak(text string) error

	// Listen waits up to timeout for an utterance of at most phraseLimit
	// and returns the lowercased transcript. ErrNoSpeech signals silence,
	// ErrUnintelligible signals speech that could not be transcribed.
	Listen(timeout, phraseLimit time.Duration) (string, error)

	Close() error
}
