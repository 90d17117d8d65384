package voice

import (
	"sync"
	"time"
)

// ScriptUnintelligible marks a script entry that Listen reports as heard
// but not understood.
const ScriptUnintelligible = "\x00unintelligible"

// MockVoice records spoken text and replays a scripted list of utterances
// for tests. An empty entry is silence, a ScriptUnintelligible entry is
// garbled speech, and once the script runs out Listen reports silence.
type MockVoice struct {
	mu      sync.Mutex
	spoken  []string
	script  []string
	listens int
}

// NewMockVoice creates a MockVoice that will "hear" the given utterances in
// order.
func NewMockVoice(script ...string) *MockVoice {
	return &MockVoice{script: script}
}

func (v *MockVoice) Speak(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spoken = append(v.spoken, text)
	return nil
}

func (v *MockVoice) Listen(timeout, phraseLimit time.Duration) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listens++
	if len(v.script) == 0 {
		return "", ErrNoSpeech
	}
	next := v.script[0]
	v.script = v.script[1:]
	switch next {
	case "":
		return "", ErrNoSpeech
	case ScriptUnintelligible:
		return "", ErrUnintelligible
	}
	return next, nil
}

func (v *MockVoice) Close() error { return nil }

// Spoken returns everything spoken so far.
func (v *MockVoice) Spoken() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.spoken))
	copy(out, v.spoken)
	return out
}

// ListenCalls returns how many times Listen was invoked.
func (v *MockVoice) ListenCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.listens
}
