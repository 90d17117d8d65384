package voice

import (
	"errors"
	"testing"
	"time"
)

func TestMockVoice_ScriptPlayback(t *testing.T) {
	v := NewMockVoice("who is this", "", "exit")

	got, err := v.Listen(time.Second, time.Second)
	if err != nil || got != "who is this" {
		t.Fatalf("first listen: got %q, %v", got, err)
	}

	// An empty script entry models a silent interval.
	if _, err := v.Listen(time.Second, time.Second); !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("second listen: expected ErrNoSpeech, got %v", err)
	}

	got, err = v.Listen(time.Second, time.Second)
	if err != nil || got != "exit" {
		t.Fatalf("third listen: got %q, %v", got, err)
	}

	// Exhausted script stays silent forever.
	if _, err := v.Listen(time.Second, time.Second); !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("fourth listen: expected ErrNoSpeech, got %v", err)
	}

	if v.ListenCalls() != 4 {
		t.Errorf("expected 4 listen calls, got %d", v.ListenCalls())
	}
}

func TestMockVoice_UnintelligibleEntry(t *testing.T) {
	v := NewMockVoice(ScriptUnintelligible, "hello")

	if _, err := v.Listen(time.Second, time.Second); !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible, got %v", err)
	}

	got, err := v.Listen(time.Second, time.Second)
	if err != nil || got != "hello" {
		t.Fatalf("expected the script to continue after garbled speech, got %q, %v", got, err)
	}
}

func TestMockVoice_RecordsSpeech(t *testing.T) {
	v := NewMockVoice()
	if err := v.Speak("hello"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if err := v.Speak("goodbye"); err != nil {
		t.Fatalf("speak: %v", err)
	}

	spoken := v.Spoken()
	if len(spoken) != 2 || spoken[0] != "hello" || spoken[1] != "goodbye" {
		t.Errorf("unexpected spoken log: %v", spoken)
	}
}
