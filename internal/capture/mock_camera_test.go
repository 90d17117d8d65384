package capture

import (
	"errors"
	"testing"
)

func TestMockCamera_Playback(t *testing.T) {
	frames := []*Frame{BlankFrame(320, 240), BlankFrame(640, 480)}
	cam := NewMockCamera(frames, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !cam.IsOpen() {
		t.Fatal("expected camera open")
	}

	for i, want := range frames {
		got, err := cam.Capture()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got.Width != want.Width || got.Height != want.Height {
			t.Errorf("frame %d: expected %dx%d, got %dx%d", i, want.Width, want.Height, got.Width, got.Height)
		}
	}

	if _, err := cam.Capture(); err == nil {
		t.Error("expected error once the script is exhausted")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewMockCamera([]*Frame{BlankFrame(320, 240)}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := cam.Capture(); err != nil {
			t.Fatalf("loop capture %d: %v", i, err)
		}
	}
}

func TestMockCamera_ClosedCapture(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if _, err := cam.Capture(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestMockCamera_FailWith(t *testing.T) {
	cam := NewMockCamera(nil, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	boom := errors.New("sensor fault")
	cam.FailWith(boom)
	if _, err := cam.Capture(); !errors.Is(err, boom) {
		t.Errorf("expected injected failure, got %v", err)
	}

	cam.FailWith(nil)
	if _, err := cam.Capture(); err != nil {
		t.Errorf("expected recovery after clearing the failure, got %v", err)
	}
}

func TestMockCamera_NoScriptYieldsBlankFrames(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	frame, err := cam.Capture()
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if frame.Width != DefaultWidth || frame.Height != DefaultHeight {
		t.Errorf("expected default dimensions, got %dx%d", frame.Width, frame.Height)
	}
}
