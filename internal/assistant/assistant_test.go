package assistant

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Amogh-Hegde/speX/internal/capture"
	"github.com/Amogh-Hegde/speX/internal/detector"
	"github.com/Amogh-Hegde/speX/internal/fact"
	"github.com/Amogh-Hegde/speX/internal/gesture"
	"github.com/Amogh-Hegde/speX/internal/identity"
	"github.com/Amogh-Hegde/speX/internal/objects"
	"github.com/Amogh-Hegde/speX/internal/reader"
	"github.com/Amogh-Hegde/speX/internal/voice"
)

// rig bundles an Assistant with all its mocked collaborators.
type rig struct {
	cam   *capture.MockCamera
	vc    *voice.MockVoice
	faces *detector.MockFaceDetector
	hands *detector.MockHandDetector
	objs  *detector.MockObjectDetector
	ocr   *detector.MockTextReader
	a     *Assistant
}

func newRig(t *testing.T, script ...string) *rig {
	t.Helper()

	r := &rig{
		cam:   capture.NewMockCamera(nil, false),
		vc:    voice.NewMockVoice(script...),
		faces: &detector.MockFaceDetector{},
		hands: &detector.MockHandDetector{},
		objs:  &detector.MockObjectDetector{},
		ocr:   &detector.MockTextReader{},
	}
	if err := r.cam.Open(); err != nil {
		t.Fatalf("open mock camera: %v", err)
	}

	gallery := identity.NewGallery([]identity.Known{
		{ID: "1", Name: "Asha", Relation: "sister", Embedding: []float64{0, 0, 0, 0}},
	})

	r.a = New(Config{
		Camera:   r.cam,
		Voice:    r.vc,
		Faces:    r.faces,
		Hands:    r.hands,
		Objects:  r.objs,
		Reader:   reader.New(r.ocr),
		Resolver: identity.NewResolver(gallery, identity.Config{}),
		Gestures: gesture.NewClassifier(gesture.Config{}),
		Triage:   objects.NewTriage(objects.Config{}),
	})
	return r
}

func ashaFace() detector.FaceDetection {
	return detector.FaceDetection{
		Embedding: []float64{0.1, 0, 0, 0},
		Region:    detector.Region{X: 100, Y: 80, W: 60, H: 60},
	}
}

func strangerFace() detector.FaceDetection {
	return detector.FaceDetection{
		Embedding: []float64{3, 3, 3, 3},
		Region:    detector.Region{X: 20, Y: 20, W: 60, H: 60},
	}
}

func personBox() detector.ObjectDetection {
	return detector.ObjectDetection{
		Label:      "person",
		Confidence: 0.9,
		Region:     detector.Region{X: 250, Y: 150, W: 140, H: 260},
	}
}

func spokenJoined(v *voice.MockVoice) string {
	return strings.Join(v.Spoken(), " | ")
}

func TestDispatch_WhoIdentifiesPeople(t *testing.T) {
	r := newRig(t)
	r.faces.Faces = []detector.FaceDetection{ashaFace()}

	if exit := r.a.Dispatch("who is this"); exit {
		t.Fatal("who must not end the session")
	}

	if got := spokenJoined(r.vc); !strings.Contains(got, "your sister Asha") {
		t.Errorf("expected Asha announced, spoke: %q", got)
	}
}

func TestDispatch_WhatDescribesObjects(t *testing.T) {
	r := newRig(t)
	r.objs.Objects = []detector.ObjectDetection{personBox()}

	r.a.Dispatch("what do you see")

	got := spokenJoined(r.vc)
	if !strings.Contains(got, "Important: person") {
		t.Errorf("expected the person in an Important clause, spoke: %q", got)
	}
}

func TestDispatch_ReadSpeaksText(t *testing.T) {
	r := newRig(t)
	r.ocr.Result = detector.TextResult{Text: "Platform 2", Confidence: 0.9}

	r.a.Dispatch("read the sign")

	if got := spokenJoined(r.vc); !strings.Contains(got, "The text says: Platform 2") {
		t.Errorf("expected the text spoken, got %q", got)
	}
	if r.ocr.LastMode != detector.ModeSign {
		t.Errorf("expected sign mode selected, got %q", r.ocr.LastMode)
	}
}

func TestDispatch_DescribeWinsOverSee(t *testing.T) {
	// "describe what you see" contains both routing keywords; it must route
	// to the full description, which includes faces.
	r := newRig(t)
	r.faces.Faces = []detector.FaceDetection{ashaFace()}
	r.objs.Objects = []detector.ObjectDetection{personBox()}

	r.a.Dispatch("describe what you see")

	got := spokenJoined(r.vc)
	if !strings.Contains(got, "your sister Asha") {
		t.Errorf("expected faces in a full description, spoke: %q", got)
	}
	if !strings.Contains(got, "person") {
		t.Errorf("expected objects in a full description, spoke: %q", got)
	}
}

func TestDispatch_Help(t *testing.T) {
	r := newRig(t)
	r.a.Dispatch("help")
	if got := spokenJoined(r.vc); !strings.Contains(got, "several ways") {
		t.Errorf("expected the help text, spoke: %q", got)
	}
}

func TestDispatch_Exit(t *testing.T) {
	r := newRig(t)
	if exit := r.a.Dispatch("exit please"); !exit {
		t.Fatal("expected exit to end the session")
	}
	if got := spokenJoined(r.vc); !strings.Contains(got, "Goodbye") {
		t.Errorf("expected a goodbye, spoke: %q", got)
	}
}

func TestDispatch_UnmatchedIsSilent(t *testing.T) {
	r := newRig(t)
	if exit := r.a.Dispatch("banana banana"); exit {
		t.Fatal("unmatched command must not exit")
	}
	if n := len(r.vc.Spoken()); n != 0 {
		t.Errorf("expected silence for unmatched commands, spoke %d things", n)
	}
}

func TestDispatch_EmptyCommand(t *testing.T) {
	r := newRig(t)
	if r.a.Dispatch("") {
		t.Fatal("empty command must not exit")
	}
	if n := len(r.vc.Spoken()); n != 0 {
		t.Errorf("expected silence for an empty command, spoke %d things", n)
	}
}

func TestDispatch_DetectorFailureApologizes(t *testing.T) {
	r := newRig(t)
	r.faces.Err = errors.New("worker gone")

	r.a.Dispatch("who is there")

	if got := spokenJoined(r.vc); !strings.Contains(got, "ran into a problem") {
		t.Errorf("expected an apology, spoke: %q", got)
	}
}

func TestDispatch_CaptureFailureSpeaksNoView(t *testing.T) {
	r := newRig(t)
	r.cam.FailWith(errors.New("sensor fault"))

	r.a.Dispatch("who is there")

	if got := spokenJoined(r.vc); !strings.Contains(got, "clear view") {
		t.Errorf("expected the no-view phrase, spoke: %q", got)
	}
}

func TestDispatch_GestureWatch(t *testing.T) {
	// First listen hears nothing so one frame is sampled, then "stop" ends
	// the session.
	r := newRig(t, "", "stop now")
	r.hands.Hands = []detector.HandLandmarks{detector.ThumbsUpLandmarks()}

	r.a.Dispatch("watch for gestures")

	got := spokenJoined(r.vc)
	if !strings.Contains(got, "Watching for gestures") {
		t.Errorf("expected the watch prompt, spoke: %q", got)
	}
	if !strings.Contains(got, "thumbs up") {
		t.Errorf("expected the thumbs up announced, spoke: %q", got)
	}
	if !strings.Contains(got, "Stopped watching") {
		t.Errorf("expected the stop confirmation, spoke: %q", got)
	}
}

func TestCheckImportantChanges(t *testing.T) {
	tests := []struct {
		name  string
		objs  []objects.Detection
		recs  []identity.Recognition
		gests []string
		want  bool
	}{
		{name: "nothing", want: false},
		{
			name: "high tier object",
			objs: []objects.Detection{{Label: "car", Tier: fact.TierHigh}},
			want: true,
		},
		{
			name: "low tier object only",
			objs: []objects.Detection{{Label: "cup", Tier: fact.TierLow}},
			want: false,
		},
		{
			name: "unknown face",
			recs: []identity.Recognition{{Name: identity.UnknownName}},
			want: true,
		},
		{
			name: "known face only",
			recs: []identity.Recognition{{Name: "Asha", Known: true}},
			want: false,
		},
		{
			name:  "urgent gesture",
			gests: []string{gesture.GestureWave},
			want:  true,
		},
		{
			name:  "calm gesture",
			gests: []string{gesture.GesturePeace},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkImportantChanges(tt.objs, tt.recs, tt.gests); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDescribeScene(t *testing.T) {
	objs := []objects.Detection{{Label: "person", Location: "in the center middle, nearby", Tier: fact.TierHigh}}
	recs := []identity.Recognition{{Description: "your sister Asha", Known: true}}
	gests := []string{gesture.GestureWave}

	got := describeScene(objs, recs, gests)
	for _, want := range []string{"your sister Asha", "Important: person", "someone is waving"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in scene description %q", want, got)
		}
	}

	if got := describeScene(nil, nil, nil); got != "Nothing detected right now." {
		t.Errorf("expected empty-scene fallback, got %q", got)
	}
}

func TestDescribeScene_MostPressingClauseFirst(t *testing.T) {
	// A known face ranks normal; a high-tier object must be spoken first.
	objs := []objects.Detection{{Label: "car", Location: "on the right middle, nearby", Tier: fact.TierHigh}}
	recs := []identity.Recognition{{Description: "your sister Asha", Known: true}}

	got := describeScene(objs, recs, nil)
	carAt := strings.Index(got, "Important: car")
	ashaAt := strings.Index(got, "your sister Asha")
	if carAt < 0 || ashaAt < 0 {
		t.Fatalf("missing clauses in %q", got)
	}
	if carAt > ashaAt {
		t.Errorf("expected the high-tier object clause first, got %q", got)
	}

	// A stranger outranks low-tier objects.
	objs = []objects.Detection{{Label: "cup", Location: "on the left bottom, further away", Tier: fact.TierLow}}
	recs = []identity.Recognition{{Description: "someone I don't recognize"}}

	got = describeScene(objs, recs, nil)
	strangerAt := strings.Index(got, "don't recognize")
	cupAt := strings.Index(got, "cup")
	if strangerAt < 0 || cupAt < 0 {
		t.Fatalf("missing clauses in %q", got)
	}
	if strangerAt > cupAt {
		t.Errorf("expected the stranger clause first, got %q", got)
	}
}

func TestEnqueueFact_DropsOldestUnderPressure(t *testing.T) {
	r := newRig(t)

	for i := 0; i < factQueueSize+1; i++ {
		r.a.enqueueFact(fact.Fact{Text: string(rune('a' + i))})
	}

	first := <-r.a.facts
	if first.Text != "b" {
		t.Errorf("expected the oldest fact dropped, head of queue is %q", first.Text)
	}
	if len(r.a.facts) != factQueueSize-1 {
		t.Errorf("expected a full queue minus the head, got %d", len(r.a.facts))
	}
}

func TestRun_ExitCommandEndsSession(t *testing.T) {
	r := newRig(t, "exit")

	errCh := make(chan error, 1)
	go func() { errCh <- r.a.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end on exit")
	}

	spoken := r.vc.Spoken()
	if len(spoken) < 2 {
		t.Fatalf("expected welcome and goodbye, spoke %v", spoken)
	}
	if !strings.Contains(spoken[0], "Hello") {
		t.Errorf("expected the welcome first, got %q", spoken[0])
	}
	if !strings.Contains(spoken[len(spoken)-1], "Goodbye") {
		t.Errorf("expected the goodbye last, got %q", spoken[len(spoken)-1])
	}
	if r.cam.IsOpen() {
		t.Error("expected the camera released on shutdown")
	}
}

func TestRunMonitor_IdleTimeoutShutsDownOnce(t *testing.T) {
	r := newRig(t)
	r.a.cfg.MonitorInterval = 5 * time.Millisecond
	r.a.cfg.IdleTimeout = 30 * time.Millisecond

	errCh := make(chan error, 1)
	go func() { errCh <- r.a.RunMonitor() }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run monitor: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not end on idle timeout")
	}

	if got := spokenJoined(r.vc); !strings.Contains(got, "sleep mode") {
		t.Errorf("expected the sleep announcement, spoke: %q", got)
	}
	if r.cam.IsOpen() {
		t.Error("expected the camera released on shutdown")
	}

	// A second shutdown must be a no-op, not a double close.
	r.a.Shutdown()
	select {
	case <-r.a.Done():
	default:
		t.Error("expected Done closed after shutdown")
	}
}

func TestMonitor_AnnouncesUnknownFace(t *testing.T) {
	r := newRig(t)
	r.a.cfg.MonitorInterval = 5 * time.Millisecond
	r.faces.Faces = []detector.FaceDetection{strangerFace()}

	go r.a.RunMonitor()
	defer r.a.Shutdown()

	deadline := time.After(2 * time.Second)
	for {
		if strings.Contains(spokenJoined(r.vc), "don't recognize") {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("stranger never announced, spoke: %q", spokenJoined(r.vc))
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// The monitor goroutine and the command loop share the modality modules'
// rolling state; this exercises both paths concurrently so the race
// detector can vouch for the serialization.
func TestMonitorAndDispatchShareModulesSafely(t *testing.T) {
	r := newRig(t)
	r.a.cfg.MonitorInterval = time.Millisecond
	r.faces.Faces = []detector.FaceDetection{strangerFace()}
	r.objs.Objects = []detector.ObjectDetection{personBox()}
	r.hands.Hands = []detector.HandLandmarks{detector.OpenPalmLandmarks()}

	go r.a.monitor()

	for i := 0; i < 50; i++ {
		r.a.Dispatch("describe the environment")
		r.a.Dispatch("who is here")
		r.a.Dispatch("what do you see")
	}

	r.a.Shutdown()
	select {
	case <-r.a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown never finished")
	}
}

func TestRun_RepromptsOnUnintelligibleSpeech(t *testing.T) {
	r := newRig(t, voice.ScriptUnintelligible, "exit")

	errCh := make(chan error, 1)
	go func() { errCh <- r.a.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end")
	}

	if got := spokenJoined(r.vc); !strings.Contains(got, "I didn't catch that. Could you please repeat?") {
		t.Errorf("expected a re-prompt for garbled speech, spoke: %q", got)
	}
}

func TestRun_StaysSilentOnPlainSilence(t *testing.T) {
	// Silence is not garbled speech; no re-prompt, just the welcome and the
	// goodbye.
	r := newRig(t, "", "exit")

	errCh := make(chan error, 1)
	go func() { errCh <- r.a.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end")
	}

	if got := spokenJoined(r.vc); strings.Contains(got, "didn't catch that") {
		t.Errorf("silence must not trigger a re-prompt, spoke: %q", got)
	}
}

func TestMonitor_StaysQuietOnOrdinaryScene(t *testing.T) {
	r := newRig(t)
	r.a.cfg.MonitorInterval = 5 * time.Millisecond
	r.objs.Objects = []detector.ObjectDetection{{
		Label:      "cup",
		Confidence: 0.9,
		Region:     detector.Region{X: 10, Y: 10, W: 40, H: 40},
	}}

	go r.a.RunMonitor()
	time.Sleep(100 * time.Millisecond)
	r.a.Shutdown()
	<-r.a.Done()

	if got := spokenJoined(r.vc); got != "" {
		t.Errorf("expected silence for a low-priority scene, spoke: %q", got)
	}
}
