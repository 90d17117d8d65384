package assistant

import (
	"log"
	"strings"
	"time"

	"github.com/Amogh-Hegde/speX/internal/gesture"
	"github.com/Amogh-Hegde/speX/internal/identity"
	"github.com/Amogh-Hegde/speX/internal/objects"
	"github.com/Amogh-Hegde/speX/internal/reader"
	"github.com/Amogh-Hegde/speX/internal/voice"
)

const helpText = "I can help you in several ways: " +
	"Say 'who' or 'recognize' to identify people. " +
	"Say 'what' or 'see' to describe objects around you. " +
	"Say 'read' to read text, with options for signs, labels, or displays. " +
	"Say 'gesture' to watch for hand gestures. " +
	"Say 'describe environment' for a complete description. " +
	"Or say 'exit' to close the program."

const apologyText = "I ran into a problem with that. Please try again."
const noViewText = "I couldn't get a clear view just now."

// Dispatch routes one recognized utterance to exactly one modality. It
// returns true when the session should end. Unmatched utterances are
// silently ignored. An unexpected failure inside a handler becomes a spoken
// apology, never a crash.
func (a *Assistant) Dispatch(command string) (exit bool) {
	if command == "" {
		return false
	}

	a.touchActivity()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("command %q panicked: %v", command, r)
			a.speak(apologyText)
		}
	}()

	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(command, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("who", "recognize"):
		a.describePeople()
	case has("read"):
		a.readText(command)
	case has("gesture", "movement"):
		a.watchGestures()
	case has("describe", "environment", "surroundings"):
		a.describeEverything()
	case has("what", "see"):
		a.describeObjects()
	case has("help"):
		a.speak(helpText)
	case has("exit"):
		a.speak("Goodbye! Stay safe!")
		return true
	}

	return false
}

// describePeople answers the identity query.
func (a *Assistant) describePeople() {
	frame, err := a.CaptureFrame()
	if err != nil {
		a.speak(noViewText)
		return
	}
	defer frame.Close()

	faces, err := a.cfg.Faces.Detect(frame)
	if err != nil {
		log.Printf("face detection error: %v", err)
		a.speak(apologyText)
		return
	}

	a.modMu.Lock()
	recs := a.cfg.Resolver.Resolve(faces)
	a.modMu.Unlock()

	a.speak(identity.Describe(recs))
}

// describeObjects answers the object query.
func (a *Assistant) describeObjects() {
	frame, err := a.CaptureFrame()
	if err != nil {
		a.speak(noViewText)
		return
	}
	defer frame.Close()

	raw, err := a.cfg.Objects.Detect(frame)
	if err != nil {
		log.Printf("object detection error: %v", err)
		a.speak(apologyText)
		return
	}

	a.modMu.Lock()
	dets := a.cfg.Triage.Process(raw, frame.Width, frame.Height)
	a.modMu.Unlock()

	a.speak(objects.Describe(dets))
}

// readText answers the text query; sub-mode keywords in the command select
// the OCR preprocessing.
func (a *Assistant) readText(command string) {
	frame, err := a.CaptureFrame()
	if err != nil {
		a.speak(noViewText)
		return
	}
	defer frame.Close()

	mode := reader.ModeFromCommand(command)
	text, err := a.cfg.Reader.Read(frame, mode)
	if err != nil {
		log.Printf("text reading error: %v", err)
		a.speak(apologyText)
		return
	}

	a.speak(text)
}

// describeEverything answers the full environment query.
func (a *Assistant) describeEverything() {
	frame, err := a.CaptureFrame()
	if err != nil {
		a.speak(noViewText)
		return
	}

	objs, recs, gests := a.observe(frame)
	frame.Close()

	a.speak(describeScene(objs, recs, gests))
}

// gestureWatchListen is the short listen window between samples in a watch
// session; it doubles as the pacing delay.
const gestureWatchListen = 1 * time.Second

// watchGestures runs a gesture-watch session: it keeps sampling frames and
// announcing gestures until the user says stop. This intentionally blocks
// the command loop; the session ends on "stop", on shutdown, or when the
// session idle timeout would have fired.
func (a *Assistant) watchGestures() {
	a.speak("Watching for gestures. Say stop when done.")

	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		heard, err := a.cfg.Voice.Listen(gestureWatchListen, a.cfg.PhraseLimit)
		if err == nil && strings.Contains(heard, "stop") {
			a.speak("Stopped watching for gestures.")
			return
		}
		if err != nil && err != voice.ErrNoSpeech && err != voice.ErrUnintelligible {
			log.Printf("listen error: %v", err)
		}

		if a.idleFor() > a.cfg.IdleTimeout {
			return
		}

		frame, err := a.CaptureFrame()
		if err != nil {
			continue
		}

		hands, err := a.cfg.Hands.Detect(frame)
		frame.Close()
		if err != nil {
			log.Printf("hand detection error: %v", err)
			continue
		}

		a.modMu.Lock()
		gests := a.cfg.Gestures.Detect(hands)
		a.modMu.Unlock()

		if len(gests) > 0 {
			a.touchActivity()
			a.speak(gesture.Describe(gests))
		}
	}
}
