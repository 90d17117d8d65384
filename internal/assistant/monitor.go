package assistant

import (
	"log"
	"time"

	"github.com/Amogh-Hegde/speX/internal/capture"
	"github.com/Amogh-Hegde/speX/internal/fact"
	"github.com/Amogh-Hegde/speX/internal/gesture"
	"github.com/Amogh-Hegde/speX/internal/identity"
	"github.com/Amogh-Hegde/speX/internal/objects"
)

// urgentGestures are the gestures the monitor announces unprompted: a wave
// or an open palm directed at the camera reads as a bid for attention.
var urgentGestures = map[string]bool{
	gesture.GestureWave:     true,
	gesture.GestureOpenPalm: true,
}

// monitor is the background polling loop. It captures one frame per tick,
// runs all modalities over it and raises a fact only when something needs
// immediate attention. It also enforces the session idle timeout.
func (a *Assistant) monitor() {
	ticker := time.NewTicker(a.cfg.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
		}

		if a.idleFor() > a.cfg.IdleTimeout {
			a.speak("No activity detected for a while. Going to sleep mode.")
			a.Shutdown()
			return
		}

		frame, err := a.CaptureFrame()
		if err != nil {
			// A failed capture is no new information this cycle.
			continue
		}

		if a.cfg.Motion != nil {
			if moved, _ := a.cfg.Motion.Detect(frame); !moved {
				frame.Close()
				continue
			}
		}

		objs, recs, gests := a.observe(frame)
		frame.Close()

		if checkImportantChanges(objs, recs, gests) {
			a.enqueueFact(fact.Fact{
				Text:     describeScene(objs, recs, gests),
				Tier:     fact.TierHigh,
				Modality: "monitor",
				At:       a.now(),
			})
		}
	}
}

// observe runs all three recognition modules over one frame. An adapter
// failure degrades to an empty result for that modality.
func (a *Assistant) observe(frame *capture.Frame) ([]objects.Detection, []identity.Recognition, []string) {
	a.modMu.Lock()
	defer a.modMu.Unlock()

	var objs []objects.Detection
	if raw, err := a.cfg.Objects.Detect(frame); err != nil {
		log.Printf("object detection error: %v", err)
	} else {
		objs = a.cfg.Triage.Process(raw, frame.Width, frame.Height)
	}

	var recs []identity.Recognition
	if faces, err := a.cfg.Faces.Detect(frame); err != nil {
		log.Printf("face detection error: %v", err)
	} else {
		recs = a.cfg.Resolver.Resolve(faces)
	}

	var gests []string
	if hands, err := a.cfg.Hands.Detect(frame); err != nil {
		log.Printf("hand detection error: %v", err)
	} else {
		gests = a.cfg.Gestures.Detect(hands)
	}

	return objs, recs, gests
}

// checkImportantChanges decides whether the scene warrants an unprompted
// announcement: a high-priority object, an unrecognized face, or an urgent
// gesture.
func checkImportantChanges(objs []objects.Detection, recs []identity.Recognition, gests []string) bool {
	for _, o := range objs {
		if o.Tier == fact.TierHigh {
			return true
		}
	}
	for _, r := range recs {
		if !r.Known {
			return true
		}
	}
	for _, g := range gests {
		if urgentGestures[g] {
			return true
		}
	}
	return false
}

// sceneFacts builds one prioritized fact per modality with anything to say.
// Each clause ranks by the most pressing thing inside it: a stranger, the
// highest object tier present, an urgent gesture.
func sceneFacts(objs []objects.Detection, recs []identity.Recognition, gests []string) []fact.Fact {
	var facts []fact.Fact

	if len(recs) > 0 {
		tier := fact.TierNormal
		for _, r := range recs {
			if !r.Known {
				tier = fact.TierHigh
				break
			}
		}
		facts = append(facts, fact.Fact{Text: identity.Describe(recs), Tier: tier, Modality: "identity"})
	}

	if len(objs) > 0 {
		tier := fact.TierNormal
		for _, f := range objects.Facts(objs) {
			if f.Tier < tier {
				tier = f.Tier
			}
		}
		facts = append(facts, fact.Fact{Text: objects.Describe(objs), Tier: tier, Modality: "objects"})
	}

	if len(gests) > 0 {
		tier := fact.TierNormal
		for _, g := range gests {
			if urgentGestures[g] {
				tier = fact.TierHigh
				break
			}
		}
		facts = append(facts, fact.Fact{Text: gesture.Describe(gests), Tier: tier, Modality: "gesture"})
	}

	return facts
}

// describeScene merges all modalities into one environment description,
// most pressing clause first.
func describeScene(objs []objects.Detection, recs []identity.Recognition, gests []string) string {
	s := fact.Sentence(sceneFacts(objs, recs, gests))
	if s == "" {
		return "Nothing detected right now."
	}
	return s
}
