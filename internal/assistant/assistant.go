// Package assistant contains the central coordinator: it owns the single
// camera and the single voice channel, fans frames out to the recognition
// modules, runs the background monitoring loop and dispatches spoken
// commands.
package assistant

import (
	"log"
	"sync"
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

// Default coordinator timing.
const (
	// DefaultMonitorInterval is the background polling cadence.
	DefaultMonitorInterval = 100 * time.Millisecond
	// DefaultIdleTimeout ends the session after this much time without
	// voice interaction.
	DefaultIdleTimeout = 300 * time.Second
	// DefaultListenTimeout bounds one wait for an utterance.
	DefaultListenTimeout = 5 * time.Second
	// DefaultPhraseLimit bounds the length of one utterance.
	DefaultPhraseLimit = 5 * time.Second
	// factQueueSize bounds the queue between the monitor and the voice
	// channel; under pressure the oldest pending fact is dropped.
	factQueueSize = 16
)

// FactSink receives every announced fact, e.g. for the live status stream.
type FactSink interface {
	Publish(f fact.Fact)
}

// Config wires an Assistant. Camera, Voice and the per-modality modules are
// required; Motion and Sink are optional.
type Config struct {
	Camera  capture.Camera
	Voice   voice.Voice
	Faces   detector.FaceDetector
	Hands   detector.HandDetector
	Objects detector.ObjectDetector
	Reader  *reader.Reader

	Resolver *identity.Resolver
	Gestures *gesture.Classifier
	Triage   *objects.Triage

	Motion *capture.MotionDetector
	Sink   FactSink

	MonitorInterval time.Duration
	IdleTimeout     time.Duration
	ListenTimeout   time.Duration
	PhraseLimit     time.Duration
}

// Assistant is the coordinator. All captures go through it, all speech goes
// through it, and the recognition modules' rolling state is confined to the
// goroutine that calls into them.
type Assistant struct {
	cfg Config

	camMu   sync.Mutex
	speakMu sync.Mutex

	// modMu serializes entry into the modality modules. Their rolling state,
	// the announcement cooldowns, the gesture history and the object
	// tracker, is reached from both the monitor goroutine and the command
	// loop.
	modMu sync.Mutex

	facts  chan fact.Fact
	stopCh chan struct{}
	done   chan struct{}

	cleanup sync.Once

	activityMu   sync.Mutex
	lastActivity time.Time

	now func() time.Time
}

// New creates an Assistant with the given configuration.
func New(cfg Config) *Assistant {
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = DefaultMonitorInterval
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = DefaultListenTimeout
	}
	if cfg.PhraseLimit <= 0 {
		cfg.PhraseLimit = DefaultPhraseLimit
	}

	now := time.Now
	return &Assistant{
		cfg:          cfg,
		facts:        make(chan fact.Fact, factQueueSize),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		lastActivity: now(),
		now:          now,
	}
}

const welcomeText = "Hello! I'm your integrated assistance system. " +
	"I can help you identify people, describe objects, read text, and recognize gestures. " +
	"Say 'help' for available commands."

const repromptText = "I didn't catch that. Could you please repeat?"

// Run starts the monitoring loop and the foreground command loop, and
// blocks until the session ends via the exit command or the idle timeout.
func (a *Assistant) Run() error {
	go a.monitor()

	a.speak(welcomeText)

	for {
		select {
		case <-a.done:
			return nil
		default:
		}

		a.drainFacts()

		command, err := a.cfg.Voice.Listen(a.cfg.ListenTimeout, a.cfg.PhraseLimit)
		if err != nil {
			switch err {
			case voice.ErrNoSpeech:
				// Plain silence; waiting quietly is the polite response.
			case voice.ErrUnintelligible:
				a.speak(repromptText)
			default:
				log.Printf("listen error: %v", err)
			}
			continue
		}

		if a.Dispatch(command) {
			a.Shutdown()
			return nil
		}
	}
}

// RunMonitor runs only the background loop, draining its facts to the voice
// channel, until the idle timeout or Shutdown.
func (a *Assistant) RunMonitor() error {
	go a.monitor()

	for {
		select {
		case <-a.done:
			return nil
		case f := <-a.facts:
			a.speak(f.Text)
		}
	}
}

// CaptureFrame captures one frame through the single owned camera handle.
// The caller owns the returned frame.
func (a *Assistant) CaptureFrame() (*capture.Frame, error) {
	a.camMu.Lock()
	defer a.camMu.Unlock()
	return a.cfg.Camera.Capture()
}

// speak serializes all voice output and mirrors it to the fact sink.
func (a *Assistant) speak(text string) {
	if text == "" {
		return
	}

	a.speakMu.Lock()
	defer a.speakMu.Unlock()

	log.Printf("Assistant: %s", text)
	if err := a.cfg.Voice.Speak(text); err != nil {
		log.Printf("speak error: %v", err)
	}

	if a.cfg.Sink != nil {
		a.cfg.Sink.Publish(fact.Fact{Text: text, Tier: fact.TierNormal, At: a.now()})
	}
}

// drainFacts speaks everything the monitor queued since the last drain.
func (a *Assistant) drainFacts() {
	for {
		select {
		case f := <-a.facts:
			a.speak(f.Text)
		default:
			return
		}
	}
}

// enqueueFact hands a monitor-produced fact to the foreground loop without
// blocking; when the queue is full the oldest pending fact gives way.
func (a *Assistant) enqueueFact(f fact.Fact) {
	select {
	case a.facts <- f:
		return
	default:
	}

	select {
	case <-a.facts:
	default:
	}

	select {
	case a.facts <- f:
	default:
	}
}

// touchActivity marks the session as active, deferring the idle timeout.
func (a *Assistant) touchActivity() {
	a.activityMu.Lock()
	a.lastActivity = a.now()
	a.activityMu.Unlock()
}

func (a *Assistant) idleFor() time.Duration {
	a.activityMu.Lock()
	defer a.activityMu.Unlock()
	return a.now().Sub(a.lastActivity)
}

// Shutdown runs the cleanup sequence exactly once: stop the monitor, flush
// pending announcements, release the camera and the collaborators. Both
// termination paths, the exit command and the idle timeout, end up here.
func (a *Assistant) Shutdown() {
	a.cleanup.Do(func() {
		close(a.stopCh)

		a.drainFacts()

		if err := a.cfg.Camera.Close(); err != nil {
			log.Printf("error closing camera: %v", err)
		}
		if a.cfg.Motion != nil {
			a.cfg.Motion.Close()
		}

		closers := []struct {
			name string
			fn   func() error
		}{
			{"face detector", a.cfg.Faces.Close},
			{"hand detector", a.cfg.Hands.Close},
			{"object detector", a.cfg.Objects.Close},
			{"text reader", a.cfg.Reader.Close},
			{"voice", a.cfg.Voice.Close},
		}
		for _, c := range closers {
			if err := c.fn(); err != nil {
				log.Printf("error closing %s: %v", c.name, err)
			}
		}

		close(a.done)
		log.Println("Session ended")
	})
}

// Done is closed once cleanup has finished.
func (a *Assistant) Done() <-chan struct{} {
	return a.done
}
