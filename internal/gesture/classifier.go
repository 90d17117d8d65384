package gesture

import (
	"math"
	"time"

	"github.com/Amogh-Hegde/speX/internal/detector"
)

// Gesture labels produced by the classifier.
const (
	GestureWave       = "wave"
	GestureThumbsUp   = "thumbs_up"
	GestureThumbsDown = "thumbs_down"
	GesturePeace      = "peace"
	GestureOpenPalm   = "open_palm"
	GesturePointing   = "pointing"
	GestureNamaste    = "namaste"

	// GestureStop is the synthetic event emitted exactly once when gesturing
	// stops for longer than the inactivity threshold.
	GestureStop = "gesture_stop"
)

// Default classifier tuning.
const (
	// DefaultInactivity is how long without a detected hand before the
	// classifier reports GestureStop and goes idle.
	DefaultInactivity = 2 * time.Second
	// DefaultHistorySize bounds the rolling angle buffer.
	DefaultHistorySize = 30
	// DefaultWaveVariance is the index-angle variance (degrees squared)
	// above which motion reads as a wave.
	DefaultWaveVariance = 500
	// DefaultNamasteTolerance is the maximum angle difference in degrees
	// between the two most recent samples for hands to count as pressed
	// together.
	DefaultNamasteTolerance = 20
	// waveMinSamples is the minimum history depth before wave detection runs.
	waveMinSamples = 10
)

// Config tunes a Classifier. Zero values fall back to the defaults above.
type Config struct {
	Inactivity       time.Duration
	HistorySize      int
	WaveVariance     float64
	NamasteTolerance float64
}

// Classifier turns per-frame hand landmarks into gesture labels. It is a
// two-state machine: ACTIVE while hands were seen within the inactivity
// threshold, IDLE after. The ACTIVE to IDLE transition emits GestureStop
// once, never repeatedly while idle.
//
// Classifier is confined to a single goroutine; the coordinator owns it.
type Classifier struct {
	history          *History
	inactivity       time.Duration
	waveVariance     float64
	namasteTolerance float64

	lastSeen     time.Time
	lastDetected string

	now func() time.Time
}

// NewClassifier creates a Classifier with the given config.
func NewClassifier(cfg Config) *Classifier {
	if cfg.Inactivity <= 0 {
		cfg.Inactivity = DefaultInactivity
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.WaveVariance <= 0 {
		cfg.WaveVariance = DefaultWaveVariance
	}
	if cfg.NamasteTolerance <= 0 {
		cfg.NamasteTolerance = DefaultNamasteTolerance
	}

	now := time.Now
	return &Classifier{
		history:          NewHistory(cfg.HistorySize),
		inactivity:       cfg.Inactivity,
		waveVariance:     cfg.WaveVariance,
		namasteTolerance: cfg.NamasteTolerance,
		lastSeen:         now(),
		now:              now,
	}
}

// Detect classifies the hands found in one frame. It returns at most one
// gesture label per hand, or the single GestureStop sentinel on the
// ACTIVE to IDLE transition.
func (c *Classifier) Detect(hands []detector.HandLandmarks) []string {
	now := c.now()

	// The idle transition fires before this frame's hands are considered,
	// so a hand reappearing after a long gap first closes out the previous
	// gesture session.
	if now.Sub(c.lastSeen) > c.inactivity && c.lastDetected != "" {
		c.lastDetected = ""
		return []string{GestureStop}
	}

	if len(hands) == 0 {
		return nil
	}

	c.lastSeen = now

	var detected []string
	for i := range hands {
		if g := c.classify(&hands[i], len(hands)); g != "" {
			detected = append(detected, g)
		}
	}

	if len(detected) > 0 {
		c.lastDetected = detected[len(detected)-1]
	}

	return detected
}

// classify returns one gesture label for a single hand, or empty.
func (c *Classifier) classify(hand *detector.HandLandmarks, handCount int) string {
	angles := FingertipAngles(hand)
	states := ReadFingerStates(hand)

	// Motion check runs first: a waving hand passes through many static
	// poses that must not win over the wave.
	c.history.Push(angles[Index])
	if c.history.Len() >= waveMinSamples && c.history.Variance() > c.waveVariance {
		return GestureWave
	}

	if g := ClassifyStatic(states); g != "" {
		return g
	}

	// Namaste needs two concurrently detected hands holding still; the
	// angle-difference check alone cannot tell proximity.
	if handCount >= 2 && c.history.Len() >= 2 {
		recent := c.history.Last(2)
		if math.Abs(recent[1]-recent[0]) < c.namasteTolerance {
			return GestureNamaste
		}
	}

	return ""
}

// ClassifyStatic maps a finger-state vector to a static gesture with fixed
// precedence, first matching rule wins. The five trigger conditions are
// mutually exclusive, so precedence only fixes the scan order.
func ClassifyStatic(s FingerStates) string {
	switch {
	case s[Thumb] && !s[Index] && !s[Middle] && !s[Ring] && !s[Pinky]:
		return GestureThumbsUp
	case !s[Thumb] && !s[Index] && !s[Middle] && !s[Ring] && !s[Pinky]:
		return GestureThumbsDown
	case s[Index] && s[Middle] && !s[Ring] && !s[Pinky]:
		return GesturePeace
	case s[Thumb] && s[Index] && s[Middle] && s[Ring] && s[Pinky]:
		return GestureOpenPalm
	case s[Index] && !s[Middle] && !s[Ring] && !s[Pinky]:
		return GesturePointing
	}
	return ""
}

// Reset clears the rolling history and the debouncer memory.
func (c *Classifier) Reset() {
	c.history.Reset()
	c.lastDetected = ""
	c.lastSeen = c.now()
}
