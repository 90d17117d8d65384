// Package gesture classifies transient hand geometry into stable gesture
// events: rule-based static poses, motion-derived gestures over a rolling
// history, and an ACTIVE/IDLE debouncer that reports the end of gesturing
// exactly once.
package gesture

import (
	"math"

	"github.com/Amogh-Hegde/speX/internal/detector"
)

// Finger indexes into FingerStates and Angles.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// FingerStates holds one extended/flexed flag per finger.
type FingerStates [NumFingers]bool

// fingerChains lists tip, middle and base joint per finger, in the order the
// extension test walks them.
var fingerChains = [NumFingers][3]int{
	Thumb:  {detector.ThumbTip, detector.ThumbIP, detector.ThumbMCP},
	Index:  {detector.IndexTip, detector.IndexDIP, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddleDIP, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingDIP, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyDIP, detector.PinkyPIP},
}

// ReadFingerStates derives the extended flag for each finger. A finger is
// extended when its tip sits above its middle joint, which sits above its
// base joint (image Y grows downward).
func ReadFingerStates(h *detector.HandLandmarks) FingerStates {
	var states FingerStates
	for f, chain := range fingerChains {
		tip := h.Points[chain[0]]
		mid := h.Points[chain[1]]
		base := h.Points[chain[2]]
		states[f] = tip.Y < mid.Y && mid.Y < base.Y
	}
	return states
}

// Angles holds one fingertip angle in degrees per finger, measured from the
// wrist. Only motion-based gestures consume them.
type Angles [NumFingers]float64

var fingerTips = [NumFingers]int{
	Thumb:  detector.ThumbTip,
	Index:  detector.IndexTip,
	Middle: detector.MiddleTip,
	Ring:   detector.RingTip,
	Pinky:  detector.PinkyTip,
}

// FingertipAngles computes the angle of each fingertip relative to the wrist.
func FingertipAngles(h *detector.HandLandmarks) Angles {
	var angles Angles
	wrist := h.Points[detector.Wrist]
	for f, tip := range fingerTips {
		p := h.Points[tip]
		angles[f] = math.Atan2(p.Y-wrist.Y, p.X-wrist.X) * 180 / math.Pi
	}
	return angles
}
