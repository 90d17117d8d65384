package gesture

import "strings"

// phrases maps internal gesture labels to spoken clauses. This is purely a
// presentation table; matching never consults it.
var phrases = map[string]string{
	GestureWave:       "someone is waving",
	GestureThumbsUp:   "a thumbs up, indicating approval",
	GestureThumbsDown: "a thumbs down, indicating disapproval",
	GesturePeace:      "a peace sign",
	GestureOpenPalm:   "an open palm, possibly saying hello or stop",
	GesturePointing:   "someone is pointing",
	GestureNamaste:    "someone is greeting with namaste",
	GestureStop:       "no gestures currently detected",
}

// Phrase returns the spoken clause for a gesture label. Unrecognized labels
// become a generic phrase rather than leaking internal names.
func Phrase(gesture string) string {
	if p, ok := phrases[gesture]; ok {
		return p
	}
	return "an unknown gesture"
}

// Describe turns a list of gesture labels into a single utterance.
func Describe(gestures []string) string {
	if len(gestures) == 0 {
		return "No gestures detected"
	}
	parts := make([]string, len(gestures))
	for i, g := range gestures {
		parts[i] = Phrase(g)
	}
	return strings.Join(parts, ". ")
}
