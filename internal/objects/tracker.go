package objects

import "time"

// trackedEntry is one historical sighting of a label.
type trackedEntry struct {
	at  time.Time
	det Detection
}

// track appends this frame's detections to the per-label history and purges
// entries older than the retention window. Labels with empty histories after
// the purge are removed entirely.
func (t *Triage) track(dets []Detection) {
	now := t.now()

	for _, d := range dets {
		t.tracker[d.Label] = append(t.tracker[d.Label], trackedEntry{at: now, det: d})
	}

	cutoff := now.Add(-t.retention)
	for label, entries := range t.tracker {
		kept := entries[:0]
		for _, e := range entries {
			if e.at.After(cutoff) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(t.tracker, label)
		} else {
			t.tracker[label] = kept
		}
	}
}

// Seen reports whether the label has a sighting within the retention window
// and when it was last seen. Safe to call between updates; purging only
// happens during Process.
func (t *Triage) Seen(label string) (time.Time, bool) {
	entries := t.tracker[label]
	cutoff := t.now().Add(-t.retention)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].at.After(cutoff) {
			return entries[i].at, true
		}
	}
	return time.Time{}, false
}

// TrackedLabels returns the labels with non-empty history, for diagnostics.
func (t *Triage) TrackedLabels() []string {
	labels := make([]string, 0, len(t.tracker))
	for l := range t.tracker {
		labels = append(labels, l)
	}
	return labels
}
