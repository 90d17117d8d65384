// Package fact defines the atomic unit of spoken output and the priority
// ordering used to arbitrate between modalities competing for the single
// voice channel.
package fact

import (
	"sort"
	"strings"
	"time"
)

// Tier ranks a fact for output ordering. Lower rank is spoken first.
type Tier int

const (
	// TierHigh is for safety and navigation relevant facts.
	TierHigh Tier = iota
	// TierMedium is for furniture and obstacles.
	TierMedium
	// TierLow is for small objects.
	TierLow
	// TierNormal is for everything unclassified.
	TierNormal
)

// String returns the tier label.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "normal"
	}
}

// Fact is one short natural-language clause ready to be spoken.
type Fact struct {
	Text     string
	Tier     Tier
	Modality string
	At       time.Time
}

// Merge orders facts from all modalities by tier. The sort is stable so
// that ties within a tier keep detection order.
func Merge(facts []Fact) []Fact {
	merged := make([]Fact, len(facts))
	copy(merged, facts)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Tier < merged[j].Tier
	})
	return merged
}

// Sentence joins merged facts into a single utterance.
func Sentence(facts []Fact) string {
	if len(facts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(facts))
	for _, f := range Merge(facts) {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	return strings.Join(parts, ". ")
}
