package identity

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Amogh-Hegde/speX/internal/detector"
)

// Default recognition tuning.
const (
	// DefaultThreshold is the maximum embedding distance for a match;
	// lower means stricter matching.
	DefaultThreshold = 0.6
	// DefaultCooldown is the minimum time between two announcements of the
	// same person.
	DefaultCooldown = 5 * time.Second
)

// UnknownName labels a face that matched nothing in the gallery.
const UnknownName = "Unknown"

// closeRelations are phrased possessively ("your sister Asha") instead of
// descriptively ("Asha, who is my neighbor").
var closeRelations = map[string]bool{
	"mom":     true,
	"dad":     true,
	"brother": true,
	"sister":  true,
}

// Recognition is one resolved face.
type Recognition struct {
	Name        string
	Relation    string
	Description string
	Region      detector.Region
	Known       bool
}

// Config tunes a Resolver. Zero values fall back to the defaults.
type Config struct {
	Threshold float64
	Cooldown  time.Duration
}

// Resolver matches face embeddings against the gallery and suppresses
// repeat announcements of the same name within the cooldown window.
// Unknown faces are never throttled: a stranger appearing is always worth
// reporting.
type Resolver struct {
	gallery   *Gallery
	threshold float64
	cooldown  time.Duration

	lastAnnounced map[string]time.Time

	now func() time.Time
}

// NewResolver creates a Resolver over the given gallery.
func NewResolver(gallery *Gallery, cfg Config) *Resolver {
	if gallery == nil {
		gallery = NewGallery(nil)
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}

	return &Resolver{
		gallery:       gallery,
		threshold:     cfg.Threshold,
		cooldown:      cfg.Cooldown,
		lastAnnounced: make(map[string]time.Time),
		now:           time.Now,
	}
}

// Resolve matches each detected face against the gallery. A face resolves
// to the single minimum-distance record, and only if that distance is below
// the threshold; ties collapse to one name, never two. Matches inside the
// cooldown window are dropped without refreshing the window.
func (r *Resolver) Resolve(faces []detector.FaceDetection) []Recognition {
	now := r.now()
	var out []Recognition

	for _, face := range faces {
		best, dist := r.bestMatch(face.Embedding)
		if best == nil || dist > r.threshold {
			out = append(out, Recognition{
				Name:        UnknownName,
				Description: "someone I don't recognize",
				Region:      face.Region,
			})
			continue
		}

		last, seen := r.lastAnnounced[best.Name]
		if seen && now.Sub(last) <= r.cooldown {
			continue
		}

		out = append(out, Recognition{
			Name:        best.Name,
			Relation:    best.Relation,
			Description: describePerson(best.Name, best.Relation),
			Region:      face.Region,
			Known:       true,
		})
		r.lastAnnounced[best.Name] = now
	}

	return out
}

// bestMatch returns the nearest gallery record and its distance, or nil when
// the gallery is empty.
func (r *Resolver) bestMatch(embedding []float64) (*Known, float64) {
	entries := r.gallery.Entries()
	if len(entries) == 0 {
		return nil, 0
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for i := range entries {
		d := euclidean(embedding, entries[i].Embedding)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return &entries[bestIdx], bestDist
}

func euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var acc float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		acc += d * d
	}
	// Dimension mismatch counts the missing components at full weight so a
	// truncated embedding cannot look artificially close.
	for i := n; i < len(a); i++ {
		acc += a[i] * a[i]
	}
	for i := n; i < len(b); i++ {
		acc += b[i] * b[i]
	}
	return math.Sqrt(acc)
}

// describePerson builds the spoken form of a known person.
func describePerson(name, relation string) string {
	if relation == "" {
		return name
	}
	if closeRelations[strings.ToLower(relation)] {
		return fmt.Sprintf("your %s %s", strings.ToLower(relation), name)
	}
	return fmt.Sprintf("%s, who is %s", name, relation)
}

// Describe turns recognitions into one utterance, known people first,
// unknown faces counted at the end.
func Describe(recs []Recognition) string {
	if len(recs) == 0 {
		return "I don't see any faces right now."
	}

	var known []string
	unknown := 0
	for _, r := range recs {
		if r.Known {
			known = append(known, r.Description)
		} else {
			unknown++
		}
	}

	var parts []string
	switch {
	case len(known) == 1:
		parts = append(parts, "I see "+known[0])
	case len(known) > 1:
		parts = append(parts, "I see "+strings.Join(known[:len(known)-1], ", ")+" and "+known[len(known)-1])
	}

	switch {
	case unknown == 1:
		parts = append(parts, "and someone I don't recognize")
	case unknown > 1:
		parts = append(parts, fmt.Sprintf("and %d people I don't recognize", unknown))
	}

	if len(parts) == 0 {
		return "I don't see any faces right now."
	}
	return strings.Join(parts, " ")
}
