// Package identity resolves face embeddings against a gallery of known
// people and throttles repeated announcements of the same person.
package identity

// Known is one gallery record: a display name, an optional relation tag and
// one precomputed embedding. Names need not be unique; a person trained from
// several images appears once per image.
type Known struct {
	ID        string
	Name      string
	Relation  string
	Embedding []float64
}

// Gallery is the read-only set of known identities for a session. It is
// loaded once at startup; Reload replaces the whole set explicitly rather
// than mutating ambient state.
type Gallery struct {
	entries []Known
}

// NewGallery creates a gallery from the given records. A nil or empty slice
// is valid: recognition still runs and classifies every face as unknown.
func NewGallery(entries []Known) *Gallery {
	return &Gallery{entries: entries}
}

// Len returns the number of gallery records.
func (g *Gallery) Len() int {
	return len(g.entries)
}

// Entries returns the gallery records. Callers must not mutate them.
func (g *Gallery) Entries() []Known {
	return g.entries
}

// Reload replaces the gallery contents.
func (g *Gallery) Reload(entries []Known) {
	g.entries = entries
}
