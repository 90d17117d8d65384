package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/Amogh-Hegde/speX/internal/detector"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestResolver(entries []Known, clk *fakeClock) *Resolver {
	r := NewResolver(NewGallery(entries), Config{})
	r.now = clk.now
	return r
}

// faceAt builds a detection whose embedding sits at the given distance from
// the origin along the first axis.
func faceAt(dist float64) detector.FaceDetection {
	return detector.FaceDetection{
		Embedding: []float64{dist, 0, 0, 0},
		Region:    detector.Region{X: 100, Y: 80, W: 60, H: 60},
	}
}

func ashaGallery() []Known {
	return []Known{
		{ID: "1", Name: "Asha", Relation: "sister", Embedding: []float64{0, 0, 0, 0}},
	}
}

func TestResolve_KnownWithinThreshold(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	r := newTestResolver(ashaGallery(), clk)

	recs := r.Resolve([]detector.FaceDetection{faceAt(0.4)})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recognition, got %d", len(recs))
	}
	if !recs[0].Known {
		t.Error("expected a known recognition")
	}
	if recs[0].Description != "your sister Asha" {
		t.Errorf("expected %q, got %q", "your sister Asha", recs[0].Description)
	}
}

func TestResolve_BeyondThresholdIsUnknown(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	r := newTestResolver(ashaGallery(), clk)

	recs := r.Resolve([]detector.FaceDetection{faceAt(0.9)})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recognition, got %d", len(recs))
	}
	if recs[0].Known {
		t.Error("distance 0.9 should not match with threshold 0.6")
	}
	if recs[0].Name != UnknownName {
		t.Errorf("expected name %q, got %q", UnknownName, recs[0].Name)
	}
}

func TestResolve_CooldownSuppressesRepeat(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	r := newTestResolver(ashaGallery(), clk)

	if recs := r.Resolve([]detector.FaceDetection{faceAt(0.4)}); len(recs) != 1 {
		t.Fatalf("first sighting: expected 1 recognition, got %d", len(recs))
	}

	clk.advance(2 * time.Second)
	if recs := r.Resolve([]detector.FaceDetection{faceAt(0.4)}); len(recs) != 0 {
		t.Fatalf("2s later: expected suppression, got %v", recs)
	}

	// A suppressed sighting must not refresh the window, so the announcement
	// comes back relative to the first one.
	clk.advance(4 * time.Second)
	recs := r.Resolve([]detector.FaceDetection{faceAt(0.4)})
	if len(recs) != 1 {
		t.Fatalf("6s after first sighting: expected re-announcement, got %v", recs)
	}
	if recs[0].Description != "your sister Asha" {
		t.Errorf("expected %q, got %q", "your sister Asha", recs[0].Description)
	}
}

func TestResolve_UnknownNeverThrottled(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	r := newTestResolver(ashaGallery(), clk)

	for i := 0; i < 3; i++ {
		recs := r.Resolve([]detector.FaceDetection{faceAt(2.0)})
		if len(recs) != 1 || recs[0].Known {
			t.Fatalf("sighting %d: expected 1 unknown recognition, got %v", i, recs)
		}
		clk.advance(100 * time.Millisecond)
	}
}

func TestResolve_EmptyGallery(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	r := newTestResolver(nil, clk)

	recs := r.Resolve([]detector.FaceDetection{faceAt(0.1)})
	if len(recs) != 1 || recs[0].Known {
		t.Fatalf("expected 1 unknown recognition from empty gallery, got %v", recs)
	}
}

func TestResolve_NearestRecordWins(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	entries := []Known{
		{ID: "1", Name: "Asha", Relation: "sister", Embedding: []float64{0, 0, 0, 0}},
		{ID: "2", Name: "Ravi", Relation: "neighbor", Embedding: []float64{1, 0, 0, 0}},
	}
	r := newTestResolver(entries, clk)

	recs := r.Resolve([]detector.FaceDetection{faceAt(0.8)})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recognition, got %d", len(recs))
	}
	if recs[0].Name != "Ravi" {
		t.Errorf("expected nearest record Ravi, got %q", recs[0].Name)
	}
}

func TestEuclidean_DimensionMismatch(t *testing.T) {
	// Missing components count at full weight, so truncation cannot fake
	// proximity.
	short := []float64{0.1}
	full := []float64{0.1, 3, 4}
	if d := euclidean(short, full); d != 5 {
		t.Errorf("expected distance 5, got %v", d)
	}
	if d := euclidean(full, short); d != 5 {
		t.Errorf("expected symmetric distance 5, got %v", d)
	}
}

func TestDescribePerson(t *testing.T) {
	tests := []struct {
		name     string
		relation string
		want     string
	}{
		{"Asha", "sister", "your sister Asha"},
		{"Asha", "Sister", "your sister Asha"},
		{"Ravi", "neighbor", "Ravi, who is neighbor"},
		{"Meera", "", "Meera"},
	}
	for _, tt := range tests {
		if got := describePerson(tt.name, tt.relation); got != tt.want {
			t.Errorf("describePerson(%q, %q) = %q, want %q", tt.name, tt.relation, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		recs []Recognition
		want string
	}{
		{
			name: "no faces",
			recs: nil,
			want: "I don't see any faces right now.",
		},
		{
			name: "one known",
			recs: []Recognition{{Description: "your sister Asha", Known: true}},
			want: "I see your sister Asha",
		},
		{
			name: "two known",
			recs: []Recognition{
				{Description: "your sister Asha", Known: true},
				{Description: "Ravi, who is neighbor", Known: true},
			},
			want: "I see your sister Asha and Ravi, who is neighbor",
		},
		{
			name: "known plus unknowns",
			recs: []Recognition{
				{Description: "your sister Asha", Known: true},
				{Description: "someone I don't recognize"},
				{Description: "someone I don't recognize"},
			},
			want: "I see your sister Asha and 2 people I don't recognize",
		},
		{
			name: "only unknown",
			recs: []Recognition{{Description: "someone I don't recognize"}},
			want: "and someone I don't recognize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.recs)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if strings.Contains(got, "  ") {
				t.Errorf("double space in %q", got)
			}
		})
	}
}
