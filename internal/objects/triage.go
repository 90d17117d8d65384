// Package objects turns raw detection boxes into ranked, de-duplicated,
// spatially described facts: confidence filtering, non-max suppression,
// priority tiering and a short tracking history per label.
package objects

import (
	"sort"
	"time"

	"github.com/Amogh-Hegde/speX/internal/detector"
	"github.com/Amogh-Hegde/speX/internal/fact"
)

// Default triage tuning.
const (
	// DefaultConfidenceFloor discards boxes below this confidence.
	DefaultConfidenceFloor = 0.5
	// DefaultIoUThreshold is the overlap above which the lower-confidence
	// box of a pair is suppressed.
	DefaultIoUThreshold = 0.4
	// DefaultRetention is how long a label's detection history is kept
	// without being refreshed.
	DefaultRetention = 5 * time.Second
)

// Tier lists per priority level; labels chosen for navigation relevance to
// a visually-impaired user.
var (
	highPriority   = []string{"person", "car", "truck", "bus", "bicycle", "motorbike", "traffic light", "stop sign", "door"}
	mediumPriority = []string{"chair", "table", "dining table", "stairs", "bed", "couch", "bench"}
	lowPriority    = []string{"cup", "bottle", "book", "cell phone", "keyboard", "remote"}
)

var tierByLabel = buildTierTable()

func buildTierTable() map[string]fact.Tier {
	m := make(map[string]fact.Tier)
	for _, l := range highPriority {
		m[l] = fact.TierHigh
	}
	for _, l := range mediumPriority {
		m[l] = fact.TierMedium
	}
	for _, l := range lowPriority {
		m[l] = fact.TierLow
	}
	return m
}

// TierOf returns the static priority tier for a label.
func TierOf(label string) fact.Tier {
	if t, ok := tierByLabel[label]; ok {
		return t
	}
	return fact.TierNormal
}

// Detection is one surviving box with its narration attached.
type Detection struct {
	Label      string
	Confidence float64
	Region     detector.Region
	Location   string
	Tier       fact.Tier
}

// Config tunes a Triage. Zero values fall back to the defaults.
type Config struct {
	ConfidenceFloor float64
	IoUThreshold    float64
	Retention       time.Duration
}

// Triage filters, de-duplicates and narrates object detections, and keeps a
// short per-label history of what has been seen recently.
//
// Triage state is confined to the coordinator's goroutine.
type Triage struct {
	floor     float64
	iou       float64
	retention time.Duration
	tracker   map[string][]trackedEntry

	now func() time.Time
}

// NewTriage creates a Triage with the given config.
func NewTriage(cfg Config) *Triage {
	if cfg.ConfidenceFloor <= 0 {
		cfg.ConfidenceFloor = DefaultConfidenceFloor
	}
	if cfg.IoUThreshold <= 0 {
		cfg.IoUThreshold = DefaultIoUThreshold
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}

	return &Triage{
		floor:     cfg.ConfidenceFloor,
		iou:       cfg.IoUThreshold,
		retention: cfg.Retention,
		tracker:   make(map[string][]trackedEntry),
		now:       time.Now,
	}
}

// Process runs the full pipeline over one frame's raw detections. The
// returned slice preserves detection order within each tier.
func (t *Triage) Process(raw []detector.ObjectDetection, frameWidth, frameHeight int) []Detection {
	kept := make([]detector.ObjectDetection, 0, len(raw))
	for _, d := range raw {
		if d.Confidence < t.floor {
			continue
		}
		kept = append(kept, d)
	}

	kept = Suppress(kept, t.iou)

	out := make([]Detection, 0, len(kept))
	for _, d := range kept {
		out = append(out, Detection{
			Label:      d.Label,
			Confidence: d.Confidence,
			Region:     d.Region,
			Location:   LocationOf(d.Region, frameWidth, frameHeight),
			Tier:       TierOf(d.Label),
		})
	}

	t.track(out)
	return out
}

// Suppress applies greedy per-label non-max suppression: a box survives only
// if no already-accepted higher-confidence box of the same label overlaps it
// beyond the IoU threshold.
func Suppress(dets []detector.ObjectDetection, iouThreshold float64) []detector.ObjectDetection {
	byConf := make([]detector.ObjectDetection, len(dets))
	copy(byConf, dets)
	sort.SliceStable(byConf, func(i, j int) bool {
		return byConf[i].Confidence > byConf[j].Confidence
	})

	var accepted []detector.ObjectDetection
	for _, cand := range byConf {
		keep := true
		for _, a := range accepted {
			if a.Label == cand.Label && IoU(a.Region, cand.Region) > iouThreshold {
				keep = false
				break
			}
		}
		if keep {
			accepted = append(accepted, cand)
		}
	}

	// Restore detection order so narration stays stable across frames.
	kept := make(map[detector.ObjectDetection]bool, len(accepted))
	for _, a := range accepted {
		kept[a] = true
	}
	out := make([]detector.ObjectDetection, 0, len(accepted))
	for _, d := range dets {
		if kept[d] {
			out = append(out, d)
			delete(kept, d)
		}
	}
	return out
}

// IoU computes intersection over union of two boxes.
func IoU(a, b detector.Region) float64 {
	x1 := maxInt(a.X, b.X)
	y1 := maxInt(a.Y, b.Y)
	x2 := minInt(a.X+a.W, b.X+b.W)
	y2 := minInt(a.Y+a.H, b.Y+b.H)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	inter := float64((x2 - x1) * (y2 - y1))
	union := float64(a.Area()+b.Area()) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
