// Package detector defines the perception adapter interfaces the assistant
// consumes. Each adapter wraps one external recognition collaborator and
// normalizes its output into plain detection records; none of them opens
// hardware or keeps cross-frame state.
package detector

import "github.com/Amogh-Hegde/speX/internal/capture"

// Region is an axis-aligned bounding box in frame pixel coordinates.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Area returns the box area in pixels.
func (r Region) Area() int {
	return r.W * r.H
}

// FaceDetection is one detected face: a fixed-length identity embedding
// plus the box it was extracted from.
type FaceDetection struct {
	Embedding []float64 `json:"embedding"`
	Region    Region    `json:"region"`
}

// ObjectDetection is one labeled box with confidence in [0,1].
type ObjectDetection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Region     Region  `json:"region"`
}

// TextResult is the raw OCR output for one frame.
type TextResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TextMode selects collaborator-side OCR preprocessing. The core never
// inspects what the preprocessing does.
type TextMode string

const (
	ModeDocument TextMode = "document"
	ModeSign     TextMode = "sign"
	ModeLabel    TextMode = "label"
	ModeDisplay  TextMode = "display"
	ModeScene    TextMode = "scene"
)

// FaceDetector extracts face embeddings from a frame.
// No faces is an empty slice, never an error.
type FaceDetector interface {
	Detect(frame *capture.Frame) ([]FaceDetection, error)
	Close() error
}

// HandDetector extracts per-joint hand landmarks from a frame.
type HandDetector interface {
	Detect(frame *capture.Frame) ([]HandLandmarks, error)
	Close() error
}

// ObjectDetector extracts labeled boxes from a frame.
type ObjectDetector interface {
	Detect(frame *capture.Frame) ([]ObjectDetection, error)
	Close() error
}

// TextReader runs OCR over a frame in the requested mode.
type TextReader interface {
	Read(frame *capture.Frame, mode TextMode) (TextResult, error)
	Close() error
}
