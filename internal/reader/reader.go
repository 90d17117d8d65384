// Package reader wraps the OCR collaborator with command-driven mode
// selection and spoken phrasing of the result.
package reader

import (
	"strings"

	"github.com/Amogh-Hegde/speX/internal/capture"
	"github.com/Amogh-Hegde/speX/internal/detector"
)

// MinConfidence is the floor below which OCR output is treated as noise.
const MinConfidence = 0.6

// ModeFromCommand picks the OCR mode from keywords in the spoken command.
// Plain "read" defaults to document mode.
func ModeFromCommand(command string) detector.TextMode {
	switch {
	case strings.Contains(command, "sign"):
		return detector.ModeSign
	case strings.Contains(command, "label"):
		return detector.ModeLabel
	case strings.Contains(command, "display") || strings.Contains(command, "screen"):
		return detector.ModeDisplay
	case strings.Contains(command, "scene"):
		return detector.ModeScene
	default:
		return detector.ModeDocument
	}
}

// Reader reads text from frames through the collaborator.
type Reader struct {
	ocr detector.TextReader
}

// New creates a Reader over the given OCR adapter.
func New(ocr detector.TextReader) *Reader {
	return &Reader{ocr: ocr}
}

// Read runs OCR in the given mode and returns the spoken phrasing of the
// result. Empty or low-confidence text is reported as nothing found, not as
// an error.
func (r *Reader) Read(frame *capture.Frame, mode detector.TextMode) (string, error) {
	res, err := r.ocr.Read(frame, mode)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(res.Text)
	if text == "" || res.Confidence < MinConfidence {
		return "I couldn't find any readable text.", nil
	}

	return "The text says: " + text, nil
}

// Close releases the OCR collaborator.
func (r *Reader) Close() error {
	return r.ocr.Close()
}
