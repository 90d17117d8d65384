package detector

import "github.com/Amogh-Hegde/speX/internal/capture"

// MockFaceDetector is a test implementation of FaceDetector.
type MockFaceDetector struct {
	Faces []FaceDetection
	Err   error
}

func (m *MockFaceDetector) Detect(frame *capture.Frame) ([]FaceDetection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Faces, nil
}

func (m *MockFaceDetector) Close() error { return nil }

// MockHandDetector is a test implementation of HandDetector. When Sequence
// is non-nil each Detect call consumes the next entry, which lets tests
// script multi-frame gesture motion.
type MockHandDetector struct {
	Hands    []HandLandmarks
	Sequence [][]HandLandmarks
	Err      error
}

func (m *MockHandDetector) Detect(frame *capture.Frame) ([]HandLandmarks, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Sequence != nil {
		if len(m.Sequence) == 0 {
			return nil, nil
		}
		next := m.Sequence[0]
		m.Sequence = m.Sequence[1:]
		return next, nil
	}
	return m.Hands, nil
}

func (m *MockHandDetector) Close() error { return nil }

// MockObjectDetector is a test implementation of ObjectDetector.
type MockObjectDetector struct {
	Objects []ObjectDetection
	Err     error
}

func (m *MockObjectDetector) Detect(frame *capture.Frame) ([]ObjectDetection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Objects, nil
}

func (m *MockObjectDetector) Close() error { return nil }

// MockTextReader is a test implementation of TextReader.
type MockTextReader struct {
	Result   TextResult
	LastMode TextMode
	Err      error
}

func (m *MockTextReader) Read(frame *capture.Frame, mode TextMode) (TextResult, error) {
	m.LastMode = mode
	if m.Err != nil {
		return TextResult{}, m.Err
	}
	return m.Result, nil
}

func (m *MockTextReader) Close() error { return nil }

// HandWithFingers builds a synthetic hand where each finger's joint chain
// encodes the requested extended state: an extended finger has its tip
// strictly above its middle joint, which is above its base joint (image Y
// grows downward). Flexed fingers reverse the ordering.
func HandWithFingers(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	fingers := []struct {
		tip, mid, base int
		x              float64
		extended       bool
	}{
		{ThumbTip, ThumbIP, ThumbMCP, 0.62, thumb},
		{IndexTip, IndexDIP, IndexPIP, 0.56, index},
		{MiddleTip, MiddleDIP, MiddlePIP, 0.50, middle},
		{RingTip, RingDIP, RingPIP, 0.44, ring},
		{PinkyTip, PinkyDIP, PinkyPIP, 0.38, pinky},
	}

	for _, f := range fingers {
		if f.extended {
			h.Points[f.base] = Point3D{X: f.x, Y: 0.70}
			h.Points[f.mid] = Point3D{X: f.x, Y: 0.55}
			h.Points[f.tip] = Point3D{X: f.x, Y: 0.40}
		} else {
			h.Points[f.base] = Point3D{X: f.x, Y: 0.68}
			h.Points[f.mid] = Point3D{X: f.x, Y: 0.71}
			h.Points[f.tip] = Point3D{X: f.x, Y: 0.74}
		}
	}

	return h
}

// ThumbsUpLandmarks is a hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return HandWithFingers(true, false, false, false, false)
}

// ThumbsDownLandmarks is a closed fist, read as disapproval.
func ThumbsDownLandmarks() HandLandmarks {
	return HandWithFingers(false, false, false, false, false)
}

// PeaceLandmarks is a hand with index and middle fingers extended.
func PeaceLandmarks() HandLandmarks {
	return HandWithFingers(false, true, true, false, false)
}

// OpenPalmLandmarks is a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return HandWithFingers(true, true, true, true, true)
}

// PointingLandmarks is a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return HandWithFingers(false, true, false, false, false)
}
