package detector

import "github.com/Amogh-Hegde/speX/internal/capture"

// PipeFaceDetector runs a face embedding service as a subprocess.
type PipeFaceDetector struct {
	client *pipeClient
}

// NewPipeFaceDetector creates a face detector backed by the given command,
// e.g. ["python3", "services/face_service.py"].
func NewPipeFaceDetector(command []string) (*PipeFaceDetector, error) {
	c, err := newPipeClient(command)
	if err != nil {
		return nil, err
	}
	return &PipeFaceDetector{client: c}, nil
}

func (d *PipeFaceDetector) Detect(frame *capture.Frame) ([]FaceDetection, error) {
	var resp struct {
		Faces []FaceDetection `json:"faces"`
	}
	header := struct {
		Op string `json:"op"`
	}{Op: "faces"}
	if err := d.client.roundTrip(frame, header, &resp); err != nil {
		return nil, err
	}
	return resp.Faces, nil
}

func (d *PipeFaceDetector) Close() error { return d.client.Close() }

// PipeHandDetector runs a hand landmark service as a subprocess.
type PipeHandDetector struct {
	client *pipeClient
}

func NewPipeHandDetector(command []string) (*PipeHandDetector, error) {
	c, err := newPipeClient(command)
	if err != nil {
		return nil, err
	}
	return &PipeHandDetector{client: c}, nil
}

func (d *PipeHandDetector) Detect(frame *capture.Frame) ([]HandLandmarks, error) {
	var resp struct {
		Hands []HandLandmarks `json:"hands"`
	}
	header := struct {
		Op string `json:"op"`
	}{Op: "hands"}
	if err := d.client.roundTrip(frame, header, &resp); err != nil {
		return nil, err
	}
	return resp.Hands, nil
}

func (d *PipeHandDetector) Close() error { return d.client.Close() }

// PipeObjectDetector runs an object detection service as a subprocess.
type PipeObjectDetector struct {
	client *pipeClient
}

func NewPipeObjectDetector(command []string) (*PipeObjectDetector, error) {
	c, err := newPipeClient(command)
	if err != nil {
		return nil, err
	}
	return &PipeObjectDetector{client: c}, nil
}

func (d *PipeObjectDetector) Detect(frame *capture.Frame) ([]ObjectDetection, error) {
	var resp struct {
		Objects []ObjectDetection `json:"objects"`
	}
	header := struct {
		Op string `json:"op"`
	}{Op: "objects"}
	if err := d.client.roundTrip(frame, header, &resp); err != nil {
		return nil, err
	}
	return resp.Objects, nil
}

func (d *PipeObjectDetector) Close() error { return d.client.Close() }

// PipeTextReader runs an OCR service as a subprocess. The mode travels in
// the request header; preprocessing happens entirely on the service side.
type PipeTextReader struct {
	client *pipeClient
}

func NewPipeTextReader(command []string) (*PipeTextReader, error) {
	c, err := newPipeClient(command)
	if err != nil {
		return nil, err
	}
	return &PipeTextReader{client: c}, nil
}

func (d *PipeTextReader) Read(frame *capture.Frame, mode TextMode) (TextResult, error) {
	var resp TextResult
	header := struct {
		Op   string `json:"op"`
		Mode string `json:"mode"`
	}{Op: "text", Mode: string(mode)}
	if err := d.client.roundTrip(frame, header, &resp); err != nil {
		return TextResult{}, err
	}
	return resp, nil
}

func (d *PipeTextReader) Close() error { return d.client.Close() }
