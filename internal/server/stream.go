package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

// streamInterval paces the MJPEG stream at roughly 10 FPS; the helper view
// does not need more, and captures compete with the recognizers.
const streamInterval = 100 * time.Millisecond

// StreamHandler serves MJPEG frames captured through the coordinator.
type StreamHandler struct {
	frames FrameProvider
}

// NewStreamHandler creates a new StreamHandler over the given provider.
func NewStreamHandler(frames FrameProvider) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to the connected client.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The sleep paces every iteration, failed captures and failed encodes
	// included, so a broken source cannot spin the handler hot.
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		if h.writeFrame(w) {
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		time.Sleep(streamInterval)
	}
}

// writeFrame captures, encodes and writes one MJPEG part. It reports whether
// anything was written.
func (h *StreamHandler) writeFrame(w http.ResponseWriter) bool {
	frame, err := h.frames()
	if err != nil || frame == nil || frame.Mat == nil {
		if frame != nil {
			frame.Close()
		}
		return false
	}

	buf, err := gocv.IMEncode(".jpg", *frame.Mat)
	frame.Close()
	if err != nil {
		return false
	}
	defer buf.Close()

	fmt.Fprintf(w, "--frame\r\n")
	fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
	fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
	w.Write(buf.GetBytes())
	fmt.Fprintf(w, "\r\n")

	return true
}
