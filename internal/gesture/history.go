package gesture

// History is a fixed-capacity rolling buffer of fingertip angle samples.
// The oldest sample is overwritten in FIFO order once capacity is reached.
type History struct {
	samples []float64
	cap     int
}

// NewHistory creates a History holding at most capacity samples.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		samples: make([]float64, 0, capacity),
		cap:     capacity,
	}
}

// Push appends a sample, dropping the oldest if the buffer is full.
func (h *History) Push(v float64) {
	if len(h.samples) >= h.cap {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.cap-1]
	}
	h.samples = append(h.samples, v)
}

// Len returns the number of buffered samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Last returns the most recent n samples, oldest first. Fewer are returned
// if the buffer holds fewer.
func (h *History) Last(n int) []float64 {
	if n > len(h.samples) {
		n = len(h.samples)
	}
	out := make([]float64, n)
	copy(out, h.samples[len(h.samples)-n:])
	return out
}

// Reset discards all samples.
func (h *History) Reset() {
	h.samples = h.samples[:0]
}

// Variance returns the population variance of the buffered samples.
func (h *History) Variance() float64 {
	n := len(h.samples)
	if n == 0 {
		return 0
	}

	var sum float64
	for _, v := range h.samples {
		sum += v
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range h.samples {
		d := v - mean
		acc += d * d
	}
	return acc / float64(n)
}
