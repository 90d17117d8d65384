package capture

import (
	"fmt"
	"sync"
	"time"
)

// MockCamera plays back a scripted frame sequence for testing.
type MockCamera struct {
	frames  []*Frame
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
	failure error
}

// NewMockCamera creates a MockCamera that replays the given frames.
// When loop is true playback restarts from the beginning once exhausted.
func NewMockCamera(frames []*Frame, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

// BlankFrame returns a metadata-only frame with no pixel data. The decision
// modules only read dimensions and timestamps, so tests rarely need a Mat.
func BlankFrame(width, height int) *Frame {
	return &Frame{
		Timestamp: time.Now(),
		Width:     width,
		Height:    height,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) Capture() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if c.failure != nil {
		return nil, c.failure
	}

	if len(c.frames) == 0 {
		return BlankFrame(DefaultWidth, DefaultHeight), nil
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	frame := c.frames[c.index]
	c.index++

	return frame, nil
}

func (c *MockCamera) SetFPS(fps int) {}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// FailWith makes every subsequent Capture return err; pass nil to recover.
func (c *MockCamera) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = err
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
