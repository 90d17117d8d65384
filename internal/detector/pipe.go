package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/Amogh-Hegde/speX/internal/capture"
)

// pipeIdleShutdown is how long a recognition subprocess may sit unused
// before it is stopped and restarted lazily on the next request.
const pipeIdleShutdown = 30 * time.Second

// pipeClient talks to one recognition collaborator running as a subprocess.
// Protocol per request: a JSON header line, then a 4-byte big-endian length
// followed by the JPEG-encoded frame; the service answers with one JSON line.
// The process is started lazily on first use and shut down when idle.
type pipeClient struct {
	command   []string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

func newPipeClient(command []string) (*pipeClient, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("pipe service command is empty")
	}
	return &pipeClient{command: command}, nil
}

// roundTrip sends one frame with the given header and decodes the JSON
// response line into out.
func (p *pipeClient) roundTrip(frame *capture.Frame, header any, out any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || frame.Mat == nil {
		return fmt.Errorf("frame has no pixel data")
	}

	if err := p.ensureStarted(); err != nil {
		return err
	}

	buf, err := gocv.IMEncode(".jpg", *frame.Mat)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()
	data := buf.GetBytes()

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	headerJSON = append(headerJSON, '\n')

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := p.stdin.Write(headerJSON); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := p.stdin.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := p.stdin.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	line, err := p.stdout.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal([]byte(line), out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	p.resetIdleTimer()
	return nil
}

func (p *pipeClient) ensureStarted() error {
	if p.started {
		return nil
	}

	p.cmd = exec.Command(p.command[0], p.command[1:]...)

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	p.cmd.Stderr = os.Stderr

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("start service %q: %w", p.command[0], err)
	}

	p.stdin = stdin
	p.stdout = bufio.NewReader(stdout)
	p.started = true

	return nil
}

func (p *pipeClient) shutdown() error {
	if !p.started {
		return nil
	}

	if p.idleTimer != nil {
		p.idleTimer.Stop()
		p.idleTimer = nil
	}

	if p.stdin != nil {
		p.stdin.Close()
	}

	err := p.cmd.Wait()
	p.started = false
	p.cmd = nil
	p.stdin = nil
	p.stdout = nil

	return err
}

func (p *pipeClient) resetIdleTimer() {
	if p.idleTimer != nil {
		p.idleTimer.Stop()
	}
	p.idleTimer = time.AfterFunc(pipeIdleShutdown, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.shutdown()
	})
}

// Close stops the subprocess if it is running.
func (p *pipeClient) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown()
}
