package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// speakTimeout bounds a single TTS invocation; playback of one utterance
// should never take longer.
const speakTimeout = 30 * time.Second

// ExecVoice drives external speech programs: one command for synthesis
// (the text is appended as the final argument) and one for recognition
// (request on stdin as JSON, one JSON line back on stdout).
type ExecVoice struct {
	speakCommand  []string
	listenCommand []string
}

// NewExecVoice creates an ExecVoice from the two command lines.
func NewExecVoice(speakCommand, listenCommand []string) (*ExecVoice, error) {
	if len(speakCommand) == 0 {
		return nil, fmt.Errorf("speak command is empty")
	}
	if len(listenCommand) == 0 {
		return nil, fmt.Errorf("listen command is empty")
	}
	return &ExecVoice{
		speakCommand:  speakCommand,
		listenCommand: listenCommand,
	}, nil
}

// Speak runs the synthesis command and blocks until it exits.
func (v *ExecVoice) Speak(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
	defer cancel()

	args := append(append([]string{}, v.speakCommand[1:]...), text)
	cmd := exec.CommandContext(ctx, v.speakCommand[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("speech synthesis timed out")
		}
		if s := stderr.String(); s != "" {
			return fmt.Errorf("speech synthesis failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("speech synthesis failed: %w", err)
	}
	return nil
}

type listenRequest struct {
	TimeoutMs     int64 `json:"timeout_ms"`
	PhraseLimitMs int64 `json:"phrase_limit_ms"`
}

type listenResponse struct {
	Text string `json:"text"`
	// Unintelligible is set by the recognition service when audio was heard
	// but produced no transcript.
	Unintelligible bool   `json:"unintelligible,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Listen runs the recognition command once and parses its single JSON
// response line. An empty transcript maps to ErrNoSpeech.
func (v *ExecVoice) Listen(timeout, phraseLimit time.Duration) (string, error) {
	// The subprocess gets the full listen window plus a small grace period
	// to finish transcription.
	ctx, cancel := context.WithTimeout(context.Background(), timeout+phraseLimit+5*time.Second)
	defer cancel()

	req := listenRequest{
		TimeoutMs:     timeout.Milliseconds(),
		PhraseLimitMs: phraseLimit.Milliseconds(),
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal listen request: %w", err)
	}

	cmd := exec.CommandContext(ctx, v.listenCommand[0], v.listenCommand[1:]...)
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrNoSpeech
		}
		if s := stderr.String(); s != "" {
			return "", fmt.Errorf("speech recognition failed: %w, stderr: %s", err, s)
		}
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var resp listenResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return "", fmt.Errorf("parse listen response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("speech recognition: %s", resp.Error)
	}
	if resp.Unintelligible {
		return "", ErrUnintelligible
	}

	text := strings.ToLower(strings.TrimSpace(resp.Text))
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Close is a no-op; each invocation runs its own subprocess.
func (v *ExecVoice) Close() error { return nil }
