package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupported = errors.New("voice: speech recognition is not supported")

type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
)

// Result is one recognition segment. Err is set on a recognition failure.
type Result struct {
	Text  string
	Final bool
	Err   error
}

// Stream delivers results until recognition ends, then closes Results.
type Stream interface {
	Results() <-chan Result
	Stop()
}

// Recognizer starts continuous recognition.
type Recognizer interface {
	Start(ctx context.Context) (Stream, error)
}

// Capture is the voice-to-text state machine. It never stays out of idle
// after an error or the end of recognition.
type Capture struct {
	rec    Recognizer
	state  State
	stream Stream
}

func NewCapture(rec Recognizer) *Capture {
	if rec == nil {
		rec = Unsupported{}
	}
	return &Capture{rec: rec, state: StateIdle}
}

func (c *Capture) State() State { return c.state }

func (c *Capture) Recording() bool { return c.state == StateRecording }

func (c *Capture) Processing() bool { return c.state == StateProcessing }

// Toggle starts recognition from idle or stops it while recording. The
// returned stream is non-nil only when recognition has just started.
func (c *Capture) Toggle(ctx context.Context) (Stream, error) {
	switch c.state {
	case StateIdle:
		stream, err := c.rec.Start(ctx)
		if err != nil {
			c.reset()
			return nil, fmt.Errorf("voice: start recording: %w", err)
		}
		c.stream = stream
		c.state = StateRecording
		return stream, nil
	case StateRecording:
		c.state = StateProcessing
		c.stream.Stop()
		return nil, nil
	default:
		return nil, nil
	}
}

// Handle consumes one result. It returns the text to forward, which is
// non-empty only for final segments.
func (c *Capture) Handle(r Result) (string, error) {
	if r.Err != nil {
		if c.stream != nil {
			c.stream.Stop()
		}
		c.reset()
		return "", fmt.Errorf("voice: recognition error: %w", r.Err)
	}
	if !r.Final {
		return "", nil
	}
	return strings.TrimSpace(r.Text), nil
}

// End marks recognition as finished.
func (c *Capture) End() {
	c.reset()
}

// Close stops any running recognition.
func (c *Capture) Close() {
	if c.stream != nil && c.state != StateIdle {
		c.stream.Stop()
	}
	c.reset()
}

func (c *Capture) reset() {
	c.state = StateIdle
	c.stream = nil
}

// AppendTranscript appends text to buf with a single separating space.
func AppendTranscript(buf, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return buf
	}
	trimmed := strings.TrimRight(buf, " ")
	if trimmed == "" {
		return text
	}
	return trimmed + " " + text
}

// Unsupported is the recognizer used when no speech backend is configured.
type Unsupported struct{}

func (Unsupported) Start(context.Context) (Stream, error) {
	return nil, ErrUnsupported
}
