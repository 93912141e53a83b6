package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// CommandRecognizer runs an external speech-to-text program and reads one
// segment per stdout line: "final: text", "partial: text", or plain text
// which counts as final.
type CommandRecognizer struct {
	argv  []string
	drain time.Duration
}

// drainTimeout bounds how long a stopped stream waits for its reader before
// discarding the remaining segments.
const drainTimeout = 2 * time.Second

func NewCommandRecognizer(argv []string) Recognizer {
	if len(argv) == 0 {
		return Unsupported{}
	}
	return &CommandRecognizer{argv: append([]string(nil), argv...), drain: drainTimeout}
}

func (r *CommandRecognizer) Start(ctx context.Context) (Stream, error) {
	path, err := exec.LookPath(r.argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrUnsupported, r.argv[0])
	}
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, path, r.argv[1:]...)
	// interrupt first so the recognizer can flush its last final segment
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 3 * time.Second
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, err
	}

	s := &commandStream{
		results: make(chan Result, 16),
		cancel:  cancel,
		drain:   r.drain,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go s.pump(stdout, cmd)
	return s, nil
}

type commandStream struct {
	results chan Result
	cancel  context.CancelFunc
	drain   time.Duration

	once   sync.Once
	done   chan struct{} // closed by Stop
	exited chan struct{} // closed when pump returns

	abandoned bool // owned by pump
}

func (s *commandStream) Results() <-chan Result { return s.results }

func (s *commandStream) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
	})
}

func (s *commandStream) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// send delivers r unless the stream was stopped and the reader has gone
// away. Once a send is abandoned every later result is discarded.
func (s *commandStream) send(r Result) {
	if s.abandoned {
		return
	}
	select {
	case s.results <- r:
		return
	case <-s.done:
	}
	t := time.NewTimer(s.drain)
	defer t.Stop()
	select {
	case s.results <- r:
	case <-t.C:
		s.abandoned = true
	}
}

func (s *commandStream) pump(stdout io.Reader, cmd *exec.Cmd) {
	defer close(s.exited)
	defer close(s.results)
	defer s.cancel()

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if r, ok := ParseLine(scanner.Text()); ok {
			s.send(r)
		}
	}
	err := cmd.Wait()
	if s.stopped() {
		return
	}
	if err == nil {
		err = scanner.Err()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		s.send(Result{Err: err})
		return
	}
	if exitErr != nil {
		s.send(Result{Err: fmt.Errorf("%s exited: %w", cmd.Path, exitErr)})
	}
}

// ParseLine decodes one recognizer output line. Blank lines are skipped.
func ParseLine(line string) (Result, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}, false
	}
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "partial:"):
		return Result{Text: strings.TrimSpace(line[len("partial:"):])}, true
	case strings.HasPrefix(lower, "final:"):
		return Result{Text: strings.TrimSpace(line[len("final:"):]), Final: true}, true
	default:
		return Result{Text: line, Final: true}, true
	}
}
