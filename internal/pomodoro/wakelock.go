package pomodoro

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// ExecWakeLock holds an inhibitor child process for as long as the lock is held.
type ExecWakeLock struct {
	argv []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewExecWakeLock picks the platform inhibitor: systemd-inhibit on Linux,
// caffeinate on macOS.
func NewExecWakeLock() *ExecWakeLock {
	switch runtime.GOOS {
	case "linux":
		return &ExecWakeLock{argv: []string{"systemd-inhibit", "--what=idle:sleep", "--who=zen", "--why=Focus session", "--mode=block", "sleep", "infinity"}}
	case "darwin":
		return &ExecWakeLock{argv: []string{"caffeinate", "-di"}}
	default:
		return &ExecWakeLock{}
	}
}

// NewCommandWakeLock uses an explicit inhibitor command.
func NewCommandWakeLock(argv ...string) *ExecWakeLock {
	return &ExecWakeLock{argv: argv}
}

func (w *ExecWakeLock) Acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cmd != nil {
		return nil
	}
	if len(w.argv) == 0 {
		return fmt.Errorf("%w: no inhibitor on %s", ErrUnsupported, runtime.GOOS)
	}
	path, err := exec.LookPath(w.argv[0])
	if err != nil {
		return fmt.Errorf("%w: %s not found", ErrUnsupported, w.argv[0])
	}
	cmd := exec.Command(path, w.argv[1:]...)
	bindToParent(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("pomodoro: start %s: %w", w.argv[0], err)
	}
	w.cmd = cmd
	go func() { _ = cmd.Wait() }()
	return nil
}

func (w *ExecWakeLock) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cmd == nil {
		return nil
	}
	cmd := w.cmd
	w.cmd = nil
	if cmd.Process == nil {
		return nil
	}
	if err := killInhibitor(cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("pomodoro: stop %s: %w", w.argv[0], err)
	}
	return nil
}

func (w *ExecWakeLock) Held() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cmd != nil
}

// NoWakeLock is used when wake locking is disabled.
type NoWakeLock struct{}

func (NoWakeLock) Acquire() error { return ErrUnsupported }
func (NoWakeLock) Release() error { return nil }
