package pomodoro

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func TestExecWakeLockReleaseStopsInhibitor(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	w := NewCommandWakeLock("sleep", "30")
	if err := w.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !w.Held() {
		t.Fatal("expected lock held")
	}
	proc := w.cmd.Process
	if attr := w.cmd.SysProcAttr; attr == nil || attr.Pdeathsig != syscall.SIGTERM || !attr.Setpgid {
		t.Fatalf("expected inhibitor bound to parent, got %+v", attr)
	}

	if err := w.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if w.Held() {
		t.Fatal("expected lock released")
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := proc.Signal(syscall.Signal(0)); errors.Is(err, os.ErrProcessDone) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("inhibitor still running after release")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExecWakeLockReleaseIsIdempotent(t *testing.T) {
	w := NewCommandWakeLock()
	if err := w.Release(); err != nil {
		t.Fatalf("release without acquire: %v", err)
	}
	if err := w.Acquire(); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported without argv, got %v", err)
	}
}
