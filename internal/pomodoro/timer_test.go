package pomodoro

import (
	"testing"

	"github.com/sandeepkv93/zen/internal/model"
)

func shortDurations() Durations {
	return Durations{Work: 3, ShortBreak: 2, LongBreak: 4, LongBreakEvery: 4}
}

func runToZero(t *testing.T, tm *Timer) Transition {
	t.Helper()
	if !tm.Running {
		tm.Toggle()
	}
	for i := 0; i < 10_000; i++ {
		if tr, done := tm.Tick(tm.Run); done {
			return tr
		}
	}
	t.Fatal("timer never reached zero")
	return Transition{}
}

func TestDefaults(t *testing.T) {
	tm := NewTimer(DefaultDurations())
	if tm.Mode != model.FocusModeWork || tm.Remaining != 1500 || tm.Running {
		t.Fatalf("unexpected initial timer: %+v", tm)
	}
}

func TestLongBreakEveryFourthSession(t *testing.T) {
	tm := NewTimer(shortDurations())
	want := []model.FocusMode{
		model.FocusModeShortBreak,
		model.FocusModeShortBreak,
		model.FocusModeShortBreak,
		model.FocusModeLongBreak,
		model.FocusModeShortBreak,
	}
	for i, mode := range want {
		tr := runToZero(t, &tm)
		if tr.From != model.FocusModeWork || tr.To != mode {
			t.Fatalf("session %d: transition %+v, want to=%s", i, tr, mode)
		}
		if tm.Completed != i+1 {
			t.Fatalf("session %d: completed=%d", i, tm.Completed)
		}
		if tm.Running {
			t.Fatal("timer must stop after a work interval")
		}
		if tm.Remaining != tm.Durations().For(mode) {
			t.Fatalf("break should start with full duration, got %d", tm.Remaining)
		}
		back := runToZero(t, &tm)
		if back.To != model.FocusModeWork || tm.Remaining != 3 {
			t.Fatalf("break should return to full work interval, got %+v remaining=%d", back, tm.Remaining)
		}
	}
}

func TestCompletedThreeGivesLongBreak(t *testing.T) {
	tm := NewTimer(shortDurations())
	tm.Completed = 3
	tr := runToZero(t, &tm)
	if tr.To != model.FocusModeLongBreak || tm.Remaining != 4 {
		t.Fatalf("expected long break with full duration, got %+v remaining=%d", tr, tm.Remaining)
	}
	tm = NewTimer(shortDurations())
	tm.Completed = 2
	if tr := runToZero(t, &tm); tr.To != model.FocusModeShortBreak {
		t.Fatalf("expected short break, got %+v", tr)
	}
}

func TestPausedTimerDoesNotAdvance(t *testing.T) {
	tm := NewTimer(DefaultDurations())
	tm.Toggle()
	tm.Tick(tm.Run)
	tm.Toggle()
	left := tm.Remaining

	for i := 0; i < 100; i++ {
		tm.Tick(tm.Run)
	}
	if tm.Remaining != left {
		t.Fatalf("paused timer advanced: %d -> %d", left, tm.Remaining)
	}
}

func TestStaleRunTicksIgnored(t *testing.T) {
	tm := NewTimer(DefaultDurations())
	tm.Toggle()
	oldRun := tm.Run
	tm.Toggle()
	tm.Toggle()

	tm.Tick(oldRun)
	if tm.Remaining != 1500 {
		t.Fatalf("tick from a previous run must be ignored, remaining=%d", tm.Remaining)
	}
	tm.Tick(tm.Run)
	if tm.Remaining != 1499 {
		t.Fatalf("current run tick should advance, remaining=%d", tm.Remaining)
	}
}

func TestSwitchModeAndResetStop(t *testing.T) {
	tm := NewTimer(DefaultDurations())
	tm.Toggle()
	tm.Tick(tm.Run)

	tm.SwitchMode(model.FocusModeLongBreak)
	if tm.Running || tm.Remaining != 900 || tm.Mode != model.FocusModeLongBreak {
		t.Fatalf("unexpected timer after switch: %+v", tm)
	}

	tm.Toggle()
	tm.Tick(tm.Run)
	tm.Reset()
	if tm.Running || tm.Remaining != 900 {
		t.Fatalf("unexpected timer after reset: %+v", tm)
	}

	tm.SwitchMode(model.FocusMode("nap"))
	if tm.Mode != model.FocusModeLongBreak {
		t.Fatal("invalid mode must be ignored")
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(1500); got != "25:00" {
		t.Fatalf("unexpected clock %q", got)
	}
	if got := FormatClock(61); got != "01:01" {
		t.Fatalf("unexpected clock %q", got)
	}
	if got := FormatClock(-5); got != "00:00" {
		t.Fatalf("unexpected clock %q", got)
	}
}
