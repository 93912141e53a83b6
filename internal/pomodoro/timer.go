package pomodoro

import (
	"fmt"

	"github.com/sandeepkv93/zen/internal/model"
)

// Durations are in seconds.
type Durations struct {
	Work           int
	ShortBreak     int
	LongBreak      int
	LongBreakEvery int
}

func DefaultDurations() Durations {
	return Durations{Work: 25 * 60, ShortBreak: 5 * 60, LongBreak: 15 * 60, LongBreakEvery: 4}
}

func (d Durations) For(mode model.FocusMode) int {
	switch mode {
	case model.FocusModeShortBreak:
		return d.ShortBreak
	case model.FocusModeLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Timer is the pomodoro state machine. It never reads the clock: it moves
// one second per Tick and only while running.
type Timer struct {
	Mode      model.FocusMode
	Remaining int
	Running   bool
	Completed int

	// Run changes every time the timer starts so ticks scheduled by an
	// earlier run can be told apart.
	Run uint64

	durations Durations
}

// Transition describes a countdown reaching zero.
type Transition struct {
	From        model.FocusMode
	To          model.FocusMode
	DurationSec int
}

func NewTimer(d Durations) Timer {
	if d.LongBreakEvery <= 0 {
		d.LongBreakEvery = 4
	}
	return Timer{Mode: model.FocusModeWork, Remaining: d.Work, durations: d}
}

func (t Timer) Durations() Durations {
	return t.durations
}

func (t Timer) Total() int {
	return t.durations.For(t.Mode)
}

// Progress is the elapsed fraction of the current interval.
func (t Timer) Progress() float64 {
	total := t.Total()
	if total <= 0 {
		return 0
	}
	return float64(total-t.Remaining) / float64(total)
}

// Toggle starts a paused timer or pauses a running one.
func (t *Timer) Toggle() {
	if t.Running {
		t.Running = false
		return
	}
	if t.Remaining <= 0 {
		t.Remaining = t.Total()
	}
	t.Running = true
	t.Run++
}

// Reset stops and restores the current mode's full duration.
func (t *Timer) Reset() {
	t.Running = false
	t.Remaining = t.Total()
}

// SwitchMode stops and loads the target mode's full duration.
func (t *Timer) SwitchMode(mode model.FocusMode) {
	if !mode.IsValid() {
		return
	}
	t.Mode = mode
	t.Reset()
}

// Tick advances one second. A tick for a stale run or a paused timer is a
// no-op. When the countdown reaches zero the timer stops in the next mode.
func (t *Timer) Tick(run uint64) (Transition, bool) {
	if !t.Running || run != t.Run {
		return Transition{}, false
	}
	if t.Remaining > 0 {
		t.Remaining--
	}
	if t.Remaining > 0 {
		return Transition{}, false
	}

	tr := Transition{From: t.Mode, DurationSec: t.Total()}
	if t.Mode == model.FocusModeWork {
		before := t.Completed
		t.Completed++
		if before%t.durations.LongBreakEvery == t.durations.LongBreakEvery-1 {
			t.Mode = model.FocusModeLongBreak
		} else {
			t.Mode = model.FocusModeShortBreak
		}
	} else {
		t.Mode = model.FocusModeWork
	}
	t.Running = false
	t.Remaining = t.Total()
	tr.To = t.Mode
	return tr, true
}

// FormatClock renders seconds as MM:SS.
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
