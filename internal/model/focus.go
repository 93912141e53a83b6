package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidFocusMode = errors.New("model: invalid focus mode")

type FocusMode string

const (
	FocusModeWork       FocusMode = "work"
	FocusModeShortBreak FocusMode = "shortBreak"
	FocusModeLongBreak  FocusMode = "longBreak"
)

func (m FocusMode) IsValid() bool {
	switch m {
	case FocusModeWork, FocusModeShortBreak, FocusModeLongBreak:
		return true
	default:
		return false
	}
}

func (m FocusMode) Label() string {
	switch m {
	case FocusModeWork:
		return "Focus Time"
	case FocusModeShortBreak:
		return "Short Break"
	case FocusModeLongBreak:
		return "Long Break"
	default:
		return string(m)
	}
}

// ParseFocusMode accepts the palette spellings work, short and long.
func ParseFocusMode(raw string) (FocusMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "work", "focus":
		return FocusModeWork, nil
	case "short", "shortbreak", "short_break":
		return FocusModeShortBreak, nil
	case "long", "longbreak", "long_break":
		return FocusModeLongBreak, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFocusMode, raw)
	}
}

// FocusSession is one completed pomodoro interval kept in the local log.
type FocusSession struct {
	ID          string
	Mode        FocusMode
	StartedAt   time.Time
	EndedAt     time.Time
	DurationSec int
	TaskID      *int64
}

func (f FocusSession) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errors.New("model: focus session id is required")
	}
	if !f.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFocusMode, f.Mode)
	}
	if f.StartedAt.IsZero() || f.EndedAt.IsZero() {
		return errors.New("model: focus session start and end are required")
	}
	if f.EndedAt.Before(f.StartedAt) {
		return errors.New("model: focus session ends before it starts")
	}
	if f.DurationSec < 0 {
		return errors.New("model: focus session duration must be non-negative")
	}
	return nil
}
