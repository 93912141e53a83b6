package pomodoro

import (
	"errors"
	"fmt"
	"log"

	"github.com/sandeepkv93/zen/internal/model"
)

var ErrUnsupported = errors.New("pomodoro: capability unsupported")

// WakeLock keeps the machine awake while held.
type WakeLock interface {
	Acquire() error
	Release() error
}

// Display controls the window title and fullscreen presentation.
type Display interface {
	SetTitle(title string)
	RestoreTitle()
	EnterFullscreen() error
	ExitFullscreen() error
}

// FocusGuard applies focus-mode side effects while the timer is in a running
// work interval and releases everything it acquired on every other state.
type FocusGuard struct {
	wake    WakeLock
	display Display

	enabled    bool
	active     bool
	wakeHeld   bool
	fullscreen bool
}

func NewFocusGuard(wake WakeLock, display Display) *FocusGuard {
	return &FocusGuard{wake: wake, display: display}
}

func (g *FocusGuard) Enabled() bool { return g.enabled }

func (g *FocusGuard) Active() bool { return g.active }

func (g *FocusGuard) WakeHeld() bool { return g.wakeHeld }

func (g *FocusGuard) SetEnabled(on bool, t Timer) error {
	g.enabled = on
	return g.Sync(t)
}

// Sync reconciles effects with the timer. Failures are best effort: they are
// logged, skipped and returned joined for the caller to surface.
func (g *FocusGuard) Sync(t Timer) error {
	want := g.enabled && t.Mode == model.FocusModeWork && t.Running
	switch {
	case want && !g.active:
		err := g.activate()
		g.refreshTitle(t)
		return err
	case want:
		g.refreshTitle(t)
		return nil
	case g.active:
		return g.deactivate()
	default:
		return nil
	}
}

// Close forces teardown regardless of timer state.
func (g *FocusGuard) Close() error {
	g.enabled = false
	if !g.active {
		return nil
	}
	return g.deactivate()
}

func (g *FocusGuard) activate() error {
	g.active = true
	var errs []error
	if g.wake != nil {
		if err := g.wake.Acquire(); err != nil {
			log.Printf("pomodoro: wake lock unavailable: %v", err)
			errs = append(errs, fmt.Errorf("wake lock: %w", err))
		} else {
			g.wakeHeld = true
		}
	}
	if g.display != nil {
		if err := g.display.EnterFullscreen(); err != nil {
			log.Printf("pomodoro: fullscreen unavailable: %v", err)
			errs = append(errs, fmt.Errorf("fullscreen: %w", err))
		} else {
			g.fullscreen = true
		}
	}
	return errors.Join(errs...)
}

func (g *FocusGuard) deactivate() error {
	g.active = false
	var errs []error
	if g.wakeHeld {
		if err := g.wake.Release(); err != nil {
			log.Printf("pomodoro: release wake lock: %v", err)
			errs = append(errs, fmt.Errorf("wake lock: %w", err))
		}
		g.wakeHeld = false
	}
	if g.fullscreen {
		if err := g.display.ExitFullscreen(); err != nil {
			log.Printf("pomodoro: exit fullscreen: %v", err)
			errs = append(errs, fmt.Errorf("fullscreen: %w", err))
		}
		g.fullscreen = false
	}
	if g.display != nil {
		g.display.RestoreTitle()
	}
	return errors.Join(errs...)
}

func (g *FocusGuard) refreshTitle(t Timer) {
	if g.display == nil {
		return
	}
	g.display.SetTitle(fmt.Sprintf("%s - %s", FormatClock(t.Remaining), t.Mode.Label()))
}
