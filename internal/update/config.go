package update

import (
	"path/filepath"

	"github.com/sandeepkv93/zen/internal/config"
	"github.com/sandeepkv93/zen/internal/pomodoro"
	"github.com/sandeepkv93/zen/internal/stats"
)

// Options are the TUI settings derived from the loaded config.
type Options struct {
	Durations            pomodoro.Durations
	DesktopNotifications bool
	FocusGoalMinutes     int
	StreakGoalDays       int
	ReportDir            string
	StatePath            string
}

func DefaultOptions() Options {
	return Options{
		Durations:        pomodoro.DefaultDurations(),
		FocusGoalMinutes: stats.DefaultFocusGoalMinutes,
		StreakGoalDays:   stats.DefaultStreakGoalDays,
	}
}

func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	if cfg.Focus.WorkSeconds > 0 {
		opts.Durations.Work = cfg.Focus.WorkSeconds
	}
	if cfg.Focus.ShortBreakSeconds > 0 {
		opts.Durations.ShortBreak = cfg.Focus.ShortBreakSeconds
	}
	if cfg.Focus.LongBreakSeconds > 0 {
		opts.Durations.LongBreak = cfg.Focus.LongBreakSeconds
	}
	if cfg.Focus.LongBreakEvery > 0 {
		opts.Durations.LongBreakEvery = cfg.Focus.LongBreakEvery
	}
	if cfg.UI.FocusGoalMinutes > 0 {
		opts.FocusGoalMinutes = cfg.UI.FocusGoalMinutes
	}
	if cfg.UI.StreakGoalDays > 0 {
		opts.StreakGoalDays = cfg.UI.StreakGoalDays
	}
	opts.DesktopNotifications = cfg.UI.DesktopNotifications
	dir := config.Dir()
	if cfg.Storage.DBPath != "" {
		dir = filepath.Dir(cfg.Storage.DBPath)
	}
	opts.ReportDir = filepath.Join(dir, "reports")
	opts.StatePath = filepath.Join(dir, "ui_state.json")
	return opts
}
