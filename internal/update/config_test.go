package update

import (
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/zen/internal/config"
	"github.com/sandeepkv93/zen/internal/stats"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Config{
		Focus:   config.FocusConfig{WorkSeconds: 50 * 60, LongBreakEvery: 3},
		Storage: config.StorageConfig{DBPath: filepath.Join("/x", "zen.db")},
		UI:      config.UIConfig{DesktopNotifications: true, FocusGoalMinutes: 90},
	}
	opts := OptionsFromConfig(cfg)
	if opts.Durations.Work != 50*60 || opts.Durations.LongBreakEvery != 3 {
		t.Fatalf("unexpected durations: %+v", opts.Durations)
	}
	if opts.Durations.ShortBreak != 5*60 || opts.Durations.LongBreak != 15*60 {
		t.Fatalf("expected default breaks, got %+v", opts.Durations)
	}
	if !opts.DesktopNotifications || opts.FocusGoalMinutes != 90 {
		t.Fatalf("unexpected ui options: %+v", opts)
	}
	if opts.StreakGoalDays != stats.DefaultStreakGoalDays {
		t.Fatalf("expected default streak goal, got %d", opts.StreakGoalDays)
	}
	if opts.ReportDir != filepath.Join("/x", "reports") || opts.StatePath != filepath.Join("/x", "ui_state.json") {
		t.Fatalf("unexpected paths: report=%q state=%q", opts.ReportDir, opts.StatePath)
	}
}
