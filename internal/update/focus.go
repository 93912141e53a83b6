package update

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/pomodoro"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/storage"
	"github.com/sandeepkv93/zen/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		return m.toggleTimer()
	case "r":
		m.Focus.Timer.Reset()
		m.Status = StatusBar{Text: "focus reset"}
		return m.syncFocusGuard(nil)
	case "w":
		return m.switchFocusMode(model.FocusModeWork)
	case "s":
		return m.switchFocusMode(model.FocusModeShortBreak)
	case "l":
		return m.switchFocusMode(model.FocusModeLongBreak)
	case "f":
		return m.setFocusMode(!m.guard.Enabled())
	case "x":
		m.Focus.TaskID = nil
		m.Focus.TaskTitle = ""
	}
	return m, nil
}

func (m Model) toggleTimer() (tea.Model, tea.Cmd) {
	m.Focus.Timer.Toggle()
	var tick tea.Cmd
	if m.Focus.Timer.Running {
		if m.Focus.Timer.Mode == model.FocusModeWork && m.Focus.Timer.Remaining == m.Focus.Timer.Total() {
			m.Focus.startedAt = m.deps.Now()
		}
		m.Status = StatusBar{Text: "focus running"}
		tick = focusTickCmd(m.Focus.Timer.Run)
	} else {
		m.Status = StatusBar{Text: "focus paused"}
	}
	return m.syncFocusGuard(tick)
}

func (m Model) switchFocusMode(mode model.FocusMode) (tea.Model, tea.Cmd) {
	m.Focus.Timer.SwitchMode(mode)
	m.Status = StatusBar{Text: "mode: " + mode.Label()}
	return m.syncFocusGuard(nil)
}

func (m Model) setFocusMode(on bool) (tea.Model, tea.Cmd) {
	err := m.guard.SetEnabled(on, m.Focus.Timer)
	if on {
		m.Status = StatusBar{Text: "focus mode on"}
	} else {
		m.Status = StatusBar{Text: "focus mode off"}
	}
	if err != nil {
		m.Status = StatusBar{Text: "focus mode: " + err.Error(), IsError: true}
		m.notify("Focus mode", err.Error(), "warning")
	}
	if perr := m.persistUIState(); perr != nil {
		log.Printf("zen: save ui state: %v", perr)
	}
	return m, m.display.flush()
}

// syncFocusGuard reconciles focus-mode effects after a timer change and
// batches the display commands with extra.
func (m Model) syncFocusGuard(extra tea.Cmd) (tea.Model, tea.Cmd) {
	if err := m.guard.Sync(m.Focus.Timer); err != nil {
		m.notify("Focus mode", err.Error(), "warning")
	}
	return m, tea.Batch(extra, m.display.flush())
}

func (m Model) onFocusTick(msg FocusTickMsg) (tea.Model, tea.Cmd) {
	tr, done := m.Focus.Timer.Tick(msg.Run)
	var next tea.Cmd
	if m.Focus.Timer.Running && msg.Run == m.Focus.Timer.Run {
		next = focusTickCmd(msg.Run)
	}
	if !done {
		return m.syncFocusGuard(next)
	}

	var record tea.Cmd
	if tr.From == model.FocusModeWork {
		m.Status = StatusBar{Text: "Focus session completed! Time for a well-deserved break."}
		m.notify("Focus session completed! 🌱", "Time for a well-deserved break.", "info")
		record = m.recordFocusCmd(tr)
	} else {
		m.Status = StatusBar{Text: "Break time over! Ready to focus again?"}
		m.notify("Break time over! ⚡", "Ready to focus again?", "info")
	}
	return m.syncFocusGuard(tea.Batch(next, record))
}

func focusTickCmd(run uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{Run: run} })
}

func (m Model) recordFocusCmd(tr pomodoro.Transition) tea.Cmd {
	repo := m.deps.FocusLog
	if repo == nil {
		return nil
	}
	end := m.deps.Now()
	start := end.Add(-time.Duration(tr.DurationSec) * time.Second)
	if !m.Focus.startedAt.IsZero() && m.Focus.startedAt.Before(start) {
		start = m.Focus.startedAt
	}
	fs := storage.NewFocusSession(tr.From, start, end, m.Focus.TaskID)
	fs.DurationSec = tr.DurationSec
	return func() tea.Msg {
		return FocusRecordedMsg{Err: repo.RecordFocusSession(context.Background(), fs)}
	}
}

func (m Model) loadFocusStatsCmd() tea.Cmd {
	repo := m.deps.FocusLog
	if repo == nil {
		return nil
	}
	now := m.deps.Now()
	return func() tea.Msg {
		ctx := context.Background()
		minutes, err := repo.FocusMinutes(ctx, now)
		if err != nil {
			return FocusStatsMsg{Err: err}
		}
		streak, err := repo.StreakDays(ctx, now)
		return FocusStatsMsg{Minutes: minutes, Streak: streak, Err: err}
	}
}

func (m Model) onFocusStats(msg FocusStatsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		log.Printf("zen: load focus stats: %v", msg.Err)
		return m, nil
	}
	m.Focus.FocusMinutes = msg.Minutes
	m.Focus.StreakDays = msg.Streak
	return m, nil
}

// bootstrapFocusTask ties the timer to the selected home task when nothing
// is tied yet.
func (m *Model) bootstrapFocusTask() {
	if m.Focus.TaskID != nil {
		return
	}
	if t, ok := m.selectedTask(); ok && !t.Status.IsTerminal() {
		id := t.ID
		m.Focus.TaskID = &id
		m.Focus.TaskTitle = t.Title
	}
}

func (m Model) renderFocusView() string {
	t := m.Focus.Timer
	progress := t.Progress()
	d := stats.Daily{
		FocusMinutes: m.Focus.FocusMinutes,
		StreakDays:   m.Focus.StreakDays,
		FocusGoal:    m.opts.FocusGoalMinutes,
		StreakGoal:   m.opts.StreakGoalDays,
	}
	items := d.Items()
	return views.RenderFocusPanel(views.FocusPanelData{
		ModeLabel:    t.Mode.Label(),
		Timer:        pomodoro.FormatClock(t.Remaining),
		ProgressView: m.focusProgress.ViewAs(progress),
		ProgressPct:  int(progress * 100),
		Completed:    t.Completed,
		Running:      t.Running,
		FocusMode:    m.guard.Enabled(),
		WakeHeld:     m.guard.WakeHeld(),
		TaskTitle:    m.Focus.TaskTitle,
		Stats:        statItems(items[1:]),
	})
}
