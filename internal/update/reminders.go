package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/model"
)

// syncReminders reschedules due-date reminders for the loaded tasks.
func (m *Model) syncReminders() {
	if m.deps.Reminders == nil {
		return
	}
	m.deps.Reminders.Sync(m.tasks())
}

func waitForReminderCmd(ch <-chan model.Reminder) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return DueReminderMsg{Reminder: r}
	}
}

// applyReminder surfaces a fired reminder unless the task has since been
// finished or dropped from the list.
func (m *Model) applyReminder(r model.Reminder) {
	if m.deps.Tasks != nil {
		t, ok := m.deps.Tasks.Task(r.TaskID)
		if !ok || t.Status.IsTerminal() {
			return
		}
	}
	m.Status = StatusBar{Text: "Task due: " + r.Title}
	m.notify("Task due", r.Title, "warning")
}
