package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/commands"
	"github.com/sandeepkv93/zen/internal/tasklist"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	m.Status = StatusBar{}
	var cmds []tea.Cmd
	needSession := func() error {
		if !m.SignedIn || m.deps.Tasks == nil {
			return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "Authentication required"}
		}
		return nil
	}
	loaded := func(id int64) error {
		if err := needSession(); err != nil {
			return err
		}
		if _, ok := m.deps.Tasks.Task(id); !ok {
			return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("task %d is not loaded", id)}
		}
		return nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := needSession(); err != nil {
				return commands.Result{}, err
			}
			ctl := m.deps.Tasks
			in := tasklist.QuickAddInput{Title: a.Title, Priority: a.Priority, DueDate: a.DueDate}
			ctx, _ := m.reqs.begin(scopeTasks)
			cmds = append(cmds, m.busyCmd(func() tea.Msg {
				task, err := ctl.QuickAdd(ctx, in)
				return TaskCreatedMsg{Task: task, Err: err}
			}))
			return commands.Result{Message: fmt.Sprintf("adding task: %s", a.Title)}, nil
		},
		Status: func(s commands.StatusArgs) (commands.Result, error) {
			if err := loaded(s.TaskID); err != nil {
				return commands.Result{}, err
			}
			cmds = append(cmds, m.busyCmd(m.setStatusCmd(s.TaskID, s.Status)))
			return commands.Result{Message: fmt.Sprintf("updating task %d", s.TaskID)}, nil
		},
		Refresh: func() (commands.Result, error) {
			if err := needSession(); err != nil {
				return commands.Result{}, err
			}
			m.deps.Tasks.Refresh()
			m.Home.Cursor = 0
			cmds = append(cmds, m.fetchTasksCmd())
			return commands.Result{Message: "refreshing tasks"}, nil
		},
		More: func() (commands.Result, error) {
			if err := needSession(); err != nil {
				return commands.Result{}, err
			}
			if !m.deps.Tasks.HasMore() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no more tasks to load"}
			}
			if !m.deps.Tasks.LoadMore() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "tasks are still loading"}
			}
			cmds = append(cmds, m.fetchTasksCmd())
			return commands.Result{Message: "loading more tasks"}, nil
		},
		Sync: func(t commands.TaskArgs) (commands.Result, error) {
			if err := loaded(t.TaskID); err != nil {
				return commands.Result{}, err
			}
			cmds = append(cmds, m.busyCmd(m.syncCalendarCmd(t.TaskID)))
			return commands.Result{Message: fmt.Sprintf("syncing task %d to Google Calendar", t.TaskID)}, nil
		},
		Breakdown: func(t commands.TaskArgs) (commands.Result, error) {
			if err := loaded(t.TaskID); err != nil {
				return commands.Result{}, err
			}
			m.selectTask(t.TaskID)
			cmds = append(cmds, m.busyCmd(m.breakdownCmd(t.TaskID)))
			return commands.Result{Message: fmt.Sprintf("breaking down task %d", t.TaskID)}, nil
		},
		Extract: func(e commands.ExtractArgs) (commands.Result, error) {
			if err := needSession(); err != nil {
				return commands.Result{}, err
			}
			next, c := m.switchScreen(ScreenHome)
			m = next.(Model)
			cmds = append(cmds, c)
			m.Home.Extract = ExtractState{Active: true}
			m.scriptArea.SetValue(e.Script)
			next, c = m.extractScript()
			m = next.(Model)
			cmds = append(cmds, c)
			return commands.Result{Message: "Processing your request..."}, nil
		},
		Join: func(j commands.JoinArgs) (commands.Result, error) {
			if err := needSession(); err != nil {
				return commands.Result{}, err
			}
			cmds = append(cmds, m.busyCmd(m.joinTeamCmd(j.TeamID, j.Role)))
			return commands.Result{Message: fmt.Sprintf("joining team %d as %s", j.TeamID, j.Role)}, nil
		},
		Schedule: func() (commands.Result, error) {
			if err := needSession(); err != nil {
				return commands.Result{}, err
			}
			cmds = append(cmds, m.busyCmd(m.smartScheduleCmd()))
			return commands.Result{Message: "building smart schedule"}, nil
		},
		Mode: func(a commands.ModeArgs) (commands.Result, error) {
			next, c := m.switchFocusMode(a.Mode)
			m = next.(Model)
			cmds = append(cmds, c)
			return commands.Result{Message: "mode: " + a.Mode.Label()}, nil
		},
		Focus: func(f commands.FocusArgs) (commands.Result, error) {
			next, c := m.setFocusMode(f.On)
			m = next.(Model)
			cmds = append(cmds, c)
			if f.On {
				return commands.Result{Message: "focus mode on"}, nil
			}
			return commands.Result{Message: "focus mode off"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, tea.Batch(cmds...)
	}
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, tea.Batch(cmds...)
}

// selectTask moves the home cursor onto the task with id, if loaded.
func (m *Model) selectTask(id int64) {
	for i, t := range m.tasks() {
		if t.ID == id {
			m.Home.Cursor = i
			return
		}
	}
}
