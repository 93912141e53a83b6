package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/zen/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := toKeyBindings(m.globalBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentScreen),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: fmt.Sprintf("1-%d", len(tabs)), Action: "switch screen"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentScreen {
	case ScreenHome:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a", Action: "quick add task"},
			{Key: "s/enter", Action: "change status"},
			{Key: "r", Action: "refresh tasks"},
			{Key: "m", Action: "load more"},
			{Key: "b", Action: "AI breakdown into subtasks"},
			{Key: "c", Action: "sync to Google Calendar"},
			{Key: "v", Action: "describe or dictate a task"},
			{Key: "S", Action: "smart schedule"},
			{Key: "f", Action: "focus on selected task"},
		}
	case ScreenFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "r", Action: "reset timer"},
			{Key: "w/s/l", Action: "work/short break/long break"},
			{Key: "f", Action: "toggle focus mode"},
			{Key: "x", Action: "detach task"},
		}
	case ScreenCalendar:
		return []KeyBinding{
			{Key: "arrows/hjkl", Action: "move day"},
			{Key: "[ ]", Action: "previous/next month"},
			{Key: "t", Action: "today"},
			{Key: "r", Action: "reload events"},
		}
	case ScreenProjects:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "r", Action: "reload projects"},
		}
	case ScreenTeams:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "open team"},
			{Key: "r", Action: "reload teams"},
		}
	case ScreenTeamDetail:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "d/enter", Action: "member dashboard"},
			{Key: "a", Action: "add member"},
			{Key: "r", Action: "reload team"},
			{Key: "esc", Action: "back to teams"},
		}
	case ScreenReports:
		return []KeyBinding{
			{Key: "g", Action: "generate weekly report"},
			{Key: "p", Action: "export report as PDF"},
			{Key: "j/k", Action: "scroll"},
		}
	case ScreenProfile:
		return []KeyBinding{
			{Key: "i", Action: "sign in with Google"},
			{Key: "o", Action: "sign out"},
			{Key: "r", Action: "reload dashboard"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func toKeyBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
