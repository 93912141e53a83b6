package update

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/session"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/views"
)

const (
	actionRestore = "restore"
	actionSignIn  = "sign in"
	actionSignOut = "sign out"
)

// authorizedClient is the API client carrying the current session, or nil
// when nobody is signed in.
func (m Model) authorizedClient() *api.Client {
	if m.deps.Client == nil || m.deps.Bridge == nil || m.User == nil {
		return nil
	}
	s, ok := m.deps.Bridge.Current()
	if !ok {
		return nil
	}
	return m.deps.Client.WithSession(s)
}

func waitForSessionCmd(ch <-chan session.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return SessionChangedMsg{Change: c}
	}
}

// restoreSessionCmd replays the persisted provider session through the
// bridge at startup.
func (m Model) restoreSessionCmd() tea.Cmd {
	provider, bridge := m.deps.Provider, m.deps.Bridge
	if provider == nil || bridge == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		ev, err := provider.Restore(ctx)
		if err != nil {
			return AuthDoneMsg{Action: actionRestore, Err: err}
		}
		bridge.HandleEvent(ctx, ev)
		return AuthDoneMsg{Action: actionRestore}
	}
}

func (m Model) signInCmd() tea.Cmd {
	provider, bridge := m.deps.Provider, m.deps.Bridge
	if provider == nil || bridge == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		ev, err := provider.SignIn(ctx)
		if err != nil {
			return AuthDoneMsg{Action: actionSignIn, Err: err}
		}
		bridge.HandleEvent(ctx, ev)
		return AuthDoneMsg{Action: actionSignIn}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	bridge := m.deps.Bridge
	if bridge == nil {
		return nil
	}
	return func() tea.Msg {
		return AuthDoneMsg{Action: actionSignOut, Err: bridge.SignOut(context.Background())}
	}
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i":
		if m.SignedIn {
			return m, nil
		}
		cmd := m.signInCmd()
		if cmd == nil {
			m.Status = StatusBar{Text: "sign in is not configured", IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: "Opening Google sign in..."}
		return m, cmd
	case "o":
		return m, m.signOutCmd()
	case "r":
		cmd := m.loadProfileCmd()
		return m, cmd
	}
	return m, nil
}

func (m *Model) loadProfileCmd() tea.Cmd {
	client := m.authorizedClient()
	if client == nil {
		return nil
	}
	m.reqs.reset(ScreenProfile)
	ctx, gen := m.reqs.begin(ScreenProfile)
	m.Profile.Loading = true
	uid := m.User.ID
	return func() tea.Msg {
		resp, err := client.MemberDashboard(ctx, uid, nil)
		return MemberDashboardMsg{Gen: gen, Dashboard: resp.MemberDashboard, Err: err}
	}
}

func (m Model) onProfileDashboard(msg MemberDashboardMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenProfile, msg.Gen) {
		return m, nil
	}
	m.Profile.Loading = false
	if msg.Err != nil {
		log.Printf("zen: member dashboard: %v", msg.Err)
		m.Status = StatusBar{Text: errText(msg.Err, "Failed to fetch member dashboard"), IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	dash := msg.Dashboard
	m.Profile.Dashboard = &dash
	return m, nil
}

func (m Model) renderProfileView() string {
	data := views.ProfilePanelData{
		SignedIn:     m.SignedIn && m.User != nil,
		ProviderOnly: !m.SignedIn && m.deps.Bridge != nil && m.deps.Bridge.ProviderAuthenticated(),
		Loading:      m.Profile.Loading,
	}
	if m.User != nil {
		data.Name = m.User.DisplayName()
		data.Email = m.User.Email
		data.Username = m.User.Username
		if m.User.CreatedAt != nil {
			data.MemberSince = stats.FormatDate(m.User.CreatedAt.Time)
		}
	}
	if d := m.Profile.Dashboard; d != nil {
		ps := d.PersonalStats
		data.Stats = []views.StatItem{
			{Label: "Tasks", Value: fmt.Sprintf("%d/%d", ps.CompletedTasks, ps.TotalTasks), Bar: stats.Bar(ps.CompletionRate, 10)},
			{Label: "In progress", Value: fmt.Sprintf("%d", ps.InProgressTasks)},
			{Label: "Overdue", Value: fmt.Sprintf("%d", ps.OverdueTasks)},
			{Label: "Avg time", Value: stats.FormatHours(ps.AvgCompletionTimeHours)},
			{Label: "Workload", Value: stats.FormatHours(ps.CurrentWorkloadHours)},
			{Label: "Cal sync", Value: stats.FormatPercent(ps.CalendarSyncRate)},
		}
		for _, t := range d.UpcomingDeadlines {
			due := "-"
			if t.DueDate != nil {
				due = stats.FormatDate(t.DueDate.Time)
			}
			data.Upcoming = append(data.Upcoming, views.TaskRow{
				ID:       t.ID,
				Title:    t.Title,
				Status:   string(t.Status),
				Priority: string(t.Priority),
				Due:      due,
				Overdue:  t.IsOverdue,
			})
		}
		data.Recommendations = d.Recommendations
	}
	return views.RenderProfilePanel(data)
}
