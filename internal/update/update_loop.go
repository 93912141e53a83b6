package update

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/session"
	"github.com/sandeepkv93/zen/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(appTitle),
		waitForSessionCmd(m.sessionChanges),
		m.loadFocusStatsCmd(),
	}
	if m.deps.Reminders != nil {
		cmds = append(cmds, waitForReminderCmd(m.deps.Reminders.C()))
	}
	if m.SignedIn {
		cmds = append(cmds, m.fetchTasksCmd(), m.enterScreenCmd(m.CurrentScreen))
	} else {
		cmds = append(cmds, m.restoreSessionCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.FocusMsg:
		m.Focused = true
		return m, nil
	case tea.BlurMsg:
		m.Focused = false
		return m, nil
	case spinner.TickMsg:
		if m.busy > 0 {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SwitchScreenMsg:
		if isKnownScreen(typed.Screen) {
			return m.switchScreen(typed.Screen)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			log.Printf("zen: %v", typed.Err)
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case NoticeMsg:
		m.Status = StatusBar{Text: typed.Body, IsError: typed.Level == "error"}
		m.notify(typed.Title, typed.Body, typed.Level)
		return m, nil
	case SessionChangedMsg:
		next, cmd := m.onSessionChanged(typed.Change)
		return next, tea.Batch(cmd, waitForSessionCmd(m.sessionChanges))
	case AuthDoneMsg:
		return m.onAuthDone(typed), nil
	case TasksLoadedMsg:
		return m.onTasksLoaded(typed)
	case TaskStatusMsg:
		return m.onTaskStatus(typed)
	case TaskCreatedMsg:
		return m.onTaskCreated(typed)
	case BreakdownMsg:
		return m.onBreakdown(typed)
	case CalendarSyncedMsg:
		return m.onCalendarSynced(typed)
	case ScheduleMsg:
		return m.onSchedule(typed)
	case ExtractedMsg:
		return m.onExtracted(typed)
	case VoiceResultMsg:
		return m.onVoiceResult(typed)
	case VoiceEndedMsg:
		return m.onVoiceEnded(typed)
	case FocusTickMsg:
		return m.onFocusTick(typed)
	case FocusStatsMsg:
		return m.onFocusStats(typed)
	case FocusRecordedMsg:
		if typed.Err != nil {
			log.Printf("zen: record focus session: %v", typed.Err)
			return m, nil
		}
		return m, m.loadFocusStatsCmd()
	case CalendarEventsMsg:
		return m.onCalendarEvents(typed)
	case ProjectsMsg:
		return m.onProjects(typed)
	case TeamsMsg:
		return m.onTeams(typed)
	case TeamMembersMsg:
		return m.onTeamMembers(typed)
	case SprintMsg:
		return m.onSprint(typed)
	case MemberDashboardMsg:
		return m.onMemberDashboard(typed)
	case UsersMsg:
		return m.onUsers(typed)
	case MemberAddedMsg:
		return m.onMemberAdded(typed)
	case JoinedMsg:
		return m.onJoined(typed)
	case ReportMsg:
		return m.onReport(typed)
	case ReportExportedMsg:
		return m.onReportExported(typed)
	case DueReminderMsg:
		m.applyReminder(typed.Reminder)
		if m.deps.Reminders != nil {
			return m, waitForReminderCmd(m.deps.Reminders.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return m.quit()
	}
	if m.Palette.Active {
		if keyStr == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}
	if m.modalActive() {
		return m.handleModalKey(msg)
	}

	switch keyStr {
	case m.Keys.Palette:
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		return m.quit()
	}
	if len(keyStr) == 1 && keyStr[0] >= '1' && keyStr[0] <= '9' {
		idx := int(keyStr[0] - '1')
		if idx < len(tabs) {
			return m.switchScreen(tabs[idx])
		}
	}

	switch m.CurrentScreen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenFocus:
		return m.handleFocusKey(msg)
	case ScreenCalendar:
		return m.handleCalendarKey(msg)
	case ScreenProjects:
		return m.handleProjectsKey(msg)
	case ScreenTeams:
		return m.handleTeamsKey(msg)
	case ScreenTeamDetail:
		return m.handleTeamDetailKey(msg)
	case ScreenReports:
		return m.handleReportsKey(msg)
	case ScreenProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m Model) modalActive() bool {
	switch m.CurrentScreen {
	case ScreenHome:
		return m.Home.QuickAdd.Active || m.Home.Dialog.Active || m.Home.Extract.Active
	case ScreenTeamDetail:
		return m.TeamDetail.AddMember.Active
	}
	return false
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.Home.QuickAdd.Active:
		return m.handleQuickAddKey(msg)
	case m.Home.Dialog.Active:
		return m.handleStatusDialogKey(msg)
	case m.Home.Extract.Active:
		return m.handleExtractKey(msg)
	case m.TeamDetail.AddMember.Active:
		return m.handleAddMemberKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if err := m.persistUIState(); err != nil {
		log.Printf("zen: save ui state: %v", err)
	}
	if err := m.Close(); err != nil {
		log.Printf("zen: release focus mode: %v", err)
	}
	return m, tea.Sequence(m.display.flush(), tea.Quit)
}

// Close cancels outstanding requests and releases voice capture and focus
// mode effects. It is safe to call more than once and must run on every exit
// path, including ones that never reach Update.
func (m Model) Close() error {
	m.reqs.resetAll()
	m.deps.Voice.Close()
	return m.guard.Close()
}

// switchScreen unmounts the current screen, cancelling its requests, and
// loads the next one.
func (m Model) switchScreen(next Screen) (tea.Model, tea.Cmd) {
	if next == m.CurrentScreen {
		return m, nil
	}
	m.reqs.reset(m.CurrentScreen)
	if m.CurrentScreen == ScreenHome {
		m.closeHomeModals()
	}
	if next != ScreenTeamDetail && m.CurrentScreen == ScreenTeamDetail {
		m.reqs.reset(ScreenTeams)
	}
	m.CurrentScreen = next
	if err := m.persistUIState(); err != nil {
		log.Printf("zen: save ui state: %v", err)
	}
	cmd := m.enterScreenCmd(next)
	return m, cmd
}

func (m *Model) enterScreenCmd(s Screen) tea.Cmd {
	switch s {
	case ScreenFocus:
		m.bootstrapFocusTask()
		return m.loadFocusStatsCmd()
	case ScreenCalendar:
		return m.loadCalendarCmd()
	case ScreenProjects:
		return m.loadProjectsCmd()
	case ScreenTeams:
		return m.loadTeamsCmd()
	case ScreenReports:
		if m.Reports.Report == nil && !m.Reports.Loading {
			return m.generateReportCmd()
		}
	case ScreenProfile:
		return m.loadProfileCmd()
	}
	return nil
}

func (m Model) onSessionChanged(c session.Change) (Model, tea.Cmd) {
	if c.SignedIn {
		m.applySession(c.Session)
		if m.deps.Tasks != nil {
			m.deps.Tasks.Refresh()
		}
		m.Home.Cursor = 0
		m.Status = StatusBar{Text: "You've successfully signed in."}
		m.notify("Welcome back!", "You've successfully signed in.", "info")
		cmd := tea.Batch(m.fetchTasksCmd(), m.enterScreenCmd(m.CurrentScreen))
		return m, cmd
	}

	wasSignedIn := m.SignedIn || m.User != nil
	m.User = nil
	m.SignedIn = false
	m.reqs.resetAll()
	if m.deps.Tasks != nil {
		m.deps.Tasks.Reset()
	}
	if m.deps.Reminders != nil {
		m.deps.Reminders.Sync(nil)
	}
	m.closeHomeModals()
	m.Home = HomeState{QuickAdd: QuickAddState{Priority: m.Home.QuickAdd.Priority}}
	m.Calendar.Events = nil
	m.Projects = ProjectsState{}
	m.Teams = TeamsState{}
	m.TeamDetail = TeamDetailState{}
	m.Reports = ReportState{}
	m.Profile = ProfileState{}
	m.busy = 0
	if m.CurrentScreen == ScreenTeamDetail {
		m.CurrentScreen = ScreenTeams
	}
	if wasSignedIn {
		m.Status = StatusBar{Text: "You've been successfully signed out."}
		m.notify("Signed out", "You've been successfully signed out.", "info")
	}
	return m, nil
}

func (m *Model) applySession(s session.Session) {
	user := s.User
	m.User = &user
	m.SignedIn = s.Valid()
}

func (m Model) onAuthDone(msg AuthDoneMsg) Model {
	switch {
	case msg.Err != nil && msg.Action == actionRestore:
		log.Printf("zen: %s: %v", msg.Action, msg.Err)
	case msg.Err != nil:
		m.LastError = msg.Err
		log.Printf("zen: %s: %v", msg.Action, msg.Err)
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
		m.notify("Error", msg.Err.Error(), "error")
	case msg.Action != actionSignOut && m.deps.Bridge != nil && m.deps.Bridge.ProviderAuthenticated():
		if _, ok := m.deps.Bridge.Current(); !ok {
			m.Status = StatusBar{Text: "Failed to connect to server", IsError: true}
			m.notify("Error", "Failed to connect to server", "error")
		}
	case msg.Action == actionSignOut:
		m.Status = StatusBar{Text: "signed out"}
	}
	return m
}

func (m Model) View() string {
	m.syncBubbleData()
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentScreen {
	case ScreenHome:
		leftPane = m.renderHomeView()
		rightPane = joinPanes(m.renderHomeSidePane(), m.renderHelpIfVisible())
	case ScreenFocus:
		leftPane = m.renderFocusView()
		rightPane = m.renderHelpIfVisible()
	case ScreenCalendar:
		leftPane = m.renderCalendarView()
		rightPane = m.renderHelpIfVisible()
	case ScreenProjects:
		leftPane = m.renderProjectsView()
		rightPane = m.renderHelpIfVisible()
	case ScreenTeams:
		leftPane = m.renderTeamsView()
		rightPane = m.renderHelpIfVisible()
	case ScreenTeamDetail:
		leftPane = m.renderTeamDetailView()
		rightPane = joinPanes(m.renderTeamMemberPane(), m.renderHelpIfVisible())
	case ScreenReports:
		leftPane = m.renderReportsView()
		rightPane = m.renderHelpIfVisible()
	case ScreenProfile:
		leftPane = m.renderProfileView()
		rightPane = m.renderHelpIfVisible()
	}
	rightPane = joinPanes(m.renderCommandPalette(), rightPane)

	notificationView := strings.TrimSpace(m.renderNotificationsView())
	if m.busy > 0 {
		notificationView = strings.TrimSpace(strings.Join([]string{m.busySpinner.View() + " working...", notificationView}, "\n"))
	}

	who := "signed out"
	if m.User != nil {
		who = m.User.DisplayName()
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("zen | %s | %s", m.CurrentScreen, who),
		Tabs:         tabLabels(),
		ActiveTab:    m.activeTab(),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notificationView,
		Footer:       fmt.Sprintf("keys: 1-%d screens | %s cmd | %s help | %s quit", len(tabs), m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) activeTab() int {
	cur := m.CurrentScreen
	if cur == ScreenTeamDetail {
		cur = ScreenTeams
	}
	for i, s := range tabs {
		if s == cur {
			return i
		}
	}
	return 0
}

func tabLabels() []string {
	out := make([]string, 0, len(tabs))
	for i, s := range tabs {
		out = append(out, fmt.Sprintf("%d %s", i+1, s))
	}
	return out
}

func isTab(s Screen) bool {
	for _, t := range tabs {
		if t == s {
			return true
		}
	}
	return false
}

func isKnownScreen(s Screen) bool {
	return isTab(s) || s == ScreenTeamDetail
}

func joinPanes(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
