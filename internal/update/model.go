package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/extract"
	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/pomodoro"
	"github.com/sandeepkv93/zen/internal/reminder"
	"github.com/sandeepkv93/zen/internal/session"
	"github.com/sandeepkv93/zen/internal/storage"
	"github.com/sandeepkv93/zen/internal/tasklist"
	"github.com/sandeepkv93/zen/internal/voice"
)

type Screen string

const (
	ScreenHome       Screen = "Home"
	ScreenFocus      Screen = "Focus"
	ScreenCalendar   Screen = "Calendar"
	ScreenProjects   Screen = "Projects"
	ScreenTeams      Screen = "Teams"
	ScreenTeamDetail Screen = "Team"
	ScreenReports    Screen = "Reports"
	ScreenProfile    Screen = "Profile"
)

// tabs is the order of the number keys 1..7.
var tabs = []Screen{ScreenHome, ScreenFocus, ScreenCalendar, ScreenProjects, ScreenTeams, ScreenReports, ScreenProfile}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Palette string
	Help    string
	Quit    string
}

// Provider is the identity provider the TUI drives on sign-in.
type Provider interface {
	Restore(ctx context.Context) (session.Event, error)
	SignIn(ctx context.Context) (session.Event, error)
}

// Deps are the long-lived collaborators shared by every screen.
type Deps struct {
	Bridge    *session.Bridge
	Provider  Provider
	Client    *api.Client
	Tasks     *tasklist.Controller
	Extractor extract.Extractor
	Voice     *voice.Capture
	WakeLock  pomodoro.WakeLock
	FocusLog  storage.Repository
	Reminders *reminder.Engine
	Notifier  DesktopNotifier
	Now       func() time.Time
}

type Model struct {
	CurrentScreen Screen
	Status        StatusBar
	Notifications []Notification
	HelpVisible   bool
	Palette       CommandPaletteState
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error
	Focused       bool

	User     *model.User
	SignedIn bool

	Home       HomeState
	Focus      FocusState
	Calendar   CalendarState
	Projects   ProjectsState
	Teams      TeamsState
	TeamDetail TeamDetailState
	Reports    ReportState
	Profile    ProfileState

	deps           Deps
	opts           Options
	reqs           *requests
	display        *teaDisplay
	guard          *pomodoro.FocusGuard
	sessionChanges <-chan session.Change
	voiceStream    voice.Stream
	busy           int

	// Bubble components used for rich TUI controls
	teamsList      list.Model
	projectsTable  table.Model
	titleInput     textinput.Model
	dueInput       textinput.Model
	hoursInput     textinput.Model
	commandInput   textinput.Model
	scriptArea     textarea.Model
	focusProgress  progress.Model
	busySpinner    spinner.Model
	helpModel      help.Model
	reportViewport viewport.Model
}

type HomeState struct {
	Cursor       int
	QuickAdd     QuickAddState
	Dialog       StatusDialogState
	Extract      ExtractState
	Breakdown    []model.Task
	BreakdownFor int64
}

type QuickAddState struct {
	Active   bool
	Focus    int
	Priority model.Priority
}

type StatusDialogState struct {
	Active  bool
	TaskID  int64
	Options []model.Status
	Cursor  int
}

type ExtractState struct {
	Active  bool
	Busy    bool
	Pending *model.ExtractedTask
}

type FocusState struct {
	Timer        pomodoro.Timer
	TaskID       *int64
	TaskTitle    string
	FocusMinutes int
	StreakDays   int
	startedAt    time.Time
}

type CalendarState struct {
	Month    time.Time
	Selected time.Time
	Events   []model.CalendarEvent
	Loading  bool
}

type ProjectsState struct {
	Items   []model.Project
	Cursor  int
	Loading bool
	Loaded  bool
}

type TeamsState struct {
	Items   []model.Team
	Cursor  int
	Loading bool
	Loaded  bool
}

type TeamDetailState struct {
	Team      model.Team
	Members   []model.TeamMember
	Sprint    *model.SprintDashboard
	Member    *model.MemberDashboard
	Cursor    int
	Loading   bool
	AddMember AddMemberState
}

type AddMemberState struct {
	Active bool
	Users  []model.User
	Cursor int
	Role   int
}

// memberRoles are the roles a team member can be added with.
var memberRoles = []string{"member", "admin", "viewer"}

type ReportState struct {
	Report  *model.WeeklyReport
	Start   time.Time
	End     time.Time
	Loading bool
}

type ProfileState struct {
	Dashboard *model.MemberDashboard
	Loading   bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchScreenMsg struct {
	Screen Screen
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// NoticeMsg is a transient user-facing notice with a title.
type NoticeMsg struct {
	Title string
	Body  string
	Level string
}

type SessionChangedMsg struct {
	Change session.Change
}

type AuthDoneMsg struct {
	Action string
	Err    error
}

type TasksLoadedMsg struct {
	Gen     uint64
	Fetched bool
	Err     error
}

type TaskStatusMsg struct {
	Task model.Task
	Err  error
}

type TaskCreatedMsg struct {
	Task           model.Task
	FromExtraction bool
	Err            error
}

type BreakdownMsg struct {
	TaskID   int64
	Subtasks []model.Task
	Err      error
}

type CalendarSyncedMsg struct {
	TaskID int64
	Err    error
}

type ScheduleMsg struct {
	Items []model.ScheduledTask
	Err   error
}

type ExtractedMsg struct {
	Gen  uint64
	Task model.ExtractedTask
	Err  error
}

type VoiceResultMsg struct {
	Stream voice.Stream
	Result voice.Result
}

type VoiceEndedMsg struct {
	Stream voice.Stream
}

type FocusTickMsg struct {
	Run uint64
}

type FocusStatsMsg struct {
	Minutes int
	Streak  int
	Err     error
}

type FocusRecordedMsg struct {
	Err error
}

type CalendarEventsMsg struct {
	Gen    uint64
	Month  time.Time
	Events []model.CalendarEvent
	Err    error
}

type ProjectsMsg struct {
	Gen   uint64
	Items []model.Project
	Err   error
}

type TeamsMsg struct {
	Gen   uint64
	Items []model.Team
	Err   error
}

type TeamMembersMsg struct {
	Gen     uint64
	TeamID  int64
	Members []model.TeamMember
	Err     error
}

type SprintMsg struct {
	Gen       uint64
	TeamID    int64
	Dashboard model.SprintDashboard
	Err       error
}

type MemberDashboardMsg struct {
	Gen       uint64
	TeamID    *int64
	Dashboard model.MemberDashboard
	Err       error
}

type UsersMsg struct {
	Gen   uint64
	Users []model.User
	Err   error
}

type MemberAddedMsg struct {
	Gen    uint64
	TeamID int64
	Err    error
}

type JoinedMsg struct {
	TeamID int64
	Err    error
}

type ReportMsg struct {
	Gen    uint64
	Report model.WeeklyReport
	Err    error
}

type ReportExportedMsg struct {
	Path string
	Err  error
}

type DueReminderMsg struct {
	Reminder model.Reminder
}

func NewModel(deps Deps, opts Options) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = NoopDesktopNotifier{}
	}
	if deps.Voice == nil {
		deps.Voice = voice.NewCapture(nil)
	}
	now := deps.Now()
	m := Model{
		CurrentScreen: ScreenHome,
		Keys: GlobalKeyMap{
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
		Home: HomeState{QuickAdd: QuickAddState{Priority: model.PriorityMedium}},
		Focus: FocusState{
			Timer: pomodoro.NewTimer(opts.Durations),
		},
		Calendar: CalendarState{
			Month:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
			Selected: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		},
		deps:    deps,
		opts:    opts,
		reqs:    newRequests(context.Background()),
		display: &teaDisplay{},
	}
	m.guard = pomodoro.NewFocusGuard(deps.WakeLock, m.display)
	if deps.Bridge != nil {
		m.sessionChanges = deps.Bridge.Subscribe()
		if s, ok := deps.Bridge.Current(); ok {
			m.applySession(s)
		}
	}
	if opts.StatePath != "" {
		if st, err := loadUIState(opts.StatePath); err == nil {
			m.restoreUIState(st)
		}
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.teamsList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.teamsList.Title = "Teams"
	m.teamsList.SetShowHelp(false)
	m.teamsList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Project", Width: 22},
		{Title: "Status", Width: 10},
		{Title: "Progress", Width: 8},
		{Title: "Due", Width: 12},
	}
	m.projectsTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.titleInput = textinput.New()
	m.titleInput.Prompt = "title> "
	m.titleInput.Placeholder = "What needs to be done?"
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 42

	m.dueInput = textinput.New()
	m.dueInput.Prompt = "due> "
	m.dueInput.Placeholder = "YYYY-MM-DD"
	m.dueInput.CharLimit = 10
	m.dueInput.Width = 12

	m.hoursInput = textinput.New()
	m.hoursInput.Prompt = "hours> "
	m.hoursInput.Placeholder = "estimate"
	m.hoursInput.CharLimit = 6
	m.hoursInput.Width = 8

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.scriptArea = textarea.New()
	m.scriptArea.SetWidth(54)
	m.scriptArea.SetHeight(5)
	m.scriptArea.ShowLineNumbers = false
	m.scriptArea.Placeholder = "Describe the task, or press ctrl+r to dictate"

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.reportViewport = viewport.New(60, 12)
}

// syncBubbleData pushes model state into the bubble components before render.
func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Teams.Items))
	for _, t := range m.Teams.Items {
		items = append(items, listItem{title: fmt.Sprintf("#%d %s", t.ID, t.Name), description: deref(t.Description)})
	}
	m.teamsList.SetItems(items)
	if len(items) > 0 {
		m.teamsList.Select(m.Teams.Cursor)
	}

	rows := make([]table.Row, 0, len(m.Projects.Items))
	for _, p := range m.Projects.Items {
		rows = append(rows, projectRow(p))
	}
	m.projectsTable.SetRows(rows)
	if len(rows) > 0 && m.Projects.Cursor < len(rows) {
		m.projectsTable.SetCursor(m.Projects.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}
}

func projectRow(p model.Project) table.Row {
	progress := "-"
	if p.Progress != nil {
		progress = fmt.Sprintf("%.0f%%", *p.Progress)
	}
	due := "-"
	if p.DueDate != nil {
		due = p.DueDate.Date()
	}
	return table.Row{p.Name, strings.ReplaceAll(p.Status, "_", " "), progress, due}
}
