package views

import (
	"fmt"
	"strings"
)

type StatItem struct {
	Label    string
	Value    string
	Progress float64
	Bar      string
}

type TaskRow struct {
	ID         int64
	Title      string
	Status     string
	Priority   string
	Due        string
	Overdue    bool
	Category   string
	Hours      string
	Suggestion string
}

type HomePanelData struct {
	Greeting   string
	SignedIn   bool
	Stats      []StatItem
	Tasks      []TaskRow
	SelectedID int64
	Loading    bool
	HasMore    bool
}

type TaskDetailData struct {
	Task        *TaskRow
	Description string
	Created     string
}

type QuickAddData struct {
	Active    bool
	TitleView string
	Priority  string
	DueView   string
	HoursView string
	Focus     int
}

type StatusDialogData struct {
	Active    bool
	TaskTitle string
	Current   string
	Options   []string
	Cursor    int
	Terminal  bool
}

type ExtractedData struct {
	Title       string
	Description string
	Priority    string
	StartDate   string
	DueDate     string
	Category    string
}

type ExtractPanelData struct {
	Active     bool
	ScriptView string
	VoiceState string
	Busy       bool
	Pending    *ExtractedData
}

type FocusPanelData struct {
	ModeLabel    string
	Timer        string
	ProgressView string
	ProgressPct  int
	Completed    int
	Running      bool
	FocusMode    bool
	WakeHeld     bool
	TaskTitle    string
	Stats        []StatItem
}

type CalendarDay struct {
	Day      int
	InMonth  bool
	Events   int
	Today    bool
	Selected bool
}

type EventRow struct {
	Time     string
	Title    string
	Location string
}

type CalendarPanelData struct {
	Month        string
	Weeks        [][]CalendarDay
	SelectedDate string
	Events       []EventRow
	Loading      bool
}

type ProjectRow struct {
	Name        string
	Status      string
	Progress    string
	Due         string
	Description string
}

type ProjectsPanelData struct {
	TableView string
	Projects  []ProjectRow
	Cursor    int
	Loading   bool
}

type TeamRow struct {
	ID          int64
	Name        string
	Description string
}

type TeamsPanelData struct {
	ListView string
	Teams    []TeamRow
	Cursor   int
	Loading  bool
}

type MemberRow struct {
	Name  string
	Email string
	Role  string
}

type SprintData struct {
	Name       string
	Dates      string
	Stats      []StatItem
	Groups     []string
	Blockers   []string
	ScopeCreep int
}

type AddMemberData struct {
	Active bool
	Users  []string
	Cursor int
	Role   string
}

type TeamDetailData struct {
	Name      string
	Members   []MemberRow
	Cursor    int
	Sprint    *SprintData
	AddMember AddMemberData
	Loading   bool
}

type DayBar struct {
	Day   string
	Count string
	Bar   string
}

type ReportPanelData struct {
	Range       string
	Status      string
	Stats       []StatItem
	HighLine    string
	Daily       []DayBar
	Summary     string
	Suggestions []string
	Insights    string
	Loading     bool
	Empty       bool
}

type ProfilePanelData struct {
	SignedIn        bool
	ProviderOnly    bool
	Name            string
	Email           string
	Username        string
	MemberSince     string
	Stats           []StatItem
	Recommendations []string
	Upcoming        []TaskRow
	Loading         bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHomePanel(data HomePanelData) string {
	var b strings.Builder
	b.WriteString(data.Greeting + "\n")
	if !data.SignedIn {
		b.WriteString(mutedStyle.Render("Sign in from the profile screen (7, then i) to load your tasks.") + "\n")
		return strings.TrimSpace(b.String())
	}
	renderStats(&b, "Today's Progress", data.Stats)
	b.WriteString("\nMy Tasks:\n")
	if data.Loading && len(data.Tasks) == 0 {
		b.WriteString("  loading tasks...\n")
	}
	if !data.Loading && len(data.Tasks) == 0 {
		b.WriteString("  No tasks yet. Press a to add one.\n")
	}
	for _, t := range data.Tasks {
		cursor := " "
		if t.ID == data.SelectedID {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s %s", cursor, statusBadge(t.Status), priorityBadge(t.Priority), t.Title)
		if t.Due != "" {
			due := "due " + t.Due
			if t.Overdue {
				due = warnStyle.Render("overdue " + t.Due)
			}
			line += " " + mutedStyle.Render("(") + due + mutedStyle.Render(")")
		}
		b.WriteString(line + "\n")
		if t.Suggestion != "" {
			b.WriteString("    " + accentStyle.Render("scheduled: "+t.Suggestion) + "\n")
		}
	}
	switch {
	case data.Loading && len(data.Tasks) > 0:
		b.WriteString(mutedStyle.Render("  loading more...") + "\n")
	case data.HasMore:
		b.WriteString(mutedStyle.Render("  press m to load more") + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderTaskDetail(data TaskDetailData) string {
	if data.Task == nil {
		return "task:\n(no selection)"
	}
	t := data.Task
	var b strings.Builder
	b.WriteString(fmt.Sprintf("task #%d\n", t.ID))
	b.WriteString(accentStyle.Render(t.Title) + "\n")
	b.WriteString(fmt.Sprintf("status: %s\npriority: %s\n", t.Status, t.Priority))
	if t.Due != "" {
		b.WriteString("due: " + t.Due + "\n")
	}
	if t.Category != "" {
		b.WriteString("category: " + t.Category + "\n")
	}
	if t.Hours != "" {
		b.WriteString("estimate: " + t.Hours + "\n")
	}
	if data.Created != "" {
		b.WriteString("created: " + data.Created + "\n")
	}
	if t.Suggestion != "" {
		b.WriteString("suggested: " + t.Suggestion + "\n")
	}
	if strings.TrimSpace(data.Description) != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[s]status [b]breakdown [c]calendar [f]focus"))
	return strings.TrimSpace(b.String())
}

func RenderQuickAdd(data QuickAddData) string {
	if !data.Active {
		return ""
	}
	marker := func(i int) string {
		if i == data.Focus {
			return ">"
		}
		return " "
	}
	var b strings.Builder
	b.WriteString("quick add:\n")
	b.WriteString(marker(0) + " " + data.TitleView + "\n")
	b.WriteString(fmt.Sprintf("%s priority: < %s >\n", marker(1), data.Priority))
	b.WriteString(marker(2) + " " + data.DueView + "\n")
	b.WriteString(marker(3) + " " + data.HoursView + "\n")
	b.WriteString(mutedStyle.Render("[tab]next field [left/right]priority [enter]create [esc]cancel"))
	return b.String()
}

func RenderStatusDialog(data StatusDialogData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("update status:\n")
	b.WriteString(fmt.Sprintf("%s (currently %s)\n", data.TaskTitle, data.Current))
	if data.Terminal {
		b.WriteString(mutedStyle.Render("This task is closed; its status can no longer change.") + "\n")
		b.WriteString(mutedStyle.Render("[esc]close"))
		return b.String()
	}
	for i, opt := range data.Options {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, opt))
	}
	b.WriteString(mutedStyle.Render("[j/k]choose [enter]update [esc]cancel"))
	return b.String()
}

func RenderExtractPanel(data ExtractPanelData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("AI task creator:\n")
	b.WriteString(data.ScriptView + "\n")
	b.WriteString("voice: " + data.VoiceState + "\n")
	if data.Busy {
		b.WriteString("extracting...\n")
	}
	if p := data.Pending; p != nil {
		b.WriteString("\nextracted:\n")
		b.WriteString(fmt.Sprintf("title: %s\npriority: %s\n", p.Title, p.Priority))
		if p.Description != "" {
			b.WriteString("description: " + p.Description + "\n")
		}
		if p.StartDate != "" {
			b.WriteString("start: " + p.StartDate + "\n")
		}
		if p.DueDate != "" {
			b.WriteString("due: " + p.DueDate + "\n")
		}
		if p.Category != "" {
			b.WriteString("category: " + p.Category + "\n")
		}
		b.WriteString(mutedStyle.Render("[ctrl+y]create task [esc]discard"))
		return b.String()
	}
	b.WriteString(mutedStyle.Render("[ctrl+r]record [ctrl+e]extract [esc]close"))
	return b.String()
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("Pomodoro Timer\n")
	b.WriteString(accentStyle.Render(data.ModeLabel) + "\n\n")
	b.WriteString(fmt.Sprintf("  %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("%s %d%%\n", data.ProgressView, data.ProgressPct))
	if data.TaskTitle != "" {
		b.WriteString("task: " + data.TaskTitle + "\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("state: %s | completed: %d\n", state, data.Completed))
	focus := "off"
	if data.FocusMode {
		focus = "on"
		if data.WakeHeld {
			focus += " (keeping screen awake)"
		}
	}
	b.WriteString("focus mode: " + focus + "\n")
	renderStats(&b, "Today", data.Stats)
	b.WriteString("\n" + mutedStyle.Render("[space]start/pause [r]reset [w]work [s]short [l]long [f]focus mode"))
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar: " + data.Month + "\n")
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")
	for _, week := range data.Weeks {
		for _, d := range week {
			if !d.InMonth {
				b.WriteString("    ")
				continue
			}
			cell := fmt.Sprintf("%2d", d.Day)
			mark := " "
			if d.Events > 0 {
				mark = "*"
			}
			switch {
			case d.Selected:
				cell = activeTabStyle.Render(cell)
			case d.Today:
				cell = accentStyle.Render(cell)
			}
			b.WriteString(" " + cell + mark)
		}
		b.WriteString("\n")
	}
	if data.Loading {
		b.WriteString(mutedStyle.Render("loading events...") + "\n")
	}
	b.WriteString("\n" + data.SelectedDate + ":\n")
	if len(data.Events) == 0 {
		b.WriteString("  No events scheduled\n")
	}
	for _, ev := range data.Events {
		line := fmt.Sprintf("  %s %s", ev.Time, ev.Title)
		if ev.Location != "" {
			line += mutedStyle.Render(" @ " + ev.Location)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[arrows]day [ [ / ] ]month [t]today [r]reload"))
	return strings.TrimSpace(b.String())
}

func RenderProjectsPanel(data ProjectsPanelData) string {
	var b strings.Builder
	b.WriteString("projects:\n")
	if data.Loading {
		b.WriteString("  loading...\n")
	} else if len(data.Projects) == 0 {
		b.WriteString("  No projects found\n")
	}
	if data.TableView != "" && len(data.Projects) > 0 {
		b.WriteString(data.TableView + "\n")
		if data.Cursor >= 0 && data.Cursor < len(data.Projects) && data.Projects[data.Cursor].Description != "" {
			b.WriteString("\n" + mutedStyle.Render(data.Projects[data.Cursor].Description) + "\n")
		}
		b.WriteString("\n" + mutedStyle.Render("[j/k]move [r]reload"))
		return strings.TrimSpace(b.String())
	}
	for i, p := range data.Projects {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s [%s]", cursor, p.Name, p.Status)
		if p.Progress != "" {
			line += " " + p.Progress
		}
		if p.Due != "" {
			line += mutedStyle.Render(" due " + p.Due)
		}
		b.WriteString(line + "\n")
		if i == data.Cursor && p.Description != "" {
			b.WriteString("    " + mutedStyle.Render(p.Description) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderTeamsPanel(data TeamsPanelData) string {
	var b strings.Builder
	b.WriteString("teams:\n")
	if data.Loading {
		b.WriteString("  loading...\n")
	} else if len(data.Teams) == 0 {
		b.WriteString("  No teams yet\n")
	}
	if data.ListView != "" && len(data.Teams) > 0 {
		b.WriteString(data.ListView + "\n")
		b.WriteString("\n" + mutedStyle.Render("[enter]open team [r]reload"))
		return strings.TrimSpace(b.String())
	}
	for i, t := range data.Teams {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s #%d %s\n", cursor, t.ID, t.Name))
		if i == data.Cursor && t.Description != "" {
			b.WriteString("    " + mutedStyle.Render(t.Description) + "\n")
		}
	}
	b.WriteString("\n" + mutedStyle.Render("[enter]open team [r]reload"))
	return strings.TrimSpace(b.String())
}

func RenderTeamDetail(data TeamDetailData) string {
	var b strings.Builder
	b.WriteString("team: " + data.Name + "\n")
	if data.Loading {
		b.WriteString("  loading...\n")
	}
	b.WriteString("\nmembers:\n")
	if len(data.Members) == 0 && !data.Loading {
		b.WriteString("  No members\n")
	}
	for i, mem := range data.Members {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s <%s> %s\n", cursor, mem.Name, mem.Email, roleBadge(mem.Role)))
	}
	if s := data.Sprint; s != nil {
		b.WriteString("\nsprint: " + s.Name)
		if s.Dates != "" {
			b.WriteString(mutedStyle.Render(" " + s.Dates))
		}
		b.WriteString("\n")
		for _, item := range s.Stats {
			b.WriteString(fmt.Sprintf("  %s: %s\n", item.Label, item.Value))
		}
		for _, g := range s.Groups {
			b.WriteString("  " + g + "\n")
		}
		if len(s.Blockers) > 0 {
			b.WriteString(warnStyle.Render("  blockers:") + "\n")
			for _, bl := range s.Blockers {
				b.WriteString("   - " + bl + "\n")
			}
		}
		if s.ScopeCreep > 0 {
			b.WriteString(fmt.Sprintf("  scope creep: %d task(s)\n", s.ScopeCreep))
		}
	}
	if data.AddMember.Active {
		b.WriteString("\nadd member (role: " + data.AddMember.Role + "):\n")
		for i, u := range data.AddMember.Users {
			cursor := " "
			if i == data.AddMember.Cursor {
				cursor = ">"
			}
			b.WriteString(cursor + " " + u + "\n")
		}
		b.WriteString(mutedStyle.Render("[j/k]user [tab]role [enter]add [esc]cancel"))
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n" + mutedStyle.Render("[a]add member [d]member dashboard [esc]back"))
	return strings.TrimSpace(b.String())
}

func RenderReportPanel(data ReportPanelData) string {
	var b strings.Builder
	b.WriteString("Weekly Report\n")
	if data.Loading {
		b.WriteString("  generating report...\n")
		return strings.TrimSpace(b.String())
	}
	if data.Empty {
		b.WriteString("  No report yet. Press g to generate this week's report.\n")
		return strings.TrimSpace(b.String())
	}
	b.WriteString(data.Range)
	if data.Status != "" {
		b.WriteString(" [" + data.Status + "]")
	}
	b.WriteString("\n")
	for _, item := range data.Stats {
		b.WriteString(fmt.Sprintf("  %s: %s\n", item.Label, item.Value))
	}
	if data.HighLine != "" {
		b.WriteString("\nhigh priority: " + data.HighLine + "\n")
	}
	if len(data.Daily) > 0 {
		b.WriteString("\ndaily activity:\n")
		for _, d := range data.Daily {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", d.Day, d.Bar, d.Count))
		}
	}
	if data.Summary != "" {
		b.WriteString("\nAI summary:\n" + data.Summary + "\n")
	}
	if len(data.Suggestions) > 0 {
		b.WriteString("\nsuggestions:\n")
		for i, s := range data.Suggestions {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s))
		}
	}
	if data.Insights != "" {
		b.WriteString("\ninsights:\n" + data.Insights + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[g]regenerate [p]export pdf"))
	return strings.TrimSpace(b.String())
}

func RenderProfilePanel(data ProfilePanelData) string {
	var b strings.Builder
	b.WriteString("profile:\n")
	if !data.SignedIn {
		if data.ProviderOnly {
			b.WriteString("Signed in with Google, but the task service did not accept the session.\n")
			b.WriteString(mutedStyle.Render("[i]retry sign in [o]sign out"))
			return b.String()
		}
		b.WriteString("Not signed in.\n")
		b.WriteString(mutedStyle.Render("[i]sign in with Google"))
		return b.String()
	}
	b.WriteString(accentStyle.Render(data.Name) + "\n")
	b.WriteString(fmt.Sprintf("email: %s\nusername: %s\n", data.Email, data.Username))
	if data.MemberSince != "" {
		b.WriteString("member since: " + data.MemberSince + "\n")
	}
	if data.Loading {
		b.WriteString("\nloading dashboard...\n")
	}
	renderStats(&b, "Personal stats", data.Stats)
	if len(data.Upcoming) > 0 {
		b.WriteString("\nupcoming:\n")
		for _, t := range data.Upcoming {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", priorityBadge(t.Priority), t.Title, mutedStyle.Render(t.Due)))
		}
	}
	if len(data.Recommendations) > 0 {
		b.WriteString("\nrecommendations:\n")
		for _, r := range data.Recommendations {
			b.WriteString("  - " + r + "\n")
		}
	}
	b.WriteString("\n" + mutedStyle.Render("[r]reload [o]sign out"))
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderStats(b *strings.Builder, title string, items []StatItem) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + title + ":\n")
	for _, item := range items {
		line := fmt.Sprintf("  %-11s %-8s", item.Label, item.Value)
		if item.Bar != "" {
			line += " " + item.Bar
		}
		b.WriteString(line + "\n")
	}
}

func statusBadge(status string) string {
	switch status {
	case "done", "completed":
		return "[x]"
	case "in_progress":
		return "[~]"
	case "cancelled":
		return "[-]"
	default:
		return "[ ]"
	}
}

func priorityBadge(priority string) string {
	switch priority {
	case "urgent":
		return errorStyle.Render("!!!")
	case "high":
		return warnStyle.Render("!! ")
	case "medium":
		return "!  "
	default:
		return "   "
	}
}

func roleBadge(role string) string {
	if role == "" {
		return ""
	}
	return "[" + role + "]"
}
