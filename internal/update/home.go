package update

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/tasklist"
	"github.com/sandeepkv93/zen/internal/views"
	"github.com/sandeepkv93/zen/internal/voice"
)

var priorityCycle = []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Home.Cursor > 0 {
			m.Home.Cursor--
		}
	case "down", "j":
		if m.Home.Cursor < len(m.tasks())-1 {
			m.Home.Cursor++
		}
	case "a":
		m.openQuickAdd()
	case "s", "enter":
		m.openStatusDialog()
	case "r":
		return m.refreshTasks()
	case "m":
		return m.loadMoreTasks()
	case "b":
		if t, ok := m.selectedTask(); ok {
			return m.beginBusy(m.breakdownCmd(t.ID))
		}
	case "c":
		if t, ok := m.selectedTask(); ok {
			return m.beginBusy(m.syncCalendarCmd(t.ID))
		}
	case "v", "x":
		m.Home.Extract = ExtractState{Active: true}
		m.scriptArea.Reset()
		m.scriptArea.Focus()
	case "S":
		return m.beginBusy(m.smartScheduleCmd())
	case "f":
		if t, ok := m.selectedTask(); ok {
			id := t.ID
			m.Focus.TaskID = &id
			m.Focus.TaskTitle = t.Title
			return m.switchScreen(ScreenFocus)
		}
	}
	return m, nil
}

func (m Model) tasks() []model.Task {
	if m.deps.Tasks == nil {
		return nil
	}
	return m.deps.Tasks.Tasks()
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.tasks()
	if m.Home.Cursor < 0 || m.Home.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Home.Cursor], true
}

func (m *Model) clampHomeCursor() {
	n := len(m.tasks())
	if m.Home.Cursor >= n {
		m.Home.Cursor = n - 1
	}
	if m.Home.Cursor < 0 {
		m.Home.Cursor = 0
	}
}

func (m *Model) closeHomeModals() {
	m.Home.QuickAdd.Active = false
	m.Home.Dialog = StatusDialogState{}
	if m.Home.Extract.Active {
		m.deps.Voice.Close()
		m.voiceStream = nil
	}
	m.Home.Extract = ExtractState{}
	m.titleInput.Blur()
	m.dueInput.Blur()
	m.hoursInput.Blur()
	m.scriptArea.Blur()
}

func (m Model) refreshTasks() (tea.Model, tea.Cmd) {
	if m.deps.Tasks == nil {
		return m, nil
	}
	m.deps.Tasks.Refresh()
	m.Home.Cursor = 0
	m.Status = StatusBar{Text: "refreshing tasks"}
	return m, m.fetchTasksCmd()
}

func (m Model) loadMoreTasks() (tea.Model, tea.Cmd) {
	ctl := m.deps.Tasks
	if ctl == nil || !ctl.LoadMore() {
		return m, nil
	}
	return m, m.fetchTasksCmd()
}

func (m Model) fetchTasksCmd() tea.Cmd {
	ctl := m.deps.Tasks
	if ctl == nil {
		return nil
	}
	ctx, gen := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		_, fetched, err := ctl.Fetch(ctx)
		return TasksLoadedMsg{Gen: gen, Fetched: fetched, Err: err}
	}
}

func (m Model) onTasksLoaded(msg TasksLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(scopeTasks, msg.Gen) || !msg.Fetched {
		return m, nil
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		log.Printf("zen: fetch tasks: %v", msg.Err)
		m.Status = StatusBar{Text: "Failed to load tasks: " + api.Message(msg.Err), IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	m.clampHomeCursor()
	m.syncReminders()
	return m, nil
}

func (m *Model) openQuickAdd() {
	m.Home.QuickAdd = QuickAddState{Active: true, Priority: model.PriorityMedium}
	m.titleInput.Reset()
	m.dueInput.Reset()
	m.hoursInput.Reset()
	m.focusQuickAddField()
}

func (m *Model) focusQuickAddField() {
	m.titleInput.Blur()
	m.dueInput.Blur()
	m.hoursInput.Blur()
	switch m.Home.QuickAdd.Focus {
	case 0:
		m.titleInput.Focus()
	case 2:
		m.dueInput.Focus()
	case 3:
		m.hoursInput.Focus()
	}
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Home.QuickAdd.Active = false
		m.focusQuickAddField()
		m.titleInput.Blur()
		m.Status = StatusBar{Text: "quick add cancelled"}
		return m, nil
	case "tab", "down":
		m.Home.QuickAdd.Focus = (m.Home.QuickAdd.Focus + 1) % 4
		m.focusQuickAddField()
		return m, nil
	case "shift+tab", "up":
		m.Home.QuickAdd.Focus = (m.Home.QuickAdd.Focus + 3) % 4
		m.focusQuickAddField()
		return m, nil
	case "enter":
		return m.submitQuickAdd()
	}
	if m.Home.QuickAdd.Focus == 1 {
		switch msg.String() {
		case "left", "h":
			m.Home.QuickAdd.Priority = cyclePriority(m.Home.QuickAdd.Priority, -1)
		case "right", "l", " ":
			m.Home.QuickAdd.Priority = cyclePriority(m.Home.QuickAdd.Priority, 1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	switch m.Home.QuickAdd.Focus {
	case 0:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case 2:
		m.dueInput, cmd = m.dueInput.Update(msg)
	case 3:
		m.hoursInput, cmd = m.hoursInput.Update(msg)
	}
	return m, cmd
}

func cyclePriority(p model.Priority, delta int) model.Priority {
	idx := 1
	for i, c := range priorityCycle {
		if c == p {
			idx = i
		}
	}
	n := len(priorityCycle)
	return priorityCycle[((idx+delta)%n+n)%n]
}

func (m Model) submitQuickAdd() (tea.Model, tea.Cmd) {
	in, err := m.quickAddInput()
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	ctl := m.deps.Tasks
	if ctl == nil {
		return m, nil
	}
	m.Home.QuickAdd.Active = false
	m.titleInput.Blur()
	m.dueInput.Blur()
	m.hoursInput.Blur()
	ctx, _ := m.reqs.begin(scopeTasks)
	return m.beginBusy(func() tea.Msg {
		task, err := ctl.QuickAdd(ctx, in)
		return TaskCreatedMsg{Task: task, Err: err}
	})
}

func (m Model) quickAddInput() (tasklist.QuickAddInput, error) {
	in := tasklist.QuickAddInput{
		Title:    strings.TrimSpace(m.titleInput.Value()),
		Priority: m.Home.QuickAdd.Priority,
	}
	if in.Title == "" {
		return in, errors.New("title is required")
	}
	if raw := strings.TrimSpace(m.dueInput.Value()); raw != "" {
		due, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			return in, fmt.Errorf("due date must be YYYY-MM-DD, got %q", raw)
		}
		in.DueDate = &due
	}
	if raw := strings.TrimSpace(m.hoursInput.Value()); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil || h < 0 {
			return in, fmt.Errorf("estimate must be a number of hours, got %q", raw)
		}
		in.EstimatedHours = &h
	}
	return in, nil
}

func (m Model) onTaskCreated(msg TaskCreatedMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: create task: %v", msg.Err)
		text := errText(msg.Err, "Failed to create task")
		if msg.FromExtraction {
			text = errText(msg.Err, "Failed to process your request")
		}
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	if msg.FromExtraction {
		m.Home.Extract = ExtractState{}
		m.scriptArea.Reset()
		m.scriptArea.Blur()
	}
	m.Home.Cursor = 0
	m.syncReminders()
	m.Status = StatusBar{Text: fmt.Sprintf("Task created: %s", msg.Task.Title)}
	m.notify("Success", m.Status.Text, "info")
	return m, nil
}

func (m *Model) openStatusDialog() {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	m.Home.Dialog = StatusDialogState{
		Active:  true,
		TaskID:  t.ID,
		Options: model.NextStatuses(t.Status),
	}
}

func (m Model) handleStatusDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.Home.Dialog
	switch msg.String() {
	case "esc", "q":
		m.Home.Dialog = StatusDialogState{}
	case "up", "k":
		if d.Cursor > 0 {
			d.Cursor--
		}
	case "down", "j":
		if d.Cursor < len(d.Options)-1 {
			d.Cursor++
		}
	case "enter":
		if len(d.Options) == 0 {
			m.Home.Dialog = StatusDialogState{}
			return m, nil
		}
		id, to := d.TaskID, d.Options[d.Cursor]
		m.Home.Dialog = StatusDialogState{}
		return m.beginBusy(m.setStatusCmd(id, to))
	}
	return m, nil
}

func (m Model) setStatusCmd(id int64, to model.Status) tea.Cmd {
	ctl := m.deps.Tasks
	if ctl == nil {
		return nil
	}
	ctx, _ := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		task, err := ctl.SetStatus(ctx, id, to)
		return TaskStatusMsg{Task: task, Err: err}
	}
}

func (m Model) onTaskStatus(msg TaskStatusMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: update task status: %v", msg.Err)
		text := "Failed to update task status"
		switch {
		case errors.Is(msg.Err, model.ErrInvalidTransition), errors.Is(msg.Err, tasklist.ErrTaskNotLoaded):
			text = msg.Err.Error()
		case errors.Is(msg.Err, api.ErrNoSession):
			text = "Authentication required"
		case !isStatusError(msg.Err):
			text = "Failed to connect to server"
		}
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.syncReminders()
	m.Status = StatusBar{Text: "Task status updated to " + strings.ToLower(msg.Task.Status.Label())}
	m.notify("Success", m.Status.Text, "info")
	return m, nil
}

func (m Model) breakdownCmd(id int64) tea.Cmd {
	ctl := m.deps.Tasks
	if ctl == nil {
		return nil
	}
	ctx, _ := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		subtasks, err := ctl.Breakdown(ctx, id)
		return BreakdownMsg{TaskID: id, Subtasks: subtasks, Err: err}
	}
}

func (m Model) onBreakdown(msg BreakdownMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: breakdown task %d: %v", msg.TaskID, msg.Err)
		text := errText(msg.Err, "Failed to break down task")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.Home.Breakdown = msg.Subtasks
	m.Home.BreakdownFor = msg.TaskID
	m.Status = StatusBar{Text: fmt.Sprintf("AI broke the task into %d subtask(s)", len(msg.Subtasks))}
	m.notify("Success", m.Status.Text, "info")
	return m, nil
}

func (m Model) syncCalendarCmd(id int64) tea.Cmd {
	ctl := m.deps.Tasks
	if ctl == nil {
		return nil
	}
	ctx, _ := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		return CalendarSyncedMsg{TaskID: id, Err: ctl.SyncToCalendar(ctx, id)}
	}
}

func (m Model) onCalendarSynced(msg CalendarSyncedMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: sync task %d to calendar: %v", msg.TaskID, msg.Err)
		text := errText(msg.Err, "Failed to sync task to calendar")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.Status = StatusBar{Text: "Task synced to Google Calendar"}
	m.notify("Success", m.Status.Text, "info")
	return m, nil
}

func (m Model) smartScheduleCmd() tea.Cmd {
	client := m.authorizedClient()
	if client == nil {
		return func() tea.Msg { return ScheduleMsg{Err: api.ErrNoSession} }
	}
	uid := m.User.ID
	ctx, _ := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		items, err := client.SmartSchedule(ctx, uid)
		return ScheduleMsg{Items: items, Err: err}
	}
}

func (m Model) onSchedule(msg ScheduleMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: smart schedule: %v", msg.Err)
		text := errText(msg.Err, "Failed to build a smart schedule")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	if m.deps.Tasks != nil {
		m.deps.Tasks.ApplySchedule(msg.Items)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("Smart schedule suggested %d slot(s)", len(msg.Items))}
	return m, nil
}

func (m Model) handleExtractKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.Home.Extract.Pending != nil {
			m.Home.Extract.Pending = nil
			m.Status = StatusBar{Text: "extraction discarded"}
			return m, nil
		}
		m.deps.Voice.Close()
		m.voiceStream = nil
		m.Home.Extract = ExtractState{}
		m.scriptArea.Blur()
		return m, nil
	case "ctrl+r":
		return m.toggleVoice()
	case "ctrl+e":
		return m.extractScript()
	case "ctrl+y":
		if p := m.Home.Extract.Pending; p != nil {
			return m.beginBusy(m.createFromExtractionCmd(*p))
		}
		return m, nil
	}
	if m.Home.Extract.Pending != nil || m.Home.Extract.Busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.scriptArea, cmd = m.scriptArea.Update(msg)
	return m, cmd
}

func (m Model) extractScript() (tea.Model, tea.Cmd) {
	script := strings.TrimSpace(m.scriptArea.Value())
	if script == "" {
		m.Status = StatusBar{Text: "Please enter a task description", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	if m.deps.Extractor == nil || m.Home.Extract.Busy {
		return m, nil
	}
	m.Home.Extract.Busy = true
	ex := m.deps.Extractor
	ctx, gen := m.reqs.begin(ScreenHome)
	return m.beginBusy(func() tea.Msg {
		task, err := ex.Extract(ctx, script)
		return ExtractedMsg{Gen: gen, Task: task, Err: err}
	})
}

func (m Model) onExtracted(msg ExtractedMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenHome, msg.Gen) {
		return m, nil
	}
	m.endBusy()
	m.Home.Extract.Busy = false
	if msg.Err != nil {
		log.Printf("zen: extract task: %v", msg.Err)
		m.Status = StatusBar{Text: "Failed to process your request", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	task := msg.Task
	m.Home.Extract.Pending = &task
	m.Status = StatusBar{Text: "Task extracted, press ctrl+y to create it"}
	return m, nil
}

func (m Model) createFromExtractionCmd(e model.ExtractedTask) tea.Cmd {
	ctl := m.deps.Tasks
	if ctl == nil {
		return nil
	}
	ctx, _ := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		task, err := ctl.CreateFromExtraction(ctx, e)
		return TaskCreatedMsg{Task: task, FromExtraction: true, Err: err}
	}
}

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	ctx, _ := m.reqs.begin(ScreenHome)
	wasRecording := m.deps.Voice.Recording()
	stream, err := m.deps.Voice.Toggle(ctx)
	if err != nil {
		log.Printf("zen: %v", err)
		m.voiceStream = nil
		text := "Failed to start voice recording"
		if errors.Is(err, voice.ErrUnsupported) {
			text = "Speech recognition is not supported"
		}
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	if stream != nil {
		m.voiceStream = stream
		m.Status = StatusBar{Text: "Listening... Speak now!"}
		return m, waitForVoiceCmd(stream)
	}
	if wasRecording {
		m.Status = StatusBar{Text: "Processing your voice..."}
	}
	return m, nil
}

func waitForVoiceCmd(stream voice.Stream) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-stream.Results()
		if !ok {
			return VoiceEndedMsg{Stream: stream}
		}
		return VoiceResultMsg{Stream: stream, Result: r}
	}
}

func (m Model) onVoiceResult(msg VoiceResultMsg) (tea.Model, tea.Cmd) {
	if msg.Stream != m.voiceStream {
		return m, nil
	}
	text, err := m.deps.Voice.Handle(msg.Result)
	if err != nil {
		log.Printf("zen: %v", err)
		m.voiceStream = nil
		m.Status = StatusBar{Text: "Speech recognition error. Please try again.", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	if text != "" {
		m.scriptArea.SetValue(voice.AppendTranscript(m.scriptArea.Value(), text))
	}
	return m, waitForVoiceCmd(msg.Stream)
}

func (m Model) onVoiceEnded(msg VoiceEndedMsg) (tea.Model, tea.Cmd) {
	if msg.Stream != m.voiceStream {
		return m, nil
	}
	m.deps.Voice.End()
	m.voiceStream = nil
	return m, nil
}

func (m Model) renderHomeView() string {
	now := m.deps.Now()
	data := views.HomePanelData{
		Greeting: greeting(now, m.User),
		SignedIn: m.SignedIn,
		Stats:    m.dailyStats(),
	}
	if ctl := m.deps.Tasks; ctl != nil {
		data.Loading = ctl.Loading()
		data.HasMore = ctl.HasMore()
	}
	for i, t := range m.tasks() {
		row := m.taskRow(t, now)
		data.Tasks = append(data.Tasks, row)
		if i == m.Home.Cursor {
			data.SelectedID = t.ID
		}
	}
	return views.RenderHomePanel(data)
}

func (m Model) taskRow(t model.Task, now time.Time) views.TaskRow {
	row := views.TaskRow{
		ID:       t.ID,
		Title:    t.Title,
		Status:   string(t.Status.Normalize()),
		Priority: string(t.Priority),
		Overdue:  t.IsOverdue(now),
		Category: deref(t.AICategory),
	}
	if t.DueDate != nil {
		row.Due = stats.FormatDate(t.DueDate.Time)
	}
	if t.AIEstimatedHours != nil {
		row.Hours = stats.FormatHours(*t.AIEstimatedHours)
	}
	if m.deps.Tasks != nil {
		if s, ok := m.deps.Tasks.Suggestion(t.ID); ok {
			row.Suggestion = strings.TrimSpace(fmt.Sprintf("%s %s-%s", s.ScheduledDate, s.SuggestedStartTime, s.SuggestedEndTime))
		}
	}
	return row
}

func (m Model) dailyStats() []views.StatItem {
	d := stats.Daily{
		FocusMinutes: m.Focus.FocusMinutes,
		StreakDays:   m.Focus.StreakDays,
		FocusGoal:    m.opts.FocusGoalMinutes,
		StreakGoal:   m.opts.StreakGoalDays,
	}
	if m.deps.Tasks != nil {
		d.Completed, d.Total = m.deps.Tasks.Counts()
	}
	return statItems(d.Items())
}

func statItems(items []stats.Item) []views.StatItem {
	out := make([]views.StatItem, 0, len(items))
	for _, it := range items {
		out = append(out, views.StatItem{Label: it.Label, Value: it.Value, Progress: it.Progress, Bar: stats.Bar(it.Progress, 10)})
	}
	return out
}

func (m Model) renderHomeSidePane() string {
	switch {
	case m.Home.QuickAdd.Active:
		return views.RenderQuickAdd(views.QuickAddData{
			Active:    true,
			TitleView: m.titleInput.View(),
			Priority:  string(m.Home.QuickAdd.Priority),
			DueView:   m.dueInput.View(),
			HoursView: m.hoursInput.View(),
			Focus:     m.Home.QuickAdd.Focus,
		})
	case m.Home.Dialog.Active:
		t, _ := m.taskByID(m.Home.Dialog.TaskID)
		opts := make([]string, 0, len(m.Home.Dialog.Options))
		for _, s := range m.Home.Dialog.Options {
			opts = append(opts, s.Label())
		}
		return views.RenderStatusDialog(views.StatusDialogData{
			Active:    true,
			TaskTitle: t.Title,
			Current:   t.Status.Label(),
			Options:   opts,
			Cursor:    m.Home.Dialog.Cursor,
			Terminal:  len(opts) == 0,
		})
	case m.Home.Extract.Active:
		data := views.ExtractPanelData{
			Active:     true,
			ScriptView: m.scriptArea.View(),
			VoiceState: string(m.deps.Voice.State()),
			Busy:       m.Home.Extract.Busy,
		}
		if p := m.Home.Extract.Pending; p != nil {
			data.Pending = &views.ExtractedData{
				Title:       p.Title,
				Description: p.Description,
				Priority:    p.Priority,
				StartDate:   p.StartDate,
				DueDate:     p.DueDate,
				Category:    deref(p.Category),
			}
		}
		return views.RenderExtractPanel(data)
	}

	t, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	row := m.taskRow(t, m.deps.Now())
	detail := views.TaskDetailData{Task: &row, Created: stats.FormatDate(t.CreatedAt.Time)}
	if desc := strings.TrimSpace(t.DescriptionText()); desc != "" {
		detail.Description = views.RenderMarkdown(desc)
	}
	out := views.RenderTaskDetail(detail)
	if len(m.Home.Breakdown) > 0 && m.Home.BreakdownFor == t.ID {
		var b strings.Builder
		b.WriteString("\nsubtasks:\n")
		for _, st := range m.Home.Breakdown {
			b.WriteString(fmt.Sprintf("  - %s (%s)\n", st.Title, st.Priority))
		}
		out += b.String()
	}
	return out
}

func (m Model) taskByID(id int64) (model.Task, bool) {
	if m.deps.Tasks == nil {
		return model.Task{}, false
	}
	return m.deps.Tasks.Task(id)
}

func greeting(now time.Time, u *model.User) string {
	part := "evening"
	switch h := now.Hour(); {
	case h < 12:
		part = "morning"
	case h < 18:
		part = "afternoon"
	}
	if u == nil {
		return "Good " + part
	}
	return fmt.Sprintf("Good %s, %s", part, u.DisplayName())
}
