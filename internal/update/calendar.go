package update

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		return m.moveCalendarDay(-1)
	case "right", "l":
		return m.moveCalendarDay(1)
	case "up", "k":
		return m.moveCalendarDay(-7)
	case "down", "j":
		return m.moveCalendarDay(7)
	case "[":
		return m.setCalendarMonth(m.Calendar.Month.AddDate(0, -1, 0), 1)
	case "]":
		return m.setCalendarMonth(m.Calendar.Month.AddDate(0, 1, 0), 1)
	case "t":
		now := m.deps.Now()
		return m.setCalendarMonth(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now.Day())
	case "r":
		cmd := m.loadCalendarCmd()
		return m, cmd
	}
	return m, nil
}

// moveCalendarDay moves the selection, reloading when it leaves the month.
func (m Model) moveCalendarDay(delta int) (tea.Model, tea.Cmd) {
	next := m.Calendar.Selected.AddDate(0, 0, delta)
	if next.Year() == m.Calendar.Month.Year() && next.Month() == m.Calendar.Month.Month() {
		m.Calendar.Selected = next
		return m, nil
	}
	return m.setCalendarMonth(time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, next.Location()), next.Day())
}

func (m Model) setCalendarMonth(month time.Time, day int) (tea.Model, tea.Cmd) {
	m.Calendar.Month = month
	m.Calendar.Selected = time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
	m.Calendar.Events = nil
	cmd := m.loadCalendarCmd()
	return m, cmd
}

func (m *Model) loadCalendarCmd() tea.Cmd {
	client := m.authorizedClient()
	if client == nil {
		return nil
	}
	m.reqs.reset(ScreenCalendar)
	ctx, gen := m.reqs.begin(ScreenCalendar)
	m.Calendar.Loading = true
	uid := m.User.ID
	month := m.Calendar.Month
	from, to := stats.MonthRange(month)
	return func() tea.Msg {
		events, err := client.ListCalendarEvents(ctx, uid, from, to)
		return CalendarEventsMsg{Gen: gen, Month: month, Events: events, Err: err}
	}
}

func (m Model) onCalendarEvents(msg CalendarEventsMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenCalendar, msg.Gen) || !msg.Month.Equal(m.Calendar.Month) {
		return m, nil
	}
	m.Calendar.Loading = false
	if msg.Err != nil {
		log.Printf("zen: load calendar events: %v", msg.Err)
		text := errText(msg.Err, "Failed to load calendar events")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.Calendar.Events = msg.Events
	return m, nil
}

// calendarWeeks lays the month out in Sunday-first rows.
func calendarWeeks(month, selected, today time.Time, events []model.CalendarEvent) [][]views.CalendarDay {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	counts := map[int]int{}
	for _, ev := range events {
		t := ev.StartTime.Time.In(month.Location())
		if t.Year() == first.Year() && t.Month() == first.Month() {
			counts[t.Day()]++
		}
	}
	days := first.AddDate(0, 1, -1).Day()
	var weeks [][]views.CalendarDay
	week := make([]views.CalendarDay, int(first.Weekday()))
	for d := 1; d <= days; d++ {
		week = append(week, views.CalendarDay{
			Day:      d,
			InMonth:  true,
			Events:   counts[d],
			Today:    sameDay(today, first.AddDate(0, 0, d-1)),
			Selected: sameDay(selected, first.AddDate(0, 0, d-1)),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, views.CalendarDay{})
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (m Model) renderCalendarView() string {
	if !m.SignedIn {
		return "calendar:\nSign in to see your calendar."
	}
	selected := m.Calendar.Selected
	var rows []views.EventRow
	for _, ev := range m.Calendar.Events {
		start := ev.StartTime.Time.In(selected.Location())
		if !sameDay(start, selected) {
			continue
		}
		rows = append(rows, views.EventRow{
			Time:     start.Format("15:04"),
			Title:    ev.Title,
			Location: deref(ev.Location),
		})
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		Month:        m.Calendar.Month.Format("January 2006"),
		Weeks:        calendarWeeks(m.Calendar.Month, selected, m.deps.Now(), m.Calendar.Events),
		SelectedDate: stats.FormatDate(selected),
		Events:       rows,
		Loading:      m.Calendar.Loading,
	})
}
