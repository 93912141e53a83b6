package update

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/report"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/views"
)

func (m Model) handleReportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g", "r":
		if m.Reports.Loading {
			return m, nil
		}
		cmd := m.generateReportCmd()
		return m, cmd
	case "p":
		return m.exportReport()
	case "j", "down":
		m.reportViewport.LineDown(1)
	case "k", "up":
		m.reportViewport.LineUp(1)
	case "pgdown", " ":
		m.reportViewport.HalfViewDown()
	case "pgup":
		m.reportViewport.HalfViewUp()
	}
	return m, nil
}

// generateReportCmd asks the service for the report of the current
// Monday-to-Sunday week.
func (m *Model) generateReportCmd() tea.Cmd {
	if m.deps.Client == nil || m.User == nil || !m.SignedIn {
		return nil
	}
	client := m.deps.Client
	uid := m.User.ID
	start, end := stats.WeekRange(m.deps.Now())
	m.reqs.reset(ScreenReports)
	ctx, gen := m.reqs.begin(ScreenReports)
	m.Reports.Loading = true
	m.Reports.Start, m.Reports.End = start, end
	return func() tea.Msg {
		r, err := client.GenerateWeeklyReport(ctx, uid, start, end)
		return ReportMsg{Gen: gen, Report: r, Err: err}
	}
}

func (m Model) onReport(msg ReportMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenReports, msg.Gen) {
		return m, nil
	}
	m.Reports.Loading = false
	if msg.Err != nil {
		log.Printf("zen: generate weekly report: %v", msg.Err)
		m.Status = StatusBar{Text: "Failed to generate weekly report. Please try again.", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	r := msg.Report
	m.Reports.Report = &r
	m.reportViewport.SetContent(views.RenderMarkdown(reportMarkdown(r)))
	m.reportViewport.GotoTop()
	m.Status = StatusBar{Text: "Weekly report generated"}
	return m, nil
}

func (m Model) exportReport() (tea.Model, tea.Cmd) {
	r := m.Reports.Report
	if r == nil {
		m.Status = StatusBar{Text: "Generate a report before exporting", IsError: true}
		return m, nil
	}
	dir := m.opts.ReportDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, reportFileName(*r))
	rep := *r
	return m.beginBusy(func() tea.Msg {
		return ReportExportedMsg{Path: path, Err: report.ExportPDFFile(path, rep)}
	})
}

func reportFileName(r model.WeeklyReport) string {
	return fmt.Sprintf("weekly-report-%s.pdf", r.DateStart.Date())
}

func (m Model) onReportExported(msg ReportExportedMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: export report: %v", msg.Err)
		m.Status = StatusBar{Text: "Failed to export report", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	m.Status = StatusBar{Text: "Report saved to " + msg.Path}
	m.notify("Success", m.Status.Text, "info")
	return m, nil
}

// reportMarkdown is the AI narrative rendered through glamour in the viewport.
func reportMarkdown(r model.WeeklyReport) string {
	var b strings.Builder
	if s := strings.TrimSpace(r.AISummary); s != "" {
		b.WriteString("## Summary\n\n" + s + "\n\n")
	}
	if sugg := r.Suggestions(); len(sugg) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range sugg {
			b.WriteString("- " + s + "\n")
		}
		b.WriteString("\n")
	}
	if s := strings.TrimSpace(r.AIProductivityInsights); s != "" {
		b.WriteString("## Insights\n\n" + s + "\n")
	}
	return b.String()
}

func reportStats(r model.WeeklyReport) []views.StatItem {
	return []views.StatItem{
		{Label: "Total tasks", Value: fmt.Sprintf("%d", r.TotalTasks)},
		{Label: "Completed", Value: fmt.Sprintf("%d (%s)", r.CompletedTasks, stats.FormatPercent1(stats.Percent(float64(r.CompletedTasks), float64(r.TotalTasks))))},
		{Label: "Overdue", Value: fmt.Sprintf("%d", r.OverdueTasks)},
		{Label: "Cancelled", Value: fmt.Sprintf("%d", r.CancelledTasks)},
		{Label: "Hours", Value: fmt.Sprintf("%s of %s", stats.FormatHours(r.CompletedHours), stats.FormatHours(r.TotalEstimatedHours))},
	}
}

func dailyBars(days []model.DayCount) []views.DayBar {
	peak := 0.0
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	out := make([]views.DayBar, 0, len(days))
	for _, d := range days {
		out = append(out, views.DayBar{
			Day:   d.Day,
			Count: fmt.Sprintf("%.0f", d.Count),
			Bar:   stats.Bar(stats.Percent(d.Count, peak), 20),
		})
	}
	return out
}

func (m Model) renderReportsView() string {
	if !m.SignedIn {
		return "Weekly Report\nSign in to generate your weekly report."
	}
	data := views.ReportPanelData{Loading: m.Reports.Loading, Empty: m.Reports.Report == nil}
	if r := m.Reports.Report; r != nil && !data.Loading {
		data.Range = fmt.Sprintf("%s - %s", stats.FormatDate(r.DateStart.Time), stats.FormatDate(r.DateEnd.Time))
		data.Status = r.Status
		data.Stats = reportStats(*r)
		data.HighLine = fmt.Sprintf("%d/%d completed", r.HighPriorityCompleted, r.HighPriorityTotal)
		data.Daily = dailyBars(r.DailyStats())
		if body := m.reportViewport.View(); strings.TrimSpace(body) != "" {
			data.Summary = body
		}
	}
	return views.RenderReportPanel(data)
}
