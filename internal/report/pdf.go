package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/stats"
)

const fontName = "Helvetica"

var ErrEmptyReport = errors.New("report: weekly report has no date range")

// ExportPDF renders a weekly report as an A4 PDF.
func ExportPDF(w io.Writer, r model.WeeklyReport) error {
	if r.DateStart.IsZero() || r.DateEnd.IsZero() {
		return ErrEmptyReport
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Weekly Report", false)
	pdf.SetAuthor("zen", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(fontName, "B", 18)
	pdf.CellFormat(0, 10, "Weekly Report", "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 12)
	span := fmt.Sprintf("%s - %s", stats.FormatDate(r.DateStart.Time), stats.FormatDate(r.DateEnd.Time))
	pdf.CellFormat(0, 7, span, "", 1, "C", false, 0, "")
	hr(pdf)

	sectionTitle(pdf, "Overview")
	completion := stats.Percent(float64(r.CompletedTasks), float64(r.TotalTasks))
	kvLine(pdf, "Total tasks", fmt.Sprintf("%d (%s completion rate)", r.TotalTasks, stats.FormatPercent1(completion)))
	kvLine(pdf, "Completed", fmt.Sprintf("%d (%gh completed)", r.CompletedTasks, r.CompletedHours))
	kvLine(pdf, "Overdue", fmt.Sprintf("%d", r.OverdueTasks))
	kvLine(pdf, "Cancelled", fmt.Sprintf("%d", r.CancelledTasks))
	kvLine(pdf, "Estimated hours", fmt.Sprintf("%g", r.TotalEstimatedHours))
	if r.Status != "" {
		kvLine(pdf, "Status", r.Status)
	}
	hr(pdf)

	sectionTitle(pdf, "High Priority Tasks")
	high := stats.Percent(float64(r.HighPriorityCompleted), float64(r.HighPriorityTotal))
	kvLine(pdf, "Completed", fmt.Sprintf("%d/%d (%s)", r.HighPriorityCompleted, r.HighPriorityTotal, stats.FormatPercent1(high)))
	hr(pdf)

	if days := r.DailyStats(); len(days) > 0 {
		sectionTitle(pdf, "Daily Activity")
		for _, d := range days {
			kvLine(pdf, d.Day, fmt.Sprintf("%g tasks", d.Count))
		}
		hr(pdf)
	}

	if text := plain(r.AISummary); text != "" {
		sectionTitle(pdf, "AI Summary")
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
		pdf.Ln(2)
	}
	if suggestions := r.Suggestions(); len(suggestions) > 0 {
		sectionTitle(pdf, "AI Suggestions")
		for i, s := range suggestions {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, plain(s))), "", "L", false)
		}
		pdf.Ln(2)
	}
	if text := plain(r.AIProductivityInsights); text != "" {
		sectionTitle(pdf, "Productivity Insights")
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// ExportPDFFile writes the report to path, creating parent directories.
func ExportPDFFile(path string, r model.WeeklyReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := ExportPDF(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 11)
}

func kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

// plain strips the markdown emphasis the AI text arrives with.
func plain(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "# ")
	}
	return strings.Join(lines, "\n")
}
