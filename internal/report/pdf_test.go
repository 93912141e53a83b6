package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

func sampleReport() model.WeeklyReport {
	return model.WeeklyReport{
		ID:                     1,
		UserID:                 3,
		DateStart:              model.Timestamp{Time: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)},
		DateEnd:                model.Timestamp{Time: time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)},
		TotalTasks:             8,
		CompletedTasks:         5,
		OverdueTasks:           1,
		CompletedHours:         12.5,
		TotalEstimatedHours:    20,
		HighPriorityCompleted:  2,
		HighPriorityTotal:      3,
		DailyCompletionStats:   `{"2025-07-14": 2, "2025-07-15": 3}`,
		AISummary:              "## Summary\n**Strong** week overall.",
		AISuggestions:          `["Plan mornings", "Batch email"]`,
		AIProductivityInsights: "Most work lands before noon.",
		Status:                 "completed",
	}
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportPDF(&buf, sampleReport()); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestExportPDFRejectsMissingRange(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportPDF(&buf, model.WeeklyReport{}); !errors.Is(err, ErrEmptyReport) {
		t.Fatalf("expected ErrEmptyReport, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error")
	}
}

func TestExportPDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "week.pdf")
	if err := ExportPDFFile(path, sampleReport()); err != nil {
		t.Fatalf("export file: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty pdf")
	}
}

func TestPlainStripsMarkdown(t *testing.T) {
	got := plain("## Title\n**bold** and `code`")
	if got != "Title\nbold and code" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
