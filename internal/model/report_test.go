package model

import (
	"testing"
	"time"
)

func TestWeeklyReportDailyStats(t *testing.T) {
	r := WeeklyReport{DailyCompletionStats: `{"2025-07-15":2,"2025-07-14":1}`}
	stats := r.DailyStats()
	if len(stats) != 2 || stats[0].Day != "2025-07-14" || stats[1].Count != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	r.DailyCompletionStats = "not json"
	if got := r.DailyStats(); len(got) != 0 {
		t.Fatalf("expected empty stats for malformed payload, got %+v", got)
	}
}

func TestWeeklyReportSuggestions(t *testing.T) {
	r := WeeklyReport{AISuggestions: `["Block mornings","Batch email"]`}
	if got := r.Suggestions(); len(got) != 2 || got[1] != "Batch email" {
		t.Fatalf("unexpected suggestions: %v", got)
	}

	r.AISuggestions = `{"1":"second","0":"first"}`
	if got := r.Suggestions(); len(got) != 2 || got[0] != "first" {
		t.Fatalf("unexpected object suggestions: %v", got)
	}

	r.AISuggestions = ""
	if got := r.Suggestions(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestEventsOnFiltersByDay(t *testing.T) {
	mk := func(day int) CalendarEvent {
		return CalendarEvent{StartTime: Timestamp{Time: time.Date(2025, 7, day, 10, 0, 0, 0, time.UTC)}}
	}
	events := []CalendarEvent{mk(14), mk(15), mk(15)}
	if got := EventsOn(events, "2025-07-15"); len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got := EventsOn(events, "2025-07-16"); len(got) != 0 {
		t.Fatalf("expected 0 events, got %d", len(got))
	}
}

func TestFocusSessionValidate(t *testing.T) {
	start := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	fs := FocusSession{ID: "f1", Mode: FocusModeWork, StartedAt: start, EndedAt: start.Add(25 * time.Minute), DurationSec: 1500}
	if err := fs.Validate(); err != nil {
		t.Fatalf("expected valid session, got %v", err)
	}
	fs.EndedAt = start.Add(-time.Minute)
	if err := fs.Validate(); err == nil {
		t.Fatal("expected ordering error")
	}
	if _, err := ParseFocusMode("long"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseFocusMode("nap"); err == nil {
		t.Fatal("expected invalid focus mode")
	}
}
