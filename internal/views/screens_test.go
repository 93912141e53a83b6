package views

import (
	"strings"
	"testing"
)

func TestRenderHomePanelSignedOut(t *testing.T) {
	out := RenderHomePanel(HomePanelData{Greeting: "Good morning"})
	if !strings.Contains(out, "Sign in") {
		t.Fatalf("expected sign in hint, got %q", out)
	}
}

func TestRenderHomePanelTasks(t *testing.T) {
	out := RenderHomePanel(HomePanelData{
		Greeting:   "Hello",
		SignedIn:   true,
		Stats:      []StatItem{{Label: "Tasks Done", Value: "1/2"}},
		Tasks:      []TaskRow{{ID: 1, Title: "Draft report", Status: "todo", Priority: "high", Due: "Jul 20"}, {ID: 2, Title: "Ship", Status: "done"}},
		SelectedID: 1,
		HasMore:    true,
	})
	for _, want := range []string{"> [ ]", "Draft report", "due Jul 20", "[x]", "press m to load more", "1/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderStatusDialogTerminal(t *testing.T) {
	out := RenderStatusDialog(StatusDialogData{Active: true, TaskTitle: "x", Current: "Completed", Terminal: true})
	if !strings.Contains(out, "can no longer change") {
		t.Fatalf("unexpected dialog: %q", out)
	}
	if RenderStatusDialog(StatusDialogData{}) != "" {
		t.Fatal("inactive dialog must render empty")
	}
}

func TestRenderCalendarPanelListsEvents(t *testing.T) {
	out := RenderCalendarPanel(CalendarPanelData{
		Month:        "July 2025",
		Weeks:        [][]CalendarDay{{{Day: 1, InMonth: true, Events: 1}}},
		SelectedDate: "2025-07-01",
		Events:       []EventRow{{Time: "09:00", Title: "Standup", Location: "Room 1"}},
	})
	for _, want := range []string{"July 2025", "09:00 Standup", "Room 1", " 1*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderReportPanelEmpty(t *testing.T) {
	out := RenderReportPanel(ReportPanelData{Empty: true})
	if !strings.Contains(out, "Press g") {
		t.Fatalf("unexpected report panel: %q", out)
	}
}

func TestRenderAppTabs(t *testing.T) {
	out := RenderApp(AppData{Header: "zen", Tabs: []string{"Home", "Focus"}, ActiveTab: 1, LeftPane: "body", StatusLine: "status: ok"})
	for _, want := range []string{"zen", "Home", "Focus", "body", "status: ok"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}
