package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{
		ID:       1,
		Title:    "Draft report",
		Status:   StatusTodo,
		Priority: PriorityHigh,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	task := Task{ID: 1, Title: "Bad status", Status: Status("blocked"), Priority: PriorityLow}
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}

	task.Status = StatusTodo
	task.Priority = Priority("critical")
	if err := task.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityMedium
	task.Title = "  "
	if err := task.Validate(); err == nil {
		t.Fatal("expected title error, got nil")
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusTodo, StatusInProgress, true},
		{StatusTodo, StatusCancelled, true},
		{StatusTodo, StatusDone, false},
		{StatusInProgress, StatusDone, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusTodo, false},
		{StatusDone, StatusTodo, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusTodo, false},
	}
	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
		err := ValidateTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Fatalf("ValidateTransition(%s, %s) unexpected error: %v", tc.from, tc.to, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("ValidateTransition(%s, %s) expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
	}

	if err := ValidateTransition(StatusTodo, Status("nope")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for unknown target, got %v", err)
	}
}

func TestNextStatusesTerminal(t *testing.T) {
	if got := NextStatuses(StatusDone); got != nil {
		t.Fatalf("expected no transitions from done, got %v", got)
	}
	if got := NextStatuses(StatusCancelled); got != nil {
		t.Fatalf("expected no transitions from cancelled, got %v", got)
	}
	next := NextStatuses(StatusTodo)
	next[0] = StatusDone
	if NextStatuses(StatusTodo)[0] != StatusInProgress {
		t.Fatal("NextStatuses must return a copy")
	}
}

func TestParseStatusAndPriority(t *testing.T) {
	if s, err := ParseStatus("In-Progress"); err != nil || s != StatusInProgress {
		t.Fatalf("unexpected parse result: %q %v", s, err)
	}
	if s, err := ParseStatus("completed"); err != nil || s != StatusDone {
		t.Fatalf("completed should normalize to done, got %q %v", s, err)
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if p, err := ParsePriority(""); err != nil || p != PriorityMedium {
		t.Fatalf("empty priority should default to medium, got %q %v", p, err)
	}
	if _, err := ParsePriority("critical"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestTaskWithStatusSetsCompletedAt(t *testing.T) {
	now := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	task := Task{ID: 4, Title: "Ship", Status: StatusInProgress, Priority: PriorityHigh}

	done := task.WithStatus(StatusDone, now)
	if done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at %v, got %v", now, done.CompletedAt)
	}
	if task.CompletedAt != nil {
		t.Fatal("WithStatus must not mutate the receiver")
	}

	cancelled := done.WithStatus(StatusCancelled, now)
	if cancelled.CompletedAt != nil {
		t.Fatalf("expected completed_at cleared, got %v", cancelled.CompletedAt)
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC)
	due := NewTimestamp(time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC))

	task := Task{Status: StatusTodo, DueDate: due}
	if !task.IsOverdue(now) {
		t.Fatal("expected overdue task")
	}
	task.Status = StatusDone
	if task.IsOverdue(now) {
		t.Fatal("done task must not be overdue")
	}
	task.Status = StatusTodo
	task.DueDate = nil
	if task.IsOverdue(now) {
		t.Fatal("task without due date must not be overdue")
	}
}

func TestTaskDecodesServiceDates(t *testing.T) {
	payload := `{"id":7,"title":"Draft report","status":"todo","priority":"high",
		"due_date":"2025-07-20T00:00:00","completed_at":null,"creator_id":3,
		"created_at":"2025-07-18T10:11:12.123456","updated_at":"2025-07-18T10:11:12Z"}`

	var task Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.DueDate == nil || task.DueDate.Date() != "2025-07-20" {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected nil completed_at, got %v", task.CompletedAt)
	}
	if task.CreatedAt.Year() != 2025 || task.CreatedAt.Nanosecond() != 123456000 {
		t.Fatalf("unexpected created_at: %v", task.CreatedAt)
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"next tuesday"`), &ts); err == nil {
		t.Fatal("expected error for unrecognized timestamp")
	}
	if err := json.Unmarshal([]byte(`12`), &ts); err == nil {
		t.Fatal("expected error for non-string timestamp")
	}
}
