package model

import (
	"testing"
	"time"
)

func TestReminderForSkipsTerminalAndUndated(t *testing.T) {
	due := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	task := Task{ID: 9, Title: "Pay invoice", Status: StatusTodo, DueDate: NewTimestamp(due)}

	rem, ok := ReminderFor(task)
	if !ok {
		t.Fatal("expected reminder for open task with due date")
	}
	if rem.TaskID != 9 || !rem.TriggerTime.Equal(due) || rem.Title != "Pay invoice" {
		t.Fatalf("unexpected reminder: %+v", rem)
	}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid reminder, got %v", err)
	}
	if rem.Key() != "9@2025-07-20T09:00:00Z" {
		t.Fatalf("unexpected key %q", rem.Key())
	}

	task.Status = StatusCancelled
	if _, ok := ReminderFor(task); ok {
		t.Fatal("terminal task must not get a reminder")
	}
	task.Status = StatusTodo
	task.DueDate = nil
	if _, ok := ReminderFor(task); ok {
		t.Fatal("undated task must not get a reminder")
	}
}

func TestReminderValidateRequiresFields(t *testing.T) {
	if err := (Reminder{TriggerTime: time.Now()}).Validate(); err == nil {
		t.Fatal("expected task_id error")
	}
	if err := (Reminder{TaskID: 1}).Validate(); err == nil {
		t.Fatal("expected trigger_time error")
	}
}
