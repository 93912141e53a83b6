package model

import (
	"errors"
	"strings"
	"time"
)

// Reminder is a pending due-date notification for a loaded task.
type Reminder struct {
	TaskID      int64
	Title       string
	TriggerTime time.Time
}

// Key identifies a reminder by task and trigger instant.
func (r Reminder) Key() string {
	return strings.Join([]string{formatInt(r.TaskID), r.TriggerTime.UTC().Format(time.RFC3339)}, "@")
}

func (r Reminder) Validate() error {
	if r.TaskID <= 0 {
		return errors.New("model: reminder task_id is required")
	}
	if r.TriggerTime.IsZero() {
		return errors.New("model: reminder trigger_time is required")
	}
	return nil
}

// ReminderFor builds the reminder for a task's due date. ok is false for
// tasks without a due date and for terminal tasks.
func ReminderFor(t Task) (Reminder, bool) {
	if t.DueDate == nil || t.DueDate.IsZero() || t.Status.IsTerminal() {
		return Reminder{}, false
	}
	return Reminder{TaskID: t.ID, Title: t.Title, TriggerTime: t.DueDate.Time}, true
}
