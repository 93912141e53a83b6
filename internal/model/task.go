package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus     = errors.New("model: invalid task status")
	ErrInvalidPriority   = errors.New("model: invalid task priority")
	ErrInvalidTransition = errors.New("model: invalid status transition")
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"

	// StatusCompleted is how dashboard payloads spell done.
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize folds the dashboard alias into the canonical value.
func (s Status) Normalize() Status {
	if s == StatusCompleted {
		return StatusDone
	}
	return s
}

func (s Status) IsTerminal() bool {
	switch s.Normalize() {
	case StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) Label() string {
	switch s.Normalize() {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "in-progress", "inprogress", "doing":
		s = StatusInProgress
	case "canceled":
		s = StatusCancelled
	}
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s.Normalize(), nil
}

var transitions = map[Status][]Status{
	StatusTodo:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
}

// NextStatuses lists the statuses reachable from s. Terminal statuses return nil.
func NextStatuses(s Status) []Status {
	next := transitions[s.Normalize()]
	if len(next) == 0 {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to Status) bool {
	to = to.Normalize()
	for _, s := range transitions[from.Normalize()] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to Status) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

type Task struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Status           Status     `json:"status"`
	Priority         Priority   `json:"priority"`
	DueDate          *Timestamp `json:"due_date"`
	StartDate        *Timestamp `json:"start_date,omitempty"`
	AssigneeID       *int64     `json:"assignee_id"`
	ProjectID        *int64     `json:"project_id"`
	ParentTaskID     *int64     `json:"parent_task_id"`
	CreatorID        int64      `json:"creator_id"`
	AICategory       *string    `json:"ai_category"`
	AIEstimatedHours *float64   `json:"ai_estimated_hours"`
	CompletedAt      *Timestamp `json:"completed_at"`
	CreatedAt        Timestamp  `json:"created_at"`
	UpdatedAt        Timestamp  `json:"updated_at"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	return nil
}

func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status.IsTerminal() {
		return false
	}
	return t.DueDate.Time.Before(now)
}

// WithStatus returns a copy moved to status s, keeping completed_at consistent.
func (t Task) WithStatus(s Status, now time.Time) Task {
	t.Status = s.Normalize()
	if t.Status == StatusDone {
		t.CompletedAt = &Timestamp{Time: now}
	} else {
		t.CompletedAt = nil
	}
	return t
}

func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// ScheduledTask is a smart-scheduler suggestion joined onto a task by id.
type ScheduledTask struct {
	TaskID             int64   `json:"task_id"`
	Title              string  `json:"title"`
	EstimatedHours     float64 `json:"estimated_hours"`
	Priority           string  `json:"priority,omitempty"`
	ScheduledDate      string  `json:"scheduled_date"`
	SuggestedStartTime string  `json:"suggested_start_time"`
	SuggestedEndTime   string  `json:"suggested_end_time"`
	SchedulingReason   string  `json:"scheduling_reason,omitempty"`
}

// ExtractedTask is the structured result of free-text task extraction.
type ExtractedTask struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	StartDate   string  `json:"start_date"`
	DueDate     string  `json:"due_date"`
	Category    *string `json:"category"`
}

func (e ExtractedTask) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: extracted task title is required")
	}
	if _, err := ParsePriority(e.Priority); err != nil {
		return err
	}
	return nil
}
