package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sandeepkv93/zen/internal/model"
)

type TaskQuery struct {
	Skip       int
	Limit      int
	AssigneeID int64
	ProjectID  *int64
	Status     *model.Status
}

func (q TaskQuery) values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.AssigneeID > 0 {
		v.Set("assignee_id", strconv.FormatInt(q.AssigneeID, 10))
	}
	if q.ProjectID != nil {
		v.Set("project_id", strconv.FormatInt(*q.ProjectID, 10))
	}
	if q.Status != nil {
		v.Set("status", string(*q.Status))
	}
	return v
}

// NewTask is the POST /tasks body.
type NewTask struct {
	Title            string           `json:"title"`
	Description      *string          `json:"description"`
	Status           model.Status     `json:"status"`
	Priority         model.Priority   `json:"priority"`
	DueDate          *model.Timestamp `json:"due_date"`
	StartDate        *model.Timestamp `json:"start_date,omitempty"`
	ProjectID        *int64           `json:"project_id"`
	AssigneeID       *int64           `json:"assignee_id"`
	CreatorID        int64            `json:"creator_id"`
	ParentTaskID     *int64           `json:"parent_task_id,omitempty"`
	AICategory       *string          `json:"ai_category,omitempty"`
	AIEstimatedHours *float64         `json:"ai_estimated_hours,omitempty"`
}

// TaskUpdate is the PATCH /tasks/{id} body. The service expects the full
// editable record, not a diff.
type TaskUpdate struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	ProjectID   *int64           `json:"project_id"`
	AssigneeID  *int64           `json:"assignee_id"`
	Status      model.Status     `json:"status"`
	Priority    model.Priority   `json:"priority"`
	StartDate   *model.Timestamp `json:"start_date"`
	DueDate     *model.Timestamp `json:"due_date"`
}

// UpdateFromTask builds the full PATCH body for t moved to status. The
// start date falls back to created_at when the task has none.
func UpdateFromTask(t model.Task, status model.Status) TaskUpdate {
	start := t.StartDate
	if start == nil && !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		start = &created
	}
	return TaskUpdate{
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		Status:      status,
		Priority:    t.Priority,
		StartDate:   start,
		DueDate:     t.DueDate,
	}
}

func taskPath(id int64, suffix string) string {
	return fmt.Sprintf("/tasks/%d%s", id, suffix)
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	var out []model.Task
	err := c.do(ctx, request{method: http.MethodGet, path: "/tasks", query: q.values(), auth: true}, &out)
	return out, err
}

func (c *Client) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, request{method: http.MethodGet, path: taskPath(id, ""), auth: true}, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, in NewTask) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, request{method: http.MethodPost, path: "/tasks", body: in, auth: true}, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskUpdate) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, request{method: http.MethodPatch, path: taskPath(id, ""), body: in, auth: true}, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: taskPath(id, ""), auth: true}, nil)
}

func (c *Client) ListSubtasks(ctx context.Context, id int64) ([]model.Task, error) {
	var out []model.Task
	err := c.do(ctx, request{method: http.MethodGet, path: taskPath(id, "/subtasks"), auth: true}, &out)
	return out, err
}

// BreakdownTask asks the service to split a task into AI-generated subtasks.
func (c *Client) BreakdownTask(ctx context.Context, id int64) ([]model.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodPost, path: taskPath(id, "/breakdown"), auth: true}, &raw); err != nil {
		return nil, err
	}
	var envelope struct {
		Subtasks []model.Task `json:"subtasks"`
	}
	return decodeListOr(raw, "subtasks", &envelope.Subtasks, &envelope)
}

// SmartSchedule returns scheduling suggestions for the user's open tasks.
func (c *Client) SmartSchedule(ctx context.Context, userID int64) ([]model.ScheduledTask, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodPost, path: "/scheduler/smart", query: q, auth: true}, &raw); err != nil {
		return nil, err
	}
	var envelope struct {
		ScheduledTasks []model.ScheduledTask `json:"scheduled_tasks"`
	}
	return decodeListOr(raw, "scheduled_tasks", &envelope.ScheduledTasks, &envelope)
}

// decodeListOr accepts either a bare JSON array or an object wrapping it under key.
func decodeListOr[T any](raw json.RawMessage, key string, field *[]T, envelope any) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, fmt.Errorf("api: decode %s: %w", key, err)
	}
	return *field, nil
}
