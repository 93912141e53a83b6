package model

import (
	"encoding/json"
	"sort"
)

type WeeklyReport struct {
	ID                     int64      `json:"id"`
	UserID                 int64      `json:"user_id"`
	DateStart              Timestamp  `json:"date_start"`
	DateEnd                Timestamp  `json:"date_end"`
	TotalTasks             int        `json:"total_tasks"`
	CompletedTasks         int        `json:"completed_tasks"`
	OverdueTasks           int        `json:"overdue_tasks"`
	CancelledTasks         int        `json:"cancelled_tasks"`
	TotalEstimatedHours    float64    `json:"total_estimated_hours"`
	CompletedHours         float64    `json:"completed_hours"`
	HighPriorityCompleted  int        `json:"high_priority_completed"`
	HighPriorityTotal      int        `json:"high_priority_total"`
	DailyCompletionStats   string     `json:"daily_completion_stats"`
	AISummary              string     `json:"ai_summary"`
	AISuggestions          string     `json:"ai_suggestions"`
	AIProductivityInsights string     `json:"ai_productivity_insights"`
	Status                 string     `json:"status"`
	CreatedAt              *Timestamp `json:"created_at"`
	UpdatedAt              *Timestamp `json:"updated_at"`
}

// DayCount is one entry of the per-day completion series.
type DayCount struct {
	Day   string
	Count float64
}

// DailyStats decodes the JSON-encoded per-day completion counts.
// Malformed payloads yield an empty series.
func (r WeeklyReport) DailyStats() []DayCount {
	var raw map[string]float64
	if err := json.Unmarshal([]byte(r.DailyCompletionStats), &raw); err != nil {
		return nil
	}
	out := make([]DayCount, 0, len(raw))
	for day, n := range raw {
		out = append(out, DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Suggestions decodes ai_suggestions, which the service sends either as a
// JSON array or as an object keyed by index.
func (r WeeklyReport) Suggestions() []string {
	var list []string
	if err := json.Unmarshal([]byte(r.AISuggestions), &list); err == nil {
		return list
	}
	var obj map[string]string
	if err := json.Unmarshal([]byte(r.AISuggestions), &obj); err != nil {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, obj[k])
	}
	return out
}
