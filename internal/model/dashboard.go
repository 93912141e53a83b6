package model

import (
	"encoding/json"
	"sort"
)

// DashboardTask is the denormalized task row used by both dashboards.
type DashboardTask struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	AssigneeUsername   string     `json:"assignee_username"`
	AssigneeFullName   string     `json:"assignee_full_name"`
	Status             Status     `json:"status"`
	Priority           Priority   `json:"priority"`
	AICategory         string     `json:"ai_category"`
	AIEstimatedHours   float64    `json:"ai_estimated_hours"`
	DueDate            *Timestamp `json:"due_date"`
	DaysUntilDue       *int       `json:"days_until_due"`
	IsOverdue          bool       `json:"is_overdue"`
	CalendarSyncStatus string     `json:"calendar_sync_status"`
	CreatedAt          *Timestamp `json:"created_at"`
	CompletedAt        *Timestamp `json:"completed_at"`
}

type PersonalStats struct {
	UserID                 int64          `json:"user_id"`
	Username               string         `json:"username"`
	FullName               string         `json:"full_name"`
	Email                  string         `json:"email"`
	TotalTasks             int            `json:"total_tasks"`
	CompletedTasks         int            `json:"completed_tasks"`
	InProgressTasks        int            `json:"in_progress_tasks"`
	OverdueTasks           int            `json:"overdue_tasks"`
	CompletionRate         float64        `json:"completion_rate"`
	AvgCompletionTimeHours float64        `json:"avg_completion_time_hours"`
	CalendarSyncRate       float64        `json:"calendar_sync_rate"`
	CurrentWorkloadHours   float64        `json:"current_workload_hours"`
	PriorityBreakdown      map[string]int `json:"priority_breakdown,omitempty"`
	CategoryBreakdown      map[string]int `json:"category_breakdown,omitempty"`
}

type MemberDashboard struct {
	UserID                    int64              `json:"user_id"`
	Username                  string             `json:"username"`
	FullName                  string             `json:"full_name"`
	PersonalStats             PersonalStats      `json:"personal_stats"`
	AssignedTasks             []DashboardTask    `json:"assigned_tasks"`
	OverdueTasks              []DashboardTask    `json:"overdue_tasks"`
	UpcomingDeadlines         []DashboardTask    `json:"upcoming_deadlines"`
	RecentCompletions         []DashboardTask    `json:"recent_completions"`
	WorkloadByProject         []map[string]any   `json:"workload_by_project"`
	CalendarIntegrationStatus map[string]any     `json:"calendar_integration_status"`
	WeeklyProductivity        map[string]float64 `json:"weekly_productivity"`
	Recommendations           []string           `json:"recommendations"`
}

// MemberDashboardResponse is the envelope returned by /dashboard/member.
type MemberDashboardResponse struct {
	MemberDashboard MemberDashboard `json:"member_dashboard"`
	GeneratedAt     *Timestamp      `json:"generated_at"`
}

type SprintStats struct {
	SprintName           string            `json:"sprint_name"`
	StartDate            *Timestamp        `json:"start_date"`
	EndDate              *Timestamp        `json:"end_date"`
	TotalTasks           int               `json:"total_tasks"`
	CompletedTasks       int               `json:"completed_tasks"`
	InProgressTasks      int               `json:"in_progress_tasks"`
	NotStartedTasks      int               `json:"not_started_tasks"`
	SprintCompletionRate float64           `json:"sprint_completion_rate"`
	TotalStoryPoints     float64           `json:"total_story_points"`
	CompletedStoryPoints float64           `json:"completed_story_points"`
	Velocity             float64           `json:"velocity"`
	BurndownData         []json.RawMessage `json:"burndown_data"`
	ScopeChanges         int               `json:"scope_changes"`
}

type TaskGroup struct {
	Status               string          `json:"status"`
	Tasks                []DashboardTask `json:"tasks"`
	TotalHours           float64         `json:"total_hours"`
	CompletionPercentage float64         `json:"completion_percentage"`
}

type SprintDashboard struct {
	SprintStats     SprintStats        `json:"sprint_stats"`
	TaskGroups      []TaskGroup        `json:"task_groups"`
	TeamVelocity    map[string]float64 `json:"team_velocity"`
	Blockers        []DashboardTask    `json:"blockers"`
	ScopeCreepTasks []DashboardTask    `json:"scope_creep_tasks"`
	GeneratedAt     *Timestamp         `json:"generated_at"`
}

// SortedKeys returns the keys of a numeric series in ascending order.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
