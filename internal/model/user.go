package model

// User is the task service's account record.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	IsActive  bool       `json:"is_active,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// DisplayName prefers the full name and falls back to username, then email.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
	TeamID      *int64     `json:"team_id,omitempty"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	Progress    *float64   `json:"progress,omitempty"`
	CreatedAt   *Timestamp `json:"created_at,omitempty"`
}

type Team struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CreatedAt   *Timestamp `json:"created_at,omitempty"`
}

type TeamMember struct {
	ID       int64      `json:"id"`
	TeamID   int64      `json:"team_id"`
	UserID   int64      `json:"user_id"`
	Role     string     `json:"role"`
	JoinedAt *Timestamp `json:"joined_at,omitempty"`
	User     User       `json:"user"`
}

type CalendarEvent struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartTime   Timestamp `json:"start_time"`
	EndTime     Timestamp `json:"end_time"`
	TaskID      *int64    `json:"task_id,omitempty"`
	Location    *string   `json:"location,omitempty"`
}

// EventsOn keeps the events whose start falls on day (yyyy-mm-dd).
func EventsOn(events []CalendarEvent, day string) []CalendarEvent {
	var out []CalendarEvent
	for _, ev := range events {
		if ev.StartTime.Date() == day {
			out = append(out, ev)
		}
	}
	return out
}
