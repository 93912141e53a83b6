package stats

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultFocusGoalMinutes = 120
	DefaultStreakGoalDays   = 7
)

// WeekRange returns Monday and Sunday of the week containing now, at midnight
// in now's location. Sunday belongs to the week that started six days before.
func WeekRange(now time.Time) (time.Time, time.Time) {
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// MonthRange returns the first and last day of the month containing now.
func MonthRange(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first, first.AddDate(0, 1, -1)
}

// Percent is part/total*100, or 0 when total is not positive.
func Percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// GoalPercent is Percent capped at 100.
func GoalPercent(value, goal float64) float64 {
	return math.Min(Percent(value, goal), 100)
}

// FormatPercent renders a rounded whole percentage.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

// FormatPercent1 renders a percentage with one decimal place.
func FormatPercent1(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatMinutes renders "1h 5m", or "45m" under an hour.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func FormatHours(h float64) string {
	return fmt.Sprintf("%.1f hours", h)
}

// FormatDate renders "Jul 20, 2025"; zero renders as "-".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// Daily is the home screen summary row.
type Daily struct {
	Completed    int
	Total        int
	FocusMinutes int
	StreakDays   int
	FocusGoal    int
	StreakGoal   int
}

type Item struct {
	Label    string
	Value    string
	Progress float64
}

// Items lists tasks done, focus time and streak with their goal progress.
func (d Daily) Items() []Item {
	focusGoal := d.FocusGoal
	if focusGoal <= 0 {
		focusGoal = DefaultFocusGoalMinutes
	}
	streakGoal := d.StreakGoal
	if streakGoal <= 0 {
		streakGoal = DefaultStreakGoalDays
	}
	return []Item{
		{
			Label:    "Tasks Done",
			Value:    fmt.Sprintf("%d/%d", d.Completed, d.Total),
			Progress: Percent(float64(d.Completed), float64(d.Total)),
		},
		{
			Label:    "Focus Time",
			Value:    FormatMinutes(d.FocusMinutes),
			Progress: GoalPercent(float64(d.FocusMinutes), float64(focusGoal)),
		},
		{
			Label:    "Streak",
			Value:    fmt.Sprintf("%d days", d.StreakDays),
			Progress: GoalPercent(float64(d.StreakDays), float64(streakGoal)),
		},
	}
}

// Bar draws a width-cell progress bar for p in [0, 100].
func Bar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	p = math.Max(0, math.Min(p, 100))
	filled := int(math.Round(p / 100 * float64(width)))
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}
