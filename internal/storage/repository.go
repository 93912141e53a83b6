package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the local focus log. Nothing else is persisted on disk; tasks
// and everything else live on the remote service.
type Repository interface {
	RecordFocusSession(ctx context.Context, in model.FocusSession) error
	GetFocusSession(ctx context.Context, id string) (model.FocusSession, error)
	DeleteFocusSession(ctx context.Context, id string) error
	ListFocusSessions(ctx context.Context, filter FocusSessionFilter) ([]model.FocusSession, error)

	// FocusMinutes sums completed work sessions started on day's calendar date.
	FocusMinutes(ctx context.Context, day time.Time) (int, error)
	// StreakDays counts consecutive days with at least one work session,
	// ending today, or yesterday when today has none yet.
	StreakDays(ctx context.Context, today time.Time) (int, error)
	Close() error
}
