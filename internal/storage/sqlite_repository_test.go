package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "zen-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func record(t *testing.T, repo *SQLiteRepository, mode model.FocusMode, start time.Time, minutes int) model.FocusSession {
	t.Helper()
	in := NewFocusSession(mode, start, start.Add(time.Duration(minutes)*time.Minute), nil)
	if err := repo.RecordFocusSession(t.Context(), in); err != nil {
		t.Fatalf("record focus session: %v", err)
	}
	return in
}

func TestFocusSessionCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := t.Context()
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)

	taskID := model.Int64(42)
	in := NewFocusSession(model.FocusModeWork, start, start.Add(25*time.Minute), taskID)
	if in.ID == "" || in.DurationSec != 1500 {
		t.Fatalf("unexpected new session: %#v", in)
	}
	if err := repo.RecordFocusSession(ctx, in); err != nil {
		t.Fatalf("record: %v", err)
	}
	record(t, repo, model.FocusModeShortBreak, start.Add(25*time.Minute), 5)
	record(t, repo, model.FocusModeWork, start.AddDate(0, 0, 1), 25)

	got, err := repo.GetFocusSession(ctx, in.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TaskID == nil || *got.TaskID != 42 || !got.StartedAt.Equal(start) {
		t.Fatalf("unexpected session: %#v", got)
	}

	work, err := repo.ListFocusSessions(ctx, FocusSessionFilter{Mode: model.FocusModeWork})
	if err != nil {
		t.Fatalf("list work: %v", err)
	}
	if len(work) != 2 {
		t.Fatalf("expected 2 work sessions, got %d", len(work))
	}
	if !work[0].StartedAt.After(work[1].StartedAt) {
		t.Fatalf("expected newest first: %#v", work)
	}

	day := start
	sameDay, err := repo.ListFocusSessions(ctx, FocusSessionFilter{From: &day, To: &day})
	if err != nil {
		t.Fatalf("list day: %v", err)
	}
	if len(sameDay) != 2 {
		t.Fatalf("expected 2 sessions on %s, got %d", day.Format(time.DateOnly), len(sameDay))
	}

	byTask, err := repo.ListFocusSessions(ctx, FocusSessionFilter{TaskID: taskID})
	if err != nil {
		t.Fatalf("list by task: %v", err)
	}
	if len(byTask) != 1 || byTask[0].ID != in.ID {
		t.Fatalf("unexpected task filter result: %#v", byTask)
	}

	paged, err := repo.ListFocusSessions(ctx, FocusSessionFilter{Offset: 1})
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(paged) != 2 {
		t.Fatalf("expected offset to skip one row, got %d", len(paged))
	}

	if err := repo.DeleteFocusSession(ctx, in.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetFocusSession(ctx, in.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteFocusSession(ctx, in.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRecordRejectsInvalidSession(t *testing.T) {
	repo := setupRepo(t)
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	err := repo.RecordFocusSession(t.Context(), model.FocusSession{
		Mode:      "nap",
		StartedAt: start,
		EndedAt:   start.Add(time.Minute),
	})
	if !errors.Is(err, model.ErrInvalidFocusMode) {
		t.Fatalf("expected ErrInvalidFocusMode, got %v", err)
	}
}

func TestFocusMinutesCountsOnlyWork(t *testing.T) {
	repo := setupRepo(t)
	day := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	record(t, repo, model.FocusModeWork, day, 25)
	record(t, repo, model.FocusModeShortBreak, day.Add(25*time.Minute), 5)
	record(t, repo, model.FocusModeWork, day.Add(30*time.Minute), 25)
	record(t, repo, model.FocusModeWork, day.AddDate(0, 0, -1), 25)

	got, err := repo.FocusMinutes(t.Context(), day)
	if err != nil {
		t.Fatalf("focus minutes: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected 50 minutes, got %d", got)
	}

	empty, err := repo.FocusMinutes(t.Context(), day.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("focus minutes empty day: %v", err)
	}
	if empty != 0 {
		t.Fatalf("expected 0 minutes, got %d", empty)
	}
}

func TestStreakDays(t *testing.T) {
	repo := setupRepo(t)
	today := time.Date(2026, 2, 9, 18, 0, 0, 0, time.UTC)

	got, err := repo.StreakDays(t.Context(), today)
	if err != nil {
		t.Fatalf("streak empty: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected empty streak, got %d", got)
	}

	// yesterday and the two days before, with a gap before that
	for _, back := range []int{1, 2, 3, 5} {
		record(t, repo, model.FocusModeWork, today.AddDate(0, 0, -back).Add(-8*time.Hour), 25)
	}
	record(t, repo, model.FocusModeLongBreak, today.AddDate(0, 0, -4), 15)

	got, err = repo.StreakDays(t.Context(), today)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected streak 3 carried from yesterday, got %d", got)
	}

	record(t, repo, model.FocusModeWork, today.Add(-time.Hour), 25)
	got, err = repo.StreakDays(t.Context(), today)
	if err != nil {
		t.Fatalf("streak with today: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected streak 4, got %d", got)
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "focus.db")
	repo, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	record(t, repo, model.FocusModeWork, time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC), 25)
	list, err := repo.ListFocusSessions(t.Context(), FocusSessionFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one session, got %d", len(list))
	}
}
