package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/zen/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the focus log at path, creating the parent directory and
// applying migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// NewFocusSession builds a log entry for an interval that just ended.
func NewFocusSession(mode model.FocusMode, startedAt, endedAt time.Time, taskID *int64) model.FocusSession {
	return model.FocusSession{
		ID:          uuid.NewString(),
		Mode:        mode,
		StartedAt:   startedAt,
		EndedAt:     endedAt,
		DurationSec: int(endedAt.Sub(startedAt) / time.Second),
		TaskID:      taskID,
	}
}

func (r *SQLiteRepository) RecordFocusSession(ctx context.Context, in model.FocusSession) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (id, mode, day, started_at, ended_at, duration_sec, task_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, string(in.Mode), dayKey(in.StartedAt), mustTime(in.StartedAt), mustTime(in.EndedAt),
		in.DurationSec, nullInt(in.TaskID), mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) GetFocusSession(ctx context.Context, id string) (model.FocusSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, mode, started_at, ended_at, duration_sec, task_id
		FROM focus_sessions WHERE id = ?`, id)
	item, err := scanFocusSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FocusSession{}, ErrNotFound
		}
		return model.FocusSession{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteFocusSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM focus_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListFocusSessions(ctx context.Context, filter FocusSessionFilter) ([]model.FocusSession, error) {
	query := `SELECT id, mode, started_at, ended_at, duration_sec, task_id FROM focus_sessions`
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(filter.Mode))
	}
	if filter.From != nil {
		clauses = append(clauses, "day >= ?")
		args = append(args, dayKey(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "day <= ?")
		args = append(args, dayKey(*filter.To))
	}
	if filter.TaskID != nil {
		clauses = append(clauses, "task_id = ?")
		args = append(args, *filter.TaskID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY started_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.FocusSession, 0)
	for rows.Next() {
		item, scanErr := scanFocusSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) FocusMinutes(ctx context.Context, day time.Time) (int, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(duration_sec) FROM focus_sessions WHERE mode = ? AND day = ?`,
		string(model.FocusModeWork), dayKey(day),
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64 / 60), nil
}

func (r *SQLiteRepository) StreakDays(ctx context.Context, today time.Time) (int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT day FROM focus_sessions
		WHERE mode = ? AND day <= ?
		ORDER BY day DESC`,
		string(model.FocusModeWork), dayKey(today),
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	days := make([]string, 0)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return 0, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return countStreak(days, today), nil
}

// countStreak walks days (descending yyyy-mm-dd) back from today.
func countStreak(days []string, today time.Time) int {
	if len(days) == 0 {
		return 0
	}
	cursor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if days[0] != cursor.Format(time.DateOnly) {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for _, day := range days {
		if day != cursor.Format(time.DateOnly) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFocusSession(s scanner) (model.FocusSession, error) {
	var out model.FocusSession
	var mode string
	var started string
	var ended string
	var taskID sql.NullInt64
	if err := s.Scan(&out.ID, &mode, &started, &ended, &out.DurationSec, &taskID); err != nil {
		return model.FocusSession{}, err
	}
	startedAt, err := parseRequiredTime(started)
	if err != nil {
		return model.FocusSession{}, err
	}
	endedAt, err := parseRequiredTime(ended)
	if err != nil {
		return model.FocusSession{}, err
	}
	out.Mode = model.FocusMode(mode)
	out.StartedAt = startedAt
	out.EndedAt = endedAt
	if taskID.Valid {
		out.TaskID = model.Int64(taskID.Int64)
	}
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// dayKey is the calendar date in t's own location.
func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}
