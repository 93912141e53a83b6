package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/zen/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	start := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.RecordFocusSession(t.Context(), model.FocusSession{
		ID:          "focus-rt-1",
		Mode:        model.FocusModeWork,
		StartedAt:   start,
		EndedAt:     start.Add(25 * time.Minute),
		DurationSec: 1500,
	}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.GetFocusSession(t.Context(), "focus-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.DurationSec != 1500 || got.Mode != model.FocusModeWork {
		t.Fatalf("unexpected session after roundtrip: %#v", got)
	}
}
