package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists deploy run outcomes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// RunRecord is one deploy run's aggregate outcome.
type RunRecord struct {
	ID          string
	Platform    string
	InstallRoot string
	StartedAt   time.Time
	FinishedAt  time.Time
	Installed   int
	Skipped     int
}

// UnitRecord is the per-unit outcome within a run.
type UnitRecord struct {
	Unit    string
	Outcome string
	Reason  string
}

// Unit outcomes stored in the history database.
const (
	OutcomeInstalled = "installed"
	OutcomeSkipped   = "skipped"
)

// Open initializes or connects to the history database and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applySchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS deploy_runs (
            id TEXT PRIMARY KEY,
            platform TEXT NOT NULL,
            install_root TEXT NOT NULL,
            started_at TEXT NOT NULL,
            finished_at TEXT NOT NULL,
            installed_count INTEGER NOT NULL,
            skipped_count INTEGER NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS deploy_run_units (
            run_id TEXT NOT NULL REFERENCES deploy_runs(id) ON DELETE CASCADE,
            unit TEXT NOT NULL,
            outcome TEXT NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (run_id, unit)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_deploy_runs_started_at ON deploy_runs (started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// RecordRun persists one run and its per-unit outcomes atomically.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, units []UnitRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO deploy_runs (
            id, platform, install_root, started_at, finished_at,
            installed_count, skipped_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Platform,
		run.InstallRoot,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Installed,
		run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, unit := range units {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO deploy_run_units (run_id, unit, outcome, reason) VALUES (?, ?, ?, ?)`,
			run.ID, unit.Unit, unit.Outcome, unit.Reason,
		); err != nil {
			return fmt.Errorf("insert run unit %q: %w", unit.Unit, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, platform, install_root, started_at, finished_at,
                installed_count, skipped_count
         FROM deploy_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Platform, &run.InstallRoot, &started, &finished, &run.Installed, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// UnitsForRun returns the per-unit outcomes of one run, installed first.
func (s *Store) UnitsForRun(ctx context.Context, runID string) ([]UnitRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT unit, outcome, reason FROM deploy_run_units
         WHERE run_id = ? ORDER BY outcome, unit`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run units: %w", err)
	}
	defer rows.Close()

	var units []UnitRecord
	for rows.Next() {
		var unit UnitRecord
		if err := rows.Scan(&unit.Unit, &unit.Outcome, &unit.Reason); err != nil {
			return nil, fmt.Errorf("scan run unit: %w", err)
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}
