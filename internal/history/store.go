// Package history persists a durable record of past runs (RunSummary: mode,
// test path, frame/assertion counts, pass/fail, timestamps) to SQLite, so a
// host or the gmtreplay tool can answer "how has this test file behaved
// over the last N runs" without re-decoding every archived file.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion tracks schema.sql's migration history.
const currentSchemaVersion = 1

// RunSummary is one recorded run outcome.
type RunSummary struct {
	RunID          string
	TestPath       string
	Mode           string
	StartedAt      time.Time
	FrameCount     int
	AssertionCount int
	Failed         bool
	FailureDetail  string
}

// Store provides durable storage of RunSummary rows in a single-writer
// SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path, applying pragmas and
// schema migrations. Idempotent: safe to call repeatedly against the same
// path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: connect: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts a completed run's summary, assigning it a fresh RunID
// if the caller left one unset.
func (s *Store) RecordRun(ctx context.Context, run RunSummary) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, test_path, mode, started_at, frame_count, assertion_count, failed, failure_detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.TestPath, run.Mode, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FrameCount, run.AssertionCount, run.Failed, run.FailureDetail)
	if err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}
	return run.RunID, nil
}

// RecentRuns returns up to limit runs for testPath, newest first.
func (s *Store) RecentRuns(ctx context.Context, testPath string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, test_path, mode, started_at, frame_count, assertion_count, failed, failure_detail
		FROM runs WHERE test_path = ? ORDER BY started_at DESC LIMIT ?`, testPath, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var run RunSummary
		var startedAt string
		if err := rows.Scan(&run.RunID, &run.TestPath, &run.Mode, &startedAt,
			&run.FrameCount, &run.AssertionCount, &run.Failed, &run.FailureDetail); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		out = append(out, run)
	}
	return out, rows.Err()
}

// PruneOlderThan deletes every run row started before cutoff, returning the
// number of rows removed. Pairs with archive.Cleaner's file-artefact
// sweep — the two run on independent schedules since a Cleaner has no
// database handle of its own.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("history: prune runs: %w", err)
	}
	return res.RowsAffected()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("history: exec %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("history: apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("history: set user_version: %w", err)
	}
	return nil
}
