package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

const (
	// DBFileName is the history database kept next to the config
	DBFileName = "history.db"
)

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// Run is one executed or simulated clean-up
type Run struct {
	ID           int64
	Account      string
	FolderID     string
	FolderName   string
	Simulated    bool
	StartedAt    time.Time
	FinishedAt   time.Time
	DeletedCount int
	FailedCount  int
}

// Open opens the history database at path, creating the file if needed
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Initialize creates the database schema
func (db *DB) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account TEXT NOT NULL,
		folder_id TEXT NOT NULL,
		folder_name TEXT NOT NULL,
		simulated INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		deleted_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_account ON runs(account);

	CREATE TABLE IF NOT EXISTS run_entries (
		run_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT,
		PRIMARY KEY(run_id, seq),
		FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// RecordRun stores a run and its result log in one transaction and returns the run id.
// The counts are derived from the log.
func (db *DB) RecordRun(ctx context.Context, run *Run, log []model.LogEntry) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	run.DeletedCount, run.FailedCount = 0, 0
	for _, e := range log {
		if e.Failed() {
			run.FailedCount++
		} else {
			run.DeletedCount++
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (account, folder_id, folder_name, simulated, started_at, finished_at, deleted_count, failed_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Account, run.FolderID, run.FolderName, run.Simulated,
		run.StartedAt.Unix(), run.FinishedAt.Unix(), run.DeletedCount, run.FailedCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries (run_id, seq, item_id, name, outcome, reason)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, e := range log {
		if _, err := stmt.ExecContext(ctx, runID, i, e.ID, e.Name, e.Outcome.String(), e.Reason); err != nil {
			return 0, fmt.Errorf("failed to insert run entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	run.ID = runID
	return runID, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less returns all runs.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, account, folder_id, folder_name, simulated, started_at, finished_at, deleted_count, failed_count
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Account, &r.FolderID, &r.FolderName, &r.Simulated,
			&started, &finished, &r.DeletedCount, &r.FailedCount); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(started, 0)
		r.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// RunEntries returns the result log of a run in execution order
func (db *DB) RunEntries(ctx context.Context, runID int64) ([]model.LogEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT item_id, name, outcome, reason FROM run_entries
		WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var log []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		var outcome string
		var reason sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &outcome, &reason); err != nil {
			return nil, err
		}
		if outcome == model.OutcomeFailed.String() {
			e.Outcome = model.OutcomeFailed
		} else {
			e.Outcome = model.OutcomeDeleted
		}
		e.Reason = reason.String
		log = append(log, e)
	}
	return log, rows.Err()
}
