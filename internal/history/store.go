package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one completed or failed pipeline run.
type Run struct {
	ID             int64
	RunID          string
	CreatedAt      time.Time
	Script         string
	AudioFile      string
	ErrorMessage   string
	EventCount     int
	ElapsedSeconds float64
}

// Succeeded reports whether the run finished without an error.
func (r Run) Succeeded() bool {
	return r.ErrorMessage == ""
}

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    script TEXT NOT NULL DEFAULT '',
    audio_file TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    event_count INTEGER NOT NULL DEFAULT 0,
    elapsed_seconds REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open initializes or connects to the history database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one run row and returns its identifier.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, created_at, script, audio_file, error_message, event_count, elapsed_seconds)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Script,
		run.AudioFile,
		run.ErrorMessage,
		run.EventCount,
		run.ElapsedSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Latest returns the most recent run, or nil when no runs are recorded.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &run, nil
}

const runColumns = "id, run_id, created_at, script, audio_file, error_message, event_count, elapsed_seconds"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		createdRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&createdRaw,
		&run.Script,
		&run.AudioFile,
		&run.ErrorMessage,
		&run.EventCount,
		&run.ElapsedSeconds,
	); err != nil {
		return Run{}, err
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	return run, nil
}
