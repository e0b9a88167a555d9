// Package history persists one row per run attempt in a local SQLite
// database, so past invocations survive restarts. The store is optional;
// the orchestrator runs fine without one.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded run attempt.
type Run struct {
	ID         int64
	Argv       []string
	Dir        string
	Status     string
	ExitCode   int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Store wraps the SQLite connection with run-history operations.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns the XDG data location of the history database.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cmdesk", "history.db")
}

// Open opens (creating if needed) the history database at the given path
// and applies migrations. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	row := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Runs},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const migrationV1Runs = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	argv TEXT NOT NULL,
	dir TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	exit_code INTEGER NOT NULL DEFAULT 0,
	started_at TEXT NOT NULL,
	finished_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// RecordStart inserts a new run in "running" state and returns its id.
func (s *Store) RecordStart(argv []string, dir string, startedAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(argv)
	if err != nil {
		return 0, fmt.Errorf("encode argv: %w", err)
	}
	res, err := s.conn.Exec(`
		INSERT INTO runs (argv, dir, status, started_at) VALUES (?, ?, 'running', ?)
	`, string(encoded), dir, formatTime(startedAt))
	if err != nil {
		return 0, fmt.Errorf("record run start: %w", err)
	}
	return res.LastInsertId()
}

// RecordFinish stores the terminal status and exit code of a run.
func (s *Store) RecordFinish(id int64, status string, exitCode int, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		UPDATE runs SET status = ?, exit_code = ?, finished_at = ? WHERE id = ?
	`, status, exitCode, formatTime(finishedAt), id)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT id, argv, dir, status, exit_code, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			argv     string
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &argv, &r.Dir, &r.Status, &r.ExitCode, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(argv), &r.Argv); err != nil {
			return nil, fmt.Errorf("decode argv: %w", err)
		}
		if t, err := parseTime(started); err == nil {
			r.StartedAt = t
		}
		if finished.Valid {
			if t, err := parseTime(finished.String); err == nil {
				r.FinishedAt = &t
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PurgeOlderThan deletes runs started before the cutoff and returns how
// many were removed.
func (s *Store) PurgeOlderThan(olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := formatTime(time.Now().Add(-olderThan))
	res, err := s.conn.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return res.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
