// Package report persists analysis run history in SQLite so past
// reports can be listed and re-read without re-running the pipeline.
package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// Run is one saved analysis: the input text, the mode, and the full
// report.
type Run struct {
	ID        string
	Query     string
	Mode      string
	CreatedAt time.Time
	Report    models.StructuredResult
}

// Store wraps an SQLite database holding run history.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens the run-history database at the given path, creating
// parent directories and applying migrations. WAL mode is enabled for
// concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			mode TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			report TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

// SaveRun records a completed analysis and returns its id.
func (s *Store) SaveRun(query, mode string, report models.StructuredResult) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.conn.Exec(`
		INSERT INTO runs (id, query, mode, created_at, report) VALUES (?, ?, ?, ?, ?)
	`, id, query, mode, formatTime(time.Now()), string(payload))
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

// ListRuns returns run metadata, newest first, without report bodies.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, query, mode, created_at FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Query, &r.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = parseTime(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one run including its full report.
func (s *Store) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r Run
	var createdAt, payload string
	err := s.conn.QueryRow(`
		SELECT id, query, mode, created_at, report FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Query, &r.Mode, &createdAt, &payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	r.CreatedAt, _ = parseTime(createdAt)
	if err := json.Unmarshal([]byte(payload), &r.Report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// PurgeOldRuns deletes runs older than the given duration and returns
// how many were removed.
func (s *Store) PurgeOldRuns(olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.conn.Exec(`
		DELETE FROM runs WHERE created_at < ?
	`, formatTime(time.Now().Add(-olderThan)))
	if err != nil {
		return 0, fmt.Errorf("purge old runs: %w", err)
	}
	return result.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
