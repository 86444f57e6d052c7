// Package history keeps an audit trail of confirmation decisions and the
// commands they released, in a local SQLite database.
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

const schema = `
CREATE TABLE IF NOT EXISTS confirmations (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	correlation_id TEXT NOT NULL,
	action         TEXT NOT NULL,
	command        TEXT NOT NULL,
	confirmed      INTEGER NOT NULL,
	status         TEXT NOT NULL,
	exit_code      INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_confirmations_created ON confirmations(created_at);
`

// Entry is one recorded decision.
type Entry struct {
	ID            int64
	CorrelationID string
	Action        string
	Command       string
	Confirmed     bool
	Status        string
	ExitCode      int
	CreatedAt     time.Time
}

type Store struct {
	db *sql.DB
}

// DefaultPath is history.db next to the config file.
func DefaultPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "history.db")
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	// One writer; the confirmation rate is human.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO confirmations (correlation_id, action, command, confirmed, status, exit_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.CorrelationID, e.Action, e.Command, e.Confirmed, e.Status, e.ExitCode, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record confirmation: %w", err)
	}
	return nil
}

// List returns the newest entries first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, correlation_id, action, command, confirmed, status, exit_code, created_at
		 FROM confirmations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CorrelationID, &e.Action, &e.Command,
			&e.Confirmed, &e.Status, &e.ExitCode, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
