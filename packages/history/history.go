// Package history keeps a SQLite log of executed reqline statements.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id          TEXT PRIMARY KEY,
	reqline     TEXT NOT NULL,
	full_url    TEXT NOT NULL DEFAULT '',
	http_status INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history (created_at);
`

// DefaultLimit is the number of entries List returns when no limit is given
const DefaultLimit = 20

// Entry is one recorded statement and its outcome.
type Entry struct {
	ID         string
	Reqline    string
	FullURL    string
	HTTPStatus int
	DurationMs int64
	Error      string
	CreatedAt  time.Time
}

func (e *Entry) Failed() bool {
	return e.Error != ""
}

// Store persists entries. It implements executor.Recorder.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// DefaultPath returns the history database location under the user's config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "reqline", "history.db")
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores the outcome of one statement.
func (s *Store) Record(ctx context.Context, reqline string, env *executor.Envelope) error {
	entry := &Entry{Reqline: reqline}
	if env.Failed() {
		entry.Error = env.Message
	} else {
		entry.FullURL = env.Result.Request.FullURL
		entry.HTTPStatus = env.Result.Response.HTTPStatus
		entry.DurationMs = env.Result.Response.Duration
	}
	return s.Add(ctx, entry)
}

// Add inserts e, filling in ID and CreatedAt when they are unset.
func (s *Store) Add(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, reqline, full_url, http_status, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Reqline, e.FullURL, e.HTTPStatus, e.DurationMs, e.Error, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// List returns the most recent entries first.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reqline, full_url, http_status, duration_ms, error, created_at
		 FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var (
			e         Entry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Reqline, &e.FullURL, &e.HTTPStatus, &e.DurationMs, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	var (
		e         Entry
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, reqline, full_url, http_status, duration_ms, error, created_at
		 FROM history WHERE id = ?`, id,
	).Scan(&e.ID, &e.Reqline, &e.FullURL, &e.HTTPStatus, &e.DurationMs, &e.Error, &createdAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = time.UnixMilli(createdAt)
	return &e, nil
}

// Clear deletes every entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
