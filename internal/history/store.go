// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a log of build units in a SQLite database.
// Implements: docs/ARCHITECTURE § Build History.
package history

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

	"github.com/pdiddy/docpress/pkg/types"
)

// DefaultFile is the database file name inside the cache root.
const DefaultFile = "history.db"

const defaultLimit = 20

// timeLayout sorts lexically in the same order as the times it encodes.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store records build units in a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path and creates the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			target TEXT NOT NULL,
			scope TEXT NOT NULL,
			slug TEXT NOT NULL,
			output TEXT,
			command TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_target ON builds(target)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one build unit. A missing ID is filled with a new UUID and
// a zero StartedAt with the current time. It returns the stored record.
func (s *Store) Record(ctx context.Context, rec types.BuildRecord) (types.BuildRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = s.now()
	}
	if rec.Target == "" || rec.Scope == "" || rec.Status == "" {
		return rec, errors.New("recording build: target, scope and status are required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, target, scope, slug, output, command, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Target), rec.Scope, rec.Slug, rec.Output, rec.Command,
		string(rec.Status), rec.Error,
		rec.StartedAt.UTC().Format(timeLayout), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return rec, fmt.Errorf("recording build %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Query filters List results. Zero values match everything.
type Query struct {
	Target types.Target
	Status types.BuildStatus
	Limit  int
}

// List returns the most recent build records first.
func (s *Store) List(ctx context.Context, q Query) ([]types.BuildRecord, error) {
	var (
		where []string
		args  []any
	)
	if q.Target != "" {
		where = append(where, "target = ?")
		args = append(args, string(q.Target))
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, target, scope, slug, output, command, status, error, started_at, duration_ms FROM builds`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var out []types.BuildRecord
	for rows.Next() {
		var (
			rec             types.BuildRecord
			target, status  string
			output, errText sql.NullString
			startedAt       string
			durationMillis  int64
		)
		if err := rows.Scan(&rec.ID, &target, &rec.Scope, &rec.Slug, &output, &rec.Command,
			&status, &errText, &startedAt, &durationMillis); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		rec.Target = types.Target(target)
		rec.Status = types.BuildStatus(status)
		rec.Output = output.String
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMillis) * time.Millisecond
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parsing start time of build %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
