// Package state persists analysis run history in SQLite.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // cgo-free sqlite driver
)

// ErrRunNotFound is returned by GetRun for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one recorded analysis run.
type RunRecord struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Dialect     string    `json:"dialect"`
	// Source names what was analyzed, typically a file path or "repl".
	Source     string `json:"source"`
	Statements int    `json:"statements"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
}

// Store is a SQLite-backed run history store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates an unopened store. If logger is nil, a discard logger
// is used.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Open opens the SQLite database at path. Use ":memory:" for an
// in-memory database. On-disk databases run in WAL mode with a busy
// timeout so a concurrent reader does not fail a write.
func (s *Store) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection to :memory: would get its own empty
		// database, so keep the pool at one connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("run history store opened", "path", path)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts one run record and returns its id. A missing id or
// start time is filled in.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}

	var completed any
	if !rec.CompletedAt.IsZero() {
		completed = rec.CompletedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, completed_at, dialect, source, statements, nodes, edges, errors, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC(), completed, rec.Dialect, rec.Source,
		rec.Statements, rec.Nodes, rec.Edges, rec.Errors, rec.Warnings,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("recorded run", "id", rec.ID, "source", rec.Source)
	return rec.ID, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns up to 50.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, completed_at, dialect, source, statements, nodes, edges, errors, warnings
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return out, nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, completed_at, dialect, source, statements, nodes, edges, errors, warnings
		 FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// scanRun reads one runs row through the given Scan function.
func scanRun(scan func(dest ...any) error) (RunRecord, error) {
	var rec RunRecord
	var completed sql.NullTime
	err := scan(&rec.ID, &rec.StartedAt, &completed, &rec.Dialect, &rec.Source,
		&rec.Statements, &rec.Nodes, &rec.Edges, &rec.Errors, &rec.Warnings)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan run: %w", err)
	}
	if completed.Valid {
		rec.CompletedAt = completed.Time
	}
	return rec, nil
}
