// Package sqlite provides the SQLite introspection adapter.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/pkg/adapter"

	_ "modernc.org/sqlite" // cgo-free sqlite driver
)

// Adapter implements adapter.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a SQLite adapter. If logger is nil, a discard logger is
// used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQL dialect name for this adapter. SQLite follows
// ANSI quoting and folding closely enough that imported schemas analyze
// under the ansi dialect.
func (a *Adapter) Dialect() string {
	return "ansi"
}

// Connect establishes a connection to SQLite. The DSN is the database
// path; empty opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	a.Logger.Debug("connecting to sqlite", "path", dsn)
	return a.OpenAndPing(ctx, "sqlite", dsn)
}

// ListTables returns table and view names. A SQLite database has a single
// namespace, so the schema argument is ignored.
func (a *Adapter) ListTables(ctx context.Context, _ string) ([]string, error) {
	const query = `
		SELECT name
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
	return a.QueryStrings(ctx, query)
}

// TableColumns returns the columns of one table in declaration order.
func (a *Adapter) TableColumns(ctx context.Context, _ string, table string) ([]adapter.Column, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	const query = `
		SELECT cid, name, type, "notnull"
		FROM pragma_table_info(?)
		ORDER BY cid`
	rows, err := a.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var cid, notNull int
		var col adapter.Column
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Position = cid + 1
		col.Nullable = notNull == 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

var _ adapter.Adapter = (*Adapter)(nil)
