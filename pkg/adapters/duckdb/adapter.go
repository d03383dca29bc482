// Package duckdb provides the DuckDB introspection adapter.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// defaultSchema is introspected when the caller names none.
const defaultSchema = "main"

// Adapter implements adapter.Adapter for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a DuckDB adapter. If logger is nil, a discard logger is
// used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQL dialect name for this adapter.
func (a *Adapter) Dialect() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB. The DSN is the database
// path; empty opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to duckdb", "path", cfg.DSN)
	return a.OpenAndPing(ctx, "duckdb", cfg.DSN)
}

// ListTables returns table and view names in the schema.
func (a *Adapter) ListTables(ctx context.Context, schema string) ([]string, error) {
	if schema == "" {
		schema = defaultSchema
	}
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name`
	return a.QueryStrings(ctx, query, schema)
}

// TableColumns returns the columns of one table in ordinal order.
func (a *Adapter) TableColumns(ctx context.Context, schema, table string) ([]adapter.Column, error) {
	if schema == "" {
		schema = defaultSchema
	}
	const query = `
		SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`
	columns, err := a.ScanColumns(ctx, query, schema, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}
	return columns, nil
}

var _ adapter.Adapter = (*Adapter)(nil)
