// Package postgres provides the PostgreSQL introspection adapter.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/pkg/adapter"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// defaultSchema is introspected when the caller names none.
const defaultSchema = "public"

// Adapter implements adapter.Adapter for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a PostgreSQL adapter. If logger is nil, a discard logger is
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
	return "postgres"
}

// Connect establishes a connection to PostgreSQL. The DSN may be a
// postgres:// URL or a key=value string; both pass straight to pgx.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to postgres")
	return a.OpenAndPing(ctx, "pgx", cfg.DSN)
}

// ListTables returns table and view names in the schema.
func (a *Adapter) ListTables(ctx context.Context, schema string) ([]string, error) {
	if schema == "" {
		schema = defaultSchema
	}
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type IN ('BASE TABLE', 'VIEW')
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
		WHERE table_schema = $1 AND table_name = $2
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
