// Package adapter defines the introspection contract for importing table
// schemas from live databases.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves on import. Import the ones you need with a blank identifier
// and create instances through NewAdapter.
package adapter

import "context"

// Config selects and parameterizes one adapter connection.
type Config struct {
	// Type names the registered adapter (postgres, duckdb, sqlite).
	Type string
	// DSN is the driver connection string. File-backed databases take the
	// database path here; empty means in-memory where the driver supports
	// it.
	DSN string
	// Options carries driver-specific settings.
	Options map[string]string
}

// Column is one introspected table column.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	// Position is the 1-based ordinal position within the table.
	Position int
}

// Adapter introspects a live database so its tables can seed analysis as
// imported schema.
type Adapter interface {
	// Connect establishes the connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// ListTables returns table and view names in a schema, sorted by
	// name. An empty schema selects the adapter's default.
	ListTables(ctx context.Context, schema string) ([]string, error)

	// TableColumns returns the columns of one table in ordinal order.
	TableColumns(ctx context.Context, schema, table string) ([]Column, error)

	// Dialect names the SQL dialect matching this adapter.
	Dialect() string
}
