// Package duckdb defines the DuckDB dialect. The function and type lists
// live in metadata.go, regenerated from a live catalog by
// scripts/gendialect. The database driver is in pkg/adapters/duckdb, so
// importing this package pulls in no cgo.
package duckdb

import "github.com/sqlweave-labs/sqlweave/pkg/core"

// Config describes DuckDB for the parser and the lineage analyzer.
var Config = &core.DialectConfig{
	Name:           "duckdb",
	DefaultCatalog: "memory",
	DefaultSchema:  "main",
	Placeholder:    core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},

	Aggregates:     duckDBAggregates,
	Generators:     duckDBGenerators,
	Windows:        duckDBWindows,
	TableFunctions: duckDBTableFunctions,
	DataTypes:      duckDBTypes,
}
