// Package postgres defines the PostgreSQL dialect. Dialect data only; the
// pgx driver lives in pkg/adapters/postgres.
package postgres

import "github.com/sqlweave-labs/sqlweave/pkg/core"

// Config describes PostgreSQL for the parser and the lineage analyzer.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase,
	},

	Aggregates: []string{
		"SUM", "COUNT", "AVG", "MIN", "MAX",
		"STDDEV", "STDDEV_POP", "STDDEV_SAMP",
		"VARIANCE", "VAR_POP", "VAR_SAMP",
		"ARRAY_AGG", "STRING_AGG",
		"JSONB_AGG", "JSONB_OBJECT_AGG", "JSON_AGG", "JSON_OBJECT_AGG",
		"BOOL_AND", "BOOL_OR", "EVERY",
		"BIT_AND", "BIT_OR", "BIT_XOR",
		"CORR", "COVAR_POP", "COVAR_SAMP",
		"PERCENTILE_CONT", "PERCENTILE_DISC",
		"MODE",
	},
	// The three *_TIMESTAMP variants differ only in when they sample the
	// clock, so all of them are generators for lineage purposes.
	Generators: []string{
		"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME",
		"NOW", "LOCALTIME", "LOCALTIMESTAMP",
		"STATEMENT_TIMESTAMP", "TRANSACTION_TIMESTAMP", "CLOCK_TIMESTAMP",
		"GEN_RANDOM_UUID", "RANDOM", "SETSEED", "PI",
		"CURRENT_SCHEMA", "CURRENT_DATABASE", "CURRENT_CATALOG",
		"CURRENT_USER", "CURRENT_ROLE", "SESSION_USER", "USER", "VERSION",
	},
	Windows: []string{
		"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE",
		"PERCENT_RANK", "CUME_DIST",
		"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE",
	},
	TableFunctions: []string{
		"GENERATE_SERIES", "GENERATE_SUBSCRIPTS",
		"UNNEST", "JSONB_ARRAY_ELEMENTS", "JSON_ARRAY_ELEMENTS",
		"JSONB_EACH", "JSON_EACH", "REGEXP_SPLIT_TO_TABLE",
	},
	DataTypes: []string{
		"SMALLINT", "INTEGER", "BIGINT", "DECIMAL", "NUMERIC", "REAL",
		"DOUBLE PRECISION", "SMALLSERIAL", "SERIAL", "BIGSERIAL", "MONEY",
		"CHAR", "VARCHAR", "TEXT", "BYTEA",
		"TIMESTAMP", "TIMESTAMPTZ", "DATE", "TIME", "TIMETZ", "INTERVAL",
		"BOOLEAN", "UUID", "JSON", "JSONB", "XML", "INET", "CIDR",
	},
}
