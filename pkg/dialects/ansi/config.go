// Package ansi defines a plain ANSI SQL dialect for inputs that target no
// particular database. Standard functions and types only; no catalog or
// schema defaults.
package ansi

import "github.com/sqlweave-labs/sqlweave/pkg/core"

// Config describes standard SQL for the parser and the lineage analyzer.
var Config = &core.DialectConfig{
	Name:        "ansi",
	Placeholder: core.PlaceholderQuestion,
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
		"EVERY", "ANY_VALUE",
	},
	Generators: []string{
		"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME",
		"LOCALTIME", "LOCALTIMESTAMP",
		"CURRENT_USER", "SESSION_USER", "SYSTEM_USER",
	},
	Windows: []string{
		"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE",
		"PERCENT_RANK", "CUME_DIST",
		"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE",
	},
	DataTypes: []string{
		"SMALLINT", "INTEGER", "BIGINT", "DECIMAL", "NUMERIC",
		"REAL", "DOUBLE PRECISION", "FLOAT",
		"CHAR", "VARCHAR", "CLOB",
		"DATE", "TIME", "TIMESTAMP", "INTERVAL",
		"BOOLEAN", "BLOB",
	},
}
