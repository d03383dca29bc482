// Package databricks defines the Databricks SQL dialect. Identifiers quote
// with backticks and compare case-blind, following Spark SQL.
package databricks

import "github.com/sqlweave-labs/sqlweave/pkg/core"

// Config describes Databricks SQL for the parser and the lineage analyzer.
var Config = &core.DialectConfig{
	Name:          "databricks",
	DefaultSchema: "default",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseInsensitive,
	},

	Aggregates: []string{
		"SUM", "COUNT", "AVG", "MIN", "MAX", "MEAN",
		"STDDEV", "STDDEV_POP", "STDDEV_SAMP",
		"VARIANCE", "VAR_POP", "VAR_SAMP",
		"COLLECT_LIST", "COLLECT_SET", "ARRAY_AGG",
		"APPROX_COUNT_DISTINCT", "APPROX_PERCENTILE",
		"BOOL_AND", "BOOL_OR", "EVERY", "SOME",
		"BIT_AND", "BIT_OR", "BIT_XOR",
		"CORR", "COVAR_POP", "COVAR_SAMP",
		"PERCENTILE", "PERCENTILE_APPROX", "PERCENTILE_CONT", "PERCENTILE_DISC",
		"FIRST", "FIRST_VALUE", "LAST", "KURTOSIS", "SKEWNESS",
		"ANY_VALUE", "COUNT_IF", "MIN_BY", "MAX_BY", "MODE", "MEDIAN",
	},
	Generators: []string{
		"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIMEZONE",
		"NOW", "RANDOM", "RAND", "RANDN", "UUID",
		"CURRENT_CATALOG", "CURRENT_DATABASE", "CURRENT_SCHEMA",
		"CURRENT_USER", "CURRENT_VERSION", "SESSION_USER", "USER",
		"INPUT_FILE_NAME", "MONOTONICALLY_INCREASING_ID", "PI", "E",
	},
	Windows: []string{
		"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE",
		"PERCENT_RANK", "CUME_DIST",
		"LAG", "LEAD", "NTH_VALUE",
	},
	TableFunctions: []string{
		"EXPLODE", "EXPLODE_OUTER", "POSEXPLODE", "POSEXPLODE_OUTER",
		"INLINE", "INLINE_OUTER", "STACK", "JSON_TUPLE", "RANGE",
	},
	DataTypes: []string{
		"TINYINT", "SMALLINT", "INT", "INTEGER", "BIGINT",
		"FLOAT", "REAL", "DOUBLE", "DECIMAL", "DEC", "NUMERIC",
		"STRING", "VARCHAR", "CHAR", "BINARY", "BOOLEAN",
		"DATE", "TIMESTAMP", "TIMESTAMP_NTZ", "INTERVAL",
		"ARRAY", "MAP", "STRUCT", "VARIANT",
	},
}
