// Package snowflake defines the Snowflake dialect. The one uppercase-folding
// dialect in the tree, so canonical names here read LIKE_THIS.
package snowflake

import "github.com/sqlweave-labs/sqlweave/pkg/core"

// Config describes Snowflake for the parser and the lineage analyzer.
var Config = &core.DialectConfig{
	Name:          "snowflake",
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},

	Aggregates: []string{
		"SUM", "COUNT", "AVG", "MIN", "MAX", "MEDIAN", "MODE",
		"STDDEV", "STDDEV_POP", "STDDEV_SAMP",
		"VARIANCE", "VARIANCE_POP", "VARIANCE_SAMP",
		"ARRAY_AGG", "LISTAGG", "OBJECT_AGG",
		"BOOLAND_AGG", "BOOLOR_AGG", "BOOLXOR_AGG",
		"BITAND_AGG", "BITOR_AGG", "BITXOR_AGG",
		"APPROX_COUNT_DISTINCT", "HLL", "APPROX_PERCENTILE",
		"CORR", "COVAR_POP", "COVAR_SAMP",
		"PERCENTILE_CONT", "PERCENTILE_DISC",
		"ANY_VALUE", "COUNT_IF", "MIN_BY", "MAX_BY",
	},
	Generators: []string{
		"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME",
		"SYSDATE", "GETDATE", "LOCALTIME", "LOCALTIMESTAMP",
		"RANDOM", "RANDSTR", "UUID_STRING", "SEQ1", "SEQ2", "SEQ4", "SEQ8",
		"CURRENT_ACCOUNT", "CURRENT_DATABASE", "CURRENT_REGION",
		"CURRENT_ROLE", "CURRENT_SCHEMA", "CURRENT_SESSION",
		"CURRENT_USER", "CURRENT_VERSION", "CURRENT_WAREHOUSE",
	},
	Windows: []string{
		"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE",
		"PERCENT_RANK", "CUME_DIST",
		"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE",
		"RATIO_TO_REPORT", "CONDITIONAL_CHANGE_EVENT", "CONDITIONAL_TRUE_EVENT",
	},
	TableFunctions: []string{
		"FLATTEN", "GENERATOR", "SPLIT_TO_TABLE", "STRTOK_SPLIT_TO_TABLE",
		"RESULT_SCAN", "VALIDATE",
	},
	DataTypes: []string{
		"NUMBER", "DECIMAL", "NUMERIC", "INT", "INTEGER", "BIGINT",
		"SMALLINT", "TINYINT", "BYTEINT", "FLOAT", "FLOAT4", "FLOAT8",
		"DOUBLE", "DOUBLE PRECISION", "REAL",
		"VARCHAR", "CHAR", "CHARACTER", "STRING", "TEXT",
		"BINARY", "VARBINARY", "BOOLEAN",
		"DATE", "DATETIME", "TIME", "TIMESTAMP",
		"TIMESTAMP_LTZ", "TIMESTAMP_NTZ", "TIMESTAMP_TZ",
		"VARIANT", "OBJECT", "ARRAY", "GEOGRAPHY", "GEOMETRY",
	},
}
