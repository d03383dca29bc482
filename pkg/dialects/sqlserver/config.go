// Package sqlserver defines the Microsoft SQL Server (T-SQL) dialect,
// with bracket-quoted identifiers and the dbo default schema.
package sqlserver

import "github.com/sqlweave-labs/sqlweave/pkg/core"

// Config describes T-SQL for the parser and the lineage analyzer.
var Config = &core.DialectConfig{
	Name:          "sqlserver",
	DefaultSchema: "dbo",
	Placeholder:   core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "[",
		QuoteEnd:      "]",
		Escape:        "]]",
		Normalization: core.NormCaseInsensitive,
	},

	Aggregates: []string{
		"SUM", "COUNT", "COUNT_BIG", "AVG", "MIN", "MAX",
		"STDEV", "STDEVP", "VAR", "VARP",
		"STRING_AGG", "GROUPING", "GROUPING_ID",
		"CHECKSUM_AGG", "APPROX_COUNT_DISTINCT",
	},
	Generators: []string{
		"GETDATE", "GETUTCDATE", "SYSDATETIME", "SYSUTCDATETIME",
		"SYSDATETIMEOFFSET", "CURRENT_TIMESTAMP",
		"NEWID", "NEWSEQUENTIALID", "RAND",
		"CURRENT_USER", "SESSION_USER", "SYSTEM_USER", "USER_NAME",
		"DB_NAME", "SCHEMA_NAME", "HOST_NAME", "APP_NAME",
	},
	Windows: []string{
		"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE",
		"PERCENT_RANK", "CUME_DIST",
		"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE",
	},
	TableFunctions: []string{
		"OPENJSON", "OPENROWSET", "OPENQUERY", "OPENXML",
		"STRING_SPLIT", "GENERATE_SERIES",
	},
	DataTypes: []string{
		"BIGINT", "INT", "SMALLINT", "TINYINT", "BIT",
		"DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY", "FLOAT", "REAL",
		"DATE", "DATETIME", "DATETIME2", "DATETIMEOFFSET", "SMALLDATETIME",
		"TIME", "CHAR", "VARCHAR", "TEXT", "NCHAR", "NVARCHAR", "NTEXT",
		"BINARY", "VARBINARY", "IMAGE", "UNIQUEIDENTIFIER", "XML",
		"SQL_VARIANT", "HIERARCHYID", "GEOMETRY", "GEOGRAPHY",
	},
}
