package databricks

import "github.com/sqlweave-labs/sqlweave/pkg/dialect"

func init() {
	dialect.Register(Databricks)
}

// reservedWords contains Databricks SQL reserved words.
var reservedWords = []string{
	"all", "alter", "and", "any", "array", "as", "authorization",
	"between", "both", "by", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_date", "current_time",
	"current_timestamp", "current_user", "delete", "describe", "distinct",
	"drop", "else", "end", "escape", "except", "exists", "external",
	"extract", "false", "fetch", "filter", "for", "foreign", "from",
	"full", "function", "global", "grant", "group", "having", "in",
	"inner", "insert", "intersect", "interval", "into", "is", "join",
	"lateral", "leading", "left", "like", "local", "natural", "not",
	"null", "of", "on", "only", "or", "order", "out", "outer", "overlaps",
	"partition", "position", "primary", "range", "references", "revoke",
	"right", "row", "rows", "select", "session_user", "set", "some",
	"table", "then", "time", "to", "trailing", "true", "union", "unique",
	"unknown", "update", "user", "using", "values", "when", "where",
	"window", "with",
}

// Databricks is the Databricks SQL dialect (Spark SQL lineage, backtick
// quoting).
var Databricks = dialect.New(Config).
	WithReservedWords(reservedWords...).
	Build()
