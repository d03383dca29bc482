package ansi

import "github.com/sqlweave-labs/sqlweave/pkg/dialect"

func init() {
	dialect.Register(ANSI)
}

// reservedWords contains the SQL standard reserved words most likely to
// collide with identifiers.
var reservedWords = []string{
	"all", "and", "any", "as", "asc", "between", "by", "case", "cast",
	"check", "column", "constraint", "create", "cross", "current_date",
	"current_time", "current_timestamp", "current_user", "default",
	"delete", "desc", "distinct", "drop", "else", "end", "except",
	"exists", "fetch", "for", "foreign", "from", "full", "grant", "group",
	"having", "in", "inner", "insert", "intersect", "into", "is", "join",
	"lateral", "left", "like", "natural", "not", "null", "on", "or",
	"order", "outer", "primary", "references", "right", "select", "set",
	"table", "then", "to", "true", "false", "union", "unique", "update",
	"user", "using", "values", "when", "where", "window", "with",
}

// ANSI is the base ANSI SQL dialect. Other dialects are defined relative to
// this baseline: double-quoted identifiers, lowercase folding, ? placeholders.
var ANSI = dialect.New(Config).
	WithReservedWords(reservedWords...).
	Build()
