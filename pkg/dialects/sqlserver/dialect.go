package sqlserver

import "github.com/sqlweave-labs/sqlweave/pkg/dialect"

func init() {
	dialect.Register(SQLServer)
}

// reservedWords contains T-SQL reserved words that need bracket
// quoting when used as identifiers.
var reservedWords = []string{
	"add", "all", "alter", "and", "any", "as", "asc", "authorization",
	"backup", "begin", "between", "break", "browse", "bulk", "by",
	"cascade", "case", "check", "checkpoint", "close", "clustered",
	"coalesce", "collate", "column", "commit", "compute", "constraint",
	"contains", "continue", "convert", "create", "cross", "current",
	"current_date", "current_time", "current_timestamp", "current_user",
	"cursor", "database", "dbcc", "deallocate", "declare", "default",
	"delete", "deny", "desc", "disk", "distinct", "distributed", "double",
	"drop", "dump", "else", "end", "errlvl", "escape", "except", "exec",
	"execute", "exists", "exit", "external", "fetch", "file", "fillfactor",
	"for", "foreign", "freetext", "from", "full", "function", "goto",
	"grant", "group", "having", "holdlock", "identity", "if", "in",
	"index", "inner", "insert", "intersect", "into", "is", "join", "key",
	"kill", "left", "like", "lineno", "load", "merge", "national",
	"nocheck", "nonclustered", "not", "null", "nullif", "of", "off",
	"offsets", "on", "open", "option", "or", "order", "outer", "over",
	"percent", "pivot", "plan", "precision", "primary", "print", "proc",
	"procedure", "public", "raiserror", "read", "readtext", "reconfigure",
	"references", "replication", "restore", "restrict", "return", "revert",
	"revoke", "right", "rollback", "rowcount", "rowguidcol", "rule",
	"save", "schema", "select", "session_user", "set", "setuser",
	"shutdown", "some", "statistics", "system_user", "table", "tablesample",
	"textsize", "then", "to", "top", "tran", "transaction", "trigger",
	"truncate", "union", "unique", "unpivot", "update", "updatetext",
	"use", "user", "values", "varying", "view", "waitfor", "when", "where",
	"while", "with", "writetext",
}

// SQLServer is the Microsoft SQL Server (T-SQL) dialect.
var SQLServer = dialect.New(Config).
	WithReservedWords(reservedWords...).
	Build()
