package core

import "strings"

// NamePart is one dot-separated segment of an identifier, recording whether
// the source text was quoted. Quoted parts are exempt from dialect case
// folding.
type NamePart struct {
	Text   string
	Quoted bool
}

// String returns the part text.
func (p NamePart) String() string { return p.Text }

// JoinParts joins name parts with dots, without quoting.
func JoinParts(parts []NamePart) string {
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text
	}
	return strings.Join(texts, ".")
}

// ---------- Table Reference Types ----------

// TableName represents a (possibly qualified) table name reference.
// Parts holds the dotted segments in source order, e.g. catalog.schema.table.
type TableName struct {
	NodeInfo
	Parts []NamePart
	Alias string
}

func (*TableName) tableRefNode() {}

// Raw returns the dotted name without quoting or normalization.
func (t *TableName) Raw() string { return JoinParts(t.Parts) }

// Base returns the last (unqualified) name part, or an empty part.
func (t *TableName) Base() NamePart {
	if len(t.Parts) == 0 {
		return NamePart{}
	}
	return t.Parts[len(t.Parts)-1]
}

// DerivedTable represents a subquery in FROM clause.
type DerivedTable struct {
	NodeInfo
	Select  *SelectStmt
	Lateral bool
	Alias   string
	Columns []NamePart // optional column aliases: (SELECT ...) t (a, b)
}

func (*DerivedTable) tableRefNode() {}

// TableFunc represents a table-valued function call in FROM clause,
// e.g. read_csv('file.csv') or generate_series(1, 10).
type TableFunc struct {
	NodeInfo
	Name    string
	Args    []Expr
	Alias   string
	Columns []NamePart // optional column aliases: generate_series(1, 3) t(n)
}

func (*TableFunc) tableRefNode() {}
