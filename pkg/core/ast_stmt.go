package core

// ---------- Statement Types ----------

// SelectStmt represents a complete SELECT statement with optional WITH clause.
type SelectStmt struct {
	NodeInfo
	With *WithClause
	Body *SelectBody
}

func (*SelectStmt) stmtNode() {}

// WithClause represents a WITH clause with CTEs.
type WithClause struct {
	Recursive bool
	CTEs      []*CTE
}

// CTE represents a Common Table Expression.
type CTE struct {
	NodeInfo
	Name    NamePart
	Columns []NamePart // optional explicit column list: WITH c (a, b) AS (...)
	Select  *SelectStmt
}

// SelectBody represents the body of a SELECT with possible set operations.
type SelectBody struct {
	Left  *SelectCore
	Op    SetOpType   // UNION, INTERSECT, EXCEPT, or empty
	All   bool        // UNION ALL
	Right *SelectBody // For chained set operations
}

// SetOpType represents the type of set operation.
type SetOpType string

// SetOpType constants for set operations in queries.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpUnionAll  SetOpType = "UNION ALL"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectCore represents the core SELECT clause.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	Windows  []WindowDef // Named window definitions (WINDOW clause)
	Qualify  Expr        // DuckDB/Snowflake window function filter
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
	Fetch    *FetchClause // FETCH FIRST/NEXT support (SQL:2008)
}

// FetchClause represents FETCH FIRST/NEXT n ROWS ONLY/WITH TIES (SQL:2008).
type FetchClause struct {
	First    bool // true = FIRST, false = NEXT (semantically identical)
	Count    Expr // Number of rows (nil = 1 row implied)
	Percent  bool // FETCH FIRST n PERCENT ROWS
	WithTies bool // true = WITH TIES, false = ONLY
}

// WindowDef represents a named window definition in the WINDOW clause.
// Example: WINDOW w AS (PARTITION BY x ORDER BY y)
type WindowDef struct {
	Name string
	Spec *WindowSpec
}

// SelectItem represents an item in the SELECT list.
type SelectItem struct {
	Star      bool     // SELECT *
	TableStar NamePart // SELECT t.*
	Expr      Expr     // Expression
	Alias     string   // AS alias
}

// FromClause represents the FROM clause.
type FromClause struct {
	Source TableRef
	Joins  []*Join
}

// Join represents a JOIN clause.
type Join struct {
	Type      JoinType
	Natural   bool // NATURAL JOIN modifier
	Right     TableRef
	Condition Expr       // ON clause (mutually exclusive with Using)
	Using     []NamePart // USING (col1, col2) columns
}

// JoinType represents the type of join.
// The value is the SQL keyword (e.g., "LEFT", "INNER").
type JoinType string

// JoinType constants for supported join kinds.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
	// JoinComma represents an implicit cross join using comma syntax.
	JoinComma JoinType = ","
)

// OrderByItem represents an item in ORDER BY clause.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil means default, true = NULLS FIRST, false = NULLS LAST
}

// ---------- DDL Statement Types ----------

// CreateTableStmt represents CREATE TABLE, including CREATE TABLE AS SELECT
// when Query is non-nil.
type CreateTableStmt struct {
	NodeInfo
	Name        *TableName
	Temporary   bool
	OrReplace   bool
	IfNotExists bool
	Columns     []*ColumnDef
	Constraints []*TableConstraint
	Query       *SelectStmt // CREATE TABLE ... AS SELECT
}

func (*CreateTableStmt) stmtNode() {}

// ColumnDef represents one column definition in CREATE TABLE.
type ColumnDef struct {
	Name       NamePart
	Type       string // raw type text, e.g. "VARCHAR(100)"
	NotNull    bool
	PrimaryKey bool
	Unique     bool
	Default    Expr
	Check      Expr
	References *ForeignKeyRef // inline REFERENCES clause
}

// ForeignKeyRef represents the target of a foreign key reference.
type ForeignKeyRef struct {
	Table   *TableName
	Columns []NamePart // referenced columns, may be empty (implies PK)
}

// TableConstraint represents a table-level constraint in CREATE TABLE.
type TableConstraint struct {
	Name       string // CONSTRAINT <name>, empty if anonymous
	Kind       ConstraintKind
	Columns    []NamePart // constrained columns (PK, FK, UNIQUE)
	RefTable   *TableName // FOREIGN KEY ... REFERENCES target
	RefColumns []NamePart
	Check      Expr // CHECK constraint expression
}

// ConstraintKind classifies a table-level constraint.
type ConstraintKind string

// ConstraintKind values for the supported constraint forms.
const (
	ConstraintPrimaryKey ConstraintKind = "PRIMARY KEY"
	ConstraintForeignKey ConstraintKind = "FOREIGN KEY"
	ConstraintUnique     ConstraintKind = "UNIQUE"
	ConstraintCheck      ConstraintKind = "CHECK"
)

// CreateViewStmt represents CREATE VIEW.
type CreateViewStmt struct {
	NodeInfo
	Name        *TableName
	Temporary   bool
	OrReplace   bool
	IfNotExists bool
	Columns     []NamePart // optional explicit column list
	Query       *SelectStmt
}

func (*CreateViewStmt) stmtNode() {}

// ---------- DML Statement Types ----------

// InsertStmt represents INSERT INTO.
type InsertStmt struct {
	NodeInfo
	Table   *TableName
	Columns []NamePart
	Query   *SelectStmt // INSERT INTO ... SELECT
	Values  [][]Expr    // INSERT INTO ... VALUES (...), (...)
}

func (*InsertStmt) stmtNode() {}

// UpdateStmt represents UPDATE.
type UpdateStmt struct {
	NodeInfo
	Table *TableName
	Set   []Assignment
	From  *FromClause // UPDATE ... FROM (Postgres/DuckDB extension)
	Where Expr
}

func (*UpdateStmt) stmtNode() {}

// Assignment represents one SET column = expr pair.
type Assignment struct {
	Column NamePart
	Value  Expr
}

// DeleteStmt represents DELETE FROM.
type DeleteStmt struct {
	NodeInfo
	Table *TableName
	Using *FromClause // DELETE ... USING (Postgres/DuckDB extension)
	Where Expr
}

func (*DeleteStmt) stmtNode() {}

// RawStmt represents a statement the parser recognizes but does not model
// (DROP, ALTER, GRANT, ...). Keyword is the normalized leading keyword.
type RawStmt struct {
	NodeInfo
	Keyword string
	Raw     string
}

func (*RawStmt) stmtNode() {}
