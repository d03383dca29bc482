package core

import "github.com/sqlweave-labs/sqlweave/pkg/token"

// ColumnRef is a possibly-qualified column reference. Qualifier holds the
// dotted prefix (alias, table, or schema.table); resolution decides which.
type ColumnRef struct {
	Qualifier []NamePart
	Column    NamePart
}

func (*ColumnRef) node()     {}
func (*ColumnRef) exprNode() {}

// Literal is a literal value. Value keeps the source text.
type Literal struct {
	Type  LiteralType
	Value string
}

func (*Literal) node()     {}
func (*Literal) exprNode() {}

// LiteralType distinguishes literal kinds.
type LiteralType int

const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// BinaryExpr is a two-operand expression. Op is the operator token.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// UnaryExpr is a prefix operator applied to one operand.
type UnaryExpr struct {
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) node()     {}
func (*UnaryExpr) exprNode() {}

// FuncCall is a function invocation, scalar or aggregate. The dialect
// decides which kind the name is at analysis time.
type FuncCall struct {
	Name     string
	Distinct bool
	Args     []Expr
	Star     bool          // COUNT(*)
	OrderBy  []OrderByItem // ordered-set / within-group ordering
	Window   *WindowSpec   // OVER clause
	Filter   Expr          // FILTER (WHERE ...) clause
}

func (*FuncCall) node()     {}
func (*FuncCall) exprNode() {}

// WindowSpec is the OVER clause of a window function.
type WindowSpec struct {
	Name        string // named window reference
	PartitionBy []Expr
	OrderBy     []OrderByItem
	Frame       *FrameSpec
}

// FrameSpec bounds a window frame.
type FrameSpec struct {
	Type  FrameType
	Start *FrameBound
	End   *FrameBound
}

// FrameType is the frame unit keyword.
type FrameType string

const (
	FrameRows   FrameType = "ROWS"
	FrameRange  FrameType = "RANGE"
	FrameGroups FrameType = "GROUPS"
)

// FrameBound is one end of a window frame.
type FrameBound struct {
	Type   FrameBoundType
	Offset Expr // for N PRECEDING/FOLLOWING
}

// FrameBoundType is the bound keyword form.
type FrameBoundType string

const (
	FrameUnboundedPreceding FrameBoundType = "UNBOUNDED PRECEDING"
	FrameUnboundedFollowing FrameBoundType = "UNBOUNDED FOLLOWING"
	FrameCurrentRow         FrameBoundType = "CURRENT ROW"
	FrameExprPreceding      FrameBoundType = "EXPR PRECEDING"
	FrameExprFollowing      FrameBoundType = "EXPR FOLLOWING"
)

// CaseExpr is a CASE expression, searched or simple.
type CaseExpr struct {
	Operand Expr // simple form: CASE operand WHEN ...
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) node()     {}
func (*CaseExpr) exprNode() {}

// WhenClause is one WHEN/THEN arm of a CaseExpr.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr is CAST(expr AS type) or the :: shorthand.
type CastExpr struct {
	Expr     Expr
	TypeName string
}

func (*CastExpr) node()     {}
func (*CastExpr) exprNode() {}

// InExpr is an IN test against a value list or a subquery. Exactly one
// of Values and Query is set.
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
}

func (*InExpr) node()     {}
func (*InExpr) exprNode() {}

// BetweenExpr is a BETWEEN range test.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) node()     {}
func (*BetweenExpr) exprNode() {}

// IsNullExpr is an IS [NOT] NULL test.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) node()     {}
func (*IsNullExpr) exprNode() {}

// LikeExpr is a LIKE or ILIKE pattern match.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Pattern Expr
	Op      token.TokenType // token.LIKE or token.ILIKE
}

func (*LikeExpr) node()     {}
func (*LikeExpr) exprNode() {}

// ParenExpr preserves explicit grouping parentheses.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) node()     {}
func (*ParenExpr) exprNode() {}

// StarExpr is the * projection, bare or qualified as t.*.
type StarExpr struct {
	Table NamePart // zero value for bare *
}

func (*StarExpr) node()     {}
func (*StarExpr) exprNode() {}

// SubqueryExpr is a parenthesized SELECT used as a scalar value.
type SubqueryExpr struct {
	Select *SelectStmt
}

func (*SubqueryExpr) node()     {}
func (*SubqueryExpr) exprNode() {}

// ExistsExpr is an [NOT] EXISTS test over a subquery.
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

func (*ExistsExpr) node()     {}
func (*ExistsExpr) exprNode() {}
