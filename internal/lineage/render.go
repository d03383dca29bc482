package lineage

import (
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// exprText renders an expression as compact single-line SQL for display on
// nodes and edges. Subqueries are elided: lineage flowing out of them is
// captured as graph structure, not as text.
func exprText(e core.Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e core.Expr) {
	if e == nil {
		return
	}

	switch ex := e.(type) {
	case *core.ColumnRef:
		for _, q := range ex.Qualifier {
			b.WriteString(q.Text)
			b.WriteByte('.')
		}
		b.WriteString(ex.Column.Text)

	case *core.Literal:
		writeLiteral(b, ex)

	case *core.BinaryExpr:
		writeExpr(b, ex.Left)
		b.WriteByte(' ')
		b.WriteString(operatorText(ex.Op))
		b.WriteByte(' ')
		writeExpr(b, ex.Right)

	case *core.UnaryExpr:
		b.WriteString(operatorText(ex.Op))
		if ex.Op == token.NOT {
			b.WriteByte(' ')
		}
		writeExpr(b, ex.Expr)

	case *core.FuncCall:
		writeFuncCall(b, ex)

	case *core.CaseExpr:
		writeCaseExpr(b, ex)

	case *core.CastExpr:
		b.WriteString("CAST(")
		writeExpr(b, ex.Expr)
		b.WriteString(" AS ")
		b.WriteString(ex.TypeName)
		b.WriteByte(')')

	case *core.InExpr:
		writeExpr(b, ex.Expr)
		if ex.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" IN (")
		if ex.Query != nil {
			b.WriteString("SELECT ...")
		} else {
			for i, v := range ex.Values {
				if i > 0 {
					b.WriteString(", ")
				}
				writeExpr(b, v)
			}
		}
		b.WriteByte(')')

	case *core.BetweenExpr:
		writeExpr(b, ex.Expr)
		if ex.Not {
			b.WriteString(" NOT")
		}
		b.WriteString(" BETWEEN ")
		writeExpr(b, ex.Low)
		b.WriteString(" AND ")
		writeExpr(b, ex.High)

	case *core.IsNullExpr:
		writeExpr(b, ex.Expr)
		if ex.Not {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}

	case *core.LikeExpr:
		writeExpr(b, ex.Expr)
		if ex.Not {
			b.WriteString(" NOT")
		}
		if ex.Op == token.ILIKE {
			b.WriteString(" ILIKE ")
		} else {
			b.WriteString(" LIKE ")
		}
		writeExpr(b, ex.Pattern)

	case *core.ParenExpr:
		b.WriteByte('(')
		writeExpr(b, ex.Expr)
		b.WriteByte(')')

	case *core.StarExpr:
		if ex.Table.Text != "" {
			b.WriteString(ex.Table.Text)
			b.WriteByte('.')
		}
		b.WriteByte('*')

	case *core.SubqueryExpr:
		b.WriteString("(SELECT ...)")

	case *core.ExistsExpr:
		if ex.Not {
			b.WriteString("NOT ")
		}
		b.WriteString("EXISTS (SELECT ...)")
	}
}

func writeLiteral(b *strings.Builder, lit *core.Literal) {
	switch lit.Type {
	case core.LiteralString:
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(lit.Value, "'", "''"))
		b.WriteByte('\'')
	case core.LiteralBool:
		b.WriteString(strings.ToUpper(lit.Value))
	case core.LiteralNull:
		b.WriteString("NULL")
	default:
		b.WriteString(lit.Value)
	}
}

func writeFuncCall(b *strings.Builder, fc *core.FuncCall) {
	b.WriteString(fc.Name)
	b.WriteByte('(')
	if fc.Distinct {
		b.WriteString("DISTINCT ")
	}
	if fc.Star {
		b.WriteByte('*')
	}
	for i, arg := range fc.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, arg)
	}
	b.WriteByte(')')
	if fc.Window != nil {
		b.WriteString(" OVER (...)")
	}
}

func writeCaseExpr(b *strings.Builder, ce *core.CaseExpr) {
	b.WriteString("CASE")
	if ce.Operand != nil {
		b.WriteByte(' ')
		writeExpr(b, ce.Operand)
	}
	for _, w := range ce.Whens {
		b.WriteString(" WHEN ")
		writeExpr(b, w.Condition)
		b.WriteString(" THEN ")
		writeExpr(b, w.Result)
	}
	if ce.Else != nil {
		b.WriteString(" ELSE ")
		writeExpr(b, ce.Else)
	}
	b.WriteString(" END")
}

// operatorText maps operator tokens to their SQL text.
func operatorText(op token.TokenType) string {
	switch op {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.DPIPE:
		return "||"
	case token.EQ:
		return "="
	case token.NE:
		return "<>"
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LE:
		return "<="
	case token.GE:
		return ">="
	case token.AND:
		return "AND"
	case token.OR:
		return "OR"
	case token.NOT:
		return "NOT"
	case token.IS:
		return "IS"
	default:
		return op.String()
	}
}

// joinConditionText renders the join predicate: the ON expression, or the
// USING column list.
func joinConditionText(j *core.Join) string {
	if j.Condition != nil {
		return exprText(j.Condition)
	}
	if len(j.Using) > 0 {
		return "USING (" + core.JoinParts(j.Using) + ")"
	}
	return ""
}

// joinKindText renders the join kind, e.g. "LEFT" or "NATURAL INNER".
// Comma joins read as CROSS.
func joinKindText(j *core.Join) string {
	kind := string(j.Type)
	if j.Type == core.JoinComma {
		kind = string(core.JoinCross)
	}
	if j.Natural {
		return "NATURAL " + kind
	}
	return kind
}
