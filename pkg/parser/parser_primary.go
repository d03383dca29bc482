package parser

import (
	"fmt"
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Primary expression parsing: literals, column refs, function calls, CASE,
// CAST, EXISTS, subqueries, window specifications.

// parsePrimary parses a primary expression.
func (p *Parser) parsePrimary() core.Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &core.Literal{Type: core.LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &core.Literal{Type: core.LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &core.Literal{Type: core.LiteralBool, Value: "true"}

	case token.FALSE:
		p.nextToken()
		return &core.Literal{Type: core.LiteralBool, Value: "false"}

	case token.NULL:
		p.nextToken()
		return &core.Literal{Type: core.LiteralNull, Value: "NULL"}

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.EXISTS:
		return p.parseExistsExpr(false)

	case token.LPAREN:
		return p.parseParenExpr()

	case token.STAR:
		p.nextToken()
		return &core.StarExpr{}

	default:
		if p.isNameToken() {
			return p.parseIdentifierExpr()
		}
		// Keywords used as function names: LEFT(x, 2), REPLACE(a, b, c)
		if token.IsKeyword(p.token.Type) && p.checkPeek(token.LPAREN) {
			return p.parseIdentifierExpr()
		}
		p.addError(fmt.Sprintf("unexpected token in expression: %s (%q)", p.token.Type, p.token.Literal))
		// Skip the offending token, but never cross a statement boundary:
		// ParseScript resynchronizes on the separator.
		if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
			p.nextToken()
		}
		return nil
	}
}

// parseIdentifierExpr parses an identifier (column ref, function call, or
// typed literal such as DATE '2024-01-01').
func (p *Parser) parseIdentifierExpr() core.Expr {
	first := p.namePart()
	p.nextToken()

	// Function call: name(...)
	if p.check(token.LPAREN) {
		return p.parseFuncCall(first.Text)
	}

	// Typed literals: DATE '...', TIMESTAMP '...', INTERVAL '...' / INTERVAL 7 DAY
	if !first.Quoted {
		switch strings.ToLower(first.Text) {
		case "date", "time", "timestamp", "interval":
			if p.check(token.STRING) {
				lit := &core.Literal{Type: core.LiteralString, Value: p.token.Literal}
				p.nextToken()
				return lit
			}
			if strings.EqualFold(first.Text, "interval") && p.check(token.NUMBER) {
				lit := &core.Literal{Type: core.LiteralString, Value: p.token.Literal}
				p.nextToken()
				p.match(token.IDENT) // unit: DAY, MONTH, ...
				return lit
			}
		}
	}

	// Qualified name: table.column, schema.table.column, or table.*
	if p.check(token.DOT) {
		return p.parseQualifiedRef(first)
	}

	return &core.ColumnRef{Column: first}
}

// parseQualifiedRef parses the dotted tail of a qualified reference.
func (p *Parser) parseQualifiedRef(first core.NamePart) core.Expr {
	parts := []core.NamePart{first}

	for p.match(token.DOT) {
		if p.check(token.STAR) {
			p.nextToken()
			return &core.StarExpr{Table: parts[len(parts)-1]}
		}
		part, ok := p.parseNamePart()
		if !ok {
			break
		}
		parts = append(parts, part)
	}

	// Function call on qualified name: schema.func(...)
	if p.check(token.LPAREN) {
		return p.parseFuncCall(parts[len(parts)-1].Text)
	}

	return &core.ColumnRef{
		Qualifier: parts[:len(parts)-1],
		Column:    parts[len(parts)-1],
	}
}

// parseFuncCall parses a function call:
//
//	name([DISTINCT] args [ORDER BY ...]) [WITHIN GROUP (...)] [FILTER (...)] [OVER ...]
func (p *Parser) parseFuncCall(name string) core.Expr {
	fn := &core.FuncCall{Name: name}

	p.expect(token.LPAREN)

	switch {
	case p.check(token.STAR):
		// COUNT(*)
		fn.Star = true
		p.nextToken()
	case p.check(token.RPAREN):
		// no arguments
	default:
		if p.match(token.DISTINCT) {
			fn.Distinct = true
		}
		// TRIM([LEADING|TRAILING|BOTH] chars FROM source)
		if p.checkSoftKeyword("LEADING") || p.checkSoftKeyword("TRAILING") || p.checkSoftKeyword("BOTH") {
			p.nextToken()
		}
		// EXTRACT(part FROM source): the part is a unit, not a column
		if strings.EqualFold(name, "extract") && p.check(token.IDENT) && p.checkPeek(token.FROM) {
			fn.Args = append(fn.Args, &core.Literal{Type: core.LiteralString, Value: p.token.Literal})
			p.nextToken()
			p.nextToken() // consume FROM
		}

		for {
			arg := p.parseExpression()
			if arg != nil {
				fn.Args = append(fn.Args, arg)
			}
			// Argument separators: comma, plus FROM/FOR for the
			// SUBSTRING(x FROM 1 FOR 2) family.
			if p.match(token.COMMA) || p.match(token.FROM) || p.matchSoftKeyword("FOR") {
				continue
			}
			break
		}

		// ORDER BY within aggregate: array_agg(x ORDER BY y)
		if p.check(token.ORDER) {
			p.nextToken()
			p.expect(token.BY)
			fn.OrderBy = p.parseOrderByList()
		}
	}

	p.expect(token.RPAREN)

	// WITHIN GROUP (ORDER BY ...) for ordered-set aggregates
	if p.matchSoftKeyword("WITHIN") {
		p.expect(token.GROUP)
		p.expect(token.LPAREN)
		p.expect(token.ORDER)
		p.expect(token.BY)
		fn.OrderBy = append(fn.OrderBy, p.parseOrderByList()...)
		p.expect(token.RPAREN)
	}

	// FILTER clause
	if p.match(token.FILTER) {
		p.expect(token.LPAREN)
		p.expect(token.WHERE)
		fn.Filter = p.parseExpression()
		p.expect(token.RPAREN)
	}

	// OVER clause (window function)
	if p.match(token.OVER) {
		fn.Window = p.parseWindowSpec()
	}

	return fn
}

// parseWindowSpec parses an OVER clause: a named window or an inline spec.
func (p *Parser) parseWindowSpec() *core.WindowSpec {
	if p.check(token.IDENT) {
		spec := &core.WindowSpec{Name: p.token.Literal}
		p.nextToken()
		return spec
	}

	p.expect(token.LPAREN)
	spec := p.parseWindowSpecBody()
	p.expect(token.RPAREN)
	return spec
}

// parseWindowSpecBody parses the inside of a window specification:
// [base_window] [PARTITION BY ...] [ORDER BY ...] [frame].
func (p *Parser) parseWindowSpecBody() *core.WindowSpec {
	spec := &core.WindowSpec{}

	// Base window name: OVER (w ORDER BY x)
	if p.check(token.IDENT) && !p.checkPeek(token.DOT) && !p.checkPeek(token.LPAREN) {
		spec.Name = p.token.Literal
		p.nextToken()
	}

	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionBy = p.parseExpressionList()
	}

	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		spec.OrderBy = p.parseOrderByList()
	}

	if p.check(token.ROWS) || p.check(token.RANGE) || p.check(token.GROUPS) {
		spec.Frame = p.parseFrameSpec()
	}

	return spec
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() *core.FrameSpec {
	frame := &core.FrameSpec{}

	switch {
	case p.match(token.ROWS):
		frame.Type = core.FrameRows
	case p.match(token.RANGE):
		frame.Type = core.FrameRange
	case p.match(token.GROUPS):
		frame.Type = core.FrameGroups
	}

	if p.match(token.BETWEEN) {
		frame.Start = p.parseFrameBound()
		p.expect(token.AND)
		frame.End = p.parseFrameBound()
	} else {
		frame.Start = p.parseFrameBound()
	}

	return frame
}

// parseFrameBound parses a single window frame bound.
func (p *Parser) parseFrameBound() *core.FrameBound {
	bound := &core.FrameBound{}

	switch {
	case p.match(token.UNBOUNDED):
		if p.match(token.PRECEDING) {
			bound.Type = core.FrameUnboundedPreceding
		} else if p.match(token.FOLLOWING) {
			bound.Type = core.FrameUnboundedFollowing
		}
	case p.match(token.CURRENT):
		p.expect(token.ROW)
		bound.Type = core.FrameCurrentRow
	default:
		bound.Offset = p.parseExpression()
		if p.match(token.PRECEDING) {
			bound.Type = core.FrameExprPreceding
		} else if p.match(token.FOLLOWING) {
			bound.Type = core.FrameExprFollowing
		}
	}

	return bound
}

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() core.Expr {
	p.expect(token.CASE)
	caseExpr := &core.CaseExpr{}

	if !p.check(token.WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for p.match(token.WHEN) {
		when := core.WhenClause{}
		when.Condition = p.parseExpression()
		p.expect(token.THEN)
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}

	if p.match(token.ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(token.END)
	return caseExpr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() core.Expr {
	p.expect(token.CAST)
	p.expect(token.LPAREN)

	cast := &core.CastExpr{}
	cast.Expr = p.parseExpression()
	p.expect(token.AS)
	cast.TypeName = p.parseTypeName()

	p.expect(token.RPAREN)
	return cast
}

// parseExistsExpr parses [NOT] EXISTS (subquery).
func (p *Parser) parseExistsExpr(not bool) core.Expr {
	p.nextToken() // consume EXISTS
	p.expect(token.LPAREN)
	exists := &core.ExistsExpr{Not: not, Select: p.parseSelectStatement()}
	p.expect(token.RPAREN)
	return exists
}

// parseParenExpr parses a parenthesized expression, subquery, or row value.
func (p *Parser) parseParenExpr() core.Expr {
	p.expect(token.LPAREN)

	if p.check(token.SELECT) || p.check(token.WITH) {
		subquery := &core.SubqueryExpr{Select: p.parseSelectStatement()}
		p.expect(token.RPAREN)
		return subquery
	}

	expr := p.parseExpression()

	// Row value: (a, b) IN (...)
	for p.match(token.COMMA) {
		right := p.parseExpression()
		expr = &core.BinaryExpr{Left: expr, Op: token.COMMA, Right: right}
	}

	p.expect(token.RPAREN)
	return &core.ParenExpr{Expr: expr}
}

// parseTypeName parses a type name with optional parameters, e.g.
// VARCHAR(100), DECIMAL(10, 2), TIMESTAMP WITH TIME ZONE, INTEGER[].
func (p *Parser) parseTypeName() string {
	var typeName string
	if p.check(token.IDENT) {
		typeName = strings.ToUpper(p.token.Literal)
		p.nextToken()
	} else {
		p.addError("expected type name")
		return ""
	}

	// Compound type names: DOUBLE PRECISION, CHARACTER VARYING,
	// TIMESTAMP WITH/WITHOUT TIME ZONE
	for {
		if p.check(token.WITH) {
			typeName += " WITH"
			p.nextToken()
			continue
		}
		if !p.check(token.IDENT) {
			break
		}
		upper := strings.ToUpper(p.token.Literal)
		if upper == "PRECISION" || upper == "VARYING" || upper == "ZONE" ||
			upper == "WITHOUT" || upper == "TIME" {
			typeName += " " + upper
			p.nextToken()
			continue
		}
		break
	}

	// Type parameters: VARCHAR(255), DECIMAL(10, 2)
	if p.match(token.LPAREN) {
		typeName += "("
		depth := 1
		for depth > 0 && !p.check(token.EOF) {
			switch p.token.Type {
			case token.LPAREN:
				depth++
			case token.RPAREN:
				depth--
				if depth == 0 {
					p.nextToken()
					typeName += ")"
					return p.parseTypeNameSuffix(typeName)
				}
			}
			typeName += p.token.Literal
			p.nextToken()
		}
		typeName += ")"
	}

	return p.parseTypeNameSuffix(typeName)
}

// parseTypeNameSuffix handles the array suffix: INTEGER[].
func (p *Parser) parseTypeNameSuffix(typeName string) string {
	if p.check(token.LBRACKET) && p.checkPeek(token.RBRACKET) {
		typeName += "[]"
		p.nextToken()
		p.nextToken()
	}
	return typeName
}
