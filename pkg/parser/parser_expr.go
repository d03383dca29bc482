package parser

import (
	"fmt"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Expression parsing using precedence climbing (Pratt parsing).

// Operator precedence levels, lowest binds loosest.
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precComparison // =, <>, <, >, <=, >=, LIKE, ILIKE, IN, BETWEEN, IS
	precAddition   // +, -, ||
	precMultiply   // *, /, %
	precUnary      // -, +, NOT (prefix)
	precPostfix    // ::, []
)

// parseExpression parses an expression.
func (p *Parser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

// parseExpressionWithPrecedence implements precedence climbing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.getInfixPrecedence()
		if prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses prefix expressions (unary operators and primaries).
func (p *Parser) parsePrefixExpr() core.Expr {
	switch p.token.Type {
	case token.NOT:
		if p.checkPeek(token.EXISTS) {
			p.nextToken()
			return p.parseExistsExpr(true)
		}
		p.nextToken()
		return &core.UnaryExpr{Op: token.NOT, Expr: p.parseExpressionWithPrecedence(precNot)}

	case token.MINUS:
		p.nextToken()
		return &core.UnaryExpr{Op: token.MINUS, Expr: p.parseExpressionWithPrecedence(precUnary)}

	case token.PLUS:
		p.nextToken()
		return &core.UnaryExpr{Op: token.PLUS, Expr: p.parseExpressionWithPrecedence(precUnary)}

	default:
		return p.parsePrimary()
	}
}

// getInfixPrecedence returns the precedence of the current token as an
// infix operator, or precNone if it is not one.
func (p *Parser) getInfixPrecedence() int {
	switch p.token.Type {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return precComparison
	case token.IS, token.IN, token.BETWEEN, token.LIKE, token.ILIKE, token.NOT:
		return precComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiply
	case token.DCOLON, token.LBRACKET:
		return precPostfix
	default:
		return precNone
	}
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	switch p.token.Type {
	case token.NOT:
		return p.parseNotInfixExpr(left)
	case token.IS:
		return p.parseIsExpr(left)
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false, token.LIKE)
	case token.ILIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false, token.ILIKE)
	case token.DCOLON:
		p.nextToken()
		return &core.CastExpr{Expr: left, TypeName: p.parseTypeName()}
	case token.LBRACKET:
		return p.parseSubscript(left)
	default:
		op := p.token.Type
		p.nextToken()
		right := p.parseExpressionWithPrecedence(prec + 1)
		return &core.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

// parseNotInfixExpr handles NOT as an infix modifier (NOT IN, NOT BETWEEN,
// NOT LIKE, NOT ILIKE).
func (p *Parser) parseNotInfixExpr(left core.Expr) core.Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, true)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, true, token.LIKE)
	case token.ILIKE:
		p.nextToken()
		return p.parseLikeExpr(left, true, token.ILIKE)
	default:
		p.addError("expected IN, BETWEEN, LIKE, or ILIKE after NOT")
		return left
	}
}

// parseIsExpr parses IS [NOT] NULL / TRUE / FALSE / DISTINCT FROM.
func (p *Parser) parseIsExpr(left core.Expr) core.Expr {
	p.nextToken() // consume IS
	isNot := p.match(token.NOT)

	switch p.token.Type {
	case token.NULL:
		p.nextToken()
		return &core.IsNullExpr{Expr: left, Not: isNot}
	case token.TRUE, token.FALSE:
		// IS TRUE / IS FALSE reduce to an equality for lineage purposes
		lit := &core.Literal{Type: core.LiteralBool, Value: p.token.Literal}
		p.nextToken()
		op := token.EQ
		if isNot {
			op = token.NE
		}
		return &core.BinaryExpr{Left: left, Op: op, Right: lit}
	case token.DISTINCT:
		p.nextToken()
		p.expect(token.FROM)
		right := p.parseExpressionWithPrecedence(precComparison + 1)
		op := token.NE
		if isNot {
			op = token.EQ
		}
		return &core.BinaryExpr{Left: left, Op: op, Right: right}
	default:
		p.addError("expected NULL, TRUE, FALSE, or DISTINCT after IS")
		return left
	}
}

// parseInExpr parses IN (values) or IN (subquery).
func (p *Parser) parseInExpr(left core.Expr, not bool) core.Expr {
	in := &core.InExpr{Expr: left, Not: not}

	if p.check(token.LPAREN) {
		p.nextToken()
		if p.check(token.SELECT) || p.check(token.WITH) {
			in.Query = p.parseSelectStatement()
		} else {
			in.Values = p.parseExpressionList()
		}
		p.expect(token.RPAREN)
	} else {
		in.Values = []core.Expr{p.parsePrimary()}
	}

	return in
}

// parseBetweenExpr parses BETWEEN low AND high.
func (p *Parser) parseBetweenExpr(left core.Expr, not bool) core.Expr {
	between := &core.BetweenExpr{Expr: left, Not: not}
	between.Low = p.parseExpressionWithPrecedence(precAddition)
	p.expect(token.AND)
	between.High = p.parseExpressionWithPrecedence(precAddition)
	return between
}

// parseLikeExpr parses LIKE/ILIKE pattern [ESCAPE char].
func (p *Parser) parseLikeExpr(left core.Expr, not bool, op token.TokenType) core.Expr {
	like := &core.LikeExpr{Expr: left, Not: not, Op: op}
	like.Pattern = p.parseExpressionWithPrecedence(precAddition)
	if p.matchSoftKeyword("ESCAPE") {
		p.parseExpressionWithPrecedence(precAddition)
	}
	return like
}

// parseSubscript consumes an array subscript, keeping the base expression.
// Subscript contents do not contribute lineage.
func (p *Parser) parseSubscript(left core.Expr) core.Expr {
	p.nextToken() // consume [
	depth := 1
	for depth > 0 && !p.check(token.EOF) {
		switch p.token.Type {
		case token.LBRACKET:
			depth++
		case token.RBRACKET:
			depth--
		case token.SEMICOLON:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.RBRACKET))
			return left
		}
		p.nextToken()
	}
	return left
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []core.Expr {
	var exprs []core.Expr
	for {
		expr := p.parseExpression()
		if expr != nil {
			exprs = append(exprs, expr)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}
