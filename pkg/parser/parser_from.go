package parser

import (
	"fmt"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// FROM clause parsing: table references, derived tables, table functions,
// and JOINs.

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *core.FromClause {
	from := &core.FromClause{}
	from.Source = p.parseTableRef()

	for {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	return from
}

// parseTableRef parses a single table reference in FROM.
func (p *Parser) parseTableRef() core.TableRef {
	lateral := p.match(token.LATERAL)

	// Derived table (subquery)
	if p.check(token.LPAREN) {
		derived := p.parseDerivedTable()
		derived.Lateral = lateral
		return derived
	}

	return p.parseTableNameOrFunc()
}

// parseTableNameOrFunc parses a table name or a table-valued function.
func (p *Parser) parseTableNameOrFunc() core.TableRef {
	if !p.isNameToken() {
		p.addError(fmt.Sprintf("expected table name, got %s", p.token.Type))
		return &core.TableName{}
	}

	parts := p.parseNameParts()

	// Table-valued function: read_csv(...), generate_series(...)
	if p.check(token.LPAREN) {
		fn := &core.TableFunc{Name: parts[len(parts)-1].Text}
		p.nextToken()
		if !p.check(token.RPAREN) {
			fn.Args = p.parseExpressionList()
		}
		p.expect(token.RPAREN)

		fn.Alias = p.parseTableAlias()
		if fn.Alias != "" && p.match(token.LPAREN) {
			fn.Columns = p.parseColumnNameList()
			p.expect(token.RPAREN)
		}
		return fn
	}

	table := &core.TableName{Parts: parts}
	table.Alias = p.parseTableAlias()
	return table
}

// parseDerivedTable parses a derived table (subquery in FROM).
func (p *Parser) parseDerivedTable() *core.DerivedTable {
	p.expect(token.LPAREN)
	derived := &core.DerivedTable{}
	derived.Select = p.parseSelectStatement()
	p.expect(token.RPAREN)

	derived.Alias = p.parseTableAlias()
	if derived.Alias != "" && p.match(token.LPAREN) {
		derived.Columns = p.parseColumnNameList()
		p.expect(token.RPAREN)
	}

	return derived
}

// parseTableAlias parses an optional [AS] alias after a table reference.
func (p *Parser) parseTableAlias() string {
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.addError("expected alias after AS")
		return ""
	}
	if p.check(token.IDENT) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}

// parseJoin parses one JOIN clause, or returns nil when the current token
// does not start a join.
func (p *Parser) parseJoin() *core.Join {
	join := &core.Join{}

	// Comma join
	if p.match(token.COMMA) {
		join.Type = core.JoinComma
		join.Right = p.parseTableRef()
		return join
	}

	if p.match(token.NATURAL) {
		join.Natural = true
	}

	gotJoinType := false
	switch p.token.Type {
	case token.INNER:
		join.Type = core.JoinInner
		p.nextToken()
		gotJoinType = true
	case token.LEFT:
		p.nextToken()
		join.Type = core.JoinLeft
		// LEFT SEMI / LEFT ANTI restrict rows but join the same sources
		if !p.matchSoftKeyword("SEMI") {
			p.matchSoftKeyword("ANTI")
		}
		p.match(token.OUTER)
		gotJoinType = true
	case token.RIGHT:
		p.nextToken()
		join.Type = core.JoinRight
		if !p.matchSoftKeyword("SEMI") {
			p.matchSoftKeyword("ANTI")
		}
		p.match(token.OUTER)
		gotJoinType = true
	case token.FULL:
		join.Type = core.JoinFull
		p.nextToken()
		p.match(token.OUTER)
		gotJoinType = true
	case token.CROSS:
		join.Type = core.JoinCross
		p.nextToken()
		gotJoinType = true
	case token.JOIN:
		join.Type = core.JoinInner
		gotJoinType = true
	}

	if !gotJoinType {
		if !join.Natural {
			return nil
		}
		// Plain NATURAL JOIN is an inner join.
		join.Type = core.JoinInner
	}

	if !p.expect(token.JOIN) {
		return nil
	}

	join.Right = p.parseTableRef()
	p.parseJoinCondition(join)
	return join
}

// parseJoinCondition handles ON / USING after a join.
func (p *Parser) parseJoinCondition(join *core.Join) {
	switch {
	case join.Natural:
		// NATURAL JOIN has no condition
	case join.Type == core.JoinCross || join.Type == core.JoinComma:
		// No condition needed
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.match(token.USING):
		p.expect(token.LPAREN)
		join.Using = p.parseColumnNameList()
		p.expect(token.RPAREN)
	}
}

// parseTableName parses a qualified table name without alias, as used for
// DDL object names. CREATE TABLE t AS ... must leave the AS untouched.
func (p *Parser) parseTableName() *core.TableName {
	table := &core.TableName{}
	start := p.token.Pos

	if !p.isNameToken() {
		p.addError(fmt.Sprintf("expected table name, got %s", p.token.Type))
		return table
	}

	table.Parts = p.parseNameParts()
	table.SrcSpan = token.Span{Start: start, End: p.token.Pos}
	return table
}

// parseTargetTable parses a table name with optional alias (DML targets).
func (p *Parser) parseTargetTable() *core.TableName {
	table := p.parseTableName()
	table.Alias = p.parseTableAlias()
	return table
}
