package parser

import (
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Statement parsing: SELECT bodies, CTEs, set operations, and DML.

// parseSelectStatement parses a complete SELECT statement (WITH ... SELECT ...).
func (p *Parser) parseSelectStatement() *core.SelectStmt {
	stmt := &core.SelectStmt{}

	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
	}

	stmt.Body = p.parseSelectBody()
	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *core.WithClause {
	p.expect(token.WITH)
	with := &core.WithClause{}

	if p.match(token.RECURSIVE) {
		with.Recursive = true
	}

	for {
		cte := p.parseCTE()
		with.CTEs = append(with.CTEs, cte)
		if !p.match(token.COMMA) {
			break
		}
	}

	return with
}

// parseCTE parses a single CTE: name [(columns)] AS [MATERIALIZED] (select).
func (p *Parser) parseCTE() *core.CTE {
	cte := &core.CTE{}
	start := p.token.Pos

	name, ok := p.parseNamePart()
	if !ok {
		return cte
	}
	cte.Name = name

	// Optional column list: cte(col1, col2, ...)
	if p.match(token.LPAREN) {
		cte.Columns = p.parseColumnNameList()
		p.expect(token.RPAREN)
	}

	p.expect(token.AS)

	// MATERIALIZED / NOT MATERIALIZED hint, not modeled
	if !p.matchSoftKeyword("MATERIALIZED") && p.check(token.NOT) && peekSoftKeyword(p.peek, "MATERIALIZED") {
		p.nextToken() // consume NOT
		p.nextToken() // consume MATERIALIZED
	}

	p.expect(token.LPAREN)
	cte.Select = p.parseSelectStatement()
	p.expect(token.RPAREN)

	cte.SrcSpan = token.Span{Start: start, End: p.token.Pos}
	return cte
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *core.SelectBody {
	body := &core.SelectBody{}
	body.Left = p.parseSelectCore()

	switch p.token.Type {
	case token.UNION:
		p.nextToken()
		if p.match(token.ALL) {
			body.Op = core.SetOpUnionAll
			body.All = true
		} else {
			body.Op = core.SetOpUnion
			p.match(token.DISTINCT)
		}
		body.Right = p.parseSelectBody()
	case token.INTERSECT:
		p.nextToken()
		body.Op = core.SetOpIntersect
		if p.match(token.ALL) {
			body.All = true
		}
		body.Right = p.parseSelectBody()
	case token.EXCEPT:
		p.nextToken()
		body.Op = core.SetOpExcept
		if p.match(token.ALL) {
			body.All = true
		}
		body.Right = p.parseSelectBody()
	}

	return body
}

// parseSelectCore parses a single SELECT clause with all optional clauses.
func (p *Parser) parseSelectCore() *core.SelectCore {
	sc := &core.SelectCore{}

	// Parenthesized select core: (SELECT ...) UNION ...
	if p.check(token.LPAREN) && (p.checkPeek(token.SELECT) || p.checkPeek(token.WITH)) {
		p.nextToken()
		inner := p.parseSelectBody()
		p.expect(token.RPAREN)
		// Flatten a single parenthesized core; otherwise keep the nested
		// body as a derived source.
		if inner.Op == core.SetOpNone {
			return inner.Left
		}
		sc.Columns = []core.SelectItem{{Star: true}}
		sc.From = &core.FromClause{Source: &core.DerivedTable{Select: &core.SelectStmt{Body: inner}}}
		return sc
	}

	if !p.expect(token.SELECT) {
		return sc
	}

	if p.match(token.DISTINCT) {
		sc.Distinct = true
	} else {
		p.match(token.ALL)
	}

	sc.Columns = p.parseSelectList()

	if p.match(token.FROM) {
		sc.From = p.parseFromClause()
	}

	p.parseSelectClauses(sc)

	return sc
}

// parseSelectClauses parses the optional trailing clauses of a select core.
func (p *Parser) parseSelectClauses(sc *core.SelectCore) {
	// WHERE
	if p.match(token.WHERE) {
		sc.Where = p.parseExpression()
	}

	// GROUP BY [ALL]
	if p.check(token.GROUP) {
		p.nextToken()
		p.expect(token.BY)
		if !p.match(token.ALL) {
			sc.GroupBy = p.parseExpressionList()
		}
	}

	// HAVING
	if p.match(token.HAVING) {
		sc.Having = p.parseExpression()
	}

	// QUALIFY (DuckDB, Snowflake, Databricks)
	if p.match(token.QUALIFY) {
		sc.Qualify = p.parseExpression()
	}

	// WINDOW
	if p.check(token.WINDOW) {
		p.nextToken()
		sc.Windows = p.parseWindowDefs()
	}

	// ORDER BY [ALL]
	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		if p.match(token.ALL) {
			p.match(token.DESC)
			p.match(token.ASC)
		} else {
			sc.OrderBy = p.parseOrderByList()
		}
	}

	// LIMIT
	if p.match(token.LIMIT) {
		if !p.match(token.ALL) {
			sc.Limit = p.parseExpressionWithPrecedence(precMultiply + 1)
			p.match(token.PERCENT)
		}
	}

	// OFFSET n [ROW | ROWS]
	if p.match(token.OFFSET) {
		sc.Offset = p.parseExpressionWithPrecedence(precMultiply + 1)
		if !p.match(token.ROWS) {
			p.match(token.ROW)
		}
	}

	// FETCH FIRST/NEXT
	if p.check(token.FETCH) {
		sc.Fetch = p.parseFetchClause()
	}
}

// parseFetchClause parses FETCH FIRST/NEXT n ROWS ONLY/WITH TIES.
func (p *Parser) parseFetchClause() *core.FetchClause {
	p.expect(token.FETCH)
	fetch := &core.FetchClause{}

	if p.match(token.FIRST) {
		fetch.First = true
	} else {
		p.matchSoftKeyword("NEXT")
	}

	if p.check(token.NUMBER) || p.check(token.IDENT) {
		fetch.Count = p.parseExpressionWithPrecedence(precMultiply + 1)
	}

	if p.matchSoftKeyword("PERCENT") {
		fetch.Percent = true
	}

	// ROWS or ROW
	if !p.match(token.ROWS) {
		p.match(token.ROW)
	}

	if p.match(token.WITH) {
		p.matchSoftKeyword("TIES")
		fetch.WithTies = true
	} else {
		p.matchSoftKeyword("ONLY")
	}

	return fetch
}

// parseWindowDefs parses named window definitions.
func (p *Parser) parseWindowDefs() []core.WindowDef {
	var defs []core.WindowDef
	for {
		def := core.WindowDef{}
		if p.check(token.IDENT) {
			def.Name = p.token.Literal
			p.nextToken()
		}
		p.expect(token.AS)
		p.expect(token.LPAREN)
		def.Spec = p.parseWindowSpecBody()
		p.expect(token.RPAREN)
		defs = append(defs, def)
		if !p.match(token.COMMA) {
			break
		}
	}
	return defs
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []core.SelectItem {
	var items []core.SelectItem
	for {
		item := p.parseSelectItem()
		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() core.SelectItem {
	item := core.SelectItem{}

	// SELECT *
	if p.check(token.STAR) {
		item.Star = true
		p.nextToken()
		return item
	}

	// table.* pattern using 3-token lookahead
	if p.check(token.IDENT) && p.checkPeek(token.DOT) && p.checkPeek2(token.STAR) {
		item.TableStar = p.namePart()
		p.nextToken() // consume ident
		p.nextToken() // consume DOT
		p.nextToken() // consume STAR
		return item
	}

	// Regular expression
	item.Expr = p.parseExpression()

	// A qualified wildcard that came through the expression grammar
	// (e.g. schema.table.*) folds into TableStar.
	if star, ok := item.Expr.(*core.StarExpr); ok {
		item.Expr = nil
		if star.Table.Text != "" {
			item.TableStar = star.Table
		} else {
			item.Star = true
		}
		return item
	}

	// Optional alias
	if p.match(token.AS) {
		if p.check(token.IDENT) || p.check(token.STRING) {
			item.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError("expected alias after AS")
		}
	} else if p.check(token.IDENT) {
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseOrderByList parses ORDER BY items.
func (p *Parser) parseOrderByList() []core.OrderByItem {
	var items []core.OrderByItem
	for {
		item := core.OrderByItem{}
		item.Expr = p.parseExpression()

		if p.match(token.DESC) {
			item.Desc = true
		} else {
			p.match(token.ASC)
		}

		if p.match(token.NULLS) {
			switch {
			case p.match(token.FIRST):
				v := true
				item.NullsFirst = &v
			case p.match(token.LAST):
				v := false
				item.NullsFirst = &v
			default:
				p.addError("expected FIRST or LAST after NULLS")
			}
		}

		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseColumnNameList parses a comma-separated list of column names.
// The caller handles the surrounding parentheses.
func (p *Parser) parseColumnNameList() []core.NamePart {
	var cols []core.NamePart
	for {
		part, ok := p.parseNamePart()
		if !ok {
			break
		}
		cols = append(cols, part)
		if !p.match(token.COMMA) {
			break
		}
	}
	return cols
}

// ---------- DML Statements ----------

// parseInsertStatement parses INSERT INTO ... VALUES/SELECT.
func (p *Parser) parseInsertStatement() *core.InsertStmt {
	p.expect(token.INSERT)
	stmt := &core.InsertStmt{}

	// INSERT OR REPLACE / OR IGNORE (SQLite, DuckDB), not modeled
	if p.match(token.OR) {
		if !p.match(token.REPLACE) {
			p.matchSoftKeyword("IGNORE")
		}
	}

	p.expect(token.INTO)
	stmt.Table = p.parseTargetTable()

	// Optional column list
	if p.match(token.LPAREN) {
		stmt.Columns = p.parseColumnNameList()
		p.expect(token.RPAREN)
	}

	switch {
	case p.check(token.VALUES):
		p.nextToken()
		for {
			p.expect(token.LPAREN)
			row := p.parseExpressionList()
			stmt.Values = append(stmt.Values, row)
			p.expect(token.RPAREN)
			if !p.match(token.COMMA) {
				break
			}
		}
	case p.check(token.SELECT) || p.check(token.WITH):
		stmt.Query = p.parseSelectStatement()
	case p.check(token.LPAREN) && (p.checkPeek(token.SELECT) || p.checkPeek(token.WITH)):
		p.nextToken()
		stmt.Query = p.parseSelectStatement()
		p.expect(token.RPAREN)
	case p.match(token.DEFAULT):
		p.expect(token.VALUES)
	default:
		p.addError("expected VALUES or SELECT in INSERT")
	}

	// ON CONFLICT / RETURNING tails carry no additional sources
	if p.check(token.ON) || p.checkSoftKeyword("RETURNING") {
		p.consumeStatement()
	}

	return stmt
}

// parseUpdateStatement parses UPDATE ... SET ... [FROM ...] [WHERE ...].
func (p *Parser) parseUpdateStatement() *core.UpdateStmt {
	p.expect(token.UPDATE)
	stmt := &core.UpdateStmt{}
	stmt.Table = p.parseTargetTable()

	p.expect(token.SET)
	for {
		assign := core.Assignment{}
		parts := p.parseNameParts()
		if len(parts) > 0 {
			assign.Column = parts[len(parts)-1]
		}
		p.expect(token.EQ)
		assign.Value = p.parseExpression()
		stmt.Set = append(stmt.Set, assign)
		if !p.match(token.COMMA) {
			break
		}
	}

	if p.match(token.FROM) {
		stmt.From = p.parseFromClause()
	}

	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}

	if p.checkSoftKeyword("RETURNING") {
		p.consumeStatement()
	}

	return stmt
}

// parseDeleteStatement parses DELETE FROM ... [USING ...] [WHERE ...].
func (p *Parser) parseDeleteStatement() *core.DeleteStmt {
	p.expect(token.DELETE)
	p.expect(token.FROM)

	stmt := &core.DeleteStmt{}
	stmt.Table = p.parseTargetTable()

	if p.match(token.USING) {
		stmt.Using = p.parseFromClause()
	}

	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}

	if p.checkSoftKeyword("RETURNING") {
		p.consumeStatement()
	}

	return stmt
}

// peekSoftKeyword reports whether tok is an identifier equal to the keyword.
func peekSoftKeyword(tok token.Token, keyword string) bool {
	return tok.Type == token.IDENT && !tok.Quoted && strings.EqualFold(tok.Literal, keyword)
}
