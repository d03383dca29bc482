package parser

import (
	"fmt"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// DDL parsing: CREATE TABLE and CREATE VIEW are modeled structurally since
// their definitions carry schema and lineage information. Every other CREATE
// kind (INDEX, SCHEMA, FUNCTION, SEQUENCE, ...) is kept as a raw statement.

// parseCreateStatement dispatches on the object kind after CREATE.
func (p *Parser) parseCreateStatement() core.Stmt {
	start := p.token.Pos
	p.nextToken() // consume CREATE

	orReplace := false
	if p.match(token.OR) {
		if !p.match(token.REPLACE) {
			return p.rawStatementFrom(start, "CREATE")
		}
		orReplace = true
	}

	temporary := p.match(token.TEMPORARY)
	materialized := p.matchSoftKeyword("MATERIALIZED")

	switch {
	case !materialized && p.match(token.TABLE):
		return p.parseCreateTable(orReplace, temporary)
	case p.match(token.VIEW):
		return p.parseCreateView(orReplace, temporary)
	default:
		return p.rawStatementFrom(start, "CREATE")
	}
}

// parseCreateTable parses CREATE TABLE in its definition form, its CTAS form,
// and the combined form with both a column list and a query.
func (p *Parser) parseCreateTable(orReplace, temporary bool) core.Stmt {
	stmt := &core.CreateTableStmt{OrReplace: orReplace, Temporary: temporary}
	stmt.IfNotExists = p.matchIfNotExists()
	stmt.Name = p.parseTableName()

	if p.match(token.LPAREN) {
		p.parseTableElements(stmt)
		p.expect(token.RPAREN)
	}

	if p.match(token.AS) {
		stmt.Query = p.parseSelectStatement()
	}

	return stmt
}

// parseCreateView parses CREATE VIEW name [(columns)] AS select.
func (p *Parser) parseCreateView(orReplace, temporary bool) core.Stmt {
	stmt := &core.CreateViewStmt{OrReplace: orReplace, Temporary: temporary}
	stmt.IfNotExists = p.matchIfNotExists()
	stmt.Name = p.parseTableName()

	if p.match(token.LPAREN) {
		stmt.Columns = p.parseColumnNameList()
		p.expect(token.RPAREN)
	}

	if p.expect(token.AS) {
		stmt.Query = p.parseSelectStatement()
	}

	return stmt
}

// matchIfNotExists consumes IF NOT EXISTS if present. The three-token check
// keeps a table named "if" parseable.
func (p *Parser) matchIfNotExists() bool {
	if p.check(token.IF) && p.checkPeek(token.NOT) && p.checkPeek2(token.EXISTS) {
		p.nextToken()
		p.nextToken()
		p.nextToken()
		return true
	}
	return false
}

// parseTableElements parses the parenthesized body of CREATE TABLE: column
// definitions interleaved with table-level constraints.
func (p *Parser) parseTableElements(stmt *core.CreateTableStmt) {
	for {
		if p.isConstraintStart() {
			if c := p.parseTableConstraint(); c != nil {
				stmt.Constraints = append(stmt.Constraints, c)
			}
		} else if col := p.parseColumnDef(); col != nil {
			stmt.Columns = append(stmt.Columns, col)
		}
		if !p.match(token.COMMA) {
			return
		}
	}
}

// isConstraintStart reports whether the current token begins a table-level
// constraint rather than a column definition.
func (p *Parser) isConstraintStart() bool {
	switch p.token.Type {
	case token.CONSTRAINT, token.PRIMARY, token.FOREIGN, token.UNIQUE, token.CHECK:
		return !p.token.Quoted
	}
	return false
}

// parseColumnDef parses one column definition. The type is optional so the
// bare column list of CREATE TABLE t (a, b) AS SELECT ... works too.
func (p *Parser) parseColumnDef() *core.ColumnDef {
	name, ok := p.parseNamePart()
	if !ok {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "column name"))
		return nil
	}
	col := &core.ColumnDef{Name: name}

	if !p.check(token.COMMA) && !p.check(token.RPAREN) && !p.isColumnConstraintStart() {
		col.Type = p.parseTypeName()
	}

	p.parseColumnConstraints(col)
	return col
}

// isColumnConstraintStart reports whether the current token begins a column
// constraint, meaning the column definition carries no type.
func (p *Parser) isColumnConstraintStart() bool {
	switch p.token.Type {
	case token.CONSTRAINT, token.NOT, token.NULL, token.PRIMARY, token.UNIQUE,
		token.DEFAULT, token.CHECK, token.REFERENCES:
		return true
	}
	return false
}

// parseColumnConstraints parses the trailing constraints of a column
// definition: NOT NULL, PRIMARY KEY, UNIQUE, DEFAULT, CHECK, REFERENCES.
func (p *Parser) parseColumnConstraints(col *core.ColumnDef) {
	for {
		switch {
		case p.match(token.CONSTRAINT):
			// Inline constraint names carry no lineage.
			p.parseNamePart()
		case p.check(token.NOT) && p.checkPeek(token.NULL):
			p.nextToken()
			p.nextToken()
			col.NotNull = true
		case p.match(token.NULL):
		case p.check(token.PRIMARY):
			p.nextToken()
			p.expect(token.KEY)
			col.PrimaryKey = true
		case p.match(token.UNIQUE):
			col.Unique = true
		case p.match(token.DEFAULT):
			// Stop below comparison level so a following NOT NULL or
			// PRIMARY KEY is not swallowed as an infix operator.
			col.Default = p.parseExpressionWithPrecedence(precComparison + 1)
		case p.match(token.CHECK):
			if p.expect(token.LPAREN) {
				col.Check = p.parseExpression()
				p.expect(token.RPAREN)
			}
		case p.match(token.REFERENCES):
			ref := &core.ForeignKeyRef{Table: p.parseTableName()}
			if p.match(token.LPAREN) {
				ref.Columns = p.parseColumnNameList()
				p.expect(token.RPAREN)
			}
			p.consumeReferentialActions()
			col.References = ref
		case p.matchSoftKeyword("AUTOINCREMENT"), p.matchSoftKeyword("AUTO_INCREMENT"):
		default:
			return
		}
	}
}

// parseTableConstraint parses one table-level constraint.
func (p *Parser) parseTableConstraint() *core.TableConstraint {
	c := &core.TableConstraint{}

	if p.match(token.CONSTRAINT) {
		if name, ok := p.parseNamePart(); ok {
			c.Name = name.Text
		}
	}

	switch {
	case p.check(token.PRIMARY):
		p.nextToken()
		p.expect(token.KEY)
		c.Kind = core.ConstraintPrimaryKey
		if p.expect(token.LPAREN) {
			c.Columns = p.parseColumnNameList()
			p.expect(token.RPAREN)
		}
	case p.check(token.FOREIGN):
		p.nextToken()
		p.expect(token.KEY)
		c.Kind = core.ConstraintForeignKey
		if p.expect(token.LPAREN) {
			c.Columns = p.parseColumnNameList()
			p.expect(token.RPAREN)
		}
		if p.expect(token.REFERENCES) {
			c.RefTable = p.parseTableName()
			if p.match(token.LPAREN) {
				c.RefColumns = p.parseColumnNameList()
				p.expect(token.RPAREN)
			}
			p.consumeReferentialActions()
		}
	case p.match(token.UNIQUE):
		c.Kind = core.ConstraintUnique
		if p.expect(token.LPAREN) {
			c.Columns = p.parseColumnNameList()
			p.expect(token.RPAREN)
		}
	case p.match(token.CHECK):
		c.Kind = core.ConstraintCheck
		if p.expect(token.LPAREN) {
			c.Check = p.parseExpression()
			p.expect(token.RPAREN)
		}
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "table constraint"))
		return nil
	}

	return c
}

// consumeReferentialActions consumes ON DELETE / ON UPDATE clauses after
// REFERENCES. Referential actions do not affect lineage.
func (p *Parser) consumeReferentialActions() {
	for p.check(token.ON) && (p.checkPeek(token.DELETE) || p.checkPeek(token.UPDATE)) {
		p.nextToken()
		p.nextToken()
		switch {
		case p.matchSoftKeyword("CASCADE"):
		case p.matchSoftKeyword("RESTRICT"):
		case p.matchSoftKeyword("NO"):
			p.matchSoftKeyword("ACTION")
		case p.match(token.SET):
			if !p.match(token.NULL) {
				p.match(token.DEFAULT)
			}
		}
	}
}
