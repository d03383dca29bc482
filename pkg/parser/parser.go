// Package parser provides dialect-aware SQL parsing.
//
// # Usage
//
//	d, _ := dialect.Get("duckdb")
//	stmt, err := parser.Parse("SELECT a, b FROM t", d)
//	if err != nil {
//	    // handle error
//	}
//
// Multi-statement scripts go through ParseScript, which never fails as a
// whole: statements that cannot be parsed are returned as core.RawStmt with
// their errors attached, and parsing resumes at the next semicolon.
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for a subset of SQL:
//
//	statement     → select_stmt | create_table | create_view
//	              | insert | update | delete | raw
//	select_stmt   → [WITH [RECURSIVE] cte_list] select_body
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL] select_body]
//	select_core   → SELECT [DISTINCT] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [QUALIFY expr] [WINDOW window_defs] [ORDER BY order_list]
//	                [LIMIT expr] [OFFSET expr] [FETCH fetch_clause]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Parser parses SQL into an AST.
type Parser struct {
	lexer   *Lexer
	input   string      // original input for raw statement extraction
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	errors  []*ParseError
	dialect *dialect.Dialect
}

// NewParser creates a new parser for the given SQL input. A nil dialect
// falls back to ANSI quoting rules.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	p := &Parser{
		lexer:   NewLexerWithDialect(sql, d),
		input:   sql,
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a single SQL statement and returns the AST.
func Parse(sql string, d *dialect.Dialect) (core.Stmt, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, fmt.Errorf("empty SQL")
	}

	p := NewParser(sql, d)
	start := p.token.Pos
	stmt := p.parseTopLevel()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	end := p.token.Pos
	p.match(token.SEMICOLON)
	if !p.check(token.EOF) {
		return nil, fmt.Errorf("multi-statement input, use ParseScript")
	}
	setStmtSpan(stmt, token.Span{Start: start, End: end})
	return stmt, nil
}

// ParseExpr parses a standalone expression.
func ParseExpr(sql string, d *dialect.Dialect) (core.Expr, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, fmt.Errorf("empty expression")
	}

	p := NewParser(sql, d)
	expr := p.parseExpression()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if !p.check(token.EOF) {
		return nil, fmt.Errorf("unexpected token after expression: %s", p.token.Literal)
	}
	return expr, nil
}

// Dialect returns the parser's dialect, if any.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// Errors returns all errors recorded so far.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// parseTopLevel dispatches on the leading token of one statement. Statement
// parsers stop at the separating semicolon without consuming it. Statements
// outside the modeled grammar come back as core.RawStmt.
func (p *Parser) parseTopLevel() core.Stmt {
	switch p.token.Type {
	case token.SELECT, token.WITH:
		return p.parseSelectStatement()
	case token.CREATE:
		return p.parseCreateStatement()
	case token.INSERT:
		return p.parseInsertStatement()
	case token.UPDATE:
		return p.parseUpdateStatement()
	case token.DELETE:
		return p.parseDeleteStatement()
	default:
		return p.parseRawStatement()
	}
}

// parseRawStatement consumes one statement without modeling it.
func (p *Parser) parseRawStatement() *core.RawStmt {
	return p.rawStatementFrom(p.token.Pos, strings.ToUpper(p.token.Literal))
}

// rawStatementFrom consumes the rest of the current statement and wraps it
// as a RawStmt spanning from start. Used when a statement parser bails out
// partway through a form it does not model.
func (p *Parser) rawStatementFrom(start token.Position, keyword string) *core.RawStmt {
	p.consumeStatement()
	end := p.token.Pos

	return &core.RawStmt{
		NodeInfo: core.NodeInfo{SrcSpan: token.Span{Start: start, End: end}},
		Keyword:  keyword,
		Raw:      strings.TrimSpace(p.input[start.Offset:end.Offset]),
	}
}

// consumeStatement advances to the next statement separator (or EOF)
// without consuming it.
func (p *Parser) consumeStatement() {
	for !p.check(token.SEMICOLON) && !p.check(token.EOF) {
		p.nextToken()
	}
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the peek2 token is of the given type.
func (p *Parser) checkPeek2(t token.TokenType) bool {
	return p.peek2.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// matchSoftKeyword consumes the current token if it is an identifier
// matching the given soft keyword (case-insensitive).
func (p *Parser) matchSoftKeyword(keyword string) bool {
	if p.check(token.IDENT) && !p.token.Quoted && strings.EqualFold(p.token.Literal, keyword) {
		p.nextToken()
		return true
	}
	return false
}

// checkSoftKeyword returns true if the current token is an identifier
// matching the given soft keyword without consuming it.
func (p *Parser) checkSoftKeyword(keyword string) bool {
	return p.check(token.IDENT) && !p.token.Quoted && strings.EqualFold(p.token.Literal, keyword)
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, t))
	return false
}

// addError records a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{Pos: p.token.Pos, Message: msg})
}

// ---------- Name Helpers ----------

// namePart captures the current token as an identifier part.
func (p *Parser) namePart() core.NamePart {
	return core.NamePart{Text: p.token.Literal, Quoted: p.token.Quoted}
}

// isNameToken reports whether the current token can serve as a bare
// identifier. A few keywords double as common column names.
func (p *Parser) isNameToken() bool {
	if p.check(token.IDENT) {
		return true
	}
	switch p.token.Type {
	case token.KEY, token.ROW, token.FIRST, token.LAST, token.IF:
		return true
	default:
		return false
	}
}

// parseNamePart consumes the current token as an identifier part.
func (p *Parser) parseNamePart() (core.NamePart, bool) {
	if !p.isNameToken() {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "identifier"))
		return core.NamePart{}, false
	}
	part := p.namePart()
	p.nextToken()
	return part, true
}

// parseNameParts consumes a dotted identifier chain: a, a.b, or a.b.c.
func (p *Parser) parseNameParts() []core.NamePart {
	part, ok := p.parseNamePart()
	if !ok {
		return nil
	}
	parts := []core.NamePart{part}
	for p.match(token.DOT) {
		part, ok := p.parseNamePart()
		if !ok {
			break
		}
		parts = append(parts, part)
	}
	return parts
}

// setStmtSpan records the source span on a parsed statement.
func setStmtSpan(stmt core.Stmt, span token.Span) {
	type spanSetter interface{ SetSpan(token.Span) }
	if s, ok := stmt.(spanSetter); ok {
		s.SetSpan(span)
	}
}
