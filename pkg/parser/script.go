package parser

import (
	"fmt"
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Statement is one statement of a parsed script, in source order.
type Statement struct {
	Index  int
	Stmt   core.Stmt
	Raw    string
	Errors []*ParseError
}

// Script is the result of parsing a multi-statement SQL text.
type Script struct {
	Statements []*Statement
	Comments   []*token.Comment
}

// ParseScript splits sql on statement separators and parses each statement.
// It never fails outright: a statement that does not parse is preserved as a
// core.RawStmt with its errors attached to the Statement, so callers can
// report the problem and keep going with the rest of the script.
func ParseScript(sql string, d *dialect.Dialect) *Script {
	script := &Script{}
	p := NewParser(sql, d)

	for !p.check(token.EOF) {
		if p.match(token.SEMICOLON) {
			continue
		}

		start := p.token.Pos
		keyword := strings.ToUpper(p.token.Literal)
		before := len(p.errors)

		stmt := p.parseTopLevel()
		if len(p.errors) == before && !p.check(token.SEMICOLON) && !p.check(token.EOF) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "end of statement"))
		}
		p.consumeStatement()
		end := p.token.Pos

		st := &Statement{
			Index:  len(script.Statements),
			Raw:    strings.TrimSpace(sql[start.Offset:end.Offset]),
			Errors: p.errors[before:],
		}
		if len(st.Errors) > 0 {
			stmt = &core.RawStmt{Keyword: keyword, Raw: st.Raw}
		}
		setStmtSpan(stmt, token.Span{Start: start, End: end})
		st.Stmt = stmt
		script.Statements = append(script.Statements, st)

		p.match(token.SEMICOLON)
	}

	script.Comments = p.lexer.Comments
	return script
}
