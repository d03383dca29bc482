package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlweave-labs/sqlweave/pkg/dialects/databricks"
	"github.com/sqlweave-labs/sqlweave/pkg/dialects/duckdb"
	"github.com/sqlweave-labs/sqlweave/pkg/dialects/sqlserver"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

func TestLexer_Punctuation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType token.TokenType
		wantLit  string
	}{
		{"plus", "+", token.PLUS, "+"},
		{"minus", "-", token.MINUS, "-"},
		{"star", "*", token.STAR, "*"},
		{"slash", "/", token.SLASH, "/"},
		{"percent", "%", token.PERCENT, "%"},
		{"eq", "=", token.EQ, "="},
		{"ne_bang", "!=", token.NE, "!="},
		{"ne_diamond", "<>", token.NE, "<>"},
		{"lt", "<", token.LT, "<"},
		{"gt", ">", token.GT, ">"},
		{"le", "<=", token.LE, "<="},
		{"ge", ">=", token.GE, ">="},
		{"dot", ".", token.DOT, "."},
		{"comma", ",", token.COMMA, ","},
		{"semicolon", ";", token.SEMICOLON, ";"},
		{"lparen", "(", token.LPAREN, "("},
		{"rparen", ")", token.RPAREN, ")"},
		{"lbracket", "[", token.LBRACKET, "["},
		{"rbracket", "]", token.RBRACKET, "]"},
		{"dcolon", "::", token.DCOLON, "::"},
		{"dpipe", "||", token.DPIPE, "||"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(tc.input)
			tok := l.NextToken()
			assert.Equal(t, tc.wantType, tok.Type, "token type")
			assert.Equal(t, tc.wantLit, tok.Literal, "token literal")
		})
	}
}

func TestLexer_Illegal(t *testing.T) {
	for _, input := range []string{"!", "|", ":", "@", "#"} {
		t.Run(input, func(t *testing.T) {
			l := NewLexer(input)
			tok := l.NextToken()
			assert.Equal(t, token.ILLEGAL, tok.Type)
		})
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLit string
	}{
		{"integer", "42", "42"},
		{"decimal", "3.14", "3.14"},
		{"scientific", "1e10", "1e10"},
		{"scientific_upper", "2E5", "2E5"},
		{"scientific_negative", "1e-3", "1e-3"},
		{"large_integer", "3000000000", "3000000000"},
		{"zero", "0", "0"},
		{"decimal_start", "0.5", "0.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(tc.input)
			tok := l.NextToken()
			assert.Equal(t, token.NUMBER, tok.Type)
			assert.Equal(t, tc.wantLit, tok.Literal)
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLit string
	}{
		{"simple", "'hello'", "hello"},
		{"empty", "''", ""},
		{"with_spaces", "'hello world'", "hello world"},
		{"escaped_quote", "'it''s'", "it's"},
		{"double_escape", "'a''''b'", "a''b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(tc.input)
			tok := l.NextToken()
			assert.Equal(t, token.STRING, tok.Type)
			assert.Equal(t, tc.wantLit, tok.Literal)
			assert.False(t, tok.Quoted)
		})
	}
}

func TestLexer_Keywords(t *testing.T) {
	tests := []struct {
		input    string
		wantType token.TokenType
	}{
		{"SELECT", token.SELECT},
		{"select", token.SELECT},
		{"SeLeCt", token.SELECT},
		{"FROM", token.FROM},
		{"temp", token.TEMPORARY},
		{"temporary", token.TEMPORARY},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			l := NewLexer(tc.input)
			tok := l.NextToken()
			assert.Equal(t, tc.wantType, tok.Type)
			// Keywords keep their source spelling.
			assert.Equal(t, tc.input, tok.Literal)
		})
	}
}

func TestLexer_Identifiers(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		l := NewLexer("user_id")
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "user_id", tok.Literal)
		assert.False(t, tok.Quoted)
	})

	t.Run("leading_underscore", func(t *testing.T) {
		l := NewLexer("_staging")
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "_staging", tok.Literal)
	})

	t.Run("double_quoted", func(t *testing.T) {
		l := NewLexer(`"PassengerId"`)
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "PassengerId", tok.Literal)
		assert.True(t, tok.Quoted)
	})

	t.Run("quoted_keyword", func(t *testing.T) {
		l := NewLexer(`"select"`)
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "select", tok.Literal)
		assert.True(t, tok.Quoted)
	})

	t.Run("doubled_quote_escape", func(t *testing.T) {
		l := NewLexer(`"col""name"`)
		tok := l.NextToken()
		assert.Equal(t, `col"name`, tok.Literal)
		assert.True(t, tok.Quoted)
	})
}

func TestLexer_DialectQuoting(t *testing.T) {
	t.Run("backtick_databricks", func(t *testing.T) {
		l := NewLexerWithDialect("`my col`", databricks.Databricks)
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "my col", tok.Literal)
		assert.True(t, tok.Quoted)
	})

	t.Run("backtick_elsewhere_illegal", func(t *testing.T) {
		l := NewLexerWithDialect("`x`", duckdb.DuckDB)
		tok := l.NextToken()
		assert.Equal(t, token.ILLEGAL, tok.Type)
	})

	t.Run("bracket_sqlserver", func(t *testing.T) {
		l := NewLexerWithDialect("[Order Details]", sqlserver.SQLServer)
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "Order Details", tok.Literal)
		assert.True(t, tok.Quoted)
	})

	t.Run("bracket_escape", func(t *testing.T) {
		l := NewLexerWithDialect("[a]]b]", sqlserver.SQLServer)
		tok := l.NextToken()
		assert.Equal(t, "a]b", tok.Literal)
	})

	t.Run("bracket_duckdb_is_subscript", func(t *testing.T) {
		l := NewLexerWithDialect("[1]", duckdb.DuckDB)
		tok := l.NextToken()
		assert.Equal(t, token.LBRACKET, tok.Type)
	})

	t.Run("double_quote_always_works", func(t *testing.T) {
		l := NewLexerWithDialect(`"Name"`, sqlserver.SQLServer)
		tok := l.NextToken()
		assert.Equal(t, token.IDENT, tok.Type)
		assert.Equal(t, "Name", tok.Literal)
		assert.True(t, tok.Quoted)
	})
}

func TestLexer_Comments(t *testing.T) {
	t.Run("line_comment", func(t *testing.T) {
		l := NewLexer("SELECT 1 -- trailing note\n")
		var tok token.Token
		for tok = l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		}
		require.Len(t, l.Comments, 1)
		assert.Equal(t, token.LineComment, l.Comments[0].Kind)
		assert.Equal(t, "-- trailing note", l.Comments[0].Text)
	})

	t.Run("block_comment", func(t *testing.T) {
		l := NewLexer("SELECT /* inline */ 1")
		toks := collectTokens(l)
		require.Len(t, l.Comments, 1)
		assert.Equal(t, token.BlockComment, l.Comments[0].Kind)
		assert.Equal(t, "/* inline */", l.Comments[0].Text)
		// Comment does not interrupt the token stream.
		assert.Equal(t, token.SELECT, toks[0].Type)
		assert.Equal(t, token.NUMBER, toks[1].Type)
	})

	t.Run("comment_only_input", func(t *testing.T) {
		l := NewLexer("-- nothing here")
		tok := l.NextToken()
		assert.Equal(t, token.EOF, tok.Type)
		assert.Len(t, l.Comments, 1)
	})
}

func TestLexer_Positions(t *testing.T) {
	l := NewLexer("SELECT a\nFROM t")

	tok := l.NextToken() // SELECT
	assert.Equal(t, 1, tok.Pos.Line)
	assert.Equal(t, 1, tok.Pos.Column)

	tok = l.NextToken() // a
	assert.Equal(t, 1, tok.Pos.Line)
	assert.Equal(t, 8, tok.Pos.Column)

	tok = l.NextToken() // FROM
	assert.Equal(t, 2, tok.Pos.Line)
	assert.Equal(t, 1, tok.Pos.Column)
	assert.Equal(t, 9, tok.Pos.Offset)
}

func TestTokenize(t *testing.T) {
	toks := Tokenize("SELECT id FROM users;")
	types := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []token.TokenType{
		token.SELECT, token.IDENT, token.FROM, token.IDENT,
		token.SEMICOLON, token.EOF,
	}, types)
}

func collectTokens(l *Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}
