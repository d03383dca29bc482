package parser

import (
	"strings"
	"unicode"

	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Lexer tokenizes SQL input.
//
// Double-quoted identifiers are always recognized. Dialects that quote with
// backticks or square brackets enable those forms in addition; in either
// case a doubled closing character inside the quotes is an escaped literal.
type Lexer struct {
	input   string
	pos     int  // index of ch
	readPos int  // index after ch
	ch      byte // byte under examination, 0 at EOF
	line    int  // 1-based
	col     int  // 1-based

	identQuote byte // dialect identifier quote opener besides ", 0 if none

	// Comments collected while scanning, in source order.
	Comments []*token.Comment
}

// NewLexer creates a new Lexer using ANSI quoting rules.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// NewLexerWithDialect creates a new Lexer using the dialect's quoting rules.
func NewLexerWithDialect(input string, d *dialect.Dialect) *Lexer {
	l := NewLexer(input)
	if d != nil {
		switch d.Identifiers.Quote {
		case "`":
			l.identQuote = '`'
		case "[":
			l.identQuote = '['
		}
	}
	return l
}

// readChar advances one byte, maintaining the line and column counters.
func (l *Lexer) readChar() {
	if l.readPos < len(l.input) {
		l.ch = l.input[l.readPos]
	} else {
		l.ch = 0
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar looks one byte ahead without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos < len(l.input) {
		return l.input[l.readPos]
	}
	return 0
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// punct maps single-byte operators and delimiters to their token types.
// Bytes that can begin a longer token are handled in NextToken instead.
var punct = map[byte]token.TokenType{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'=': token.EQ,
	'.': token.DOT,
	',': token.COMMA,
	';': token.SEMICOLON,
	'(': token.LPAREN,
	')': token.RPAREN,
	']': token.RBRACKET,
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	// Comments are consumed above, so - and / reaching this point are
	// plain operators.
	if tt, ok := punct[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: tt, Literal: lit, Pos: pos}
	}

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = token.Token{Type: token.DPIPE, Literal: "||", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = token.Token{Type: token.DCOLON, Literal: "::", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '[':
		if l.identQuote == '[' {
			tok.Type = token.IDENT
			tok.Literal = l.readDelimited(']')
			tok.Quoted = true
			return tok
		}
		tok = l.newToken(token.LBRACKET, "[")
	case '`':
		if l.identQuote == '`' {
			tok.Type = token.IDENT
			tok.Literal = l.readDelimited('`')
			tok.Quoted = true
			return tok
		}
		tok = l.newToken(token.ILLEGAL, "`")
	case '\'':
		tok.Type = token.STRING
		tok.Literal = l.readDelimited('\'')
		return tok
	case '"':
		tok.Type = token.IDENT
		tok.Literal = l.readDelimited('"')
		tok.Quoted = true
		return tok
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(strings.ToLower(tok.Literal))
			return tok
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// skipWhitespaceAndComments advances past whitespace, collecting any
// comments encountered along the way.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			l.collectComment(token.LineComment)
		case l.ch == '/' && l.peekChar() == '*':
			l.collectComment(token.BlockComment)
		default:
			return
		}
	}
}

// collectComment consumes one comment and records it with its span. Line
// comments run to end of line, block comments to the closing */ or EOF.
func (l *Lexer) collectComment(kind token.CommentKind) {
	start := l.currentPos()
	from := l.pos

	if kind == token.LineComment {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	} else {
		l.readChar()
		l.readChar() // past /*
		for l.ch != 0 {
			if l.ch == '*' && l.peekChar() == '/' {
				l.readChar()
				l.readChar()
				break
			}
			l.readChar()
		}
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: kind,
		Text: l.input[from:l.pos],
		Span: token.Span{Start: start, End: l.currentPos()},
	})
}

// readDelimited consumes a quoted region after the opening byte and
// returns its contents. A doubled end byte inside is an escaped literal,
// so 'it''s' yields it's and [col]]name] yields col]name. An unterminated
// region runs to EOF.
func (l *Lexer) readDelimited(end byte) string {
	l.readChar() // past the opener

	var out strings.Builder
	for l.ch != 0 {
		if l.ch == end {
			l.readChar()
			if l.ch != end {
				break
			}
			// Doubled closer, fall through and keep one.
		}
		out.WriteByte(l.ch)
		l.readChar()
	}
	return out.String()
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer, decimal, or scientific-notation literal.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool { return unicode.IsLetter(rune(ch)) }

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// Tokenize returns all tokens from the input using ANSI quoting rules.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
