// Package token defines the lexical token types for SQL parsing.
package token

import (
	"fmt"
	"strings"
)

// TokenType identifies a class of lexical token.
//
//nolint:revive // token.TokenType stutters, but reads fine at call sites
type TokenType int32

const (
	EOF TokenType = iota
	ILLEGAL

	IDENT  // identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Operators and punctuation.
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	SEMICOLON // ;
	DCOLON    // ::

	// Keywords. IsKeyword relies on ALL being the first and UPDATE the
	// last keyword constant.
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CROSS
	CURRENT
	DESC
	DISTINCT
	ELSE
	END
	EXCEPT
	EXISTS
	FALSE
	FETCH
	FILTER
	FIRST
	FOLLOWING
	FROM
	FULL
	GROUP
	GROUPS
	HAVING
	ILIKE
	IN
	INNER
	INTERSECT
	IS
	JOIN
	LAST
	LATERAL
	LEFT
	LIKE
	LIMIT
	NATURAL
	NOT
	NULL
	NULLS
	OFFSET
	ON
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	PRECEDING
	QUALIFY
	RANGE
	RECURSIVE
	RIGHT
	ROW
	ROWS
	SELECT
	THEN
	TRUE
	UNBOUNDED
	UNION
	USING
	VALUES
	WHEN
	WHERE
	WINDOW
	WITH

	ALTER
	CHECK
	CONSTRAINT
	CREATE
	DEFAULT
	DROP
	FOREIGN
	IF
	KEY
	PRIMARY
	REFERENCES
	REPLACE
	TABLE
	TEMPORARY
	UNIQUE
	VIEW

	DELETE
	INSERT
	INTO
	SET
	UPDATE
)

// String returns the token's uppercase name, or its source spelling for
// operators and punctuation.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames spells out the tokens with no keyword entry. Keyword names
// derive from the keywords table in init.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	SEMICOLON: ";",
	DCOLON:    "::",
}

func init() {
	for lit, tt := range keywords {
		name := strings.ToUpper(lit)
		// Longest spelling wins, so the temp alias does not rename
		// TEMPORARY.
		if cur, ok := tokenNames[tt]; !ok || len(name) > len(cur) {
			tokenNames[tt] = name
		}
	}
}

// keywords maps keyword spellings to token types. LookupIdent receives
// lowercased input, so every entry here is lowercase.
var keywords = map[string]TokenType{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"between":   BETWEEN,
	"by":        BY,
	"case":      CASE,
	"cast":      CAST,
	"cross":     CROSS,
	"current":   CURRENT,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"else":      ELSE,
	"end":       END,
	"except":    EXCEPT,
	"exists":    EXISTS,
	"false":     FALSE,
	"fetch":     FETCH,
	"filter":    FILTER,
	"first":     FIRST,
	"following": FOLLOWING,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"groups":    GROUPS,
	"having":    HAVING,
	"ilike":     ILIKE,
	"in":        IN,
	"inner":     INNER,
	"intersect": INTERSECT,
	"is":        IS,
	"join":      JOIN,
	"last":      LAST,
	"lateral":   LATERAL,
	"left":      LEFT,
	"like":      LIKE,
	"limit":     LIMIT,
	"natural":   NATURAL,
	"not":       NOT,
	"null":      NULL,
	"nulls":     NULLS,
	"offset":    OFFSET,
	"on":        ON,
	"or":        OR,
	"order":     ORDER,
	"outer":     OUTER,
	"over":      OVER,
	"partition": PARTITION,
	"preceding": PRECEDING,
	"qualify":   QUALIFY,
	"range":     RANGE,
	"recursive": RECURSIVE,
	"right":     RIGHT,
	"row":       ROW,
	"rows":      ROWS,
	"select":    SELECT,
	"then":      THEN,
	"true":      TRUE,
	"unbounded": UNBOUNDED,
	"union":     UNION,
	"using":     USING,
	"values":    VALUES,
	"when":      WHEN,
	"where":     WHERE,
	"window":    WINDOW,
	"with":      WITH,

	"alter":      ALTER,
	"check":      CHECK,
	"constraint": CONSTRAINT,
	"create":     CREATE,
	"default":    DEFAULT,
	"drop":       DROP,
	"foreign":    FOREIGN,
	"if":         IF,
	"key":        KEY,
	"primary":    PRIMARY,
	"references": REFERENCES,
	"replace":    REPLACE,
	"table":      TABLE,
	"temp":       TEMPORARY,
	"temporary":  TEMPORARY,
	"unique":     UNIQUE,
	"view":       VIEW,

	"delete": DELETE,
	"insert": INSERT,
	"into":   INTO,
	"set":    SET,
	"update": UPDATE,
}

// LookupIdent classifies an identifier spelling: the keyword token type
// when it is a keyword, IDENT otherwise. Callers lowercase first.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is a keyword token.
func IsKeyword(t TokenType) bool {
	return t >= ALL && t <= UPDATE
}

// Token is one lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	Quoted  bool // identifier was written with dialect quoting
}
