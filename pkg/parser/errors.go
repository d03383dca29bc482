package parser

import (
	"fmt"

	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// ParseError is a syntax error pinned to a source position. The parser
// collects these instead of stopping at the first one.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ErrUnexpectedToken is the format for the parser's most common error.
const ErrUnexpectedToken = "unexpected token %s, expected %s"
