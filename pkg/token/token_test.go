package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"select", SELECT},
		{"create", CREATE},
		{"temporary", TEMPORARY},
		{"temp", TEMPORARY},
		{"references", REFERENCES},
		{"qualify", QUALIFY},
		{"users", IDENT},
		{"order_id", IDENT},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LookupIdent(tt.ident), "LookupIdent(%q)", tt.ident)
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "||", DPIPE.String())
	assert.Equal(t, "::", DCOLON.String())
	// The temp alias must not shorten the derived name.
	assert.Equal(t, "TEMPORARY", TEMPORARY.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
}

func TestClassification(t *testing.T) {
	assert.True(t, IsKeyword(CREATE))
	assert.True(t, IsKeyword(UPDATE))
	assert.False(t, IsKeyword(IDENT))
	assert.False(t, IsKeyword(DPIPE))
}

func TestPositionAndSpan(t *testing.T) {
	p := Position{Line: 2, Column: 5, Offset: 14}
	assert.True(t, p.IsValid())
	assert.False(t, Position{}.IsValid())

	s := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 8, Offset: 7}}
	assert.True(t, s.IsValid())
	assert.False(t, Span{Start: p}.IsValid())
}
