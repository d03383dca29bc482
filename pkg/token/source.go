package token

// Position is a location in the source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // byte offset, 0-based
}

// IsValid reports whether the position points at real source (line > 0).
// The zero Position marks synthesized nodes with no source location.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span is a half-open range of source text.
type Span struct {
	Start Position
	End   Position
}

// IsValid reports whether both endpoints carry source locations.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// CommentKind distinguishes the two SQL comment forms.
type CommentKind int

const (
	LineComment  CommentKind = iota // -- to end of line
	BlockComment                    // /* ... */
)

// Comment is one source comment collected by the lexer. Text keeps the
// delimiters.
type Comment struct {
	Kind CommentKind
	Text string
	Span Span
}
