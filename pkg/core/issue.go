package core

import "github.com/sqlweave-labs/sqlweave/pkg/token"

// Issue codes emitted by the analysis engine.
const (
	// IssueParseError reports a statement that could not be parsed.
	IssueParseError = "PARSE_ERROR"
	// IssueSchemaConflict reports a DDL statement that contradicts
	// imported schema metadata.
	IssueSchemaConflict = "SCHEMA_CONFLICT"
	// IssueUnresolvedReference reports a table reference that matched no
	// known table.
	IssueUnresolvedReference = "UNRESOLVED_REFERENCE"
	// IssueSetOpMismatch reports set-operation branches with differing
	// column counts.
	IssueSetOpMismatch = "SET_OPERATION_MISMATCH"
	// IssueCyclicDependency reports a dependency cycle between relations,
	// such as a view chain that feeds back into itself.
	IssueCyclicDependency = "CYCLIC_DEPENDENCY"
)

// Issue is one diagnostic produced during analysis. Analysis never aborts
// on an issue; it records the problem and continues.
type Issue struct {
	Severity       Severity    `json:"severity"`
	Code           string      `json:"code"`
	Message        string      `json:"message"`
	Span           *token.Span `json:"span,omitempty"`
	StatementIndex *int        `json:"statement_index,omitempty"`
}

// NewIssue creates an issue without a span or statement index.
func NewIssue(sev Severity, code, message string) Issue {
	return Issue{Severity: sev, Code: code, Message: message}
}

// AtStatement returns a copy of the issue bound to a statement index.
func (i Issue) AtStatement(idx int) Issue {
	i.StatementIndex = &idx
	return i
}

// WithSpan returns a copy of the issue bound to a source span.
func (i Issue) WithSpan(span token.Span) Issue {
	i.Span = &span
	return i
}
