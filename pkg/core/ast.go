package core

import "github.com/sqlweave-labs/sqlweave/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
	// Span returns the statement's source span.
	Span() token.Span
}

// TableRef is a marker interface for table reference nodes.
type TableRef interface {
	Node
	tableRefNode() // Marker method to distinguish table references
}

// NodeInfo provides common fields for AST nodes that track source positions.
// Embed this in node types that need span/comment tracking.
type NodeInfo struct {
	SrcSpan          token.Span
	LeadingComments  []*token.Comment
	TrailingComments []*token.Comment
}

func (n *NodeInfo) node() {}

// Span returns the node's source span.
func (n *NodeInfo) Span() token.Span {
	return n.SrcSpan
}

// SetSpan records the node's source span.
func (n *NodeInfo) SetSpan(s token.Span) {
	n.SrcSpan = s
}

// AddLeadingComment adds a leading comment to the node.
func (n *NodeInfo) AddLeadingComment(c *token.Comment) {
	n.LeadingComments = append(n.LeadingComments, c)
}

// AddTrailingComment adds a trailing comment to the node.
func (n *NodeInfo) AddTrailingComment(c *token.Comment) {
	n.TrailingComments = append(n.TrailingComments, c)
}
