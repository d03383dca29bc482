package lineage

import (
	"sort"

	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// NodeKind classifies a lineage graph vertex.
type NodeKind string

// NodeKind values for graph vertices.
const (
	NodeTable  NodeKind = "table"
	NodeView   NodeKind = "view"
	NodeCte    NodeKind = "cte"
	NodeColumn NodeKind = "column"
)

// EdgeKind classifies a lineage graph arc.
type EdgeKind string

// EdgeKind values for graph arcs.
const (
	// EdgeDataFlow connects a source relation to the relation it feeds.
	EdgeDataFlow EdgeKind = "data_flow"
	// EdgeDerivation connects source columns to a derived output column.
	EdgeDerivation EdgeKind = "derivation"
	// EdgeOwnership connects a relation to the columns it owns.
	EdgeOwnership EdgeKind = "ownership"
	// EdgeJoinDependency connects two relations combined by a join.
	EdgeJoinDependency EdgeKind = "join_dependency"
	// EdgeCrossStatement connects a producing statement's output table to a
	// later consuming statement.
	EdgeCrossStatement EdgeKind = "cross_statement"
)

// Node is one lineage graph vertex. The id is a pure function of
// (kind, canonical name), so the same logical table referenced in two
// statements always yields the same node id.
type Node struct {
	ID            string            `json:"id"`
	Kind          NodeKind          `json:"kind"`
	Label         string            `json:"label"`
	QualifiedName string            `json:"qualified_name,omitempty"`
	Expression    string            `json:"expression,omitempty"`
	SourceSpan    *token.Span       `json:"source_span,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Filters       []string          `json:"filters,omitempty"`
	JoinKind      string            `json:"join_kind,omitempty"`
	JoinCondition string            `json:"join_condition,omitempty"`
	Aggregation   string            `json:"aggregation,omitempty"`
}

// CanonicalName returns the name that identifies the node: the qualified
// name when set, otherwise the display label.
func (n *Node) CanonicalName() string {
	if n.QualifiedName != "" {
		return n.QualifiedName
	}
	return n.Label
}

// Edge is one lineage graph arc. The id is a pure function of (from, to),
// so a builder never emits two edges with the same endpoints.
type Edge struct {
	ID            string   `json:"id"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	Kind          EdgeKind `json:"kind"`
	Expression    string   `json:"expression,omitempty"`
	Operation     string   `json:"operation,omitempty"`
	JoinKind      string   `json:"join_kind,omitempty"`
	JoinCondition string   `json:"join_condition,omitempty"`
	Aggregation   string   `json:"aggregation,omitempty"`
	// Approximate marks a best-effort mapping, e.g. a wildcard expansion
	// over a table with no known schema.
	Approximate bool `json:"approximate,omitempty"`
	// StatementIndex is the statement that produced the edge. For
	// CrossStatement edges it is the producer's index.
	StatementIndex int `json:"statement_index"`
	// ConsumerIndex is set only on CrossStatement edges: the index of the
	// consuming statement. Always greater than StatementIndex.
	ConsumerIndex int `json:"consumer_index,omitempty"`
}

// OutputColumn is one projected output column of a statement, used to seed
// implied schema for CREATE VIEW / CREATE TABLE AS.
type OutputColumn struct {
	Name string `json:"name"`
	Type string `json:"inferred_type,omitempty"`
}

// StatementLineage is one statement's local analysis result. It is created
// once per statement and immutable after the builder finishes it.
type StatementLineage struct {
	StatementIndex int            `json:"statement_index"`
	SourceName     string         `json:"source_name,omitempty"`
	Nodes          []*Node        `json:"nodes"`
	Edges          []*Edge        `json:"edges"`
	OutputColumns  []OutputColumn `json:"output_columns,omitempty"`
	// Target is the canonical name of the table or view the statement
	// writes (a DDL target or DML write target), empty for pure queries.
	// The global assembler uses it to order produce/consume dependencies.
	Target string `json:"target,omitempty"`
}

// GlobalNode is a merged graph vertex carrying the indices of every
// statement that referenced it.
type GlobalNode struct {
	Node
	StatementRefs []int `json:"statement_refs"`
}

// GlobalLineage is the merged result over all statements: nodes keyed by id
// and edges including synthesized CrossStatement edges. Built once, after
// all statements are processed; never mutated afterward.
type GlobalLineage struct {
	Nodes map[string]*GlobalNode `json:"nodes"`
	Edges []*Edge                `json:"edges"`
}

// SortedNodes returns the merged nodes in a stable order: relations before
// columns, then by canonical name. Reporting and export go through this so
// output does not depend on map iteration.
func (g *GlobalLineage) SortedNodes() []*GlobalNode {
	nodes := make([]*GlobalNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if (a.Kind == NodeColumn) != (b.Kind == NodeColumn) {
			return b.Kind == NodeColumn
		}
		if a.CanonicalName() != b.CanonicalName() {
			return a.CanonicalName() < b.CanonicalName()
		}
		return a.Kind < b.Kind
	})
	return nodes
}

// Summary holds aggregate counts over one analysis run.
type Summary struct {
	Statements int  `json:"statements"`
	Tables     int  `json:"tables"` // distinct table, view, and CTE nodes
	Columns    int  `json:"columns"`
	Edges      int  `json:"edges"`
	Errors     int  `json:"errors"`
	Warnings   int  `json:"warnings"`
	Infos      int  `json:"infos"`
	Hints      int  `json:"hints"`
	HasErrors  bool `json:"has_errors"`
}
