package lineage

import (
	"sort"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// BuildGlobal merges per-statement lineage into one graph. Nodes with the
// same id collapse into a single vertex that remembers every statement
// touching it; edges are deduplicated by id. On top of the merged graph it
// synthesizes CrossStatement edges: one per (producer, consumer) statement
// pair that shares a relation, always pointing forward in statement order.
func BuildGlobal(statements []*StatementLineage) *GlobalLineage {
	g := &GlobalLineage{Nodes: make(map[string]*GlobalNode)}
	edgeIDs := make(map[string]struct{})

	// producers records, per canonical relation name, the first statement
	// that wrote it. Re-created relations keep the first writer: the edge
	// set stays stable no matter how often a script re-runs its DDL.
	type producer struct {
		index  int
		nodeID string
	}
	producers := make(map[string]producer)

	for _, stmt := range statements {
		for _, n := range stmt.Nodes {
			if existing, ok := g.Nodes[n.ID]; ok {
				existing.StatementRefs = appendRef(existing.StatementRefs, stmt.StatementIndex)
				continue
			}
			g.Nodes[n.ID] = &GlobalNode{Node: *n, StatementRefs: []int{stmt.StatementIndex}}
		}
		for _, e := range stmt.Edges {
			if _, ok := edgeIDs[e.ID]; ok {
				continue
			}
			edgeIDs[e.ID] = struct{}{}
			dup := *e
			g.Edges = append(g.Edges, &dup)
		}

		if stmt.Target == "" {
			continue
		}
		if _, ok := producers[stmt.Target]; !ok {
			if id := relationNodeID(stmt, stmt.Target); id != "" {
				producers[stmt.Target] = producer{index: stmt.StatementIndex, nodeID: id}
			}
		}
	}

	for _, stmt := range statements {
		for _, name := range consumedRelations(stmt) {
			prod, ok := producers[name]
			if !ok || stmt.StatementIndex <= prod.index {
				continue
			}
			id := crossEdgeID(prod.nodeID, prod.nodeID, prod.index, stmt.StatementIndex)
			if _, seen := edgeIDs[id]; seen {
				continue
			}
			edgeIDs[id] = struct{}{}
			g.Edges = append(g.Edges, &Edge{
				ID:             id,
				From:           prod.nodeID,
				To:             prod.nodeID,
				Kind:           EdgeCrossStatement,
				StatementIndex: prod.index,
				ConsumerIndex:  stmt.StatementIndex,
			})
		}
	}

	return g
}

// relationNodeID finds the table or view node carrying the given canonical
// name within one statement's local graph.
func relationNodeID(stmt *StatementLineage, canonical string) string {
	for _, n := range stmt.Nodes {
		if n.Kind != NodeTable && n.Kind != NodeView {
			continue
		}
		if n.CanonicalName() == canonical {
			return n.ID
		}
	}
	return ""
}

// consumedRelations lists the canonical names of tables and views a
// statement reads, sorted so edge emission order never depends on graph
// construction order. The statement's own write target is excluded: a
// statement does not consume what it just produced.
func consumedRelations(stmt *StatementLineage) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, n := range stmt.Nodes {
		if n.Kind != NodeTable && n.Kind != NodeView {
			continue
		}
		name := n.CanonicalName()
		if name == "" || name == stmt.Target {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// appendRef appends idx to refs unless already present. Refs arrive in
// statement order, so a linear scan of a short list is enough.
func appendRef(refs []int, idx int) []int {
	for _, r := range refs {
		if r == idx {
			return refs
		}
	}
	return append(refs, idx)
}

// BuildSummary computes aggregate counts over a finished run.
func BuildSummary(statements []*StatementLineage, global *GlobalLineage, issues []core.Issue) Summary {
	s := Summary{Statements: len(statements)}

	if global != nil {
		for _, n := range global.Nodes {
			switch n.Kind {
			case NodeTable, NodeView, NodeCte:
				s.Tables++
			case NodeColumn:
				s.Columns++
			}
		}
		s.Edges = len(global.Edges)
	}

	for _, issue := range issues {
		switch issue.Severity {
		case core.SeverityError:
			s.Errors++
		case core.SeverityWarning:
			s.Warnings++
		case core.SeverityInfo:
			s.Infos++
		case core.SeverityHint:
			s.Hints++
		}
	}
	s.HasErrors = s.Errors > 0
	return s
}
