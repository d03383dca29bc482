package lineage

import (
	"testing"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

func crossEdges(g *GlobalLineage) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Kind == EdgeCrossStatement {
			out = append(out, e)
		}
	}
	return out
}

func TestBuildGlobal_MergesNodesAcrossStatements(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE TABLE t (a INTEGER);
		INSERT INTO t SELECT a FROM s;
		SELECT a FROM t`)

	g := BuildGlobal(run.statements)

	var tNode *GlobalNode
	for _, n := range g.Nodes {
		if n.Kind == NodeTable && n.CanonicalName() == "t" {
			tNode = n
		}
	}
	if tNode == nil {
		t.Fatal("no merged node for t")
	}
	if !sameInts(tNode.StatementRefs, []int{0, 1, 2}) {
		t.Errorf("statement refs = %v, want [0 1 2]", tNode.StatementRefs)
	}

	// local edges appear exactly once despite the shared node
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if seen[e.ID] {
			t.Errorf("duplicate global edge %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestBuildGlobal_ForwardOnlyCrossEdges(t *testing.T) {
	t.Run("producer_before_consumer", func(t *testing.T) {
		run := analyzeSQL(t, nil, `
			CREATE TABLE t AS SELECT a FROM src;
			SELECT a FROM t`)

		g := BuildGlobal(run.statements)
		cross := crossEdges(g)
		if len(cross) != 1 {
			t.Fatalf("cross edges = %d, want 1", len(cross))
		}
		e := cross[0]
		if e.StatementIndex != 0 || e.ConsumerIndex != 1 {
			t.Errorf("cross edge producer=%d consumer=%d, want 0 and 1", e.StatementIndex, e.ConsumerIndex)
		}
		if e.From != e.To {
			t.Errorf("cross edge endpoints differ: %s vs %s", e.From, e.To)
		}
	})

	t.Run("consumer_before_producer", func(t *testing.T) {
		run := analyzeSQL(t, nil, `
			SELECT a FROM t;
			CREATE TABLE t AS SELECT a FROM src`)

		g := BuildGlobal(run.statements)
		if cross := crossEdges(g); len(cross) != 0 {
			t.Errorf("cross edges = %d, want 0 for a backward reference", len(cross))
		}
	})

	t.Run("same_statement_never_links", func(t *testing.T) {
		run := analyzeSQL(t, nil, `CREATE TABLE t AS SELECT a FROM src`)

		g := BuildGlobal(run.statements)
		if cross := crossEdges(g); len(cross) != 0 {
			t.Errorf("cross edges = %d, want 0 within one statement", len(cross))
		}
	})
}

func TestBuildGlobal_FirstProducerWins(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE TABLE t AS SELECT a FROM src;
		CREATE TABLE t AS SELECT b FROM other;
		SELECT a FROM t`)

	g := BuildGlobal(run.statements)
	cross := crossEdges(g)

	// the reader at index 2 links back to the first writer only
	if len(cross) != 1 {
		t.Fatalf("cross edges = %d, want 1", len(cross))
	}
	if cross[0].StatementIndex != 0 || cross[0].ConsumerIndex != 2 {
		t.Errorf("cross edge producer=%d consumer=%d, want 0 and 2",
			cross[0].StatementIndex, cross[0].ConsumerIndex)
	}
}

func TestBuildGlobal_DMLTargetIsProducer(t *testing.T) {
	run := analyzeSQL(t, nil, `
		INSERT INTO audit SELECT id FROM users;
		SELECT id FROM audit`)

	g := BuildGlobal(run.statements)
	cross := crossEdges(g)
	if len(cross) != 1 {
		t.Fatalf("cross edges = %d, want 1", len(cross))
	}
	if cross[0].StatementIndex != 0 || cross[0].ConsumerIndex != 1 {
		t.Errorf("cross edge producer=%d consumer=%d, want 0 and 1",
			cross[0].StatementIndex, cross[0].ConsumerIndex)
	}
}

func TestBuildGlobal_SortedNodesStable(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE TABLE b (x INTEGER);
		CREATE TABLE a (y INTEGER)`)

	g := BuildGlobal(run.statements)
	nodes := g.SortedNodes()
	if len(nodes) != 4 {
		t.Fatalf("sorted nodes = %d, want 4", len(nodes))
	}

	// relations sort before columns, each group by canonical name
	wantOrder := []string{"a", "b", "a.y", "b.x"}
	for i, n := range nodes {
		if n.CanonicalName() != wantOrder[i] {
			t.Errorf("position %d = %q, want %q", i, n.CanonicalName(), wantOrder[i])
		}
	}
}

func TestBuildSummary_Counts(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE TABLE t (a INTEGER);
		INSERT INTO t SELECT a FROM s;
		SELECT a FROM t`)

	g := BuildGlobal(run.statements)
	issues := []core.Issue{
		core.NewIssue(core.SeverityError, core.IssueParseError, "boom"),
		core.NewIssue(core.SeverityWarning, core.IssueSchemaConflict, "w1"),
		core.NewIssue(core.SeverityWarning, core.IssueSetOpMismatch, "w2"),
		core.NewIssue(core.SeverityInfo, core.IssueUnresolvedReference, "i1"),
	}
	s := BuildSummary(run.statements, g, issues)

	if s.Statements != 3 {
		t.Errorf("statements = %d, want 3", s.Statements)
	}
	// relations: t and s; columns: t.a
	if s.Tables != 2 {
		t.Errorf("tables = %d, want 2", s.Tables)
	}
	if s.Columns != 1 {
		t.Errorf("columns = %d, want 1", s.Columns)
	}
	if s.Edges != len(g.Edges) {
		t.Errorf("edges = %d, want %d", s.Edges, len(g.Edges))
	}
	if s.Errors != 1 || s.Warnings != 2 || s.Infos != 1 || s.Hints != 0 {
		t.Errorf("severity counts = %d/%d/%d/%d, want 1/2/1/0", s.Errors, s.Warnings, s.Infos, s.Hints)
	}
	if !s.HasErrors {
		t.Error("HasErrors = false with one error")
	}
}

func TestBuildSummary_EmptyRun(t *testing.T) {
	s := BuildSummary(nil, BuildGlobal(nil), nil)
	if s.Statements != 0 || s.Tables != 0 || s.Columns != 0 || s.Edges != 0 || s.HasErrors {
		t.Errorf("empty summary = %+v", s)
	}
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
