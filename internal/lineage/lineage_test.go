package lineage

import (
	"testing"

	"github.com/sqlweave-labs/sqlweave/internal/registry"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
	"github.com/sqlweave-labs/sqlweave/pkg/parser"

	// Import the ansi dialect so it registers itself
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/ansi"
)

// =============================================================================
// Test Helpers
// =============================================================================

// analysisRun holds everything one test script produced.
type analysisRun struct {
	statements []*StatementLineage
	issues     []core.Issue
	registry   *registry.SchemaRegistry
}

// analyzeSQL parses and analyzes a script under the ansi dialect. Every
// statement must parse; tests exercising parse failures go through the
// parser package directly.
func analyzeSQL(t *testing.T, meta *core.SchemaMetadata, sql string) *analysisRun {
	t.Helper()

	d, ok := dialect.Get("ansi")
	if !ok {
		t.Fatal("ansi dialect not registered")
	}
	if meta == nil {
		meta = &core.SchemaMetadata{}
	}

	reg := registry.NewSchemaRegistry(!meta.DisableImplied)
	reg.RegisterImported(meta.Tables)
	b := NewBuilder(d, meta, reg, nil)

	run := &analysisRun{registry: reg}
	script := parser.ParseScript(sql, d)
	for _, st := range script.Statements {
		if len(st.Errors) > 0 {
			t.Fatalf("statement %d failed to parse: %v\nsql: %s", st.Index, st.Errors[0], st.Raw)
		}
		sl, issues := b.BuildStatement(st.Stmt, st.Index, "test.sql")
		run.statements = append(run.statements, sl)
		run.issues = append(run.issues, issues...)
	}
	return run
}

// stmt returns statement i, failing the test on an out-of-range index.
func (r *analysisRun) stmt(t *testing.T, i int) *StatementLineage {
	t.Helper()
	if i >= len(r.statements) {
		t.Fatalf("no statement %d, script has %d", i, len(r.statements))
	}
	return r.statements[i]
}

func findNode(nodes []*Node, kind NodeKind, canonical string) *Node {
	for _, n := range nodes {
		if n.Kind == kind && n.CanonicalName() == canonical {
			return n
		}
	}
	return nil
}

func mustNode(t *testing.T, nodes []*Node, kind NodeKind, canonical string) *Node {
	t.Helper()
	n := findNode(nodes, kind, canonical)
	if n == nil {
		t.Fatalf("no %s node %q; have %s", kind, canonical, nodeNames(nodes))
	}
	return n
}

func nodeNames(nodes []*Node) string {
	out := ""
	for i, n := range nodes {
		if i > 0 {
			out += ", "
		}
		out += string(n.Kind) + ":" + n.CanonicalName()
	}
	return "[" + out + "]"
}

func findEdge(edges []*Edge, from, to *Node, kind EdgeKind) *Edge {
	for _, e := range edges {
		if e.Kind == kind && e.From == from.ID && e.To == to.ID {
			return e
		}
	}
	return nil
}

func mustEdge(t *testing.T, edges []*Edge, from, to *Node, kind EdgeKind) *Edge {
	t.Helper()
	e := findEdge(edges, from, to, kind)
	if e == nil {
		t.Fatalf("no %s edge %s -> %s", kind, from.CanonicalName(), to.CanonicalName())
	}
	return e
}

func countEdges(edges []*Edge, kind EdgeKind) int {
	n := 0
	for _, e := range edges {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func issuesWithCode(issues []core.Issue, code string) []core.Issue {
	var out []core.Issue
	for _, i := range issues {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}

func outputNames(cols []OutputColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func sameStrings(a, b []string) bool {
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

// table builds an imported schema table with untyped columns.
func table(schema, name string, cols ...string) core.SchemaTable {
	t := core.SchemaTable{Schema: schema, Name: name}
	for _, c := range cols {
		t.Columns = append(t.Columns, core.SchemaColumn{Name: c})
	}
	return t
}

// =============================================================================
// DDL Statements
// =============================================================================

func TestCreateView_ImpliesSchemaAndFlow(t *testing.T) {
	run := analyzeSQL(t, nil, `CREATE VIEW v AS SELECT id FROM users`)

	sl := run.stmt(t, 0)
	if len(sl.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %s", nodeNames(sl.Nodes))
	}
	view := mustNode(t, sl.Nodes, NodeView, "v")
	src := mustNode(t, sl.Nodes, NodeTable, "users")

	if len(sl.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(sl.Edges))
	}
	edge := mustEdge(t, sl.Edges, src, view, EdgeDataFlow)
	if edge.Operation != "CREATE VIEW" {
		t.Errorf("operation = %q, want CREATE VIEW", edge.Operation)
	}

	if sl.Target != "v" {
		t.Errorf("target = %q, want v", sl.Target)
	}
	if got := outputNames(sl.OutputColumns); !sameStrings(got, []string{"id"}) {
		t.Errorf("output columns = %v, want [id]", got)
	}

	entry, ok := run.registry.Get("v")
	if !ok {
		t.Fatal("no implied registry entry for v")
	}
	if entry.Origin != core.OriginImplied || !entry.View {
		t.Errorf("entry origin=%s view=%v, want implied view", entry.Origin, entry.View)
	}
	if got := entry.Table.ColumnNames(); !sameStrings(got, []string{"id"}) {
		t.Errorf("implied columns = %v, want [id]", got)
	}

	// no imported metadata: unknown references stay silent
	if len(run.issues) != 0 {
		t.Errorf("expected no issues, got %v", run.issues)
	}
}

func TestCreateView_LaterReferenceIsViewNode(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE VIEW v AS SELECT id FROM users;
		SELECT id FROM v`)

	sl := run.stmt(t, 1)
	view := mustNode(t, sl.Nodes, NodeView, "v")

	// the reading statement binds the same node id as the defining one
	defining := mustNode(t, run.stmt(t, 0).Nodes, NodeView, "v")
	if view.ID != defining.ID {
		t.Errorf("view node ids differ across statements: %s vs %s", view.ID, defining.ID)
	}
}

func TestCreateTable_ColumnNodesFromRegistry(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			user_id INTEGER REFERENCES users (id),
			total NUMERIC
		)`)

	sl := run.stmt(t, 0)
	tbl := mustNode(t, sl.Nodes, NodeTable, "orders")
	id := mustNode(t, sl.Nodes, NodeColumn, "orders.id")
	userID := mustNode(t, sl.Nodes, NodeColumn, "orders.user_id")
	mustNode(t, sl.Nodes, NodeColumn, "orders.total")

	mustEdge(t, sl.Edges, tbl, id, EdgeOwnership)
	if countEdges(sl.Edges, EdgeOwnership) != 3 {
		t.Errorf("ownership edges = %d, want 3", countEdges(sl.Edges, EdgeOwnership))
	}

	if id.Metadata["primary_key"] != "true" {
		t.Errorf("orders.id metadata = %v, want primary_key=true", id.Metadata)
	}
	if userID.Metadata["references"] != "users" {
		t.Errorf("orders.user_id metadata = %v, want references=users", userID.Metadata)
	}

	entry, ok := run.registry.Get("orders")
	if !ok {
		t.Fatal("no registry entry for orders")
	}
	if got := entry.Table.ColumnNames(); !sameStrings(got, []string{"id", "user_id", "total"}) {
		t.Errorf("implied columns = %v", got)
	}
}

func TestCreateTable_CompositeConstraints(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE TABLE line_items (
			order_id INTEGER,
			line_no INTEGER,
			sku VARCHAR(32),
			PRIMARY KEY (order_id, line_no),
			FOREIGN KEY (sku) REFERENCES products (sku)
		)`)

	entry, ok := run.registry.Get("line_items")
	if !ok {
		t.Fatal("no registry entry for line_items")
	}
	byName := make(map[string]core.SchemaColumn)
	for _, c := range entry.Table.Columns {
		byName[c.Name] = c
	}
	if !byName["order_id"].PrimaryKey || !byName["line_no"].PrimaryKey {
		t.Error("composite primary key columns not marked primary")
	}
	if byName["sku"].PrimaryKey {
		t.Error("sku wrongly marked primary")
	}
	if byName["sku"].References != "products" {
		t.Errorf("sku references = %q, want products", byName["sku"].References)
	}
}

func TestCreateTableAs_RenamesProjection(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id", "name")}}
	run := analyzeSQL(t, meta, `CREATE TABLE t2 (x, y) AS SELECT id, name FROM users`)

	sl := run.stmt(t, 0)
	if got := outputNames(sl.OutputColumns); !sameStrings(got, []string{"x", "y"}) {
		t.Errorf("output columns = %v, want [x y]", got)
	}

	entry, ok := run.registry.Get("t2")
	if !ok {
		t.Fatal("no registry entry for t2")
	}
	if got := entry.Table.ColumnNames(); !sameStrings(got, []string{"x", "y"}) {
		t.Errorf("implied columns = %v, want [x y]", got)
	}

	target := mustNode(t, sl.Nodes, NodeTable, "t2")
	src := mustNode(t, sl.Nodes, NodeTable, "users")
	edge := mustEdge(t, sl.Edges, src, target, EdgeDataFlow)
	if edge.Operation != "CREATE TABLE AS" {
		t.Errorf("operation = %q, want CREATE TABLE AS", edge.Operation)
	}
}

func TestCreateTable_ConflictKeepsImportedSchema(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "t", "a", "b")}}
	run := analyzeSQL(t, meta, `CREATE TABLE t (a INTEGER, b INTEGER, c INTEGER)`)

	conflicts := issuesWithCode(run.issues, core.IssueSchemaConflict)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 schema conflict, got %d (%v)", len(conflicts), run.issues)
	}
	if conflicts[0].Severity != core.SeverityWarning {
		t.Errorf("severity = %s, want warning", conflicts[0].Severity)
	}
	if conflicts[0].StatementIndex == nil || *conflicts[0].StatementIndex != 0 {
		t.Errorf("statement index = %v, want 0", conflicts[0].StatementIndex)
	}

	entry, _ := run.registry.Get("t")
	if got := entry.Table.ColumnNames(); !sameStrings(got, []string{"a", "b"}) {
		t.Errorf("registry columns = %v, imported schema must win", got)
	}

	// column nodes come from the registry, so the declared extra column
	// never materializes
	sl := run.stmt(t, 0)
	if n := findNode(sl.Nodes, NodeColumn, "t.c"); n != nil {
		t.Error("column node t.c exists despite imported schema winning")
	}
	mustNode(t, sl.Nodes, NodeColumn, "t.a")
}

// =============================================================================
// Query Analysis
// =============================================================================

func TestSelect_StarExpandsImportedSchema(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id", "name")}}
	run := analyzeSQL(t, meta, `CREATE VIEW v AS SELECT * FROM users`)

	sl := run.stmt(t, 0)
	if got := outputNames(sl.OutputColumns); !sameStrings(got, []string{"id", "name"}) {
		t.Errorf("output columns = %v, want [id name]", got)
	}
	entry, _ := run.registry.Get("v")
	if got := entry.Table.ColumnNames(); !sameStrings(got, []string{"id", "name"}) {
		t.Errorf("implied columns = %v, want [id name]", got)
	}
	if len(run.issues) != 0 {
		t.Errorf("unexpected issues: %v", run.issues)
	}
}

func TestSelect_StarOverUnknownSource(t *testing.T) {
	run := analyzeSQL(t, nil, `CREATE VIEW v AS SELECT * FROM mystery`)

	sl := run.stmt(t, 0)
	src := mustNode(t, sl.Nodes, NodeTable, "mystery")
	star := mustNode(t, sl.Nodes, NodeColumn, "mystery.*")
	if star.Metadata["approximate"] != "true" {
		t.Error("star placeholder not marked approximate")
	}
	edge := mustEdge(t, sl.Edges, src, star, EdgeOwnership)
	if !edge.Approximate {
		t.Error("star ownership edge not approximate")
	}

	// placeholders carry no usable names, so nothing registers
	if entry, ok := run.registry.Get("v"); ok && len(entry.Table.Columns) > 0 {
		t.Errorf("implied schema from a wildcard over unknown source: %v", entry.Table.Columns)
	}
}

func TestSelect_DerivedColumnWithAggregation(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id", "amount")}}
	run := analyzeSQL(t, meta, `SELECT SUM(amount) AS total FROM users`)

	sl := run.stmt(t, 0)
	users := mustNode(t, sl.Nodes, NodeTable, "users")
	amount := mustNode(t, sl.Nodes, NodeColumn, "users.amount")
	total := mustNode(t, sl.Nodes, NodeColumn, "total")

	if total.Expression != "SUM(amount)" {
		t.Errorf("expression = %q, want SUM(amount)", total.Expression)
	}
	if total.Aggregation != "sum" {
		t.Errorf("aggregation = %q, want sum", total.Aggregation)
	}

	mustEdge(t, sl.Edges, users, amount, EdgeOwnership)
	deriv := mustEdge(t, sl.Edges, amount, total, EdgeDerivation)
	if deriv.Aggregation != "sum" {
		t.Errorf("derivation aggregation = %q, want sum", deriv.Aggregation)
	}

	if sl.Target != "" {
		t.Errorf("bare select has target %q", sl.Target)
	}
}

func TestSelect_OriginsSurviveCTEHop(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id")}}
	run := analyzeSQL(t, meta, `
		CREATE VIEW v AS
		WITH base AS (SELECT id FROM users)
		SELECT UPPER(id) AS uid FROM base`)

	sl := run.stmt(t, 0)
	mustNode(t, sl.Nodes, NodeCte, "base")
	usersID := mustNode(t, sl.Nodes, NodeColumn, "users.id")
	uid := mustNode(t, sl.Nodes, NodeColumn, "uid")

	// the derivation reaches through the CTE to the physical column
	mustEdge(t, sl.Edges, usersID, uid, EdgeDerivation)

	entry, _ := run.registry.Get("v")
	if got := entry.Table.ColumnNames(); !sameStrings(got, []string{"uid"}) {
		t.Errorf("implied columns = %v, want [uid]", got)
	}
}

func TestSelect_OriginsSurviveDerivedTable(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id", "amount")}}
	run := analyzeSQL(t, meta, `SELECT s.total FROM (SELECT SUM(amount) AS total FROM users) AS s`)

	sl := run.stmt(t, 0)
	mustNode(t, sl.Nodes, NodeTable, "users")
	mustNode(t, sl.Nodes, NodeColumn, "users.amount")
	mustNode(t, sl.Nodes, NodeColumn, "total")

	// derived tables own no node; only their contents appear
	if n := findNode(sl.Nodes, NodeTable, "s"); n != nil {
		t.Error("derived table alias materialized as a node")
	}
	if got := outputNames(sl.OutputColumns); !sameStrings(got, []string{"total"}) {
		t.Errorf("output columns = %v, want [total]", got)
	}
}

func TestSelect_JoinDependencies(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{
		table("", "orders", "id", "user_id"),
		table("", "users", "id"),
	}}
	run := analyzeSQL(t, meta, `
		SELECT orders.id FROM orders
		LEFT JOIN users ON orders.user_id = users.id`)

	sl := run.stmt(t, 0)
	orders := mustNode(t, sl.Nodes, NodeTable, "orders")
	users := mustNode(t, sl.Nodes, NodeTable, "users")

	join := mustEdge(t, sl.Edges, orders, users, EdgeJoinDependency)
	if join.JoinKind != "LEFT" {
		t.Errorf("join kind = %q, want LEFT", join.JoinKind)
	}
	if join.JoinCondition != "orders.user_id = users.id" {
		t.Errorf("join condition = %q", join.JoinCondition)
	}
	if users.JoinKind != "LEFT" {
		t.Errorf("joined node kind = %q, want LEFT", users.JoinKind)
	}
}

func TestSelect_WhereFilterRecorded(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id", "active")}}
	run := analyzeSQL(t, meta, `SELECT id FROM users WHERE active = TRUE`)

	users := mustNode(t, run.stmt(t, 0).Nodes, NodeTable, "users")
	if len(users.Filters) != 1 || users.Filters[0] != "active = TRUE" {
		t.Errorf("filters = %v, want [active = TRUE]", users.Filters)
	}
}

func TestSelect_SetOperationMismatch(t *testing.T) {
	run := analyzeSQL(t, nil, `SELECT a, b FROM t UNION SELECT c FROM u`)

	warnings := issuesWithCode(run.issues, core.IssueSetOpMismatch)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 mismatch warning, got %v", run.issues)
	}
	if warnings[0].Severity != core.SeverityWarning {
		t.Errorf("severity = %s, want warning", warnings[0].Severity)
	}

	// analysis continues with the shorter branch
	if got := outputNames(run.stmt(t, 0).OutputColumns); !sameStrings(got, []string{"a"}) {
		t.Errorf("output columns = %v, want [a]", got)
	}
}

func TestSelect_SetOperationMergesOrigins(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{
		table("", "t1", "id"),
		table("", "t2", "id"),
	}}
	run := analyzeSQL(t, meta, `CREATE VIEW both AS SELECT id FROM t1 UNION ALL SELECT id FROM t2`)

	sl := run.stmt(t, 0)
	view := mustNode(t, sl.Nodes, NodeView, "both")
	mustEdge(t, sl.Edges, mustNode(t, sl.Nodes, NodeTable, "t1"), view, EdgeDataFlow)
	mustEdge(t, sl.Edges, mustNode(t, sl.Nodes, NodeTable, "t2"), view, EdgeDataFlow)

	if len(run.issues) != 0 {
		t.Errorf("unexpected issues: %v", run.issues)
	}
}

func TestSelect_RecursiveCTE(t *testing.T) {
	run := analyzeSQL(t, nil, `
		WITH RECURSIVE seq AS (
			SELECT 1 AS n
			UNION ALL
			SELECT n + 1 FROM seq
		)
		SELECT n FROM seq`)

	sl := run.stmt(t, 0)
	mustNode(t, sl.Nodes, NodeCte, "seq")
	if got := outputNames(sl.OutputColumns); !sameStrings(got, []string{"n"}) {
		t.Errorf("output columns = %v, want [n]", got)
	}
	if len(run.issues) != 0 {
		t.Errorf("unexpected issues: %v", run.issues)
	}
}

func TestSelect_ScalarSubqueryOrigins(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{
		table("", "t", "a"),
		table("", "users", "id"),
	}}
	run := analyzeSQL(t, meta, `SELECT (SELECT MAX(id) FROM users) AS top_id FROM t`)

	sl := run.stmt(t, 0)
	mustNode(t, sl.Nodes, NodeTable, "users")
	topID := mustNode(t, sl.Nodes, NodeColumn, "top_id")
	inner := mustNode(t, sl.Nodes, NodeColumn, "max")
	mustEdge(t, sl.Edges, inner, topID, EdgeDerivation)
}

func TestSelect_TableFunctionSource(t *testing.T) {
	run := analyzeSQL(t, nil, `SELECT a FROM read_csv('data.csv') AS r (a, b)`)

	sl := run.stmt(t, 0)
	var fn *Node
	for _, n := range sl.Nodes {
		if n.Kind == NodeTable && n.Label == "read_csv" {
			fn = n
		}
	}
	if fn == nil {
		t.Fatalf("no table function node; have %s", nodeNames(sl.Nodes))
	}
	if fn.Metadata["approximate"] != "true" {
		t.Error("table function node not marked approximate")
	}
	if got := outputNames(sl.OutputColumns); !sameStrings(got, []string{"a"}) {
		t.Errorf("output columns = %v, want [a]", got)
	}
}

// =============================================================================
// Identifier Handling
// =============================================================================

func TestQuotedIdentifiersPreserveCase(t *testing.T) {
	run := analyzeSQL(t, nil, `
		CREATE VIEW "V" AS SELECT "Id" FROM "Users";
		CREATE VIEW v2 AS SELECT Id FROM Users`)

	quoted := run.stmt(t, 0)
	mustNode(t, quoted.Nodes, NodeView, "V")
	mustNode(t, quoted.Nodes, NodeTable, "Users")
	if got := outputNames(quoted.OutputColumns); !sameStrings(got, []string{"Id"}) {
		t.Errorf("quoted output = %v, want [Id]", got)
	}

	folded := run.stmt(t, 1)
	mustNode(t, folded.Nodes, NodeView, "v2")
	mustNode(t, folded.Nodes, NodeTable, "users")
	if got := outputNames(folded.OutputColumns); !sameStrings(got, []string{"id"}) {
		t.Errorf("folded output = %v, want [id]", got)
	}
}

func TestSearchPathResolution(t *testing.T) {
	meta := &core.SchemaMetadata{
		DefaultSchema: "s1",
		SearchPath:    []string{"s2", "s1"},
		Tables: []core.SchemaTable{
			table("s1", "foo", "a"),
			table("s2", "bar", "b"),
			table("s1", "bar", "b"),
		},
	}
	run := analyzeSQL(t, meta, `
		SELECT a FROM foo;
		SELECT b FROM bar`)

	// foo misses s2, lands on s1
	mustNode(t, run.stmt(t, 0).Nodes, NodeTable, "s1.foo")
	// bar exists in both; the earlier search path entry wins
	mustNode(t, run.stmt(t, 1).Nodes, NodeTable, "s2.bar")

	if len(run.issues) != 0 {
		t.Errorf("unexpected issues: %v", run.issues)
	}
}

// =============================================================================
// Issue Gating
// =============================================================================

func TestUnresolvedReference_GatedOnMetadata(t *testing.T) {
	t.Run("no_metadata_stays_silent", func(t *testing.T) {
		run := analyzeSQL(t, nil, `SELECT x FROM ghost`)
		if len(run.issues) != 0 {
			t.Errorf("expected no issues without metadata, got %v", run.issues)
		}
	})

	t.Run("with_metadata_reports_info", func(t *testing.T) {
		meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id")}}
		run := analyzeSQL(t, meta, `SELECT x FROM ghost`)

		infos := issuesWithCode(run.issues, core.IssueUnresolvedReference)
		if len(infos) != 1 {
			t.Fatalf("expected 1 unresolved reference, got %v", run.issues)
		}
		if infos[0].Severity != core.SeverityInfo {
			t.Errorf("severity = %s, want info", infos[0].Severity)
		}
	})

	t.Run("known_tables_never_report", func(t *testing.T) {
		meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id")}}
		run := analyzeSQL(t, meta, `SELECT id FROM users`)
		if len(run.issues) != 0 {
			t.Errorf("unexpected issues: %v", run.issues)
		}
	})
}

// =============================================================================
// DML Statements
// =============================================================================

func TestInsert_FlowsIntoTarget(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{
		table("", "users", "id", "name"),
		table("", "audit", "id"),
	}}
	run := analyzeSQL(t, meta, `INSERT INTO audit SELECT id FROM users`)

	sl := run.stmt(t, 0)
	if sl.Target != "audit" {
		t.Errorf("target = %q, want audit", sl.Target)
	}
	target := mustNode(t, sl.Nodes, NodeTable, "audit")
	src := mustNode(t, sl.Nodes, NodeTable, "users")
	edge := mustEdge(t, sl.Edges, src, target, EdgeDataFlow)
	if edge.Operation != "INSERT" {
		t.Errorf("operation = %q, want INSERT", edge.Operation)
	}

	// DML never writes implied schema
	entry, _ := run.registry.Get("audit")
	if entry.Origin != core.OriginImported {
		t.Errorf("audit origin = %s, want imported", entry.Origin)
	}
}

func TestUpdate_RecordsFilterOnTarget(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "users", "id", "name")}}
	run := analyzeSQL(t, meta, `UPDATE users SET name = 'anon' WHERE id = 7`)

	sl := run.stmt(t, 0)
	if sl.Target != "users" {
		t.Errorf("target = %q, want users", sl.Target)
	}
	users := mustNode(t, sl.Nodes, NodeTable, "users")
	if len(users.Filters) != 1 || users.Filters[0] != "id = 7" {
		t.Errorf("filters = %v, want [id = 7]", users.Filters)
	}
	if len(sl.Edges) != 0 {
		t.Errorf("expected no edges for a sourceless update, got %d", len(sl.Edges))
	}
}

func TestDelete_UsingSourceFlows(t *testing.T) {
	meta := &core.SchemaMetadata{Tables: []core.SchemaTable{
		table("", "audit", "id"),
		table("", "users", "id"),
	}}
	run := analyzeSQL(t, meta, `DELETE FROM audit USING users WHERE audit.id = users.id`)

	sl := run.stmt(t, 0)
	target := mustNode(t, sl.Nodes, NodeTable, "audit")
	src := mustNode(t, sl.Nodes, NodeTable, "users")
	edge := mustEdge(t, sl.Edges, src, target, EdgeDataFlow)
	if edge.Operation != "DELETE" {
		t.Errorf("operation = %q, want DELETE", edge.Operation)
	}
	if len(target.Filters) != 1 || target.Filters[0] != "audit.id = users.id" {
		t.Errorf("target filters = %v", target.Filters)
	}
	if len(src.Filters) != 1 {
		t.Errorf("source filters = %v", src.Filters)
	}
}

func TestRawStatement_ContributesNothing(t *testing.T) {
	run := analyzeSQL(t, nil, `DROP TABLE t`)

	sl := run.stmt(t, 0)
	if len(sl.Nodes) != 0 || len(sl.Edges) != 0 || sl.Target != "" {
		t.Errorf("raw statement produced lineage: %s", nodeNames(sl.Nodes))
	}
	if len(run.issues) != 0 {
		t.Errorf("unexpected issues: %v", run.issues)
	}
}

// =============================================================================
// Graph Invariants
// =============================================================================

func TestGraph_NoDuplicateEdges(t *testing.T) {
	run := analyzeSQL(t, nil, `CREATE VIEW v AS SELECT a FROM t UNION ALL SELECT a FROM t`)

	sl := run.stmt(t, 0)
	if len(sl.Nodes) != 2 {
		t.Fatalf("expected deduplicated nodes, got %s", nodeNames(sl.Nodes))
	}
	if countEdges(sl.Edges, EdgeDataFlow) != 1 {
		t.Errorf("data flow edges = %d, want 1", countEdges(sl.Edges, EdgeDataFlow))
	}

	seen := make(map[string]bool)
	for _, e := range sl.Edges {
		if seen[e.ID] {
			t.Errorf("duplicate edge id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestGraph_Deterministic(t *testing.T) {
	meta := func() *core.SchemaMetadata {
		return &core.SchemaMetadata{Tables: []core.SchemaTable{table("", "staging", "id", "val")}}
	}
	script := `
		CREATE TABLE base (id INTEGER, val VARCHAR(20));
		CREATE VIEW agg AS SELECT id, COUNT(*) AS cnt FROM base GROUP BY id;
		INSERT INTO base SELECT id, val FROM staging`

	first := analyzeSQL(t, meta(), script)
	second := analyzeSQL(t, meta(), script)

	firstIDs := graphIDs(first.statements)
	secondIDs := graphIDs(second.statements)
	if !sameStrings(firstIDs, secondIDs) {
		t.Errorf("graph ids differ between identical runs:\n%v\n%v", firstIDs, secondIDs)
	}

	g1 := BuildGlobal(first.statements)
	g2 := BuildGlobal(second.statements)
	if len(g1.Nodes) != len(g2.Nodes) || len(g1.Edges) != len(g2.Edges) {
		t.Errorf("global graphs differ: %d/%d nodes, %d/%d edges",
			len(g1.Nodes), len(g2.Nodes), len(g1.Edges), len(g2.Edges))
	}
	for i := range g1.Edges {
		if g1.Edges[i].ID != g2.Edges[i].ID {
			t.Errorf("global edge %d differs: %s vs %s", i, g1.Edges[i].ID, g2.Edges[i].ID)
		}
	}
}

func graphIDs(statements []*StatementLineage) []string {
	var ids []string
	for _, sl := range statements {
		for _, n := range sl.Nodes {
			ids = append(ids, n.ID)
		}
		for _, e := range sl.Edges {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
