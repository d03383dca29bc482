package lineage

import (
	"fmt"
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/internal/registry"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// Builder turns parsed statements into per-statement lineage graphs. The
// registry carries everything shared between statements, so one Builder
// serves a whole run as long as statements are fed in index order: later
// statements resolve against schema the earlier ones implied.
type Builder struct {
	dialect  *dialect.Dialect
	meta     *core.SchemaMetadata
	registry *registry.SchemaRegistry
	resolver *TableResolver
	logger   *slog.Logger

	// reportUnresolved gates UNRESOLVED_REFERENCE issues. Without imported
	// metadata every external table would miss, so the issues would be
	// noise rather than signal.
	reportUnresolved bool
}

// NewBuilder creates a builder for one analysis run. meta and logger may be
// nil.
func NewBuilder(d *dialect.Dialect, meta *core.SchemaMetadata, reg *registry.SchemaRegistry, logger *slog.Logger) *Builder {
	if meta == nil {
		meta = &core.SchemaMetadata{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		dialect:          d,
		meta:             meta,
		registry:         reg,
		resolver:         NewTableResolver(d, meta, reg),
		logger:           logger,
		reportUnresolved: len(meta.Tables) > 0,
	}
}

// Resolver returns the run's table resolver.
func (b *Builder) Resolver() *TableResolver {
	return b.resolver
}

// BuildStatement analyzes one statement and returns its local lineage plus
// any issues raised along the way. The switch covers the full closed
// statement set from pkg/core.
func (b *Builder) BuildStatement(stmt core.Stmt, index int, sourceName string) (*StatementLineage, []core.Issue) {
	sb := &stmtBuilder{Builder: b, index: index, sink: newGraphSink()}

	var target string
	var out []OutputColumn

	switch s := stmt.(type) {
	case *core.SelectStmt:
		out = toOutputColumns(sb.analyzeQuery(s, nil))
	case *core.CreateTableStmt:
		target, out = sb.buildCreateTable(s)
	case *core.CreateViewStmt:
		target, out = sb.buildCreateView(s)
	case *core.InsertStmt:
		target = sb.buildInsert(s)
	case *core.UpdateStmt:
		target = sb.buildUpdate(s)
	case *core.DeleteStmt:
		target = sb.buildDelete(s)
	case *core.RawStmt:
		// recognized but unmodeled: contributes nothing to the graph
	default:
		b.logger.Warn("unhandled statement variant", "type", fmt.Sprintf("%T", stmt), "index", index)
	}

	b.logger.Debug("statement analyzed",
		"index", index,
		"source", sourceName,
		"nodes", len(sb.sink.nodes),
		"edges", len(sb.sink.edges),
		"issues", len(sb.issues))

	return &StatementLineage{
		StatementIndex: index,
		SourceName:     sourceName,
		Nodes:          sb.sink.nodes,
		Edges:          sb.sink.edges,
		OutputColumns:  out,
		Target:         target,
	}, sb.issues
}

// stmtBuilder accumulates one statement's nodes, edges, and issues.
type stmtBuilder struct {
	*Builder

	index    int
	sink     *graphSink
	issues   []core.Issue
	anonCols int
}

// ---------- DDL ----------

// buildCreateTable handles both the definition form and CREATE TABLE AS.
func (sb *stmtBuilder) buildCreateTable(s *core.CreateTableStmt) (string, []OutputColumn) {
	if s.Name == nil {
		return "", nil
	}
	res := sb.resolver.ResolveParts(s.Name.Parts)
	label := sb.normPart(s.Name.Base())

	if s.Query != nil {
		// CREATE TABLE t (a, b) AS SELECT renames the projection positionally.
		var aliases []core.NamePart
		for _, def := range s.Columns {
			aliases = append(aliases, def.Name)
		}
		out := sb.buildCreateAs(NodeTable, "CREATE TABLE AS", res, label, s.Temporary, aliases, s.Query, s.Span())
		return res.Canonical, out
	}

	cols := sb.columnSchemas(s)
	if issue := sb.registry.RegisterImplied(res.Canonical, cols, s.Temporary, "CREATE TABLE", sb.index); issue != nil {
		sb.issues = append(sb.issues, *issue)
	}

	node := sb.relationNode(NodeTable, label, res.Canonical, s.Span())

	// Columns are materialized from the registry rather than the statement,
	// so an imported entry that just won a conflict shows its own columns.
	if entry, ok := sb.registry.Get(res.Canonical); ok {
		for _, c := range entry.Table.Columns {
			col := sb.columnNode(node, c.Name, false)
			if c.Type != "" {
				col.Metadata = setMeta(col.Metadata, "type", c.Type)
			}
			if c.PrimaryKey {
				col.Metadata = setMeta(col.Metadata, "primary_key", "true")
			}
			if c.References != "" {
				col.Metadata = setMeta(col.Metadata, "references", c.References)
			}
		}
	}
	return res.Canonical, nil
}

// buildCreateView handles CREATE VIEW.
func (sb *stmtBuilder) buildCreateView(s *core.CreateViewStmt) (string, []OutputColumn) {
	if s.Name == nil {
		return "", nil
	}
	res := sb.resolver.ResolveParts(s.Name.Parts)
	label := sb.normPart(s.Name.Base())
	out := sb.buildCreateAs(NodeView, "CREATE VIEW", res, label, s.Temporary, s.Columns, s.Query, s.Span())
	return res.Canonical, out
}

// buildCreateAs is the shared CREATE VIEW / CREATE TABLE AS path: the target
// node exists first, the defining query contributes its own nodes and edges,
// the query's projection becomes the implied schema, and every node the
// query produced feeds the target through a DataFlow edge.
func (sb *stmtBuilder) buildCreateAs(kind NodeKind, ddlKind string, res core.TableResolution, label string, temporary bool, colAliases []core.NamePart, query *core.SelectStmt, span token.Span) []OutputColumn {
	target := sb.relationNode(kind, label, res.Canonical, span)

	cols := sb.analyzeQuery(query, nil)
	if len(colAliases) > 0 {
		cols = sb.renameColumns(cols, colAliases)
	}

	if issue := sb.registry.RegisterImplied(res.Canonical, toSchemaColumns(cols), temporary, ddlKind, sb.index); issue != nil {
		sb.issues = append(sb.issues, *issue)
	}

	sb.flowInto(target, ddlKind)
	return toOutputColumns(cols)
}

// ---------- DML ----------

// buildInsert analyzes INSERT INTO: the source query or VALUES expressions
// feed the resolved target. DML writes no implied schema.
func (sb *stmtBuilder) buildInsert(s *core.InsertStmt) string {
	if s.Table == nil {
		return ""
	}
	res := sb.resolver.ResolveParts(s.Table.Parts)
	target := sb.relationNode(NodeTable, sb.normPart(s.Table.Base()), res.Canonical, s.Span())
	if !res.MatchedSchema {
		sb.unresolvedRef(res.Canonical, s.Span())
	}

	if s.Query != nil {
		sb.analyzeQuery(s.Query, nil)
	}
	empty := &scope{}
	for _, row := range s.Values {
		for _, v := range row {
			sb.traceExpr(v, empty)
		}
	}

	sb.flowInto(target, "INSERT")
	return res.Canonical
}

// buildUpdate analyzes UPDATE: FROM sources and SET expressions feed the
// target table, and the WHERE predicate is recorded as a filter.
func (sb *stmtBuilder) buildUpdate(s *core.UpdateStmt) string {
	if s.Table == nil {
		return ""
	}
	res := sb.resolver.ResolveParts(s.Table.Parts)
	target := sb.relationNode(NodeTable, sb.normPart(s.Table.Base()), res.Canonical, s.Span())
	if !res.MatchedSchema {
		sb.unresolvedRef(res.Canonical, s.Span())
	}

	sc := sb.buildScope(s.From, nil)
	for _, a := range s.Set {
		sb.traceExpr(a.Value, sc)
	}
	if s.Where != nil {
		sb.recordFilter(sc, s.Where)
		sb.attachFilter(target, s.Where)
	}

	sb.flowInto(target, "UPDATE")
	return res.Canonical
}

// buildDelete analyzes DELETE FROM with an optional USING source list.
func (sb *stmtBuilder) buildDelete(s *core.DeleteStmt) string {
	if s.Table == nil {
		return ""
	}
	res := sb.resolver.ResolveParts(s.Table.Parts)
	target := sb.relationNode(NodeTable, sb.normPart(s.Table.Base()), res.Canonical, s.Span())
	if !res.MatchedSchema {
		sb.unresolvedRef(res.Canonical, s.Span())
	}

	sc := sb.buildScope(s.Using, nil)
	if s.Where != nil {
		sb.recordFilter(sc, s.Where)
		sb.attachFilter(target, s.Where)
	}

	sb.flowInto(target, "DELETE")
	return res.Canonical
}

// flowInto adds a DataFlow edge from every node produced so far to target.
// Fan-in from many sources is expected; only the edge-id check dedupes.
func (sb *stmtBuilder) flowInto(target *Node, operation string) {
	for _, n := range sb.sink.nodes {
		if n.ID == target.ID {
			continue
		}
		sb.sink.addEdge(&Edge{
			ID:             edgeID(n.ID, target.ID),
			From:           n.ID,
			To:             target.ID,
			Kind:           EdgeDataFlow,
			Operation:      operation,
			StatementIndex: sb.index,
		})
	}
}

// columnSchemas converts column definitions to schema columns, folding
// table-level PRIMARY KEY and FOREIGN KEY constraints into the per-column
// flags. A column is primary when either the inline constraint or a
// composite table constraint marks it.
func (sb *stmtBuilder) columnSchemas(s *core.CreateTableStmt) []core.SchemaColumn {
	primary := make(map[string]struct{})
	foreign := make(map[string]string)

	for _, c := range s.Constraints {
		switch c.Kind {
		case core.ConstraintPrimaryKey:
			for _, col := range c.Columns {
				primary[sb.normPart(col)] = struct{}{}
			}
		case core.ConstraintForeignKey:
			if c.RefTable == nil {
				continue
			}
			ref := sb.resolver.ResolveParts(c.RefTable.Parts).Canonical
			for _, col := range c.Columns {
				foreign[sb.normPart(col)] = ref
			}
		}
	}

	cols := make([]core.SchemaColumn, 0, len(s.Columns))
	for _, def := range s.Columns {
		name := sb.normPart(def.Name)
		col := core.SchemaColumn{Name: name, Type: def.Type}
		if _, ok := primary[name]; ok || def.PrimaryKey {
			col.PrimaryKey = true
		}
		if def.References != nil && def.References.Table != nil {
			col.References = sb.resolver.ResolveParts(def.References.Table.Parts).Canonical
		} else if ref, ok := foreign[name]; ok {
			col.References = ref
		}
		cols = append(cols, col)
	}
	return cols
}

// ---------- Node/edge helpers ----------

// relationNode creates or reuses the node for a relation. canonical may be
// empty for purely local relations (CTEs), in which case the label is the
// identity.
func (sb *stmtBuilder) relationNode(kind NodeKind, label, canonical string, span token.Span) *Node {
	identity := canonical
	if identity == "" {
		identity = label
	}
	n := &Node{
		ID:            nodeID(kind, identity),
		Kind:          kind,
		Label:         label,
		QualifiedName: canonical,
	}
	if span != (token.Span{}) {
		n.SourceSpan = &span
	}
	return sb.sink.addNode(n)
}

// columnNode creates or reuses the node for a named column of a relation and
// wires the Ownership edge from its owner.
func (sb *stmtBuilder) columnNode(owner *Node, column string, approximate bool) *Node {
	qualified := owner.CanonicalName() + "." + column
	n := sb.sink.addNode(&Node{
		ID:            nodeID(NodeColumn, qualified),
		Kind:          NodeColumn,
		Label:         column,
		QualifiedName: qualified,
	})
	if approximate {
		sb.markApproximate(n)
	}
	sb.ownershipEdge(owner, n, approximate)
	return n
}

// originNode materializes the graph node behind a column source.
func (sb *stmtBuilder) originNode(src colSource) *Node {
	if src.node != nil {
		return src.node
	}
	return sb.columnNode(src.owner, src.column, src.approximate)
}

// ownershipEdge connects a relation to a column it owns.
func (sb *stmtBuilder) ownershipEdge(owner, column *Node, approximate bool) {
	sb.sink.addEdge(&Edge{
		ID:             edgeID(owner.ID, column.ID),
		From:           owner.ID,
		To:             column.ID,
		Kind:           EdgeOwnership,
		Approximate:    approximate,
		StatementIndex: sb.index,
	})
}

// markApproximate flags a node as produced by best-effort inference.
func (sb *stmtBuilder) markApproximate(n *Node) {
	n.Metadata = setMeta(n.Metadata, "approximate", "true")
}

// attachFilter records the predicate text on a node, deduplicated.
func (sb *stmtBuilder) attachFilter(n *Node, pred core.Expr) {
	text := exprText(pred)
	if text == "" || n == nil {
		return
	}
	if !containsString(n.Filters, text) {
		n.Filters = append(n.Filters, text)
	}
}

// normPart normalizes one name part under the run's case rules.
func (sb *stmtBuilder) normPart(p core.NamePart) string {
	return NormalizePart(p, sb.dialect, sb.meta.CaseOverride)
}

// normName normalizes a bare name such as an alias.
func (sb *stmtBuilder) normName(s string) string {
	if s == "" {
		return ""
	}
	return NormalizePart(core.NamePart{Text: s}, sb.dialect, sb.meta.CaseOverride)
}

// warnf records a warning issue against the current statement.
func (sb *stmtBuilder) warnf(code, format string, args ...any) {
	sb.issues = append(sb.issues,
		core.NewIssue(core.SeverityWarning, code, fmt.Sprintf(format, args...)).AtStatement(sb.index))
}

// unresolvedRef records an informational issue for a reference that matched
// no known table. Suppressed when the run carries no imported metadata:
// without a catalog to check against, every external table would miss.
func (sb *stmtBuilder) unresolvedRef(canonical string, span token.Span) {
	if !sb.reportUnresolved {
		return
	}
	issue := core.NewIssue(core.SeverityInfo, core.IssueUnresolvedReference,
		fmt.Sprintf("reference %q does not match any known table", canonical)).AtStatement(sb.index)
	if span != (token.Span{}) {
		issue = issue.WithSpan(span)
	}
	sb.issues = append(sb.issues, issue)
}

func setMeta(m map[string]string, k, v string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[k] = v
	return m
}

// toSchemaColumns converts a traced projection to schema columns. Star
// placeholders are dropped: a wildcard over an unknown source contributes no
// usable column names.
func toSchemaColumns(cols []scopeCol) []core.SchemaColumn {
	out := make([]core.SchemaColumn, 0, len(cols))
	for _, c := range cols {
		if c.star {
			continue
		}
		out = append(out, core.SchemaColumn{Name: c.name, Type: c.typ})
	}
	return out
}

// toOutputColumns converts a traced projection to the statement's recorded
// output shape.
func toOutputColumns(cols []scopeCol) []OutputColumn {
	if len(cols) == 0 {
		return nil
	}
	out := make([]OutputColumn, 0, len(cols))
	for _, c := range cols {
		out = append(out, OutputColumn{Name: c.name, Type: c.typ})
	}
	return out
}

// graphSink collects one statement's nodes and edges, deduplicating both by
// id. Insertion order is preserved so results are deterministic.
type graphSink struct {
	nodes []*Node
	edges []*Edge

	nodeByID map[string]*Node
	edgeIDs  map[string]struct{}
}

func newGraphSink() *graphSink {
	return &graphSink{
		nodeByID: make(map[string]*Node),
		edgeIDs:  make(map[string]struct{}),
	}
}

// addNode inserts a node, returning the existing one when the id is already
// present.
func (g *graphSink) addNode(n *Node) *Node {
	if existing, ok := g.nodeByID[n.ID]; ok {
		return existing
	}
	g.nodeByID[n.ID] = n
	g.nodes = append(g.nodes, n)
	return n
}

// addEdge inserts an edge unless one with the same id exists.
func (g *graphSink) addEdge(e *Edge) bool {
	if _, ok := g.edgeIDs[e.ID]; ok {
		return false
	}
	g.edgeIDs[e.ID] = struct{}{}
	g.edges = append(g.edges, e)
	return true
}
