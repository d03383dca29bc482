package lineage

import (
	"strconv"
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// colSource identifies where a column's data comes from: a column node
// already in the graph, or a named column of a relation node that is
// materialized lazily when an edge needs a concrete endpoint.
type colSource struct {
	node        *Node
	owner       *Node
	column      string
	approximate bool
}

// key identifies the source for deduplication.
func (s colSource) key() string {
	if s.node != nil {
		return s.node.ID
	}
	return s.owner.ID + "." + s.column
}

// scopeCol is one column a source exposes, with its traced origins.
// Origins survive CTE and derived-table hops, so a passthrough output
// still points at the relation that actually provides the data.
type scopeCol struct {
	name        string
	typ         string
	origins     []colSource
	expression  string
	aggregation string
	approximate bool
	// star marks the placeholder produced by a wildcard over a source
	// with an unknown column set.
	star bool
}

// tableSource is one relation visible in a FROM clause.
type tableSource struct {
	alias string
	// node is the relation's graph node; nil for derived tables, which
	// have no node of their own.
	node *Node
	// columns is the source's known column set; nil when unknown.
	columns []scopeCol
}

// cteDef is an analyzed CTE visible to queries declared after it.
// columns stays nil while the body of a recursive CTE is analyzed.
type cteDef struct {
	node    *Node
	columns []scopeCol
}

// scope is the table/column namespace visible at one point of a query.
// Lookups that miss walk the parent chain, which is how correlated
// subqueries see their enclosing query's sources.
type scope struct {
	sources []*tableSource
	ctes    map[string]*cteDef
	parent  *scope
}

// findSource returns the source bound to alias, walking parent scopes.
func (s *scope) findSource(alias string) *tableSource {
	for sc := s; sc != nil; sc = sc.parent {
		for _, src := range sc.sources {
			if src.alias == alias {
				return src
			}
		}
	}
	return nil
}

// findCTE returns the CTE definition for name, walking parent scopes.
func (s *scope) findCTE(name string) *cteDef {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.ctes != nil {
			if def, ok := sc.ctes[name]; ok {
				return def
			}
		}
	}
	return nil
}

// findColumn searches the scope's sources for a unique owner of name.
// Zero matches fall through to the parent scope; an ambiguous name
// resolves to nothing.
func (s *scope) findColumn(name string) (*tableSource, *scopeCol) {
	var foundSrc *tableSource
	var foundCol *scopeCol
	count := 0
	for _, src := range s.sources {
		for i := range src.columns {
			if src.columns[i].name == name {
				foundSrc, foundCol = src, &src.columns[i]
				count++
				break
			}
		}
	}
	switch {
	case count == 1:
		return foundSrc, foundCol
	case count == 0 && s.parent != nil:
		return s.parent.findColumn(name)
	default:
		return nil, nil
	}
}

// analyzeQuery analyzes a full SELECT (WITH clause plus body) with parent
// as the enclosing scope (nil at top level) and returns its ordered output
// columns. Every node and edge produced anywhere in the recursion lands in
// the statement's local graph.
func (sb *stmtBuilder) analyzeQuery(sel *core.SelectStmt, parent *scope) []scopeCol {
	if sel == nil {
		return nil
	}

	if sel.With != nil {
		cteScope := &scope{ctes: make(map[string]*cteDef), parent: parent}
		for _, cte := range sel.With.CTEs {
			name := sb.normPart(cte.Name)
			def := &cteDef{node: sb.relationNode(NodeCte, name, "", cte.Span())}
			if sel.With.Recursive {
				// the body sees itself by name, columns unknown
				cteScope.ctes[name] = def
			}
			cols := sb.analyzeQuery(cte.Select, cteScope)
			if len(cte.Columns) > 0 {
				cols = sb.renameColumns(cols, cte.Columns)
			}
			def.columns = cols
			cteScope.ctes[name] = def
		}
		parent = cteScope
	}

	return sb.analyzeBody(sel.Body, parent)
}

// analyzeBody analyzes a SELECT body, recursing through set operations.
func (sb *stmtBuilder) analyzeBody(body *core.SelectBody, parent *scope) []scopeCol {
	if body == nil {
		return nil
	}

	left := sb.analyzeCore(body.Left, parent)
	if body.Op == core.SetOpNone || body.Right == nil {
		return left
	}

	right := sb.analyzeBody(body.Right, parent)
	return sb.mergeSetOp(left, right, body.Op)
}

// mergeSetOp combines the two branches of a set operation. Output names
// come from the left branch; a column-count mismatch raises a warning and
// analysis continues with the shorter list.
func (sb *stmtBuilder) mergeSetOp(left, right []scopeCol, op core.SetOpType) []scopeCol {
	if len(left) != len(right) {
		sb.warnf(core.IssueSetOpMismatch, "%s branches project %d vs %d columns; continuing with the shorter list",
			op, len(left), len(right))
	}

	n := min(len(left), len(right))
	if n == 0 {
		if len(left) > 0 {
			return left
		}
		return right
	}

	merged := make([]scopeCol, n)
	for i := 0; i < n; i++ {
		merged[i] = scopeCol{
			name:        left[i].name,
			typ:         left[i].typ,
			origins:     mergeOrigins(left[i].origins, right[i].origins),
			expression:  left[i].expression,
			approximate: left[i].approximate || right[i].approximate,
			star:        left[i].star || right[i].star,
		}
	}
	return merged
}

// analyzeCore analyzes one SELECT core: builds the scope from FROM,
// records WHERE filters, and traces each select item.
func (sb *stmtBuilder) analyzeCore(sc *core.SelectCore, parent *scope) []scopeCol {
	if sc == nil {
		return nil
	}

	s := sb.buildScope(sc.From, parent)

	if sc.Where != nil {
		sb.recordFilter(s, sc.Where)
	}
	if sc.Having != nil {
		sb.recordFilter(s, sc.Having)
	}

	var out []scopeCol
	for _, item := range sc.Columns {
		out = append(out, sb.analyzeSelectItem(item, s)...)
	}
	return out
}

// buildScope resolves all FROM sources into a new child scope and emits a
// JoinDependency edge for each join in the chain.
func (sb *stmtBuilder) buildScope(from *core.FromClause, parent *scope) *scope {
	s := &scope{parent: parent}
	if from == nil {
		return s
	}

	prev := sb.addSource(s, from.Source)
	for _, join := range from.Joins {
		next := sb.addSource(s, join.Right)
		sb.joinEdge(prev, next, join)
		if next != nil {
			prev = next
		}
	}
	return s
}

// addSource resolves one table reference and appends it to the scope.
func (sb *stmtBuilder) addSource(s *scope, ref core.TableRef) *tableSource {
	switch t := ref.(type) {
	case *core.TableName:
		return sb.addTableName(s, t)
	case *core.DerivedTable:
		return sb.addDerivedTable(s, t)
	case *core.TableFunc:
		return sb.addTableFunc(s, t)
	}
	return nil
}

// addTableName binds a named reference: a visible CTE when the name is a
// bare match, otherwise a resolved table or view.
func (sb *stmtBuilder) addTableName(s *scope, t *core.TableName) *tableSource {
	alias := sb.normName(t.Alias)

	if len(t.Parts) == 1 {
		name := sb.normPart(t.Parts[0])
		if def := s.findCTE(name); def != nil {
			if alias == "" {
				alias = name
			}
			src := &tableSource{alias: alias, node: def.node, columns: def.columns}
			s.sources = append(s.sources, src)
			return src
		}
	}

	res := sb.resolver.ResolveParts(t.Parts)
	label := sb.normPart(t.Base())

	kind := NodeTable
	if sb.registry.IsView(res.Canonical) {
		kind = NodeView
	}
	entry, haveEntry := sb.registry.Get(res.Canonical)

	node := sb.relationNode(kind, label, res.Canonical, t.Span())
	if !res.MatchedSchema {
		sb.unresolvedRef(res.Canonical, t.Span())
	}

	var cols []scopeCol
	if haveEntry {
		cols = make([]scopeCol, 0, len(entry.Table.Columns))
		for _, c := range entry.Table.Columns {
			cols = append(cols, scopeCol{
				name:    c.Name,
				typ:     c.Type,
				origins: []colSource{{owner: node, column: c.Name}},
			})
		}
	}

	if alias == "" {
		alias = label
	}
	src := &tableSource{alias: alias, node: node, columns: cols}
	s.sources = append(s.sources, src)
	return src
}

// addDerivedTable analyzes the subquery in a child scope; the projected
// columns become the alias's column set. A derived table has no node of
// its own, so column origins flow through to the relations inside it.
func (sb *stmtBuilder) addDerivedTable(s *scope, t *core.DerivedTable) *tableSource {
	cols := sb.analyzeQuery(t.Select, s)
	if len(t.Columns) > 0 {
		cols = sb.renameColumns(cols, t.Columns)
	}

	alias := sb.normName(t.Alias)
	if alias == "" {
		alias = "subquery"
	}
	src := &tableSource{alias: alias, columns: cols}
	s.sources = append(s.sources, src)
	return src
}

// addTableFunc binds a table-valued function call as a source. The column
// set is only known when the call carries explicit column aliases.
func (sb *stmtBuilder) addTableFunc(s *scope, t *core.TableFunc) *tableSource {
	name := sb.dialect.NormalizeName(t.Name)
	call := &core.FuncCall{Name: t.Name, Args: t.Args}

	node := sb.relationNode(NodeTable, name, exprText(call), t.Span())
	sb.markApproximate(node)

	var cols []scopeCol
	for _, c := range t.Columns {
		colName := sb.normPart(c)
		cols = append(cols, scopeCol{
			name:    colName,
			origins: []colSource{{owner: node, column: colName, approximate: true}},
		})
	}

	alias := sb.normName(t.Alias)
	if alias == "" {
		alias = name
	}
	src := &tableSource{alias: alias, node: node, columns: cols}
	s.sources = append(s.sources, src)
	return src
}

// joinEdge records the dependency between two joined sources. Sources
// without a node of their own (derived tables) contribute no edge.
func (sb *stmtBuilder) joinEdge(left, right *tableSource, join *core.Join) {
	if left == nil || right == nil || left.node == nil || right.node == nil {
		return
	}

	kind := joinKindText(join)
	cond := joinConditionText(join)

	sb.sink.addEdge(&Edge{
		ID:             edgeID(left.node.ID, right.node.ID),
		From:           left.node.ID,
		To:             right.node.ID,
		Kind:           EdgeJoinDependency,
		JoinKind:       kind,
		JoinCondition:  cond,
		StatementIndex: sb.index,
	})

	if right.node.JoinKind == "" {
		right.node.JoinKind = kind
		right.node.JoinCondition = cond
	}
}

// recordFilter attaches the predicate text to every relation node in the
// scope's FROM clause.
func (sb *stmtBuilder) recordFilter(s *scope, pred core.Expr) {
	text := exprText(pred)
	if text == "" {
		return
	}
	for _, src := range s.sources {
		if src.node == nil {
			continue
		}
		if !containsString(src.node.Filters, text) {
			src.node.Filters = append(src.node.Filters, text)
		}
	}
}

// analyzeSelectItem traces one select item into output columns.
func (sb *stmtBuilder) analyzeSelectItem(item core.SelectItem, s *scope) []scopeCol {
	if item.Star {
		return sb.expandStar(s, nil)
	}
	if item.TableStar.Text != "" {
		return sb.expandTableStar(s, item.TableStar)
	}

	// A plain column reference passes through: the output column is the
	// source column, no node of its own.
	if ref, ok := item.Expr.(*core.ColumnRef); ok {
		col := sb.resolveColumnRef(ref, s)
		if item.Alias != "" {
			col.name = sb.normName(item.Alias)
		} else if col.name == "" {
			col.name = sb.normPart(ref.Column)
		}
		return []scopeCol{col}
	}

	return []scopeCol{sb.analyzeExprItem(item, s)}
}

// analyzeExprItem emits a column node for a computed output plus one
// Derivation edge from each referenced source column.
func (sb *stmtBuilder) analyzeExprItem(item core.SelectItem, s *scope) scopeCol {
	text := exprText(item.Expr)
	agg := sb.topAggregation(item.Expr)
	origins := sb.traceExpr(item.Expr, s)

	name := sb.normName(item.Alias)
	if name == "" {
		name = sb.inferColumnName(item.Expr)
	}

	out := sb.sink.addNode(&Node{
		ID:          nodeID(NodeColumn, name),
		Kind:        NodeColumn,
		Label:       name,
		Expression:  text,
		Aggregation: agg,
	})

	for _, origin := range origins {
		from := sb.originNode(origin)
		sb.sink.addEdge(&Edge{
			ID:             edgeID(from.ID, out.ID),
			From:           from.ID,
			To:             out.ID,
			Kind:           EdgeDerivation,
			Expression:     text,
			Aggregation:    agg,
			Approximate:    origin.approximate,
			StatementIndex: sb.index,
		})
	}

	return scopeCol{
		name:        name,
		typ:         inferType(item.Expr),
		origins:     []colSource{{node: out}},
		expression:  text,
		aggregation: agg,
	}
}

// resolveColumnRef resolves a column reference through the scope chain.
func (sb *stmtBuilder) resolveColumnRef(ref *core.ColumnRef, s *scope) scopeCol {
	column := sb.normPart(ref.Column)

	if len(ref.Qualifier) > 0 {
		qparts := NormalizeParts(ref.Qualifier, sb.dialect, sb.meta.CaseOverride)
		src := s.findSource(strings.Join(qparts, "."))
		if src == nil {
			src = s.findSource(qparts[len(qparts)-1])
		}
		if src == nil {
			return scopeCol{name: column, approximate: true}
		}
		return sb.columnFromSource(src, column)
	}

	if _, col := s.findColumn(column); col != nil {
		out := *col
		out.name = column
		return out
	}

	// single-source inference: an unqualified miss over exactly one
	// source is attributed to it, marked approximate
	if len(s.sources) == 1 && s.sources[0].node != nil {
		return scopeCol{
			name:        column,
			origins:     []colSource{{owner: s.sources[0].node, column: column, approximate: true}},
			approximate: true,
		}
	}

	return scopeCol{name: column, approximate: true}
}

// columnFromSource resolves a column within one source. A source with an
// unknown column set yields an approximate attribution.
func (sb *stmtBuilder) columnFromSource(src *tableSource, column string) scopeCol {
	for i := range src.columns {
		if src.columns[i].name == column {
			out := src.columns[i]
			return out
		}
	}
	if src.node != nil {
		return scopeCol{
			name:        column,
			origins:     []colSource{{owner: src.node, column: column, approximate: src.columns != nil}},
			approximate: src.columns != nil,
		}
	}
	return scopeCol{name: column, approximate: true}
}

// expandStar expands * over every source in the current scope.
func (sb *stmtBuilder) expandStar(s *scope, only *tableSource) []scopeCol {
	sources := s.sources
	if only != nil {
		sources = []*tableSource{only}
	}

	var out []scopeCol
	for _, src := range sources {
		if src.columns == nil {
			out = append(out, sb.starColumn(src))
			continue
		}
		out = append(out, src.columns...)
	}
	return out
}

// expandTableStar expands t.* over the named source.
func (sb *stmtBuilder) expandTableStar(s *scope, table core.NamePart) []scopeCol {
	name := sb.normPart(table)
	src := s.findSource(name)
	if src == nil {
		return []scopeCol{{name: name + ".*", approximate: true, star: true}}
	}
	return sb.expandStar(s, src)
}

// starColumn materializes the single approximate placeholder column for a
// source whose column set is unknown.
func (sb *stmtBuilder) starColumn(src *tableSource) scopeCol {
	name := src.alias + ".*"
	if src.node == nil {
		return scopeCol{name: name, approximate: true, star: true}
	}

	node := sb.sink.addNode(&Node{
		ID:            nodeID(NodeColumn, src.node.CanonicalName()+".*"),
		Kind:          NodeColumn,
		Label:         name,
		QualifiedName: src.node.CanonicalName() + ".*",
	})
	sb.markApproximate(node)
	sb.ownershipEdge(src.node, node, true)

	return scopeCol{
		name:        name,
		origins:     []colSource{{node: node, approximate: true}},
		approximate: true,
		star:        true,
	}
}

// traceExpr collects every source column an expression reads. Generator
// and table functions contribute nothing: their output has no upstream
// columns.
func (sb *stmtBuilder) traceExpr(e core.Expr, s *scope) []colSource {
	switch ex := e.(type) {
	case *core.ColumnRef:
		col := sb.resolveColumnRef(ex, s)
		if col.approximate {
			return markApproxOrigins(col.origins)
		}
		return col.origins

	case *core.Literal:
		return nil

	case *core.ParenExpr:
		return sb.traceExpr(ex.Expr, s)

	case *core.BinaryExpr:
		return mergeOrigins(sb.traceExpr(ex.Left, s), sb.traceExpr(ex.Right, s))

	case *core.UnaryExpr:
		return sb.traceExpr(ex.Expr, s)

	case *core.FuncCall:
		return sb.traceFuncCall(ex, s)

	case *core.CaseExpr:
		var all []colSource
		all = mergeOrigins(all, sb.traceExpr(ex.Operand, s))
		for _, w := range ex.Whens {
			all = mergeOrigins(all, sb.traceExpr(w.Condition, s))
			all = mergeOrigins(all, sb.traceExpr(w.Result, s))
		}
		return mergeOrigins(all, sb.traceExpr(ex.Else, s))

	case *core.CastExpr:
		return sb.traceExpr(ex.Expr, s)

	case *core.InExpr:
		all := sb.traceExpr(ex.Expr, s)
		for _, v := range ex.Values {
			all = mergeOrigins(all, sb.traceExpr(v, s))
		}
		if ex.Query != nil {
			cols := sb.analyzeQuery(ex.Query, s)
			if len(cols) > 0 {
				all = mergeOrigins(all, cols[0].origins)
			}
		}
		return all

	case *core.BetweenExpr:
		all := sb.traceExpr(ex.Expr, s)
		all = mergeOrigins(all, sb.traceExpr(ex.Low, s))
		return mergeOrigins(all, sb.traceExpr(ex.High, s))

	case *core.IsNullExpr:
		return sb.traceExpr(ex.Expr, s)

	case *core.LikeExpr:
		return mergeOrigins(sb.traceExpr(ex.Expr, s), sb.traceExpr(ex.Pattern, s))

	case *core.SubqueryExpr:
		// scalar subquery: its first output column carries the value
		cols := sb.analyzeQuery(ex.Select, s)
		if len(cols) > 0 {
			return cols[0].origins
		}
		return nil

	case *core.ExistsExpr:
		// row-existence check: the subquery's tables join the graph but
		// no column value flows out
		sb.analyzeQuery(ex.Select, s)
		return nil

	case *core.StarExpr:
		return nil

	default:
		return nil
	}
}

// traceFuncCall collects sources from arguments, FILTER, and the OVER
// clause. Value generators have no upstream.
func (sb *stmtBuilder) traceFuncCall(fc *core.FuncCall, s *scope) []colSource {
	if sb.dialect.IsGenerator(fc.Name) || sb.dialect.IsTableFunction(fc.Name) {
		return nil
	}

	var all []colSource
	for _, arg := range fc.Args {
		all = mergeOrigins(all, sb.traceExpr(arg, s))
	}
	all = mergeOrigins(all, sb.traceExpr(fc.Filter, s))
	if fc.Window != nil {
		for _, p := range fc.Window.PartitionBy {
			all = mergeOrigins(all, sb.traceExpr(p, s))
		}
		for _, o := range fc.Window.OrderBy {
			all = mergeOrigins(all, sb.traceExpr(o.Expr, s))
		}
	}
	return all
}

// topAggregation returns the normalized function name when the top-level
// call is a dialect-classified aggregate.
func (sb *stmtBuilder) topAggregation(e core.Expr) string {
	switch ex := e.(type) {
	case *core.ParenExpr:
		return sb.topAggregation(ex.Expr)
	case *core.FuncCall:
		if sb.dialect.IsAggregate(ex.Name) {
			return sb.dialect.NormalizeName(ex.Name)
		}
	}
	return ""
}

// inferColumnName derives an output name from an expression shape.
func (sb *stmtBuilder) inferColumnName(e core.Expr) string {
	switch ex := e.(type) {
	case *core.ColumnRef:
		return sb.normPart(ex.Column)
	case *core.FuncCall:
		return sb.dialect.NormalizeName(ex.Name)
	case *core.CastExpr:
		return sb.inferColumnName(ex.Expr)
	case *core.ParenExpr:
		return sb.inferColumnName(ex.Expr)
	}
	sb.anonCols++
	return "column" + strconv.Itoa(sb.anonCols)
}

// inferType labels an output type when a cast or literal makes one
// obvious; everything else stays untyped.
func inferType(e core.Expr) string {
	switch ex := e.(type) {
	case *core.CastExpr:
		return strings.ToLower(ex.TypeName)
	case *core.ParenExpr:
		return inferType(ex.Expr)
	case *core.Literal:
		switch ex.Type {
		case core.LiteralString:
			return "varchar"
		case core.LiteralBool:
			return "boolean"
		case core.LiteralNumber:
			if strings.ContainsAny(ex.Value, ".eE") {
				return "double"
			}
			return "integer"
		}
	}
	return ""
}

// renameColumns applies an explicit column alias list positionally.
func (sb *stmtBuilder) renameColumns(cols []scopeCol, names []core.NamePart) []scopeCol {
	out := make([]scopeCol, len(cols))
	copy(out, cols)
	for i := range out {
		if i < len(names) {
			out[i].name = sb.normPart(names[i])
		}
	}
	return out
}

// mergeOrigins appends b to a, dropping duplicates.
func mergeOrigins(a, b []colSource) []colSource {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[s.key()] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s.key()]; !ok {
			seen[s.key()] = struct{}{}
			a = append(a, s)
		}
	}
	return a
}

// markApproxOrigins returns the origins with the approximate flag set.
func markApproxOrigins(origins []colSource) []colSource {
	out := make([]colSource, len(origins))
	copy(out, origins)
	for i := range out {
		out[i].approximate = true
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
