// Package dag projects merged lineage onto a table-level dependency graph
// and answers ordering and impact queries over it: cycle detection,
// topological sorting, and upstream/downstream closures.
package dag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// Node is one relation vertex, keyed by its canonical dotted name.
type Node struct {
	// Name is the canonical name, e.g. "public.users".
	Name string
	// Kind is the relation kind, table or view.
	Kind lineage.NodeKind
}

// Graph is a directed dependency graph over relations. Edges point from a
// source relation to the relation it feeds, so parents are upstream
// dependencies and children are downstream dependents.
type Graph struct {
	nodes    map[string]*Node
	children map[string][]string // source -> relations it feeds
	parents  map[string][]string // target -> relations it reads
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// FromGlobal projects merged lineage onto relations. Table and view nodes
// survive under their canonical names; column and CTE nodes are dropped.
// DataFlow edges between two surviving relations become graph edges, and
// self-referential flows (INSERT INTO t ... SELECT FROM t) are skipped.
func FromGlobal(global *lineage.GlobalLineage) *Graph {
	g := NewGraph()
	if global == nil {
		return g
	}

	byID := make(map[string]string, len(global.Nodes))
	for _, n := range global.SortedNodes() {
		if n.Kind != lineage.NodeTable && n.Kind != lineage.NodeView {
			continue
		}
		name := n.CanonicalName()
		g.AddNode(name, n.Kind)
		byID[n.ID] = name
	}

	for _, e := range global.Edges {
		if e.Kind != lineage.EdgeDataFlow {
			continue
		}
		from, ok := byID[e.From]
		if !ok {
			continue
		}
		to, ok := byID[e.To]
		if !ok || from == to {
			continue
		}
		g.addEdge(from, to)
	}
	return g
}

// AddNode adds a relation, updating its kind when the name already exists.
func (g *Graph) AddNode(name string, kind lineage.NodeKind) {
	if n, ok := g.nodes[name]; ok {
		n.Kind = kind
		return
	}
	g.nodes[name] = &Node{Name: name, Kind: kind}
}

// AddEdge records that data flows from one relation into another. Both
// relations must already exist, and self-referential edges are rejected.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("unknown relation %q", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("unknown relation %q", to)
	}
	if from == to {
		return fmt.Errorf("self-referential edge on %q", from)
	}
	g.addEdge(from, to)
	return nil
}

// addEdge inserts the edge unless it is already present.
func (g *Graph) addEdge(from, to string) {
	if containsString(g.children[from], to) {
		return
	}
	g.children[from] = append(g.children[from], to)
	g.parents[to] = append(g.parents[to], from)
}

// Node returns the relation with the given canonical name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Resolve finds relations matching name. An exact canonical match wins;
// otherwise every relation whose canonical name ends with ".name" matches,
// so "users" finds "public.users". Callers normalize name with the active
// dialect first. Results are sorted.
func (g *Graph) Resolve(name string) []string {
	if _, ok := g.nodes[name]; ok {
		return []string{name}
	}
	var matches []string
	for candidate := range g.nodes {
		if strings.HasSuffix(candidate, "."+name) {
			matches = append(matches, candidate)
		}
	}
	sort.Strings(matches)
	return matches
}

// Nodes returns every relation sorted by name.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}

// NodeCount returns the number of relations.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, c := range g.children {
		count += len(c)
	}
	return count
}

// Parents returns the direct upstream relations of name, sorted.
func (g *Graph) Parents(name string) []string {
	return sortedCopy(g.parents[name])
}

// Children returns the direct downstream relations of name, sorted.
func (g *Graph) Children(name string) []string {
	return sortedCopy(g.children[name])
}

// HasCycle reports whether the graph contains a dependency cycle. When it
// does, the returned path opens and closes with the same relation, e.g.
// [a b c a].
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	inStack := make(map[string]bool)
	cameFrom := make(map[string]string)

	var cycle []string
	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		inStack[name] = true

		for _, child := range g.children[name] {
			if !visited[child] {
				cameFrom[child] = name
				if dfs(child) {
					return true
				}
			} else if inStack[child] {
				// Walk back from the current relation to the one the back
				// edge re-enters, then close the loop.
				chain := []string{}
				for cur := name; cur != child; cur = cameFrom[cur] {
					chain = append(chain, cur)
				}
				chain = append(chain, child)
				for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
					chain[i], chain[j] = chain[j], chain[i]
				}
				cycle = append(chain, child)
				return true
			}
		}

		inStack[name] = false
		return false
	}

	for _, name := range g.sortedNames() {
		if !visited[name] {
			if dfs(name) {
				return true, cycle
			}
		}
	}
	return false, nil
}

// CycleIssue reports a dependency cycle as a warning issue, or nil when the
// graph is acyclic. A view chain that feeds back into itself is suspicious
// but must not abort reporting.
func (g *Graph) CycleIssue() *core.Issue {
	cyclic, path := g.HasCycle()
	if !cyclic {
		return nil
	}
	issue := core.NewIssue(core.SeverityWarning, core.IssueCyclicDependency,
		fmt.Sprintf("dependency cycle: %s", strings.Join(path, " -> ")))
	return &issue
}

// TopologicalSort returns every relation ordered so that sources come
// before the relations they feed. Ties break on sorted names, so the
// result is deterministic. Fails when the graph has a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if cyclic, path := g.HasCycle(); cyclic {
		return nil, fmt.Errorf("dependency cycle: %s", strings.Join(path, " -> "))
	}

	visited := make(map[string]bool, len(g.nodes))
	order := make([]string, 0, len(g.nodes))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, parent := range sortedCopy(g.parents[name]) {
			visit(parent)
		}
		order = append(order, name)
	}

	for _, name := range g.sortedNames() {
		visit(name)
	}
	return order, nil
}

// Upstream returns every relation the named one reads from, directly or
// transitively, sorted. depth limits how many edges the walk may cross;
// zero or negative means unlimited. Unknown names yield nil.
func (g *Graph) Upstream(name string, depth int) []string {
	return g.walk(name, depth, g.parents)
}

// Downstream returns every relation fed by the named one, directly or
// transitively, sorted. depth limits how many edges the walk may cross;
// zero or negative means unlimited. Unknown names yield nil.
func (g *Graph) Downstream(name string, depth int) []string {
	return g.walk(name, depth, g.children)
}

// walk is a breadth-first closure over next, excluding the start name.
func (g *Graph) walk(start string, depth int, next map[string][]string) []string {
	if _, ok := g.nodes[start]; !ok {
		return nil
	}

	seen := map[string]bool{start: true}
	var out []string
	frontier := []string{start}
	for level := 0; len(frontier) > 0 && (depth <= 0 || level < depth); level++ {
		var reached []string
		for _, cur := range frontier {
			for _, n := range next[cur] {
				if seen[n] {
					continue
				}
				seen[n] = true
				out = append(out, n)
				reached = append(reached, n)
			}
		}
		frontier = reached
	}
	sort.Strings(out)
	return out
}

// Roots returns relations nothing feeds into, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for name := range g.nodes {
		if len(g.parents[name]) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns relations that feed nothing, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for name := range g.nodes {
		if len(g.children[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Subgraph returns a copy restricted to the named relations and the edges
// between them. Unknown names are ignored.
func (g *Graph) Subgraph(names []string) *Graph {
	sub := NewGraph()
	for _, name := range names {
		if n, ok := g.nodes[name]; ok {
			sub.AddNode(n.Name, n.Kind)
		}
	}
	for _, name := range sub.sortedNames() {
		for _, child := range g.children[name] {
			if _, ok := sub.nodes[child]; ok {
				sub.addEdge(name, child)
			}
		}
	}
	return sub
}

// sortedNames returns every relation name in sorted order.
func (g *Graph) sortedNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
