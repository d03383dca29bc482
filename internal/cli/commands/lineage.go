package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
	"github.com/sqlweave-labs/sqlweave/internal/dag"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
)

// LineageOptions holds the flag values for the lineage command.
type LineageOptions struct {
	Format    string
	Direction string
	Depth     int
}

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	opts := &LineageOptions{}

	cmd := &cobra.Command{
		Use:   "lineage <relation> [files...]",
		Short: "Show upstream and downstream lineage for a relation",
		Long: `Lineage analyzes the given SQL files (or standard input) and reports
which relations feed the named table or view and which depend on it.

The relation name is matched against canonical names from the analysis.
An unqualified name like "users" resolves when exactly one analyzed
relation ends in ".users".`,
		Example: `  # Everything connected to a table
  sqlweave lineage analytics.daily_revenue etl.sql

  # Only what the table reads from, two hops out
  sqlweave lineage daily_revenue etl.sql --direction up --depth 2

  # Impact of changing a source table
  sqlweave lineage raw.events pipeline/*.sql --direction down

  # JSON for tooling
  cat etl.sql | sqlweave lineage daily_revenue --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (text or json, overrides configured output)")
	cmd.Flags().StringVar(&opts.Direction, "direction", "both", "Traversal direction (up, down, or both)")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Max traversal depth (0 = unlimited)")

	return cmd
}

func runLineage(cmd *cobra.Command, args []string, opts *LineageOptions) error {
	if opts.Direction != "up" && opts.Direction != "down" && opts.Direction != "both" {
		return fmt.Errorf("invalid direction %q (want up, down, or both)", opts.Direction)
	}

	cc := NewCommandContextWithoutEngine(cmd)
	r := cc.rendererFor(cmd, opts.Format)
	ctx := cmd.Context()

	target := args[0]
	files := args[1:]

	var res *engine.Result
	var err error
	if len(files) == 0 {
		sql, rerr := io.ReadAll(cmd.InOrStdin())
		if rerr != nil {
			return fmt.Errorf("failed to read stdin: %w", rerr)
		}
		if strings.TrimSpace(string(sql)) == "" {
			return errors.New("no SQL input: pass files after the relation name or pipe SQL on stdin")
		}
		eng, eerr := cc.NewEngine()
		if eerr != nil {
			return eerr
		}
		res, err = eng.AnalyzeScript(ctx, string(sql), "stdin")
	} else {
		res, err = analyzeOnce(ctx, cc, files)
	}
	if err != nil {
		return err
	}

	graph := dag.FromGlobal(res.Global)
	name, err := resolveRelation(graph, cc, target)
	if err != nil {
		return err
	}

	var upstream, downstream []string
	if opts.Direction != "down" {
		upstream = graph.Upstream(name, opts.Depth)
	}
	if opts.Direction != "up" {
		downstream = graph.Downstream(name, opts.Depth)
	}

	if r.JSON() {
		return r.Encode(lineageOutput(graph, name, upstream, downstream, opts))
	}

	renderLineageText(r, graph, name, upstream, downstream, opts)
	return nil
}

// resolveRelation maps a user-supplied name onto a graph node. The name is
// normalized the way analysis normalized it, so PUBLIC.Users finds
// public.users under a folding dialect. An exact canonical match wins;
// otherwise a unique suffix match is accepted.
func resolveRelation(g *dag.Graph, cc *CommandContext, raw string) (string, error) {
	d, ok := dialect.Get(cc.Cfg.Dialect)
	if !ok {
		return "", fmt.Errorf("%w: %q", engine.ErrUnknownDialect, cc.Cfg.Dialect)
	}
	name := lineage.NormalizeQualified(raw, d, cc.Cfg.CaseOverride)
	if name == "" {
		return "", fmt.Errorf("invalid relation name %q", raw)
	}

	matches := g.Resolve(name)
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("relation %q not found in the analyzed statements", raw)
	default:
		return "", fmt.Errorf("relation %q is ambiguous: %s", raw, strings.Join(matches, ", "))
	}
}

// lineageOutput assembles the JSON view: the closure's nodes, the edges
// between them, and traversal stats.
func lineageOutput(g *dag.Graph, root string, upstream, downstream []string, opts *LineageOptions) output.LineageOutput {
	names := make([]string, 0, 1+len(upstream)+len(downstream))
	names = append(names, root)
	names = append(names, upstream...)
	names = append(names, downstream...)

	inSet := make(map[string]bool, len(names))
	out := output.LineageOutput{
		Root:      root,
		Direction: opts.Direction,
		Depth:     opts.Depth,
		Nodes:     make([]output.LineageNode, 0, len(names)),
		Edges:     []output.LineageEdge{},
	}
	for _, name := range names {
		if inSet[name] {
			continue
		}
		inSet[name] = true
		kind := ""
		if n, ok := g.Node(name); ok {
			kind = string(n.Kind)
		}
		out.Nodes = append(out.Nodes, output.LineageNode{Name: name, Kind: kind})
	}
	for _, node := range out.Nodes {
		for _, child := range g.Children(node.Name) {
			if inSet[child] {
				out.Edges = append(out.Edges, output.LineageEdge{From: node.Name, To: child})
			}
		}
	}

	out.Stats = output.LineageStats{
		TotalNodes:      len(out.Nodes),
		UpstreamCount:   len(upstream),
		DownstreamCount: len(downstream),
	}
	return out
}

func renderLineageText(r *output.Renderer, g *dag.Graph, name string, upstream, downstream []string, opts *LineageOptions) {
	kind := "relation"
	if n, ok := g.Node(name); ok {
		kind = string(n.Kind)
	}
	r.Printf("Lineage for %s (%s)\n", name, kind)

	if opts.Direction != "down" {
		r.Println()
		r.Printf("Upstream (%d):\n", len(upstream))
		if len(upstream) == 0 {
			r.Println("  (none)")
		} else {
			printTree(r, g.Parents, name, "  ", 0, opts.Depth, map[string]bool{name: true})
		}
	}

	if opts.Direction != "up" {
		r.Println()
		r.Printf("Downstream (%d):\n", len(downstream))
		if len(downstream) == 0 {
			r.Println("  (none)")
		} else {
			printTree(r, g.Children, name, "  ", 0, opts.Depth, map[string]bool{name: true})
		}
	}
}

// printTree renders one traversal direction as an indented tree. seen
// guards the current path only, so diamonds print on every path but a
// true cycle is cut with a marker.
func printTree(r *output.Renderer, next func(string) []string, name, prefix string, depth, maxDepth int, seen map[string]bool) {
	if maxDepth > 0 && depth >= maxDepth {
		return
	}
	nodes := next(name)
	for i, n := range nodes {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(nodes)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		if seen[n] {
			r.Printf("%s%s%s (cycle)\n", prefix, connector, n)
			continue
		}
		r.Printf("%s%s%s\n", prefix, connector, n)
		seen[n] = true
		printTree(r, next, n, childPrefix, depth+1, maxDepth, seen)
		delete(seen, n)
	}
}
