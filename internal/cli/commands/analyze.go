package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/internal/state"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/parser"
)

// errAnalysisFailed signals that analysis completed but found errors, so
// the process should exit non-zero without printing a second message.
var errAnalysisFailed = errors.New("analysis reported errors")

// watchDebounce coalesces editor save bursts into one rerun.
const watchDebounce = 250 * time.Millisecond

// AnalyzeOptions holds the flag values for the analyze command.
type AnalyzeOptions struct {
	Format string
	Watch  bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze SQL files and report lineage",
		Long: `Analyze parses the given SQL files (or standard input when no files are
given), builds column-level lineage across every statement, and reports
the resulting graph together with any diagnostics.

Files are parsed concurrently but analyzed as one ordered batch, so a
table created in the first file resolves in the last.`,
		Example: `  # Analyze a single file
  sqlweave analyze etl.sql

  # Analyze a pipeline in order, with cross-file lineage
  sqlweave analyze schema.sql staging.sql marts.sql

  # Pipe SQL on stdin
  cat query.sql | sqlweave analyze

  # Re-run on every save
  sqlweave analyze --watch etl.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (text or json, overrides configured output)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run analysis when the input files change")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	cc := NewCommandContextWithoutEngine(cmd)
	r := cc.rendererFor(cmd, opts.Format)
	ctx := cmd.Context()

	if len(args) == 0 {
		if opts.Watch {
			return errors.New("--watch requires file arguments")
		}
		return analyzeStdin(ctx, cc, r, cmd.InOrStdin())
	}

	if opts.Watch {
		return watchAndAnalyze(ctx, cc, r, args)
	}

	started := time.Now()
	res, err := analyzeOnce(ctx, cc, args)
	if err != nil {
		return err
	}
	if err := renderResult(r, res); err != nil {
		return err
	}
	recordRun(ctx, cc, strings.Join(args, ","), started, res)

	if res.Summary.HasErrors {
		return errAnalysisFailed
	}
	return nil
}

// analyzeStdin reads one SQL script from in and analyzes it.
func analyzeStdin(ctx context.Context, cc *CommandContext, r *output.Renderer, in io.Reader) error {
	sql, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(sql)) == "" {
		return errors.New("no SQL input: pass file arguments or pipe SQL on stdin")
	}

	eng, err := cc.NewEngine()
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := eng.AnalyzeScript(ctx, string(sql), "stdin")
	if err != nil {
		return err
	}
	if err := renderResult(r, res); err != nil {
		return err
	}
	recordRun(ctx, cc, "stdin", started, res)

	if res.Summary.HasErrors {
		return errAnalysisFailed
	}
	return nil
}

// analyzeOnce runs one full pass over files on a fresh engine, so a
// watch-mode rerun never sees schema captured by an earlier pass. Files
// are read and parsed concurrently, then analyzed as a single batch in
// argument order.
func analyzeOnce(ctx context.Context, cc *CommandContext, files []string) (*engine.Result, error) {
	eng, err := cc.NewEngine()
	if err != nil {
		return nil, err
	}

	parsed := make([][]engine.Statement, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			parsed[i] = parseStatements(string(data), file, eng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var stmts []engine.Statement
	for _, batch := range parsed {
		stmts = append(stmts, batch...)
	}

	cc.Logger.Debug("parsed input files", "files", len(files), "statements", len(stmts))

	return eng.AnalyzeStatements(ctx, stmts)
}

// parseStatements splits source SQL into engine statements. Parse errors
// ride along on the statement so analysis reports them as issues instead
// of aborting.
func parseStatements(sql, source string, eng *engine.Engine) []engine.Statement {
	script := parser.ParseScript(sql, eng.Dialect())
	stmts := make([]engine.Statement, 0, len(script.Statements))
	for _, st := range script.Statements {
		stmts = append(stmts, engine.Statement{
			Stmt:   st.Stmt,
			Raw:    st.Raw,
			Source: source,
			Errors: st.Errors,
		})
	}
	return stmts
}

// watchAndAnalyze reruns the analysis whenever one of the input files
// changes. Parent directories are watched rather than the files
// themselves, so editors that replace files on save keep triggering.
func watchAndAnalyze(ctx context.Context, cc *CommandContext, r *output.Renderer, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	rerun := func() {
		started := time.Now()
		res, err := analyzeOnce(ctx, cc, files)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.Errorf("Error: %v\n", err)
			return
		}
		if err := renderResult(r, res); err != nil {
			r.Errorf("Error: %v\n", err)
			return
		}
		recordRun(ctx, cc, strings.Join(files, ","), started, res)
	}

	rerun()
	if !r.JSON() {
		r.Printf("\nWatching %d files for changes (press Ctrl-C to stop)\n", len(files))
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}
			cc.Logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// recordRun saves a run summary to the state database. History failures
// log a warning and never fail the analysis itself.
func recordRun(ctx context.Context, cc *CommandContext, source string, started time.Time, res *engine.Result) {
	if !cc.Cfg.History {
		return
	}

	store, err := openStateStore(cc.Cfg, cc.Logger)
	if err != nil {
		cc.Logger.Warn("run history unavailable", "error", err)
		return
	}
	defer store.Close()

	s := res.Summary
	rec := state.RunRecord{
		StartedAt:   started,
		CompletedAt: time.Now(),
		Dialect:     cc.Cfg.Dialect,
		Source:      source,
		Statements:  s.Statements,
		Nodes:       s.Tables + s.Columns,
		Edges:       s.Edges,
		Errors:      s.Errors,
		Warnings:    s.Warnings,
	}
	if _, err := store.RecordRun(ctx, rec); err != nil {
		cc.Logger.Warn("failed to record run", "error", err)
	}
}

// renderResult writes an analysis result in the renderer's mode.
func renderResult(r *output.Renderer, res *engine.Result) error {
	if r.JSON() {
		return r.Encode(res)
	}

	renderSummary(r, res.Summary)
	renderIssues(r, res.Issues)
	renderRelations(r, res.Global)
	return nil
}

func renderSummary(r *output.Renderer, s lineage.Summary) {
	r.Println("Summary")
	r.Table(
		table.Row{"Statements", "Relations", "Columns", "Edges", "Errors", "Warnings"},
		[]table.Row{{s.Statements, s.Tables, s.Columns, s.Edges, s.Errors, s.Warnings}},
	)
}

// renderIssues prints diagnostics grouped by severity, most severe first.
func renderIssues(r *output.Renderer, issues []core.Issue) {
	if len(issues) == 0 {
		return
	}

	bySeverity := make(map[core.Severity][]core.Issue)
	for _, issue := range issues {
		bySeverity[issue.Severity] = append(bySeverity[issue.Severity], issue)
	}

	titleCaser := cases.Title(language.English)
	for _, sev := range []core.Severity{core.SeverityError, core.SeverityWarning, core.SeverityInfo, core.SeverityHint} {
		group := bySeverity[sev]
		if len(group) == 0 {
			continue
		}

		r.Println()
		r.Printf("%s (%d)\n", titleCaser.String(sev.String()), len(group))
		rows := make([]table.Row, 0, len(group))
		for _, issue := range group {
			rows = append(rows, table.Row{issue.Code, issueStatement(issue), issueLocation(issue), issue.Message})
		}
		r.Table(table.Row{"Code", "Statement", "Location", "Message"}, rows)
	}
}

func renderRelations(r *output.Renderer, global *lineage.GlobalLineage) {
	rows := make([]table.Row, 0, len(global.Nodes))
	for _, node := range global.SortedNodes() {
		if node.Kind == lineage.NodeColumn {
			continue
		}
		rows = append(rows, table.Row{node.CanonicalName(), string(node.Kind), len(node.StatementRefs)})
	}
	if len(rows) == 0 {
		return
	}

	r.Println()
	r.Println("Relations")
	r.Table(table.Row{"Name", "Kind", "Statements"}, rows)
}

func issueStatement(issue core.Issue) string {
	if issue.StatementIndex == nil {
		return "-"
	}
	return strconv.Itoa(*issue.StatementIndex)
}

func issueLocation(issue core.Issue) string {
	if issue.Span == nil || !issue.Span.Start.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", issue.Span.Start.Line, issue.Span.Start.Column)
}
