package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

const replPrompt = "sqlweave> "

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive lineage session",
		Long: `Repl starts an interactive session. Statements accumulate in one
engine, so a table created early in the session resolves in every later
statement, and lineage always reflects the whole session.`,
		Example: `  sqlweave repl
  sqlweave repl --dialect duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd)
		},
	}
}

// replSession carries the interactive state: the accumulating engine
// session and the last cumulative result for .issues and .summary.
type replSession struct {
	r       *output.Renderer
	session *engine.Session
	last    *engine.Result
}

func runRepl(cmd *cobra.Command) error {
	cc := NewCommandContextWithoutEngine(cmd)
	ctx := cmd.Context()
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeText)

	session, err := cc.NewEngineSession()
	if err != nil {
		return err
	}
	rs := &replSession{r: r, session: session}

	historyFile := ""
	if dir := filepath.Dir(cc.Cfg.StatePath); os.MkdirAll(dir, 0o750) == nil {
		historyFile = filepath.Join(dir, "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    &sessionCompleter{session: session},
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r.Printf("SQLWeave REPL (dialect: %s)\n", cc.Cfg.Dialect)
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	started := time.Now()
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := rs.handleCommand(line); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt(replPrompt)

		sql := multiLineBuffer.String()
		multiLineBuffer.Reset()
		rs.analyze(ctx, sql)
	}

	if rs.last != nil {
		recordRun(ctx, cc, "repl", started, rs.last)
	}
	return nil
}

// analyze feeds one input into the session and prints what it added: a
// line per new statement plus any new diagnostics.
func (rs *replSession) analyze(ctx context.Context, sql string) {
	var prevStatements, prevIssues int
	if rs.last != nil {
		prevStatements = len(rs.last.Statements)
		prevIssues = len(rs.last.Issues)
	}

	res, err := rs.session.AnalyzeNext(ctx, sql)
	if err != nil {
		rs.r.Errorf("Error: %v\n", err)
		return
	}
	rs.last = res

	for _, sl := range res.Statements[prevStatements:] {
		rs.r.Println(describeStatement(sl))
	}
	for _, issue := range res.Issues[prevIssues:] {
		printIssueLine(rs.r, issue)
	}
	rs.r.Println()
}

func (rs *replSession) handleCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(rs.r)

	case ".tables":
		entries := rs.session.Registry().Entries()
		if len(entries) == 0 {
			rs.r.Println("No tables known yet.")
			break
		}
		renderEntryList(rs.r, entries)

	case ".schema":
		if len(parts) < 2 {
			rs.r.Errorf("Usage: .schema <table>\n")
			break
		}
		entry, err := findEntry(rs.session.Engine(), parts[1])
		if err != nil {
			rs.r.Errorf("Error: %v\n", err)
			break
		}
		renderEntryDetail(rs.r, entry)

	case ".issues":
		if rs.last == nil || len(rs.last.Issues) == 0 {
			rs.r.Println("No issues.")
			break
		}
		renderIssues(rs.r, rs.last.Issues)

	case ".summary":
		if rs.last == nil {
			rs.r.Println("Nothing analyzed yet.")
			break
		}
		renderSummary(rs.r, rs.last.Summary)

	case ".clear":
		if err := rs.session.Reset(); err != nil {
			rs.r.Errorf("Error: %v\n", err)
			break
		}
		rs.last = nil
		rs.r.Println("Session cleared.")

	default:
		rs.r.Errorf("Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func describeStatement(sl *lineage.StatementLineage) string {
	relations := 0
	for _, n := range sl.Nodes {
		if n.Kind != lineage.NodeColumn {
			relations++
		}
	}
	if sl.Target != "" {
		return fmt.Sprintf("[%d] target %s: %d relations, %d edges", sl.StatementIndex, sl.Target, relations, len(sl.Edges))
	}
	return fmt.Sprintf("[%d] query: %d relations, %d edges", sl.StatementIndex, relations, len(sl.Edges))
}

func printIssueLine(r *output.Renderer, issue core.Issue) {
	if loc := issueLocation(issue); loc != "-" {
		r.Printf("  %s %s: %s (at %s)\n", issue.Severity, issue.Code, issue.Message, loc)
		return
	}
	r.Printf("  %s %s: %s\n", issue.Severity, issue.Code, issue.Message)
}

func printReplHelp(r *output.Renderer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List tables and views known to the session
  .schema <name>  Show the columns of a table or view
  .issues         Show all diagnostics for the session
  .summary        Show cumulative lineage counts
  .clear          Discard the session and start over
  .quit / .exit   Exit the REPL

Tips:
  - Statements end with a semicolon (;)
  - CREATE TABLE and CTAS feed name resolution for later statements
  - Tab completion covers dot-commands and known table names
`
	r.Println(help)
}

// sessionCompleter completes dot-commands plus the table names the
// session knows right now, so a table created two statements ago
// completes too.
type sessionCompleter struct {
	session *engine.Session
}

func (c *sessionCompleter) Do(line []rune, pos int) ([][]rune, int) {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".issues"),
		readline.PcItem(".summary"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, e := range c.session.Registry().Entries() {
		items = append(items, readline.PcItem(e.Table.Canonical()))
	}
	return readline.NewPrefixCompleter(items...).Do(line, pos)
}
