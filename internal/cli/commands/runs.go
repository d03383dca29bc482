package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqlweave-labs/sqlweave/internal/cli/output"
	"github.com/sqlweave-labs/sqlweave/internal/state"
)

// RunsOptions holds the flag values for the runs command.
type RunsOptions struct {
	Format string
	Limit  int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "Show analysis run history",
		Long: `Runs lists past analyze invocations recorded in the state database,
newest first. Pass a run id (or a unique prefix of one) to see the
details of a single run.`,
		Example: `  # Recent runs
  sqlweave runs

  # More of them
  sqlweave runs --limit 100

  # One run by id prefix
  sqlweave runs 1b2c3d4e`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (text or json, overrides configured output)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Max runs to list")

	return cmd
}

func runRuns(cmd *cobra.Command, args []string, opts *RunsOptions) error {
	cc := NewCommandContextWithoutEngine(cmd)
	r := cc.rendererFor(cmd, opts.Format)
	ctx := cmd.Context()

	store, err := openStateStore(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		run, err := lookupRun(ctx, store, args[0])
		if err != nil {
			return err
		}
		if r.JSON() {
			return r.Encode(run)
		}
		renderRun(r, run)
		return nil
	}

	runs, err := store.ListRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}

	if r.JSON() {
		return r.Encode(runs)
	}

	if len(runs) == 0 {
		r.Println("No runs recorded yet.")
		return nil
	}

	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, table.Row{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Dialect,
			truncate(run.Source, 40),
			run.Statements,
			run.Errors,
			run.Warnings,
		})
	}
	r.Table(table.Row{"ID", "Started", "Dialect", "Source", "Statements", "Errors", "Warnings"}, rows)
	return nil
}

// lookupRun fetches a run by exact id, falling back to a unique prefix
// match over recent runs so the short ids shown in the list work too.
func lookupRun(ctx context.Context, store *state.Store, id string) (*state.RunRecord, error) {
	run, err := store.GetRun(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, state.ErrRunNotFound) {
		return nil, err
	}

	runs, lerr := store.ListRuns(ctx, 0)
	if lerr != nil {
		return nil, lerr
	}
	var match *state.RunRecord
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

func renderRun(r *output.Renderer, run *state.RunRecord) {
	r.Printf("Run %s\n", run.ID)
	r.Printf("  %-11s %s\n", "Started:", run.StartedAt.Local().Format(time.RFC3339))
	if !run.CompletedAt.IsZero() {
		r.Printf("  %-11s %s (%s)\n", "Completed:", run.CompletedAt.Local().Format(time.RFC3339),
			run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	r.Printf("  %-11s %s\n", "Dialect:", run.Dialect)
	r.Printf("  %-11s %s\n", "Source:", run.Source)
	r.Printf("  %-11s %d\n", "Statements:", run.Statements)
	r.Printf("  %-11s %d\n", "Nodes:", run.Nodes)
	r.Printf("  %-11s %d\n", "Edges:", run.Edges)
	r.Printf("  %-11s %d\n", "Errors:", run.Errors)
	r.Printf("  %-11s %d\n", "Warnings:", run.Warnings)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
