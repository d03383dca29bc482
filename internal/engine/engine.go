// Package engine wires the parser, schema registry, and lineage builder
// into one analysis pipeline. An engine owns exactly one registry, so
// schema knowledge implied by earlier statements carries into later calls.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/internal/loader"
	"github.com/sqlweave-labs/sqlweave/internal/registry"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
	"github.com/sqlweave-labs/sqlweave/pkg/parser"
	"github.com/sqlweave-labs/sqlweave/pkg/token"
)

// ErrUnknownDialect is returned by New when the configured dialect name has
// no registered dialect.
var ErrUnknownDialect = errors.New("unknown dialect")

// Config holds engine configuration.
type Config struct {
	// Dialect is the SQL dialect name. Required.
	Dialect string
	// SchemaFiles are YAML schema documents loaded before analysis. They
	// seed the imported schema; tables from Metadata are applied after
	// them and win on duplicate names.
	SchemaFiles []string
	// Metadata carries name resolution defaults, the search path, case
	// override, and programmatically imported tables. Optional.
	Metadata *core.SchemaMetadata
	// DisableImplied turns off schema capture from DDL statements.
	DisableImplied bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine runs SQL statements through one registry-backed analysis
// pipeline. Analysis is synchronous; an Engine must not be shared across
// goroutines.
type Engine struct {
	dialect  *dialect.Dialect
	meta     *core.SchemaMetadata
	registry *registry.SchemaRegistry
	builder  *lineage.Builder
	logger   *slog.Logger

	// nextIndex is the statement index assigned across calls, so a later
	// batch continues the numbering of an earlier one.
	nextIndex int
}

// Statement is one parsed statement queued for analysis, tagged with the
// source it came from.
type Statement struct {
	Stmt   core.Stmt
	Raw    string
	Source string
	Errors []*parser.ParseError
}

// Result is the outcome of one analysis run.
type Result struct {
	Statements []*lineage.StatementLineage `json:"statements"`
	Global     *lineage.GlobalLineage      `json:"global"`
	Summary    lineage.Summary             `json:"summary"`
	Issues     []core.Issue                `json:"issues"`
}

// New creates an engine for one dialect. Schema files load eagerly so a
// bad document fails here rather than mid-analysis.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.Dialect == "" {
		return nil, dialect.ErrDialectRequired
	}
	d, ok := dialect.Get(cfg.Dialect)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, cfg.Dialect)
	}

	meta := copyMetadata(cfg.Metadata)

	if len(cfg.SchemaFiles) > 0 {
		loaded, err := loader.LoadSchemaFiles(cfg.SchemaFiles...)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema files: %w", err)
		}
		// File tables first so Metadata.Tables win on duplicates.
		meta.Tables = append(loaded, meta.Tables...)
	}
	normalizeTables(meta.Tables, d, meta.CaseOverride)

	captureImplied := !cfg.DisableImplied && !meta.DisableImplied
	meta.DisableImplied = !captureImplied

	reg := registry.NewSchemaRegistry(captureImplied)
	reg.RegisterImported(meta.Tables)

	logger.Debug("engine initialized",
		"dialect", d.Name,
		"imported_tables", len(meta.Tables),
		"capture_implied", captureImplied)

	return &Engine{
		dialect:  d,
		meta:     meta,
		registry: reg,
		builder:  lineage.NewBuilder(d, meta, reg, logger),
		logger:   logger,
	}, nil
}

// AnalyzeScript parses sql and analyzes every statement in it. Parse
// failures degrade to PARSE_ERROR issues; the rest of the script still
// runs.
func (e *Engine) AnalyzeScript(ctx context.Context, sql, sourceName string) (*Result, error) {
	script := parser.ParseScript(sql, e.dialect)
	stmts := make([]Statement, 0, len(script.Statements))
	for _, st := range script.Statements {
		stmts = append(stmts, Statement{
			Stmt:   st.Stmt,
			Raw:    st.Raw,
			Source: sourceName,
			Errors: st.Errors,
		})
	}
	return e.AnalyzeStatements(ctx, stmts)
}

// AnalyzeStatements analyzes pre-parsed statements in order. Statement
// indices continue from any previous call on this engine, and schema
// captured from earlier DDL stays visible. The returned Result covers
// this batch only.
func (e *Engine) AnalyzeStatements(ctx context.Context, stmts []Statement) (*Result, error) {
	e.logger.Debug("analyzing statements", "count", len(stmts))

	statements := make([]*lineage.StatementLineage, 0, len(stmts))
	var issues []core.Issue

	for _, st := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		index := e.nextIndex
		e.nextIndex++

		for _, perr := range st.Errors {
			issue := core.NewIssue(core.SeverityError, core.IssueParseError, perr.Message).AtStatement(index)
			if perr.Pos.IsValid() {
				issue = issue.WithSpan(token.Span{Start: perr.Pos, End: perr.Pos})
			}
			issues = append(issues, issue)
		}

		sl, stIssues := e.builder.BuildStatement(st.Stmt, index, st.Source)
		statements = append(statements, sl)
		issues = append(issues, stIssues...)
	}

	global := lineage.BuildGlobal(statements)
	summary := lineage.BuildSummary(statements, global, issues)

	e.logger.Debug("analysis complete",
		"statements", len(statements),
		"nodes", len(global.Nodes),
		"edges", len(global.Edges),
		"issues", len(issues))

	return &Result{
		Statements: statements,
		Global:     global,
		Summary:    summary,
		Issues:     issues,
	}, nil
}

// Dialect returns the engine's dialect.
func (e *Engine) Dialect() *dialect.Dialect {
	return e.dialect
}

// Registry returns the engine's schema registry, reflecting imported
// tables plus anything implied by statements analyzed so far.
func (e *Engine) Registry() *registry.SchemaRegistry {
	return e.registry
}

// Metadata returns the engine's resolved metadata.
func (e *Engine) Metadata() *core.SchemaMetadata {
	return e.meta
}

// copyMetadata clones caller metadata so the engine can extend the table
// list without mutating the caller's value. nil yields a usable zero
// value.
func copyMetadata(meta *core.SchemaMetadata) *core.SchemaMetadata {
	if meta == nil {
		return &core.SchemaMetadata{}
	}
	out := *meta
	out.Tables = make([]core.SchemaTable, len(meta.Tables))
	copy(out.Tables, meta.Tables)
	out.SearchPath = append([]string(nil), meta.SearchPath...)
	return &out
}

// normalizeTables folds imported table and column names into canonical
// form in place. The registry matches by exact canonical string, so
// imported names must agree with what resolution produces.
func normalizeTables(tables []core.SchemaTable, d *dialect.Dialect, override core.CaseOverride) {
	for i := range tables {
		t := &tables[i]
		t.Catalog = lineage.NormalizeQualified(t.Catalog, d, override)
		t.Schema = lineage.NormalizeQualified(t.Schema, d, override)
		t.Name = lineage.NormalizeQualified(t.Name, d, override)
		cols := make([]core.SchemaColumn, len(t.Columns))
		copy(cols, t.Columns)
		for j := range cols {
			cols[j].Name = lineage.NormalizeQualified(cols[j].Name, d, override)
			cols[j].References = lineage.NormalizeQualified(cols[j].References, d, override)
		}
		t.Columns = cols
	}
}
