package engine

import (
	"context"

	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/internal/registry"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// sessionSource names statements entered interactively.
const sessionSource = "repl"

// Session accumulates statements across calls, for interactive use. Each
// AnalyzeNext call extends the same registry and statement numbering, and
// the returned Result always covers the whole session so far, so
// cross-statement lineage spans inputs entered minutes apart.
type Session struct {
	cfg    Config
	engine *Engine

	statements []*lineage.StatementLineage
	issues     []core.Issue
}

// NewSession creates a session around a fresh engine.
func NewSession(cfg Config) (*Session, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, engine: e}, nil
}

// AnalyzeNext analyzes one more input and returns the cumulative result.
func (s *Session) AnalyzeNext(ctx context.Context, sql string) (*Result, error) {
	res, err := s.engine.AnalyzeScript(ctx, sql, sessionSource)
	if err != nil {
		return nil, err
	}

	s.statements = append(s.statements, res.Statements...)
	s.issues = append(s.issues, res.Issues...)

	global := lineage.BuildGlobal(s.statements)
	summary := lineage.BuildSummary(s.statements, global, s.issues)

	return &Result{
		Statements: s.statements,
		Global:     global,
		Summary:    summary,
		Issues:     s.issues,
	}, nil
}

// Reset discards accumulated statements and rebuilds the engine, dropping
// any schema implied during the session. Imported schema files reload.
func (s *Session) Reset() error {
	e, err := New(s.cfg)
	if err != nil {
		return err
	}
	s.engine = e
	s.statements = nil
	s.issues = nil
	return nil
}

// Registry exposes the underlying registry for inspection commands.
func (s *Session) Registry() *registry.SchemaRegistry {
	return s.engine.Registry()
}

// Engine returns the session's current engine.
func (s *Session) Engine() *Engine {
	return s.engine
}
