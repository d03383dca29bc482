package engine

import (
	"context"
	"testing"

	"github.com/sqlweave-labs/sqlweave/internal/lineage"
	"github.com/sqlweave-labs/sqlweave/internal/testutil"
	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.Dialect == "" {
		cfg.Dialect = "ansi"
	}
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	s, err := NewSession(cfg)
	require.NoError(t, err)
	return s
}

func TestSession_AccumulatesAcrossInputs(t *testing.T) {
	s := newTestSession(t, Config{Metadata: usersMeta()})
	ctx := context.Background()

	res1, err := s.AnalyzeNext(ctx, "CREATE TABLE report AS SELECT id FROM users")
	require.NoError(t, err)
	require.Len(t, res1.Statements, 1)

	res2, err := s.AnalyzeNext(ctx, "SELECT id FROM report")
	require.NoError(t, err)
	require.Len(t, res2.Statements, 2, "result covers the whole session")
	assert.Equal(t, 1, res2.Statements[1].StatementIndex)
	assert.Equal(t, "repl", res2.Statements[1].SourceName)

	// The global graph links the producing input to the consuming one even
	// though they arrived in separate calls.
	var cross int
	for _, edge := range res2.Global.Edges {
		if edge.Kind == lineage.EdgeCrossStatement {
			cross++
			assert.Equal(t, 0, edge.StatementIndex)
			assert.Equal(t, 1, edge.ConsumerIndex)
		}
	}
	assert.Equal(t, 1, cross)
	assert.Equal(t, 2, res2.Summary.Statements)
}

func TestSession_IssuesAccumulate(t *testing.T) {
	s := newTestSession(t, Config{Metadata: usersMeta()})
	ctx := context.Background()

	res1, err := s.AnalyzeNext(ctx, "SELECT id FROM ghosts")
	require.NoError(t, err)
	require.Len(t, res1.Issues, 1)

	res2, err := s.AnalyzeNext(ctx, "SELECT id FROM users")
	require.NoError(t, err)
	assert.Len(t, res2.Issues, 1, "earlier issues stay in the cumulative result")
	assert.Equal(t, core.IssueUnresolvedReference, res2.Issues[0].Code)
}

func TestSession_ResetDropsState(t *testing.T) {
	s := newTestSession(t, Config{Metadata: usersMeta()})
	ctx := context.Background()

	_, err := s.AnalyzeNext(ctx, "CREATE TABLE report AS SELECT id FROM users")
	require.NoError(t, err)
	require.True(t, s.Registry().Known("public.report"))

	require.NoError(t, s.Reset())

	assert.False(t, s.Registry().Known("public.report"), "implied schema is gone")
	assert.True(t, s.Registry().Known("public.users"), "imported schema reloads")

	res, err := s.AnalyzeNext(ctx, "SELECT id FROM users")
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)
	assert.Equal(t, 0, res.Statements[0].StatementIndex, "numbering restarts")
}
