package state

import (
	"context"
	"testing"
	"time"

	"github.com/sqlweave-labs/sqlweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(testutil.NewTestLogger(t))
	require.NoError(t, s.Open(":memory:"))
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func TestStore_RecordAndGetRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	id, err := s.RecordRun(ctx, RunRecord{
		StartedAt:   started,
		CompletedAt: started.Add(2 * time.Second),
		Dialect:     "postgres",
		Source:      "models/orders.sql",
		Statements:  4,
		Nodes:       11,
		Edges:       9,
		Errors:      0,
		Warnings:    1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id, "id is generated when missing")

	rec, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "postgres", rec.Dialect)
	assert.Equal(t, "models/orders.sql", rec.Source)
	assert.Equal(t, 4, rec.Statements)
	assert.Equal(t, 11, rec.Nodes)
	assert.Equal(t, 9, rec.Edges)
	assert.Equal(t, 1, rec.Warnings)
	assert.True(t, rec.StartedAt.Equal(started))
	assert.True(t, rec.CompletedAt.Equal(started.Add(2*time.Second)))
}

func TestStore_GetRun_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.RecordRun(ctx, RunRecord{
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Dialect:   "ansi",
			Source:    "batch.sql",
		})
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit returns up to the default")
}

func TestStore_CompletedAtNullable(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.RecordRun(ctx, RunRecord{Dialect: "ansi", Source: "open-ended.sql"})
	require.NoError(t, err)

	rec, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.CompletedAt.IsZero())
	assert.False(t, rec.StartedAt.IsZero(), "start time is filled in")
}

func TestStore_MigrateIdempotent(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Migrate(), "running migrations twice is safe")

	version, err := s.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestStore_OperationsRequireOpen(t *testing.T) {
	s := NewStore(nil)

	_, err := s.RecordRun(context.Background(), RunRecord{})
	assert.Error(t, err)
	_, err = s.ListRuns(context.Background(), 10)
	assert.Error(t, err)
	assert.Error(t, s.Migrate())
	assert.NoError(t, s.Close())
}
