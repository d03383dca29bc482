package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlweave-labs/sqlweave/internal/config"
	"github.com/sqlweave-labs/sqlweave/internal/engine"
	"github.com/sqlweave-labs/sqlweave/internal/testutil"
	"github.com/sqlweave-labs/sqlweave/pkg/core"

	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/ansi"
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/duckdb"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{
		Host:    "127.0.0.1",
		Port:    0,
		Project: &config.ProjectConfig{Dialect: "ansi", CaptureImplied: true},
		Logger:  testutil.NewTestLogger(t),
		Version: "test",
	})
}

func postAnalyze(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) *engine.Result {
	t.Helper()
	var res engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return &res
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, "ansi", body["dialect"])
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t)

	rec := postAnalyze(t, s, analyzeRequest{
		SQL: "CREATE TABLE users (id INT, name TEXT); CREATE TABLE names AS SELECT name FROM users;",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	assert.Equal(t, 2, res.Summary.Statements)
	assert.False(t, res.Summary.HasErrors)
	assert.Len(t, res.Statements, 2)
	assert.NotEmpty(t, res.Global.Nodes)
}

func TestAnalyze_DialectOverride(t *testing.T) {
	s := newTestServer(t)

	rec := postAnalyze(t, s, analyzeRequest{SQL: "SELECT 1;", Dialect: "duckdb"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postAnalyze(t, s, analyzeRequest{SQL: "SELECT 1;", Dialect: "oracle"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown dialect")
}

func TestAnalyze_InlineTables(t *testing.T) {
	s := newTestServer(t)

	rec := postAnalyze(t, s, analyzeRequest{
		SQL: "SELECT id, email FROM public.users;",
		Tables: []core.SchemaTable{
			{Schema: "public", Name: "users", Columns: []core.SchemaColumn{
				{Name: "id", Type: "INT"},
				{Name: "email", Type: "TEXT"},
			}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	assert.Empty(t, res.Issues)
	assert.Positive(t, res.Summary.Columns)
}

func TestAnalyze_ParseErrorsReportedNotFatal(t *testing.T) {
	s := newTestServer(t)

	rec := postAnalyze(t, s, analyzeRequest{SQL: "SELEC nonsense FROM;"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	assert.True(t, res.Summary.HasErrors)

	codes := make([]string, 0, len(res.Issues))
	for _, issue := range res.Issues {
		codes = append(codes, issue.Code)
	}
	assert.Contains(t, codes, core.IssueParseError)
}

func TestAnalyze_BadRequests(t *testing.T) {
	s := newTestServer(t)

	rec := postAnalyze(t, s, analyzeRequest{SQL: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sql is required")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{"))
	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "invalid request body")
}

func postLineage(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lineage", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const lineageFixtureSQL = `
CREATE TABLE raw_events (id INT, kind TEXT);
CREATE TABLE events AS SELECT id, kind FROM raw_events;
CREATE VIEW event_kinds AS SELECT kind FROM events;
`

func TestLineage(t *testing.T) {
	s := newTestServer(t)

	rec := postLineage(t, s, lineageRequest{
		analyzeRequest: analyzeRequest{SQL: lineageFixtureSQL},
		Relation:       "events",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp lineageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "events", resp.Root)
	assert.Equal(t, "both", resp.Direction)
	assert.Equal(t, []string{"raw_events"}, resp.Upstream)
	assert.Equal(t, []string{"event_kinds"}, resp.Downstream)
	assert.Len(t, resp.Nodes, 3)
	assert.Len(t, resp.Edges, 2)
}

func TestLineage_DirectionAndDepth(t *testing.T) {
	s := newTestServer(t)

	rec := postLineage(t, s, lineageRequest{
		analyzeRequest: analyzeRequest{SQL: lineageFixtureSQL},
		Relation:       "raw_events",
		Direction:      "down",
		Depth:          1,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp lineageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Upstream)
	assert.Equal(t, []string{"events"}, resp.Downstream)
}

func TestLineage_BadRequests(t *testing.T) {
	s := newTestServer(t)

	rec := postLineage(t, s, lineageRequest{
		analyzeRequest: analyzeRequest{SQL: lineageFixtureSQL},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "relation is required")

	rec = postLineage(t, s, lineageRequest{
		analyzeRequest: analyzeRequest{SQL: lineageFixtureSQL},
		Relation:       "events",
		Direction:      "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid direction")

	rec = postLineage(t, s, lineageRequest{
		analyzeRequest: analyzeRequest{SQL: lineageFixtureSQL},
		Relation:       "nope",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after context cancel")
	}
}
