package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

func TestParseScript_Multiple(t *testing.T) {
	sql := `CREATE TABLE t (id BIGINT);
INSERT INTO t SELECT id FROM src;
SELECT * FROM t`

	script := ParseScript(sql, nil)
	require.Len(t, script.Statements, 3)

	assert.Equal(t, 0, script.Statements[0].Index)
	assert.IsType(t, &core.CreateTableStmt{}, script.Statements[0].Stmt)
	assert.Equal(t, "CREATE TABLE t (id BIGINT)", script.Statements[0].Raw)

	assert.Equal(t, 1, script.Statements[1].Index)
	assert.IsType(t, &core.InsertStmt{}, script.Statements[1].Stmt)

	assert.Equal(t, 2, script.Statements[2].Index)
	assert.IsType(t, &core.SelectStmt{}, script.Statements[2].Stmt)
	assert.Equal(t, "SELECT * FROM t", script.Statements[2].Raw)
}

func TestParseScript_ErrorRecovery(t *testing.T) {
	sql := `SELECT 1;
SELECT FROM WHERE;
SELECT 2`

	script := ParseScript(sql, nil)
	require.Len(t, script.Statements, 3)

	assert.Empty(t, script.Statements[0].Errors)
	assert.IsType(t, &core.SelectStmt{}, script.Statements[0].Stmt)

	// The broken statement degrades to a raw statement with errors attached.
	bad := script.Statements[1]
	require.NotEmpty(t, bad.Errors)
	raw, ok := bad.Stmt.(*core.RawStmt)
	require.True(t, ok)
	assert.Equal(t, "SELECT", raw.Keyword)
	assert.Equal(t, "SELECT FROM WHERE", raw.Raw)

	// The statement after the error still parses.
	assert.Empty(t, script.Statements[2].Errors)
	assert.IsType(t, &core.SelectStmt{}, script.Statements[2].Stmt)
}

func TestParseScript_TrailingGarbageIsError(t *testing.T) {
	script := ParseScript("SELECT 1 2 3", nil)
	require.Len(t, script.Statements, 1)
	assert.NotEmpty(t, script.Statements[0].Errors)
	assert.IsType(t, &core.RawStmt{}, script.Statements[0].Stmt)
}

func TestParseScript_EmptyStatements(t *testing.T) {
	script := ParseScript(";;SELECT 1;;", nil)
	require.Len(t, script.Statements, 1)
	assert.IsType(t, &core.SelectStmt{}, script.Statements[0].Stmt)
}

func TestParseScript_EmptyInput(t *testing.T) {
	script := ParseScript("", nil)
	assert.Empty(t, script.Statements)

	script = ParseScript("   \n", nil)
	assert.Empty(t, script.Statements)
}

func TestParseScript_Comments(t *testing.T) {
	sql := `-- build the staging table
CREATE TABLE stg AS SELECT * FROM raw; /* then read it */ SELECT * FROM stg`

	script := ParseScript(sql, nil)
	require.Len(t, script.Statements, 2)
	require.Len(t, script.Comments, 2)
	assert.Equal(t, "-- build the staging table", script.Comments[0].Text)
	assert.Equal(t, "/* then read it */", script.Comments[1].Text)
}

func TestParseScript_CommentOnly(t *testing.T) {
	script := ParseScript("-- nothing to run", nil)
	assert.Empty(t, script.Statements)
	require.Len(t, script.Comments, 1)
}

func TestParseScript_Spans(t *testing.T) {
	sql := "SELECT 1;\nSELECT 2"
	script := ParseScript(sql, nil)
	require.Len(t, script.Statements, 2)

	first := script.Statements[0].Stmt.(*core.SelectStmt)
	assert.Equal(t, 0, first.SrcSpan.Start.Offset)
	assert.Equal(t, 1, first.SrcSpan.Start.Line)

	second := script.Statements[1].Stmt.(*core.SelectStmt)
	assert.Equal(t, 10, second.SrcSpan.Start.Offset)
	assert.Equal(t, 2, second.SrcSpan.Start.Line)
}

func TestParseScript_MixedKinds(t *testing.T) {
	sql := `CREATE SCHEMA analytics;
CREATE TABLE analytics.users (id BIGINT PRIMARY KEY);
CREATE VIEW analytics.v AS SELECT id FROM analytics.users;
DROP TABLE analytics.users`

	script := ParseScript(sql, nil)
	require.Len(t, script.Statements, 4)

	raw := script.Statements[0].Stmt.(*core.RawStmt)
	assert.Equal(t, "CREATE", raw.Keyword)
	assert.Empty(t, script.Statements[0].Errors)

	assert.IsType(t, &core.CreateTableStmt{}, script.Statements[1].Stmt)
	assert.IsType(t, &core.CreateViewStmt{}, script.Statements[2].Stmt)

	drop := script.Statements[3].Stmt.(*core.RawStmt)
	assert.Equal(t, "DROP", drop.Keyword)
}
