package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// fromClause parses sql and returns its FROM clause.
func fromClause(t *testing.T, sql string) *core.FromClause {
	t.Helper()
	stmt, err := Parse(sql, nil)
	require.NoError(t, err)
	sel, ok := stmt.(*core.SelectStmt)
	require.True(t, ok, "expected SelectStmt, got %T", stmt)
	require.NotNil(t, sel.Body.Left.From)
	return sel.Body.Left.From
}

func TestParseFrom_TableName(t *testing.T) {
	t.Run("bare", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM users")
		name, ok := from.Source.(*core.TableName)
		require.True(t, ok)
		assert.Equal(t, "users", name.Raw())
		assert.Empty(t, name.Alias)
	})

	t.Run("qualified", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM lake.raw.events")
		name := from.Source.(*core.TableName)
		require.Len(t, name.Parts, 3)
		assert.Equal(t, "lake.raw.events", name.Raw())
	})

	t.Run("aliased", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM orders AS o")
		name := from.Source.(*core.TableName)
		assert.Equal(t, "o", name.Alias)
	})

	t.Run("implicit_alias", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM orders o")
		name := from.Source.(*core.TableName)
		assert.Equal(t, "o", name.Alias)
	})

	t.Run("quoted_parts", func(t *testing.T) {
		from := fromClause(t, `SELECT * FROM "My Schema"."My Table"`)
		name := from.Source.(*core.TableName)
		require.Len(t, name.Parts, 2)
		assert.Equal(t, "My Schema", name.Parts[0].Text)
		assert.True(t, name.Parts[0].Quoted)
	})
}

func TestParseFrom_Joins(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		joinType core.JoinType
	}{
		{"inner", "SELECT * FROM a INNER JOIN b ON a.id = b.id", core.JoinInner},
		{"bare_join", "SELECT * FROM a JOIN b ON a.id = b.id", core.JoinInner},
		{"left", "SELECT * FROM a LEFT JOIN b ON a.id = b.id", core.JoinLeft},
		{"left_outer", "SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.id", core.JoinLeft},
		{"right", "SELECT * FROM a RIGHT JOIN b ON a.id = b.id", core.JoinRight},
		{"full", "SELECT * FROM a FULL OUTER JOIN b ON a.id = b.id", core.JoinFull},
		{"cross", "SELECT * FROM a CROSS JOIN b", core.JoinCross},
		{"semi", "SELECT * FROM a LEFT SEMI JOIN b ON a.id = b.id", core.JoinLeft},
		{"anti", "SELECT * FROM a LEFT ANTI JOIN b ON a.id = b.id", core.JoinLeft},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from := fromClause(t, tc.sql)
			require.Len(t, from.Joins, 1)
			assert.Equal(t, tc.joinType, from.Joins[0].Type)
		})
	}
}

func TestParseFrom_CommaJoin(t *testing.T) {
	from := fromClause(t, "SELECT * FROM a, b, c")
	require.Len(t, from.Joins, 2)
	assert.Equal(t, core.JoinComma, from.Joins[0].Type)
	assert.Equal(t, core.JoinComma, from.Joins[1].Type)
}

func TestParseFrom_NaturalJoin(t *testing.T) {
	from := fromClause(t, "SELECT * FROM a NATURAL JOIN b")
	require.Len(t, from.Joins, 1)
	assert.True(t, from.Joins[0].Natural)
	assert.Nil(t, from.Joins[0].Condition)
}

func TestParseFrom_JoinUsing(t *testing.T) {
	from := fromClause(t, "SELECT * FROM a JOIN b USING (id, org_id)")
	require.Len(t, from.Joins, 1)
	require.Len(t, from.Joins[0].Using, 2)
	assert.Equal(t, "id", from.Joins[0].Using[0].Text)
	assert.Nil(t, from.Joins[0].Condition)
}

func TestParseFrom_MultipleJoins(t *testing.T) {
	sql := `SELECT * FROM orders o
		JOIN customers c ON o.customer_id = c.id
		LEFT JOIN payments p ON p.order_id = o.id`
	from := fromClause(t, sql)
	require.Len(t, from.Joins, 2)
	assert.Equal(t, core.JoinInner, from.Joins[0].Type)
	assert.Equal(t, core.JoinLeft, from.Joins[1].Type)
}

func TestParseFrom_DerivedTable(t *testing.T) {
	t.Run("aliased", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM (SELECT id FROM users) u")
		derived, ok := from.Source.(*core.DerivedTable)
		require.True(t, ok)
		assert.Equal(t, "u", derived.Alias)
		require.NotNil(t, derived.Select)
	})

	t.Run("column_aliases", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM (SELECT 1, 2) t (a, b)")
		derived := from.Source.(*core.DerivedTable)
		require.Len(t, derived.Columns, 2)
		assert.Equal(t, "a", derived.Columns[0].Text)
	})

	t.Run("lateral", func(t *testing.T) {
		sql := "SELECT * FROM t, LATERAL (SELECT * FROM u WHERE u.tid = t.id) x"
		from := fromClause(t, sql)
		require.Len(t, from.Joins, 1)
		derived, ok := from.Joins[0].Right.(*core.DerivedTable)
		require.True(t, ok)
		assert.True(t, derived.Lateral)
	})

	t.Run("nested", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM (SELECT * FROM (SELECT 1) a) b")
		derived := from.Source.(*core.DerivedTable)
		inner := derived.Select.Body.Left.From.Source.(*core.DerivedTable)
		assert.Equal(t, "a", inner.Alias)
	})
}

func TestParseFrom_TableFunction(t *testing.T) {
	t.Run("read_csv", func(t *testing.T) {
		from := fromClause(t, "SELECT * FROM read_csv('data.csv')")
		fn, ok := from.Source.(*core.TableFunc)
		require.True(t, ok)
		assert.Equal(t, "read_csv", fn.Name)
		require.Len(t, fn.Args, 1)
	})

	t.Run("generate_series_aliased", func(t *testing.T) {
		from := fromClause(t, "SELECT n FROM generate_series(1, 3) t(n)")
		fn := from.Source.(*core.TableFunc)
		assert.Equal(t, "generate_series", fn.Name)
		assert.Equal(t, "t", fn.Alias)
		require.Len(t, fn.Columns, 1)
		assert.Equal(t, "n", fn.Columns[0].Text)
	})
}

func TestParseFrom_JoinOnSubquery(t *testing.T) {
	sql := "SELECT * FROM a JOIN (SELECT id FROM b) sub ON a.id = sub.id"
	from := fromClause(t, sql)
	require.Len(t, from.Joins, 1)
	derived, ok := from.Joins[0].Right.(*core.DerivedTable)
	require.True(t, ok)
	assert.Equal(t, "sub", derived.Alias)
}
