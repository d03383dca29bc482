package sqlite

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlweave-labs/sqlweave/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := New(nil)
	a.DB = db
	return a, mock
}

func TestNew(t *testing.T) {
	a := New(nil)
	assert.NotNil(t, a.Logger)
	assert.Equal(t, "ansi", a.Dialect(), "sqlite analyzes under the ansi dialect")
}

func TestListTables_SkipsInternal(t *testing.T) {
	a, mock := mockAdapter(t)

	mock.ExpectQuery("FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("runs").AddRow("users"))

	tables, err := a.ListTables(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs", "users"}, tables)
}

func TestTableColumns(t *testing.T) {
	a, mock := mockAdapter(t)

	rows := sqlmock.NewRows([]string{"cid", "name", "type", "notnull"}).
		AddRow(0, "id", "INTEGER", 1).
		AddRow(1, "note", "TEXT", 0)
	mock.ExpectQuery("FROM pragma_table_info").
		WithArgs("users").
		WillReturnRows(rows)

	columns, err := a.TableColumns(context.Background(), "", "users")
	require.NoError(t, err)
	assert.Equal(t, []adapter.Column{
		{Name: "id", Type: "INTEGER", Nullable: false, Position: 1},
		{Name: "note", Type: "TEXT", Nullable: true, Position: 2},
	}, columns)
}

func TestTableColumns_NotFound(t *testing.T) {
	a, mock := mockAdapter(t)

	mock.ExpectQuery("FROM pragma_table_info").
		WithArgs("ghosts").
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull"}))

	_, err := a.TableColumns(context.Background(), "", "ghosts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTableColumns_NotConnected(t *testing.T) {
	a := New(nil)
	_, err := a.TableColumns(context.Background(), "", "users")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}
