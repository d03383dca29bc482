package postgres

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
	assert.NotNil(t, a.Logger, "nil logger defaults to discard")
	assert.Equal(t, "postgres", a.Dialect())
	assert.False(t, a.IsConnected())
}

func TestListTables(t *testing.T) {
	a, mock := mockAdapter(t)

	rows := sqlmock.NewRows([]string{"table_name"}).
		AddRow("orders").
		AddRow("users")
	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("public").
		WillReturnRows(rows)

	tables, err := a.ListTables(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTables_ExplicitSchema(t *testing.T) {
	a, mock := mockAdapter(t)

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("sales").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("invoices"))

	tables, err := a.ListTables(context.Background(), "sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"invoices"}, tables)
}

func TestTableColumns(t *testing.T) {
	a, mock := mockAdapter(t)

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
		AddRow("id", "integer", "NO", 1).
		AddRow("email", "text", "YES", 2)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "users").
		WillReturnRows(rows)

	columns, err := a.TableColumns(context.Background(), "", "users")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, adapter.Column{Name: "id", Type: "integer", Nullable: false, Position: 1}, columns[0])
	assert.Equal(t, adapter.Column{Name: "email", Type: "text", Nullable: true, Position: 2}, columns[1])
}

func TestTableColumns_NotFound(t *testing.T) {
	a, mock := mockAdapter(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "ghosts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	_, err := a.TableColumns(context.Background(), "", "ghosts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
