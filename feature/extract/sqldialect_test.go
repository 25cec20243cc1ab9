package extract

import (
	"context"
	"testing"

	"schema-compare/core/database"
	"schema-compare/core/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sqlColumnHeaders = []string{
	"name", "data_type", "column_type", "is_nullable", "default", "extra", "comment",
	"position", "char_length", "precision", "scale",
}

var sqlIndexHeaders = []string{"index_name", "column_name", "seq", "non_unique", "index_type", "is_primary"}

func TestPostgresExtractor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conns := NewConnections()
	conns.UseSQL("pg", db)

	mock.ExpectQuery("FROM pg_class").WithArgs("public", "users").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "comment"}).AddRow("users", nil))
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("public", "users").WillReturnRows(
		sqlmock.NewRows(sqlColumnHeaders).
			AddRow("id", "int8", "bigint", "NO", "nextval('users_id_seq'::regclass)", "auto_increment", nil, 1, nil, 64, 0).
			AddRow("email", "varchar", "character varying", "YES", nil, "", "login", 2, 100, nil, nil).
			AddRow("score", "numeric", "numeric", "NO", "0", "", nil, 3, nil, 8, 3))
	mock.ExpectQuery("FROM pg_index").WithArgs("public", "users").WillReturnRows(
		sqlmock.NewRows(sqlIndexHeaders).
			AddRow("users_pkey", "id", 1, 0, "btree", true).
			AddRow("users_email_key", "email", 1, 0, "btree", false))

	tbl, err := NewPostgresExtractor(conns, zap.NewNop()).Extract(context.Background(), DataSource{Name: "pg", Kind: "postgres"}, "users")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, schema.SystemPostgres, tbl.System)
	assert.Nil(t, tbl.Comment)

	id := tbl.Column("id")
	assert.Equal(t, "int8", id.Type)
	assert.True(t, id.AutoIncrement)
	assert.Nil(t, id.Default, "sequence defaults are dropped")

	email := tbl.Column("email")
	assert.Equal(t, 100, *email.Length)
	assert.Equal(t, "login", *email.Comment)
	assert.True(t, email.Nullable)

	score := tbl.Column("score")
	assert.Equal(t, 8, *score.Precision)
	assert.Equal(t, 3, *score.Scale)

	require.Len(t, tbl.Indexes, 2)
	assert.Equal(t, "PRIMARY", tbl.Indexes[0].Name)
	assert.Equal(t, []string{"id"}, tbl.Indexes[0].ColumnNames())
	assert.Equal(t, "users_email_key", tbl.Indexes[1].Name)
	assert.True(t, tbl.Indexes[1].Unique)
}

func TestPostgresExtractorCustomSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conns := NewConnections()
	conns.UseSQL("pg", db)

	mock.ExpectQuery("FROM pg_class").WithArgs("billing", "ghost").WillReturnRows(
		sqlmock.NewRows([]string{"relname", "comment"}))

	ds := DataSource{Name: "pg", Kind: "pg", Properties: map[string]string{"schema": "billing"}}
	_, err = NewPostgresExtractor(conns, nil).Extract(context.Background(), ds, "ghost")
	assert.ErrorIs(t, err, database.ErrTableNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLServerExtractor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conns := NewConnections()
	conns.UseSQL("mssql", db)

	mock.ExpectQuery("FROM sys.tables").WithArgs("dbo", "users").WillReturnRows(
		sqlmock.NewRows([]string{"name", "comment"}).AddRow("users", "accounts"))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.COLUMNS").WithArgs("dbo", "users").WillReturnRows(
		sqlmock.NewRows(sqlColumnHeaders).
			AddRow("id", "int", "int", "NO", nil, "auto_increment", nil, 1, nil, 10, 0).
			AddRow("bio", "nvarchar", "nvarchar", "YES", "(N'none')", "", nil, 2, -1, nil, nil).
			AddRow("age", "int", "int", "NO", "((0))", "", nil, 3, nil, 10, 0))
	mock.ExpectQuery("FROM sys.indexes").WithArgs("dbo", "users").WillReturnRows(
		sqlmock.NewRows(sqlIndexHeaders).AddRow("PK_users", "id", 1, 0, "CLUSTERED", 1))

	tbl, err := NewSQLServerExtractor(conns, zap.NewNop()).Extract(context.Background(), DataSource{Name: "mssql"}, "users")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "accounts", *tbl.Comment)
	assert.Nil(t, tbl.Column("bio").Length, "(max) columns have no length")
	assert.Equal(t, "N'none'", *tbl.Column("bio").Default)
	assert.Equal(t, "0", *tbl.Column("age").Default)
	require.Len(t, tbl.Indexes, 1)
	assert.True(t, tbl.Indexes[0].Primary)
}

func TestOracleExtractor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conns := NewConnections()
	conns.UseSQL("ora", db)

	mock.ExpectQuery("FROM all_tables").WithArgs("APP", "USERS").WillReturnRows(
		sqlmock.NewRows([]string{"name", "comment"}).AddRow("users", nil))
	mock.ExpectQuery("FROM all_tab_columns").WithArgs("APP", "USERS").WillReturnRows(
		sqlmock.NewRows(sqlColumnHeaders).
			AddRow("id", "number", "number", "NO", nil, "auto_increment", nil, 1, 0, 19, 0).
			AddRow("created_at", "timestamp(6)", "timestamp(6)", "YES", "SYSTIMESTAMP ", "", nil, 2, 0, nil, 6))
	mock.ExpectQuery("FROM all_ind_columns").WithArgs("APP", "USERS").WillReturnRows(
		sqlmock.NewRows(sqlIndexHeaders).AddRow("sys_c001", "id", 1, 0, "NORMAL", 1))

	ds := DataSource{Name: "ora", Kind: "oracle", Properties: map[string]string{"user": "app"}}
	tbl, err := NewOracleExtractor(conns, zap.NewNop()).Extract(context.Background(), ds, "users")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "users", tbl.Name)
	assert.Equal(t, 19, *tbl.Column("id").Precision)
	created := tbl.Column("created_at")
	assert.Equal(t, "timestamp", created.Type)
	assert.Nil(t, created.Length)
	assert.Equal(t, "SYSTIMESTAMP", *created.Default)
	assert.Equal(t, []string{"id"}, tbl.PrimaryIndex().ColumnNames())
}
