package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE test_items (
		id INTEGER PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		price DECIMAL(10,2) DEFAULT 0,
		note TEXT
	)`).Error)
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX uk_name ON test_items(name)").Error)
	require.NoError(t, db.Exec("CREATE INDEX idx_price_note ON test_items(price, note)").Error)
	return db
}

func TestGetTableColumns_SQLite(t *testing.T) {
	db := setupSQLite(t)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 4)

	id := columns[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, "integer", id.DataType)
	assert.Equal(t, "PRI", id.Key)
	assert.Equal(t, "auto_increment", id.Extra)
	assert.False(t, id.Nullable())

	name := columns[1]
	assert.Equal(t, "varchar", name.DataType)
	assert.Equal(t, "varchar(50)", name.ColumnType)
	require.NotNil(t, name.CharLength)
	assert.Equal(t, int64(50), *name.CharLength)
	assert.False(t, name.Nullable())
	assert.Equal(t, 2, name.Position)

	price := columns[2]
	assert.Equal(t, "decimal", price.DataType)
	require.NotNil(t, price.Precision)
	require.NotNil(t, price.Scale)
	assert.Equal(t, int64(10), *price.Precision)
	assert.Equal(t, int64(2), *price.Scale)
	require.NotNil(t, price.Default)
	assert.Equal(t, "0", *price.Default)
	assert.True(t, price.Nullable())

	// PRAGMA table_info returns an empty result for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableIndexes_SQLite(t *testing.T) {
	db := setupSQLite(t)

	rows, err := GetTableIndexes(db, "test_items")
	require.NoError(t, err)

	assert.Equal(t, []IndexInfo{
		{IndexName: "PRIMARY", ColumnName: "id", SeqInIndex: 1, IndexType: "BTREE"},
		{IndexName: "idx_price_note", ColumnName: "price", SeqInIndex: 1, NonUnique: 1, IndexType: "BTREE"},
		{IndexName: "idx_price_note", ColumnName: "note", SeqInIndex: 2, NonUnique: 1, IndexType: "BTREE"},
		{IndexName: "uk_name", ColumnName: "name", SeqInIndex: 1, NonUnique: 0, IndexType: "BTREE"},
	}, rows)
}

func TestGetTableInfo_SQLite(t *testing.T) {
	db := setupSQLite(t)

	info, err := GetTableInfo(db, "test_items")
	require.NoError(t, err)
	assert.Equal(t, "test_items", info.Name)

	_, err = GetTableInfo(db, "missing")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{
		"column_name", "data_type", "column_type", "is_nullable", "column_default", "extra",
		"column_key", "column_comment", "ordinal_position", "character_maximum_length",
		"numeric_precision", "numeric_scale",
	}).
		AddRow("id", "BIGINT", "bigint unsigned", "NO", nil, "auto_increment", "PRI", "", 1, nil, int64(20), int64(0)).
		AddRow("email", "varchar", "varchar(255)", "YES", "NULL", "", "UNI", "login", 2, int64(255), nil, nil)

	mock.ExpectQuery("FROM information_schema.columns").WithArgs("users").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "users")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "bigint", columns[0].DataType)
	assert.Equal(t, "auto_increment", columns[0].Extra)
	assert.Nil(t, columns[0].Default)
	assert.False(t, columns[0].Nullable())

	assert.Equal(t, "login", columns[1].Comment)
	require.NotNil(t, columns[1].CharLength)
	assert.Equal(t, int64(255), *columns[1].CharLength)
	assert.True(t, columns[1].Nullable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableIndexes_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"index_name", "column_name", "seq_in_index", "non_unique", "index_type", "index_comment"}).
		AddRow("PRIMARY", "id", 1, 0, "BTREE", "").
		AddRow("idx_name", "last", 1, 1, "BTREE", "").
		AddRow("idx_name", "first", 2, 1, "BTREE", "")
	mock.ExpectQuery("FROM information_schema.statistics").WithArgs("users").WillReturnRows(rows)

	got, err := GetTableIndexes(db, "users")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[2].ColumnName)
	assert.Equal(t, 1, got[2].NonUnique)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableInfo_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("FROM information_schema.tables").WithArgs("users").WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "table_comment"}).AddRow("users", "accounts"))
	mock.ExpectQuery("FROM information_schema.tables").WithArgs("ghost").WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "table_comment"}))

	info, err := GetTableInfo(db, "users")
	require.NoError(t, err)
	require.NotNil(t, info.Comment)
	assert.Equal(t, "accounts", *info.Comment)

	_, err = GetTableInfo(db, "ghost")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		in   string
		base string
		args []int
	}{
		{"varchar(50)", "varchar", []int{50}},
		{"DECIMAL(10, 2)", "decimal", []int{10, 2}},
		{"int unsigned", "int", nil},
		{"int(11) unsigned", "int", []int{11}},
		{"text", "text", nil},
		{"character varying(20)", "character varying", []int{20}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, args := ParseColumnType(tt.in)
			assert.Equal(t, tt.base, base)
			if tt.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestTypeFamilies(t *testing.T) {
	assert.True(t, IsNumericType("DECIMAL"))
	assert.True(t, IsNumericType("number"))
	assert.False(t, IsNumericType("int"))

	assert.True(t, IsLengthType("varchar"))
	assert.True(t, IsLengthType("nvarchar2"))
	assert.True(t, IsLengthType("longblob"))
	assert.False(t, IsLengthType("bigint"))
	assert.False(t, IsLengthType("datetime"))
}
