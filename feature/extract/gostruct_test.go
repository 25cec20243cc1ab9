package extract

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"schema-compare/core/database"
	"schema-compare/core/schema"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditFields struct {
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type account struct {
	ID       int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Email    string          `json:"email" gorm:"size:100;not null;comment:login"`
	Balance  decimal.Decimal `gorm:"column:balance;type:decimal(10,2)"`
	Nickname sql.NullString
	Avatar   []byte `json:"avatar"`
	Active   bool   `gorm:"default:true"`
	Secret   string `json:"-"`
	Ignored  string `gorm:"-"`
	internal string
	auditFields
}

func (account) TableName() string { return "accounts" }

func TestStructRegistry(t *testing.T) {
	r := NewStructRegistry()
	require.NoError(t, r.Register("Account", &account{}))

	tbl, err := r.Extract(context.Background(), DataSource{}, "Account")
	require.NoError(t, err)

	assert.Equal(t, schema.SystemGoStruct, tbl.System)
	assert.Equal(t, "accounts", tbl.Properties["tableName"])
	assert.Equal(t, "extract.account", tbl.Properties["goType"])

	var names []string
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "email", "balance", "nickname", "avatar", "active", "created_at", "deleted_at"}, names)

	types := map[string]string{}
	for _, c := range tbl.Columns {
		types[c.Name] = c.Type
	}
	assert.Equal(t, map[string]string{
		"id": "int64", "email": "string", "balance": "decimal", "nickname": "string",
		"avatar": "bytes", "active": "bool", "created_at": "time", "deleted_at": "time",
	}, types)

	id := tbl.Column("id")
	assert.False(t, id.Nullable)
	assert.True(t, id.AutoIncrement)

	email := tbl.Column("email")
	assert.False(t, email.Nullable)
	assert.Equal(t, 100, *email.Length)
	assert.Equal(t, "login", *email.Comment)

	assert.True(t, tbl.Column("nickname").Nullable)
	assert.Equal(t, "sql.NullString", tbl.Column("nickname").Properties["goType"])
	assert.Equal(t, "decimal(10,2)", tbl.Column("balance").FullType)
	assert.Equal(t, "true", *tbl.Column("active").Default)

	require.NotNil(t, tbl.PrimaryIndex())
	assert.Equal(t, []string{"id"}, tbl.PrimaryIndex().ColumnNames())
}

func TestStructRegistryCopies(t *testing.T) {
	r := NewStructRegistry()
	require.NoError(t, r.Register("", account{}))
	assert.Equal(t, []string{"account"}, r.Names())

	first, err := r.Extract(context.Background(), DataSource{}, "account")
	require.NoError(t, err)
	first.Columns[0].Name = "mutated"

	second, err := r.Extract(context.Background(), DataSource{}, "account")
	require.NoError(t, err)
	assert.Equal(t, "id", second.Columns[0].Name)
}

func TestStructRegistryErrors(t *testing.T) {
	r := NewStructRegistry()
	assert.Error(t, r.Register("n", 42))

	_, err := r.Extract(context.Background(), DataSource{}, "Unknown")
	assert.ErrorIs(t, err, database.ErrTableNotFound)
}

func TestGormTag(t *testing.T) {
	tag := "column:user_id; type:bigint ;primaryKey;NOT NULL"
	assert.Equal(t, "user_id", gormTagValue(tag, "column"))
	assert.Equal(t, "bigint", gormTagValue(tag, "TYPE"))
	assert.Empty(t, gormTagValue(tag, "size"))
	assert.True(t, gormTagHas(tag, "primarykey"))
	assert.True(t, gormTagHas(tag, "not null"))
	assert.False(t, gormTagHas(tag, "unique"))
}
