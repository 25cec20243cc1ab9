package extract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schema-compare/core/database"
	"schema-compare/core/schema"
	"schema-compare/core/utils"

	"go.uber.org/zap"
)

// sqlDialect reads a catalog through database/sql. Every query returns its
// columns in a fixed order:
//
//	table:   name, comment
//	columns: name, data type, column type, is_nullable, default, extra,
//	         comment, position, char length, precision, scale
//	indexes: index name, column name, seq, non_unique, index type, is_primary
type sqlDialect struct {
	conns         *Connections
	defaultSchema func(DataSource) string
	args          func(schemaName, table string) []any
	tableQuery    string
	columnsQuery  string
	indexesQuery  string
	normalize     func(*database.ColumnInfo)
}

func (d sqlDialect) queryArgs(ds DataSource, table string) []any {
	s := ds.Property("schema")
	if s == "" {
		s = d.defaultSchema(ds)
	}
	if d.args != nil {
		return d.args(s, table)
	}
	return []any{s, table}
}

func (d sqlDialect) Table(ctx context.Context, ds DataSource, table string) (*database.TableInfo, error) {
	db, err := d.conns.SQL(ctx, ds)
	if err != nil {
		return nil, err
	}
	var name string
	var comment sql.NullString
	err = db.QueryRowContext(ctx, d.tableQuery, d.queryArgs(ds, table)...).Scan(&name, &comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", database.ErrTableNotFound, table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", table, err)
	}
	info := &database.TableInfo{Name: name}
	if comment.Valid {
		info.Comment = &comment.String
	}
	return info, nil
}

func (d sqlDialect) Columns(ctx context.Context, ds DataSource, table string) ([]database.ColumnInfo, error) {
	db, err := d.conns.SQL(ctx, ds)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, d.columnsQuery, d.queryArgs(ds, table)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	defer rows.Close()

	var out []database.ColumnInfo
	for rows.Next() {
		var (
			c                      database.ColumnInfo
			def, extra, comment    sql.NullString
			length, precision, scl sql.NullInt64
		)
		if err := rows.Scan(&c.Name, &c.DataType, &c.ColumnType, &c.IsNullable, &def, &extra, &comment,
			&c.Position, &length, &precision, &scl); err != nil {
			return nil, fmt.Errorf("failed to scan column of table %s: %w", table, err)
		}
		if def.Valid {
			c.Default = &def.String
		}
		c.Extra, c.Comment = extra.String, comment.String
		c.CharLength = positive(length)
		c.Precision = positive(precision)
		if scl.Valid && scl.Int64 >= 0 {
			c.Scale = &scl.Int64
		}
		c.DataType = strings.ToLower(strings.TrimSpace(c.DataType))
		c.ColumnType = strings.ToLower(strings.TrimSpace(c.ColumnType))
		if d.normalize != nil {
			d.normalize(&c)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	return out, nil
}

func (d sqlDialect) Indexes(ctx context.Context, ds DataSource, table string) ([]database.IndexInfo, error) {
	db, err := d.conns.SQL(ctx, ds)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, d.indexesQuery, d.queryArgs(ds, table)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get indexes for table %s: %w", table, err)
	}
	defer rows.Close()

	var out []database.IndexInfo
	for rows.Next() {
		var (
			r         database.IndexInfo
			indexType sql.NullString
			primary   any
		)
		if err := rows.Scan(&r.IndexName, &r.ColumnName, &r.SeqInIndex, &r.NonUnique, &indexType, &primary); err != nil {
			return nil, fmt.Errorf("failed to scan index of table %s: %w", table, err)
		}
		r.IndexType = indexType.String
		r.IsPrimary = utils.ToBool(primary)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get indexes for table %s: %w", table, err)
	}
	return out, nil
}

func positive(n sql.NullInt64) *int64 {
	if !n.Valid || n.Int64 <= 0 {
		return nil
	}
	v := n.Int64
	return &v
}

// NewPostgresExtractor reads PostgreSQL tables from information_schema and
// pg_catalog. The schema property defaults to "public".
func NewPostgresExtractor(conns *Connections, logger *zap.Logger) *CatalogExtractor {
	return NewCatalogExtractor(schema.SystemPostgres, sqlDialect{
		conns:         conns,
		defaultSchema: func(DataSource) string { return "public" },
		tableQuery: `SELECT c.relname, obj_description(c.oid, 'pg_class')
FROM pg_class c JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relname = $2 AND c.relkind IN ('r', 'p', 'v', 'm')`,
		columnsQuery: `SELECT c.column_name, c.udt_name, c.data_type, c.is_nullable, c.column_default,
	CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%' THEN 'auto_increment' ELSE '' END,
	col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position),
	c.ordinal_position, c.character_maximum_length, c.numeric_precision, c.numeric_scale
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`,
		indexesQuery: `SELECT i.relname, a.attname, k.ord,
	CASE WHEN ix.indisunique THEN 0 ELSE 1 END, am.amname, ix.indisprimary
FROM pg_index ix
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
JOIN pg_am am ON am.oid = i.relam
CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
WHERE n.nspname = $1 AND t.relname = $2
ORDER BY i.relname, k.ord`,
		normalize: normalizePostgresColumn,
	}, logger)
}

// normalizePostgresColumn drops serial sequence defaults, which only restate
// the auto increment flag.
func normalizePostgresColumn(c *database.ColumnInfo) {
	if c.Default != nil && strings.HasPrefix(strings.ToLower(*c.Default), "nextval(") {
		c.Default = nil
	}
}

// NewSQLServerExtractor reads SQL Server tables from INFORMATION_SCHEMA and
// the sys views. The schema property defaults to "dbo".
func NewSQLServerExtractor(conns *Connections, logger *zap.Logger) *CatalogExtractor {
	return NewCatalogExtractor(schema.SystemSQLServer, sqlDialect{
		conns:         conns,
		defaultSchema: func(DataSource) string { return "dbo" },
		tableQuery: `SELECT t.name, CAST(ep.value AS NVARCHAR(4000))
FROM sys.tables t
JOIN sys.schemas s ON s.schema_id = t.schema_id
LEFT JOIN sys.extended_properties ep ON ep.major_id = t.object_id AND ep.minor_id = 0
	AND ep.class = 1 AND ep.name = 'MS_Description'
WHERE s.name = @p1 AND t.name = @p2`,
		columnsQuery: `SELECT c.COLUMN_NAME, c.DATA_TYPE, c.DATA_TYPE, c.IS_NULLABLE, c.COLUMN_DEFAULT,
	CASE WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1
		THEN 'auto_increment' ELSE '' END,
	CAST(ep.value AS NVARCHAR(4000)),
	c.ORDINAL_POSITION, c.CHARACTER_MAXIMUM_LENGTH, c.NUMERIC_PRECISION, c.NUMERIC_SCALE
FROM INFORMATION_SCHEMA.COLUMNS c
LEFT JOIN sys.extended_properties ep
	ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
	AND ep.minor_id = COLUMNPROPERTY(ep.major_id, c.COLUMN_NAME, 'ColumnId')
	AND ep.class = 1 AND ep.name = 'MS_Description'
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`,
		indexesQuery: `SELECT i.name, col.name, ic.key_ordinal,
	CASE WHEN i.is_unique = 1 THEN 0 ELSE 1 END, i.type_desc, i.is_primary_key
FROM sys.indexes i
JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
WHERE i.object_id = OBJECT_ID(QUOTENAME(@p1) + '.' + QUOTENAME(@p2))
	AND i.name IS NOT NULL AND ic.is_included_column = 0
ORDER BY i.name, ic.key_ordinal`,
		normalize: normalizeSQLServerColumn,
	}, logger)
}

// normalizeSQLServerColumn unwraps the parentheses SQL Server stores around
// defaults: "((0))" becomes "0".
func normalizeSQLServerColumn(c *database.ColumnInfo) {
	if c.Default == nil {
		return
	}
	d := strings.TrimSpace(*c.Default)
	for len(d) >= 2 && d[0] == '(' && d[len(d)-1] == ')' {
		d = strings.TrimSpace(d[1 : len(d)-1])
	}
	c.Default = &d
}

// NewOracleExtractor reads Oracle tables from the ALL_* dictionary views.
// The owner defaults to the connecting user; names are matched upper case.
func NewOracleExtractor(conns *Connections, logger *zap.Logger) *CatalogExtractor {
	return NewCatalogExtractor(schema.SystemOracle, sqlDialect{
		conns: conns,
		defaultSchema: func(ds DataSource) string {
			if u := ds.Property("user"); u != "" {
				return u
			}
			return ds.Property("username")
		},
		args: func(owner, table string) []any {
			return []any{strings.ToUpper(owner), strings.ToUpper(table)}
		},
		tableQuery: `SELECT LOWER(t.table_name), c.comments
FROM all_tables t
LEFT JOIN all_tab_comments c ON c.owner = t.owner AND c.table_name = t.table_name
WHERE t.owner = :1 AND t.table_name = :2`,
		columnsQuery: `SELECT LOWER(c.column_name), LOWER(c.data_type), LOWER(c.data_type),
	CASE c.nullable WHEN 'Y' THEN 'YES' ELSE 'NO' END, c.data_default,
	CASE WHEN c.identity_column = 'YES' THEN 'auto_increment' ELSE '' END,
	cc.comments, c.column_id, c.char_length, c.data_precision, c.data_scale
FROM all_tab_columns c
LEFT JOIN all_col_comments cc ON cc.owner = c.owner AND cc.table_name = c.table_name AND cc.column_name = c.column_name
WHERE c.owner = :1 AND c.table_name = :2
ORDER BY c.column_id`,
		indexesQuery: `SELECT LOWER(ic.index_name), LOWER(ic.column_name), ic.column_position,
	CASE WHEN i.uniqueness = 'UNIQUE' THEN 0 ELSE 1 END, i.index_type,
	CASE WHEN con.constraint_type = 'P' THEN 1 ELSE 0 END
FROM all_ind_columns ic
JOIN all_indexes i ON i.owner = ic.index_owner AND i.index_name = ic.index_name
LEFT JOIN all_constraints con ON con.owner = i.table_owner AND con.index_name = i.index_name AND con.constraint_type = 'P'
WHERE ic.table_owner = :1 AND ic.table_name = :2
ORDER BY ic.index_name, ic.column_position`,
		normalize: normalizeOracleColumn,
	}, logger)
}

// normalizeOracleColumn strips the fractional precision Oracle folds into
// the type name ("timestamp(6)") and trims the stored default text.
func normalizeOracleColumn(c *database.ColumnInfo) {
	base, _ := database.ParseColumnType(c.DataType)
	c.DataType = base
	if c.Default != nil {
		d := strings.TrimSpace(*c.Default)
		c.Default = &d
	}
}
