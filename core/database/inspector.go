package database

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ErrTableNotFound is returned when the catalog holds no such table.
var ErrTableNotFound = errors.New("table not found")

// ColumnInfo is one row of the column catalog.
type ColumnInfo struct {
	Name       string  `gorm:"column:column_name"`
	DataType   string  `gorm:"column:data_type"`
	ColumnType string  `gorm:"column:column_type"`
	IsNullable string  `gorm:"column:is_nullable"`
	Default    *string `gorm:"column:column_default"`
	Extra      string  `gorm:"column:extra"`
	Key        string  `gorm:"column:column_key"`
	Comment    string  `gorm:"column:column_comment"`
	Position   int     `gorm:"column:ordinal_position"`
	CharLength *int64  `gorm:"column:character_maximum_length"`
	Precision  *int64  `gorm:"column:numeric_precision"`
	Scale      *int64  `gorm:"column:numeric_scale"`
}

// Nullable reports whether the column accepts NULL.
func (c ColumnInfo) Nullable() bool {
	return strings.EqualFold(c.IsNullable, "YES")
}

// IndexInfo is one index member row of the index catalog.
type IndexInfo struct {
	IndexName  string `gorm:"column:index_name"`
	ColumnName string `gorm:"column:column_name"`
	SeqInIndex int    `gorm:"column:seq_in_index"`
	NonUnique  int    `gorm:"column:non_unique"`
	IndexType  string `gorm:"column:index_type"`
	Comment    string `gorm:"column:index_comment"`
	// IsPrimary marks primary key members on catalogs that do not name the
	// primary index "PRIMARY".
	IsPrimary bool `gorm:"column:is_primary"`
}

// TableInfo holds the table-level catalog attributes.
type TableInfo struct {
	Name    string  `gorm:"column:table_name"`
	Comment *string `gorm:"column:table_comment"`
}

// GetTableColumns retrieves the column definitions for a given table, in
// ordinal order.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if db.Dialector.Name() == "sqlite" {
		return sqliteColumns(db, tableName)
	}

	var columns []ColumnInfo
	// information_schema headers are upper case on MySQL 8, hence the aliases
	err := db.Raw(`SELECT COLUMN_NAME AS column_name, DATA_TYPE AS data_type, COLUMN_TYPE AS column_type,
	IS_NULLABLE AS is_nullable, COLUMN_DEFAULT AS column_default, EXTRA AS extra, COLUMN_KEY AS column_key,
	COLUMN_COMMENT AS column_comment, ORDINAL_POSITION AS ordinal_position,
	CHARACTER_MAXIMUM_LENGTH AS character_maximum_length, NUMERIC_PRECISION AS numeric_precision,
	NUMERIC_SCALE AS numeric_scale
FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY ordinal_position`, tableName).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].DataType = strings.ToLower(columns[i].DataType)
		columns[i].ColumnType = strings.ToLower(columns[i].ColumnType)
	}
	return columns, nil
}

// GetTableIndexes retrieves the index members of a table ordered by index
// name and position.
func GetTableIndexes(db *gorm.DB, tableName string) ([]IndexInfo, error) {
	if db.Dialector.Name() == "sqlite" {
		return sqliteIndexes(db, tableName)
	}

	var rows []IndexInfo
	err := db.Raw(`SELECT INDEX_NAME AS index_name, COLUMN_NAME AS column_name, SEQ_IN_INDEX AS seq_in_index,
	NON_UNIQUE AS non_unique, INDEX_TYPE AS index_type, INDEX_COMMENT AS index_comment
FROM information_schema.statistics
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY index_name, seq_in_index`, tableName).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get indexes for table %s: %w", tableName, err)
	}
	return rows, nil
}

// GetTableInfo retrieves the table comment. It fails with ErrTableNotFound
// when the table does not exist.
func GetTableInfo(db *gorm.DB, tableName string) (*TableInfo, error) {
	if db.Dialector.Name() == "sqlite" {
		var count int64
		if err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", tableName).Scan(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
		}
		return &TableInfo{Name: tableName}, nil
	}

	var infos []TableInfo
	err := db.Raw(`SELECT TABLE_NAME AS table_name, TABLE_COMMENT AS table_comment
FROM information_schema.tables
WHERE table_schema = DATABASE() AND table_name = ?`, tableName).Scan(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}
	return &infos[0], nil
}

type sqliteColumn struct {
	Cid     int     `gorm:"column:cid"`
	Name    string  `gorm:"column:name"`
	Type    string  `gorm:"column:type"`
	NotNull int     `gorm:"column:notnull"`
	Default *string `gorm:"column:dflt_value"`
	Pk      int     `gorm:"column:pk"`
}

func sqliteTableInfo(db *gorm.DB, tableName string) ([]sqliteColumn, error) {
	var cols []sqliteColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLite(tableName))).Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	return cols, nil
}

func sqliteColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	cols, err := sqliteTableInfo(db, tableName)
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(cols))
	for _, col := range cols {
		full := strings.ToLower(strings.TrimSpace(col.Type))
		base, args := ParseColumnType(full)
		info := ColumnInfo{
			Name:       col.Name,
			DataType:   base,
			ColumnType: full,
			IsNullable: "YES",
			Default:    col.Default,
			Position:   col.Cid + 1,
		}
		// primary key columns are implicitly NOT NULL
		if col.NotNull == 1 || col.Pk > 0 {
			info.IsNullable = "NO"
		}
		if col.Pk > 0 {
			info.Key = "PRI"
			if base == "integer" {
				info.Extra = "auto_increment"
			}
		}
		switch len(args) {
		case 1:
			n := int64(args[0])
			if IsNumericType(base) {
				info.Precision = &n
			} else {
				info.CharLength = &n
			}
		case 2:
			p, s := int64(args[0]), int64(args[1])
			info.Precision, info.Scale = &p, &s
		}
		columns = append(columns, info)
	}
	return columns, nil
}

func sqliteIndexes(db *gorm.DB, tableName string) ([]IndexInfo, error) {
	cols, err := sqliteTableInfo(db, tableName)
	if err != nil {
		return nil, err
	}

	var rows []IndexInfo
	pk := slices.DeleteFunc(slices.Clone(cols), func(c sqliteColumn) bool { return c.Pk == 0 })
	slices.SortFunc(pk, func(a, b sqliteColumn) int { return a.Pk - b.Pk })
	for _, c := range pk {
		rows = append(rows, IndexInfo{IndexName: "PRIMARY", ColumnName: c.Name, SeqInIndex: c.Pk, IndexType: "BTREE"})
	}

	type indexList struct {
		Name   string `gorm:"column:name"`
		Unique int    `gorm:"column:unique"`
		Origin string `gorm:"column:origin"`
	}
	var list []indexList
	if err := db.Raw(fmt.Sprintf("PRAGMA index_list(%s)", quoteSQLite(tableName))).Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get indexes for table %s: %w", tableName, err)
	}
	slices.SortFunc(list, func(a, b indexList) int { return strings.Compare(a.Name, b.Name) })

	type indexMember struct {
		Seqno int    `gorm:"column:seqno"`
		Name  string `gorm:"column:name"`
	}
	for _, idx := range list {
		if idx.Origin == "pk" {
			continue
		}
		var members []indexMember
		if err := db.Raw(fmt.Sprintf("PRAGMA index_info(%s)", quoteSQLite(idx.Name))).Scan(&members).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns of index %s: %w", idx.Name, err)
		}
		for _, m := range members {
			rows = append(rows, IndexInfo{
				IndexName:  idx.Name,
				ColumnName: m.Name,
				SeqInIndex: m.Seqno + 1,
				NonUnique:  1 - idx.Unique,
				IndexType:  "BTREE",
			})
		}
	}
	return rows, nil
}

func quoteSQLite(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

var columnTypePattern = regexp.MustCompile(`^([a-z0-9_ ]+?)\s*\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)`)

// ParseColumnType splits a declared type such as "decimal(10,2)" or
// "varchar(50)" into its base name and numeric arguments.
func ParseColumnType(full string) (string, []int) {
	full = strings.ToLower(strings.TrimSpace(full))
	m := columnTypePattern.FindStringSubmatch(full)
	if m == nil {
		base, _, _ := strings.Cut(full, " ")
		return base, nil
	}
	args := make([]int, 0, 2)
	for _, s := range m[2:] {
		if s == "" {
			continue
		}
		n, _ := strconv.Atoi(s)
		args = append(args, n)
	}
	return strings.TrimSpace(m[1]), args
}

var numericTypes = map[string]struct{}{
	"decimal": {}, "numeric": {}, "number": {}, "dec": {}, "fixed": {},
	"float": {}, "double": {}, "real": {}, "money": {}, "smallmoney": {},
	"float4": {}, "float8": {}, "double precision": {},
}

// IsNumericType reports whether a type carries precision and scale rather
// than a character length.
func IsNumericType(base string) bool {
	_, ok := numericTypes[strings.ToLower(strings.TrimSpace(base))]
	return ok
}

// IsLengthType reports whether a type carries a character or byte length.
func IsLengthType(base string) bool {
	base = strings.ToLower(strings.TrimSpace(base))
	for _, marker := range []string{"char", "text", "binary", "blob", "raw", "bit"} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}
