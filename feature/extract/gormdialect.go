package extract

import (
	"context"
	"strings"

	"schema-compare/core/database"
	"schema-compare/core/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gormDialect reads MySQL-family and sqlite catalogs through GORM.
type gormDialect struct {
	conns *Connections
}

func (d gormDialect) db(ctx context.Context, ds DataSource) (*gorm.DB, error) {
	db, err := d.conns.Gorm(ds)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

func (d gormDialect) Table(ctx context.Context, ds DataSource, table string) (*database.TableInfo, error) {
	db, err := d.db(ctx, ds)
	if err != nil {
		return nil, err
	}
	return database.GetTableInfo(db, table)
}

func (d gormDialect) Columns(ctx context.Context, ds DataSource, table string) ([]database.ColumnInfo, error) {
	db, err := d.db(ctx, ds)
	if err != nil {
		return nil, err
	}
	return database.GetTableColumns(db, table)
}

func (d gormDialect) Indexes(ctx context.Context, ds DataSource, table string) ([]database.IndexInfo, error) {
	db, err := d.db(ctx, ds)
	if err != nil {
		return nil, err
	}
	return database.GetTableIndexes(db, table)
}

// NewMySQLExtractor reads MySQL tables from information_schema.
func NewMySQLExtractor(conns *Connections, logger *zap.Logger) *CatalogExtractor {
	return NewCatalogExtractor(schema.SystemMySQL, gormDialect{conns}, logger)
}

// NewSQLiteExtractor reads sqlite tables through PRAGMA statements.
func NewSQLiteExtractor(conns *Connections, logger *zap.Logger) *CatalogExtractor {
	return NewCatalogExtractor(schema.SystemSQLite, gormDialect{conns}, logger)
}

// NewTiDBExtractor reads TiDB tables like MySQL and adds the clustering and
// row id sharding attributes TiDB exposes.
func NewTiDBExtractor(conns *Connections, logger *zap.Logger) *CatalogExtractor {
	return NewCatalogExtractor(schema.SystemTiDB, gormDialect{conns}, logger, tidbAttributes(conns))
}

type tidbTableAttrs struct {
	PKType   *string `gorm:"column:tidb_pk_type"`
	Sharding *string `gorm:"column:tidb_row_id_sharding_info"`
}

// tidbAttributes records tidb_pk_type and the row id sharding info as table
// properties and flags AUTO_RANDOM primary key columns.
func tidbAttributes(conns *Connections) Decorate {
	return func(ctx context.Context, ds DataSource, t *schema.TableStructure) error {
		for _, col := range t.Columns {
			if extra, ok := col.Properties["extra"].(string); ok && strings.Contains(strings.ToLower(extra), "auto_random") {
				col.SetProperty(schema.PropAutoRandom, true)
			}
		}

		db, err := conns.Gorm(ds)
		if err != nil {
			return err
		}
		var attrs []tidbTableAttrs
		err = db.WithContext(ctx).Raw(`SELECT TIDB_PK_TYPE AS tidb_pk_type, TIDB_ROW_ID_SHARDING_INFO AS tidb_row_id_sharding_info
FROM information_schema.tables
WHERE table_schema = DATABASE() AND table_name = ?`, t.Name).Scan(&attrs).Error
		if err != nil {
			return err
		}
		if len(attrs) == 0 {
			return nil
		}

		autoRandom := false
		if pk := attrs[0].PKType; pk != nil && *pk != "" {
			t.SetProperty("tidb_pk_type", *pk)
			autoRandom = strings.EqualFold(*pk, "AUTO_RANDOM")
		}
		if sh := attrs[0].Sharding; sh != nil && *sh != "" && !strings.HasPrefix(strings.ToUpper(*sh), "NOT_SHARDED") {
			t.SetProperty("tidb_row_id_sharding", *sh)
			autoRandom = autoRandom || strings.HasPrefix(strings.ToUpper(*sh), "PK_AUTO_RANDOM_BITS")
		}
		if autoRandom {
			if pk := t.PrimaryIndex(); pk != nil && len(pk.Columns) > 0 {
				if col := t.Column(pk.ColumnNames()[0]); col != nil {
					col.SetProperty(schema.PropAutoRandom, true)
				}
			}
		}
		return nil
	}
}
