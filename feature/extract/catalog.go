package extract

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"schema-compare/core/database"
	"schema-compare/core/schema"
	"schema-compare/core/utils"

	"go.uber.org/zap"
)

// Index types written by catalog extraction.
const (
	IndexTypePrimary = "PRIMARY KEY"
	IndexTypeNormal  = "NORMAL"
)

// Dialect reads the raw catalog rows of one relational system.
type Dialect interface {
	Table(ctx context.Context, ds DataSource, table string) (*database.TableInfo, error)
	Columns(ctx context.Context, ds DataSource, table string) ([]database.ColumnInfo, error)
	Indexes(ctx context.Context, ds DataSource, table string) ([]database.IndexInfo, error)
}

// Decorate adds system-specific attributes after the generic extraction.
// A failing hook is logged and does not fail the extraction.
type Decorate func(ctx context.Context, ds DataSource, t *schema.TableStructure) error

// CatalogExtractor turns catalog rows into a TableStructure.
type CatalogExtractor struct {
	system  schema.SystemTag
	dialect Dialect
	hooks   []Decorate
	logger  *zap.Logger
}

// NewCatalogExtractor creates an extractor tagging its output with system.
func NewCatalogExtractor(system schema.SystemTag, dialect Dialect, logger *zap.Logger, hooks ...Decorate) *CatalogExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogExtractor{
		system:  system,
		dialect: dialect,
		hooks:   hooks,
		logger:  logger,
	}
}

// System returns the tag written on extracted structures.
func (e *CatalogExtractor) System() schema.SystemTag {
	return e.system
}

// Extract implements Extractor.
func (e *CatalogExtractor) Extract(ctx context.Context, ds DataSource, table string) (*schema.TableStructure, error) {
	info, err := e.dialect.Table(ctx, ds, table)
	if err != nil {
		return nil, err
	}
	cols, err := e.dialect.Columns(ctx, ds, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", database.ErrTableNotFound, table)
	}
	rows, err := e.dialect.Indexes(ctx, ds, table)
	if err != nil {
		return nil, err
	}

	t := schema.NewTable(table, e.system)
	if info != nil && info.Comment != nil && strings.TrimSpace(*info.Comment) != "" {
		t.Comment = info.Comment
	}
	for _, c := range cols {
		if !t.AddColumn(buildColumn(c)) {
			e.logger.Warn("Duplicate column skipped", zap.String("table", table), zap.String("column", c.Name))
		}
	}
	for _, idx := range buildIndexes(rows, cols) {
		t.AddIndex(idx)
	}

	for _, hook := range e.hooks {
		if err := hook(ctx, ds, t); err != nil {
			e.logger.Warn("Failed to read extended table attributes",
				zap.String("system", e.system.String()),
				zap.String("table", table),
				zap.Error(err))
		}
	}
	return t, nil
}

func buildColumn(c database.ColumnInfo) *schema.ColumnStructure {
	base := strings.ToLower(strings.TrimSpace(c.DataType))
	col := &schema.ColumnStructure{
		Name:          c.Name,
		Type:          base,
		FullType:      c.ColumnType,
		Nullable:      c.Nullable(),
		Default:       c.Default,
		AutoIncrement: strings.Contains(strings.ToLower(c.Extra), "auto_increment"),
		Position:      c.Position,
	}
	switch {
	case database.IsLengthType(base):
		col.Length = utils.ToIntPtr(c.CharLength)
	case database.IsNumericType(base):
		col.Precision = utils.ToIntPtr(c.Precision)
		col.Scale = utils.ToIntPtr(c.Scale)
	}
	if strings.TrimSpace(c.Comment) != "" {
		col.Comment = schema.Ptr(c.Comment)
	}
	if c.Extra != "" {
		col.SetProperty("extra", c.Extra)
	}
	return col
}

func isPrimaryRow(r database.IndexInfo) bool {
	return r.IsPrimary || strings.EqualFold(r.IndexName, "PRIMARY")
}

// buildIndexes groups member rows by index name. The primary index comes
// first and is built from the primary rows, or from the key columns when the
// catalog lists no primary index.
func buildIndexes(rows []database.IndexInfo, cols []database.ColumnInfo) []*schema.IndexStructure {
	var primary []database.IndexInfo
	var order []string
	groups := make(map[string][]database.IndexInfo)
	for _, r := range rows {
		if isPrimaryRow(r) {
			primary = append(primary, r)
			continue
		}
		if _, ok := groups[r.IndexName]; !ok {
			order = append(order, r.IndexName)
		}
		groups[r.IndexName] = append(groups[r.IndexName], r)
	}

	var out []*schema.IndexStructure
	if pk := primaryIndex(primary, cols); pk != nil {
		out = append(out, pk)
	}
	for _, name := range order {
		members := groups[name]
		slices.SortStableFunc(members, func(a, b database.IndexInfo) int { return a.SeqInIndex - b.SeqInIndex })
		idx := &schema.IndexStructure{
			Name:   name,
			Type:   secondaryIndexType(members[0].IndexType),
			Unique: members[0].NonUnique == 0,
		}
		for n, m := range members {
			idx.Columns = append(idx.Columns, schema.IndexColumn{Name: m.ColumnName, Position: n + 1})
		}
		if c := strings.TrimSpace(members[0].Comment); c != "" {
			idx.Properties = map[string]any{"comment": c}
		}
		out = append(out, idx)
	}
	return out
}

func primaryIndex(rows []database.IndexInfo, cols []database.ColumnInfo) *schema.IndexStructure {
	var names []string
	if len(rows) > 0 {
		slices.SortStableFunc(rows, func(a, b database.IndexInfo) int { return a.SeqInIndex - b.SeqInIndex })
		for _, r := range rows {
			names = append(names, r.ColumnName)
		}
	} else {
		for _, c := range cols {
			if strings.EqualFold(c.Key, "PRI") {
				names = append(names, c.Name)
			}
		}
	}
	if len(names) == 0 {
		return nil
	}
	idx := &schema.IndexStructure{
		Name:    "PRIMARY",
		Type:    IndexTypePrimary,
		Primary: true,
		Unique:  true,
	}
	for n, name := range names {
		idx.Columns = append(idx.Columns, schema.IndexColumn{Name: name, Position: n + 1})
	}
	return idx
}

// secondaryIndexType keeps the access methods that change index semantics
// and folds the rest (BTREE, HASH, NONCLUSTERED...) into NORMAL.
func secondaryIndexType(raw string) string {
	switch t := strings.ToUpper(strings.TrimSpace(raw)); t {
	case "FULLTEXT", "SPATIAL", "GIN", "GIST":
		return t
	default:
		return IndexTypeNormal
	}
}
