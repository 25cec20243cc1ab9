package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"schema-compare/core/database"
	"schema-compare/core/schema"
	"schema-compare/core/storage"

	"github.com/xwb1989/sqlparser"
)

// DDLExtractor reads MySQL CREATE TABLE statements from a file or a
// "storage://bucket/key" object named by the data source "path" property.
type DDLExtractor struct {
	store storage.Client
}

// NewDDLExtractor creates an extractor. store may be nil when only local
// files are used.
func NewDDLExtractor(store storage.Client) *DDLExtractor {
	return &DDLExtractor{store: store}
}

// Extract implements Extractor.
func (e *DDLExtractor) Extract(ctx context.Context, ds DataSource, table string) (*schema.TableStructure, error) {
	path := ds.Property("path")
	if path == "" {
		return nil, fmt.Errorf("data source %s: missing path property", ds.Name)
	}
	data, err := e.read(ctx, path)
	if err != nil {
		return nil, err
	}
	tables, err := ParseDDL(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, t := range tables {
		if strings.EqualFold(t.Name, table) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", database.ErrTableNotFound, table, path)
}

func (e *DDLExtractor) read(ctx context.Context, path string) ([]byte, error) {
	if bucket, key, ok := storage.ParseURI(path); ok {
		if e.store == nil {
			return nil, fmt.Errorf("read %s: object storage is not configured", path)
		}
		return storage.ReadObject(ctx, e.store, bucket, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ParseDDL returns one structure per CREATE TABLE statement. Other
// statements are skipped. Table options after the column list are read here
// and not handed to the parser, which only understands a subset of them.
func ParseDDL(sql string) ([]*schema.TableStructure, error) {
	var tables []*schema.TableStructure
	for _, stmt := range splitStatements(sql) {
		if !createTablePattern.MatchString(stmt) {
			continue
		}
		body, options := splitTableOptions(stmt)
		parsed, err := sqlparser.ParseStrictDDL(body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
		ddl, ok := parsed.(*sqlparser.DDL)
		if !ok || ddl.Action != sqlparser.CreateStr || ddl.TableSpec == nil {
			continue
		}
		t := tableFromDDL(ddl)
		if m := tableCommentPattern.FindStringSubmatch(options); m != nil && m[1] != "" {
			t.Comment = schema.Ptr(strings.ReplaceAll(m[1], "''", "'"))
		}
		tables = append(tables, t)
	}
	return tables, nil
}

var (
	createTablePattern  = regexp.MustCompile(`(?is)^create\s+(temporary\s+)?table\s`)
	tableCommentPattern = regexp.MustCompile(`(?i)comment\s*=?\s*'((?:[^']|'')*)'`)
)

// splitStatements cuts a script on semicolons outside quotes and drops
// comments.
func splitStatements(sql string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		if quote != 0 {
			cur.WriteByte(ch)
			if ch == '\\' && i+1 < len(sql) {
				i++
				cur.WriteByte(sql[i])
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			cur.WriteByte(ch)
		case ch == '-' && strings.HasPrefix(sql[i:], "-- "), ch == '#':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			cur.WriteByte('\n')
		case ch == '/' && strings.HasPrefix(sql[i:], "/*"):
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 3
			}
			cur.WriteByte(' ')
		case ch == ';':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return out
}

// splitTableOptions separates "CREATE TABLE t (...)" from the options that
// follow the closing parenthesis of the column list.
func splitTableOptions(stmt string) (string, string) {
	depth := 0
	var quote byte
	for i := 0; i < len(stmt); i++ {
		ch := stmt[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return stmt[:i+1], stmt[i+1:]
			}
		}
	}
	return stmt, ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func tableFromDDL(ddl *sqlparser.DDL) *schema.TableStructure {
	t := schema.NewTable(ddl.NewName.Name.String(), schema.SystemMySQL)

	var pk []string
	for _, def := range ddl.TableSpec.Columns {
		col := ddlColumn(def)
		t.AddColumn(col)
		// the key option is always printed last
		inline := strings.ToLower(sqlparser.String(def))
		if strings.HasSuffix(inline, " primary key") {
			pk = append(pk, col.Name)
		} else if strings.HasSuffix(inline, " unique key") || strings.HasSuffix(inline, " unique") {
			t.AddIndex(&schema.IndexStructure{
				Name:    col.Name,
				Type:    IndexTypeNormal,
				Unique:  true,
				Columns: []schema.IndexColumn{{Name: col.Name, Position: 1}},
			})
		}
	}

	for _, def := range ddl.TableSpec.Indexes {
		if def.Info.Primary {
			pk = pk[:0]
			for _, c := range def.Columns {
				pk = append(pk, c.Column.String())
			}
			continue
		}
		idx := &schema.IndexStructure{
			Name:   def.Info.Name.String(),
			Type:   IndexTypeNormal,
			Unique: def.Info.Unique,
		}
		switch {
		case def.Info.Spatial:
			idx.Type = "SPATIAL"
		case strings.Contains(strings.ToLower(def.Info.Type), "fulltext"):
			idx.Type = "FULLTEXT"
		}
		for n, c := range def.Columns {
			idx.Columns = append(idx.Columns, schema.IndexColumn{Name: c.Column.String(), Position: n + 1})
		}
		for _, opt := range def.Options {
			if strings.EqualFold(opt.Name, "comment") && opt.Value != nil {
				idx.Properties = map[string]any{"comment": string(opt.Value.Val)}
			}
		}
		t.AddIndex(idx)
	}

	if len(pk) > 0 {
		primary := &schema.IndexStructure{Name: "PRIMARY", Type: IndexTypePrimary, Primary: true, Unique: true}
		for n, name := range pk {
			primary.Columns = append(primary.Columns, schema.IndexColumn{Name: name, Position: n + 1})
			// primary key members are NOT NULL whatever the column clause says
			if col := t.Column(name); col != nil {
				col.Nullable = false
			}
		}
		t.Indexes = append([]*schema.IndexStructure{primary}, t.Indexes...)
	}
	return t
}

func ddlColumn(def *sqlparser.ColumnDefinition) *schema.ColumnStructure {
	ct := def.Type
	base := strings.ToLower(ct.Type)
	col := &schema.ColumnStructure{
		Name:          def.Name.String(),
		Type:          base,
		FullType:      ddlFullType(ct),
		Nullable:      !bool(ct.NotNull),
		AutoIncrement: bool(ct.Autoincrement),
	}
	if ct.Default != nil {
		v := string(ct.Default.Val)
		if ct.Default.Type == sqlparser.StrVal || !strings.EqualFold(v, "null") {
			col.Default = &v
		}
	}
	if ct.Comment != nil && len(ct.Comment.Val) > 0 {
		col.Comment = schema.Ptr(string(ct.Comment.Val))
	}
	length := sqlInt(ct.Length)
	switch {
	case database.IsLengthType(base):
		col.Length = length
	case database.IsNumericType(base):
		col.Precision = length
		col.Scale = sqlInt(ct.Scale)
	}
	if ct.Autoincrement {
		col.SetProperty("extra", "auto_increment")
	}
	return col
}

func ddlFullType(ct sqlparser.ColumnType) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(ct.Type))
	if ct.Length != nil {
		b.WriteString("(" + string(ct.Length.Val))
		if ct.Scale != nil {
			b.WriteString("," + string(ct.Scale.Val))
		}
		b.WriteString(")")
	}
	if len(ct.EnumValues) > 0 {
		b.WriteString("(" + strings.Join(ct.EnumValues, ",") + ")")
	}
	if ct.Unsigned {
		b.WriteString(" unsigned")
	}
	return b.String()
}

func sqlInt(v *sqlparser.SQLVal) *int {
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(string(v.Val))
	if err != nil {
		return nil
	}
	return &n
}
