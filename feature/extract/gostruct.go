package extract

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"schema-compare/core/database"
	"schema-compare/core/schema"

	"github.com/shopspring/decimal"
	gormschema "gorm.io/gorm/schema"
)

// StructRegistry holds Go types that can be compared like tables. The data
// source identifier is the registered name.
type StructRegistry struct {
	mu     sync.RWMutex
	types  map[string]reflect.Type
	cache  map[string]*schema.TableStructure
	naming gormschema.Namer
}

// NewStructRegistry creates an empty registry naming untagged fields with
// GORM's default snake_case strategy.
func NewStructRegistry() *StructRegistry {
	return &StructRegistry{
		types:  make(map[string]reflect.Type),
		cache:  make(map[string]*schema.TableStructure),
		naming: gormschema.NamingStrategy{},
	}
}

// Register adds a struct type. An empty name uses the type's own name.
func (r *StructRegistry) Register(name string, model any) error {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("register %q: %T is not a struct", name, model)
	}
	if name == "" {
		name = t.Name()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = t
	delete(r.cache, name)
	return nil
}

// Names lists the registered names in lexical order.
func (r *StructRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Extract implements Extractor. Reflection runs once per type; every call
// gets its own copy.
func (r *StructRegistry) Extract(_ context.Context, _ DataSource, name string) (*schema.TableStructure, error) {
	r.mu.RLock()
	cached, ok := r.cache[name]
	typ, known := r.types[name]
	r.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}
	if !known {
		return nil, fmt.Errorf("%w: struct %s is not registered", database.ErrTableNotFound, name)
	}

	t := r.build(name, typ)
	r.mu.Lock()
	r.cache[name] = t
	r.mu.Unlock()
	return t.Clone(), nil
}

func (r *StructRegistry) build(name string, typ reflect.Type) *schema.TableStructure {
	t := schema.NewTable(name, schema.SystemGoStruct)
	t.SetProperty("goType", typ.String())
	t.SetProperty("package", typ.PkgPath())
	if tabler, ok := reflect.New(typ).Interface().(gormschema.Tabler); ok {
		t.SetProperty("tableName", tabler.TableName())
	}

	var pk []string
	r.addFields(t, typ, &pk)
	if len(pk) > 0 {
		idx := &schema.IndexStructure{Name: "PRIMARY", Type: IndexTypePrimary, Primary: true, Unique: true}
		for n, col := range pk {
			idx.Columns = append(idx.Columns, schema.IndexColumn{Name: col, Position: n + 1})
		}
		t.AddIndex(idx)
	}
	return t
}

func (r *StructRegistry) addFields(t *schema.TableStructure, typ reflect.Type, pk *[]string) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		ft := field.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		// embedded structs contribute their promoted fields, exported or not
		if field.Anonymous && ft.Kind() == reflect.Struct && goFieldType(ft) == "struct" {
			r.addFields(t, ft, pk)
			continue
		}
		if !field.IsExported() {
			continue
		}
		gormTag := field.Tag.Get("gorm")
		if gormTag == "-" || strings.HasPrefix(gormTag, "-:") {
			continue
		}
		jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if jsonName == "-" {
			continue
		}

		name := jsonName
		if name == "" {
			name = gormTagValue(gormTag, "column")
		}
		if name == "" {
			name = r.naming.ColumnName("", field.Name)
		}

		col := &schema.ColumnStructure{
			Name:     name,
			Type:     goFieldType(ft),
			FullType: gormTagValue(gormTag, "type"),
			Nullable: !gormTagHas(gormTag, "not null") && !gormTagHas(gormTag, "primarykey"),
		}
		col.SetProperty("goType", field.Type.String())
		if c := gormTagValue(gormTag, "comment"); c != "" {
			col.Comment = schema.Ptr(c)
		}
		if d := gormTagValue(gormTag, "default"); d != "" {
			col.Default = schema.Ptr(d)
		}
		if n, err := strconv.Atoi(gormTagValue(gormTag, "size")); err == nil && n > 0 {
			col.Length = &n
		}
		col.AutoIncrement = gormTagHas(gormTag, "autoincrement")
		if t.AddColumn(col) && gormTagHas(gormTag, "primarykey") {
			*pk = append(*pk, name)
		}
	}
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

// nullTypes maps the database/sql wrappers onto the type they carry.
var nullTypes = map[reflect.Type]string{
	reflect.TypeOf(sql.NullString{}):  "string",
	reflect.TypeOf(sql.NullInt64{}):   "int64",
	reflect.TypeOf(sql.NullInt32{}):   "int32",
	reflect.TypeOf(sql.NullInt16{}):   "int16",
	reflect.TypeOf(sql.NullByte{}):    "uint8",
	reflect.TypeOf(sql.NullFloat64{}): "float64",
	reflect.TypeOf(sql.NullBool{}):    "bool",
	reflect.TypeOf(sql.NullTime{}):    "time",
}

// goFieldType returns the dictionary key of a field type: the kind name for
// builtins plus "time", "decimal" and "bytes".
func goFieldType(t reflect.Type) string {
	switch {
	case t == timeType:
		return "time"
	case t == decimalType || t == reflect.TypeOf(decimal.NullDecimal{}):
		return "decimal"
	case t == bytesType || (t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8):
		return "bytes"
	}
	if n, ok := nullTypes[t]; ok {
		return n
	}
	return t.Kind().String()
}

// gormTagValue returns the value of key in a GORM struct tag, e.g. "column"
// in `gorm:"column:user_id;type:bigint"`. Keys match case-insensitively.
func gormTagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(part), ":")
		if found && strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// gormTagHas reports whether a GORM tag carries a flag such as "primaryKey".
func gormTagHas(tag, flag string) bool {
	for _, part := range strings.Split(tag, ";") {
		k, _, _ := strings.Cut(strings.TrimSpace(part), ":")
		if strings.EqualFold(strings.ReplaceAll(k, " ", ""), strings.ReplaceAll(flag, " ", "")) {
			return true
		}
	}
	return false
}
