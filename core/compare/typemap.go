package compare

import (
	"strings"
	"sync"

	"schema-compare/core/schema"
)

type systemPair struct {
	from schema.SystemTag
	to   schema.SystemTag
}

// TypeMappings holds the static cross-system native type dictionaries.
// A value is never mutated after construction and can be shared freely.
type TypeMappings struct {
	dicts map[systemPair]map[string]schema.TypeSet
}

// DefaultTypeMappings returns the process-wide dictionaries, built on first use.
var DefaultTypeMappings = sync.OnceValue(buildTypeMappings)

type dictionary map[string][]string

var mysqlFamily = []schema.SystemTag{schema.SystemMySQL, schema.SystemTiDB}

var elasticsearchToMySQL = dictionary{
	"long":         {"bigint"},
	"integer":      {"int"},
	"short":        {"smallint"},
	"byte":         {"tinyint"},
	"float":        {"float"},
	"double":       {"double"},
	"scaled_float": {"decimal"},
	"keyword":      {"varchar", "char", "enum"},
	"text":         {"text", "longtext", "mediumtext", "tinytext", "varchar"},
	"date":         {"datetime", "timestamp", "date"},
	"boolean":      {"boolean", "bool", "tinyint"},
}

var goToMySQL = dictionary{
	"int64":   {"bigint"},
	"uint64":  {"bigint"},
	"int":     {"int"},
	"int32":   {"int"},
	"uint32":  {"int"},
	"uint":    {"int"},
	"int16":   {"smallint"},
	"uint16":  {"smallint"},
	"int8":    {"tinyint"},
	"uint8":   {"tinyint"},
	"float32": {"float"},
	"float64": {"double"},
	"decimal": {"decimal"},
	"string":  {"varchar", "text", "enum", "char", "longtext", "mediumtext"},
	"time":    {"date", "datetime", "timestamp"},
	"bool":    {"boolean", "tinyint"},
	"bytes":   {"blob", "binary", "varbinary"},
}

var goToElasticsearch = dictionary{
	"int64":   {"long"},
	"uint64":  {"long"},
	"int":     {"integer"},
	"int32":   {"integer"},
	"uint32":  {"integer"},
	"int16":   {"short"},
	"int8":    {"byte"},
	"float32": {"float"},
	"float64": {"double"},
	"decimal": {"scaled_float", "double"},
	"string":  {"keyword", "text"},
	"time":    {"date"},
	"bool":    {"boolean"},
	"bytes":   {"binary"},
}

var postgresToMySQL = dictionary{
	"int2":                        {"smallint"},
	"int4":                        {"int"},
	"int8":                        {"bigint"},
	"integer":                     {"int"},
	"float4":                      {"float"},
	"float8":                      {"double"},
	"numeric":                     {"decimal"},
	"varchar":                     {"varchar"},
	"character varying":           {"varchar"},
	"bpchar":                      {"char"},
	"text":                        {"text", "longtext", "mediumtext"},
	"bool":                        {"tinyint", "boolean"},
	"timestamp":                   {"datetime", "timestamp"},
	"timestamptz":                 {"timestamp", "datetime"},
	"timestamp without time zone": {"datetime", "timestamp"},
	"date":                        {"date"},
	"time":                        {"time"},
	"bytea":                       {"blob", "longblob", "varbinary"},
	"json":                        {"json"},
	"jsonb":                       {"json"},
	"uuid":                        {"char", "varchar"},
}

var sqlServerToMySQL = dictionary{
	"bit":              {"tinyint", "boolean"},
	"tinyint":          {"tinyint"},
	"smallint":         {"smallint"},
	"int":              {"int"},
	"bigint":           {"bigint"},
	"decimal":          {"decimal"},
	"numeric":          {"decimal"},
	"money":            {"decimal"},
	"float":            {"double"},
	"real":             {"float"},
	"nvarchar":         {"varchar"},
	"varchar":          {"varchar"},
	"nchar":            {"char"},
	"ntext":            {"text", "longtext"},
	"datetime2":        {"datetime"},
	"smalldatetime":    {"datetime"},
	"datetimeoffset":   {"timestamp"},
	"uniqueidentifier": {"char", "varchar"},
	"varbinary":        {"varbinary", "blob"},
}

var oracleToMySQL = dictionary{
	"number":    {"decimal", "bigint", "int", "smallint", "tinyint"},
	"varchar2":  {"varchar"},
	"nvarchar2": {"varchar"},
	"char":      {"char"},
	"clob":      {"text", "longtext", "mediumtext"},
	"blob":      {"blob", "longblob"},
	"date":      {"datetime", "date"},
	"timestamp": {"timestamp", "datetime"},
	"float":     {"double", "float"},
	"raw":       {"varbinary", "binary"},
}

var sqliteToMySQL = dictionary{
	"integer": {"int", "bigint", "smallint", "tinyint"},
	"int":     {"int"},
	"real":    {"double", "float"},
	"text":    {"text", "varchar", "char", "longtext"},
	"blob":    {"blob"},
	"numeric": {"decimal"},
	"boolean": {"tinyint", "boolean"},
}

func buildTypeMappings() *TypeMappings {
	m := &TypeMappings{dicts: make(map[systemPair]map[string]schema.TypeSet)}
	for _, target := range mysqlFamily {
		m.register(schema.SystemElasticsearch, target, elasticsearchToMySQL)
		m.register(schema.SystemGoStruct, target, goToMySQL)
		m.register(schema.SystemPostgres, target, postgresToMySQL)
		m.register(schema.SystemSQLServer, target, sqlServerToMySQL)
		m.register(schema.SystemOracle, target, oracleToMySQL)
		m.register(schema.SystemSQLite, target, sqliteToMySQL)
	}
	m.register(schema.SystemGoStruct, schema.SystemElasticsearch, goToElasticsearch)
	return m
}

// register adds a dictionary and its inverse.
func (m *TypeMappings) register(from, to schema.SystemTag, dict dictionary) {
	forward := m.dict(from, to)
	backward := m.dict(to, from)
	for native, counterparts := range dict {
		native = strings.ToLower(native)
		for _, other := range counterparts {
			addTo(forward, native, other)
			addTo(backward, other, native)
		}
	}
}

func (m *TypeMappings) dict(from, to schema.SystemTag) map[string]schema.TypeSet {
	key := systemPair{from, to}
	d, ok := m.dicts[key]
	if !ok {
		d = make(map[string]schema.TypeSet)
		m.dicts[key] = d
	}
	return d
}

func addTo(d map[string]schema.TypeSet, key, value string) {
	set, ok := d[key]
	if !ok {
		set = make(schema.TypeSet)
		d[key] = set
	}
	set.Add(value)
}

// Lookup returns the spellings in system `to` that are compatible with the
// native type of system `from`. The returned slice is a copy.
func (m *TypeMappings) Lookup(from, to schema.SystemTag, nativeType string) []string {
	d, ok := m.dicts[systemPair{from, to}]
	if !ok {
		return nil
	}
	set, ok := d[strings.ToLower(strings.TrimSpace(nativeType))]
	if !ok {
		return nil
	}
	return set.Sorted()
}

// Targets lists the systems that have a dictionary from the given system.
func (m *TypeMappings) Targets(from schema.SystemTag) []schema.SystemTag {
	var out []schema.SystemTag
	for pair := range m.dicts {
		if pair.from == from {
			out = append(out, pair.to)
		}
	}
	return out
}

// Annotate fills the column's type-mapping table for every system reachable
// from `from`. Entries the column already declares are kept and extended.
func (m *TypeMappings) Annotate(col *schema.ColumnStructure, from schema.SystemTag) {
	for _, to := range m.Targets(from) {
		if types := m.Lookup(from, to, col.Type); len(types) > 0 {
			col.AddTypeMapping(to, types...)
		}
	}
}

// AnnotateTable runs Annotate over every column of the table.
func (m *TypeMappings) AnnotateTable(t *schema.TableStructure) {
	for _, col := range t.Columns {
		m.Annotate(col, t.System)
	}
}
