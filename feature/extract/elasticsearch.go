package extract

import (
	"context"
	"maps"
	"slices"

	"schema-compare/core/elastic"
	"schema-compare/core/schema"
	"schema-compare/core/utils"
)

// settingKeys are the index settings copied onto the table properties.
var settingKeys = []string{"number_of_shards", "number_of_replicas", "creation_date", "uuid", "provided_name"}

// ElasticsearchExtractor reads an index's settings and top-level mapping.
type ElasticsearchExtractor struct {
	defaults elastic.Config
}

// NewElasticsearchExtractor creates an extractor. Data source properties
// url, username and password override the defaults.
func NewElasticsearchExtractor(defaults elastic.Config) *ElasticsearchExtractor {
	return &ElasticsearchExtractor{defaults: defaults}
}

func (e *ElasticsearchExtractor) client(ds DataSource) *elastic.Client {
	cfg := e.defaults
	if v := ds.Property("url"); v != "" {
		cfg.URL = v
	}
	if v := ds.Property("username"); v != "" {
		cfg.Username = v
	}
	if v := ds.Property("password"); v != "" {
		cfg.Password = v
	}
	if v := utils.ToInt(ds.Property("timeout_seconds")); v > 0 {
		cfg.TimeoutSeconds = v
	}
	return elastic.NewClient(cfg)
}

// Extract implements Extractor. Every top-level field becomes a nullable
// column; indexed fields also get a "<field>_idx" index.
func (e *ElasticsearchExtractor) Extract(ctx context.Context, ds DataSource, index string) (*schema.TableStructure, error) {
	c := e.client(ds)
	settings, err := c.Settings(ctx, index)
	if err != nil {
		return nil, err
	}
	mapping, err := c.Mapping(ctx, index)
	if err != nil {
		return nil, err
	}

	t := schema.NewTable(index, schema.SystemElasticsearch)
	for _, key := range settingKeys {
		if v, ok := settings[key]; ok {
			t.SetProperty(key, v)
		}
	}
	if _, ok := settings["analysis"]; ok {
		t.SetProperty("has_custom_analyzers", true)
	}
	if meta, ok := mapping["_meta"].(map[string]any); ok {
		if desc, ok := meta["description"].(string); ok && desc != "" {
			t.Comment = schema.Ptr(desc)
		}
	}

	props, _ := mapping["properties"].(map[string]any)
	for _, name := range slices.Sorted(maps.Keys(props)) {
		field, _ := props[name].(map[string]any)
		col := fieldColumn(name, field)
		t.AddColumn(col)
		if indexed(field) {
			idx := &schema.IndexStructure{
				Name:    name + "_idx",
				Type:    IndexTypeNormal,
				Columns: []schema.IndexColumn{{Name: name, Position: 1}},
			}
			if a, ok := field["analyzer"]; ok {
				idx.Properties = map[string]any{"analyzer": a}
			}
			t.AddIndex(idx)
		}
	}
	return t, nil
}

func fieldColumn(name string, field map[string]any) *schema.ColumnStructure {
	typ, _ := field["type"].(string)
	if typ == "" {
		typ = "object"
	}
	col := &schema.ColumnStructure{
		Name:     name,
		Type:     typ,
		FullType: typ,
		Nullable: true,
	}
	for k, v := range field {
		if k == "properties" {
			continue
		}
		col.SetProperty(k, v)
	}
	if typ == "keyword" {
		if v, ok := field["ignore_above"]; ok {
			col.Length = utils.ToIntPtr(v)
		}
	}
	return col
}

// indexed reports whether a field is searchable. Objects and fields mapped
// with "index": false are not.
func indexed(field map[string]any) bool {
	if v, ok := field["index"]; ok && !utils.ToBool(v) {
		return false
	}
	typ, _ := field["type"].(string)
	return typ != "" && typ != "object" && typ != "nested"
}
