package compare

import (
	"reflect"
	"slices"
	"strings"

	"schema-compare/core/schema"
	"schema-compare/core/utils"
)

// comparison accumulates the differences of one source/target pair.
type comparison struct {
	task   *TaskConfig
	source *schema.TableStructure
	target *schema.TableStructure
	result *schema.CompareResult
}

// searchEngineBookkeeping are index settings and mapping parameters a search
// engine tracks that have no counterpart elsewhere.
var searchEngineBookkeeping = map[string]struct{}{
	"number_of_replicas": {}, "number_of_shards": {}, "creation_date": {}, "uuid": {},
	"provided_name": {}, "has_custom_analyzers": {}, "analyzer": {}, "search_analyzer": {},
	"ignore_above": {}, "scaling_factor": {}, "_meta": {}, "_source": {}, "_all": {},
	"_routing": {}, "_parent": {}, "_field_names": {}, "dynamic": {}, "dynamic_templates": {},
	"properties": {}, "include_in_all": {}, "copy_to": {}, "fields": {}, "format": {},
	"ignore_malformed": {}, "index_options": {}, "norms": {}, "null_value": {},
	"position_increment_gap": {}, "search_quote_analyzer": {}, "similarity": {}, "term_vector": {},
}

// structBookkeeping are attributes recorded by the Go struct extractor.
var structBookkeeping = map[string]struct{}{
	"goType": {}, "package": {}, "embedded": {}, "tags": {},
}

// cosmeticKeys never change behaviour and are at most a NOTICE.
var cosmeticKeys = map[string]struct{}{
	"comment": {}, "description": {}, "label": {}, "displayName": {}, "format": {}, "pattern": {},
}

func (c *comparison) compareTableProperties() {
	srcTag, tgtTag := c.source.System, c.target.System

	commentsEqual := CommentsEquivalent(c.source.Comment, c.target.Comment, srcTag, tgtTag)
	if !commentsEqual && !c.task.IsIgnored(CategoryComment) {
		c.addTableDifference(schema.TableDifference{
			Property:    "comment",
			Kind:        schema.TablePropertyDifferent,
			Source:      derefAny(c.source.Comment),
			Target:      derefAny(c.target.Comment),
			Description: "Table comment is different",
			Level:       schema.Notice,
		})
	}

	eitherSearch := srcTag.IsDocumentSearch() || tgtTag.IsDocumentSearch()
	bothSearch := srcTag.IsDocumentSearch() && tgtTag.IsDocumentSearch()
	eitherStruct := srcTag.IsLanguageNative() || tgtTag.IsLanguageNative()

	for _, key := range unionKeys(c.source.Properties, c.target.Properties) {
		if eitherSearch {
			if _, skip := searchEngineBookkeeping[key]; skip {
				continue
			}
			if bothSearch && key == "version" {
				continue
			}
		}
		if eitherStruct {
			if _, skip := structBookkeeping[key]; skip {
				continue
			}
		}
		if key == "comment" && commentsEqual {
			continue
		}

		srcVal, srcOK := c.source.Properties[key]
		tgtVal, tgtOK := c.target.Properties[key]
		if srcOK && tgtOK && valuesEqual(srcVal, tgtVal) {
			continue
		}

		level := c.tablePropertyLevel(key)
		if eitherSearch || eitherStruct {
			if _, cosmetic := cosmeticKeys[key]; cosmetic {
				level = schema.Notice
			}
		}

		c.addTableDifference(schema.TableDifference{
			Property:    key,
			Kind:        schema.TablePropertyDifferent,
			Source:      srcVal,
			Target:      tgtVal,
			Description: "Table property '" + key + "' is different",
			Level:       level,
		})
	}
}

// tablePropertyLevel grades a table attribute by the keywords in its name.
func (c *comparison) tablePropertyLevel(key string) schema.Severity {
	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "primary"), strings.Contains(lower, "unique"):
		return schema.Critical
	case strings.Contains(lower, "index"), strings.Contains(lower, "shard"),
		strings.Contains(lower, "replica"), strings.Contains(lower, "partition"):
		return schema.Warning
	case c.task.ignoresKey(key):
		return schema.Acceptable
	default:
		return schema.Notice
	}
}

func (c *comparison) addTableDifference(d schema.TableDifference) {
	c.result.TableDifferences = append(c.result.TableDifferences, d)
	c.result.Count(d.Level)
}

// unionKeys returns the keys present in either map, sorted.
func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// valuesEqual compares attribute values that may come from different
// decoders (a JSON float against a catalog integer, for example).
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	if isScalar(a) && isScalar(b) {
		return utils.ToString(a) == utils.ToString(b)
	}
	return false
}

func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		_, isBytes := v.([]byte)
		return isBytes
	default:
		return true
	}
}

func derefAny(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
