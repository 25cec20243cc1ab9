package compare

import (
	"slices"
	"strings"

	"schema-compare/core/schema"
)

func (c *comparison) compareIndexes() {
	if c.source.System.IsSparse() || c.target.System.IsSparse() {
		return
	}

	pairs, matched := pairIndexes(c.source.Indexes, c.target.Indexes)
	for i, src := range c.source.Indexes {
		pos := pairs[i]
		if pos < 0 {
			if !c.task.IsIgnored(CategoryIndex) {
				level := schema.Warning
				if src.Primary {
					level = schema.Critical
				}
				c.addIndexDifference(schema.IndexDifference{
					Index:       src.Name,
					Kind:        schema.IndexMissing,
					Source:      src,
					Description: "Index exists in source but not in target",
					Level:       level,
				})
			}
			continue
		}
		if !c.task.IsIgnored(CategoryIndexDetail) {
			c.compareIndexDetails(src, c.target.Indexes[pos])
		}
	}

	if c.task.IsIgnored(CategoryIndex) {
		return
	}
	for i, tgt := range c.target.Indexes {
		if matched[i] {
			continue
		}
		level := schema.Notice
		if tgt.Primary {
			level = schema.Critical
		}
		c.addIndexDifference(schema.IndexDifference{
			Index:       tgt.Name,
			Kind:        schema.IndexMissing,
			Target:      tgt,
			Description: "Index exists in target but not in source",
			Level:       level,
		})
	}
}

// pairIndexes maps each source index to its target position, or -1. Primary
// keys pair with each other first since their shape legitimately differs
// between systems; the remaining indexes match by unordered column set.
func pairIndexes(source, target []*schema.IndexStructure) ([]int, []bool) {
	pairs := make([]int, len(source))
	for i := range pairs {
		pairs[i] = -1
	}
	matched := make([]bool, len(target))

	if s := slices.IndexFunc(source, isPrimary); s >= 0 {
		if t := slices.IndexFunc(target, isPrimary); t >= 0 {
			pairs[s] = t
			matched[t] = true
		}
	}

	for i, src := range source {
		if pairs[i] >= 0 {
			continue
		}
		for j, tgt := range target {
			if !matched[j] && src.SameColumns(tgt) {
				pairs[i] = j
				matched[j] = true
				break
			}
		}
	}
	return pairs, matched
}

func isPrimary(idx *schema.IndexStructure) bool {
	return idx.Primary
}

func (c *comparison) compareIndexDetails(src, tgt *schema.IndexStructure) {
	var props []schema.PropertyDifference
	add := func(name string, s, t any, level schema.Severity) {
		props = append(props, schema.PropertyDifference{Property: name, Source: s, Target: t, Level: level})
	}

	if !c.task.IsIgnored(CategoryUnique) && src.Unique != tgt.Unique {
		add("unique", src.Unique, tgt.Unique, schema.Warning)
	}

	if !c.task.IsIgnored(CategoryIndexType) && !strings.EqualFold(src.Type, tgt.Type) {
		level := schema.Notice
		if src.Primary || tgt.Primary {
			level = schema.Warning
		}
		add("indexType", src.Type, tgt.Type, level)
	}

	for _, key := range unionKeys(src.Properties, tgt.Properties) {
		if _, cosmetic := cosmeticKeys[key]; cosmetic {
			continue
		}
		srcVal, srcOK := src.Properties[key]
		tgtVal, tgtOK := tgt.Properties[key]
		if srcOK && tgtOK && valuesEqual(srcVal, tgtVal) {
			continue
		}
		add(key, srcVal, tgtVal, c.tablePropertyLevel(key))
	}

	if len(props) == 0 {
		return
	}

	level := schema.Acceptable
	for _, p := range props {
		if p.Level > level {
			level = p.Level
		}
		c.result.Count(p.Level)
	}
	c.result.IndexDifferences = append(c.result.IndexDifferences, schema.IndexDifference{
		Index:       src.Name,
		Kind:        schema.IndexStructureDifferent,
		Source:      src,
		Target:      tgt,
		Description: "Index properties are different",
		Level:       level,
		Properties:  props,
	})
}

func (c *comparison) addIndexDifference(d schema.IndexDifference) {
	c.result.IndexDifferences = append(c.result.IndexDifferences, d)
	c.result.Count(d.Level)
}
