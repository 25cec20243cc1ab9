package compare

import (
	"schema-compare/core/schema"
	"schema-compare/core/utils"
)

func (c *comparison) compareColumns() {
	srcCols := c.source.ColumnMap()
	tgtCols := c.target.ColumnMap()

	for _, col := range c.source.Columns {
		if srcCols[col.Name] != col || c.task.IsFieldIgnored(col.Name) {
			continue
		}
		other, ok := tgtCols[col.Name]
		if !ok {
			c.addColumnDifference(schema.ColumnDifference{
				Column:      col.Name,
				Kind:        schema.ColumnMissing,
				Source:      col,
				Description: "Column exists in source but not in target",
				Level:       schema.Critical,
			})
			continue
		}
		c.compareColumnDetails(col, other)
	}

	for _, col := range c.target.Columns {
		if tgtCols[col.Name] != col || c.task.IsFieldIgnored(col.Name) {
			continue
		}
		if _, ok := srcCols[col.Name]; !ok {
			c.addColumnDifference(schema.ColumnDifference{
				Column:      col.Name,
				Kind:        schema.ColumnMissing,
				Target:      col,
				Description: "Column exists in target but not in source",
				Level:       schema.Warning,
			})
		}
	}
}

func (c *comparison) compareColumnDetails(src, tgt *schema.ColumnStructure) {
	srcTag, tgtTag := c.source.System, c.target.System

	if !IsCompatible(src, tgt, srcTag, tgtTag) {
		c.addColumnDifference(schema.ColumnDifference{
			Column:      src.Name,
			Kind:        schema.ColumnTypeDifferent,
			Source:      src,
			Target:      tgt,
			Description: "Column data type is incompatible",
			Level:       schema.Critical,
			Properties: []schema.PropertyDifference{{
				Property: "dataType",
				Source:   src.Type,
				Target:   tgt.Type,
				Level:    schema.Critical,
			}},
		})
		return
	}
	if skipsColumnDetails(srcTag, tgtTag) {
		return
	}

	var props []schema.PropertyDifference
	add := func(name string, s, t any, level schema.Severity) {
		props = append(props, schema.PropertyDifference{Property: name, Source: s, Target: t, Level: level})
	}

	if !c.task.IsIgnored(CategoryNullable) && src.Nullable != tgt.Nullable {
		add("nullable", src.Nullable, tgt.Nullable, schema.Warning)
	}

	if !c.task.IsIgnored(CategoryDefault) && !DefaultsEquivalent(src.Default, tgt.Default, srcTag, tgtTag) {
		add("defaultValue", derefAny(src.Default), derefAny(tgt.Default), schema.Warning)
	}

	if !c.task.IsIgnored(CategoryAutoIncrement) && src.AutoIncrement != tgt.AutoIncrement && !c.autoRandomCovers(src, tgt) {
		add("autoIncrement", src.AutoIncrement, tgt.AutoIncrement, schema.Warning)
	}

	if !isIntegerType(src.Type) && !isIntegerType(tgt.Type) {
		if !c.task.IsIgnored(CategoryLength) && !intPtrEqual(src.Length, tgt.Length) {
			add("length", intPtrAny(src.Length), intPtrAny(tgt.Length), schema.Warning)
		}
		if !c.task.IsIgnored(CategoryPrecision) && !intPtrEqual(src.Precision, tgt.Precision) {
			add("precision", intPtrAny(src.Precision), intPtrAny(tgt.Precision), schema.Warning)
		}
		if !c.task.IsIgnored(CategoryScale) && !intPtrEqual(src.Scale, tgt.Scale) {
			add("scale", intPtrAny(src.Scale), intPtrAny(tgt.Scale), schema.Warning)
		}
	}

	if !c.task.IsIgnored(CategoryComment) && !CommentsEquivalent(src.Comment, tgt.Comment, srcTag, tgtTag) {
		add("comment", derefAny(src.Comment), derefAny(tgt.Comment), schema.Notice)
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
	c.result.ColumnDifferences = append(c.result.ColumnDifferences, schema.ColumnDifference{
		Column:      src.Name,
		Kind:        schema.ColumnPropertyDifferent,
		Source:      src,
		Target:      tgt,
		Description: "Column properties are different",
		Level:       level,
		Properties:  props,
	})
}

// autoRandomCovers reports whether a TiDB AUTO_RANDOM key stands in for a
// MySQL AUTO_INCREMENT column.
func (c *comparison) autoRandomCovers(src, tgt *schema.ColumnStructure) bool {
	if !src.AutoIncrement || !c.source.System.IsMySQLFamily() || !c.target.System.IsMySQLFamily() {
		return false
	}
	v, ok := tgt.Properties[schema.PropAutoRandom]
	return ok && utils.ToBool(v)
}

func (c *comparison) addColumnDifference(d schema.ColumnDifference) {
	c.result.ColumnDifferences = append(c.result.ColumnDifferences, d)
	c.result.Count(d.Level)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtrAny(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
