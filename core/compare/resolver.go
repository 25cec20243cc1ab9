package compare

import (
	"strings"

	"schema-compare/core/schema"
)

// IsCompatible decides whether two columns carry equivalent native types.
//
// Equal spellings are compatible. Otherwise each column's type-mapping table
// is consulted for the other side's system, and finally two columns whose
// tables both declare mappings are compatible when those mappings overlap.
func IsCompatible(source, target *schema.ColumnStructure, sourceTag, targetTag schema.SystemTag) bool {
	srcType := strings.ToLower(strings.TrimSpace(source.Type))
	tgtType := strings.ToLower(strings.TrimSpace(target.Type))
	if srcType == tgtType {
		return true
	}

	srcMapping, srcOK := source.MappingFor(targetTag)
	if srcOK && srcMapping.Contains(tgtType) {
		return true
	}

	tgtMapping, tgtOK := target.MappingFor(sourceTag)
	if tgtOK && tgtMapping.Contains(srcType) {
		return true
	}

	if srcOK && tgtOK {
		return srcMapping.Intersects(tgtMapping)
	}
	return false
}

// skipsColumnDetails reports whether compatible columns are treated as fully
// matched without looking at nullability, defaults and the like.
func skipsColumnDetails(sourceTag, targetTag schema.SystemTag) bool {
	return sourceTag.IsSparse() || targetTag.IsSparse()
}

var integerFamily = map[string]struct{}{
	"int": {}, "integer": {}, "bigint": {}, "long": {}, "tinyint": {}, "byte": {},
	"smallint": {}, "short": {}, "mediumint": {},
	"int64": {}, "int32": {}, "int16": {}, "int8": {},
	"int2": {}, "int4": {},
}

// isIntegerType reports whether the native type is an integer spelling.
func isIntegerType(nativeType string) bool {
	_, ok := integerFamily[strings.ToLower(strings.TrimSpace(nativeType))]
	return ok
}
