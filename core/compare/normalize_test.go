package compare

import (
	"testing"

	"schema-compare/core/schema"

	"github.com/stretchr/testify/assert"
)

func sp(s string) *string { return &s }

func TestNormalizeDefault(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'abc'", "abc"},
		{`"ABC"`, "abc"},
		{"DEFAULT 'x'", "x"},
		{"  default   0  ", "0"},
		{"''", ""},
		{"'unbalanced", "'unbalanced"},
		{"CURRENT_TIMESTAMP", "current_timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDefault(tt.in))
		})
	}
}

func TestIsNullDefault(t *testing.T) {
	assert.True(t, IsNullDefault(nil))
	for _, v := range []string{"", "null", "NULL", "'null'", `"null"`, "default null", "DEFAULT 'NULL'", "default", "''", `""`} {
		assert.True(t, IsNullDefault(sp(v)), v)
	}
	for _, v := range []string{"0", "'a'", "nullable", "current_timestamp"} {
		assert.False(t, IsNullDefault(sp(v)), v)
	}
}

func TestIsCurrentTimestampDefault(t *testing.T) {
	for _, v := range []string{"CURRENT_TIMESTAMP", "current_timestamp()", "current_timestamp(3)", "DEFAULT CURRENT_TIMESTAMP(6)"} {
		assert.True(t, IsCurrentTimestampDefault(sp(v)), v)
	}
	assert.False(t, IsCurrentTimestampDefault(nil))
	assert.False(t, IsCurrentTimestampDefault(sp("now()")))
	assert.False(t, IsCurrentTimestampDefault(sp("current_timestamp(a)")))
}

func TestNumericDefaults(t *testing.T) {
	assert.Equal(t, "7", NormalizeNumeric("007"))
	assert.Equal(t, NormalizeNumeric("7"), NormalizeNumeric("007"))
	assert.Equal(t, "1.5", NormalizeNumeric("1.50"))
	assert.Equal(t, NormalizeNumeric("1.5"), NormalizeNumeric("1.50"))
	assert.Equal(t, "2", NormalizeNumeric("2.0"))
	assert.Equal(t, "0", NormalizeNumeric("000"))
	assert.Equal(t, "0.05", NormalizeNumeric("0.050"))
	assert.Equal(t, "-3", NormalizeNumeric("-03.00"))
	assert.Equal(t, "0", NormalizeNumeric("-0.0"))
	assert.Equal(t, "1e5", NormalizeNumeric("1.0e05"))
	assert.Equal(t, "1.2e-3", NormalizeNumeric("1.20E-003"))

	assert.True(t, IsNumericDefault(sp("'10'")))
	assert.True(t, IsNumericDefault(sp("-1.25")))
	assert.True(t, IsNumericDefault(sp("1e-5")))
	assert.False(t, IsNumericDefault(sp("1.")))
	assert.False(t, IsNumericDefault(sp("abc")))
	assert.False(t, IsNumericDefault(nil))
}

func TestDefaultsEquivalent(t *testing.T) {
	mysql, tidb, es := schema.SystemMySQL, schema.SystemTiDB, schema.SystemElasticsearch

	tests := []struct {
		name     string
		src, tgt *string
		srcTag   schema.SystemTag
		tgtTag   schema.SystemTag
		want     bool
	}{
		{"both absent", nil, nil, mysql, tidb, true},
		{"absent vs null literal", nil, sp("NULL"), mysql, tidb, true},
		{"null variants", sp("default null"), sp("''"), mysql, tidb, true},
		{"absent vs value", nil, sp("0"), mysql, tidb, false},
		{"timestamps", sp("CURRENT_TIMESTAMP"), sp("current_timestamp(3)"), mysql, tidb, true},
		{"numeric zeros", sp("'007'"), sp("7"), mysql, tidb, true},
		{"numeric fraction", sp("1.50"), sp("1.5"), mysql, tidb, true},
		{"numeric differ", sp("1"), sp("2"), mysql, tidb, false},
		{"quoted text", sp("'active'"), sp(`"ACTIVE"`), mysql, tidb, true},
		{"text differ", sp("'a'"), sp("'b'"), mysql, tidb, false},
		{"search engine target", sp("'x'"), nil, mysql, es, true},
		{"search engine source", nil, sp("1"), es, mysql, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultsEquivalent(tt.src, tt.tgt, tt.srcTag, tt.tgtTag))
			assert.Equal(t, tt.want, DefaultsEquivalent(tt.tgt, tt.src, tt.tgtTag, tt.srcTag), "symmetry")
		})
	}
}

func TestCommentsEquivalent(t *testing.T) {
	mysql, pg, es, gs := schema.SystemMySQL, schema.SystemPostgres, schema.SystemElasticsearch, schema.SystemGoStruct

	assert.True(t, CommentsEquivalent(nil, nil, gs, es))
	assert.True(t, CommentsEquivalent(nil, sp("  "), mysql, pg))
	assert.True(t, CommentsEquivalent(sp(" user id "), sp("user id"), mysql, pg))
	assert.False(t, CommentsEquivalent(sp("a"), sp("b"), mysql, pg))
	assert.True(t, CommentsEquivalent(sp("a"), nil, mysql, es))
	assert.True(t, CommentsEquivalent(nil, sp("a"), es, mysql))
	assert.False(t, CommentsEquivalent(sp("a"), nil, gs, mysql))
	assert.True(t, CommentsEquivalent(sp("a"), sp("a"), gs, es))
	assert.False(t, CommentsEquivalent(sp("a "), sp("a"), gs, es))
}
