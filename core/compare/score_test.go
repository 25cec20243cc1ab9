package compare

import (
	"testing"

	"schema-compare/core/schema"

	"github.com/stretchr/testify/assert"
)

func resultWith(srcCols, tgtCols, srcIdx, tgtIdx int) *schema.CompareResult {
	build := func(cols, idx int) *schema.TableStructure {
		t := schema.NewTable("t", schema.SystemMySQL)
		for i := range cols {
			t.AddColumn(&schema.ColumnStructure{Name: string(rune('a' + i)), Type: "int"})
		}
		for i := range idx {
			t.AddIndex(indexOn(string(rune('a'+i)), string(rune('a'+i))))
		}
		return t
	}
	return schema.NewCompareResult("t", build(srcCols, srcIdx), build(tgtCols, tgtIdx))
}

func TestScore(t *testing.T) {
	t.Run("no differences", func(t *testing.T) {
		assert.Equal(t, 100.0, Score(resultWith(3, 3, 1, 1)))
	})

	t.Run("property differences do not lower the column score", func(t *testing.T) {
		r := resultWith(4, 4, 0, 0)
		r.ColumnDifferences = append(r.ColumnDifferences, schema.ColumnDifference{Kind: schema.ColumnPropertyDifferent})
		assert.Equal(t, 100.0, Score(r))
	})

	t.Run("structural column differences", func(t *testing.T) {
		r := resultWith(4, 2, 0, 0)
		r.ColumnDifferences = append(r.ColumnDifferences,
			schema.ColumnDifference{Kind: schema.ColumnMissing},
			schema.ColumnDifference{Kind: schema.ColumnTypeDifferent},
		)
		assert.InDelta(t, 10+0.7*50+20, Score(r), 0.0001)
	})

	t.Run("index differences", func(t *testing.T) {
		r := resultWith(1, 1, 2, 4)
		r.IndexDifferences = append(r.IndexDifferences, schema.IndexDifference{}, schema.IndexDifference{})
		assert.InDelta(t, 10+70+0.2*50, Score(r), 0.0001)
	})

	t.Run("table score saturates", func(t *testing.T) {
		r := resultWith(1, 1, 0, 0)
		for range 15 {
			r.TableDifferences = append(r.TableDifferences, schema.TableDifference{})
		}
		assert.InDelta(t, 90.0, Score(r), 0.0001)
	})

	t.Run("never below zero", func(t *testing.T) {
		r := resultWith(1, 1, 1, 1)
		for range 12 {
			r.TableDifferences = append(r.TableDifferences, schema.TableDifference{})
		}
		for range 3 {
			r.ColumnDifferences = append(r.ColumnDifferences, schema.ColumnDifference{Kind: schema.ColumnMissing})
			r.IndexDifferences = append(r.IndexDifferences, schema.IndexDifference{})
		}
		assert.Equal(t, 0.0, Score(r))
	})
}
