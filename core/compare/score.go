package compare

import "schema-compare/core/schema"

const (
	tableWeight  = 0.1
	columnWeight = 0.7
	indexWeight  = 0.2

	// maxTableDifferences saturates the table score.
	maxTableDifferences = 10
)

// Score computes the weighted match percentage of a populated result.
//
// Only structural column differences (missing columns, incompatible types)
// lower the column score; property differences are reported and counted by
// severity but leave the score untouched.
func Score(r *schema.CompareResult) float64 {
	if !r.HasDifferences() {
		return 100
	}

	srcCols, tgtCols, srcIdx, tgtIdx := 0, 0, 0, 0
	if r.Source != nil {
		srcCols = len(r.Source.ColumnMap())
		srcIdx = len(r.Source.Indexes)
	}
	if r.Target != nil {
		tgtCols = len(r.Target.ColumnMap())
		tgtIdx = len(r.Target.Indexes)
	}

	structural := 0
	for _, d := range r.ColumnDifferences {
		if d.Kind == schema.ColumnMissing || d.Kind == schema.ColumnTypeDifferent {
			structural++
		}
	}

	columnScore := rate(structural, max(srcCols, tgtCols))
	indexScore := rate(len(r.IndexDifferences), max(srcIdx, tgtIdx))
	tableScore := 100 * (1 - float64(min(len(r.TableDifferences), maxTableDifferences))/maxTableDifferences)

	pct := tableWeight*tableScore + columnWeight*columnScore + indexWeight*indexScore
	return min(100, max(0, pct))
}

func rate(diffs, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * (1 - float64(diffs)/float64(total))
}
