package pipeline

import "zyra/domain/table"

// QualityScore grades a table from 0 to 100. Missing cells cost up to 30
// points, duplicate rows up to 20, constant columns up to 15.
func QualityScore(t *table.Table) float64 {
	rows, cols := t.NumRows(), t.NumCols()
	if rows == 0 || cols == 0 {
		return 0
	}

	missingRatio := float64(t.MissingCellCount()) / float64(rows*cols)
	dupRatio := float64(t.DuplicateRowCount()) / float64(rows)

	constant := 0
	for _, c := range t.Columns() {
		if c.UniqueCount() <= 1 {
			constant++
		}
	}
	constRatio := float64(constant) / float64(cols)

	score := 100 - 30*missingRatio - 20*dupRatio - 15*constRatio
	if score < 0 {
		score = 0
	}
	return score
}
