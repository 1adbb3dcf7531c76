package profiling

import (
	"math"
	"sort"

	"zyra/domain/table"
)

const (
	missingPatternThreshold = 0.7
	missingPatternCap       = 5
)

// MissingPattern reports two columns whose missingness co-occurs strongly,
// hinting at a shared root cause in the collection process.
type MissingPattern struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Correlation float64 `json:"correlation"`
}

// missingPatterns correlates missingness indicator vectors pairwise and
// keeps the strongest pairs above the threshold, capped at five.
func missingPatterns(t *table.Table) []MissingPattern {
	var candidates []table.Column
	for _, c := range t.Columns() {
		if c.MissingCount() > 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) < 2 {
		return nil
	}

	var out []MissingPattern
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			r := indicatorCorrelation(candidates[i].Missing, candidates[j].Missing)
			if r > missingPatternThreshold {
				out = append(out, MissingPattern{
					ColumnA:     candidates[i].Name,
					ColumnB:     candidates[j].Name,
					Correlation: r,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Correlation != out[j].Correlation {
			return out[i].Correlation > out[j].Correlation
		}
		if out[i].ColumnA != out[j].ColumnA {
			return out[i].ColumnA < out[j].ColumnA
		}
		return out[i].ColumnB < out[j].ColumnB
	})
	if len(out) > missingPatternCap {
		out = out[:missingPatternCap]
	}
	return out
}

// indicatorCorrelation is the Pearson correlation of two boolean vectors.
// Returns 0 when either vector is constant.
func indicatorCorrelation(a, b []bool) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}
	var sumA, sumB, sumAB float64
	for i := range a {
		x, y := 0.0, 0.0
		if a[i] {
			x = 1
		}
		if b[i] {
			y = 1
		}
		sumA += x
		sumB += y
		sumAB += x * y
	}
	meanA, meanB := sumA/n, sumB/n
	varA := meanA * (1 - meanA)
	varB := meanB * (1 - meanB)
	if varA == 0 || varB == 0 {
		return 0
	}
	cov := sumAB/n - meanA*meanB
	return cov / math.Sqrt(varA*varB)
}
