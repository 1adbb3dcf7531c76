package stattest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// chiSquareIndependence builds the contingency table over rows where both
// cells are present and tests independence of the two categoricals.
func chiSquareIndependence(a, b table.Column, alpha float64) (*Result, error) {
	rowCats, colCats, observed, n := contingency(a, b)
	if len(rowCats) < 2 || len(colCats) < 2 {
		return nil, apperrors.Computation(
			"chi-square needs at least 2 categories in each column",
			"choose columns with more than one observed value")
	}

	fn := float64(n)
	rowTotals := make([]float64, len(rowCats))
	colTotals := make([]float64, len(colCats))
	for i := range rowCats {
		for j := range colCats {
			rowTotals[i] += float64(observed[i][j])
			colTotals[j] += float64(observed[i][j])
		}
	}

	var chi2 float64
	lowExpected := 0
	cells := len(rowCats) * len(colCats)
	for i := range rowCats {
		for j := range colCats {
			expected := rowTotals[i] * colTotals[j] / fn
			if expected < 5 {
				lowExpected++
			}
			if expected > 0 {
				d := float64(observed[i][j]) - expected
				chi2 += d * d / expected
			}
		}
	}

	df := (len(rowCats) - 1) * (len(colCats) - 1)
	dist := distuv.ChiSquared{K: float64(df)}
	p := dist.Survival(chi2)

	// Cramér's V normalizes association strength to [0, 1].
	minDim := len(rowCats) - 1
	if len(colCats)-1 < minDim {
		minDim = len(colCats) - 1
	}
	v := math.Sqrt(chi2 / (fn * float64(minDim)))

	lowRatio := float64(lowExpected) / float64(cells)
	assumptions := []AssumptionCheck{{
		Name:      "expected_cell_counts",
		Satisfied: lowRatio <= 0.2,
		Detail: fmt.Sprintf("%.0f%% of cells have expected count below 5",
			lowRatio*100),
	}}

	return &Result{
		TestType:    TestChiSquare,
		TestName:    "Chi-square test of independence",
		Statistic:   chi2,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		EffectSize: &EffectSize{
			Measure:        "cramers_v",
			Value:          v,
			Interpretation: interpretCramersV(v),
		},
		Assumptions: assumptions,
		ChiSquare: &ChiSquareDetail{
			DegreesFreedom:   df,
			RowCategories:    rowCats,
			ColumnCategories: colCats,
			Observed:         observed,
			LowExpectedRatio: lowRatio,
			SampleSize:       n,
		},
		Interpretation: fmt.Sprintf(
			"association between %q and %q: p=%.4g, Cramér's V=%.3f (%s)",
			a.Name, b.Name, p, v, interpretCramersV(v)),
	}, nil
}

// contingency counts co-occurring category pairs over pairwise-complete
// rows. Categories are ordered lexically for deterministic output.
func contingency(a, b table.Column) (rowCats, colCats []string, observed [][]int, n int) {
	counts := make(map[string]map[string]int)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for i := 0; i < a.Len(); i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		ra, cb := a.CellString(i), b.CellString(i)
		if counts[ra] == nil {
			counts[ra] = make(map[string]int)
		}
		counts[ra][cb]++
		rowSet[ra] = struct{}{}
		colSet[cb] = struct{}{}
		n++
	}
	for c := range rowSet {
		rowCats = append(rowCats, c)
	}
	for c := range colSet {
		colCats = append(colCats, c)
	}
	sort.Strings(rowCats)
	sort.Strings(colCats)
	observed = make([][]int, len(rowCats))
	for i, rc := range rowCats {
		observed[i] = make([]int, len(colCats))
		for j, cc := range colCats {
			observed[i][j] = counts[rc][cc]
		}
	}
	return rowCats, colCats, observed, n
}
