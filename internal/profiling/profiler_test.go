package profiling

import (
	"math"
	"strconv"
	"testing"

	"zyra/domain/table"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 100}

	q1, ok := Quantile(values, 0.25)
	if !ok || math.Abs(q1-2.25) > 1e-9 {
		t.Errorf("Q1 = %v, want 2.25", q1)
	}
	q3, _ := Quantile(values, 0.75)
	if math.Abs(q3-4.75) > 1e-9 {
		t.Errorf("Q3 = %v, want 4.75", q3)
	}

	lower, upper, _, _, ok := IQRBounds(values)
	if !ok {
		t.Fatal("IQRBounds not ok")
	}
	if math.Abs(upper-8.5) > 1e-9 {
		t.Errorf("upper fence = %v, want 8.5", upper)
	}
	if math.Abs(lower-(-1.5)) > 1e-9 {
		t.Errorf("lower fence = %v, want -1.5", lower)
	}
	if got := CountOutliersIQR(values); got != 1 {
		t.Errorf("outliers = %d, want 1 (the value 100)", got)
	}
}

func TestQuantileEmpty(t *testing.T) {
	if _, ok := Quantile(nil, 0.5); ok {
		t.Error("quantile of empty input should report not ok")
	}
}

func TestProfileMissingCountsSumToTableTotal(t *testing.T) {
	tbl := table.MustNew(
		table.NewNumeric("a", []float64{1, 0, 3, 4}, []bool{false, true, false, false}),
		table.NewCategorical("b", []string{"x", "", "", "y"}, []bool{false, true, true, false}),
		table.NewNumeric("c", []float64{1, 2, 3, 4}, nil),
	)

	p := NewProfiler().Profile(tbl)

	sum := 0
	for _, cp := range p.Columns {
		sum += cp.MissingCount
	}
	if sum != tbl.MissingCellCount() {
		t.Errorf("sum of column missing counts = %d, table total = %d", sum, tbl.MissingCellCount())
	}
	if p.Summary.MissingCells != 3 {
		t.Errorf("summary missing cells = %d, want 3", p.Summary.MissingCells)
	}
}

func TestColumnClassification(t *testing.T) {
	constant := make([]string, 60)
	highCard := make([]string, 60)
	target := make([]string, 60)
	for i := range constant {
		constant[i] = "same"
		highCard[i] = "v" + strconv.Itoa(i)
		target[i] = []string{"a", "b", "c"}[i%3]
	}
	binary := make([]float64, 60)
	for i := range binary {
		binary[i] = float64(i % 2)
	}

	tbl := table.MustNew(
		table.NewCategorical("constant", constant, nil),
		table.NewCategorical("high_card", highCard, nil),
		table.NewCategorical("target", target, nil),
		table.NewNumeric("binary", binary, nil),
	)
	p := NewProfiler().Profile(tbl)

	byName := map[string]ColumnProfile{}
	for _, cp := range p.Columns {
		byName[cp.Name] = cp
	}

	if !byName["constant"].IsConstant {
		t.Error("single-value column should be constant")
	}
	if !byName["high_card"].IsHighCardinality {
		t.Error("60 unique non-numeric values should flag high cardinality")
	}
	if !byName["target"].IsPotentialTarget {
		t.Error("3 unique values should flag potential target")
	}
	if !byName["binary"].IsBinary {
		t.Error("two-value column should be binary")
	}
	if byName["binary"].Kind != table.KindNumeric {
		t.Error("binary flag must not change the declared kind")
	}
}

func TestNumericSummaryZeroVariance(t *testing.T) {
	tbl := table.MustNew(table.NewNumeric("flat", []float64{7, 7, 7, 7}, nil))
	p := NewProfiler().Profile(tbl)

	num := p.Columns[0].Numeric
	if num == nil {
		t.Fatal("numeric summary missing")
	}
	if !num.ZeroVariance {
		t.Error("zero variance not flagged")
	}
	if num.Skewness != 0 || num.Kurtosis != 0 {
		t.Errorf("degenerate moments = %v/%v, want 0/0", num.Skewness, num.Kurtosis)
	}
}

func TestAllMissingColumnHasNoNumericSummary(t *testing.T) {
	tbl := table.MustNew(table.NewNumeric("gone", []float64{0, 0}, []bool{true, true}))
	p := NewProfiler().Profile(tbl)
	if p.Columns[0].Numeric != nil {
		t.Error("all-missing column should report an undefined numeric summary")
	}
}

func TestMissingPatternsDetectCoOccurrence(t *testing.T) {
	// a and b are missing on exactly the same rows; c is independent.
	miss := []bool{true, false, true, false, true, false, false, false}
	other := []bool{false, true, false, false, false, false, true, false}
	vals := make([]float64, 8)

	tbl := table.MustNew(
		table.NewNumeric("a", vals, miss),
		table.NewNumeric("b", vals, append([]bool(nil), miss...)),
		table.NewNumeric("c", vals, other),
	)
	p := NewProfiler().Profile(tbl)

	if len(p.MissingPatterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(p.MissingPatterns))
	}
	mp := p.MissingPatterns[0]
	if mp.ColumnA != "a" || mp.ColumnB != "b" {
		t.Errorf("pattern pair = %s/%s, want a/b", mp.ColumnA, mp.ColumnB)
	}
	if math.Abs(mp.Correlation-1) > 1e-9 {
		t.Errorf("pattern correlation = %v, want 1", mp.Correlation)
	}
}

func TestSkewnessDirection(t *testing.T) {
	rightSkewed := []float64{1, 1, 1, 2, 2, 3, 4, 20}
	if s := Skewness(rightSkewed); s <= 0 {
		t.Errorf("skewness = %v, want positive for right-skewed data", s)
	}
	symmetric := []float64{1, 2, 3, 4, 5}
	if s := Skewness(symmetric); math.Abs(s) > 1e-9 {
		t.Errorf("skewness = %v, want 0 for symmetric data", s)
	}
}
