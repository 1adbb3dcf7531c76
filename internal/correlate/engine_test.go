package correlate

import (
	"math"
	"testing"

	"zyra/domain/table"
)

func linearTable() *table.Table {
	x := make([]float64, 50)
	y := make([]float64, 50)
	z := make([]float64, 50)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2*float64(i) + 1 // perfectly correlated with x
		z[i] = float64((i*37)%50) - 25
	}
	return table.MustNew(
		table.NewNumeric("x", x, nil),
		table.NewNumeric("y", y, nil),
		table.NewNumeric("z", z, nil),
	)
}

func TestMatrixSymmetricWithUnitDiagonal(t *testing.T) {
	res, err := NewEngine().Correlate(linearTable(), Request{})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	m := res.Matrix
	for i := range m.Columns {
		d, ok := m.At(i, i)
		if !ok || d != 1.0 {
			t.Errorf("diagonal [%d][%d] = %v (defined=%v), want 1", i, i, d, ok)
		}
		for j := range m.Columns {
			a, aok := m.At(i, j)
			b, bok := m.At(j, i)
			if aok != bok || a != b {
				t.Errorf("matrix not symmetric at (%d,%d): %v vs %v", i, j, a, b)
			}
		}
	}
}

func TestZeroVarianceColumnIsUndefinedNotError(t *testing.T) {
	tbl := table.MustNew(
		table.NewNumeric("x", []float64{1, 2, 3, 4}, nil),
		table.NewNumeric("flat", []float64{5, 5, 5, 5}, nil),
	)
	res, err := NewEngine().Correlate(tbl, Request{})
	if err != nil {
		t.Fatalf("zero-variance column must not raise: %v", err)
	}
	if _, ok := res.Matrix.At(0, 1); ok {
		t.Error("correlation with a constant column should be undefined")
	}
	if _, ok := res.Matrix.At(1, 1); ok {
		t.Error("diagonal of a constant column should be undefined")
	}
}

func TestHighPairsSortedAndCapped(t *testing.T) {
	res, err := NewEngine().Correlate(linearTable(), Request{MaxPairs: 1})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(res.HighPairs) != 1 {
		t.Fatalf("high pairs = %d, want 1 after cap", len(res.HighPairs))
	}
	p := res.HighPairs[0]
	if p.ColumnA != "x" || p.ColumnB != "y" {
		t.Errorf("strongest pair = %s/%s, want x/y", p.ColumnA, p.ColumnB)
	}
	if math.Abs(p.Correlation-1) > 1e-9 {
		t.Errorf("x,y correlation = %v, want 1", p.Correlation)
	}
}

func TestTargetCorrelationsExcludeTarget(t *testing.T) {
	res, err := NewEngine().Correlate(linearTable(), Request{Target: "y"})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	for _, tc := range res.TargetCorrelations {
		if tc.Column == "y" {
			t.Error("target must not rank against itself")
		}
	}
	if len(res.TargetCorrelations) != 2 {
		t.Fatalf("target correlations = %d, want 2", len(res.TargetCorrelations))
	}
	if res.TargetCorrelations[0].Column != "x" {
		t.Errorf("strongest target correlate = %s, want x", res.TargetCorrelations[0].Column)
	}
}

func TestTargetMissingColumn(t *testing.T) {
	if _, err := NewEngine().Correlate(linearTable(), Request{Target: "nope"}); err == nil {
		t.Fatal("expected error for unknown target column")
	}
}

func TestSpearmanMonotonicNonlinear(t *testing.T) {
	x := make([]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		x[i] = float64(i)
		y[i] = math.Exp(float64(i) / 5) // monotonic, nonlinear
	}
	tbl := table.MustNew(table.NewNumeric("x", x, nil), table.NewNumeric("y", y, nil))

	res, err := NewEngine().Correlate(tbl, Request{Method: MethodSpearman})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	r, ok := res.Matrix.At(0, 1)
	if !ok || math.Abs(r-1) > 1e-9 {
		t.Errorf("spearman of monotonic data = %v, want 1", r)
	}
}

func TestPairwiseCompleteObservations(t *testing.T) {
	tbl := table.MustNew(
		table.NewNumeric("a", []float64{1, 2, 3, 4, 0}, []bool{false, false, false, false, true}),
		table.NewNumeric("b", []float64{2, 4, 6, 8, 10}, nil),
	)
	res, err := NewEngine().Correlate(tbl, Request{})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	r, ok := res.Matrix.At(0, 1)
	if !ok || math.Abs(r-1) > 1e-9 {
		t.Errorf("pairwise-complete correlation = %v (defined=%v), want 1", r, ok)
	}
}
