package stattest

import (
	"math"
	"testing"

	"zyra/domain/table"
)

func TestNormalityAcceptsGaussianSample(t *testing.T) {
	values := normalSamples(7, 500, 0, 1)
	tbl := table.MustNew(table.NewNumeric("n", values, nil))

	res, err := NewEngine().Run(tbl, Request{TestType: TestNormality, Columns: []string{"n"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	col := res.Normality.Columns[0]
	if col.DAgostino == nil || col.ShapiroWilk == nil {
		t.Fatal("both sub-tests should run for n=500")
	}
	if !col.Normal {
		t.Errorf("gaussian sample rejected: K2 p=%v, SW p=%v",
			col.DAgostino.PValue, col.ShapiroWilk.PValue)
	}
}

func TestNormalityRejectsExponentialSample(t *testing.T) {
	seed := uint64(99)
	values := make([]float64, 400)
	for i := range values {
		values[i] = math.Exp(randNorm(&seed) * 1.5)
	}
	tbl := table.MustNew(table.NewNumeric("e", values, nil))

	res, err := NewEngine().Run(tbl, Request{TestType: TestNormality, Columns: []string{"e"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	col := res.Normality.Columns[0]
	if col.Normal {
		t.Error("lognormal sample should fail normality")
	}
	if col.Skewness <= 0 {
		t.Errorf("skewness = %v, want positive", col.Skewness)
	}
}

func TestShapiroWilkSkippedAboveCeiling(t *testing.T) {
	values := normalSamples(3, shapiroCeilingN+1, 0, 1)
	tbl := table.MustNew(table.NewNumeric("big", values, nil))

	res, err := NewEngine().Run(tbl, Request{TestType: TestNormality, Columns: []string{"big"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	col := res.Normality.Columns[0]
	if col.ShapiroWilk != nil {
		t.Error("shapiro-wilk must be inapplicable above the sample-size ceiling")
	}
	if col.DAgostino == nil {
		t.Error("d'agostino must still run above the ceiling")
	}
}

func TestNormalityTinySampleInapplicable(t *testing.T) {
	tbl := table.MustNew(table.NewNumeric("tiny", []float64{1, 2, 3}, nil))
	res, err := NewEngine().Run(tbl, Request{TestType: TestNormality, Columns: []string{"tiny"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	col := res.Normality.Columns[0]
	if col.Inapplicable == "" {
		t.Error("n=3 should be reported inapplicable, not errored")
	}
}

func TestShapiroWilkDirectOnUniformData(t *testing.T) {
	// A coarse uniform grid is decisively non-normal at n=100.
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i % 10)
	}
	w, p, ok := shapiroWilk(values)
	if !ok {
		t.Fatal("shapiro-wilk should run")
	}
	if w <= 0 || w > 1 {
		t.Errorf("W = %v, want in (0, 1]", w)
	}
	if p > 0.05 {
		t.Errorf("p = %v, want rejection of the uniform grid", p)
	}
}

func TestDagostinoZeroVariance(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 4
	}
	if _, _, ok := dagostinoK2(values); ok {
		t.Error("zero-variance sample should be unassessable, not a panic")
	}
}
