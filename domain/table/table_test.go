package table

import (
	"math"
	"testing"
)

func TestNewRejectsMisalignedColumns(t *testing.T) {
	_, err := New(
		NewNumeric("a", []float64{1, 2, 3}, nil),
		NewNumeric("b", []float64{1, 2}, nil),
	)
	if err == nil {
		t.Fatal("expected error for misaligned columns")
	}
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewNumeric("a", []float64{1}, nil),
		NewCategorical("a", []string{"x"}, nil),
	)
	if err == nil {
		t.Fatal("expected error for duplicate column name")
	}
}

func TestMissingIsDistinctFromZero(t *testing.T) {
	col := NewNumeric("v", []float64{0, 5, 0}, []bool{false, false, true})

	if col.MissingCount() != 1 {
		t.Errorf("missing count = %d, want 1", col.MissingCount())
	}
	if col.IsMissing(0) {
		t.Error("present zero reported as missing")
	}
	if !math.IsNaN(col.Float(2)) {
		t.Error("missing cell should read as NaN")
	}
	if got := col.FloatValues(); len(got) != 2 || got[0] != 0 || got[1] != 5 {
		t.Errorf("FloatValues = %v, want [0 5]", got)
	}
}

func TestMissingCellCountSumsColumns(t *testing.T) {
	tbl := MustNew(
		NewNumeric("a", []float64{1, 0, 3}, []bool{false, true, false}),
		NewCategorical("b", []string{"", "y", ""}, []bool{true, false, true}),
	)
	if got := tbl.MissingCellCount(); got != 3 {
		t.Errorf("MissingCellCount = %d, want 3", got)
	}
}

func TestDuplicateRowCount(t *testing.T) {
	tbl := MustNew(
		NewNumeric("a", []float64{1, 1, 2, 1}, nil),
		NewCategorical("b", []string{"x", "x", "x", "x"}, nil),
	)
	if got := tbl.DuplicateRowCount(); got != 2 {
		t.Errorf("DuplicateRowCount = %d, want 2", got)
	}
}

func TestFilterRowsProducesNewTable(t *testing.T) {
	orig := MustNew(NewNumeric("a", []float64{1, 2, 3, 4}, nil))
	filtered := orig.FilterRows([]bool{true, false, true, false})

	if filtered.NumRows() != 2 {
		t.Fatalf("filtered rows = %d, want 2", filtered.NumRows())
	}
	if orig.NumRows() != 4 {
		t.Error("filter mutated the source table")
	}
	col, _ := filtered.Column("a")
	if col.Numbers[0] != 1 || col.Numbers[1] != 3 {
		t.Errorf("filtered values = %v, want [1 3]", col.Numbers)
	}
}

func TestBooleanColumnsReadAsNumeric(t *testing.T) {
	col := NewBoolean("flag", []bool{true, false, true}, nil)
	if !col.IsNumeric() {
		t.Fatal("boolean column should be numeric-compatible")
	}
	if col.Float(0) != 1 || col.Float(1) != 0 {
		t.Errorf("boolean floats = %v %v, want 1 0", col.Float(0), col.Float(1))
	}
}

func TestUniqueCountIgnoresMissing(t *testing.T) {
	col := NewCategorical("c", []string{"a", "b", "a", ""}, []bool{false, false, false, true})
	if got := col.UniqueCount(); got != 2 {
		t.Errorf("UniqueCount = %d, want 2", got)
	}
}
