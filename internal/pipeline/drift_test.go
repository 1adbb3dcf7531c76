package pipeline

import (
	"testing"

	"zyra/domain/table"
)

func TestDetectSchemaChanges(t *testing.T) {
	baseline := table.MustNew(
		table.NewNumeric("x", []float64{1, 2, 3}, nil),
		table.NewNumeric("gone", []float64{7, 8, 9}, nil),
		table.NewNumeric("retyped", []float64{1, 2, 3}, nil),
	)
	current := table.MustNew(
		table.NewNumeric("x", []float64{1, 2, 3}, nil),
		table.NewCategorical("retyped", []string{"a", "b", "c"}, nil),
		table.NewNumeric("y", []float64{4, 5, 6}, nil),
	)

	report := NewDriftDetector().Detect(baseline, current)

	if len(report.AddedColumns) != 1 || report.AddedColumns[0] != "y" {
		t.Errorf("expected added columns [y], got %v", report.AddedColumns)
	}
	if len(report.RemovedColumns) != 1 || report.RemovedColumns[0] != "gone" {
		t.Errorf("expected removed columns [gone], got %v", report.RemovedColumns)
	}
	if report.TypeChanges["retyped"] == "" {
		t.Errorf("expected a type change for retyped, got %v", report.TypeChanges)
	}
	if report.Severity != DriftSeverityHigh {
		t.Errorf("removed columns and type changes should be high severity, got %s", report.Severity)
	}
}

func TestDetectNumericDistributionShift(t *testing.T) {
	n := 200
	base := make([]float64, n)
	shifted := make([]float64, n)
	for i := 0; i < n; i++ {
		base[i] = float64(i % 20)
		shifted[i] = float64(i%20) + 50
	}
	baseline := table.MustNew(table.NewNumeric("x", base, nil))
	current := table.MustNew(table.NewNumeric("x", shifted, nil))

	report := NewDriftDetector().Detect(baseline, current)

	if len(report.ColumnDrift) != 1 {
		t.Fatalf("expected one compared column, got %d", len(report.ColumnDrift))
	}
	cd := report.ColumnDrift[0]
	if cd.Test != "kolmogorov_smirnov" {
		t.Errorf("expected KS test for numeric columns, got %s", cd.Test)
	}
	if !cd.Drifted {
		t.Error("a 50-unit shift should register as drift")
	}
	if report.DriftScore < 0.9 {
		t.Errorf("expected drift score near 1, got %v", report.DriftScore)
	}
	if report.Severity != DriftSeverityHigh {
		t.Errorf("expected high severity when every column drifts, got %s", report.Severity)
	}
}

func TestDetectNoDriftOnIdenticalData(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	baseline := table.MustNew(table.NewNumeric("x", values, nil))
	current := table.MustNew(table.NewNumeric("x", values, nil))

	report := NewDriftDetector().Detect(baseline, current)

	if report.ColumnDrift[0].Drifted {
		t.Error("identical samples should not drift")
	}
	if report.Severity != DriftSeverityNone {
		t.Errorf("expected no severity, got %s", report.Severity)
	}
}

func TestDetectCategoricalDrift(t *testing.T) {
	base := make([]string, 100)
	cur := make([]string, 100)
	for i := range base {
		if i < 50 {
			base[i] = "a"
		} else {
			base[i] = "b"
		}
		if i < 90 {
			cur[i] = "a"
		} else {
			cur[i] = "b"
		}
	}
	baseline := table.MustNew(table.NewCategorical("c", base, nil))
	current := table.MustNew(table.NewCategorical("c", cur, nil))

	report := NewDriftDetector().Detect(baseline, current)

	cd := report.ColumnDrift[0]
	if cd.Test != "chi_square" {
		t.Errorf("expected chi-square test for categorical columns, got %s", cd.Test)
	}
	if !cd.Drifted {
		t.Error("a 50/50 to 90/10 shift should register as drift")
	}
}

func TestDetectUnseenCategoryIsDefiniteDrift(t *testing.T) {
	baseline := table.MustNew(table.NewCategorical("c", []string{"a", "a", "b", "b"}, nil))
	current := table.MustNew(table.NewCategorical("c", []string{"a", "b", "z", "z"}, nil))

	report := NewDriftDetector().Detect(baseline, current)

	cd := report.ColumnDrift[0]
	if cd.PValue != 0 {
		t.Errorf("a category the baseline never produced should give p=0, got %v", cd.PValue)
	}
	if !cd.Drifted {
		t.Error("unseen category must count as drift")
	}
}
