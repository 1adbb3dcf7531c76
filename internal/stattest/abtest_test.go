package stattest

import (
	"math"
	"strings"
	"testing"
)

func TestABTestReferenceScenario(t *testing.T) {
	res, err := ABTest(ABRequest{
		ControlConversions:   50,
		ControlVisitors:      1000,
		TreatmentConversions: 70,
		TreatmentVisitors:    1000,
		Alpha:                0.05,
	})
	if err != nil {
		t.Fatalf("abtest: %v", err)
	}

	if math.Abs(res.ControlRate-0.05) > 1e-12 {
		t.Errorf("control rate = %v, want 0.05", res.ControlRate)
	}
	if math.Abs(res.TreatmentRate-0.07) > 1e-12 {
		t.Errorf("treatment rate = %v, want 0.07", res.TreatmentRate)
	}
	if math.Abs(res.Difference-0.02) > 1e-12 {
		t.Errorf("difference = %v, want 0.02", res.Difference)
	}
	if math.Abs(res.RelativeLift-40) > 1e-9 {
		t.Errorf("relative lift = %v%%, want 40%%", res.RelativeLift)
	}
	if res.PValue <= 0 || res.PValue >= 1 {
		t.Errorf("p = %v, want in (0, 1)", res.PValue)
	}
	if res.Significant != (res.PValue < 0.05) {
		t.Error("significance flag must equal p < alpha")
	}
	if res.ConfidenceInterval[0] >= res.ConfidenceInterval[1] {
		t.Error("confidence interval bounds out of order")
	}
	if res.RequiredSamplePerGroup < 10 {
		t.Errorf("required sample = %d, want >= 10", res.RequiredSamplePerGroup)
	}
	if len(res.Recommendations) == 0 {
		t.Error("recommendations missing")
	}
}

func TestABTestZeroVisitors(t *testing.T) {
	res, err := ABTest(ABRequest{
		ControlConversions:   0,
		ControlVisitors:      0,
		TreatmentConversions: 0,
		TreatmentVisitors:    0,
	})
	if err != nil {
		t.Fatalf("zero visitors must not be a division error: %v", err)
	}
	if res.ControlRate != 0 || res.TreatmentRate != 0 {
		t.Errorf("rates = %v/%v, want 0/0", res.ControlRate, res.TreatmentRate)
	}
	if res.ZScore != 0 {
		t.Errorf("z = %v, want 0", res.ZScore)
	}
	if res.Significant {
		t.Error("empty test must not be significant")
	}
}

func TestABTestZeroPooledVariance(t *testing.T) {
	// Both groups convert fully: pooled p = 1 and the SE collapses.
	res, err := ABTest(ABRequest{
		ControlConversions:   100,
		ControlVisitors:      100,
		TreatmentConversions: 100,
		TreatmentVisitors:    100,
	})
	if err != nil {
		t.Fatalf("abtest: %v", err)
	}
	if res.ZScore != 0 {
		t.Errorf("z = %v, want 0 for zero pooled variance", res.ZScore)
	}
	if res.PValue != 1 {
		t.Errorf("p = %v, want 1", res.PValue)
	}
}

func TestABTestRejectsImpossibleCounts(t *testing.T) {
	if _, err := ABTest(ABRequest{ControlConversions: 5, ControlVisitors: 3}); err == nil {
		t.Fatal("expected error when conversions exceed visitors")
	}
	if _, err := ABTest(ABRequest{ControlConversions: -1, ControlVisitors: 10}); err == nil {
		t.Fatal("expected error for negative counts")
	}
}

func TestABTestUnderpoweredRecommendsMoreData(t *testing.T) {
	res, err := ABTest(ABRequest{
		ControlConversions:   5,
		ControlVisitors:      100,
		TreatmentConversions: 7,
		TreatmentVisitors:    100,
	})
	if err != nil {
		t.Fatalf("abtest: %v", err)
	}
	if res.Significant {
		t.Error("small sample with small lift should not be significant")
	}
	if res.AchievedPower >= 0.8 {
		t.Errorf("power = %v, want underpowered", res.AchievedPower)
	}
	found := false
	for _, r := range res.Recommendations {
		if strings.Contains(r, "underpowered") {
			found = true
		}
	}
	if !found {
		t.Error("expected an underpowered recommendation")
	}
}
