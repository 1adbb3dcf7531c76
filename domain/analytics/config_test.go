package analytics

import "testing"

func TestPresetLiterals(t *testing.T) {
	quick, err := Preset(PresetQuick)
	if err != nil {
		t.Fatalf("quick preset: %v", err)
	}
	if !quick.IncludeDatasetInfo || !quick.IncludeMissingAnalysis {
		t.Error("quick should include overview and missing analysis")
	}
	if quick.IncludeCorrelationData || quick.IncludePreprocessingRecs || quick.IncludeVisualizations {
		t.Error("quick should exclude correlation, preprocessing and visualizations")
	}
	if quick.MaxCorrelationPairs != 5 || quick.MaxModelRecommendations != 3 {
		t.Errorf("quick caps = %d/%d, want 5/3", quick.MaxCorrelationPairs, quick.MaxModelRecommendations)
	}

	comp, err := Preset(PresetComprehensive)
	if err != nil {
		t.Fatalf("comprehensive preset: %v", err)
	}
	if !comp.IncludeAdvancedStats || !comp.IncludeVisualizations || !comp.IncludeCorrelationData {
		t.Error("comprehensive should enable every section and advanced stats")
	}
	if comp.MaxCorrelationPairs != 15 || comp.MaxModelRecommendations != 8 {
		t.Errorf("comprehensive caps = %d/%d, want 15/8", comp.MaxCorrelationPairs, comp.MaxModelRecommendations)
	}

	min, err := Preset(PresetMinimal)
	if err != nil {
		t.Fatalf("minimal preset: %v", err)
	}
	if !min.IncludeDatasetInfo || !min.IncludeModelRecommendations {
		t.Error("minimal should keep overview and model recommendations")
	}
	if min.IncludeMissingAnalysis || min.IncludeStatisticalSummary || min.IncludeAIInsights {
		t.Error("minimal should disable every other section")
	}
	if min.MaxCorrelationPairs != 3 || min.MaxModelRecommendations != 2 {
		t.Errorf("minimal caps = %d/%d, want 3/2", min.MaxCorrelationPairs, min.MaxModelRecommendations)
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("turbo"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestValidateCapRanges(t *testing.T) {
	cfg := Default()
	cfg.MaxCorrelationPairs = 51
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max_correlation_pairs above range")
	}
	cfg = Default()
	cfg.MaxModelRecommendations = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max_model_recommendations below range")
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}
