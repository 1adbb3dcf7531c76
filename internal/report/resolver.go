// Package report turns a configuration into a section plan and assembles
// the full analysis document from the core engines.
package report

import "zyra/domain/analytics"

// Section identifiers. These are the top-level keys of the assembled
// document; a disabled section is omitted entirely, never null.
const (
	SectionDatasetInfo        = "dataset_info"
	SectionMissingAnalysis    = "missing_analysis"
	SectionColumnAnalysis     = "column_analysis"
	SectionStatisticalSummary = "statistical_summary"
	SectionCorrelationData    = "correlation_data"
	SectionModelRecs          = "model_recommendations"
	SectionPreprocessingRecs  = "preprocessing_recommendations"
	SectionVisualizations     = "visualizations"
	SectionAIInsights         = "ai_insights"
)

// Plan is the resolved shape of a report run: which sections to compute
// and the caps applied to the engine calls that feed them.
type Plan struct {
	Sections                map[string]bool
	IncludeAdvancedStats    bool
	MaxCorrelationPairs     int
	MaxModelRecommendations int
}

// Resolve maps a configuration onto a plan. column_analysis is always
// produced regardless of flags.
func Resolve(cfg analytics.Configuration) Plan {
	plan := Plan{
		Sections: map[string]bool{
			SectionDatasetInfo:        cfg.IncludeDatasetInfo,
			SectionMissingAnalysis:    cfg.IncludeMissingAnalysis,
			SectionColumnAnalysis:     true,
			SectionStatisticalSummary: cfg.IncludeStatisticalSummary,
			SectionCorrelationData:    cfg.IncludeCorrelationData,
			SectionModelRecs:          cfg.IncludeModelRecommendations,
			SectionPreprocessingRecs:  cfg.IncludePreprocessingRecs,
			SectionVisualizations:     cfg.IncludeVisualizations,
			SectionAIInsights:         cfg.IncludeAIInsights,
		},
		IncludeAdvancedStats:    cfg.IncludeAdvancedStats,
		MaxCorrelationPairs:     cfg.MaxCorrelationPairs,
		MaxModelRecommendations: cfg.MaxModelRecommendations,
	}
	if plan.MaxCorrelationPairs < 1 {
		plan.MaxCorrelationPairs = 10
	}
	if plan.MaxModelRecommendations < 1 {
		plan.MaxModelRecommendations = 5
	}
	return plan
}

// Includes reports whether a section should be computed at all.
func (p Plan) Includes(section string) bool {
	return p.Sections[section]
}
