// Package analytics defines the user-facing analysis configuration: which
// report sections are produced and how large the capped lists may grow.
package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Configuration is a named, versioned set of section toggles and caps.
// A user owns many configurations with at most one marked default.
type Configuration struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsDefault   bool      `db:"is_default" json:"is_default"`
	Version     int       `db:"version" json:"version"`

	IncludeDatasetInfo           bool `db:"include_dataset_info" json:"include_dataset_info"`
	IncludeMissingAnalysis       bool `db:"include_missing_analysis" json:"include_missing_analysis"`
	IncludeCorrelationData       bool `db:"include_correlation_data" json:"include_correlation_data"`
	IncludeStatisticalSummary    bool `db:"include_statistical_summary" json:"include_statistical_summary"`
	IncludeModelRecommendations  bool `db:"include_model_recommendations" json:"include_model_recommendations"`
	IncludePreprocessingRecs     bool `db:"include_preprocessing_recs" json:"include_preprocessing_recommendations"`
	IncludeAIInsights            bool `db:"include_ai_insights" json:"include_ai_insights"`
	IncludeVisualizations        bool `db:"include_visualizations" json:"include_visualizations"`
	IncludeAdvancedStats         bool `db:"include_advanced_stats" json:"include_advanced_stats"`

	MaxCorrelationPairs     int `db:"max_correlation_pairs" json:"max_correlation_pairs"`
	MaxModelRecommendations int `db:"max_model_recommendations" json:"max_model_recommendations"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Validate enforces the cap ranges shared by every configuration source.
func (c Configuration) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("configuration name is required")
	}
	if c.MaxCorrelationPairs < 1 || c.MaxCorrelationPairs > 50 {
		return fmt.Errorf("max_correlation_pairs must be in [1, 50], got %d", c.MaxCorrelationPairs)
	}
	if c.MaxModelRecommendations < 1 || c.MaxModelRecommendations > 20 {
		return fmt.Errorf("max_model_recommendations must be in [1, 20], got %d", c.MaxModelRecommendations)
	}
	return nil
}

// Preset identifiers.
const (
	PresetQuick         = "quick"
	PresetComprehensive = "comprehensive"
	PresetMinimal       = "minimal"
)

// Default returns the configuration used when a user has none stored.
func Default() Configuration {
	return Configuration{
		Name:                        "default",
		IncludeDatasetInfo:          true,
		IncludeMissingAnalysis:      true,
		IncludeCorrelationData:      true,
		IncludeStatisticalSummary:   true,
		IncludeModelRecommendations: true,
		IncludePreprocessingRecs:    true,
		IncludeAIInsights:           true,
		IncludeVisualizations:       true,
		MaxCorrelationPairs:         10,
		MaxModelRecommendations:     5,
	}
}

// Preset returns one of the three fixed templates. The values are constants
// a user instantiates into an owned configuration; they never mutate.
func Preset(name string) (Configuration, error) {
	switch name {
	case PresetQuick:
		return Configuration{
			Name:                        PresetQuick,
			Description:                 "Fast overview with key statistics",
			IncludeDatasetInfo:          true,
			IncludeMissingAnalysis:      true,
			IncludeStatisticalSummary:   true,
			IncludeModelRecommendations: true,
			IncludeAIInsights:           true,
			MaxCorrelationPairs:         5,
			MaxModelRecommendations:     3,
		}, nil
	case PresetComprehensive:
		return Configuration{
			Name:                        PresetComprehensive,
			Description:                 "Every section with advanced statistics",
			IncludeDatasetInfo:          true,
			IncludeMissingAnalysis:      true,
			IncludeCorrelationData:      true,
			IncludeStatisticalSummary:   true,
			IncludeModelRecommendations: true,
			IncludePreprocessingRecs:    true,
			IncludeAIInsights:           true,
			IncludeVisualizations:       true,
			IncludeAdvancedStats:        true,
			MaxCorrelationPairs:         15,
			MaxModelRecommendations:     8,
		}, nil
	case PresetMinimal:
		return Configuration{
			Name:                        PresetMinimal,
			Description:                 "Dataset overview and model suggestions only",
			IncludeDatasetInfo:          true,
			IncludeModelRecommendations: true,
			MaxCorrelationPairs:         3,
			MaxModelRecommendations:     2,
		}, nil
	default:
		return Configuration{}, fmt.Errorf("unknown preset %q", name)
	}
}

// PresetNames lists the available presets in display order.
func PresetNames() []string {
	return []string{PresetQuick, PresetComprehensive, PresetMinimal}
}
