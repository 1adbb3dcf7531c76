package report

import (
	"fmt"
	"math"
	"sort"

	"zyra/domain/table"
	"zyra/internal/profiling"
)

// ModelRecommendation scores one model family for the inferred task.
type ModelRecommendation struct {
	Model       string  `json:"model"`
	Task        string  `json:"task"`
	Suitability float64 `json:"suitability"`
	Reason      string  `json:"reason"`
}

// PreprocessingRecommendation is one suggested preparation step.
type PreprocessingRecommendation struct {
	Step     string   `json:"step"`
	Columns  []string `json:"columns,omitempty"`
	Priority string   `json:"priority"`
	Reason   string   `json:"reason"`
}

const (
	taskClassification = "classification"
	taskRegression     = "regression"
	taskClustering     = "clustering"
)

// inferTask guesses the modeling task from the best target candidate.
// Low-cardinality targets suggest classification, numeric non-candidate
// data suggests regression, and with no plausible target the dataset is
// treated as unsupervised.
func inferTask(profile *profiling.Profile) (task, target string) {
	var best *profiling.ColumnProfile
	for i := range profile.Columns {
		cp := &profile.Columns[i]
		if !cp.IsPotentialTarget {
			continue
		}
		if best == nil || cp.UniqueCount < best.UniqueCount {
			best = cp
		}
	}
	if best != nil {
		return taskClassification, best.Name
	}
	if len(profile.Summary.NumericColumns) > 0 {
		return taskRegression, ""
	}
	return taskClustering, ""
}

// modelRecommendations ranks model families for the inferred task. Scores
// are heuristic and adjusted for dataset size and dimensionality.
func modelRecommendations(profile *profiling.Profile, max int) []ModelRecommendation {
	task, target := inferTask(profile)
	rows := profile.Summary.Rows
	cols := profile.Summary.Columns

	type scored struct {
		model  string
		score  float64
		reason string
	}
	var candidates []scored

	switch task {
	case taskClassification:
		candidates = []scored{
			{"random_forest_classifier", 0.9, "robust baseline for mixed feature types"},
			{"gradient_boosting_classifier", 0.85, "strong accuracy on tabular data"},
			{"logistic_regression", 0.75, "interpretable linear baseline"},
			{"svm_classifier", 0.6, "effective on smaller, well-scaled data"},
			{"knn_classifier", 0.5, "simple non-parametric baseline"},
		}
	case taskRegression:
		candidates = []scored{
			{"random_forest_regressor", 0.9, "robust baseline for mixed feature types"},
			{"gradient_boosting_regressor", 0.85, "strong accuracy on tabular data"},
			{"linear_regression", 0.75, "interpretable linear baseline"},
			{"ridge_regression", 0.7, "linear baseline stable under collinearity"},
			{"svm_regressor", 0.55, "effective on smaller, well-scaled data"},
		}
	default:
		candidates = []scored{
			{"kmeans", 0.85, "fast centroid clustering for numeric features"},
			{"dbscan", 0.7, "density clustering without a preset cluster count"},
			{"hierarchical_clustering", 0.6, "dendrogram view of cluster structure"},
		}
	}

	for i := range candidates {
		c := &candidates[i]
		// Linear and distance-based models suffer on tiny samples; tree
		// ensembles suffer less but overfit wide data.
		if rows < 100 {
			c.score -= 0.1
		}
		if cols > 50 && (c.model == "knn_classifier" || c.model == "svm_classifier" || c.model == "svm_regressor") {
			c.score -= 0.15
		}
		c.score = math.Max(0.1, math.Min(1, c.score))
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > max {
		candidates = candidates[:max]
	}

	recs := make([]ModelRecommendation, 0, len(candidates))
	for _, c := range candidates {
		reason := c.reason
		if target != "" {
			reason = fmt.Sprintf("%s (target: %s)", c.reason, target)
		}
		recs = append(recs, ModelRecommendation{
			Model:       c.model,
			Task:        task,
			Suitability: c.score,
			Reason:      reason,
		})
	}
	return recs
}

const (
	highMissingRatio = 0.05
	wideRangeSpan    = 1000.0
	skewThreshold    = 1.0
)

// preprocessingRecommendations derives preparation steps from the profile.
func preprocessingRecommendations(profile *profiling.Profile) []PreprocessingRecommendation {
	var recs []PreprocessingRecommendation

	var missing, wide, skewed, encode []string
	for _, cp := range profile.Columns {
		if cp.MissingRatio > highMissingRatio {
			missing = append(missing, cp.Name)
		}
		if cp.Numeric != nil {
			if cp.Numeric.Max-cp.Numeric.Min > wideRangeSpan {
				wide = append(wide, cp.Name)
			}
			if math.Abs(cp.Numeric.Skewness) > skewThreshold {
				skewed = append(skewed, cp.Name)
			}
		}
		if cp.Kind == table.KindCategorical && !cp.IsHighCardinality && !cp.IsConstant {
			encode = append(encode, cp.Name)
		}
	}

	if len(missing) > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "handle_missing_values",
			Columns:  missing,
			Priority: "high",
			Reason:   "columns exceed 5% missing values",
		})
	}
	if profile.Summary.DuplicateRows > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "drop_duplicates",
			Priority: "high",
			Reason:   fmt.Sprintf("%d duplicate rows found", profile.Summary.DuplicateRows),
		})
	}
	if len(profile.Summary.ConstantColumns) > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "drop_constant_columns",
			Columns:  profile.Summary.ConstantColumns,
			Priority: "medium",
			Reason:   "constant columns carry no signal",
		})
	}
	if len(encode) > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "encode_categorical",
			Columns:  encode,
			Priority: "medium",
			Reason:   "categorical columns need numeric encoding for most models",
		})
	}
	if len(profile.Summary.HighCardinality) > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "reduce_cardinality",
			Columns:  profile.Summary.HighCardinality,
			Priority: "medium",
			Reason:   "high-cardinality columns explode one-hot dimensionality",
		})
	}
	if len(wide) > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "scale_features",
			Columns:  wide,
			Priority: "low",
			Reason:   "value ranges differ by orders of magnitude",
		})
	}
	if len(skewed) > 0 {
		recs = append(recs, PreprocessingRecommendation{
			Step:     "transform_skewed",
			Columns:  skewed,
			Priority: "low",
			Reason:   "strong skew distorts distance and linear models",
		})
	}
	return recs
}
