// Package pipeline applies ordered declarative transformation steps to a
// table. Every requested step yields exactly one log entry; a failed step
// never mutates the table and never stops the run.
package pipeline

import (
	"fmt"

	"zyra/domain/table"
	"zyra/internal"
)

// Step statuses.
const (
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Recognized step types.
const (
	StepRemoveOutliers  = "remove_outliers"
	StepHandleMissing   = "handle_missing_values"
	StepEncode          = "encode_categorical"
	StepScale           = "scale_features"
	StepCreateFeatures  = "create_features"
	StepSelectFeatures  = "select_features"
	StepTransformSkewed = "transform_skewed"
)

// Step is one declarative transformation.
type Step struct {
	Type         string   `json:"type"`
	Method       string   `json:"method,omitempty"`
	Strategy     string   `json:"strategy,omitempty"`
	FeatureType  string   `json:"feature_type,omitempty"`
	Columns      []string `json:"columns,omitempty"`
	TargetColumn string   `json:"target_column,omitempty"`
}

// LogEntry records one executed step, in request order.
type LogEntry struct {
	Step    string                 `json:"step"`
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Outcome is the full pipeline result.
type Outcome struct {
	Table         *table.Table `json:"-"`
	Log           []LogEntry   `json:"transformation_log"`
	QualityScore  float64      `json:"quality_score"`
	OriginalShape [2]int       `json:"original_shape"`
	FinalShape    [2]int       `json:"final_shape"`
}

// Pipeline executes transformation specs.
type Pipeline struct {
	logger *internal.Logger
}

// New creates a pipeline with the default logger.
func New() *Pipeline {
	return &Pipeline{logger: internal.DefaultLogger}
}

type stepFunc func(*table.Table, Step) (*table.Table, map[string]interface{}, error)

// Apply runs each step independently and in order. A failing step is
// recorded and execution continues from the last successful state.
func (p *Pipeline) Apply(t *table.Table, steps []Step) *Outcome {
	out := &Outcome{
		Table:         t,
		OriginalShape: [2]int{t.NumRows(), t.NumCols()},
	}

	handlers := map[string]stepFunc{
		StepRemoveOutliers:  removeOutliersStep,
		StepHandleMissing:   handleMissingStep,
		StepEncode:          encodeCategoricalStep,
		StepScale:           scaleFeaturesStep,
		StepCreateFeatures:  createFeaturesStep,
		StepSelectFeatures:  selectFeaturesStep,
		StepTransformSkewed: transformSkewedStep,
	}

	for _, step := range steps {
		handler, known := handlers[step.Type]
		if !known {
			// Unknown steps are forward-compatibility, not failure.
			out.Log = append(out.Log, LogEntry{
				Step:    step.Type,
				Status:  StatusSkipped,
				Details: map[string]interface{}{"reason": "unknown step type"},
			})
			continue
		}

		next, details, err := handler(out.Table, step)
		if err != nil {
			p.logger.Warn("[Pipeline] step %s failed: %v", step.Type, err)
			out.Log = append(out.Log, LogEntry{
				Step:   step.Type,
				Status: StatusFailed,
				Error:  err.Error(),
			})
			continue
		}
		out.Table = next
		out.Log = append(out.Log, LogEntry{
			Step:    step.Type,
			Status:  StatusCompleted,
			Details: details,
		})
	}

	out.FinalShape = [2]int{out.Table.NumRows(), out.Table.NumCols()}
	out.QualityScore = QualityScore(out.Table)
	return out
}

// resolveColumns maps a step's column selection onto existing columns,
// defaulting to every column passing the filter. Naming a missing column
// is a step error.
func resolveColumns(t *table.Table, names []string, filter func(table.Column) bool) ([]table.Column, error) {
	if len(names) == 0 {
		var out []table.Column
		for _, c := range t.Columns() {
			if filter == nil || filter(c) {
				out = append(out, c)
			}
		}
		return out, nil
	}
	var out []table.Column
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q not found", name)
		}
		if filter == nil || filter(c) {
			out = append(out, c)
		}
	}
	return out, nil
}
