package ports

import "context"

// CorrelatedPair names two columns and their correlation coefficient.
type CorrelatedPair struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Correlation float64 `json:"correlation"`
}

// InsightRequest carries the dataset facts an insight generator reasons over.
type InsightRequest struct {
	DatasetName            string
	RowCount               int
	ColumnCount            int
	MissingRatio           float64
	DuplicateRows          int
	QualityScore           float64
	NumericColumns         []string
	CategoricalColumns     []string
	ConstantColumns        []string
	HighCardinalityColumns []string
	PotentialTargets       []string
	TopCorrelations        []CorrelatedPair
}

// Insight is one generated observation about a dataset.
type Insight struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// InsightSet is the full generator output attached to a report.
type InsightSet struct {
	Summary         string    `json:"summary"`
	Findings        []Insight `json:"findings"`
	Recommendations []string  `json:"recommendations"`
	Generator       string    `json:"generator"`
}

// InsightGenerator is the optional insight capability. It is resolved once
// at startup and injected; a generator whose Available returns false causes
// the ai_insights section to carry an availability notice instead of output.
type InsightGenerator interface {
	Available() bool
	Generate(ctx context.Context, req InsightRequest) (*InsightSet, error)
}
