package app

import (
	"context"
	"fmt"
	"math"

	"zyra/adapters/tabular"
	"zyra/internal"
	"zyra/internal/correlate"
	"zyra/internal/pipeline"
	"zyra/internal/profiling"
	"zyra/internal/stattest"
	"zyra/internal/timeseries"
	"zyra/ports"
)

// AnalysisService runs exploratory and statistical analysis on stored
// datasets.
type AnalysisService struct {
	datasets   *datasetResolver
	profiler   *profiling.Profiler
	correlater *correlate.Engine
	tests      *stattest.Engine
	series     *timeseries.Engine
	logger     *internal.Logger
}

// NewAnalysisService wires the analysis engines to the object store.
func NewAnalysisService(store ports.ObjectStore, loader *tabular.Loader) *AnalysisService {
	return &AnalysisService{
		datasets:   &datasetResolver{store: store, loader: loader},
		profiler:   profiling.NewProfiler(),
		correlater: correlate.NewEngine(),
		tests:      stattest.NewEngine(),
		series:     timeseries.NewEngine(),
		logger:     internal.DefaultLogger,
	}
}

// EDARequest selects a dataset and correlation options.
type EDARequest struct {
	Dataset  DatasetRef       `json:"dataset"`
	Method   correlate.Method `json:"correlation_method,omitempty"`
	Target   string           `json:"target_column,omitempty"`
	MaxPairs int              `json:"max_correlation_pairs,omitempty"`
}

// EDAResult is the exploratory summary of one dataset.
type EDAResult struct {
	Shape        [2]int             `json:"shape"`
	Profile      *profiling.Profile `json:"profile"`
	Correlation  *correlate.Result  `json:"correlation,omitempty"`
	QualityScore float64            `json:"quality_score"`
}

// EDA profiles the dataset and, when it has two or more numeric columns,
// adds correlation analysis.
func (s *AnalysisService) EDA(ctx context.Context, req EDARequest) (*EDAResult, error) {
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}

	result := &EDAResult{
		Shape:        [2]int{t.NumRows(), t.NumCols()},
		Profile:      s.profiler.Profile(t),
		QualityScore: pipeline.QualityScore(t),
	}

	if len(t.NumericColumns()) >= 2 {
		maxPairs := req.MaxPairs
		if maxPairs <= 0 {
			maxPairs = 10
		}
		corr, err := s.correlater.Correlate(t, correlate.Request{
			Method:   req.Method,
			Target:   req.Target,
			MaxPairs: maxPairs,
		})
		if err != nil {
			return nil, err
		}
		result.Correlation = corr
	}
	return result, nil
}

// ColumnStatistics pairs descriptive statistics with a normality snapshot.
type ColumnStatistics struct {
	Column    string                    `json:"column"`
	Summary   *profiling.NumericSummary `json:"summary"`
	Normality *stattest.ColumnNormality `json:"normality,omitempty"`
}

// StatisticsResult lists per-numeric-column statistics.
type StatisticsResult struct {
	Columns []ColumnStatistics `json:"columns"`
}

// Statistics computes descriptive statistics and normality for every
// numeric column of the dataset.
func (s *AnalysisService) Statistics(ctx context.Context, ref DatasetRef) (*StatisticsResult, error) {
	t, err := s.datasets.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	profile := s.profiler.Profile(t)
	byName := make(map[string]*stattest.ColumnNormality)
	if names := profile.Summary.NumericColumns; len(names) > 0 {
		res, err := s.tests.Run(t, stattest.Request{
			TestType: stattest.TestNormality,
			Columns:  names,
		})
		if err != nil {
			return nil, err
		}
		for i := range res.Normality.Columns {
			cn := &res.Normality.Columns[i]
			byName[cn.Column] = cn
		}
	}

	out := &StatisticsResult{}
	for _, cp := range profile.Columns {
		if cp.Numeric == nil {
			continue
		}
		out.Columns = append(out.Columns, ColumnStatistics{
			Column:    cp.Name,
			Summary:   cp.Numeric,
			Normality: byName[cp.Name],
		})
	}
	return out, nil
}

// TestRequest selects a dataset and a statistical test to run on it.
type TestRequest struct {
	Dataset DatasetRef       `json:"dataset"`
	Test    stattest.Request `json:"test"`
}

// RunTest executes one statistical test against the dataset.
func (s *AnalysisService) RunTest(ctx context.Context, req TestRequest) (*stattest.Result, error) {
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	return s.tests.Run(t, req.Test)
}

// ABTest evaluates a conversion experiment. It needs no dataset; the
// counts come straight from the request.
func (s *AnalysisService) ABTest(req stattest.ABRequest) (*stattest.ABResult, error) {
	return stattest.ABTest(req)
}

// DecomposeRequest selects a dataset and the series columns.
type DecomposeRequest struct {
	Dataset DatasetRef         `json:"dataset"`
	Series  timeseries.Request `json:"series"`
}

// Decompose runs seasonal decomposition plus stationarity analysis.
func (s *AnalysisService) Decompose(ctx context.Context, req DecomposeRequest) (*timeseries.Decomposition, error) {
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	return s.series.Decompose(t, req.Series)
}

// Suggestion is one proposed feature-engineering step.
type Suggestion struct {
	Step    string   `json:"step"`
	Method  string   `json:"method,omitempty"`
	Columns []string `json:"columns"`
	Reason  string   `json:"reason"`
}

// Suggestions proposes pipeline steps from the dataset profile: encoding
// for categorical columns, scaling for wide numeric ranges, and a log
// transform for strongly skewed columns.
func (s *AnalysisService) Suggestions(ctx context.Context, ref DatasetRef) ([]Suggestion, error) {
	t, err := s.datasets.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	profile := s.profiler.Profile(t)

	var encode, scale, transform, missing []string
	for _, cp := range profile.Columns {
		if cp.MissingCount > 0 {
			missing = append(missing, cp.Name)
		}
		if cp.Categorical != nil && !cp.IsConstant {
			if cp.IsHighCardinality {
				continue // one-hot would explode; left for manual review
			}
			encode = append(encode, cp.Name)
		}
		if cp.Numeric == nil {
			continue
		}
		if cp.Numeric.Max-cp.Numeric.Min > 1000 {
			scale = append(scale, cp.Name)
		}
		if math.Abs(cp.Numeric.Skewness) > 1 {
			transform = append(transform, cp.Name)
		}
	}

	var out []Suggestion
	if len(missing) > 0 {
		out = append(out, Suggestion{
			Step:    pipeline.StepHandleMissing,
			Method:  "median",
			Columns: missing,
			Reason:  "columns contain missing values",
		})
	}
	if len(encode) > 0 {
		out = append(out, Suggestion{
			Step:    pipeline.StepEncode,
			Method:  "onehot",
			Columns: encode,
			Reason:  "categorical columns need numeric encoding",
		})
	}
	if len(scale) > 0 {
		out = append(out, Suggestion{
			Step:    pipeline.StepScale,
			Method:  "standard",
			Columns: scale,
			Reason:  fmt.Sprintf("value spans exceed %d units", 1000),
		})
	}
	if len(transform) > 0 {
		out = append(out, Suggestion{
			Step:    pipeline.StepTransformSkewed,
			Method:  "log",
			Columns: transform,
			Reason:  "absolute skewness exceeds 1",
		})
	}
	return out, nil
}
