package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"zyra/adapters/tabular"
	"zyra/domain/table"
	"zyra/internal"
	apperrors "zyra/internal/errors"
	"zyra/internal/pipeline"
	"zyra/ports"
)

// ProcessingService cleans and transforms stored datasets and detects
// outliers and drift.
type ProcessingService struct {
	datasets *datasetResolver
	store    ports.ObjectStore
	writer   *tabular.Writer
	pipe     *pipeline.Pipeline
	drift    *pipeline.DriftDetector
	logger   *internal.Logger
}

// NewProcessingService wires the transformation pipeline to storage.
func NewProcessingService(store ports.ObjectStore, loader *tabular.Loader) *ProcessingService {
	return &ProcessingService{
		datasets: &datasetResolver{store: store, loader: loader},
		store:    store,
		writer:   tabular.NewWriter(),
		pipe:     pipeline.New(),
		drift:    pipeline.NewDriftDetector(),
		logger:   internal.DefaultLogger,
	}
}

// TransformRequest applies pipeline steps to a dataset, optionally
// persisting the transformed table.
type TransformRequest struct {
	Dataset         DatasetRef      `json:"dataset"`
	Transformations []pipeline.Step `json:"transformations"`
	Output          *DatasetRef     `json:"output,omitempty"`
}

// TransformResult reports the pipeline outcome and where the transformed
// table was stored, when an output was requested.
type TransformResult struct {
	OriginalShape [2]int              `json:"original_shape"`
	FinalShape    [2]int              `json:"final_shape"`
	Log           []pipeline.LogEntry `json:"transformation_log"`
	QualityScore  float64             `json:"quality_score"`
	OutputPath    string              `json:"output_path,omitempty"`
}

// Transform runs the transformation pipeline against the dataset.
func (s *ProcessingService) Transform(ctx context.Context, req TransformRequest) (*TransformResult, error) {
	if len(req.Transformations) == 0 {
		return nil, apperrors.InvalidInput("at least one transformation step is required")
	}
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}

	outcome := s.pipe.Apply(t, req.Transformations)
	result := &TransformResult{
		OriginalShape: outcome.OriginalShape,
		FinalShape:    outcome.FinalShape,
		Log:           outcome.Log,
		QualityScore:  outcome.QualityScore,
	}

	if req.Output != nil {
		path, err := s.persist(ctx, outcome.Table, *req.Output)
		if err != nil {
			return nil, err
		}
		result.OutputPath = path
	}
	return result, nil
}

// CleanRequest selects basic cleaning operations.
type CleanRequest struct {
	Dataset         DatasetRef  `json:"dataset"`
	DropDuplicates  bool        `json:"drop_duplicates"`
	MissingStrategy string      `json:"missing_strategy,omitempty"` // drop | mean | median | mode
	Output          *DatasetRef `json:"output,omitempty"`
}

// CleanResult reports what cleaning changed.
type CleanResult struct {
	OriginalShape [2]int   `json:"original_shape"`
	FinalShape    [2]int   `json:"final_shape"`
	Changes       []string `json:"changes"`
	QualityScore  float64  `json:"quality_score"`
	OutputPath    string   `json:"output_path,omitempty"`
}

// Clean removes duplicate rows and resolves missing values, then stores
// the cleaned table when an output is requested.
func (s *ProcessingService) Clean(ctx context.Context, req CleanRequest) (*CleanResult, error) {
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}

	result := &CleanResult{OriginalShape: [2]int{t.NumRows(), t.NumCols()}}

	if req.DropDuplicates {
		before := t.NumRows()
		t = dropDuplicateRows(t)
		if removed := before - t.NumRows(); removed > 0 {
			result.Changes = append(result.Changes, fmt.Sprintf("removed %d duplicate rows", removed))
		}
	}

	if req.MissingStrategy != "" {
		missingBefore := t.MissingCellCount()
		outcome := s.pipe.Apply(t, []pipeline.Step{{
			Type:     pipeline.StepHandleMissing,
			Strategy: req.MissingStrategy,
		}})
		entry := outcome.Log[0]
		if entry.Status == pipeline.StatusFailed {
			return nil, apperrors.InvalidInput(entry.Error)
		}
		t = outcome.Table
		if handled := missingBefore - t.MissingCellCount(); handled > 0 {
			result.Changes = append(result.Changes,
				fmt.Sprintf("resolved %d missing values via %s", handled, req.MissingStrategy))
		}
	}

	result.FinalShape = [2]int{t.NumRows(), t.NumCols()}
	result.QualityScore = pipeline.QualityScore(t)

	if req.Output != nil {
		path, err := s.persist(ctx, t, *req.Output)
		if err != nil {
			return nil, err
		}
		result.OutputPath = path
	}
	return result, nil
}

// OutlierRequest selects a dataset and detection method.
type OutlierRequest struct {
	Dataset DatasetRef `json:"dataset"`
	Method  string     `json:"method,omitempty"`
	Columns []string   `json:"columns,omitempty"`
}

// Outliers runs the standalone detection operation without mutating the
// dataset.
func (s *ProcessingService) Outliers(ctx context.Context, req OutlierRequest) (*pipeline.DetectionResult, error) {
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	return pipeline.DetectOutliers(t, req.Method, req.Columns)
}

// DriftRequest compares a current dataset snapshot against a baseline.
type DriftRequest struct {
	Baseline DatasetRef `json:"baseline"`
	Current  DatasetRef `json:"current"`
}

// Drift loads both snapshots concurrently and reports schema and
// distribution changes.
func (s *ProcessingService) Drift(ctx context.Context, req DriftRequest) (*pipeline.DriftReport, error) {
	var baseline, current *table.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseline, err = s.datasets.resolve(gctx, req.Baseline)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.datasets.resolve(gctx, req.Current)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.drift.Detect(baseline, current), nil
}

func (s *ProcessingService) persist(ctx context.Context, t *table.Table, out DatasetRef) (string, error) {
	if err := out.validate(); err != nil {
		return "", err
	}
	data, err := s.writer.Write(t, out.FileType)
	if err != nil {
		return "", err
	}
	return s.store.Upload(ctx, out.Bucket, out.Path, data)
}

func dropDuplicateRows(t *table.Table) *table.Table {
	seen := make(map[string]bool)
	keep := make([]bool, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := rowFingerprint(t, i)
		if !seen[key] {
			seen[key] = true
			keep[i] = true
		}
	}
	return t.FilterRows(keep)
}

func rowFingerprint(t *table.Table, i int) string {
	key := ""
	for _, col := range t.Columns() {
		if col.IsMissing(i) {
			key += "\x00\x01"
		} else {
			key += col.CellString(i)
		}
		key += "\x00"
	}
	return key
}
