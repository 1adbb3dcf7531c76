package report

import (
	"context"
	"fmt"
	"time"

	"zyra/domain/analytics"
	"zyra/domain/table"
	"zyra/internal"
	"zyra/internal/correlate"
	"zyra/internal/pipeline"
	"zyra/internal/profiling"
	"zyra/internal/stattest"
	"zyra/ports"
)

// Result statuses.
const (
	StatusSuccess  = "success"
	StatusDegraded = "degraded"
)

// Result is the tagged outcome of report assembly. Assembly never raises:
// any failure yields a degraded result with empty sections and an error
// field. Availability of partial output wins over hard failure here, and
// only here; the engines underneath still return errors.
type Result struct {
	Status   string    `json:"status"`
	Document *Document `json:"report"`
	Error    string    `json:"error,omitempty"`
}

// Document is the assembled report. Disabled sections are omitted from
// the serialized form entirely; column_analysis is always present.
type Document struct {
	GeneratedAt time.Time `json:"generated_at"`

	DatasetInfo        *DatasetInfo              `json:"dataset_info,omitempty"`
	MissingAnalysis    *MissingAnalysis          `json:"missing_analysis,omitempty"`
	ColumnAnalysis     []profiling.ColumnProfile `json:"column_analysis"`
	StatisticalSummary *StatisticalSummary       `json:"statistical_summary,omitempty"`
	CorrelationData    *correlate.Result         `json:"correlation_data,omitempty"`

	ModelRecommendations         *[]ModelRecommendation         `json:"model_recommendations,omitempty"`
	PreprocessingRecommendations *[]PreprocessingRecommendation `json:"preprocessing_recommendations,omitempty"`

	Visualizations *Visualizations `json:"visualizations,omitempty"`
	AIInsights     *AIInsights     `json:"ai_insights,omitempty"`
}

// DatasetInfo is the overview section.
type DatasetInfo struct {
	Name         string                   `json:"name,omitempty"`
	Summary      profiling.DatasetSummary `json:"summary"`
	QualityScore float64                  `json:"quality_score"`
}

// MissingAnalysis is the missing-data section.
type MissingAnalysis struct {
	MissingCells int                        `json:"missing_cells"`
	MissingRatio float64                    `json:"missing_ratio"`
	ByColumn     []MissingBar               `json:"by_column,omitempty"`
	Patterns     []profiling.MissingPattern `json:"patterns,omitempty"`
}

// StatisticalSummary is the descriptive statistics section.
type StatisticalSummary struct {
	Numeric   map[string]*profiling.NumericSummary `json:"numeric"`
	Normality *stattest.NormalityDetail            `json:"normality,omitempty"`
}

// AIInsights wraps the injected generator's output, or an availability
// notice when no generator is configured.
type AIInsights struct {
	Available bool              `json:"available"`
	Notice    string            `json:"notice,omitempty"`
	Insights  *ports.InsightSet `json:"insights,omitempty"`
}

// Assembler composes the core engines into one report document.
type Assembler struct {
	profiler  *profiling.Profiler
	correlate *correlate.Engine
	tests     *stattest.Engine
	insights  ports.InsightGenerator
	logger    *internal.Logger
}

// NewAssembler wires the engines. The insight generator may be nil.
func NewAssembler(insights ports.InsightGenerator) *Assembler {
	return &Assembler{
		profiler:  profiling.NewProfiler(),
		correlate: correlate.NewEngine(),
		tests:     stattest.NewEngine(),
		insights:  insights,
		logger:    internal.DefaultLogger,
	}
}

// Assemble builds the report described by the configuration. Sections the
// configuration disables are never computed.
func (a *Assembler) Assemble(ctx context.Context, t *table.Table, datasetName string, cfg analytics.Configuration) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[Report] assembly panicked: %v", r)
			result = degraded(fmt.Sprintf("report assembly failed: %v", r))
		}
	}()

	plan := Resolve(cfg)
	profile := a.profiler.Profile(t)

	doc := &Document{
		GeneratedAt:    time.Now().UTC(),
		ColumnAnalysis: profile.Columns,
	}
	if doc.ColumnAnalysis == nil {
		doc.ColumnAnalysis = []profiling.ColumnProfile{}
	}

	if plan.Includes(SectionDatasetInfo) {
		doc.DatasetInfo = &DatasetInfo{
			Name:         datasetName,
			Summary:      profile.Summary,
			QualityScore: pipeline.QualityScore(t),
		}
	}

	if plan.Includes(SectionMissingAnalysis) {
		doc.MissingAnalysis = buildMissingAnalysis(profile)
	}

	var corr *correlate.Result
	if plan.Includes(SectionCorrelationData) || plan.Includes(SectionVisualizations) {
		if len(profile.Summary.NumericColumns) >= 2 {
			var err error
			corr, err = a.correlate.Correlate(t, correlate.Request{
				Method:   correlate.MethodPearson,
				MaxPairs: plan.MaxCorrelationPairs,
			})
			if err != nil {
				a.logger.Error("[Report] correlation failed: %v", err)
				return degraded("correlation analysis failed: " + err.Error())
			}
		}
	}
	if plan.Includes(SectionCorrelationData) {
		doc.CorrelationData = corr
	}

	if plan.Includes(SectionStatisticalSummary) {
		summary, err := a.buildStatisticalSummary(t, profile, plan.IncludeAdvancedStats)
		if err != nil {
			a.logger.Error("[Report] statistical summary failed: %v", err)
			return degraded("statistical summary failed: " + err.Error())
		}
		doc.StatisticalSummary = summary
	}

	if plan.Includes(SectionModelRecs) {
		recs := modelRecommendations(profile, plan.MaxModelRecommendations)
		doc.ModelRecommendations = &recs
	}

	if plan.Includes(SectionPreprocessingRecs) {
		recs := preprocessingRecommendations(profile)
		doc.PreprocessingRecommendations = &recs
	}

	if plan.Includes(SectionVisualizations) {
		doc.Visualizations = buildVisualizations(t, profile, corr)
	}

	if plan.Includes(SectionAIInsights) {
		doc.AIInsights = a.buildInsights(ctx, datasetName, t, profile, corr)
	}

	return &Result{Status: StatusSuccess, Document: doc}
}

func degraded(message string) *Result {
	return &Result{
		Status:   StatusDegraded,
		Document: &Document{GeneratedAt: time.Now().UTC(), ColumnAnalysis: []profiling.ColumnProfile{}},
		Error:    message,
	}
}

func buildMissingAnalysis(profile *profiling.Profile) *MissingAnalysis {
	ma := &MissingAnalysis{
		MissingCells: profile.Summary.MissingCells,
		MissingRatio: profile.Summary.MissingRatio,
		Patterns:     profile.MissingPatterns,
	}
	for _, cp := range profile.Columns {
		if cp.MissingCount > 0 {
			ma.ByColumn = append(ma.ByColumn, MissingBar{
				Column:  cp.Name,
				Missing: cp.MissingCount,
				Ratio:   cp.MissingRatio,
			})
		}
	}
	return ma
}

func (a *Assembler) buildStatisticalSummary(t *table.Table, profile *profiling.Profile, advanced bool) (*StatisticalSummary, error) {
	summary := &StatisticalSummary{Numeric: make(map[string]*profiling.NumericSummary)}
	for _, cp := range profile.Columns {
		if cp.Numeric != nil {
			summary.Numeric[cp.Name] = cp.Numeric
		}
	}

	if advanced && len(profile.Summary.NumericColumns) > 0 {
		res, err := a.tests.Run(t, stattest.Request{
			TestType: stattest.TestNormality,
			Columns:  profile.Summary.NumericColumns,
		})
		if err != nil {
			return nil, err
		}
		summary.Normality = res.Normality
	}
	return summary, nil
}

func (a *Assembler) buildInsights(ctx context.Context, datasetName string, t *table.Table, profile *profiling.Profile, corr *correlate.Result) *AIInsights {
	if a.insights == nil || !a.insights.Available() {
		return &AIInsights{
			Available: false,
			Notice:    "no insight generator is configured",
		}
	}

	req := ports.InsightRequest{
		DatasetName:            datasetName,
		RowCount:               profile.Summary.Rows,
		ColumnCount:            profile.Summary.Columns,
		MissingRatio:           profile.Summary.MissingRatio,
		DuplicateRows:          profile.Summary.DuplicateRows,
		QualityScore:           pipeline.QualityScore(t),
		NumericColumns:         profile.Summary.NumericColumns,
		CategoricalColumns:     profile.Summary.CategoricalCols,
		ConstantColumns:        profile.Summary.ConstantColumns,
		HighCardinalityColumns: profile.Summary.HighCardinality,
		PotentialTargets:       profile.Summary.PotentialTargets,
	}
	if corr != nil {
		for _, p := range corr.HighPairs {
			req.TopCorrelations = append(req.TopCorrelations, ports.CorrelatedPair{
				ColumnA:     p.ColumnA,
				ColumnB:     p.ColumnB,
				Correlation: p.Correlation,
			})
		}
	}

	set, err := a.insights.Generate(ctx, req)
	if err != nil {
		a.logger.Warn("[Report] insight generation failed: %v", err)
		return &AIInsights{
			Available: true,
			Notice:    "insight generation failed: " + err.Error(),
		}
	}
	return &AIInsights{Available: true, Insights: set}
}
