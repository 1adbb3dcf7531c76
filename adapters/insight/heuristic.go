// Package insight provides rule-based insight generation over dataset
// facts. The heuristic generator stands in wherever a model-backed
// generator is not configured.
package insight

import (
	"context"
	"fmt"
	"math"
	"strings"

	"zyra/ports"
)

// HeuristicGenerator derives insights from dataset facts with fixed rules.
type HeuristicGenerator struct{}

// NewHeuristicGenerator creates the rule-based generator.
func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{}
}

func (g *HeuristicGenerator) Available() bool {
	return true
}

// Generate produces findings and recommendations from the request facts.
// It never fails; a sparse request just yields fewer findings.
func (g *HeuristicGenerator) Generate(ctx context.Context, req ports.InsightRequest) (*ports.InsightSet, error) {
	set := &ports.InsightSet{Generator: "heuristic"}

	if req.MissingRatio > 0.2 {
		set.Findings = append(set.Findings, ports.Insight{
			Kind:     "data_quality",
			Severity: "high",
			Message:  fmt.Sprintf("%.0f%% of all cells are missing; results may be unreliable", req.MissingRatio*100),
		})
		set.Recommendations = append(set.Recommendations,
			"Impute or drop heavily missing columns before modeling")
	} else if req.MissingRatio > 0.05 {
		set.Findings = append(set.Findings, ports.Insight{
			Kind:     "data_quality",
			Severity: "medium",
			Message:  fmt.Sprintf("%.1f%% of cells are missing", req.MissingRatio*100),
		})
	}

	if req.DuplicateRows > 0 {
		set.Findings = append(set.Findings, ports.Insight{
			Kind:     "data_quality",
			Severity: "medium",
			Message:  fmt.Sprintf("%d duplicate rows inflate counts and bias statistics", req.DuplicateRows),
		})
		set.Recommendations = append(set.Recommendations, "Drop duplicate rows")
	}

	if len(req.ConstantColumns) > 0 {
		set.Findings = append(set.Findings, ports.Insight{
			Kind:     "structure",
			Severity: "low",
			Message:  fmt.Sprintf("constant columns carry no information: %s", strings.Join(req.ConstantColumns, ", ")),
		})
		set.Recommendations = append(set.Recommendations, "Remove constant columns")
	}

	if len(req.HighCardinalityColumns) > 0 {
		set.Findings = append(set.Findings, ports.Insight{
			Kind:     "structure",
			Severity: "low",
			Message:  fmt.Sprintf("high-cardinality columns may be identifiers: %s", strings.Join(req.HighCardinalityColumns, ", ")),
		})
	}

	for _, pair := range req.TopCorrelations {
		if math.Abs(pair.Correlation) >= 0.9 {
			set.Findings = append(set.Findings, ports.Insight{
				Kind:     "correlation",
				Severity: "medium",
				Message: fmt.Sprintf("%s and %s are nearly collinear (r = %.2f); consider keeping one",
					pair.ColumnA, pair.ColumnB, pair.Correlation),
			})
		} else if math.Abs(pair.Correlation) >= 0.7 {
			set.Findings = append(set.Findings, ports.Insight{
				Kind:     "correlation",
				Severity: "low",
				Message: fmt.Sprintf("%s and %s are strongly related (r = %.2f)",
					pair.ColumnA, pair.ColumnB, pair.Correlation),
			})
		}
	}

	if len(req.PotentialTargets) > 0 {
		set.Findings = append(set.Findings, ports.Insight{
			Kind:     "modeling",
			Severity: "low",
			Message:  fmt.Sprintf("candidate target columns: %s", strings.Join(req.PotentialTargets, ", ")),
		})
	}

	set.Summary = g.summarize(req, len(set.Findings))
	return set, nil
}

func (g *HeuristicGenerator) summarize(req ports.InsightRequest, findings int) string {
	name := req.DatasetName
	if name == "" {
		name = "the dataset"
	}
	quality := "good"
	switch {
	case req.QualityScore < 60:
		quality = "poor"
	case req.QualityScore < 85:
		quality = "fair"
	}
	return fmt.Sprintf("%s has %d rows and %d columns with %s overall quality (score %.0f); %d findings noted",
		name, req.RowCount, req.ColumnCount, quality, req.QualityScore, findings)
}

// Unavailable is the generator used when insights are disabled. Assembly
// renders an availability notice instead of calling Generate.
type Unavailable struct{}

func (Unavailable) Available() bool {
	return false
}

func (Unavailable) Generate(ctx context.Context, req ports.InsightRequest) (*ports.InsightSet, error) {
	return nil, fmt.Errorf("insight generation is not configured")
}

var (
	_ ports.InsightGenerator = (*HeuristicGenerator)(nil)
	_ ports.InsightGenerator = Unavailable{}
)
