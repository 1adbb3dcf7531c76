// Package stattest runs hypothesis tests with automatic assumption checking
// and test selection, plus the A/B test power calculator.
package stattest

import "math"

// TestType identifies one of the supported test kinds.
type TestType string

const (
	TestTTest       TestType = "ttest"
	TestChiSquare   TestType = "chisquare"
	TestANOVA       TestType = "anova"
	TestCorrelation TestType = "correlation"
	TestNormality   TestType = "normality"
	TestMannWhitney TestType = "mann_whitney"
)

// DefaultAlpha is the significance level used when a request omits one.
const DefaultAlpha = 0.05

// Request describes one test invocation.
type Request struct {
	TestType TestType `json:"test_type"`
	Columns  []string `json:"columns"`
	Alpha    float64  `json:"alpha"`
}

// EffectSize is a standardized, scale-free magnitude with a qualitative
// reading. It is reported independently of the p-value.
type EffectSize struct {
	Measure        string  `json:"measure"`
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

// AssumptionCheck reports a precondition test. A failed assumption is not
// an error; it changes which concrete test variant ran, or how the result
// should be read.
type AssumptionCheck struct {
	Name      string  `json:"name"`
	Satisfied bool    `json:"satisfied"`
	PValue    float64 `json:"p_value"`
	Detail    string  `json:"detail,omitempty"`
}

// Result is the tagged outcome of one test request. Exactly one of the
// kind-specific detail pointers is set, matching TestType.
type Result struct {
	TestType    TestType `json:"test_type"`
	TestName    string   `json:"test_name"`
	Statistic   float64  `json:"statistic"`
	PValue      float64  `json:"p_value"`
	Alpha       float64  `json:"alpha"`
	Significant bool     `json:"significant"`

	EffectSize  *EffectSize       `json:"effect_size,omitempty"`
	Assumptions []AssumptionCheck `json:"assumptions,omitempty"`

	TwoSample   *TwoSampleDetail   `json:"two_sample,omitempty"`
	ChiSquare   *ChiSquareDetail   `json:"chi_square,omitempty"`
	ANOVA       *ANOVADetail       `json:"anova,omitempty"`
	Correlation *CorrelationDetail `json:"correlation,omitempty"`
	Normality   *NormalityDetail   `json:"normality,omitempty"`
	MannWhitney *MannWhitneyDetail `json:"mann_whitney,omitempty"`

	Interpretation string `json:"interpretation,omitempty"`
}

// TwoSampleDetail covers the two-sample comparison variants.
type TwoSampleDetail struct {
	Variant        string  `json:"variant"` // student_t | welch_t | mann_whitney
	N1             int     `json:"n1"`
	N2             int     `json:"n2"`
	Mean1          float64 `json:"mean1"`
	Mean2          float64 `json:"mean2"`
	Std1           float64 `json:"std1"`
	Std2           float64 `json:"std2"`
	DegreesFreedom float64 `json:"degrees_of_freedom"`
}

// ChiSquareDetail covers the independence test.
type ChiSquareDetail struct {
	DegreesFreedom     int        `json:"degrees_of_freedom"`
	RowCategories      []string   `json:"row_categories"`
	ColumnCategories   []string   `json:"column_categories"`
	Observed           [][]int    `json:"observed"`
	LowExpectedRatio   float64    `json:"low_expected_cell_ratio"`
	SampleSize         int        `json:"sample_size"`
}

// GroupStat summarizes one ANOVA group.
type GroupStat struct {
	Name string  `json:"name"`
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// ANOVADetail covers the one-way ANOVA.
type ANOVADetail struct {
	DFBetween int         `json:"df_between"`
	DFWithin  int         `json:"df_within"`
	Groups    []GroupStat `json:"groups"`
}

// CorrPair is one tested column pair.
type CorrPair struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	R           float64 `json:"r"`
	PValue      float64 `json:"p_value"`
	N           int     `json:"n"`
	Significant bool    `json:"significant"`
}

// CorrelationDetail covers the correlation significance test.
type CorrelationDetail struct {
	Pairs         []CorrPair `json:"pairs"`
	StrongestPair *CorrPair  `json:"strongest_significant_pair,omitempty"`
	SkippedPairs  []string   `json:"skipped_pairs,omitempty"`
}

// ColumnNormality is one column's normality assessment.
type ColumnNormality struct {
	Column       string   `json:"column"`
	N            int      `json:"n"`
	DAgostino    *SubTest `json:"dagostino_k2,omitempty"`
	ShapiroWilk  *SubTest `json:"shapiro_wilk,omitempty"`
	Skewness     float64  `json:"skewness"`
	Kurtosis     float64  `json:"kurtosis"`
	Normal       bool     `json:"normal"`
	Inapplicable string   `json:"inapplicable,omitempty"`
}

// SubTest is one sub-test's statistic and p-value.
type SubTest struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// NormalityDetail covers the normality kind; columns are independent.
type NormalityDetail struct {
	Columns []ColumnNormality `json:"columns"`
}

// MannWhitneyDetail covers the rank-based comparison.
type MannWhitneyDetail struct {
	U1     float64 `json:"u1"`
	U2     float64 `json:"u2"`
	N1     int     `json:"n1"`
	N2     int     `json:"n2"`
	Method string  `json:"method"` // exact | normal_approximation
}

// Effect-size interpretation thresholds.

func interpretCohensD(d float64) string {
	switch a := math.Abs(d); {
	case a < 0.2:
		return "negligible"
	case a < 0.5:
		return "small"
	case a < 0.8:
		return "medium"
	default:
		return "large"
	}
}

func interpretCramersV(v float64) string {
	switch {
	case v < 0.1:
		return "negligible"
	case v < 0.3:
		return "small"
	case v < 0.5:
		return "medium"
	default:
		return "large"
	}
}

func interpretEtaSquared(e float64) string {
	switch {
	case e < 0.01:
		return "negligible"
	case e < 0.06:
		return "small"
	case e < 0.14:
		return "medium"
	default:
		return "large"
	}
}

func interpretCorrelation(r float64) string {
	switch a := math.Abs(r); {
	case a < 0.1:
		return "negligible"
	case a < 0.3:
		return "small"
	case a < 0.5:
		return "medium"
	default:
		return "large"
	}
}
