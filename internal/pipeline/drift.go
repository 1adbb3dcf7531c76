package pipeline

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"zyra/domain/table"
)

// DriftSeverity grades how disruptive the detected drift is.
type DriftSeverity string

const (
	DriftSeverityNone   DriftSeverity = "none"
	DriftSeverityLow    DriftSeverity = "low"
	DriftSeverityMedium DriftSeverity = "medium"
	DriftSeverityHigh   DriftSeverity = "high"
)

// ColumnDrift compares one shared column across the two tables.
type ColumnDrift struct {
	Column    string  `json:"column"`
	Test      string  `json:"test"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Drifted   bool    `json:"drifted"`
}

// DriftReport is the result of comparing a current table against a
// baseline table.
type DriftReport struct {
	AddedColumns    []string          `json:"added_columns"`
	RemovedColumns  []string          `json:"removed_columns"`
	TypeChanges     map[string]string `json:"type_changes"`
	ColumnDrift     []ColumnDrift     `json:"column_drift"`
	DriftScore      float64           `json:"drift_score"`
	Severity        DriftSeverity     `json:"severity"`
	Recommendations []string          `json:"recommendations"`
}

// DriftDetector compares two snapshots of the same logical dataset.
type DriftDetector struct {
	alpha float64
}

func NewDriftDetector() *DriftDetector {
	return &DriftDetector{alpha: 0.05}
}

// Detect reports schema and distribution changes from baseline to current.
// Columns present in both tables with matching kinds are compared with a
// two-sample Kolmogorov-Smirnov test (numeric) or a chi-square
// goodness-of-fit test (categorical); a column drifts when p < 0.05.
func (d *DriftDetector) Detect(baseline, current *table.Table) *DriftReport {
	report := &DriftReport{
		AddedColumns:   []string{},
		RemovedColumns: []string{},
		TypeChanges:    map[string]string{},
	}

	for _, name := range current.Names() {
		if !baseline.Has(name) {
			report.AddedColumns = append(report.AddedColumns, name)
		}
	}
	for _, name := range baseline.Names() {
		if !current.Has(name) {
			report.RemovedColumns = append(report.RemovedColumns, name)
		}
	}

	for _, name := range baseline.Names() {
		base, _ := baseline.Column(name)
		cur, ok := current.Column(name)
		if !ok {
			continue
		}
		if base.Kind != cur.Kind {
			report.TypeChanges[name] = fmt.Sprintf("%s -> %s", base.Kind, cur.Kind)
			continue
		}
		switch base.Kind {
		case table.KindNumeric, table.KindBoolean:
			stat, p, ok := ksTwoSample(base.FloatValues(), cur.FloatValues())
			if !ok {
				continue
			}
			report.ColumnDrift = append(report.ColumnDrift, ColumnDrift{
				Column:    name,
				Test:      "kolmogorov_smirnov",
				Statistic: stat,
				PValue:    p,
				Drifted:   p < d.alpha,
			})
		case table.KindCategorical:
			stat, p, ok := chiSquareGOF(base, cur)
			if !ok {
				continue
			}
			report.ColumnDrift = append(report.ColumnDrift, ColumnDrift{
				Column:    name,
				Test:      "chi_square",
				Statistic: stat,
				PValue:    p,
				Drifted:   p < d.alpha,
			})
		}
	}

	report.DriftScore = driftScore(report.ColumnDrift)
	report.Severity = driftSeverity(report)
	report.Recommendations = driftRecommendations(report)
	return report
}

func driftScore(drifts []ColumnDrift) float64 {
	if len(drifts) == 0 {
		return 0
	}
	var total float64
	for _, cd := range drifts {
		total += 1 - cd.PValue
	}
	return total / float64(len(drifts))
}

func driftSeverity(report *DriftReport) DriftSeverity {
	if len(report.RemovedColumns) > 0 || len(report.TypeChanges) > 0 {
		return DriftSeverityHigh
	}
	drifted := 0
	for _, cd := range report.ColumnDrift {
		if cd.Drifted {
			drifted++
		}
	}
	switch {
	case drifted > 0 && drifted*2 >= len(report.ColumnDrift):
		return DriftSeverityHigh
	case drifted > 0:
		return DriftSeverityMedium
	case len(report.AddedColumns) > 0:
		return DriftSeverityLow
	default:
		return DriftSeverityNone
	}
}

func driftRecommendations(report *DriftReport) []string {
	var recs []string
	if len(report.RemovedColumns) > 0 {
		recs = append(recs, "Columns were removed: update any analyses that reference them")
	}
	if len(report.TypeChanges) > 0 {
		recs = append(recs, "Column types changed: review parsing and transformation logic")
	}
	if len(report.AddedColumns) > 0 {
		recs = append(recs, "New columns are available for analysis")
	}
	for _, cd := range report.ColumnDrift {
		if cd.Drifted {
			recs = append(recs, "Distributions shifted: re-validate statistical assumptions and retrain dependent models")
			break
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "No meaningful drift detected")
	}
	return recs
}

// ksTwoSample computes the two-sample Kolmogorov-Smirnov statistic with
// the asymptotic Kolmogorov distribution p-value.
func ksTwoSample(a, b []float64) (stat, p float64, ok bool) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return 0, 0, false
	}
	x := append([]float64(nil), a...)
	y := append([]float64(nil), b...)
	sort.Float64s(x)
	sort.Float64s(y)

	var d float64
	i, j := 0, 0
	for i < n1 && j < n2 {
		v := math.Min(x[i], y[j])
		for i < n1 && x[i] <= v {
			i++
		}
		for j < n2 && y[j] <= v {
			j++
		}
		diff := math.Abs(float64(i)/float64(n1) - float64(j)/float64(n2))
		if diff > d {
			d = diff
		}
	}

	en := math.Sqrt(float64(n1) * float64(n2) / float64(n1+n2))
	lambda := (en + 0.12 + 0.11/en) * d
	return d, kolmogorovSurvival(lambda), true
}

// kolmogorovSurvival evaluates the Kolmogorov distribution tail sum.
func kolmogorovSurvival(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	var sum float64
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*lambda*lambda*float64(k*k))
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	return clampUnit(p)
}

// chiSquareGOF tests whether the current category frequencies match the
// baseline proportions. A category with observations that the baseline
// never produced is treated as definite drift.
func chiSquareGOF(base, cur table.Column) (stat, p float64, ok bool) {
	baseCounts := categoryCounts(base)
	curCounts := categoryCounts(cur)
	if len(baseCounts) == 0 || len(curCounts) == 0 {
		return 0, 0, false
	}

	union := make(map[string]struct{})
	baseTotal, curTotal := 0, 0
	for cat, n := range baseCounts {
		union[cat] = struct{}{}
		baseTotal += n
	}
	for cat, n := range curCounts {
		union[cat] = struct{}{}
		curTotal += n
	}

	cats := make([]string, 0, len(union))
	for cat := range union {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var chi2 float64
	df := len(cats) - 1
	for _, cat := range cats {
		expected := float64(baseCounts[cat]) / float64(baseTotal) * float64(curTotal)
		observed := float64(curCounts[cat])
		if expected == 0 {
			if observed > 0 {
				return math.MaxFloat64, 0, true
			}
			continue
		}
		chi2 += (observed - expected) * (observed - expected) / expected
	}
	if df < 1 {
		return 0, 1, true
	}

	dist := distuv.ChiSquared{K: float64(df)}
	return chi2, clampUnit(dist.Survival(chi2)), true
}

func categoryCounts(c table.Column) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			counts[c.Strings[i]]++
		}
	}
	return counts
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
