// Package profiling classifies columns and computes per-column and
// dataset-level summaries. Profiles are derived on demand and never
// persisted by this package.
package profiling

import (
	"sort"

	"github.com/montanaflynn/stats"

	"zyra/domain/table"
)

// Thresholds for column role classification.
const (
	potentialTargetMaxUniques = 10
	highCardinalityMin        = 51
	topValueLimit             = 10
)

// NumericSummary holds descriptive statistics over present values.
type NumericSummary struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Std          float64 `json:"std"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	OutlierCount int     `json:"outlier_count"`
	ZeroVariance bool    `json:"zero_variance"`
}

// ValueCount is one categorical frequency entry.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalSummary holds the top value frequencies of a text column.
type CategoricalSummary struct {
	TopValues []ValueCount `json:"top_values"`
}

// ColumnProfile is the derived, read-only summary of one column.
type ColumnProfile struct {
	Name              string              `json:"name"`
	Kind              table.Kind          `json:"kind"`
	MissingCount      int                 `json:"missing_count"`
	MissingRatio      float64             `json:"missing_ratio"`
	UniqueCount       int                 `json:"unique_count"`
	IsConstant        bool                `json:"is_constant"`
	IsBinary          bool                `json:"is_binary"`
	IsHighCardinality bool                `json:"is_high_cardinality"`
	IsPotentialTarget bool                `json:"is_potential_target"`
	Numeric           *NumericSummary     `json:"numeric,omitempty"`
	Categorical       *CategoricalSummary `json:"categorical,omitempty"`
}

// DatasetSummary aggregates table-level facts.
type DatasetSummary struct {
	Rows             int      `json:"rows"`
	Columns          int      `json:"columns"`
	MissingCells     int      `json:"missing_cells"`
	MissingRatio     float64  `json:"missing_ratio"`
	DuplicateRows    int      `json:"duplicate_rows"`
	NumericColumns   []string `json:"numeric_columns"`
	CategoricalCols  []string `json:"categorical_columns"`
	ConstantColumns  []string `json:"constant_columns"`
	HighCardinality  []string `json:"high_cardinality_columns"`
	PotentialTargets []string `json:"potential_targets"`
	EstimatedBytes   int64    `json:"estimated_bytes"`
}

// Profile is the full profiler output.
type Profile struct {
	Columns         []ColumnProfile  `json:"columns"`
	Summary         DatasetSummary   `json:"summary"`
	MissingPatterns []MissingPattern `json:"missing_patterns"`
}

// Profiler computes profiles. It is stateless and safe for concurrent use.
type Profiler struct{}

// NewProfiler creates a profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Profile summarizes every column plus dataset-level facts.
func (p *Profiler) Profile(t *table.Table) *Profile {
	out := &Profile{}
	rows := t.NumRows()

	for _, col := range t.Columns() {
		cp := p.profileColumn(col, rows)
		out.Columns = append(out.Columns, cp)

		if col.IsNumeric() {
			out.Summary.NumericColumns = append(out.Summary.NumericColumns, col.Name)
		}
		if col.Kind == table.KindCategorical {
			out.Summary.CategoricalCols = append(out.Summary.CategoricalCols, col.Name)
		}
		if cp.IsConstant {
			out.Summary.ConstantColumns = append(out.Summary.ConstantColumns, col.Name)
		}
		if cp.IsHighCardinality {
			out.Summary.HighCardinality = append(out.Summary.HighCardinality, col.Name)
		}
		if cp.IsPotentialTarget {
			out.Summary.PotentialTargets = append(out.Summary.PotentialTargets, col.Name)
		}
		out.Summary.EstimatedBytes += estimateColumnBytes(col)
	}

	out.Summary.Rows = rows
	out.Summary.Columns = t.NumCols()
	out.Summary.MissingCells = t.MissingCellCount()
	if rows > 0 && t.NumCols() > 0 {
		out.Summary.MissingRatio = float64(out.Summary.MissingCells) / float64(rows*t.NumCols())
	}
	out.Summary.DuplicateRows = t.DuplicateRowCount()
	out.MissingPatterns = missingPatterns(t)
	return out
}

func (p *Profiler) profileColumn(col table.Column, rows int) ColumnProfile {
	cp := ColumnProfile{
		Name:         col.Name,
		Kind:         col.Kind,
		MissingCount: col.MissingCount(),
		UniqueCount:  col.UniqueCount(),
	}
	if rows > 0 {
		cp.MissingRatio = float64(cp.MissingCount) / float64(rows)
	}

	// Role classification over present values only. Roles are flags; the
	// declared kind never changes.
	switch {
	case cp.UniqueCount == 1:
		cp.IsConstant = true
	case cp.UniqueCount == 2:
		cp.IsBinary = true
	}
	if cp.UniqueCount >= 2 && cp.UniqueCount <= potentialTargetMaxUniques {
		cp.IsPotentialTarget = true
	}
	if !col.IsNumeric() && cp.UniqueCount >= highCardinalityMin {
		cp.IsHighCardinality = true
	}

	if col.IsNumeric() {
		cp.Numeric = numericSummary(col.FloatValues())
	}
	if col.Kind == table.KindCategorical {
		cp.Categorical = categoricalSummary(col)
	}
	return cp
}

func numericSummary(values []float64) *NumericSummary {
	if len(values) == 0 {
		return nil
	}
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	std := 0.0
	if len(values) >= 2 {
		std, _ = stats.StandardDeviationSample(values)
	}
	q1, _ := Quantile(values, 0.25)
	q3, _ := Quantile(values, 0.75)

	return &NumericSummary{
		Count:        len(values),
		Mean:         mean,
		Median:       median,
		Std:          std,
		Min:          min,
		Max:          max,
		Q1:           q1,
		Q3:           q3,
		Skewness:     Skewness(values),
		Kurtosis:     Kurtosis(values),
		OutlierCount: CountOutliersIQR(values),
		ZeroVariance: std == 0,
	}
}

func categoricalSummary(col table.Column) *CategoricalSummary {
	counts := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		counts[col.Strings[i]]++
	}
	entries := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		entries = append(entries, ValueCount{Value: v, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	if len(entries) > topValueLimit {
		entries = entries[:topValueLimit]
	}
	return &CategoricalSummary{TopValues: entries}
}

func estimateColumnBytes(col table.Column) int64 {
	switch col.Kind {
	case table.KindCategorical:
		var n int64
		for i := 0; i < col.Len(); i++ {
			n += int64(len(col.Strings[i])) + 16
		}
		return n
	case table.KindBoolean:
		return int64(col.Len())
	default:
		return int64(col.Len()) * 8
	}
}
