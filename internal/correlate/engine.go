// Package correlate computes pairwise correlation structure over the
// numeric columns of a table.
package correlate

import (
	"math"
	"sort"

	apperrors "zyra/internal/errors"

	"zyra/domain/table"
)

// Method selects the correlation coefficient.
type Method string

const (
	MethodPearson  Method = "pearson"
	MethodSpearman Method = "spearman"
)

const highPairThreshold = 0.7

// Matrix is a square, symmetric correlation matrix. A nil cell means the
// coefficient is undefined for that pair (zero variance or no overlapping
// observations); it serializes as JSON null instead of poisoning output
// with NaN.
type Matrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// At returns the coefficient and whether it is defined.
func (m *Matrix) At(i, j int) (float64, bool) {
	v := m.Values[i][j]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Pair is one unordered high-correlation column pair.
type Pair struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Correlation float64 `json:"correlation"`
}

// TargetCorrelation ranks one column against the chosen target.
type TargetCorrelation struct {
	Column      string  `json:"column"`
	Correlation float64 `json:"correlation"`
	Absolute    float64 `json:"absolute"`
}

// Result is the full engine output.
type Result struct {
	Method             Method              `json:"method"`
	Matrix             *Matrix             `json:"matrix"`
	HighPairs          []Pair              `json:"high_pairs"`
	TargetCorrelations []TargetCorrelation `json:"target_correlations,omitempty"`
}

// Request parameterizes a correlation run.
type Request struct {
	Method   Method
	Target   string
	MaxPairs int
}

// Engine computes correlation results. Stateless.
type Engine struct{}

// NewEngine creates an engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Correlate builds the matrix, high pairs and optional target ranking.
func (e *Engine) Correlate(t *table.Table, req Request) (*Result, error) {
	method := req.Method
	if method == "" {
		method = MethodPearson
	}
	if method != MethodPearson && method != MethodSpearman {
		return nil, apperrors.InvalidInput("correlation method must be pearson or spearman")
	}

	cols := t.NumericColumns()
	res := &Result{Method: method, Matrix: e.matrix(cols, method)}
	res.HighPairs = e.highPairs(res.Matrix, req.MaxPairs)

	if req.Target != "" {
		target, ok := t.Column(req.Target)
		if !ok {
			return nil, apperrors.MissingColumn(req.Target)
		}
		if !target.IsNumeric() {
			return nil, apperrors.InvalidInput("target column must be numeric for correlation ranking")
		}
		res.TargetCorrelations = e.targetRanking(res.Matrix, req.Target)
	}
	return res, nil
}

func (e *Engine) matrix(cols []table.Column, method Method) *Matrix {
	m := &Matrix{}
	for _, c := range cols {
		m.Columns = append(m.Columns, c.Name)
	}
	m.Values = make([][]*float64, len(cols))
	for i := range m.Values {
		m.Values[i] = make([]*float64, len(cols))
	}

	for i := 0; i < len(cols); i++ {
		// The diagonal is 1 by definition, but only when the column has
		// any variance at all; a constant column is undefined everywhere.
		if hasVariance(cols[i]) {
			one := 1.0
			m.Values[i][i] = &one
		}
		for j := i + 1; j < len(cols); j++ {
			r, ok := pairCorrelation(cols[i], cols[j], method)
			if !ok {
				continue
			}
			v := r
			m.Values[i][j] = &v
			m.Values[j][i] = &v
		}
	}
	return m
}

func (e *Engine) highPairs(m *Matrix, maxPairs int) []Pair {
	var pairs []Pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			r, ok := m.At(i, j)
			if ok && math.Abs(r) > highPairThreshold {
				pairs = append(pairs, Pair{ColumnA: m.Columns[i], ColumnB: m.Columns[j], Correlation: r})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		da, db := math.Abs(pairs[a].Correlation), math.Abs(pairs[b].Correlation)
		if da != db {
			return da > db
		}
		if pairs[a].ColumnA != pairs[b].ColumnA {
			return pairs[a].ColumnA < pairs[b].ColumnA
		}
		return pairs[a].ColumnB < pairs[b].ColumnB
	})
	if maxPairs > 0 && len(pairs) > maxPairs {
		pairs = pairs[:maxPairs]
	}
	return pairs
}

func (e *Engine) targetRanking(m *Matrix, target string) []TargetCorrelation {
	ti := -1
	for i, name := range m.Columns {
		if name == target {
			ti = i
			break
		}
	}
	if ti == -1 {
		return nil
	}
	var out []TargetCorrelation
	for i, name := range m.Columns {
		if i == ti {
			continue
		}
		if r, ok := m.At(ti, i); ok {
			out = append(out, TargetCorrelation{Column: name, Correlation: r, Absolute: math.Abs(r)})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Absolute != out[b].Absolute {
			return out[a].Absolute > out[b].Absolute
		}
		return out[a].Column < out[b].Column
	})
	return out
}

// pairCorrelation computes the coefficient over rows where both cells are
// present. ok is false for zero variance or fewer than 2 shared rows.
func pairCorrelation(a, b table.Column, method Method) (float64, bool) {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		xs = append(xs, a.Float(i))
		ys = append(ys, b.Float(i))
	}
	if len(xs) < 2 {
		return 0, false
	}
	if method == MethodSpearman {
		xs = rankValues(xs)
		ys = rankValues(ys)
	}
	return pearson(xs, ys)
}

func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n
	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// rankValues assigns 1-based ranks with ties averaged.
func rankValues(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func hasVariance(c table.Column) bool {
	first := math.NaN()
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		v := c.Float(i)
		if math.IsNaN(first) {
			first = v
		} else if v != first {
			return true
		}
	}
	return false
}
