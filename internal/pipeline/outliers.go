package pipeline

import (
	"math"
	"math/rand"
	"sort"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
	"zyra/internal/profiling"
)

// ColumnOutliers reports the outlying rows of a single numeric column.
type ColumnOutliers struct {
	Column     string  `json:"column"`
	Method     string  `json:"method"`
	RowIndexes []int   `json:"row_indexes"`
	Count      int     `json:"count"`
	LowerBound float64 `json:"lower_bound,omitempty"`
	UpperBound float64 `json:"upper_bound,omitempty"`
}

// DetectionResult is the output of the standalone outlier detection
// operation, keyed by column name.
type DetectionResult struct {
	Method      string                    `json:"method"`
	Columns     map[string]ColumnOutliers `json:"columns"`
	FlaggedRows []int                     `json:"flagged_rows"`
}

// DetectOutliers inspects every numeric column (or the named subset) and
// reports outlying rows without mutating the table.
func DetectOutliers(t *table.Table, method string, columns []string) (*DetectionResult, error) {
	if method == "" {
		method = "iqr"
	}
	cols, err := resolveColumns(t, columns, table.Column.IsNumeric)
	if err != nil {
		return nil, err
	}
	if method != "iqr" && method != "zscore" && method != "isolation" {
		return nil, apperrors.InvalidInput("unknown outlier method: " + method)
	}

	result := &DetectionResult{
		Method:  method,
		Columns: make(map[string]ColumnOutliers, len(cols)),
	}

	if method == "isolation" {
		flagged := flagOutliersIsolation(t, cols, 0.1)
		for i, f := range flagged {
			if f {
				result.FlaggedRows = append(result.FlaggedRows, i)
			}
		}
		return result, nil
	}

	union := make(map[int]struct{})
	for _, c := range cols {
		co := ColumnOutliers{Column: c.Name, Method: method}
		switch method {
		case "iqr":
			lo, hi, _, _, ok := profiling.IQRBounds(c.FloatValues())
			if !ok {
				result.Columns[c.Name] = co
				continue
			}
			co.LowerBound, co.UpperBound = lo, hi
			for i := 0; i < c.Len(); i++ {
				if c.IsMissing(i) {
					continue
				}
				if v := c.Float(i); v < lo || v > hi {
					co.RowIndexes = append(co.RowIndexes, i)
				}
			}
		case "zscore":
			values := c.FloatValues()
			m, s := meanOf(values), stdOf(values)
			if s == 0 {
				result.Columns[c.Name] = co
				continue
			}
			co.LowerBound, co.UpperBound = m-3*s, m+3*s
			for i := 0; i < c.Len(); i++ {
				if c.IsMissing(i) {
					continue
				}
				if math.Abs((c.Float(i)-m)/s) > 3 {
					co.RowIndexes = append(co.RowIndexes, i)
				}
			}
		}
		co.Count = len(co.RowIndexes)
		for _, i := range co.RowIndexes {
			union[i] = struct{}{}
		}
		result.Columns[c.Name] = co
	}

	result.FlaggedRows = make([]int, 0, len(union))
	for i := range union {
		result.FlaggedRows = append(result.FlaggedRows, i)
	}
	sort.Ints(result.FlaggedRows)
	return result, nil
}

// flagOutliersIQR marks rows that fall outside the 1.5 IQR fences of any
// selected column.
func flagOutliersIQR(t *table.Table, cols []table.Column) []bool {
	flagged := make([]bool, t.NumRows())
	for _, c := range cols {
		lo, hi, _, _, ok := profiling.IQRBounds(c.FloatValues())
		if !ok {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				continue
			}
			if v := c.Float(i); v < lo || v > hi {
				flagged[i] = true
			}
		}
	}
	return flagged
}

func flagOutliersZScore(t *table.Table, cols []table.Column, threshold float64) []bool {
	flagged := make([]bool, t.NumRows())
	for _, c := range cols {
		values := c.FloatValues()
		m, s := meanOf(values), stdOf(values)
		if s == 0 {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				continue
			}
			if math.Abs((c.Float(i)-m)/s) > threshold {
				flagged[i] = true
			}
		}
	}
	return flagged
}

const (
	isolationTrees      = 100
	isolationSampleSize = 256
	isolationSeed       = 17
)

// flagOutliersIsolation runs a small isolation forest over the selected
// columns and flags the rows with the highest anomaly scores, up to the
// contamination fraction. The forest is seeded so repeated runs agree.
func flagOutliersIsolation(t *table.Table, cols []table.Column, contamination float64) []bool {
	n := t.NumRows()
	flagged := make([]bool, n)
	if n == 0 || len(cols) == 0 {
		return flagged
	}

	// Rows with any missing value in the selected columns are excluded
	// from the forest rather than imputed.
	features := make([][]float64, 0, n)
	rowOf := make([]int, 0, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		ok := true
		for j, c := range cols {
			if c.IsMissing(i) {
				ok = false
				break
			}
			row[j] = c.Float(i)
		}
		if ok {
			features = append(features, row)
			rowOf = append(rowOf, i)
		}
	}
	if len(features) < 2 {
		return flagged
	}

	rng := rand.New(rand.NewSource(isolationSeed))
	sampleSize := isolationSampleSize
	if sampleSize > len(features) {
		sampleSize = len(features)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))

	depths := make([]float64, len(features))
	for tree := 0; tree < isolationTrees; tree++ {
		sample := rng.Perm(len(features))[:sampleSize]
		root := buildIsolationTree(features, sample, 0, maxDepth, rng)
		for i, row := range features {
			depths[i] += root.pathLength(row, 0)
		}
	}

	c := averagePathLength(sampleSize)
	scores := make([]float64, len(features))
	for i := range depths {
		avg := depths[i] / float64(isolationTrees)
		scores[i] = math.Pow(2, -avg/c)
	}

	flagCount := int(math.Round(contamination * float64(len(features))))
	if flagCount == 0 {
		return flagged
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	for _, idx := range order[:flagCount] {
		// Only genuinely anomalous scores count, even within the
		// contamination budget.
		if scores[idx] > 0.5 {
			flagged[rowOf[idx]] = true
		}
	}
	return flagged
}

type isolationNode struct {
	feature int
	split   float64
	size    int
	left    *isolationNode
	right   *isolationNode
}

func buildIsolationTree(features [][]float64, indexes []int, depth, maxDepth int, rng *rand.Rand) *isolationNode {
	if len(indexes) <= 1 || depth >= maxDepth {
		return &isolationNode{size: len(indexes)}
	}
	dims := len(features[0])
	feature := rng.Intn(dims)
	lo, hi := features[indexes[0]][feature], features[indexes[0]][feature]
	for _, i := range indexes {
		v := features[i][feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &isolationNode{size: len(indexes)}
	}
	split := lo + rng.Float64()*(hi-lo)
	var left, right []int
	for _, i := range indexes {
		if features[i][feature] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &isolationNode{
		feature: feature,
		split:   split,
		size:    len(indexes),
		left:    buildIsolationTree(features, left, depth+1, maxDepth, rng),
		right:   buildIsolationTree(features, right, depth+1, maxDepth, rng),
	}
}

func (n *isolationNode) pathLength(row []float64, depth float64) float64 {
	if n.left == nil {
		return depth + averagePathLength(n.size)
	}
	if row[n.feature] < n.split {
		return n.left.pathLength(row, depth+1)
	}
	return n.right.pathLength(row, depth+1)
}

// averagePathLength is the expected unsuccessful-search depth of a BST
// with n nodes, the standard isolation forest normalizer.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
