package report

import (
	"math"

	"zyra/domain/table"
	"zyra/internal/correlate"
	"zyra/internal/profiling"
)

// Histogram is the binned payload for one numeric column.
type Histogram struct {
	Column string    `json:"column"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Heatmap is the correlation matrix payload for rendering.
type Heatmap struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// MissingBar is one column's missingness for a bar chart.
type MissingBar struct {
	Column  string  `json:"column"`
	Missing int     `json:"missing"`
	Ratio   float64 `json:"ratio"`
}

// Visualizations holds render-ready payloads, not rendered images.
type Visualizations struct {
	Histograms  []Histogram  `json:"histograms,omitempty"`
	Heatmap     *Heatmap     `json:"correlation_heatmap,omitempty"`
	MissingBars []MissingBar `json:"missing_bars,omitempty"`
}

const (
	histogramBins      = 20
	histogramColumnCap = 10
)

func buildVisualizations(t *table.Table, profile *profiling.Profile, corr *correlate.Result) *Visualizations {
	viz := &Visualizations{}

	count := 0
	for _, col := range t.NumericColumns() {
		if count >= histogramColumnCap {
			break
		}
		if h := histogram(col); h != nil {
			viz.Histograms = append(viz.Histograms, *h)
			count++
		}
	}

	if corr != nil && corr.Matrix != nil && len(corr.Matrix.Columns) > 1 {
		viz.Heatmap = &Heatmap{Columns: corr.Matrix.Columns, Values: corr.Matrix.Values}
	}

	for _, cp := range profile.Columns {
		if cp.MissingCount > 0 {
			viz.MissingBars = append(viz.MissingBars, MissingBar{
				Column:  cp.Name,
				Missing: cp.MissingCount,
				Ratio:   cp.MissingRatio,
			})
		}
	}
	return viz
}

func histogram(col table.Column) *Histogram {
	values := col.FloatValues()
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	h := &Histogram{Column: col.Name}
	if lo == hi {
		h.Edges = []float64{lo, hi}
		h.Counts = []int{len(values)}
		return h
	}

	width := (hi - lo) / histogramBins
	for i := 0; i <= histogramBins; i++ {
		h.Edges = append(h.Edges, lo+float64(i)*width)
	}
	h.Counts = make([]int, histogramBins)
	for _, v := range values {
		bin := int(math.Floor((v - lo) / width))
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		h.Counts[bin]++
	}
	return h
}
