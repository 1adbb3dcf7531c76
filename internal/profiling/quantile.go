package profiling

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile (0 <= p <= 1) of values using linear
// interpolation between order statistics at rank p*(n-1). This is the
// single quantile definition shared by the profiler, the pipeline and the
// test engine so IQR bounds agree everywhere.
func Quantile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0], true
	}
	if p >= 1 {
		return sorted[len(sorted)-1], true
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo], true
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), true
}

// IQRBounds returns the outlier fences [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
// ok is false when values is empty.
func IQRBounds(values []float64) (lower, upper, q1, q3 float64, ok bool) {
	q1, ok1 := Quantile(values, 0.25)
	q3, ok3 := Quantile(values, 0.75)
	if !ok1 || !ok3 {
		return 0, 0, 0, 0, false
	}
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr, q1, q3, true
}

// CountOutliersIQR counts values outside the IQR fences.
func CountOutliersIQR(values []float64) int {
	lower, upper, _, _, ok := IQRBounds(values)
	if !ok {
		return 0
	}
	n := 0
	for _, v := range values {
		if v < lower || v > upper {
			n++
		}
	}
	return n
}
