package profiling

import "math"

// Skewness returns the adjusted Fisher-Pearson skewness coefficient.
// Returns 0 for degenerate inputs (n < 3 or zero variance) so callers never
// see NaN in serialized output.
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	mean, m2, m3, _ := centralMoments(values)
	if m2 == 0 {
		return 0
	}
	_ = mean
	g1 := m3 / math.Pow(m2, 1.5)
	return math.Sqrt(n*(n-1)) / (n - 2) * g1
}

// Kurtosis returns the bias-adjusted excess kurtosis. Returns 0 for
// degenerate inputs (n < 4 or zero variance).
func Kurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return 0
	}
	_, m2, _, m4 := centralMoments(values)
	if m2 == 0 {
		return 0
	}
	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

func centralMoments(values []float64) (mean, m2, m3, m4 float64) {
	n := float64(len(values))
	for _, v := range values {
		mean += v
	}
	mean /= n
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m3 /= n
	m4 /= n
	return mean, m2, m3, m4
}
