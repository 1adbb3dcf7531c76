package stattest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// levene runs the median-centered (Brown-Forsythe) variance equality test.
// ok is false when the statistic is undefined (identical spreads or
// degenerate group sizes).
func levene(groups [][]float64) (w, p float64, ok bool) {
	k := len(groups)
	total := 0
	for _, g := range groups {
		total += len(g)
		if len(g) < 2 {
			return 0, 0, false
		}
	}
	if k < 2 || total <= k {
		return 0, 0, false
	}

	// Absolute deviations from each group median.
	z := make([][]float64, k)
	var grand float64
	for i, g := range groups {
		med := median(g)
		z[i] = make([]float64, len(g))
		for j, v := range g {
			z[i][j] = math.Abs(v - med)
			grand += z[i][j]
		}
	}
	grand /= float64(total)

	var between, within float64
	for i := range z {
		m := mean(z[i])
		between += float64(len(z[i])) * (m - grand) * (m - grand)
		for _, v := range z[i] {
			within += (v - m) * (v - m)
		}
	}
	if within == 0 {
		return 0, 0, false
	}
	w = (float64(total-k) / float64(k-1)) * (between / within)
	f := distuv.F{D1: float64(k - 1), D2: float64(total - k)}
	p = f.Survival(w)
	return w, p, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var s float64
	for _, v := range values {
		s += v
	}
	return s / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleVariance is the unbiased (n-1) variance, 0 for n < 2.
func sampleVariance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	var s float64
	for _, v := range values {
		s += (v - m) * (v - m)
	}
	return s / float64(n-1)
}

// rankAll assigns 1-based tie-averaged ranks and reports the tie group
// sizes for variance correction.
func rankAll(values []float64) (ranks []float64, ties []int) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks = make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		if j > i {
			ties = append(ties, j-i+1)
		}
		i = j + 1
	}
	return ranks, ties
}
