package stattest

import (
	"fmt"
	"math"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// exactMaxN bounds the exact U distribution; above it (or with ties) the
// tie-corrected normal approximation is used.
const exactMaxN = 8

// mannWhitneyCompare is the explicit rank-based two-sample comparison.
func mannWhitneyCompare(a, b table.Column, alpha float64) (*Result, error) {
	x := a.FloatValues()
	y := b.FloatValues()
	res, err := mannWhitneyCore(x, y, alpha)
	if err != nil {
		return nil, err
	}
	res.TestType = TestMannWhitney
	res.Interpretation = fmt.Sprintf(
		"rank comparison of %q and %q: p=%.4g, %s effect",
		a.Name, b.Name, res.PValue, res.EffectSize.Interpretation)
	return res, nil
}

// mannWhitneyCore computes U, its p-value and the rank-biserial effect.
func mannWhitneyCore(x, y []float64, alpha float64) (*Result, error) {
	n1, n2 := len(x), len(y)
	if n1 < 1 || n2 < 1 {
		return nil, apperrors.InsufficientData(
			"mann-whitney needs at least 1 observation per group",
			"choose columns with more present values")
	}

	combined := append(append([]float64(nil), x...), y...)
	ranks, ties := rankAll(combined)

	var r1 float64
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}
	u1 := r1 - float64(n1)*float64(n1+1)/2
	u2 := float64(n1)*float64(n2) - u1
	uMin := math.Min(u1, u2)

	var p float64
	method := "normal_approximation"
	if n1 <= exactMaxN && n2 <= exactMaxN && len(ties) == 0 {
		method = "exact"
		p = exactUTwoSided(uMin, n1, n2)
	} else {
		p = approxUTwoSided(uMin, n1, n2, ties)
	}

	// Rank-biserial correlation as the effect size.
	rb := 1 - 2*uMin/(float64(n1)*float64(n2))
	return &Result{
		TestName:    "Mann-Whitney U test",
		Statistic:   uMin,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		EffectSize: &EffectSize{
			Measure:        "rank_biserial",
			Value:          rb,
			Interpretation: interpretCorrelation(rb),
		},
		MannWhitney: &MannWhitneyDetail{
			U1: u1, U2: u2, N1: n1, N2: n2, Method: method,
		},
	}, nil
}

// exactUTwoSided enumerates the null distribution of U by the standard
// recurrence over rank-sum placements.
func exactUTwoSided(uMin float64, n1, n2 int) float64 {
	// Recurrence c(i, j, u) = c(i-1, j, u-j) + c(i, j-1, u) with
	// memoization over (i, j) layers.
	memo := make(map[[2]int][]float64)
	var layer func(i, j int) []float64
	layer = func(i, j int) []float64 {
		key := [2]int{i, j}
		if v, ok := memo[key]; ok {
			return v
		}
		row := make([]float64, i*j+1)
		if i == 0 || j == 0 {
			row = make([]float64, 1)
			row[0] = 1
			memo[key] = row
			return row
		}
		a := layer(i-1, j)
		b := layer(i, j-1)
		for u := 0; u <= i*j; u++ {
			if u-j >= 0 && u-j < len(a) {
				row[u] += a[u-j]
			}
			if u < len(b) {
				row[u] += b[u]
			}
		}
		memo[key] = row
		return row
	}

	dist := layer(n1, n2)
	var total, below float64
	for u, c := range dist {
		total += c
		if float64(u) <= uMin {
			below += c
		}
	}
	p := 2 * below / total
	if p > 1 {
		p = 1
	}
	return p
}

// approxUTwoSided uses the normal approximation with tie correction and
// continuity correction. Identical values everywhere yield p = 1.
func approxUTwoSided(uMin float64, n1, n2 int, ties []int) float64 {
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	mu := fn1 * fn2 / 2

	tieSum := 0.0
	for _, t := range ties {
		ft := float64(t)
		tieSum += ft*ft*ft - ft
	}
	variance := fn1 * fn2 / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if variance <= 0 {
		return 1
	}
	z := (uMin - mu + 0.5) / math.Sqrt(variance)
	return 2 * stdNormal.CDF(-math.Abs(z))
}
