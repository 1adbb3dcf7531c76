package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"zyra/domain/table"
)

// correlationSignificance tests every column pair's Pearson correlation
// with the exact t-distribution transform.
func correlationSignificance(cols []table.Column, alpha float64) (*Result, error) {
	detail := &CorrelationDetail{}

	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			pair, ok := testPair(cols[i], cols[j], alpha)
			if !ok {
				detail.SkippedPairs = append(detail.SkippedPairs,
					cols[i].Name+"/"+cols[j].Name)
				continue
			}
			detail.Pairs = append(detail.Pairs, pair)
			if pair.Significant {
				if detail.StrongestPair == nil ||
					math.Abs(pair.R) > math.Abs(detail.StrongestPair.R) {
					p := pair
					detail.StrongestPair = &p
				}
			}
		}
	}

	res := &Result{
		TestType:    TestCorrelation,
		TestName:    "Pearson correlation significance",
		Alpha:       alpha,
		Correlation: detail,
	}
	if sp := detail.StrongestPair; sp != nil {
		res.Statistic = sp.R
		res.PValue = sp.PValue
		res.Significant = true
		res.EffectSize = &EffectSize{
			Measure:        "pearson_r",
			Value:          sp.R,
			Interpretation: interpretCorrelation(sp.R),
		}
		res.Interpretation = fmt.Sprintf(
			"strongest significant pair %q/%q: r=%.3f, p=%.4g",
			sp.ColumnA, sp.ColumnB, sp.R, sp.PValue)
	} else {
		res.PValue = 1
		res.Interpretation = "no significant pairwise correlation found"
	}
	return res, nil
}

// testPair computes r over pairwise-complete rows and its two-sided
// p-value via t = r*sqrt((n-2)/(1-r^2)). ok is false on zero variance or
// fewer than 3 shared observations.
func testPair(a, b table.Column, alpha float64) (CorrPair, bool) {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		xs = append(xs, a.Float(i))
		ys = append(ys, b.Float(i))
	}
	n := len(xs)
	if n < 3 {
		return CorrPair{}, false
	}
	r, ok := pearsonR(xs, ys)
	if !ok {
		return CorrPair{}, false
	}

	var p float64
	if math.Abs(r) >= 1 {
		p = 0
	} else {
		t := r * math.Sqrt(float64(n-2)/(1-r*r))
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * dist.CDF(-math.Abs(t))
	}
	return CorrPair{
		ColumnA:     a.Name,
		ColumnB:     b.Name,
		R:           r,
		PValue:      p,
		N:           n,
		Significant: p < alpha,
	}, true
}

func pearsonR(xs, ys []float64) (float64, bool) {
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return cov / math.Sqrt(vx*vy), true
}
