package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// oneWayANOVA treats each column as one group.
func oneWayANOVA(cols []table.Column, alpha float64) (*Result, error) {
	groups := make([][]float64, 0, len(cols))
	detail := &ANOVADetail{}
	total := 0
	var grandSum float64
	for _, col := range cols {
		g := col.FloatValues()
		if len(g) < 2 {
			return nil, apperrors.InsufficientData(
				fmt.Sprintf("group %q has fewer than 2 observations", col.Name),
				"choose columns with more present values")
		}
		groups = append(groups, g)
		total += len(g)
		for _, v := range g {
			grandSum += v
		}
		detail.Groups = append(detail.Groups, GroupStat{
			Name: col.Name,
			N:    len(g),
			Mean: mean(g),
			Std:  math.Sqrt(sampleVariance(g)),
		})
	}

	k := len(groups)
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		m := mean(g)
		ssBetween += float64(len(g)) * (m - grandMean) * (m - grandMean)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}

	dfBetween := k - 1
	dfWithin := total - k
	detail.DFBetween = dfBetween
	detail.DFWithin = dfWithin

	if ssWithin == 0 {
		if ssBetween == 0 {
			// All groups constant and identical.
			return anovaResult(0, 1, alpha, detail, 0), nil
		}
		return nil, apperrors.Computation(
			"zero within-group variance makes the F statistic undefined",
			"groups are internally constant; compare their means directly")
	}

	f := (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))
	dist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}
	p := dist.Survival(f)
	eta := ssBetween / (ssBetween + ssWithin)

	res := anovaResult(f, p, alpha, detail, eta)

	// Assumption checks inform interpretation; the result stands either way.
	for i, col := range cols {
		if len(groups[i]) >= dagostinoMinN {
			if _, np, ok := dagostinoK2(groups[i]); ok {
				res.Assumptions = append(res.Assumptions, AssumptionCheck{
					Name:      "normality_" + col.Name,
					Satisfied: np > alpha,
					PValue:    np,
				})
			}
		}
	}
	if w, lp, ok := levene(groups); ok {
		res.Assumptions = append(res.Assumptions, AssumptionCheck{
			Name:      "equal_variances",
			Satisfied: lp > alpha,
			PValue:    lp,
			Detail:    fmt.Sprintf("Levene W=%.4f", w),
		})
	}
	return res, nil
}

func anovaResult(f, p, alpha float64, detail *ANOVADetail, eta float64) *Result {
	return &Result{
		TestType:    TestANOVA,
		TestName:    "One-way ANOVA",
		Statistic:   f,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		EffectSize: &EffectSize{
			Measure:        "eta_squared",
			Value:          eta,
			Interpretation: interpretEtaSquared(eta),
		},
		ANOVA: detail,
		Interpretation: fmt.Sprintf(
			"F(%d, %d)=%.4f, p=%.4g, eta-squared=%.3f",
			detail.DFBetween, detail.DFWithin, f, p, eta),
	}
}
