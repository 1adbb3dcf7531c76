package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// twoSampleCompare checks normality and variance equality, then picks the
// pooled t-test, Welch's t-test, or the Mann-Whitney fallback.
func twoSampleCompare(a, b table.Column, alpha float64) (*Result, error) {
	x := a.FloatValues()
	y := b.FloatValues()
	if len(x) < 2 || len(y) < 2 {
		return nil, apperrors.InsufficientData(
			"two-sample comparison needs at least 2 observations per group",
			"remove fewer rows or choose columns with more present values")
	}

	var checks []AssumptionCheck
	norm1 := normalityAssumption(a.Name, x, alpha, &checks)
	norm2 := normalityAssumption(b.Name, y, alpha, &checks)

	equalVar := false
	if w, p, ok := levene([][]float64{x, y}); ok {
		equalVar = p > alpha
		checks = append(checks, AssumptionCheck{
			Name:      "equal_variances",
			Satisfied: equalVar,
			PValue:    p,
			Detail:    fmt.Sprintf("Levene W=%.4f (median-centered)", w),
		})
	} else {
		// Undefined spread comparison; the pooled test is still safe.
		equalVar = true
		checks = append(checks, AssumptionCheck{
			Name:      "equal_variances",
			Satisfied: true,
			Detail:    "variance test undefined (degenerate spreads); assuming equal",
		})
	}

	var res *Result
	switch {
	case norm1 && norm2 && equalVar:
		res = studentT(x, y, alpha)
	case norm1 && norm2:
		res = welchT(x, y, alpha)
	default:
		mw, err := mannWhitneyCore(x, y, alpha)
		if err != nil {
			return nil, err
		}
		res = mw
		res.TestName = "Mann-Whitney U (non-parametric fallback)"
	}

	res.TestType = TestTTest
	res.Assumptions = checks
	// A standardized mean difference is reported regardless of variant.
	d := cohensD(x, y)
	res.EffectSize = &EffectSize{
		Measure:        "cohens_d",
		Value:          d,
		Interpretation: interpretCohensD(d),
	}
	res.Interpretation = compareInterpretation(res, a.Name, b.Name)
	return res, nil
}

// normalityAssumption records a check entry and reports whether the sample
// can be treated as normal. Small samples fail toward the non-parametric
// branch.
func normalityAssumption(name string, values []float64, alpha float64, checks *[]AssumptionCheck) bool {
	if len(values) < dagostinoMinN {
		*checks = append(*checks, AssumptionCheck{
			Name:      "normality_" + name,
			Satisfied: false,
			Detail:    "sample too small for normality assessment",
		})
		return false
	}
	k2, p, ok := dagostinoK2(values)
	if !ok {
		*checks = append(*checks, AssumptionCheck{
			Name:      "normality_" + name,
			Satisfied: false,
			Detail:    "zero variance",
		})
		return false
	}
	normal := p > alpha
	*checks = append(*checks, AssumptionCheck{
		Name:      "normality_" + name,
		Satisfied: normal,
		PValue:    p,
		Detail:    fmt.Sprintf("D'Agostino K2=%.4f", k2),
	})
	return normal
}

func studentT(x, y []float64, alpha float64) *Result {
	n1, n2 := float64(len(x)), float64(len(y))
	v1, v2 := sampleVariance(x), sampleVariance(y)
	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))

	t, p := tStatistic(mean(x)-mean(y), se, df)
	return &Result{
		TestName:    "Independent t-test (equal variance)",
		Statistic:   t,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		TwoSample:   twoSampleDetail("student_t", x, y, df),
	}
}

func welchT(x, y []float64, alpha float64) *Result {
	n1, n2 := float64(len(x)), float64(len(y))
	v1, v2 := sampleVariance(x), sampleVariance(y)
	se := math.Sqrt(v1/n1 + v2/n2)

	// Welch-Satterthwaite degrees of freedom.
	df := n1 + n2 - 2
	if v1 > 0 || v2 > 0 {
		num := (v1/n1 + v2/n2) * (v1/n1 + v2/n2)
		den := (v1*v1)/(n1*n1*(n1-1)) + (v2*v2)/(n2*n2*(n2-1))
		if den > 0 {
			df = num / den
		}
	}

	t, p := tStatistic(mean(x)-mean(y), se, df)
	return &Result{
		TestName:    "Welch's t-test (unequal variance)",
		Statistic:   t,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		TwoSample:   twoSampleDetail("welch_t", x, y, df),
	}
}

// tStatistic handles the zero-standard-error degenerate case: identical
// constant samples yield t=0, p=1 instead of a division error.
func tStatistic(diff, se, df float64) (t, p float64) {
	if se == 0 {
		if diff == 0 {
			return 0, 1
		}
		// Distinct constants: the difference is exact.
		return math.Copysign(math.MaxFloat64, diff), 0
	}
	t = diff / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return t, 2 * dist.CDF(-math.Abs(t))
}

func twoSampleDetail(variant string, x, y []float64, df float64) *TwoSampleDetail {
	return &TwoSampleDetail{
		Variant:        variant,
		N1:             len(x),
		N2:             len(y),
		Mean1:          mean(x),
		Mean2:          mean(y),
		Std1:           math.Sqrt(sampleVariance(x)),
		Std2:           math.Sqrt(sampleVariance(y)),
		DegreesFreedom: df,
	}
}

// cohensD is the standardized mean difference with pooled standard
// deviation; 0 when the pooled variance vanishes.
func cohensD(x, y []float64) float64 {
	n1, n2 := float64(len(x)), float64(len(y))
	if n1+n2 <= 2 {
		return 0
	}
	pooled := ((n1-1)*sampleVariance(x) + (n2-1)*sampleVariance(y)) / (n1 + n2 - 2)
	if pooled == 0 {
		return 0
	}
	return (mean(x) - mean(y)) / math.Sqrt(pooled)
}

func compareInterpretation(res *Result, nameA, nameB string) string {
	verdict := "no significant difference"
	if res.Significant {
		verdict = "a significant difference"
	}
	return fmt.Sprintf("%s found between %q and %q (p=%.4g, %s effect)",
		verdict, nameA, nameB, res.PValue, res.EffectSize.Interpretation)
}
