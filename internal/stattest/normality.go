package stattest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
	"zyra/internal/profiling"
)

const (
	dagostinoMinN   = 8
	shapiroMinN     = 3
	shapiroCeilingN = 5000
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// normalityAssessment evaluates each column independently with two
// complementary tests: D'Agostino K-squared, valid at any size above a
// small floor, and Shapiro-Wilk, valid only up to a sample-size ceiling
// and reported as inapplicable above it.
func normalityAssessment(cols []table.Column, alpha float64) (*Result, error) {
	detail := &NormalityDetail{}

	for _, col := range cols {
		values := col.FloatValues()
		cn := ColumnNormality{
			Column:   col.Name,
			N:        len(values),
			Skewness: profiling.Skewness(values),
			Kurtosis: profiling.Kurtosis(values),
		}

		if len(values) < dagostinoMinN {
			cn.Inapplicable = "fewer than 8 observations; normality not assessable"
			detail.Columns = append(detail.Columns, cn)
			continue
		}

		if k2, p, ok := dagostinoK2(values); ok {
			cn.DAgostino = &SubTest{Statistic: k2, PValue: p}
		} else {
			cn.Inapplicable = "zero variance; normality not assessable"
			detail.Columns = append(detail.Columns, cn)
			continue
		}

		if len(values) <= shapiroCeilingN {
			if w, p, ok := shapiroWilk(values); ok {
				cn.ShapiroWilk = &SubTest{Statistic: w, PValue: p}
			}
		}

		cn.Normal = cn.DAgostino.PValue > alpha &&
			(cn.ShapiroWilk == nil || cn.ShapiroWilk.PValue > alpha)
		detail.Columns = append(detail.Columns, cn)
	}

	if len(detail.Columns) == 0 {
		return nil, apperrors.InsufficientData(
			"no columns could be assessed for normality",
			"provide numeric columns with at least 8 observations")
	}

	res := &Result{
		TestType:  TestNormality,
		TestName:  "Normality assessment (D'Agostino K-squared + Shapiro-Wilk)",
		Alpha:     alpha,
		Normality: detail,
	}
	// The aggregate statistic/p-value reflect the first assessed column so
	// the common fields stay meaningful for single-column requests.
	for _, cn := range detail.Columns {
		if cn.DAgostino != nil {
			res.Statistic = cn.DAgostino.Statistic
			res.PValue = cn.DAgostino.PValue
			res.Significant = cn.DAgostino.PValue < alpha
			break
		}
	}
	return res, nil
}

// dagostinoK2 is the omnibus normality test combining the skewness and
// kurtosis z-scores. Requires n >= 8; ok is false on zero variance.
func dagostinoK2(values []float64) (k2, p float64, ok bool) {
	z1, ok1 := skewTestZ(values)
	z2, ok2 := kurtosisTestZ(values)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	k2 = z1*z1 + z2*z2
	chi2 := distuv.ChiSquared{K: 2}
	return k2, chi2.Survival(k2), true
}

func skewTestZ(values []float64) (float64, bool) {
	n := float64(len(values))
	_, m2, m3 := biasedMoments3(values)
	if m2 == 0 {
		return 0, false
	}
	b1 := m3 / math.Pow(m2, 1.5)
	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if alpha == 0 {
		return 0, false
	}
	t := y / alpha
	return delta * math.Log(t+math.Sqrt(t*t+1)), true
}

func kurtosisTestZ(values []float64) (float64, bool) {
	n := float64(len(values))
	_, m2, _ := biasedMoments3(values)
	if m2 == 0 {
		return 0, false
	}
	var m4 float64
	mu := mean(values)
	for _, v := range values {
		d := v - mu
		m4 += d * d * d * d
	}
	m4 /= n
	b2 := m4 / (m2 * m2)

	e := 3 * (n - 1) / (n + 1)
	variance := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(variance)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, false
	}
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)
	return (term1 - term2) / math.Sqrt(2/(9*a)), true
}

func biasedMoments3(values []float64) (mean, m2, m3 float64) {
	n := float64(len(values))
	for _, v := range values {
		mean += v
	}
	mean /= n
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	return mean, m2, m3
}

// shapiroWilk implements Royston's AS R94 approximation, valid for
// 3 <= n <= 5000. ok is false outside that range or on zero variance.
func shapiroWilk(values []float64) (w, p float64, ok bool) {
	n := len(values)
	if n < shapiroMinN || n > shapiroCeilingN {
		return 0, 0, false
	}
	x := append([]float64(nil), values...)
	sort.Float64s(x)
	if x[0] == x[n-1] {
		return 0, 0, false
	}

	// Expected normal order statistics.
	m := make([]float64, n)
	var mSum float64
	for i := 0; i < n; i++ {
		m[i] = stdNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		mSum += m[i] * m[i]
	}

	// Weights: normalized order statistics with polynomial-corrected tails.
	a := make([]float64, n)
	u := 1 / math.Sqrt(float64(n))
	rsn := math.Sqrt(mSum)
	if n > 5 {
		an := -2.706056*pow5(u) + 4.434685*pow4(u) - 2.071190*pow3(u) -
			0.147981*u*u + 0.221157*u + m[n-1]/rsn
		an1 := -3.582633*pow5(u) + 5.682633*pow4(u) - 1.752461*pow3(u) -
			0.293762*u*u + 0.042981*u + m[n-2]/rsn
		phi := (mSum - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
			(1 - 2*an*an - 2*an1*an1)
		sp := math.Sqrt(phi)
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / sp
		}
		a[n-1], a[n-2] = an, an1
		a[0], a[1] = -an, -an1
	} else {
		an := m[n-1]/rsn + 0.221157*u - 0.147981*u*u -
			2.071190*pow3(u) + 4.434685*pow4(u) - 2.706056*pow5(u)
		phi := (mSum - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
		sp := math.Sqrt(phi)
		for i := 1; i < n-1; i++ {
			a[i] = m[i] / sp
		}
		a[n-1] = an
		a[0] = -an
	}

	mu := mean(x)
	var num, den float64
	for i := 0; i < n; i++ {
		num += a[i] * x[i]
		den += (x[i] - mu) * (x[i] - mu)
	}
	w = num * num / den
	if w > 1 {
		w = 1
	}

	// P-value via the normalizing transforms of Royston (1995).
	switch {
	case n == 3:
		pi6 := 6 / math.Pi
		p = pi6 * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
	case n <= 11:
		fn := float64(n)
		g := -2.273 + 0.459*fn
		mm := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		s := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		z := (-math.Log(g-math.Log(1-w)) - mm) / s
		p = stdNormal.Survival(z)
	default:
		ln := math.Log(float64(n))
		mm := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		s := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		z := (math.Log(1-w) - mm) / s
		p = stdNormal.Survival(z)
	}
	return w, p, true
}

func pow3(x float64) float64 { return x * x * x }
func pow4(x float64) float64 { return x * x * x * x }
func pow5(x float64) float64 { return x * x * x * x * x }
