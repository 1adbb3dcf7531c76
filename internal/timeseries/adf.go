package timeseries

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	apperrors "zyra/internal/errors"
)

// ADFResult is the augmented Dickey-Fuller unit-root test outcome for the
// constant-only regression. Stationary iff p < 0.05.
type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	Lags           int                `json:"lags"`
	NObs           int                `json:"n_obs"`
	Stationary     bool               `json:"stationary"`
	CriticalValues map[string]float64 `json:"critical_values"`
}

// adfTest regresses the first difference on a constant, the lagged level
// and lagged differences, then maps the tau statistic to an approximate
// p-value.
func adfTest(series []float64) (*ADFResult, error) {
	n := len(series)
	if n < 10 {
		return nil, apperrors.InsufficientData(
			"augmented Dickey-Fuller needs at least 10 observations",
			"supply a longer series")
	}

	// Schwert's rule for the lag order, bounded by what the sample allows.
	lags := int(math.Floor(12 * math.Pow(float64(n)/100, 0.25)))
	if max := (n - 3) / 2; lags > max {
		lags = max
	}
	if lags < 0 {
		lags = 0
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = series[i] - series[i-1]
	}

	// Rows: t = lags .. len(diff)-1. Columns: constant, y_{t-1}, lagged diffs.
	rows := len(diff) - lags
	colsN := 2 + lags
	if rows <= colsN {
		return nil, apperrors.InsufficientData(
			"too few observations for the chosen lag order",
			"supply a longer series")
	}

	X := mat.NewDense(rows, colsN, nil)
	y := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := r + lags
		y.SetVec(r, diff[t])
		X.Set(r, 0, 1)
		X.Set(r, 1, series[t]) // level lagged one step behind diff[t]
		for l := 1; l <= lags; l++ {
			X.Set(r, 1+l, diff[t-l])
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(X, y); err != nil {
		return nil, apperrors.Computation(
			"dickey-fuller regression is singular",
			"the series may be constant; stationarity is undefined")
	}

	// Residual variance and the standard error of the level coefficient.
	var fitted mat.VecDense
	fitted.MulVec(X, &beta)
	var rss float64
	for r := 0; r < rows; r++ {
		d := y.AtVec(r) - fitted.AtVec(r)
		rss += d * d
	}
	sigma2 := rss / float64(rows-colsN)

	var xtx, inv mat.Dense
	xtx.Mul(X.T(), X)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, apperrors.Computation(
			"dickey-fuller regression is singular",
			"the series may be constant; stationarity is undefined")
	}
	se := math.Sqrt(sigma2 * inv.At(1, 1))
	if se == 0 {
		return nil, apperrors.Computation(
			"zero standard error in the dickey-fuller regression",
			"the series may be constant; stationarity is undefined")
	}

	tau := beta.AtVec(1) / se
	p := mackinnonP(tau)
	return &ADFResult{
		Statistic:  tau,
		PValue:     p,
		Lags:       lags,
		NObs:       rows,
		Stationary: p < 0.05,
		CriticalValues: map[string]float64{
			"1%":  -3.43,
			"5%":  -2.86,
			"10%": -2.57,
		},
	}, nil
}

// mackinnonP interpolates the constant-only tau distribution over anchor
// quantiles of MacKinnon's tabulation.
func mackinnonP(tau float64) float64 {
	anchors := []struct{ tau, p float64 }{
		{-5.0, 0.00001},
		{-4.3, 0.0001},
		{-3.96, 0.001},
		{-3.43, 0.01},
		{-3.12, 0.025},
		{-2.86, 0.05},
		{-2.57, 0.10},
		{-2.23, 0.25},
		{-1.62, 0.50},
		{-0.94, 0.75},
		{-0.44, 0.90},
		{-0.07, 0.95},
		{0.23, 0.975},
		{0.60, 0.99},
		{1.50, 0.9999},
	}
	if tau <= anchors[0].tau {
		return anchors[0].p
	}
	last := anchors[len(anchors)-1]
	if tau >= last.tau {
		return last.p
	}
	i := sort.Search(len(anchors), func(i int) bool { return anchors[i].tau >= tau })
	lo, hi := anchors[i-1], anchors[i]
	frac := (tau - lo.tau) / (hi.tau - lo.tau)
	return lo.p + frac*(hi.p-lo.p)
}
