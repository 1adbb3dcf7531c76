// Package timeseries decomposes a time-indexed numeric series into trend,
// seasonal and residual components and assesses stationarity.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// Request selects the series and an optional seasonal period. Period 0
// means infer from the median sampling interval.
type Request struct {
	TimeColumn  string `json:"time_column"`
	ValueColumn string `json:"value_column"`
	Period      int    `json:"period,omitempty"`
}

// Decomposition is the additive split observed = trend + seasonal + residual.
// Trend and residual are nil at the edges where the centered moving average
// is undefined; they serialize as JSON null there.
type Decomposition struct {
	Times    []time.Time `json:"times"`
	Observed []float64   `json:"observed"`
	Trend    []*float64  `json:"trend"`
	Seasonal []float64   `json:"seasonal"`
	Residual []*float64  `json:"residual"`
	Period   int         `json:"period"`

	Stationarity *ADFResult `json:"stationarity"`
	Insights     []string   `json:"insights"`
}

// Engine runs decompositions. Stateless.
type Engine struct{}

// NewEngine creates an engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Decompose sorts by time, fills gaps by carry-forward then carry-backward,
// and splits the series additively.
func (e *Engine) Decompose(t *table.Table, req Request) (*Decomposition, error) {
	timeCol, ok := t.Column(req.TimeColumn)
	if !ok {
		return nil, apperrors.MissingColumn(req.TimeColumn)
	}
	if timeCol.Kind != table.KindDatetime {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("column %q does not parse as datetime", req.TimeColumn))
	}
	valueCol, ok := t.Column(req.ValueColumn)
	if !ok {
		return nil, apperrors.MissingColumn(req.ValueColumn)
	}
	if !valueCol.IsNumeric() {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("column %q is not numeric", req.ValueColumn))
	}

	// Keep rows with a present timestamp, sorted ascending.
	type point struct {
		t       time.Time
		v       float64
		missing bool
	}
	var pts []point
	for i := 0; i < timeCol.Len(); i++ {
		if timeCol.IsMissing(i) {
			continue
		}
		pts = append(pts, point{
			t:       timeCol.Times[i],
			v:       valueCol.Float(i),
			missing: valueCol.IsMissing(i),
		})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].t.Before(pts[j].t) })

	times := make([]time.Time, len(pts))
	values := make([]float64, len(pts))
	missing := make([]bool, len(pts))
	for i, p := range pts {
		times[i] = p.t
		values[i] = p.v
		missing[i] = p.missing
	}
	if !fillNearest(values, missing) {
		return nil, apperrors.EmptyDataset("value series has no present observations")
	}

	period := req.Period
	if period <= 0 {
		period = inferPeriod(times)
	}
	if period < 2 {
		return nil, apperrors.InvalidInput("seasonal period must be at least 2")
	}
	if len(values) < 2*period {
		return nil, apperrors.InsufficientData(
			fmt.Sprintf("need at least %d observations for period %d, have %d",
				2*period, period, len(values)),
			"supply a longer series, a smaller period, or aggregate to a coarser interval")
	}

	dec := &Decomposition{
		Times:    times,
		Observed: values,
		Period:   period,
	}
	dec.Trend = centeredMovingAverage(values, period)
	dec.Seasonal = seasonalComponent(values, dec.Trend, period)
	dec.Residual = make([]*float64, len(values))
	for i := range values {
		if dec.Trend[i] != nil {
			r := values[i] - *dec.Trend[i] - dec.Seasonal[i]
			dec.Residual[i] = &r
		}
	}

	adf, err := adfTest(values)
	if err == nil {
		dec.Stationarity = adf
	}
	dec.Insights = buildInsights(dec)
	return dec, nil
}

// fillNearest carries values forward, then backward for a leading gap.
// Returns false when every value is missing.
func fillNearest(values []float64, missing []bool) bool {
	last := math.NaN()
	for i := range values {
		if missing[i] {
			if !math.IsNaN(last) {
				values[i] = last
				missing[i] = false
			}
		} else {
			last = values[i]
		}
	}
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if missing[i] {
			if math.IsNaN(next) {
				return false // still a gap after both passes: all missing
			}
			values[i] = next
			missing[i] = false
		} else {
			next = values[i]
		}
	}
	return true
}

// inferPeriod picks a conventional seasonal cycle from the median spacing.
func inferPeriod(times []time.Time) int {
	if len(times) < 2 {
		return 12
	}
	deltas := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		deltas = append(deltas, times[i].Sub(times[i-1]).Hours())
	}
	sort.Float64s(deltas)
	medianHours := deltas[len(deltas)/2]
	switch {
	case medianHours <= 2:
		return 24 // hourly: daily cycle
	case medianHours <= 48:
		return 7 // daily: weekly cycle
	case medianHours <= 24*10:
		return 52 // weekly: yearly cycle
	case medianHours <= 24*45:
		return 12 // monthly: yearly cycle
	case medianHours <= 24*120:
		return 4 // quarterly: yearly cycle
	default:
		return 12
	}
}

// centeredMovingAverage matches the classical decomposition trend: for an
// even period the window is period+1 wide with half weights at the ends.
func centeredMovingAverage(values []float64, period int) []*float64 {
	n := len(values)
	out := make([]*float64, n)
	half := period / 2

	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 1 {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			v := sum / float64(period)
			out[i] = &v
		} else {
			sum = values[i-half]/2 + values[i+half]/2
			for j := i - half + 1; j <= i+half-1; j++ {
				sum += values[j]
			}
			v := sum / float64(period)
			out[i] = &v
		}
	}
	return out
}

// seasonalComponent averages detrended values per phase and centers the
// resulting profile so it sums to zero over one cycle.
func seasonalComponent(values []float64, trend []*float64, period int) []float64 {
	sums := make([]float64, period)
	counts := make([]int, period)
	for i := range values {
		if trend[i] == nil {
			continue
		}
		phase := i % period
		sums[phase] += values[i] - *trend[i]
		counts[phase]++
	}
	profile := make([]float64, period)
	var total float64
	defined := 0
	for p := range profile {
		if counts[p] > 0 {
			profile[p] = sums[p] / float64(counts[p])
			total += profile[p]
			defined++
		}
	}
	if defined > 0 {
		center := total / float64(defined)
		for p := range profile {
			profile[p] -= center
		}
	}
	out := make([]float64, len(values))
	for i := range values {
		out[i] = profile[i%period]
	}
	return out
}

func buildInsights(d *Decomposition) []string {
	var out []string

	// Trend direction from the first and last defined trend segments.
	var first, last []float64
	for _, v := range d.Trend {
		if v != nil {
			if len(first) < d.Period {
				first = append(first, *v)
			}
			last = append(last, *v)
			if len(last) > d.Period {
				last = last[1:]
			}
		}
	}
	if len(first) > 0 && len(last) > 0 {
		fm, lm := meanOf(first), meanOf(last)
		scale := math.Max(math.Abs(fm), math.Abs(lm))
		switch {
		case scale == 0 || math.Abs(lm-fm)/scale < 0.05:
			out = append(out, "The trend is roughly flat over the observed window.")
		case lm > fm:
			out = append(out, fmt.Sprintf("The trend rises about %.1f%% across the observed window.", (lm-fm)/math.Abs(fm)*100))
		default:
			out = append(out, fmt.Sprintf("The trend falls about %.1f%% across the observed window.", (fm-lm)/math.Abs(fm)*100))
		}
	}

	// Seasonality strength per Hyndman: 1 - var(residual)/var(seasonal+residual).
	var resid, both []float64
	for i := range d.Residual {
		if d.Residual[i] != nil {
			resid = append(resid, *d.Residual[i])
			both = append(both, *d.Residual[i]+d.Seasonal[i])
		}
	}
	if vb := varianceOf(both); vb > 0 {
		strength := math.Max(0, 1-varianceOf(resid)/vb)
		switch {
		case strength > 0.6:
			out = append(out, fmt.Sprintf("Seasonality is strong (strength %.2f) with period %d.", strength, d.Period))
		case strength > 0.3:
			out = append(out, fmt.Sprintf("Seasonality is moderate (strength %.2f) with period %d.", strength, d.Period))
		default:
			out = append(out, fmt.Sprintf("Seasonality is weak (strength %.2f); the period %d cycle explains little variance.", strength, d.Period))
		}
	}

	if d.Stationarity != nil {
		if d.Stationarity.Stationary {
			out = append(out, "The series is stationary by the augmented Dickey-Fuller test.")
		} else {
			out = append(out, "The series is non-stationary; consider differencing before modeling.")
		}
	}
	return out
}

func meanOf(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s / float64(len(values))
}

func varianceOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := meanOf(values)
	var s float64
	for _, v := range values {
		s += (v - m) * (v - m)
	}
	return s / float64(len(values)-1)
}
