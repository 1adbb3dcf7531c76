package stattest

import (
	"fmt"
	"math"

	apperrors "zyra/internal/errors"
)

// Practical significance floor: one percentage point of absolute rate
// difference.
const practicalThreshold = 0.01

// ABRequest holds control/treatment conversion counts and targets.
type ABRequest struct {
	ControlConversions   int     `json:"control_conversions"`
	ControlVisitors      int     `json:"control_visitors"`
	TreatmentConversions int     `json:"treatment_conversions"`
	TreatmentVisitors    int     `json:"treatment_visitors"`
	Alpha                float64 `json:"alpha"`
	TargetPower          float64 `json:"target_power"`
}

// ABResult is the full calculator output.
type ABResult struct {
	ControlRate            float64    `json:"control_rate"`
	TreatmentRate          float64    `json:"treatment_rate"`
	Difference             float64    `json:"difference"`
	RelativeLift           float64    `json:"relative_lift_percent"`
	PooledSE               float64    `json:"pooled_standard_error"`
	ZScore                 float64    `json:"z_score"`
	PValue                 float64    `json:"p_value"`
	Significant            bool       `json:"is_significant"`
	PracticallySignificant bool       `json:"is_practically_significant"`
	ConfidenceInterval     [2]float64 `json:"confidence_interval"`
	EffectSize             float64    `json:"effect_size"`
	RequiredSamplePerGroup int        `json:"required_sample_size_per_group"`
	AchievedPower          float64    `json:"achieved_power"`
	Recommendations        []string   `json:"recommendations"`
}

// ABTest runs the two-proportion z-test with power analysis. Zero-visitor
// groups yield a zero rate and zero pooled variance yields a zero z-score;
// neither is a division error.
func ABTest(req ABRequest) (*ABResult, error) {
	if req.ControlVisitors < 0 || req.TreatmentVisitors < 0 ||
		req.ControlConversions < 0 || req.TreatmentConversions < 0 {
		return nil, apperrors.InvalidInput("counts must be non-negative")
	}
	if req.ControlConversions > req.ControlVisitors ||
		req.TreatmentConversions > req.TreatmentVisitors {
		return nil, apperrors.InvalidInput("conversions cannot exceed visitors")
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, apperrors.InvalidInput("alpha must be in (0, 1)")
	}
	targetPower := req.TargetPower
	if targetPower == 0 {
		targetPower = 0.8
	}
	if targetPower <= 0 || targetPower >= 1 {
		return nil, apperrors.InvalidInput("target power must be in (0, 1)")
	}

	res := &ABResult{}
	n1, n2 := float64(req.ControlVisitors), float64(req.TreatmentVisitors)
	if n1 > 0 {
		res.ControlRate = float64(req.ControlConversions) / n1
	}
	if n2 > 0 {
		res.TreatmentRate = float64(req.TreatmentConversions) / n2
	}
	res.Difference = res.TreatmentRate - res.ControlRate
	if res.ControlRate > 0 {
		res.RelativeLift = res.Difference / res.ControlRate * 100
	}

	// Pooled z-test for the rate difference.
	res.PValue = 1
	if n1 > 0 && n2 > 0 {
		pooled := float64(req.ControlConversions+req.TreatmentConversions) / (n1 + n2)
		res.PooledSE = math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
		if res.PooledSE > 0 {
			res.ZScore = res.Difference / res.PooledSE
			res.PValue = 2 * stdNormal.CDF(-math.Abs(res.ZScore))
		}
	}
	res.Significant = res.PValue < alpha
	res.PracticallySignificant = math.Abs(res.Difference) >= practicalThreshold

	// Confidence interval on the difference uses the unpooled SE.
	zCrit := stdNormal.Quantile(1 - alpha/2)
	var seDiff float64
	if n1 > 0 && n2 > 0 {
		seDiff = math.Sqrt(res.ControlRate*(1-res.ControlRate)/n1 +
			res.TreatmentRate*(1-res.TreatmentRate)/n2)
	}
	res.ConfidenceInterval = [2]float64{
		res.Difference - zCrit*seDiff,
		res.Difference + zCrit*seDiff,
	}

	// Standardized effect size over the average rate.
	pBar := (res.ControlRate + res.TreatmentRate) / 2
	if pBar > 0 && pBar < 1 {
		res.EffectSize = res.Difference / math.Sqrt(pBar*(1-pBar))
	}

	// Inverse power solve for the per-group sample size, and the power
	// achieved at the current sizes.
	es := math.Abs(res.EffectSize)
	if es > 0 {
		zPow := stdNormal.Quantile(targetPower)
		n := 2 * math.Pow((zCrit+zPow)/es, 2)
		res.RequiredSamplePerGroup = int(math.Max(math.Ceil(n), 10))
		if n1 > 0 && n2 > 0 {
			res.AchievedPower = clamp01(stdNormal.CDF(es/math.Sqrt(1/n1+1/n2) - zCrit))
		}
	}

	res.Recommendations = abRecommendations(res, targetPower)
	return res, nil
}

func abRecommendations(r *ABResult, targetPower float64) []string {
	var recs []string
	switch {
	case r.Significant && r.PracticallySignificant:
		direction := "treatment"
		if r.Difference < 0 {
			direction = "control"
		}
		recs = append(recs, fmt.Sprintf(
			"The difference is statistically and practically significant; implement the %s variant.", direction))
	case r.Significant:
		recs = append(recs,
			"The difference is statistically significant but below the practical threshold; weigh implementation cost against the small lift.")
	case r.AchievedPower < targetPower:
		recs = append(recs, fmt.Sprintf(
			"The test is underpowered (%.0f%% vs the %.0f%% target); collect more data before deciding.",
			r.AchievedPower*100, targetPower*100))
		if r.RequiredSamplePerGroup > 0 {
			recs = append(recs, fmt.Sprintf(
				"Approximately %d visitors per group are needed to detect the observed effect.",
				r.RequiredSamplePerGroup))
		}
	default:
		recs = append(recs,
			"No meaningful difference was detected with adequate power; keep the control variant.")
	}
	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
