package screener

import (
	"math"

	"memescout/internal/config"
)

// Score weights. They sum to 100 so each sub-score in [0,1] contributes its
// weight directly.
const (
	weightLiquidity = 30.0
	weightValuation = 30.0
	weightVolume    = 20.0
	weightTxns      = 10.0
	weightMomentum  = 10.0
)

// ComputeScore produces a deterministic 0-100 desirability score as a
// weighted sum of clamped sub-scores.
func ComputeScore(c *Candidate, cfg *config.Config) float64 {
	s := cfg.Score

	score := weightLiquidity * proximity(deref(c.LiquidityUSD), s.LiqTargetUSD)
	score += weightValuation * proximity(deref(c.FDVUSD), s.FDVTargetUSD)

	if ratio, ok := c.VolLiqRatio(); ok {
		score += weightVolume * clamp01(ratio/s.VolLiqCap)
	}
	score += weightTxns * clamp01(float64(c.Txns24h())/float64(s.TxCap))
	score += weightMomentum * momentumFactor(c.PriceChange1hPct, cfg)

	return math.Min(100, math.Max(0, score))
}

// proximity is a triangular reward for closeness to a target value, 1 at the
// target and 0 once the distance reaches the target itself.
func proximity(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return clamp01(1 - math.Abs(value-target)/target)
}

// momentumFactor rewards steady appreciation over stagnation or parabolic
// pumps: full factor inside the healthy band, reduced factors outside.
func momentumFactor(pchg1h *float64, cfg *config.Config) float64 {
	if pchg1h == nil {
		return 0
	}
	p := *pchg1h
	switch {
	case p >= cfg.Score.HealthyPchg1hMin && p <= cfg.Score.HealthyPchg1hMax:
		return 1.0
	case p > cfg.Score.HealthyPchg1hMax && p <= cfg.Filters.Pchg1hMax:
		return 0.6
	case p < cfg.Score.HealthyPchg1hMin:
		return 0.2
	default:
		return 0.1
	}
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

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
