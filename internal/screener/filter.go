package screener

import "memescout/internal/config"

// DropReason names the filter stage that rejected a candidate.
type DropReason string

const (
	DropNone      DropReason = ""
	DropLiquidity DropReason = "liquidity_band"
	DropValuation DropReason = "fdv_band"
	DropVolLiq    DropReason = "vol_liq_ratio"
	DropTxns      DropReason = "txns24"
	DropMomentum  DropReason = "pchg1h_band"
	DropAge       DropReason = "age"
)

// PassesFilters evaluates the hard numeric bands in fixed order,
// short-circuiting on the first failure. A nil metric fails the filter that
// references it; unknown age passes.
func PassesFilters(c *Candidate, cfg *config.Config) (bool, DropReason) {
	f := cfg.Filters

	if c.LiquidityUSD == nil || *c.LiquidityUSD < f.LiqMinUSD || *c.LiquidityUSD > f.LiqMaxUSD {
		return false, DropLiquidity
	}
	if c.FDVUSD == nil || *c.FDVUSD < f.FDVMinUSD || *c.FDVUSD > f.FDVMaxUSD {
		return false, DropValuation
	}
	ratio, ok := c.VolLiqRatio()
	if !ok || ratio < f.VolLiqMin {
		return false, DropVolLiq
	}
	if c.Txns24h() < f.Txns24Min {
		return false, DropTxns
	}
	if c.PriceChange1hPct == nil || *c.PriceChange1hPct < f.Pchg1hMin || *c.PriceChange1hPct > f.Pchg1hMax {
		return false, DropMomentum
	}
	if c.AgeHours != nil && *c.AgeHours > f.MaxAgeHours {
		return false, DropAge
	}

	return true, DropNone
}
