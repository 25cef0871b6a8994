package screener

import (
	"time"

	"memescout/internal/geckoterminal"
)

// LockHint is the tri-state liquidity-lock signal derived from feed metadata.
type LockHint int

const (
	LockUnknown LockHint = iota
	LockLocked
	LockUnlocked
)

// lockedLiquidityThresholdPct is the minimum locked-liquidity percentage the
// feed must report before the pool counts as locked.
const lockedLiquidityThresholdPct = 90.0

// Candidate is one normalized pool observation. All fields except Score,
// RiskLevel, RiskNotes and WaveKey are fixed at normalization time.
type Candidate struct {
	Network      string
	PoolID       string
	TokenAddress string
	Symbol       string
	Name         string

	LiquidityUSD      *float64
	FDVUSD            *float64
	Volume24hUSD      *float64
	BuyCount24h       int
	SellCount24h      int
	PriceChange1hPct  *float64
	PriceChange24hPct *float64
	AgeHours          *float64
	LockHint          LockHint

	Score     float64
	RiskLevel RiskLevel
	RiskNotes []string
	WaveKey   string
}

// Key identifies the candidate across runs.
func (c *Candidate) Key() string {
	return c.Network + ":" + c.PoolID
}

// Txns24h is the total 24h transaction count.
func (c *Candidate) Txns24h() int {
	return c.BuyCount24h + c.SellCount24h
}

// VolLiqRatio returns volume24h / liquidity. The second return is false when
// either metric is missing or liquidity is not positive.
func (c *Candidate) VolLiqRatio() (float64, bool) {
	if c.Volume24hUSD == nil || c.LiquidityUSD == nil || *c.LiquidityUSD <= 0 {
		return 0, false
	}
	return *c.Volume24hUSD / *c.LiquidityUSD, true
}

// Normalize maps a raw feed record into a Candidate. Records without a pool
// address are rejected. Missing metrics stay nil and fail any filter that
// references them.
func Normalize(network string, pool *geckoterminal.Pool, now time.Time) (*Candidate, bool) {
	if pool.Attributes.Address == "" {
		return nil, false
	}

	c := &Candidate{
		Network:           network,
		PoolID:            pool.Attributes.Address,
		TokenAddress:      pool.BaseTokenAddress(network),
		Symbol:            pool.BaseSymbol(),
		Name:              pool.Attributes.Name,
		LiquidityUSD:      pool.ReserveUSD(),
		FDVUSD:            pool.FDVUSD(),
		Volume24hUSD:      pool.VolumeUSD24h(),
		BuyCount24h:       pool.Attributes.Transactions.H24.Buys,
		SellCount24h:      pool.Attributes.Transactions.H24.Sells,
		PriceChange1hPct:  pool.PriceChange1h(),
		PriceChange24hPct: pool.PriceChange24h(),
	}

	if created := pool.CreatedAt(); created != nil {
		age := now.Sub(*created).Hours()
		if age < 0 {
			age = 0
		}
		c.AgeHours = &age
	}

	if pct := pool.LockedLiquidityPct(); pct != nil {
		if *pct >= lockedLiquidityThresholdPct {
			c.LockHint = LockLocked
		} else {
			c.LockHint = LockUnlocked
		}
	}

	return c, true
}
