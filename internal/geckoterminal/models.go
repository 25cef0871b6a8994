package geckoterminal

import (
	"strconv"
	"strings"
	"time"
)

// poolsResponse is the JSON:API envelope returned by the pools endpoints.
type poolsResponse struct {
	Data []Pool `json:"data"`
}

// Timestamp holds a creation time that may arrive as an RFC3339 string or as
// epoch seconds, quoted or not.
type Timestamp string

// UnmarshalJSON accepts both string and number encodings.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp(strings.Trim(strings.TrimSpace(string(data)), `"`))
	return nil
}

// Pool is a single trading pool record. Numeric attributes arrive as strings
// and may be null; accessors convert them on demand.
type Pool struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name                      string  `json:"name"`
		Address                   string  `json:"address"`
		ReserveInUSD              *string `json:"reserve_in_usd"`
		FDVUSD                    *string `json:"fdv_usd"`
		PoolCreatedAt             *Timestamp `json:"pool_created_at"`
		LockedLiquidityPercentage *string `json:"locked_liquidity_percentage"`
		VolumeUSD                 struct {
			H24 *string `json:"h24"`
		} `json:"volume_usd"`
		Transactions struct {
			H24 struct {
				Buys  int `json:"buys"`
				Sells int `json:"sells"`
			} `json:"h24"`
		} `json:"transactions"`
		PriceChangePercentage struct {
			H1  *string `json:"h1"`
			H24 *string `json:"h24"`
		} `json:"price_change_percentage"`
	} `json:"attributes"`
	Relationships struct {
		BaseToken struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"base_token"`
	} `json:"relationships"`
}

// BaseSymbol extracts the base token symbol from the pool name, which is
// formatted as "SYM / QUOTE".
func (p *Pool) BaseSymbol() string {
	name := strings.TrimSpace(p.Attributes.Name)
	if idx := strings.Index(name, " / "); idx >= 0 {
		return strings.TrimSpace(name[:idx])
	}
	return name
}

// BaseTokenAddress strips the "<network>_" prefix from the base token
// relationship id. Returns "" when the relationship is missing.
func (p *Pool) BaseTokenAddress(network string) string {
	id := p.Relationships.BaseToken.Data.ID
	if id == "" {
		return ""
	}
	return strings.TrimPrefix(id, network+"_")
}

// ReserveUSD returns the pool liquidity in USD, or nil when unknown.
func (p *Pool) ReserveUSD() *float64 { return parseFloat(p.Attributes.ReserveInUSD) }

// FDVUSD returns the fully diluted valuation in USD, or nil when unknown.
func (p *Pool) FDVUSD() *float64 { return parseFloat(p.Attributes.FDVUSD) }

// VolumeUSD24h returns the 24h traded volume in USD, or nil when unknown.
func (p *Pool) VolumeUSD24h() *float64 { return parseFloat(p.Attributes.VolumeUSD.H24) }

// Txns24h returns the total 24h transaction count (buys plus sells).
func (p *Pool) Txns24h() int {
	return p.Attributes.Transactions.H24.Buys + p.Attributes.Transactions.H24.Sells
}

// PriceChange1h returns the 1h price change percentage, or nil when unknown.
func (p *Pool) PriceChange1h() *float64 { return parseFloat(p.Attributes.PriceChangePercentage.H1) }

// PriceChange24h returns the 24h price change percentage, or nil when unknown.
func (p *Pool) PriceChange24h() *float64 { return parseFloat(p.Attributes.PriceChangePercentage.H24) }

// LockedLiquidityPct returns the locked liquidity percentage, or nil when the
// feed does not report it.
func (p *Pool) LockedLiquidityPct() *float64 {
	return parseFloat(p.Attributes.LockedLiquidityPercentage)
}

// CreatedAt returns the pool creation time, or nil when missing or
// malformed. Accepts RFC3339 or epoch seconds.
func (p *Pool) CreatedAt() *time.Time {
	if p.Attributes.PoolCreatedAt == nil {
		return nil
	}
	raw := strings.TrimSpace(string(*p.Attributes.PoolCreatedAt))

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.Unix(epoch, 0).UTC()
		return &t
	}
	return nil
}

func parseFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil
	}
	return &f
}
