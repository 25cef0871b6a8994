package alerts

import (
	"context"
	"fmt"
	"strings"
)

// AlertPayload carries everything a delivery channel needs to render one
// candidate alert.
type AlertPayload struct {
	Network      string
	Symbol       string
	PoolID       string
	TokenAddress string

	Score        float64
	LiquidityUSD float64
	Volume24hUSD float64
	VolLiqRatio  float64
	FDVUSD       float64
	Txns24h      int

	PriceChange1hPct  float64
	PriceChange24hPct float64

	RiskLevel   string
	RiskNotes   []string
	BecameSafer bool

	WaveKey    string
	InTopWave  bool
	Commentary string
}

// PoolURL is the public pool page for this alert.
func (p *AlertPayload) PoolURL() string {
	return fmt.Sprintf("https://www.geckoterminal.com/%s/pools/%s", p.Network, p.PoolID)
}

// FormatText renders the payload as a plain-text message shared by all
// delivery channels.
func FormatText(p *AlertPayload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s — score %.0f/100\n", strings.ToUpper(p.Network), p.Symbol, p.Score)
	fmt.Fprintf(&b, "Liquidity: $%.0f | Vol 24h: $%.0f (%.2fx liq)\n", p.LiquidityUSD, p.Volume24hUSD, p.VolLiqRatio)
	fmt.Fprintf(&b, "FDV: $%.0f | Txns 24h: %d\n", p.FDVUSD, p.Txns24h)
	fmt.Fprintf(&b, "Price: %+.1f%% 1h / %+.1f%% 24h\n", p.PriceChange1hPct, p.PriceChange24hPct)

	fmt.Fprintf(&b, "Risk: %s", p.RiskLevel)
	if len(p.RiskNotes) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(p.RiskNotes, "; "))
	}
	if p.BecameSafer {
		b.WriteString(" — became safer since last seen")
	}
	b.WriteString("\n")

	if p.InTopWave {
		fmt.Fprintf(&b, "Wave: %s\n", p.WaveKey)
	}
	if p.TokenAddress != "" {
		fmt.Fprintf(&b, "Token: %s\n", p.TokenAddress)
	}
	fmt.Fprintf(&b, "%s", p.PoolURL())
	if p.Commentary != "" {
		fmt.Fprintf(&b, "\n\n%s", p.Commentary)
	}

	return b.String()
}

// Sender delivers one alert. Implementations own their retry policy;
// callers treat failures as non-fatal.
type Sender interface {
	Send(ctx context.Context, payload *AlertPayload) error
	Name() string
}
