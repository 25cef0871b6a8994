package screener

import "memescout/internal/config"

// RiskLevel is the three-level security verdict.
type RiskLevel string

const (
	RiskHigh RiskLevel = "HIGH"
	RiskMid  RiskLevel = "MID"
	RiskLow  RiskLevel = "LOW"
)

// SecurityInfo is the result of an on-chain authority lookup. A nil
// *SecurityInfo means the lookup failed or no token address was known, which
// is a distinct state from "both closed".
type SecurityInfo struct {
	MintAuthorityOpen   bool
	FreezeAuthorityOpen bool
}

// ClassifyRisk combines authority flags, the liquidity-lock hint and market
// activity into a verdict plus rationale notes.
//
// An open mint authority is HIGH outright unless the candidate clears the
// stricter mint-open gate (valuation, transactions, volume ratio, and a lock
// hint that is not explicitly unlocked). Missing security info never
// escalates to HIGH. LOW requires both authorities closed and an explicit
// lock.
func ClassifyRisk(c *Candidate, sec *SecurityInfo, cfg *config.Config) (RiskLevel, []string) {
	if sec == nil {
		return RiskMid, []string{"authority unverified"}
	}

	var notes []string

	if sec.MintAuthorityOpen {
		if !passesMintOpenGate(c, cfg) {
			return RiskHigh, []string{"mint authority open: supply can still be inflated"}
		}
		notes = append(notes, "mint authority open, cleared high-activity gate")
	}

	if sec.FreezeAuthorityOpen {
		notes = append(notes, "freeze authority open")
	}
	switch c.LockHint {
	case LockUnlocked:
		notes = append(notes, "liquidity not locked")
	case LockUnknown:
		notes = append(notes, "liquidity lock unknown")
	}

	if !sec.MintAuthorityOpen && !sec.FreezeAuthorityOpen && c.LockHint == LockLocked {
		return RiskLow, notes
	}
	return RiskMid, notes
}

func passesMintOpenGate(c *Candidate, cfg *config.Config) bool {
	gate := cfg.MintOpenGate

	if c.FDVUSD == nil || *c.FDVUSD < gate.FDVMinUSD {
		return false
	}
	if c.Txns24h() < gate.Txns24Min {
		return false
	}
	ratio, ok := c.VolLiqRatio()
	if !ok || ratio < gate.VolLiqMin {
		return false
	}
	return c.LockHint != LockUnlocked
}

// riskRank orders verdicts for prioritization, safest first.
func riskRank(level RiskLevel) int {
	switch level {
	case RiskLow:
		return 0
	case RiskMid:
		return 1
	default:
		return 2
	}
}
