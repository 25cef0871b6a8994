package screener

import (
	"strings"
	"testing"
)

func TestClassifyRiskAbsentSecurityInfo(t *testing.T) {
	cfg := testConfig(t)
	c := baseCandidate()

	level, notes := ClassifyRisk(c, nil, cfg)
	if level != RiskMid {
		t.Errorf("level = %s, want MID", level)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "unverified") {
		t.Errorf("notes = %v, want authority unverified", notes)
	}
}

func TestClassifyRiskMintOpen(t *testing.T) {
	cfg := testConfig(t)

	t.Run("below gate valuation is HIGH", func(t *testing.T) {
		c := baseCandidate()
		c.FDVUSD = fp(90000)
		level, _ := ClassifyRisk(c, &SecurityInfo{MintAuthorityOpen: true}, cfg)
		if level != RiskHigh {
			t.Errorf("level = %s, want HIGH", level)
		}
	})

	t.Run("too few transactions is HIGH", func(t *testing.T) {
		c := baseCandidate()
		c.FDVUSD = fp(600000)
		c.BuyCount24h, c.SellCount24h = 100, 50
		level, _ := ClassifyRisk(c, &SecurityInfo{MintAuthorityOpen: true}, cfg)
		if level != RiskHigh {
			t.Errorf("level = %s, want HIGH", level)
		}
	})

	t.Run("explicitly unlocked liquidity is HIGH", func(t *testing.T) {
		c := highActivityCandidate()
		c.LockHint = LockUnlocked
		level, _ := ClassifyRisk(c, &SecurityInfo{MintAuthorityOpen: true}, cfg)
		if level != RiskHigh {
			t.Errorf("level = %s, want HIGH", level)
		}
	})

	t.Run("clearing the gate downgrades to MID", func(t *testing.T) {
		c := highActivityCandidate()
		level, notes := ClassifyRisk(c, &SecurityInfo{MintAuthorityOpen: true}, cfg)
		if level != RiskMid {
			t.Errorf("level = %s, want MID", level)
		}
		if !containsSubstring(notes, "cleared high-activity gate") {
			t.Errorf("notes = %v, want gate note", notes)
		}
	})
}

// highActivityCandidate clears the mint-open gate: high valuation, heavy
// transaction flow and a locked pool.
func highActivityCandidate() *Candidate {
	c := baseCandidate()
	c.FDVUSD = fp(600000)
	c.BuyCount24h, c.SellCount24h = 250, 100
	c.Volume24hUSD = fp(40000) // 2.0x liquidity
	c.LockHint = LockLocked
	return c
}

func TestClassifyRiskLowRequiresAllClear(t *testing.T) {
	cfg := testConfig(t)
	closed := &SecurityInfo{}

	t.Run("clean and locked is LOW", func(t *testing.T) {
		c := baseCandidate()
		level, notes := ClassifyRisk(c, closed, cfg)
		if level != RiskLow {
			t.Errorf("level = %s, want LOW", level)
		}
		if len(notes) != 0 {
			t.Errorf("notes = %v, want none", notes)
		}
	})

	t.Run("freeze open is never LOW", func(t *testing.T) {
		c := baseCandidate()
		level, notes := ClassifyRisk(c, &SecurityInfo{FreezeAuthorityOpen: true}, cfg)
		if level == RiskLow {
			t.Error("freeze authority open must not be LOW")
		}
		if !containsSubstring(notes, "freeze authority open") {
			t.Errorf("notes = %v, want freeze note", notes)
		}
	})

	t.Run("unknown lock is never LOW", func(t *testing.T) {
		c := baseCandidate()
		c.LockHint = LockUnknown
		level, notes := ClassifyRisk(c, closed, cfg)
		if level == RiskLow {
			t.Error("unknown lock hint must not be LOW")
		}
		if !containsSubstring(notes, "lock unknown") {
			t.Errorf("notes = %v, want lock note", notes)
		}
	})

	t.Run("unlocked is never LOW", func(t *testing.T) {
		c := baseCandidate()
		c.LockHint = LockUnlocked
		level, _ := ClassifyRisk(c, closed, cfg)
		if level == RiskLow {
			t.Error("unlocked liquidity must not be LOW")
		}
	})
}

func containsSubstring(notes []string, substr string) bool {
	for _, n := range notes {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}
