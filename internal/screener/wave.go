package screener

import (
	"fmt"
	"sort"
	"strings"

	"memescout/internal/config"
)

const fragmentLen = 4

// WaveGroup is a cluster of candidates sharing a wave key, ranked by
// aggregate activity.
type WaveGroup struct {
	Key     string
	Members []*Candidate
	Score   float64
}

// AssignWaves assigns a WaveKey to every candidate in the batch and returns
// the groups ranked descending by group score. Symbols sharing a hot
// 4-character prefix or suffix cluster together; the rest fall back to an
// age/valuation bucket. The result is deterministic for a fixed batch.
func AssignWaves(batch []*Candidate, cfg *config.Config) []WaveGroup {
	prefixCount := make(map[string]int)
	suffixCount := make(map[string]int)

	fragments := make([]struct{ prefix, suffix string }, len(batch))
	for i, c := range batch {
		norm := normalizeSymbol(c.Symbol)
		if len(norm) >= fragmentLen {
			fragments[i].prefix = norm[:fragmentLen]
			fragments[i].suffix = norm[len(norm)-fragmentLen:]
			prefixCount[fragments[i].prefix]++
			suffixCount[fragments[i].suffix]++
		}
	}

	hot := cfg.Waves.HotFragmentMin
	for i, c := range batch {
		switch {
		case fragments[i].prefix != "" && prefixCount[fragments[i].prefix] >= hot:
			c.WaveKey = "prefix:" + fragments[i].prefix
		case fragments[i].suffix != "" && suffixCount[fragments[i].suffix] >= hot:
			c.WaveKey = "suffix:" + fragments[i].suffix
		default:
			c.WaveKey = "bucket:" + ageBucket(c.AgeHours) + "|" + fdvBucket(c.FDVUSD, cfg.Waves.FDVBandsUSD)
		}
	}

	groups := make(map[string]*WaveGroup)
	var order []string
	for _, c := range batch {
		g, ok := groups[c.WaveKey]
		if !ok {
			g = &WaveGroup{Key: c.WaveKey}
			groups[c.WaveKey] = g
			order = append(order, c.WaveKey)
		}
		g.Members = append(g.Members, c)
	}

	ranked := make([]WaveGroup, 0, len(groups))
	sort.Strings(order)
	for _, key := range order {
		g := groups[key]
		g.Score = groupScore(g, cfg)
		ranked = append(ranked, *g)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// TopWaveKeys returns the keys of the highest-ranked groups.
func TopWaveKeys(groups []WaveGroup, topWaves int) map[string]bool {
	keys := make(map[string]bool)
	for i := 0; i < len(groups) && i < topWaves; i++ {
		keys[groups[i].Key] = true
	}
	return keys
}

func groupScore(g *WaveGroup, cfg *config.Config) float64 {
	var volSum, txSum float64
	for _, c := range g.Members {
		volSum += deref(c.Volume24hUSD)
		txSum += float64(c.Txns24h())
	}
	return float64(len(g.Members)) + volSum/cfg.Waves.VolumeDivisor + txSum/cfg.Waves.TxDivisor
}

func normalizeSymbol(symbol string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(symbol) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ageBucket(ageHours *float64) string {
	if ageHours == nil {
		return "age-unknown"
	}
	switch age := *ageHours; {
	case age <= 2:
		return "0-2h"
	case age <= 6:
		return "2-6h"
	case age <= 12:
		return "6-12h"
	default:
		return "12-24h"
	}
}

func fdvBucket(fdv *float64, bands []float64) string {
	if fdv == nil {
		return "fdv-unknown"
	}
	for i, edge := range bands {
		if *fdv < edge {
			return fmt.Sprintf("fdv%d", i)
		}
	}
	return fmt.Sprintf("fdv%d", len(bands))
}
