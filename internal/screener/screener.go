package screener

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"memescout/internal/alerts"
	"memescout/internal/config"
	"memescout/internal/geckoterminal"
	"memescout/internal/metrics"
	"memescout/internal/solana"
	"memescout/internal/statestore"
)

// PoolFeed lists pools per network.
type PoolFeed interface {
	TrendingPools(ctx context.Context, network string) ([]geckoterminal.Pool, error)
	NewPools(ctx context.Context, network string) ([]geckoterminal.Pool, error)
}

// AuthorityLookup resolves on-chain mint/freeze authorities for a token.
type AuthorityLookup interface {
	MintAuthorities(ctx context.Context, tokenAddress string) (*solana.MintInfo, error)
}

// Annotator produces optional alert commentary.
type Annotator interface {
	Annotate(ctx context.Context, summary string) (string, error)
}

// Screener runs the screening pipeline: fetch, normalize, filter, score,
// classify risk, cluster waves, then dispatch ranked alerts under the
// persisted dedup/cooldown/quota state.
type Screener struct {
	cfg       *config.Config
	feed      PoolFeed
	authority AuthorityLookup // nil disables on-chain verification
	store     *statestore.Store
	sender    alerts.Sender
	annotator Annotator
	logger    *logrus.Logger
	now       func() time.Time
}

// New creates a Screener.
func New(cfg *config.Config, feed PoolFeed, authority AuthorityLookup, store *statestore.Store, sender alerts.Sender, annotator Annotator, logger *logrus.Logger) *Screener {
	return &Screener{
		cfg:       cfg,
		feed:      feed,
		authority: authority,
		store:     store,
		sender:    sender,
		annotator: annotator,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one screening pass. Per-candidate failures never abort the
// batch; a run that fetches nothing completes with zero alerts.
func (s *Screener) Run(ctx context.Context) error {
	start := s.now()
	snap := s.store.Load(ctx)

	batch := s.fetchBatch(ctx)
	rawCount := len(batch)

	filtered := batch[:0]
	for _, c := range batch {
		if ok, reason := PassesFilters(c, s.cfg); !ok {
			metrics.CandidatesDropped.WithLabelValues(string(reason)).Inc()
			continue
		}
		filtered = append(filtered, c)
	}

	scored := filtered[:0]
	for _, c := range filtered {
		c.Score = ComputeScore(c, s.cfg)
		if c.Score < s.cfg.Score.Min {
			metrics.CandidatesDropped.WithLabelValues("score").Inc()
			continue
		}
		scored = append(scored, c)
	}
	scoredCount := len(scored)

	becameSafer := make(map[string]bool)
	survivors := scored[:0]
	for _, c := range scored {
		sec := s.lookupSecurity(ctx, c)
		level, notes := ClassifyRisk(c, sec, s.cfg)
		c.RiskLevel = level
		c.RiskNotes = notes
		metrics.RiskVerdicts.WithLabelValues(string(level)).Inc()

		key := c.Key()
		if prev, ok := snap.PreviousRisk(key); ok && prev == string(RiskHigh) && level != RiskHigh {
			becameSafer[key] = true
		}
		snap.RecordSeen(key, string(level), start)

		if level == RiskHigh {
			metrics.CandidatesDropped.WithLabelValues("risk_high").Inc()
			continue
		}
		survivors = append(survivors, c)
	}

	groups := AssignWaves(survivors, s.cfg)
	topWaves := TopWaveKeys(groups, s.cfg.Waves.TopWaves)

	snap.ResetDailyIfNeeded(start, s.cfg.Location())
	ordered := prioritize(survivors, topWaves)
	sent := s.dispatch(ctx, ordered, topWaves, becameSafer, snap, start)

	metrics.DailyQuotaUsed.Set(float64(snap.QuotaUsed))
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	s.logger.WithFields(logrus.Fields{
		"raw":        rawCount,
		"filtered":   len(filtered),
		"scored":     scoredCount,
		"survivors":  len(survivors),
		"waves":      len(groups),
		"sent":       sent,
		"quota_used": snap.QuotaUsed,
		"duration":   time.Since(start).Round(time.Millisecond).String(),
	}).Info("Screening run complete")

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist run state: %w", err)
	}
	return nil
}

// fetchBatch pulls trending and new pools for every configured network,
// normalizes them, and collapses duplicates across sources. A failing
// endpoint degrades to fewer records.
func (s *Screener) fetchBatch(ctx context.Context) []*Candidate {
	now := s.now()
	seen := make(map[string]bool)
	var batch []*Candidate

	type source struct {
		name  string
		fetch func(context.Context, string) ([]geckoterminal.Pool, error)
	}
	sources := []source{
		{"trending", s.feed.TrendingPools},
		{"new", s.feed.NewPools},
	}

	for _, network := range s.cfg.Networks {
		for _, src := range sources {
			pools, err := src.fetch(ctx, network)
			if err != nil {
				metrics.FetchErrors.WithLabelValues(network, src.name).Inc()
				s.logger.WithError(err).WithFields(logrus.Fields{
					"network": network,
					"source":  src.name,
				}).Warn("Feed fetch failed, continuing with partial batch")
				continue
			}
			metrics.PoolsFetched.WithLabelValues(network, src.name).Add(float64(len(pools)))

			for i := range pools {
				c, ok := Normalize(network, &pools[i], now)
				if !ok {
					metrics.CandidatesDropped.WithLabelValues("normalize").Inc()
					continue
				}
				if seen[c.Key()] {
					continue
				}
				seen[c.Key()] = true
				batch = append(batch, c)
			}
		}
	}

	return batch
}

// lookupSecurity resolves mint/freeze authorities for Solana candidates.
// Other networks, missing token addresses and lookup failures all yield nil.
func (s *Screener) lookupSecurity(ctx context.Context, c *Candidate) *SecurityInfo {
	if s.authority == nil || c.Network != "solana" || c.TokenAddress == "" {
		return nil
	}

	info, err := s.authority.MintAuthorities(ctx, c.TokenAddress)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"symbol": c.Symbol,
			"token":  c.TokenAddress,
		}).Warn("Authority lookup failed, treating as unverified")
		return nil
	}

	return &SecurityInfo{
		MintAuthorityOpen:   info.MintAuthority != nil,
		FreezeAuthorityOpen: info.FreezeAuthority != nil,
	}
}

// prioritize orders candidates for dispatch: top-wave members first, then
// safer risk, then higher score, with the key as a deterministic tie-break.
func prioritize(candidates []*Candidate, topWaves map[string]bool) []*Candidate {
	ordered := make([]*Candidate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if inA, inB := topWaves[a.WaveKey], topWaves[b.WaveKey]; inA != inB {
			return inA
		}
		if ra, rb := riskRank(a.RiskLevel), riskRank(b.RiskLevel); ra != rb {
			return ra < rb
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Key() < b.Key()
	})

	return ordered
}

// dispatch emits alerts in priority order, stopping at the per-run cap or
// when the daily quota runs out, whichever comes first. State and quota
// advance even when delivery fails, so a stuck candidate cannot monopolize
// every run.
func (s *Screener) dispatch(ctx context.Context, ordered []*Candidate, topWaves map[string]bool, becameSafer map[string]bool, snap *statestore.Snapshot, now time.Time) int {
	sent := 0
	for _, c := range ordered {
		if sent >= s.cfg.Alerting.TopN {
			metrics.AlertsSuppressed.WithLabelValues("run_cap").Inc()
			break
		}
		if snap.QuotaRemaining(s.cfg.Alerting.DailyAlertLimit) == 0 {
			metrics.AlertsSuppressed.WithLabelValues("quota").Inc()
			break
		}

		key := c.Key()
		cooldown := time.Duration(s.cfg.Alerting.CooldownHours * float64(time.Hour))
		if !snap.CanAlert(key, now, cooldown) {
			metrics.AlertsSuppressed.WithLabelValues("cooldown").Inc()
			continue
		}

		payload := s.buildPayload(c, topWaves[c.WaveKey], becameSafer[key])
		if s.annotator != nil {
			if line, err := s.annotator.Annotate(ctx, alerts.FormatText(payload)); err == nil {
				payload.Commentary = line
			}
		}

		if err := s.sender.Send(ctx, payload); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"symbol": c.Symbol,
				"key":    key,
			}).Error("Alert delivery failed")
		}

		snap.MarkAlerted(key, now)
		snap.ConsumeQuota()
		metrics.AlertsSent.Inc()
		sent++
	}
	return sent
}

func (s *Screener) buildPayload(c *Candidate, inTopWave, becameSafer bool) *alerts.AlertPayload {
	ratio, _ := c.VolLiqRatio()
	return &alerts.AlertPayload{
		Network:           c.Network,
		Symbol:            c.Symbol,
		PoolID:            c.PoolID,
		TokenAddress:      c.TokenAddress,
		Score:             c.Score,
		LiquidityUSD:      deref(c.LiquidityUSD),
		Volume24hUSD:      deref(c.Volume24hUSD),
		VolLiqRatio:       ratio,
		FDVUSD:            deref(c.FDVUSD),
		Txns24h:           c.Txns24h(),
		PriceChange1hPct:  deref(c.PriceChange1hPct),
		PriceChange24hPct: deref(c.PriceChange24hPct),
		RiskLevel:         string(c.RiskLevel),
		RiskNotes:         c.RiskNotes,
		BecameSafer:       becameSafer,
		WaveKey:           c.WaveKey,
		InTopWave:         inTopWave,
	}
}
