package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PoolsFetched counts raw pool records per network and feed source.
	PoolsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memescout_pools_fetched_total",
		Help: "Raw pool records fetched from the feed",
	}, []string{"network", "source"})

	// FetchErrors counts failed feed requests per network and source.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memescout_fetch_errors_total",
		Help: "Failed feed requests",
	}, []string{"network", "source"})

	// CandidatesDropped counts candidates rejected per pipeline stage.
	CandidatesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memescout_candidates_dropped_total",
		Help: "Candidates dropped, by pipeline stage",
	}, []string{"stage"})

	// RiskVerdicts counts classifier outcomes per level.
	RiskVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memescout_risk_verdicts_total",
		Help: "Risk classifier verdicts",
	}, []string{"level"})

	// AlertsSent counts dispatched alerts.
	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memescout_alerts_sent_total",
		Help: "Alerts dispatched to the delivery channel",
	})

	// AlertsSuppressed counts eligible candidates that were not dispatched.
	AlertsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memescout_alerts_suppressed_total",
		Help: "Alerts suppressed, by reason",
	}, []string{"reason"})

	// DailyQuotaUsed tracks the current daily alert counter.
	DailyQuotaUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memescout_daily_quota_used",
		Help: "Alerts counted against today's quota",
	})

	// RunDuration observes screening run wall time.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "memescout_run_duration_seconds",
		Help:    "Duration of one screening run",
		Buckets: prometheus.DefBuckets,
	})
)
