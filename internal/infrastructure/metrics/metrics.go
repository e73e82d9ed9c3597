package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Mutation metrics
	MutationsTotal    *prometheus.CounterVec
	MutationDuration  prometheus.Histogram
	MutationAmount    prometheus.Histogram
	InsufficientFunds prometheus.Counter
	LockTimeouts      prometheus.Counter

	// Account metrics
	AccountBalance *prometheus.GaugeVec
	AccountsSeeded prometheus.Counter

	// Query metrics
	BalanceCacheHits   prometheus.Counter
	BalanceCacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		MutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minibank_mutations_total",
			Help: "Total number of balance mutations by kind and outcome",
		}, []string{"kind", "outcome"}),
		MutationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibank_mutation_duration_seconds",
			Help:    "Duration of balance mutation operations",
			Buckets: prometheus.DefBuckets,
		}),
		MutationAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibank_mutation_amount",
			Help:    "Mutation amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		InsufficientFunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_insufficient_funds_total",
			Help: "Total number of withdrawals rejected for insufficient funds",
		}),
		LockTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_lock_timeouts_total",
			Help: "Total number of mutations that timed out waiting for the account lock",
		}),
		AccountBalance: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "minibank_account_balance",
			Help: "Last committed balance per account",
		}, []string{"account"}),
		AccountsSeeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_accounts_seeded_total",
			Help: "Total number of accounts created by the seeder",
		}),
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_balance_cache_hits_total",
			Help: "Balance reads served from cache",
		}),
		BalanceCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minibank_balance_cache_misses_total",
			Help: "Balance reads that fell through to storage",
		}),
	}
}

// RecordMutation records the outcome of a mutation attempt.
func (m *Metrics) RecordMutation(kind, outcome string) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveMutation records duration and amount of a successful mutation.
func (m *Metrics) ObserveMutation(seconds, amount float64) {
	if m == nil {
		return
	}
	m.MutationDuration.Observe(seconds)
	m.MutationAmount.Observe(amount)
}

// IncInsufficientFunds counts a rejected overdraft.
func (m *Metrics) IncInsufficientFunds() {
	if m == nil {
		return
	}
	m.InsufficientFunds.Inc()
}

// IncLockTimeout counts a mutation that gave up waiting for the account lock.
func (m *Metrics) IncLockTimeout() {
	if m == nil {
		return
	}
	m.LockTimeouts.Inc()
}

// IncCacheHit counts a balance read served from cache.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.BalanceCacheHits.Inc()
}

// IncCacheMiss counts a balance read that fell through to storage.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.BalanceCacheMisses.Inc()
}

// SetBalance records the last committed balance for an account.
func (m *Metrics) SetBalance(account string, balance float64) {
	if m == nil {
		return
	}
	m.AccountBalance.WithLabelValues(account).Set(balance)
}
