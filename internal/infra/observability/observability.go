// Package observability declares the Prometheus metrics for the ledger
// daemon. Metrics are package-level promauto collectors registered on the
// default registry; the API serves them at /metrics when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Referral Metrics ───────────────────────────────────────────────────────

// Shares counts share attempts by gate decision.
var Shares = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "referral",
	Name:      "shares_total",
	Help:      "Total share attempts by gate decision.",
}, []string{"decision"})

// ReferralsMatured counts pending referrals folded into the total.
var ReferralsMatured = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "referral",
	Name:      "matured_total",
	Help:      "Total pending referrals matured into the running total.",
})

// EarningsCredited counts referral earnings credited to the balance.
var EarningsCredited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "referral",
	Name:      "earnings_credited_total",
	Help:      "Total referral earnings credited to the balance, in dollars.",
})

// ─── Withdrawal Metrics ─────────────────────────────────────────────────────

// Withdrawals counts accepted withdrawal requests by method.
var Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "withdrawal",
	Name:      "requests_total",
	Help:      "Total accepted withdrawal requests by payment method.",
}, []string{"method"})

// WithdrawalsRejected counts withdrawal requests rejected by validation.
var WithdrawalsRejected = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "withdrawal",
	Name:      "rejected_total",
	Help:      "Total withdrawal requests rejected by validation.",
})

// SettlementsResolved counts transactions resolved by settlement passes.
var SettlementsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "settlement",
	Name:      "resolved_total",
	Help:      "Total transactions resolved by settlement passes, by outcome.",
}, []string{"outcome"})

// Balance tracks the current withdrawable balance.
var Balance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "remotask",
	Subsystem: "ledger",
	Name:      "balance",
	Help:      "Current withdrawable balance in dollars.",
})

// ─── Activation Metrics ─────────────────────────────────────────────────────

// Activations counts activation attempts by outcome.
var Activations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "remotask",
	Subsystem: "activation",
	Name:      "attempts_total",
	Help:      "Total account activation attempts by outcome.",
}, []string{"outcome"})
