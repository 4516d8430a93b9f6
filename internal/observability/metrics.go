// Package observability exposes the process metrics served on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProtocolRounds counts protocol rounds by operation and outcome.
	// Operations: deposit, withdraw, slatepack, balance. Outcomes: ok,
	// error. Policy rejections count as ok here and in PolicyRejections.
	ProtocolRounds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slateboy",
		Name:      "protocol_rounds_total",
		Help:      "Protocol rounds processed, by operation and outcome.",
	}, []string{"operation", "outcome"})

	// PolicyRejections counts operations the policy refused.
	PolicyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slateboy",
		Name:      "policy_rejections_total",
		Help:      "Operations refused by the policy, by operation.",
	}, []string{"operation"})

	// SweepResolutions counts transactions the reconciliation sweep moved
	// to a terminal state, by operation kind and resolution.
	SweepResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slateboy",
		Name:      "sweep_resolutions_total",
		Help:      "Transactions resolved by the sweep, by kind and resolution.",
	}, []string{"kind", "resolution"})

	// SweepErrors counts sweep passes that hit an error.
	SweepErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slateboy",
		Name:      "sweep_errors_total",
		Help:      "Errors encountered during sweep passes, by pass.",
	}, []string{"pass"})

	// OpenTransactions tracks the registry's open transaction count as of
	// the last sweep.
	OpenTransactions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "slateboy",
		Name:      "open_transactions",
		Help:      "Open ledger transactions observed by the last sweep.",
	})
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
