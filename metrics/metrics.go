// Package metrics exposes Prometheus counters for the verification flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeGranted       = "granted"
	OutcomeAlreadyUsed   = "already_used"
	OutcomeNotFound      = "not_found"
	OutcomeGrantRejected = "grant_rejected"
	OutcomeGrantError    = "grant_error"
)

var (
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verify_tokens_issued_total",
		Help: "Verification tokens issued.",
	})

	Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verify_redemptions_total",
		Help: "Redemption attempts by outcome.",
	}, []string{"outcome"})
)
