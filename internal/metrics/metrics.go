// Package metrics registers the application's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// ScansTotal counts interpreted QR payloads by result:
	// merchant, address or invalid.
	ScansTotal *prometheus.CounterVec

	// PaymentsInitiated counts launched payment links.
	PaymentsInitiated prometheus.Counter

	// PaymentsConfirmed counts user confirmations by outcome:
	// succeeded or failed.
	PaymentsConfirmed *prometheus.CounterVec

	// StateSaveFailures counts best-effort snapshot saves that failed.
	StateSaveFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics on the given
// registerer. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "upitrack_scans_total",
			Help: "Total number of interpreted QR payloads by result",
		}, []string{"result"}),
		PaymentsInitiated: factory.NewCounter(prometheus.CounterOpts{
			Name: "upitrack_payments_initiated_total",
			Help: "Total number of launched payment links",
		}),
		PaymentsConfirmed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "upitrack_payments_confirmed_total",
			Help: "Total number of user confirmations by outcome",
		}, []string{"outcome"}),
		StateSaveFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "upitrack_state_save_failures_total",
			Help: "Total number of failed state snapshot saves",
		}),
	}
}
