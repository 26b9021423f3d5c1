// Package metrics holds the Prometheus collectors for the graph sync layer.
// Collectors register on the default registry; embedders that expose an
// exporter pick them up automatically.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WritesSubmitted counts every reconciled write submitted to the store.
	WritesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamegraph_writes_submitted_total",
		Help: "Reconciled writes submitted to the graph store",
	})

	// WritesRetried counts writes re-issued by the verification pass.
	WritesRetried = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamegraph_writes_retried_total",
		Help: "Writes re-issued after failing delayed verification",
	})

	// WritesLost counts writes still unverified after the single retry.
	// These are logged but never surfaced to the original caller.
	WritesLost = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamegraph_writes_lost_total",
		Help: "Writes that failed verification even after retry",
	})

	// AckTimeouts counts writes whose ack never arrived inside the bound.
	AckTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamegraph_write_ack_timeouts_total",
		Help: "Writes that settled on the ack timeout instead of a store ack",
	})

	// OpenSubscriptions tracks currently open live subscriptions, nested
	// children included.
	OpenSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamegraph_open_subscriptions",
		Help: "Currently open live store subscriptions",
	})
)
