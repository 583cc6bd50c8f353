package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal counts reconciliation ticks by result
	TicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htlc_relayer_ticks_total",
			Help: "Total number of reconciliation ticks",
		},
		[]string{"result"},
	)

	// TickDuration tracks how long one reconciliation pass takes
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "htlc_relayer_tick_duration_seconds",
			Help:    "Reconciliation tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BlocksScanned counts destination blocks covered by completed ticks
	BlocksScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "htlc_relayer_blocks_scanned_total",
			Help: "Total number of destination blocks scanned",
		},
	)

	// EventsDetected counts transfer completed events seen on the destination ledger
	EventsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "htlc_relayer_events_detected_total",
			Help: "Total number of transfer completed events detected",
		},
	)

	// EventsSkipped counts events that did not lead to a submission
	EventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htlc_relayer_events_skipped_total",
			Help: "Total number of events skipped by reason",
		},
		[]string{"reason"},
	)

	// Finalizations counts finalize attempts by outcome
	Finalizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htlc_relayer_finalizations_total",
			Help: "Total number of finalize attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ErrorsTotal counts errors by component
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "htlc_relayer_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// LastScannedBlock tracks the cursor position
	LastScannedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "htlc_relayer_last_scanned_block",
			Help: "Highest destination block fully processed",
		},
	)
)
