package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanSymbolsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_symbols_total",
			Help: "Total number of symbol evaluations by outcome",
		},
		[]string{"status"}, // "ok", "skipped", "failed"
	)

	scanFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_failures_total",
			Help: "Total number of symbol evaluation failures by reason",
		},
		[]string{"reason"}, // "insufficient_history", "invalid_series", "provider", "other"
	)

	scanSignalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_signals_total",
			Help: "Total number of actionable signals by type and asset class",
		},
		[]string{"signal_type", "asset_class"},
	)

	scanPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_pass_duration_seconds",
			Help:    "Duration of a full scan pass in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
	)
)
