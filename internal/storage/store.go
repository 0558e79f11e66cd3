// Package storage persists classified signals as append-only rows.
package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/denizbora/signalscan/internal/models"
)

var (
	signalWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_store_writes_total",
			Help: "Total number of signal store writes by driver and status",
		},
		[]string{"driver", "status"},
	)

	signalWriteLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signal_store_write_latency_seconds",
			Help:    "Signal store write latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"driver"},
	)
)

// SignalStore is the append-only signal persistence interface.
type SignalStore interface {
	// Append writes one signal row. Rows are never updated or deleted.
	Append(ctx context.Context, sig *models.Signal) error

	// List retrieves signals matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*models.Signal, error)

	// Close closes the underlying connection.
	Close() error
}

// Filter defines query options for List.
type Filter struct {
	Symbol     string
	AssetClass models.AssetClass
	SignalType models.SignalType
	Since      time.Time
	Limit      int
}

const defaultListLimit = 100

// limit returns the effective row limit for a filter.
func (f Filter) limit() int {
	if f.Limit <= 0 || f.Limit > 1000 {
		return defaultListLimit
	}
	return f.Limit
}
