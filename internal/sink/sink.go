// Package sink delivers formatted signals to the configured outputs:
// email, the X feed and the signal store. Per-sink failures are
// isolated; one broken channel never blocks the others.
package sink

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/pkg/logger"
)

var sinkDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sink_deliveries_total",
		Help: "Total number of sink deliveries by sink and status",
	},
	[]string{"sink", "status"},
)

// Notification carries one formatted signal to a sink: the canonical
// text line plus the structured fields behind it.
type Notification struct {
	Text   string
	Signal *models.Signal
}

// Sink accepts a notification for delivery.
type Sink interface {
	// Name returns the sink name for logging and metrics
	Name() string

	// Deliver sends one notification
	Deliver(ctx context.Context, n Notification) error
}

// Fanout delivers a notification to every registered sink.
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a fanout over the given sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// DeliverAll sends the notification to every sink, isolating per-sink
// failures. It returns the errors keyed by sink name; an empty map
// means every delivery succeeded.
func (f *Fanout) DeliverAll(ctx context.Context, n Notification) map[string]error {
	failures := make(map[string]error)
	for _, s := range f.sinks {
		if err := s.Deliver(ctx, n); err != nil {
			sinkDeliveriesTotal.WithLabelValues(s.Name(), "error").Inc()
			failures[s.Name()] = err
			logger.Error("Sink delivery failed",
				logger.String("sink", s.Name()),
				logger.String("symbol", n.Signal.Symbol),
				logger.ErrorField(err),
			)
			continue
		}
		sinkDeliveriesTotal.WithLabelValues(s.Name(), "success").Inc()
		logger.Info("Sink delivery succeeded",
			logger.String("sink", s.Name()),
			logger.String("symbol", n.Signal.Symbol),
		)
	}
	return failures
}

func validateNotification(n Notification) error {
	if n.Text == "" {
		return fmt.Errorf("notification text cannot be empty")
	}
	if n.Signal == nil {
		return fmt.Errorf("notification signal cannot be nil")
	}
	return nil
}
