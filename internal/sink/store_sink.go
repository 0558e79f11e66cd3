package sink

import (
	"context"
	"fmt"

	"github.com/denizbora/signalscan/internal/storage"
)

// StoreSink appends delivered signals to the signal store.
type StoreSink struct {
	store storage.SignalStore
}

// NewStoreSink creates a store-backed sink.
func NewStoreSink(store storage.SignalStore) (*StoreSink, error) {
	if store == nil {
		return nil, fmt.Errorf("signal store cannot be nil")
	}
	return &StoreSink{store: store}, nil
}

// Name returns the sink name
func (s *StoreSink) Name() string {
	return "store"
}

// Deliver appends the signal as one row.
func (s *StoreSink) Deliver(ctx context.Context, n Notification) error {
	if err := validateNotification(n); err != nil {
		return err
	}
	return s.store.Append(ctx, n.Signal)
}
