package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/denizbora/signalscan/internal/models"
)

// Cooldown suppresses repeat notifications for the same symbol and
// signal type within a TTL. Classification itself is stateless; this
// is purely a delivery-layer concern.
type Cooldown interface {
	// ShouldNotify reports whether the signal may be delivered, and
	// arms the cooldown when it may.
	ShouldNotify(ctx context.Context, sig *models.Signal) (bool, error)
}

// CooldownKey builds the dedup key for a signal.
// Format: cooldown:{asset_class}:{symbol}:{signal_type}
func CooldownKey(sig *models.Signal) string {
	return fmt.Sprintf("cooldown:%s:%s:%s", sig.AssetClass, sig.Symbol, sig.SignalType)
}

// MemoryCooldown is an in-process Cooldown for single-instance runs.
type MemoryCooldown struct {
	mu      sync.Mutex
	ttl     time.Duration
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryCooldown creates an in-memory cooldown with the given TTL.
func NewMemoryCooldown(ttl time.Duration) (*MemoryCooldown, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cooldown TTL must be positive, got %v", ttl)
	}
	return &MemoryCooldown{
		ttl:     ttl,
		expires: make(map[string]time.Time),
		now:     time.Now,
	}, nil
}

// ShouldNotify reports whether the signal may be delivered and arms
// the cooldown when it may. Expired entries are dropped lazily.
func (c *MemoryCooldown) ShouldNotify(ctx context.Context, sig *models.Signal) (bool, error) {
	if sig == nil {
		return false, fmt.Errorf("signal cannot be nil")
	}

	key := CooldownKey(sig)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if until, ok := c.expires[key]; ok && now.Before(until) {
		return false, nil
	}
	for k, until := range c.expires {
		if !now.Before(until) {
			delete(c.expires, k)
		}
	}
	c.expires[key] = now.Add(c.ttl)
	return true, nil
}
