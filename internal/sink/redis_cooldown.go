package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/pkg/logger"
)

// RedisCooldown is a Cooldown shared across scanner instances,
// backed by Redis SET NX with a TTL.
type RedisCooldown struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCooldown creates a Redis-backed cooldown with the given TTL.
func NewRedisCooldown(cfg RedisConfig, ttl time.Duration) (*RedisCooldown, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cooldown TTL must be positive, got %v", ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCooldown{client: client, ttl: ttl}, nil
}

// ShouldNotify reports whether the signal may be delivered. The SET NX
// both checks and arms the cooldown in one round trip.
func (c *RedisCooldown) ShouldNotify(ctx context.Context, sig *models.Signal) (bool, error) {
	if sig == nil {
		return false, fmt.Errorf("signal cannot be nil")
	}

	key := CooldownKey(sig)
	acquired, err := c.client.SetNX(ctx, key, sig.Symbol, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cooldown: %w", err)
	}

	if !acquired {
		logger.Debug("Signal in cooldown period",
			logger.String("symbol", sig.Symbol),
			logger.String("signal_type", string(sig.SignalType)),
		)
	}
	return acquired, nil
}

// Close closes the Redis connection.
func (c *RedisCooldown) Close() error {
	return c.client.Close()
}
