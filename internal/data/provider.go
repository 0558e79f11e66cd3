package data

import (
	"context"
	"errors"
	"time"

	"github.com/denizbora/signalscan/internal/models"
)

var (
	// ErrUnknownSymbol is returned when the provider has no data for a symbol
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrNoData is returned when the provider returns no bars (e.g. market
	// closed with nothing cached); never silently an empty slice
	ErrNoData = errors.New("no bar data available")
)

// Granularity identifies the bar interval requested from a provider.
type Granularity string

const (
	Granularity1Min  Granularity = "1Min"
	Granularity5Min  Granularity = "5Min"
	Granularity15Min Granularity = "15Min"
	Granularity1Hour Granularity = "1Hour"
	Granularity1Day  Granularity = "1Day"
)

// Duration returns the bar interval as a time.Duration.
func (g Granularity) Duration() time.Duration {
	switch g {
	case Granularity1Min:
		return time.Minute
	case Granularity5Min:
		return 5 * time.Minute
	case Granularity15Min:
		return 15 * time.Minute
	case Granularity1Hour:
		return time.Hour
	case Granularity1Day:
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}

// BarProvider supplies time-ordered OHLCV bars and the latest trade
// price for a symbol. Implementations must fail explicitly on unknown
// symbols or empty responses rather than returning partial data.
type BarProvider interface {
	// GetBars retrieves the latest `lookback` bars for a symbol at the
	// given granularity, ordered oldest first.
	GetBars(ctx context.Context, symbol string, granularity Granularity, lookback int) ([]models.Bar, error)

	// GetLastPrice retrieves the latest trade price for a symbol.
	GetLastPrice(ctx context.Context, symbol string) (float64, error)

	// Name returns the provider name (e.g. "alpaca", "mock")
	Name() string
}
