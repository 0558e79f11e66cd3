package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/denizbora/signalscan/internal/models"
)

// MockProvider is an in-memory BarProvider for tests and dry runs.
type MockProvider struct {
	mu     sync.RWMutex
	bars   map[string][]models.Bar
	prices map[string]float64
	errs   map[string]error
}

// NewMockProvider creates an empty mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		bars:   make(map[string][]models.Bar),
		prices: make(map[string]float64),
		errs:   make(map[string]error),
	}
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return "mock"
}

// SetBars registers a bar series for a symbol.
func (m *MockProvider) SetBars(symbol string, bars []models.Bar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[symbol] = bars
	if len(bars) > 0 {
		m.prices[symbol] = bars[len(bars)-1].Close
	}
}

// SetLastPrice overrides the latest trade price for a symbol.
func (m *MockProvider) SetLastPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

// SetError makes every call for a symbol fail with err.
func (m *MockProvider) SetError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
}

// GetBars returns the registered series for a symbol.
func (m *MockProvider) GetBars(ctx context.Context, symbol string, granularity Granularity, lookback int) ([]models.Bar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	bars, ok := m.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	out := make([]models.Bar, len(bars))
	copy(out, bars)
	return out, nil
}

// GetLastPrice returns the registered latest price for a symbol.
func (m *MockProvider) GetLastPrice(ctx context.Context, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.errs[symbol]; err != nil {
		return 0, err
	}
	price, ok := m.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return price, nil
}

// GenerateSeries builds a synthetic flat-drift bar series: n bars of
// `interval` spacing starting at `start`, opening at base and drifting
// by step per bar. Useful for seeding the mock provider in tests.
func GenerateSeries(symbol string, n int, start time.Time, interval time.Duration, base, step float64) []models.Bar {
	bars := make([]models.Bar, 0, n)
	price := base
	for i := 0; i < n; i++ {
		next := price + step
		high := price
		if next > high {
			high = next
		}
		low := price
		if next < low {
			low = next
		}
		bars = append(bars, models.Bar{
			Symbol:    symbol,
			Timestamp: start.Add(time.Duration(i) * interval),
			Open:      price,
			High:      high * 1.001,
			Low:       low * 0.999,
			Close:     next,
			Volume:    1000,
		})
		price = next
	}
	return bars
}
