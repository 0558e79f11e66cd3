package indicator

import (
	"fmt"
	"math"

	"github.com/denizbora/signalscan/internal/models"
)

// ATR calculates the Average True Range: an exponential moving average
// of True Range with multiplier 2/(period+1), seeded with the simple
// average of the first `period` True Range values.
type ATR struct {
	period     int
	multiplier float64
	value      float64
	lastTR     float64
	seed       []float64
	prevClose  float64
	ready      bool
	processed  int
}

// NewATR creates a new ATR calculator with the specified period
func NewATR(period int) (*ATR, error) {
	if period < 1 {
		return nil, fmt.Errorf("ATR period must be at least 1, got %d", period)
	}

	return &ATR{
		period:     period,
		multiplier: 2.0 / float64(period+1),
		seed:       make([]float64, 0, period),
	}, nil
}

// Name returns the indicator name
func (a *ATR) Name() string {
	return fmt.Sprintf("atr_%d", a.period)
}

// Update processes a new bar and updates the ATR calculation.
// Returns the current ATR value, or 0 while still seeding.
func (a *ATR) Update(bar models.Bar) (float64, error) {
	if err := bar.Validate(); err != nil {
		return 0, err
	}

	var tr float64
	if a.processed == 0 {
		tr = bar.High - bar.Low
	} else {
		tr = TrueRange(bar, a.prevClose)
	}
	a.lastTR = tr
	a.prevClose = bar.Close
	a.processed++

	if !a.ready {
		a.seed = append(a.seed, tr)
		if len(a.seed) < a.period {
			return 0, nil
		}
		sum := 0.0
		for _, v := range a.seed {
			sum += v
		}
		a.value = sum / float64(a.period)
		a.ready = true
		return a.value, nil
	}

	a.value = a.value + a.multiplier*(tr-a.value)

	if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
		a.value = tr
	}

	return a.value, nil
}

// Value returns the current ATR value
func (a *ATR) Value() (float64, error) {
	if !a.ready {
		return 0, fmt.Errorf("%w: ATR needs at least %d bars, got %d",
			models.ErrInsufficientHistory, a.period, a.processed)
	}
	return a.value, nil
}

// LastTrueRange returns the True Range of the most recent bar
func (a *ATR) LastTrueRange() float64 {
	return a.lastTR
}

// Ratio returns TR/ATR for the most recent bar. A zero ATR (degenerate
// flat series) yields exactly 0, never NaN or Inf.
func (a *ATR) Ratio() (float64, error) {
	atr, err := a.Value()
	if err != nil {
		return 0, err
	}
	if atr == 0 {
		return 0, nil
	}
	return a.lastTR / atr, nil
}

// Reset clears the ATR state
func (a *ATR) Reset() {
	a.value = 0
	a.lastTR = 0
	a.prevClose = 0
	a.seed = a.seed[:0]
	a.ready = false
	a.processed = 0
}

// IsReady returns true if the ATR has enough data
func (a *ATR) IsReady() bool {
	return a.ready
}

// WindowSize returns the number of bars required for a valid value
func (a *ATR) WindowSize() int {
	return a.period
}

// BarsProcessed returns the number of bars processed
func (a *ATR) BarsProcessed() int {
	return a.processed
}
