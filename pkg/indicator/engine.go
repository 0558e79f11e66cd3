package indicator

import (
	"fmt"
	"math"

	"github.com/denizbora/signalscan/internal/models"
)

// defaultRSIPeriod is the period for the diagnostic RSI value carried
// on the snapshot.
const defaultRSIPeriod = 14

// Engine turns a bar series into an IndicatorSnapshot. It holds only
// configuration; every Snapshot call computes fresh from its inputs,
// so a single Engine is safe for concurrent use across symbols.
type Engine struct {
	atrPeriod int
	zLookback int
}

// NewEngine creates an indicator engine with the given ATR period and
// Z-score lookback window.
func NewEngine(atrPeriod, zLookback int) (*Engine, error) {
	if atrPeriod < 1 {
		return nil, fmt.Errorf("ATR period must be at least 1, got %d", atrPeriod)
	}
	if zLookback < 2 {
		return nil, fmt.Errorf("z-score lookback must be at least 2, got %d", zLookback)
	}

	return &Engine{
		atrPeriod: atrPeriod,
		zLookback: zLookback,
	}, nil
}

// MinBars returns the number of bars required for a snapshot.
func (e *Engine) MinBars() int {
	n := e.atrPeriod
	if z := e.zLookback + 2; z > n {
		n = z
	}
	return n
}

// Snapshot computes an IndicatorSnapshot for one symbol from its bar
// series, last trade price and reference price. The reference price is
// chosen by the caller (prior close for breakout scanners, session
// open for intraday trend scanners).
//
// Returns ErrInsufficientHistory when the series is shorter than the
// configured windows, or a validation error when the series contains
// non-monotonic timestamps, non-positive prices or non-finite values.
func (e *Engine) Snapshot(symbol string, bars []models.Bar, lastPrice, referencePrice float64) (*models.IndicatorSnapshot, error) {
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}
	if math.IsNaN(lastPrice) || math.IsInf(lastPrice, 0) || lastPrice <= 0 {
		return nil, fmt.Errorf("last price: %w", models.ErrInvalidPrice)
	}
	if math.IsNaN(referencePrice) || math.IsInf(referencePrice, 0) || referencePrice <= 0 {
		return nil, fmt.Errorf("reference price: %w", models.ErrInvalidPrice)
	}
	if len(bars) < e.MinBars() {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d",
			models.ErrInsufficientHistory, symbol, len(bars), e.MinBars())
	}
	if err := models.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}

	atr, err := NewATR(e.atrPeriod)
	if err != nil {
		return nil, err
	}
	zscore, err := NewReturnZScore(e.zLookback)
	if err != nil {
		return nil, err
	}

	for _, bar := range bars {
		if _, err := atr.Update(bar); err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
		if _, err := zscore.Update(bar); err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
	}

	atrValue, err := atr.Value()
	if err != nil {
		return nil, err
	}
	ratio, err := atr.Ratio()
	if err != nil {
		return nil, err
	}
	z, err := zscore.Value()
	if err != nil {
		return nil, err
	}

	return &models.IndicatorSnapshot{
		Symbol:       symbol,
		LastPrice:    lastPrice,
		ChangePct:    ChangePct(lastPrice, referencePrice),
		TrueRange:    atr.LastTrueRange(),
		ATR:          atrValue,
		TRATRRatio:   ratio,
		ReturnZScore: z,
		RSI:          RSI(bars, defaultRSIPeriod),
		Timestamp:    bars[len(bars)-1].Timestamp,
	}, nil
}

// ChangePct computes the percent change of price versus a reference
// price: (price/reference - 1) * 100.
func ChangePct(price, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (price/reference - 1) * 100
}
