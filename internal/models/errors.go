package models

import "errors"

var (
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvalidBar         = errors.New("invalid bar (high < low)")
	ErrInvalidVolume      = errors.New("invalid volume")
	ErrInvalidAssetClass  = errors.New("invalid asset class")
	ErrInvalidThreshold   = errors.New("invalid threshold (must be non-negative)")
	ErrNonFiniteValue     = errors.New("invalid bar series: NaN or Inf value")
	ErrNonMonotonicSeries = errors.New("invalid bar series: timestamps not strictly increasing")

	// ErrInsufficientHistory is returned when a bar series is too short
	// for the configured ATR period or Z-score lookback. Callers skip
	// the symbol for the current tick.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrNoActionableSignal is a normal outcome, not a failure: the
	// batch produced zero signals worth notifying about.
	ErrNoActionableSignal = errors.New("no actionable signal")
)
