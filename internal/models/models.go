package models

import (
	"math"
	"time"
)

// AssetClass partitions the symbol universe; stocks and crypto carry
// separate threshold bundles.
type AssetClass string

const (
	AssetStock  AssetClass = "stock"
	AssetCrypto AssetClass = "crypto"
)

// Valid reports whether the asset class is a known value.
func (a AssetClass) Valid() bool {
	return a == AssetStock || a == AssetCrypto
}

// SignalType labels a classified signal. The empty value means no
// signal was triggered; the formatter omits the label suffix for it.
type SignalType string

const (
	SignalNone       SignalType = ""
	SignalBreakout   SignalType = "Breakout"
	SignalTrend      SignalType = "Trend"
	SignalMomentum   SignalType = "Momentum"
	SignalVolatility SignalType = "Volatility"
)

// Bar represents a single OHLCV observation
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate validates a Bar
func (b *Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteValue
		}
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return ErrInvalidPrice
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// ValidateSeries validates an ordered bar series: every bar must be
// valid and timestamps must be strictly increasing. Gaps are tolerated.
func ValidateSeries(bars []Bar) error {
	for i := range bars {
		if err := bars[i].Validate(); err != nil {
			return err
		}
		if i > 0 && !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return ErrNonMonotonicSeries
		}
	}
	return nil
}

// IndicatorSnapshot holds the derived statistics for one symbol at one
// evaluation tick. Computed fresh from the latest bars and discarded
// after classification; never persisted.
type IndicatorSnapshot struct {
	Symbol       string    `json:"symbol"`
	LastPrice    float64   `json:"last_price"`
	ChangePct    float64   `json:"change_pct"`
	TrueRange    float64   `json:"true_range"`
	ATR          float64   `json:"atr"`
	TRATRRatio   float64   `json:"tr_atr_ratio"`
	ReturnZScore float64   `json:"return_zscore"`
	RSI          float64   `json:"rsi"`
	Timestamp    time.Time `json:"timestamp"`
}

// Signal is the classifier's output for one symbol. Immutable after
// creation; consumed by the ranker, formatter and sinks.
type Signal struct {
	ID         string     `json:"id,omitempty"`
	Symbol     string     `json:"symbol"`
	Price      float64    `json:"price"`
	ChangePct  float64    `json:"change_pct"`
	TRATRRatio float64    `json:"tr_atr"`
	ZScore     float64    `json:"z_score"`
	SignalType SignalType `json:"signal_type"`
	AssetClass AssetClass `json:"asset_class"`
	Score      float64    `json:"score"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Actionable reports whether the signal carries a non-empty type.
func (s *Signal) Actionable() bool {
	return s.SignalType != SignalNone
}

// Validate validates a Signal
func (s *Signal) Validate() error {
	if s.Symbol == "" {
		return ErrInvalidSymbol
	}
	if s.Price <= 0 {
		return ErrInvalidPrice
	}
	if !s.AssetClass.Valid() {
		return ErrInvalidAssetClass
	}
	if s.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

// ThresholdConfig bundles the classification cutoffs for one asset
// class. Loaded once per run; immutable during a scan pass.
type ThresholdConfig struct {
	TRATRMin     float64 `json:"tr_atr_min"`
	ZScoreMin    float64 `json:"z_score_min"`
	ChangePctMin float64 `json:"change_pct_min"`
}

// Validate validates a ThresholdConfig
func (t ThresholdConfig) Validate() error {
	if t.TRATRMin < 0 || t.ZScoreMin < 0 || t.ChangePctMin < 0 {
		return ErrInvalidThreshold
	}
	return nil
}
