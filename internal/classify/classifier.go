// Package classify decides whether an indicator snapshot is an
// actionable signal. One classifier instance serves every scanner
// strategy; the strategy supplies its own label and threshold bundle.
package classify

import (
	"fmt"
	"math"

	"github.com/denizbora/signalscan/internal/models"
)

// Score blend weights. Each term is capped before weighting so no
// single factor dominates numerically (raw Z-scores and raw percent
// changes are not naturally on the same scale).
const (
	weightTRATR     = 0.4
	weightZScore    = 0.4
	weightChangePct = 0.2
	scoreTermCap    = 10.0
)

// Classifier applies a threshold bundle to indicator snapshots and
// assigns a strategy label when all gates pass. It is stateless and
// memoryless across ticks; cooldown and deduplication belong to the
// sink layer.
type Classifier struct {
	label      models.SignalType
	thresholds models.ThresholdConfig
}

// New creates a classifier for one strategy. The label is assigned to
// every snapshot that passes the gates (e.g. Breakout for the
// ATR/Z-score scanner, Trend for the intraday mover scanner).
func New(label models.SignalType, thresholds models.ThresholdConfig) (*Classifier, error) {
	if label == models.SignalNone {
		return nil, fmt.Errorf("classifier label cannot be empty")
	}
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	return &Classifier{
		label:      label,
		thresholds: thresholds,
	}, nil
}

// Label returns the strategy label this classifier assigns.
func (c *Classifier) Label() models.SignalType {
	return c.label
}

// Classify produces a Signal for one snapshot. The signal type is
// non-empty iff all four gates hold:
//
//  1. tr_atr_ratio > TRATRMin
//  2. |z_score| > ZScoreMin
//  3. |change_pct| > ChangePctMin
//  4. sign(z_score) == sign(change_pct); an exact zero on either side
//     fails the check.
func (c *Classifier) Classify(snap *models.IndicatorSnapshot, assetClass models.AssetClass) *models.Signal {
	signalType := models.SignalNone
	if c.passes(snap) {
		signalType = c.label
	}

	return &models.Signal{
		Symbol:     snap.Symbol,
		Price:      snap.LastPrice,
		ChangePct:  snap.ChangePct,
		TRATRRatio: snap.TRATRRatio,
		ZScore:     snap.ReturnZScore,
		SignalType: signalType,
		AssetClass: assetClass,
		Score:      Score(snap),
		Timestamp:  snap.Timestamp,
	}
}

func (c *Classifier) passes(snap *models.IndicatorSnapshot) bool {
	if snap.TRATRRatio <= c.thresholds.TRATRMin {
		return false
	}
	if math.Abs(snap.ReturnZScore) <= c.thresholds.ZScoreMin {
		return false
	}
	if math.Abs(snap.ChangePct) <= c.thresholds.ChangePctMin {
		return false
	}
	// Directional agreement: a countertrend blip where momentum and
	// volatility disagree is noise, not a signal.
	return sameSign(snap.ReturnZScore, snap.ChangePct)
}

func sameSign(a, b float64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return (a > 0) == (b > 0)
}

// Score computes the ranking key for a snapshot:
// 0.4*tr_atr + 0.4*|z| + 0.2*|change_pct|, each term capped at
// scoreTermCap so the blend stays comparable across symbols.
func Score(snap *models.IndicatorSnapshot) float64 {
	return weightTRATR*capTerm(snap.TRATRRatio) +
		weightZScore*capTerm(math.Abs(snap.ReturnZScore)) +
		weightChangePct*capTerm(math.Abs(snap.ChangePct))
}

func capTerm(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Min(v, scoreTermCap)
}
