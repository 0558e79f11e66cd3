package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizbora/signalscan/internal/models"
)

var testThresholds = models.ThresholdConfig{
	TRATRMin:     2.0,
	ZScoreMin:    2.0,
	ChangePctMin: 2.0,
}

func snapshot(ratio, z, changePct float64) *models.IndicatorSnapshot {
	return &models.IndicatorSnapshot{
		Symbol:       "BTC",
		LastPrice:    67450.0,
		ChangePct:    changePct,
		TRATRRatio:   ratio,
		ReturnZScore: z,
		Timestamp:    time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC),
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(models.SignalNone, testThresholds)
	require.Error(t, err)

	_, err = New(models.SignalBreakout, models.ThresholdConfig{TRATRMin: -1})
	require.Error(t, err)

	c, err := New(models.SignalBreakout, testThresholds)
	require.NoError(t, err)
	assert.Equal(t, models.SignalBreakout, c.Label())
}

func TestClassify_AllGatesPass(t *testing.T) {
	c, err := New(models.SignalBreakout, testThresholds)
	require.NoError(t, err)

	sig := c.Classify(snapshot(2.25, 2.24, 2.45), models.AssetCrypto)

	assert.Equal(t, models.SignalBreakout, sig.SignalType)
	assert.Equal(t, "BTC", sig.Symbol)
	assert.Equal(t, models.AssetCrypto, sig.AssetClass)
	assert.True(t, sig.Actionable())
}

func TestClassify_DirectionalMismatch(t *testing.T) {
	c, _ := New(models.SignalBreakout, testThresholds)

	// Momentum up, price down: countertrend noise, not a signal
	sig := c.Classify(snapshot(2.25, 2.24, -2.45), models.AssetCrypto)

	assert.Equal(t, models.SignalNone, sig.SignalType)
	assert.False(t, sig.Actionable())
}

func TestClassify_BelowVolatilityThreshold(t *testing.T) {
	c, _ := New(models.SignalBreakout, testThresholds)

	sig := c.Classify(snapshot(1.2, 2.24, 2.45), models.AssetCrypto)

	assert.Equal(t, models.SignalNone, sig.SignalType)
}

func TestClassify_BothNegativeAgree(t *testing.T) {
	c, _ := New(models.SignalBreakout, testThresholds)

	sig := c.Classify(snapshot(2.5, -2.4, -3.1), models.AssetStock)

	assert.Equal(t, models.SignalBreakout, sig.SignalType)
}

func TestClassify_ExactZeroFailsDirectionCheck(t *testing.T) {
	// Thresholds of zero still require strict inequality and a
	// non-zero direction on both sides
	c, _ := New(models.SignalTrend, models.ThresholdConfig{})

	assert.Equal(t, models.SignalNone, c.Classify(snapshot(1.0, 0, 1.5), models.AssetStock).SignalType)
	assert.Equal(t, models.SignalNone, c.Classify(snapshot(1.0, 1.5, 0), models.AssetStock).SignalType)
	assert.Equal(t, models.SignalTrend, c.Classify(snapshot(1.0, 1.5, 1.5), models.AssetStock).SignalType)
}

func TestClassify_ThresholdsAreStrict(t *testing.T) {
	c, _ := New(models.SignalBreakout, testThresholds)

	// Values exactly at the cutoff do not pass
	sig := c.Classify(snapshot(2.0, 2.24, 2.45), models.AssetStock)
	assert.Equal(t, models.SignalNone, sig.SignalType)

	sig = c.Classify(snapshot(2.25, 2.0, 2.45), models.AssetStock)
	assert.Equal(t, models.SignalNone, sig.SignalType)

	sig = c.Classify(snapshot(2.25, 2.24, 2.0), models.AssetStock)
	assert.Equal(t, models.SignalNone, sig.SignalType)
}

func TestClassify_DirectionalAgreementInvariant(t *testing.T) {
	c, _ := New(models.SignalBreakout, testThresholds)

	cases := []struct{ ratio, z, pct float64 }{
		{2.25, 2.24, 2.45},
		{2.25, -2.24, -2.45},
		{2.25, 2.24, -2.45},
		{2.25, -2.24, 2.45},
		{3.0, 5.0, 8.0},
		{3.0, -5.0, 8.0},
	}
	for _, tc := range cases {
		sig := c.Classify(snapshot(tc.ratio, tc.z, tc.pct), models.AssetStock)
		if sig.Actionable() {
			assert.Equal(t, sig.ZScore > 0, sig.ChangePct > 0,
				"actionable signal must have agreeing directions: z=%f pct=%f", tc.z, tc.pct)
		}
	}
}

func TestScore_WeightedBlend(t *testing.T) {
	snap := snapshot(2.0, 3.0, 5.0)
	assert.InDelta(t, 0.4*2.0+0.4*3.0+0.2*5.0, Score(snap), 1e-9)
}

func TestScore_TermsAreCapped(t *testing.T) {
	// A 400% mover must not drown out the volatility and momentum terms
	snap := snapshot(2.0, 3.0, 400.0)
	assert.InDelta(t, 0.4*2.0+0.4*3.0+0.2*10.0, Score(snap), 1e-9)

	snap = snapshot(50.0, -80.0, -400.0)
	assert.InDelta(t, 0.4*10.0+0.4*10.0+0.2*10.0, Score(snap), 1e-9)
}

func TestClassify_StrategyAgnosticLabel(t *testing.T) {
	trend, _ := New(models.SignalTrend, testThresholds)
	breakout, _ := New(models.SignalBreakout, testThresholds)

	snap := snapshot(2.25, 2.24, 2.45)
	assert.Equal(t, models.SignalTrend, trend.Classify(snap, models.AssetStock).SignalType)
	assert.Equal(t, models.SignalBreakout, breakout.Classify(snap, models.AssetStock).SignalType)
}
