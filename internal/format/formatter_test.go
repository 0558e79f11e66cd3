package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizbora/signalscan/internal/models"
)

func sig(symbol string, price, changePct, ratio, z float64, signalType models.SignalType) *models.Signal {
	return &models.Signal{
		Symbol:     symbol,
		Price:      price,
		ChangePct:  changePct,
		TRATRRatio: ratio,
		ZScore:     z,
		SignalType: signalType,
		AssetClass: models.AssetCrypto,
		Timestamp:  time.Now(),
	}
}

func TestLine_BreakoutSignal(t *testing.T) {
	f := NewFormatter()

	line := f.Line(sig("BTC", 67450.0, 2.45, 2.25, 2.24, models.SignalBreakout))
	assert.Equal(t, "$BTC $67,450 +2.45% | 2.25x ATR | Z 2.24 | Breakout", line)
}

func TestLine_NoSignalOmitsSuffix(t *testing.T) {
	f := NewFormatter()

	line := f.Line(sig("BTC", 67450.0, -2.45, 2.25, 2.24, models.SignalNone))
	assert.Equal(t, "$BTC $67,450 -2.45% | 2.25x ATR | Z 2.24", line)
	assert.False(t, strings.HasSuffix(line, "| "))
}

func TestLine_NegativeChangeKeepsSign(t *testing.T) {
	f := NewFormatter()

	line := f.Line(sig("AMD", 161.37, -3.21, 2.10, -2.50, models.SignalBreakout))
	assert.Contains(t, line, "-3.21%")
	assert.NotContains(t, line, "+-")
	assert.Contains(t, line, "Z -2.50")
}

func TestLine_PositiveChangeShowsPlus(t *testing.T) {
	f := NewFormatter()

	line := f.Line(sig("NVDA", 875.50, 3.21, 2.10, 2.50, models.SignalTrend))
	assert.Equal(t, "$NVDA $875.50 +3.21% | 2.10x ATR | Z 2.50 | Trend", line)
}

func TestPrice_ThousandsBoundary(t *testing.T) {
	f := NewFormatter()

	// The boundary is on the raw value: just under 1000 keeps its two
	// decimals even when rounding lands on 1000.00
	assert.Equal(t, "$999.99", f.Price(999.994))
	assert.Equal(t, "$1,000.00", f.Price(999.995))
	assert.Equal(t, "$1,000.00", f.Price(999.999))
	assert.Equal(t, "$1,000", f.Price(1000.0))
	assert.Equal(t, "$1,000", f.Price(1000.49))
}

func TestPrice_Formatting(t *testing.T) {
	f := NewFormatter()

	assert.Equal(t, "$67,450", f.Price(67450.0))
	assert.Equal(t, "$1,234,568", f.Price(1234567.89))
	assert.Equal(t, "$161.37", f.Price(161.37))
	assert.Equal(t, "$0.47", f.Price(0.4687))
}

func TestNewFormatterWithPrecision(t *testing.T) {
	_, err := NewFormatterWithPrecision(-1)
	require.Error(t, err)
	_, err = NewFormatterWithPrecision(9)
	require.Error(t, err)

	f, err := NewFormatterWithPrecision(4)
	require.NoError(t, err)

	// Sub-dollar crypto prices keep the extra precision
	assert.Equal(t, "$0.4687", f.Price(0.4687))
	// Thousands mode still drops decimals
	assert.Equal(t, "$67,450", f.Price(67450.0))
}
