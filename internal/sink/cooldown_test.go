package sink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizbora/signalscan/internal/models"
)

func testSignal(symbol string, sigType models.SignalType) *models.Signal {
	return &models.Signal{
		ID:         "test-id",
		Symbol:     symbol,
		Price:      100,
		ChangePct:  2.5,
		TRATRRatio: 2.0,
		ZScore:     2.2,
		SignalType: sigType,
		AssetClass: models.AssetStock,
		Score:      1.8,
		Timestamp:  time.Now(),
	}
}

func TestCooldownKey(t *testing.T) {
	sig := testSignal("NVDA", models.SignalBreakout)
	assert.Equal(t, "cooldown:stock:NVDA:Breakout", CooldownKey(sig))
}

func TestMemoryCooldown_SuppressesWithinTTL(t *testing.T) {
	cd, err := NewMemoryCooldown(30 * time.Minute)
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cd.now = func() time.Time { return base }

	sig := testSignal("NVDA", models.SignalBreakout)

	ok, err := cd.ShouldNotify(context.Background(), sig)
	require.NoError(t, err)
	assert.True(t, ok, "first notification must pass")

	ok, err = cd.ShouldNotify(context.Background(), sig)
	require.NoError(t, err)
	assert.False(t, ok, "repeat within TTL must be suppressed")

	cd.now = func() time.Time { return base.Add(29 * time.Minute) }
	ok, _ = cd.ShouldNotify(context.Background(), sig)
	assert.False(t, ok)

	cd.now = func() time.Time { return base.Add(30 * time.Minute) }
	ok, err = cd.ShouldNotify(context.Background(), sig)
	require.NoError(t, err)
	assert.True(t, ok, "notification after TTL expiry must pass")
}

func TestMemoryCooldown_KeyedBySymbolAndType(t *testing.T) {
	cd, err := NewMemoryCooldown(30 * time.Minute)
	require.NoError(t, err)

	ok, _ := cd.ShouldNotify(context.Background(), testSignal("NVDA", models.SignalBreakout))
	assert.True(t, ok)

	// Different symbol, same type
	ok, _ = cd.ShouldNotify(context.Background(), testSignal("AMD", models.SignalBreakout))
	assert.True(t, ok)

	// Same symbol, different type
	ok, _ = cd.ShouldNotify(context.Background(), testSignal("NVDA", models.SignalTrend))
	assert.True(t, ok)

	// Exact repeat is suppressed
	ok, _ = cd.ShouldNotify(context.Background(), testSignal("NVDA", models.SignalBreakout))
	assert.False(t, ok)
}

func TestMemoryCooldown_NilSignal(t *testing.T) {
	cd, err := NewMemoryCooldown(time.Minute)
	require.NoError(t, err)

	_, err = cd.ShouldNotify(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewMemoryCooldown_InvalidTTL(t *testing.T) {
	_, err := NewMemoryCooldown(0)
	assert.Error(t, err)

	_, err = NewMemoryCooldown(-time.Minute)
	assert.Error(t, err)
}
