package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizbora/signalscan/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "signals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storedSignal(symbol string, sigType models.SignalType, ts time.Time) *models.Signal {
	return &models.Signal{
		Symbol:     symbol,
		Price:      187.23,
		ChangePct:  3.42,
		TRATRRatio: 2.25,
		ZScore:     2.24,
		SignalType: sigType,
		AssetClass: models.AssetStock,
		Score:      1.9,
		Timestamp:  ts,
	}
}

func TestSQLiteStore_AppendAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	sig := storedSignal("NVDA", models.SignalBreakout, ts)
	require.NoError(t, store.Append(ctx, sig))

	got, err := store.List(ctx, Filter{Symbol: "NVDA"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.NotEmpty(t, got[0].ID, "missing ID must be filled with a generated one")
	assert.Equal(t, "NVDA", got[0].Symbol)
	assert.Equal(t, sig.Price, got[0].Price)
	assert.Equal(t, sig.ChangePct, got[0].ChangePct)
	assert.Equal(t, sig.TRATRRatio, got[0].TRATRRatio)
	assert.Equal(t, sig.ZScore, got[0].ZScore)
	assert.Equal(t, models.SignalBreakout, got[0].SignalType)
	assert.Equal(t, models.AssetStock, got[0].AssetClass)
	assert.True(t, got[0].Timestamp.Equal(ts))
}

func TestSQLiteStore_UntypedSignalStoredAsEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sig := storedSignal("NVDA", models.SignalNone, time.Now().UTC())
	require.NoError(t, store.Append(ctx, sig))

	got, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.SignalNone, got[0].SignalType)
}

func TestSQLiteStore_Filters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, storedSignal("NVDA", models.SignalBreakout, base)))
	require.NoError(t, store.Append(ctx, storedSignal("AMD", models.SignalTrend, base.Add(time.Hour))))
	btc := storedSignal("BTC/USD", models.SignalBreakout, base.Add(2*time.Hour))
	btc.AssetClass = models.AssetCrypto
	require.NoError(t, store.Append(ctx, btc))

	got, err := store.List(ctx, Filter{Symbol: "AMD"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AMD", got[0].Symbol)

	got, err = store.List(ctx, Filter{AssetClass: models.AssetCrypto})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BTC/USD", got[0].Symbol)

	got, err = store.List(ctx, Filter{SignalType: models.SignalBreakout})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.List(ctx, Filter{Since: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteStore_NewestFirstAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sig := storedSignal("NVDA", models.SignalBreakout, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Append(ctx, sig))
	}

	got, err := store.List(ctx, Filter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Timestamp.After(got[1].Timestamp))
	assert.True(t, got[1].Timestamp.After(got[2].Timestamp))
}

func TestSQLiteStore_RejectsInvalidSignal(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Append(ctx, nil))

	bad := storedSignal("", models.SignalBreakout, time.Now())
	assert.Error(t, store.Append(ctx, bad))
}
