package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/pkg/logger"
)

// AlpacaConfig holds credentials and asset routing for the Alpaca
// market data API.
type AlpacaConfig struct {
	APIKey     string
	APISecret  string
	BaseURL    string // optional override, mainly for tests
	AssetClass models.AssetClass
}

// AlpacaProvider implements BarProvider against the Alpaca market
// data API. Stock symbols use the v2 stock endpoints; crypto symbols
// go through the v1beta3 crypto endpoints (the SDK routes them).
type AlpacaProvider struct {
	client     *marketdata.Client
	assetClass models.AssetClass
}

// NewAlpacaProvider creates an Alpaca-backed bar provider for one
// asset class.
func NewAlpacaProvider(cfg AlpacaConfig) (*AlpacaProvider, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("alpaca credentials are required")
	}
	if !cfg.AssetClass.Valid() {
		return nil, models.ErrInvalidAssetClass
	}

	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		BaseURL:   cfg.BaseURL,
	})

	return &AlpacaProvider{
		client:     client,
		assetClass: cfg.AssetClass,
	}, nil
}

// Name returns the provider name
func (p *AlpacaProvider) Name() string {
	return "alpaca"
}

// GetBars retrieves the latest bars for a symbol, oldest first.
func (p *AlpacaProvider) GetBars(ctx context.Context, symbol string, granularity Granularity, lookback int) ([]models.Bar, error) {
	if symbol == "" {
		return nil, ErrUnknownSymbol
	}
	if lookback < 1 {
		return nil, fmt.Errorf("lookback must be at least 1, got %d", lookback)
	}

	// Pad the window so holidays and halts still yield enough bars.
	start := time.Now().Add(-granularity.Duration() * time.Duration(lookback*3))
	timeframe, err := timeframeFor(granularity)
	if err != nil {
		return nil, err
	}

	var bars []models.Bar
	if p.assetClass == models.AssetCrypto {
		raw, err := p.client.GetCryptoBars(symbol, marketdata.GetCryptoBarsRequest{
			TimeFrame:  timeframe,
			Start:      start,
			TotalLimit: lookback,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch crypto bars for %s: %w", symbol, err)
		}
		bars = make([]models.Bar, 0, len(raw))
		for _, b := range raw {
			bars = append(bars, models.Bar{
				Symbol:    symbol,
				Timestamp: b.Timestamp,
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			})
		}
	} else {
		raw, err := p.client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame:  timeframe,
			Start:      start,
			TotalLimit: lookback,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch stock bars for %s: %w", symbol, err)
		}
		bars = make([]models.Bar, 0, len(raw))
		for _, b := range raw {
			bars = append(bars, models.Bar{
				Symbol:    symbol,
				Timestamp: b.Timestamp,
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    float64(b.Volume),
			})
		}
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	logger.Debug("Fetched bars",
		logger.String("provider", p.Name()),
		logger.String("symbol", symbol),
		logger.Int("count", len(bars)),
		logger.String("granularity", string(granularity)),
	)

	return bars, nil
}

// GetLastPrice retrieves the latest trade price for a symbol.
func (p *AlpacaProvider) GetLastPrice(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, ErrUnknownSymbol
	}

	if p.assetClass == models.AssetCrypto {
		trade, err := p.client.GetLatestCryptoTrade(symbol, marketdata.GetLatestCryptoTradeRequest{})
		if err != nil {
			return 0, fmt.Errorf("fetch latest crypto trade for %s: %w", symbol, err)
		}
		if trade == nil || trade.Price <= 0 {
			return 0, fmt.Errorf("%w: %s", ErrNoData, symbol)
		}
		return trade.Price, nil
	}

	trade, err := p.client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("fetch latest trade for %s: %w", symbol, err)
	}
	if trade == nil || trade.Price <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return trade.Price, nil
}

func timeframeFor(granularity Granularity) (marketdata.TimeFrame, error) {
	s := string(granularity)
	switch {
	case strings.HasSuffix(s, "Min"):
		var n int
		if _, err := fmt.Sscanf(s, "%dMin", &n); err != nil {
			return marketdata.TimeFrame{}, fmt.Errorf("unsupported granularity %q", granularity)
		}
		return marketdata.NewTimeFrame(n, marketdata.Min), nil
	case s == "1Hour":
		return marketdata.NewTimeFrame(1, marketdata.Hour), nil
	case s == "1Day":
		return marketdata.OneDay, nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported granularity %q", granularity)
	}
}
