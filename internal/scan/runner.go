// Package scan evaluates a batch of symbols through the indicator
// engine and classifier. Symbol evaluations are independent; one bad
// symbol never aborts the batch.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/denizbora/signalscan/internal/classify"
	"github.com/denizbora/signalscan/internal/data"
	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/pkg/indicator"
	"github.com/denizbora/signalscan/pkg/logger"
)

// ReferenceMode selects the reference price for percent change.
type ReferenceMode string

const (
	// ReferencePrevClose uses the close of the bar before the latest
	// one (breakout scanners).
	ReferencePrevClose ReferenceMode = "prev_close"
	// ReferenceSessionOpen uses the open of the oldest bar in the
	// fetched window (intraday trend/mover scanners).
	ReferenceSessionOpen ReferenceMode = "session_open"
)

// Target identifies one symbol to evaluate.
type Target struct {
	Symbol     string
	AssetClass models.AssetClass
}

// Config holds scan pass configuration.
type Config struct {
	Granularity data.Granularity
	Lookback    int           // bars fetched per symbol
	Workers     int           // concurrent evaluations; 1 = sequential
	Reference   ReferenceMode // reference price selection
}

// Result is the outcome of one symbol's evaluation. Exactly one of
// Signal and Err is set.
type Result struct {
	Symbol     string
	AssetClass models.AssetClass
	Signal     *models.Signal
	Err        error
}

// Runner drives scan passes. Providers and classifiers are keyed by
// asset class so stocks and crypto can use different data sources and
// threshold bundles.
type Runner struct {
	cfg         Config
	engine      *indicator.Engine
	providers   map[models.AssetClass]data.BarProvider
	classifiers map[models.AssetClass]*classify.Classifier
}

// NewRunner creates a scan runner.
func NewRunner(
	cfg Config,
	engine *indicator.Engine,
	providers map[models.AssetClass]data.BarProvider,
	classifiers map[models.AssetClass]*classify.Classifier,
) (*Runner, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}
	if len(classifiers) == 0 {
		return nil, fmt.Errorf("at least one classifier is required")
	}
	if cfg.Lookback < engine.MinBars() {
		return nil, fmt.Errorf("lookback %d is below the engine minimum of %d bars",
			cfg.Lookback, engine.MinBars())
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Reference == "" {
		cfg.Reference = ReferencePrevClose
	}

	return &Runner{
		cfg:         cfg,
		engine:      engine,
		providers:   providers,
		classifiers: classifiers,
	}, nil
}

// Run evaluates every target and returns one Result per target, in
// target order. Context cancellation marks the remaining symbols as
// failed with ctx.Err().
func (r *Runner) Run(ctx context.Context, targets []Target) []Result {
	started := time.Now()
	results := make([]Result, len(targets))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = r.evaluate(ctx, targets[i])
			}
		}()
	}

	for i := range targets {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	scanPassDuration.Observe(time.Since(started).Seconds())

	for _, res := range results {
		switch {
		case res.Err != nil:
			scanSymbolsTotal.WithLabelValues("failed").Inc()
			scanFailuresTotal.WithLabelValues(failureReason(res.Err)).Inc()
		case res.Signal.Actionable():
			scanSymbolsTotal.WithLabelValues("ok").Inc()
			scanSignalsTotal.WithLabelValues(string(res.Signal.SignalType), string(res.AssetClass)).Inc()
		default:
			scanSymbolsTotal.WithLabelValues("ok").Inc()
		}
	}

	return results
}

// Signals extracts the successful signals from a batch of results.
func Signals(results []Result) []*models.Signal {
	out := make([]*models.Signal, 0, len(results))
	for _, res := range results {
		if res.Err == nil && res.Signal != nil {
			out = append(out, res.Signal)
		}
	}
	return out
}

func (r *Runner) evaluate(ctx context.Context, target Target) Result {
	res := Result{Symbol: target.Symbol, AssetClass: target.AssetClass}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	provider, ok := r.providers[target.AssetClass]
	if !ok {
		res.Err = fmt.Errorf("no provider for asset class %q", target.AssetClass)
		return res
	}
	classifier, ok := r.classifiers[target.AssetClass]
	if !ok {
		res.Err = fmt.Errorf("no classifier for asset class %q", target.AssetClass)
		return res
	}

	bars, err := provider.GetBars(ctx, target.Symbol, r.cfg.Granularity, r.cfg.Lookback)
	if err != nil {
		res.Err = fmt.Errorf("get bars: %w", err)
		return res
	}
	lastPrice, err := provider.GetLastPrice(ctx, target.Symbol)
	if err != nil {
		res.Err = fmt.Errorf("get last price: %w", err)
		return res
	}

	reference, err := r.referencePrice(bars)
	if err != nil {
		res.Err = err
		return res
	}

	snap, err := r.engine.Snapshot(target.Symbol, bars, lastPrice, reference)
	if err != nil {
		res.Err = err
		return res
	}

	res.Signal = classifier.Classify(snap, target.AssetClass)

	logger.Debug("Evaluated symbol",
		logger.String("symbol", target.Symbol),
		logger.String("asset_class", string(target.AssetClass)),
		logger.Float64("tr_atr", snap.TRATRRatio),
		logger.Float64("z_score", snap.ReturnZScore),
		logger.Float64("change_pct", snap.ChangePct),
		logger.String("signal_type", string(res.Signal.SignalType)),
	)

	return res
}

func (r *Runner) referencePrice(bars []models.Bar) (float64, error) {
	switch r.cfg.Reference {
	case ReferenceSessionOpen:
		return bars[0].Open, nil
	case ReferencePrevClose:
		if len(bars) < 2 {
			return 0, fmt.Errorf("prev close reference: %w", models.ErrInsufficientHistory)
		}
		return bars[len(bars)-2].Close, nil
	default:
		return 0, fmt.Errorf("unsupported reference mode %q", r.cfg.Reference)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, models.ErrNonMonotonicSeries),
		errors.Is(err, models.ErrNonFiniteValue),
		errors.Is(err, models.ErrInvalidBar),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidVolume):
		return "invalid_series"
	case errors.Is(err, data.ErrUnknownSymbol), errors.Is(err, data.ErrNoData):
		return "provider"
	default:
		return "other"
	}
}
