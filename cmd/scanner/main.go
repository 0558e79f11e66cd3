package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"

	"github.com/denizbora/signalscan/internal/classify"
	"github.com/denizbora/signalscan/internal/config"
	"github.com/denizbora/signalscan/internal/data"
	"github.com/denizbora/signalscan/internal/format"
	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/internal/rank"
	"github.com/denizbora/signalscan/internal/scan"
	"github.com/denizbora/signalscan/internal/sink"
	"github.com/denizbora/signalscan/internal/storage"
	"github.com/denizbora/signalscan/pkg/indicator"
	"github.com/denizbora/signalscan/pkg/logger"
)

// The scanner runs one pass per invocation; scheduling is cron's job.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("Scan pass failed", logger.ErrorField(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	engine, err := indicator.NewEngine(cfg.Indicator.ATRPeriod, cfg.Indicator.ZScoreLookback)
	if err != nil {
		return fmt.Errorf("build indicator engine: %w", err)
	}

	label := models.SignalType(cfg.Scan.SignalLabel)
	providers := make(map[models.AssetClass]data.BarProvider)
	classifiers := make(map[models.AssetClass]*classify.Classifier)
	targets := make([]scan.Target, 0)

	for class, symbols := range cfg.Symbols {
		if len(symbols) == 0 {
			continue
		}
		provider, err := data.NewAlpacaProvider(data.AlpacaConfig{
			APIKey:     cfg.Alpaca.APIKey,
			APISecret:  cfg.Alpaca.APISecret,
			BaseURL:    cfg.Alpaca.BaseURL,
			AssetClass: class,
		})
		if err != nil {
			return fmt.Errorf("build %s provider: %w", class, err)
		}
		classifier, err := classify.New(label, cfg.Thresholds[class])
		if err != nil {
			return fmt.Errorf("build %s classifier: %w", class, err)
		}
		providers[class] = provider
		classifiers[class] = classifier
		for _, symbol := range symbols {
			targets = append(targets, scan.Target{Symbol: symbol, AssetClass: class})
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no symbols configured")
	}

	runner, err := scan.NewRunner(scan.Config{
		Granularity: data.Granularity(cfg.Scan.Granularity),
		Lookback:    cfg.Scan.Lookback,
		Workers:     cfg.Scan.Workers,
		Reference:   scan.ReferenceMode(cfg.Scan.Reference),
	}, engine, providers, classifiers)
	if err != nil {
		return fmt.Errorf("build scan runner: %w", err)
	}

	logger.Info("Starting scan pass",
		logger.Int("symbols", len(targets)),
		logger.String("granularity", cfg.Scan.Granularity),
		logger.String("signal_label", cfg.Scan.SignalLabel),
	)

	results := runner.Run(ctx, targets)
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("Symbol evaluation failed",
				logger.String("symbol", res.Symbol),
				logger.ErrorField(res.Err),
			)
		}
	}

	selected, err := selectSignals(scan.Signals(results), cfg.Scan.TopN)
	if err != nil {
		if errors.Is(err, models.ErrNoActionableSignal) {
			logger.Info("No actionable signal this pass")
			return nil
		}
		return err
	}

	return notify(ctx, cfg, selected)
}

func selectSignals(signals []*models.Signal, topN int) ([]*models.Signal, error) {
	if topN <= 0 {
		actionable := rank.AllActionable(signals)
		if len(actionable) == 0 {
			return nil, models.ErrNoActionableSignal
		}
		return actionable, nil
	}
	return rank.TopN(signals, topN)
}

func notify(ctx context.Context, cfg *config.Config, signals []*models.Signal) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open signal store: %w", err)
	}
	defer store.Close()

	storeSink, err := sink.NewStoreSink(store)
	if err != nil {
		return err
	}
	fanout, err := buildFanout(cfg)
	if err != nil {
		return err
	}
	cooldown, err := buildCooldown(cfg)
	if err != nil {
		return err
	}

	formatter := format.NewFormatter()
	for _, sig := range signals {
		line := formatter.Line(sig)

		// The store keeps full history; the cooldown only gates the
		// outward channels.
		if err := storeSink.Deliver(ctx, sink.Notification{Text: line, Signal: sig}); err != nil {
			logger.Error("Failed to persist signal",
				logger.String("symbol", sig.Symbol),
				logger.ErrorField(err),
			)
		}

		ok, err := cooldown.ShouldNotify(ctx, sig)
		if err != nil {
			logger.Warn("Cooldown check failed, delivering anyway",
				logger.String("symbol", sig.Symbol),
				logger.ErrorField(err),
			)
		} else if !ok {
			logger.Info("Signal suppressed by cooldown",
				logger.String("symbol", sig.Symbol),
				logger.String("signal_type", string(sig.SignalType)),
			)
			continue
		}

		logger.Info("Delivering signal", logger.String("line", line))
		fanout.DeliverAll(ctx, sink.Notification{Text: line, Signal: sig})
	}
	return nil
}

func openStore(cfg *config.Config) (storage.SignalStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return storage.NewPostgresStore(storage.PostgresConfig(cfg.Store.Postgres))
	default:
		return storage.NewSQLiteStore(cfg.Store.SQLitePath)
	}
}

func buildFanout(cfg *config.Config) (*sink.Fanout, error) {
	var sinks []sink.Sink

	if cfg.Sinks.EmailEnabled {
		emailSink, err := sink.NewEmailSink(sink.EmailConfig{
			Recipient:   cfg.Sinks.EmailRecipient,
			TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Sinks.GmailToken}),
		})
		if err != nil {
			return nil, fmt.Errorf("build email sink: %w", err)
		}
		sinks = append(sinks, emailSink)
	}

	if cfg.Sinks.XEnabled {
		xSink, err := sink.NewXSink(sink.XConfig{
			TokenSource:    oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Sinks.XToken}),
			PostsPerWindow: cfg.Sinks.XPostsPerWindow,
			Window:         cfg.Sinks.XWindow,
		})
		if err != nil {
			return nil, fmt.Errorf("build X sink: %w", err)
		}
		sinks = append(sinks, xSink)
	}

	return sink.NewFanout(sinks...), nil
}

func buildCooldown(cfg *config.Config) (sink.Cooldown, error) {
	if cfg.Cooldown.Backend == "redis" {
		return sink.NewRedisCooldown(sink.RedisConfig{
			Addr:     cfg.Cooldown.RedisAddr,
			Password: cfg.Cooldown.RedisPassword,
			DB:       cfg.Cooldown.RedisDB,
		}, cfg.Cooldown.TTL)
	}
	return sink.NewMemoryCooldown(cfg.Cooldown.TTL)
}
