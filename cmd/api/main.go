package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/denizbora/signalscan/internal/api"
	"github.com/denizbora/signalscan/internal/config"
	"github.com/denizbora/signalscan/internal/storage"
	"github.com/denizbora/signalscan/pkg/logger"
)

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

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open signal store", logger.ErrorField(err))
	}
	defer store.Close()

	handler := api.NewSignalHandler(store)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/signals", handler.ListSignals).Methods(http.MethodGet)
	router.HandleFunc("/healthz", api.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting signal history API",
			logger.Int("port", cfg.API.Port),
			logger.String("store_driver", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("API server failed", logger.ErrorField(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down signal history API")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", logger.ErrorField(err))
	}
}

func openStore(cfg *config.Config) (storage.SignalStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return storage.NewPostgresStore(storage.PostgresConfig(cfg.Store.Postgres))
	default:
		return storage.NewSQLiteStore(cfg.Store.SQLitePath)
	}
}
