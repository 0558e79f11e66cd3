// Package api exposes the signal history over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/internal/storage"
	"github.com/denizbora/signalscan/pkg/logger"
)

// SignalHandler handles signal history endpoints
type SignalHandler struct {
	store storage.SignalStore
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(store storage.SignalStore) *SignalHandler {
	return &SignalHandler{store: store}
}

// ListSignals handles GET /api/v1/signals
//
// Query parameters: symbol, asset_class, signal_type, since (RFC3339),
// limit.
func (h *SignalHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	filter := storage.Filter{
		Symbol:     r.URL.Query().Get("symbol"),
		AssetClass: models.AssetClass(r.URL.Query().Get("asset_class")),
		SignalType: models.SignalType(r.URL.Query().Get("signal_type")),
	}

	if since := r.URL.Query().Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'since' timestamp, expected RFC3339")
			return
		}
		filter.Since = t
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit', expected a positive integer")
			return
		}
		filter.Limit = n
	}

	signals, err := h.store.List(r.Context(), filter)
	if err != nil {
		logger.Error("Failed to list signals", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"signals": signals,
		"count":   len(signals),
	})
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}
