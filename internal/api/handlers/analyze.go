// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/verdictlab/verdict/internal/brain"
	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/pkg/logger"
)

// Runner executes one pipeline run. Implemented by brain.Orchestrator.
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// AnalyzeHandler owns the analysis endpoints.
type AnalyzeHandler struct {
	runner Runner
	store  *DecisionStore
	years  int
	logger *logger.Logger
}

// NewAnalyzeHandler creates the handler.
func NewAnalyzeHandler(runner Runner, store *DecisionStore, years int, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{runner: runner, store: store, years: years, logger: log}
}

// Analyze runs the full pipeline for one ticker, synchronously, and
// returns the decision. POST /api/analyze/{ticker}
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	runID := fmt.Sprintf("%s-%d", ticker, time.Now().UnixNano())
	result, err := h.runner.Run(r.Context(), brain.RunConfig{
		RunID:  runID,
		Ticker: ticker,
		Years:  h.years,
	})
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Analysis run failed")
		status := http.StatusBadGateway
		if errors.Is(err, contracts.ErrNotFound) {
			status = http.StatusNotFound
		}
		var unavailable *contracts.DataUnavailableError
		if errors.As(err, &unavailable) && strings.Contains(unavailable.Reason, "not found") {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	h.store.Put(result.Decision)
	writeJSON(w, http.StatusOK, result.Decision)
}

// GetDecision returns the latest decision for a ticker.
// GET /api/decisions/{ticker}
func (h *AnalyzeHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	d, ok := h.store.Get(ticker)
	if !ok {
		writeError(w, http.StatusNotFound, "no decision for "+strings.ToUpper(ticker))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ListDecisions returns the latest decision for every analyzed ticker.
// GET /api/decisions
func (h *AnalyzeHandler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.All())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
