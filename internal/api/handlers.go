package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
	"github.com/riasnelli/nse-market-mood-sub000/internal/engine"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/logger"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/redis"
)

// SignalHandler serves signal-run endpoints.
type SignalHandler struct {
	generator *engine.Generator
	runs      contracts.RunRepository
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewSignalHandler creates a new signal handler.
func NewSignalHandler(generator *engine.Generator, runs contracts.RunRepository, cache *redis.Cache, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		generator: generator,
		runs:      runs,
		cache:     cache,
		logger:    log,
	}
}

// runResponse is the payload for run query endpoints.
type runResponse struct {
	Run     *contracts.SignalRun `json:"run"`
	Signals []contracts.Signal   `json:"signals"`
}

// Generate runs the engine for the requested date (default: today UTC).
// Missing reference data maps to 422, persistence failures to 500.
func (h *SignalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	targetDate := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse(contracts.DateFormat, dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		targetDate = parsed
	}

	result, err := h.generator.Generate(r.Context(), targetDate)
	if err != nil {
		if errors.Is(err, contracts.ErrNoReferenceData) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		h.logger.WithError(err).Error("Signal run failed")
		writeError(w, http.StatusInternalServerError, "signal run failed")
		return
	}

	// A fresh run supersedes whatever the dashboard cached.
	_ = h.cache.Delete(r.Context(), redis.LatestRunKey())

	writeJSON(w, http.StatusOK, result)
}

// LatestRun returns the most recent run with its signals.
func (h *SignalHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	var cached runResponse
	if found, _ := h.cache.Get(r.Context(), redis.LatestRunKey(), &cached); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	run, err := h.runs.GetLatestRun(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch latest run")
		writeError(w, http.StatusInternalServerError, "failed to fetch latest run")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "no runs yet")
		return
	}

	signals, err := h.runs.GetSignalsByRunID(r.Context(), run.RunID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch run signals")
		writeError(w, http.StatusInternalServerError, "failed to fetch run signals")
		return
	}

	resp := runResponse{Run: run, Signals: signals}
	_ = h.cache.Set(r.Context(), redis.LatestRunKey(), resp, redis.TTLShort)

	writeJSON(w, http.StatusOK, resp)
}

// RunSignals returns the signals of a specific run.
func (h *SignalHandler) RunSignals(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	run, err := h.runs.GetRunByID(r.Context(), runID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch run")
		writeError(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	signals, err := h.runs.GetSignalsByRunID(r.Context(), runID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch run signals")
		writeError(w, http.StatusInternalServerError, "failed to fetch run signals")
		return
	}

	writeJSON(w, http.StatusOK, runResponse{Run: run, Signals: signals})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
