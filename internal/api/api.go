// Package api exposes the worker over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
	"sjsage522/propertydealworker/services/store"
	"sjsage522/propertydealworker/services/worker"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Runner runs one scrape on demand
type Runner interface {
	RunOnce(ctx context.Context) (worker.Summary, error)
}

// Lister lists stored properties
type Lister interface {
	Recent(ctx context.Context, limit int) ([]store.Property, error)
}

// Handler serves the HTTP API
type Handler struct {
	runner Runner
	lister Lister
	log    *logger.Logger
}

// NewHandler creates a handler
func NewHandler(runner Runner, lister Lister, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.ForComponent("api")
	}
	return &Handler{runner: runner, lister: lister, log: log}
}

// Router returns the route table
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/scrape", h.handleScrape).Methods(http.MethodGet)
	r.HandleFunc("/api/properties", h.handleProperties).Methods(http.MethodGet)
	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type scrapeResponse struct {
	Message        string `json:"message"`
	AnomaliesFound int    `json:"anomalies_found"`
	Scraped        int    `json:"scraped"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}

func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runner.RunOnce(r.Context())
	if err != nil {
		status, title := classify(err)
		h.log.Error().Err(err).Int("status", status).Msg("Scrape request failed")
		h.writeJSON(w, status, errorResponse{Error: title, Message: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, scrapeResponse{
		Message:        "Scraping and processing completed successfully",
		AnomaliesFound: summary.Anomalies,
		Scraped:        summary.Scraped,
	})
}

func (h *Handler) handleProperties(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "Invalid limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = min(n, maxLimit)
	}

	properties, err := h.lister.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list properties")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to list properties",
			Message: err.Error(),
		})
		return
	}
	h.writeJSON(w, http.StatusOK, properties)
}

func classify(err error) (int, string) {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeBusy:
		return http.StatusConflict, "A scrape is already running"
	case errors.ErrorTypeClassification:
		return http.StatusInternalServerError, "Classification service call failed"
	default:
		return http.StatusInternalServerError, "An error occurred during scraping"
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warn().Err(err).Msg("Failed to write response")
	}
}
