package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleView returns the chart and summary for ?region=, defaulting to all.
func (h *APIHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view := h.dashboard.Render(r.Context(), r.URL.Query().Get("region"))
	errors.WriteSuccess(w, r, view)
}

func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, r, services.RegionOptions(), headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, r, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, r, h.dashboard.Stats())
}

func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, r, h.logger, errors.NotFound("no route for "+r.URL.Path))
}
