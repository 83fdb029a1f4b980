package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// datastarQueryKey carries the signal payload on datastar GET requests.
const datastarQueryKey = "datastar"

type salesSignals struct {
	Region string `json:"region"`
}

// HandleSales recomputes the view for the region signal and pushes the new
// chart as signals and the summary block as an element patch.
func (h *SSEHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get(datastarQueryKey) == "" {
		errors.WriteError(w, r, h.logger, errors.BadRequest("missing datastar signals"))
		return
	}

	var signals salesSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, r, h.logger, errors.BadRequestWrap(err, "invalid datastar signals"))
		return
	}

	view := h.dashboard.Render(r.Context(), signals.Region)

	var summary strings.Builder
	if err := templates.Summary(view).Render(r.Context(), &summary); err != nil {
		errors.WriteError(w, r, h.logger, errors.InternalWrap(err, "render summary"))
		return
	}

	jsonData, err := json.Marshal(map[string]any{
		"chart":   view.Chart,
		"summary": view.Summary,
	})
	if err != nil {
		errors.WriteError(w, r, h.logger, errors.InternalWrap(err, "marshal chart signals"))
		return
	}

	sse := datastar.NewSSE(w, r)

	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Error("patch chart signals", "error", err)
		return
	}
	if err := sse.PatchElements(summary.String()); err != nil {
		h.logger.Error("patch summary", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
