package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/delivery/http/middleware"
	"github.com/user/tcas-fee-crawler/internal/delivery/http/response"
	"github.com/user/tcas-fee-crawler/internal/usecase"
)

// Check pings a backing service for the health endpoint.
type Check func(ctx context.Context) error

type Handler struct {
	dashboard usecase.Dashboard
	checks    map[string]Check
	pages     *pages
	logger    *zap.Logger
}

func NewHandler(dashboard usecase.Dashboard, checks map[string]Check, logger *zap.Logger) *Handler {
	return &Handler{
		dashboard: dashboard,
		checks:    checks,
		pages:     loadPages(),
		logger:    logger,
	}
}

// Session issues or confirms a dashboard session id.
func (h *Handler) Session(id string) string {
	return h.dashboard.Session(id)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Overview(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "overview", overviewPage{
		OverviewView:  v,
		KeywordChart:  countChart(v.ByKeyword, keywordField),
		TopChart:      countChart(v.TopInstitutions, institutionField),
		HistogramBars: bandChart(v.Histogram),
	})
}

func (h *Handler) HandleInstitutions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.dashboard.Institution(r.Context(), middleware.SessionID(r.Context()), q.Get("institution"), q.Get("campus"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "institutions", institutionPage{InstitutionView: v, Chart: offeringChart(v.Offerings)})
}

func (h *Handler) HandlePrograms(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Ranking(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "programs", v)
}

func (h *Handler) HandleMissing(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Missing(r.Context(), middleware.SessionID(r.Context()), r.URL.Query().Get("institution"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "missing", v)
}

func (h *Handler) HandleAPIOverview(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Overview(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, v, err)
}

func (h *Handler) HandleAPIInstitutions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.dashboard.Institution(r.Context(), middleware.SessionID(r.Context()), q.Get("institution"), q.Get("campus"))
	h.respond(w, v, err)
}

func (h *Handler) HandleAPIPrograms(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Ranking(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, v, err)
}

func (h *Handler) HandleAPIMissing(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Missing(r.Context(), middleware.SessionID(r.Context()), r.URL.Query().Get("institution"))
	h.respond(w, v, err)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Dataset: h.dashboard.Health()}
	status := http.StatusOK
	if resp.Dataset.Status != "ok" {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = "unhealthy"
			h.logger.Error("health check failed", zap.String("service", name), zap.Error(err))
			continue
		}
		resp.Checks[name] = "healthy"
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("view failed", zap.Error(err))
			h.writeJSONError(w, "Internal server error", status)
			return
		}
		h.writeJSONError(w, err.Error(), status)
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

func statusOf(err error) int {
	if errors.Is(err, usecase.ErrDataUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
