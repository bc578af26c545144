package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/delivery/http/handler"
	"github.com/user/tcas-fee-crawler/internal/delivery/http/middleware"
)

func New(h *handler.Handler, sessionTTL time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/health", h.HandleHealthCheck)

	// Only browser pages hold a session; API calls read the shared dataset.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(h.Session, sessionTTL))

		r.Get("/", h.HandleOverview)
		r.Get("/institutions", h.HandleInstitutions)
		r.Get("/programs", h.HandlePrograms)
		r.Get("/missing", h.HandleMissing)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/overview", h.HandleAPIOverview)
		r.Get("/institutions", h.HandleAPIInstitutions)
		r.Get("/programs", h.HandleAPIPrograms)
		r.Get("/missing", h.HandleAPIMissing)
	})

	return r
}
