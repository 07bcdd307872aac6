package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Rankboard/internal/config"
	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
)

func NewRouter(svc *dashboard.Service, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	runs := NewRunsHandler(svc, logger)
	criteria := NewCriteriaHandler(svc, logger)
	admin := NewAdminHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(cfg.RequireAuth))

			r.Get("/methods", runs.Methods)

			r.Get("/runs/{id}", runs.View)
			r.Get("/runs/{id}/scores", runs.Scores)
			r.Get("/runs/{id}/ranking", runs.Ranking)
			r.Get("/runs/{id}/report", runs.Report)
			r.Get("/runs/{id}/timings", runs.Timings)
			r.Post("/runs/{id}/compute/{method}", runs.Compute)
			r.Post("/runs/{id}/finalize", runs.Finalize)
			r.Post("/runs/{id}/refresh", runs.Refresh)

			r.Get("/criteria-scores", criteria.Scores)
			r.Post("/criteria-scores", criteria.Compute)
			r.Put("/criteria-scores", criteria.Recompute)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/admin/info", admin.Info)
			r.Post("/admin/cache/flush", admin.FlushCache)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
