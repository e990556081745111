// Package httptransport assembles the HTTP surface: global middleware,
// operational endpoints, and the versioned lookup API.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adverot/emailfinder/internal/finder/handler"
	"github.com/adverot/emailfinder/internal/finder/metrics"
	"github.com/adverot/emailfinder/internal/platform/middleware"
	"github.com/adverot/emailfinder/pkg/platform/httputil"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter wires all endpoints. Business logic stays behind the handler's
// service interface; this layer only assembles middleware and routes.
func NewRouter(h *handler.Handler, logger *slog.Logger, m *metrics.Metrics, healthChecks map[string]HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", handleHealth(healthChecks))
	r.Handle("/metrics", promhttp.Handler())

	h.Register(r)
	return r
}

func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
