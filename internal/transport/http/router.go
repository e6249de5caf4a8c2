// Package httptransport assembles the public HTTP surface: per-domain
// handlers mounted under /v1, health, and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hangar/internal/platform/middleware"
	"hangar/pkg/platform/httputil"
)

// Registrar is implemented by every domain handler: read endpoints mount on
// the public group, mutating endpoints on the authenticated group.
type Registrar interface {
	Register(r chi.Router)
	RegisterProtected(r chi.Router)
}

// Config collects the collaborators the router needs.
type Config struct {
	Logger         *slog.Logger
	JWTValidator   middleware.JWTValidator
	RequestTimeout time.Duration
	Handlers       []Registrar
	Health         func(ctx context.Context) error
}

// NewRouter builds the full application router.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", healthHandler(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		for _, h := range cfg.Handlers {
			h.Register(v1)
		}
		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.ContentTypeJSON)
			protected.Use(middleware.RequireAuth(cfg.JWTValidator, cfg.Logger))
			for _, h := range cfg.Handlers {
				h.RegisterProtected(protected)
			}
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
