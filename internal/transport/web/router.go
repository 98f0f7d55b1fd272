package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/observability"
)

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterOptions struct {
	AllowedOrigins []string
	Observability  *observability.Observability
	Dependencies   map[string]Pinger
	Logger         logger.Logger
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(tracing)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics(opts.Observability))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Language", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", readiness(opts.Dependencies))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(contentLanguage)

		r.Get("/brands", h.Brands)
		r.Get("/brands/{brandID}/models", h.ModelsByBrand)
		r.Get("/cities", h.Cities)

		r.Get("/reservations", h.Reservations)
		r.Get("/test-drives", h.TestDrives)
		r.Patch("/test-drives/{id}", h.UpdateTestDriveStatus)

		r.Route("/cars/draft", func(r chi.Router) {
			r.Post("/", h.StartDraft)
			r.Delete("/", h.AbandonDraft)
			r.Post("/finalize", h.FinalizeDraft)
			r.Get("/{step}", h.LoadDraftStep)
			r.Put("/{step}", h.SubmitDraftStep)
		})

		r.Post("/notifications", h.CreateNotification)
		r.Post("/news/validate", h.ValidateNews)
	})

	return r
}

func readiness(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps))
		ready := true
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{"ready": ready, "checks": checks})
	}
}
