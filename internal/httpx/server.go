package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the base router with health, readiness and metrics routes.
// ready is called by /readyz; nil means always ready.
func NewRouter(log logrus.FieldLogger, m *Metrics, ready func(ctx context.Context) error) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, PeerAddr, middleware.RealIP, RequestLogger(log), middleware.Recoverer)
	r.Use(m.Instrument)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				log.WithError(err).Warn("readiness check failed")
				writeJSON(w, http.StatusServiceUnavailable, envelope{Error: "not ready"})
				return
			}
		}
		writeJSON(w, http.StatusOK, envelope{Success: true})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	return r
}
