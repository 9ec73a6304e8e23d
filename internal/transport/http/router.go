// Package httptransport assembles the full HTTP surface: the versioned ledger
// API plus the operational endpoints.
package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"custodia/internal/ledger/handler"
)

// NewRouter mounts the ledger handler alongside health and metrics endpoints.
func NewRouter(h *handler.Handler) http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	r.Get("/healthz", handleHealth(h))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func handleHealth(h *handler.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := h.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
