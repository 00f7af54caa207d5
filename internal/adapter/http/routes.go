package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strandwork/overseer/internal/adapter/ws"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers, hub *ws.Hub) {
	r.Get("/health", h.HealthCheck)

	if hub != nil {
		r.Get("/ws", hub.HandleWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Runs
		r.Post("/runs", h.StartRun)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)
		r.Delete("/runs/{id}", h.DeleteRun)
		r.Get("/runs/{id}/events", h.ListRunEvents)

		// Artifacts (nested under runs)
		r.Get("/runs/{id}/artifacts", h.ListArtifacts)
		r.Delete("/runs/{id}/artifacts", h.ClearArtifacts)
		r.Get("/runs/{id}/artifacts/*", h.ReadArtifact)
		r.Put("/runs/{id}/artifacts/*", h.WriteArtifact)
		r.Patch("/runs/{id}/artifacts/*", h.EditArtifact)
		r.Delete("/runs/{id}/artifacts/*", h.DeleteArtifact)
	})
}
