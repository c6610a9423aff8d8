package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST API, the play websocket and metrics.
func NewRouter(h *Handler, ws *WSHandler, metricsHandler http.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Recoverer(logger))
	r.Use(CORS)

	r.Get("/healthz", h.HealthCheck)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Websocket upgrades must not go through the response-wrapping logger.
	r.Get("/play", ws.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequestLogger(logger))

		r.Get("/sets", h.ListSets)
		r.Route("/sets/{id}", func(r chi.Router) {
			r.Get("/", h.GetSet)
			r.Get("/leaderboard", h.TopLeaderboard)
			r.Post("/leaderboard", h.SubmitScore)
		})
		r.Get("/results", h.Results)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/import", h.Import)
			r.Post("/preview", h.Preview)
		})
	})

	return r
}
