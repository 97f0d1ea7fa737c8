package handlers

import (
	"net/http"

	"cfp/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(reviews *ReviewHandler, public *PublicHandler) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public API: the event key is the only credential
	router.Get("/api/v1/event/{event}", public.EventProposals)

	// Team routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(WriteError))

		r.Get("/teams/{team}/permissions", reviews.Permissions)

		r.Route("/teams/{team}/{event}", func(r chi.Router) {
			r.Get("/reviews", reviews.List)
			r.Get("/reviews/{proposal}", reviews.Detail)
			r.Get("/reviews/{proposal}/navigation", reviews.Navigation)
			r.Post("/reviews/{proposal}/review", reviews.AddReview)
			r.Get("/reviews/{proposal}/speakers", reviews.Speakers)

			r.Post("/proposals/status", reviews.UpdateStatus)
			r.Post("/results/publish", reviews.PublishResults)

			r.Get("/export/json", reviews.ExportJSON)
			r.Get("/export/cards", reviews.ExportCards)
			r.Get("/export/csv", reviews.ExportCSV)

			r.Patch("/settings", reviews.UpdateSettings)
			r.Post("/settings/api-key", reviews.RegenerateAPIKey)
			r.Patch("/settings/slug", reviews.RenameEvent)
		})
	})

	return router
}
