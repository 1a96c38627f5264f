package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/merev/dart-scoring-api/internal/live"
	"github.com/merev/dart-scoring-api/internal/match"
)

func NewRouter(mh *match.Handler, hub *live.Hub, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(api chi.Router) {
		api.Post("/players", mh.CreatePlayer)
		api.Get("/players", mh.ListPlayers)

		api.Post("/matches", mh.CreateMatch)
		api.Get("/matches/{id}", mh.GetMatch)
		api.Post("/matches/{id}/start", mh.StartMatch)
		api.Post("/matches/{id}/finalize", mh.FinalizeMatch)
		api.Get("/matches/{id}/live", mh.Live)

		api.Post("/matches/{id}/throws", mh.SubmitThrow)
		api.Post("/matches/{id}/bust", mh.MarkBust)
		api.Post("/matches/{id}/advance", mh.AdvanceTurn)
		api.Post("/matches/{id}/undo", mh.Undo)

		api.Get("/matches/{id}/ws", func(w http.ResponseWriter, req *http.Request) {
			hub.ServeWS(w, req, chi.URLParam(req, "id"))
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}
