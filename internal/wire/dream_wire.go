package wire

import (
	"net/http"

	"github.com/pudey33/DreamRate/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDream(r chi.Router, dreamHandler *adaptor.DreamHandler, authenticate func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/api/user/dreams", dreamHandler.GetUserDreams)

		r.Get("/api/dreams/random", dreamHandler.GetRandomDreams)
		r.Get("/api/dreams/feed", dreamHandler.GetFeed)
		r.Get("/api/dreams/{id}", dreamHandler.GetDream)

		// owner only, enforced by the store
		r.Post("/api/dreams", dreamHandler.CreateDream)
		r.Put("/api/dreams/{id}", dreamHandler.UpdateDream)
		r.Delete("/api/dreams/{id}", dreamHandler.DeleteDream)
	})
}
