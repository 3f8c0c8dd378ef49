package wire

import (
	"net/http"

	"github.com/pudey33/DreamRate/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, authenticate func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/api/dreams/{id}/reviews", reviewHandler.GetDreamReviews)
		r.Get("/api/user/reviews", reviewHandler.GetUserReviews)

		r.Post("/api/reviews", reviewHandler.CreateReview)
		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
	})
}
