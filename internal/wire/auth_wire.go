package wire

import (
	"net/http"

	"github.com/pudey33/DreamRate/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Post("/refresh", authHandler.Refresh)

		r.With(authenticate).Post("/signout", authHandler.SignOut)
		r.With(authenticate).Get("/me", authHandler.Me)
	})
}
