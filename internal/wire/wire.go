package wire

import (
	"net/http"

	"github.com/pudey33/DreamRate/internal/adaptor"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/pkg/middleware"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the HTTP surface of the service.
type App struct {
	Router *chi.Mux
}

// Wiring builds handlers for service and mounts every route.
func Wiring(service *usecase.Service, config *utils.Config, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, logger)

	verify := middleware.RemoteVerifier(service.Auth)
	if config.Supabase.JWTSecret != "" {
		verify = middleware.JWTVerifier(config.Supabase.JWTSecret)
	}
	authenticate := middleware.Auth(verify, logger.With(zap.String("middleware", "auth")))

	return &App{
		Router: setupRouter(handler, authenticate, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	authenticate func(http.Handler) http.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	wireAuth(r, handler.Auth, authenticate)
	wireDream(r, handler.Dream, authenticate)
	wireReview(r, handler.Review, authenticate)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
