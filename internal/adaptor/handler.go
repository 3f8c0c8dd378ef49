package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	Dream  *DreamHandler
	Review *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		Dream:  NewDreamHandler(service.Dream, log),
		Review: NewReviewHandler(service.Review, log),
	}
}

// decode reads a JSON body into dst, answering 400 itself when it cannot.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return 0, false
	}
	return id, true
}

// handleServiceError answers with the status matching the error kind.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, repository.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, repository.ErrConstraint):
		log.Warn(operation+" failed - constraint violated", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, repository.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "Not allowed")

	case errors.Is(err, repository.ErrUnauthorized), errors.Is(err, usecase.ErrNotSignedIn):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials or session")

	case errors.Is(err, repository.ErrTransport):
		log.Error(operation+" failed - store unreachable", zap.Error(err))
		utils.ResponseBadGateway(w, "Store unavailable")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
