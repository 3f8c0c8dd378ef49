package adaptor

import (
	"net/http"
	"strconv"

	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/internal/dto/response"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultRandomCount = 1
	defaultFeedCount   = 10
)

type DreamHandler struct {
	service usecase.DreamService
	log     *zap.Logger
}

func NewDreamHandler(service usecase.DreamService, log *zap.Logger) *DreamHandler {
	return &DreamHandler{
		service: service,
		log:     log.With(zap.String("handler", "dream")),
	}
}

// sampleCount reads ?count=, answering 400 when it is not an integer in range.
func sampleCount(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	req := request.SampleRequest{Count: fallback}
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"count": "Must be an integer"})
			return 0, false
		}
		req.Count = n
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return 0, false
	}
	return req.Count, true
}

// GetUserDreams handles GET /api/user/dreams (protected)
func (h *DreamHandler) GetUserDreams(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	dreams, err := h.service.GetUserDreams(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get user dreams")
		return
	}

	utils.ResponseSuccess(w, "success", dreams)
}

// GetRandomDreams handles GET /api/dreams/random?count= (protected)
func (h *DreamHandler) GetRandomDreams(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	// Parse query parameters
	count, ok := sampleCount(w, r, defaultRandomCount)
	if !ok {
		return
	}

	dreams, err := h.service.GetRandomDreams(r.Context(), userID, count)
	if err != nil {
		handleServiceError(h.log, w, err, "get random dreams")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewSampleResponse(count, dreams))
}

// GetFeed handles GET /api/dreams/feed?count= (protected)
func (h *DreamHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	count, ok := sampleCount(w, r, defaultFeedCount)
	if !ok {
		return
	}

	dreams, err := h.service.GetDreamsWithReviews(r.Context(), userID, count)
	if err != nil {
		handleServiceError(h.log, w, err, "get dream feed")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewSampleResponse(count, dreams))
}

// GetDream handles GET /api/dreams/{id} (protected)
func (h *DreamHandler) GetDream(w http.ResponseWriter, r *http.Request) {
	dreamID, ok := pathID(w, r)
	if !ok {
		return
	}

	dream, err := h.service.GetDreamWithReviews(r.Context(), dreamID)
	if err != nil {
		handleServiceError(h.log, w, err, "get dream")
		return
	}

	utils.ResponseSuccess(w, "success", dream)
}

// CreateDream handles POST /api/dreams (protected)
func (h *DreamHandler) CreateDream(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateDreamRequest
	if !decode(w, r, &req) {
		return
	}

	dream, err := h.service.CreateDream(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create dream")
		return
	}

	utils.ResponseCreated(w, "Dream created", dream)
}

// UpdateDream handles PUT /api/dreams/{id} (protected, owner only)
func (h *DreamHandler) UpdateDream(w http.ResponseWriter, r *http.Request) {
	dreamID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.UpdateDreamRequest
	if !decode(w, r, &req) {
		return
	}

	dream, err := h.service.UpdateDream(r.Context(), dreamID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update dream")
		return
	}

	utils.ResponseSuccess(w, "Dream updated", dream)
}

// DeleteDream handles DELETE /api/dreams/{id} (protected, owner only)
func (h *DreamHandler) DeleteDream(w http.ResponseWriter, r *http.Request) {
	dreamID, ok := pathID(w, r)
	if !ok {
		return
	}

	// Deleting a missing dream is not an error; its reviews go with it
	if err := h.service.DeleteDream(r.Context(), dreamID); err != nil {
		handleServiceError(h.log, w, err, "delete dream")
		return
	}

	utils.ResponseSuccess(w, "Dream deleted", nil)
}
