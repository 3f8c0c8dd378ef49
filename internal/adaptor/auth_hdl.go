package adaptor

import (
	"net/http"

	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "sign up")
		return
	}

	// No session until the email address is confirmed
	if resp.Session == nil {
		utils.ResponseCreated(w, "Sign up successful. Confirm your email to sign in.", resp)
		return
	}
	utils.ResponseCreated(w, "Sign up successful", resp)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.SignInRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "sign in")
		return
	}

	utils.ResponseSuccess(w, "Sign in successful", resp)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(h.log, w, err, "refresh session")
		return
	}

	utils.ResponseSuccess(w, "Session refreshed", resp)
}

// SignOut handles POST /api/auth/signout (protected)
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	// Token stored by the auth middleware
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		handleServiceError(h.log, w, err, "sign out")
		return
	}

	utils.ResponseSuccess(w, "Sign out successful", nil)
}

// Me handles GET /api/auth/me (protected)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetUser(r.Context(), token)
	if err != nil {
		handleServiceError(h.log, w, err, "get current user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}
