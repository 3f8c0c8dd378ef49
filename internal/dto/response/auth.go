package response

import (
	"github.com/pudey33/DreamRate/internal/data/entity"
)

// AuthResponse is the auth service payload. Session is nil when sign-up still
// awaits email confirmation.
type AuthResponse struct {
	User    *entity.AuthUser    `json:"user"`
	Session *entity.AuthSession `json:"session"`
}
