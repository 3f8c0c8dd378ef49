package entity

import (
	"time"
)

// AuthSession is the auth service's proof of a signed-in user.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"` // unix seconds
	User         AuthUser `json:"user"`
}

// expiryMargin treats tokens this close to expiry as already expired.
const expiryMargin = 10 * time.Second

func (s *AuthSession) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt == 0 {
		return false
	}
	return !now.Add(expiryMargin).Before(time.Unix(s.ExpiresAt, 0))
}
