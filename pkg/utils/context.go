package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	TokenKey  contextKey = "token"
)

// Caller is the authenticated identity a request or CLI command acts as.
type Caller struct {
	UserID uuid.UUID
	Role   string
	Token  string
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok && role != ""
}

// GetTokenFromContext returns the bearer token forwarded to the store.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

// WithCaller stores every part of c that is set.
func WithCaller(ctx context.Context, c Caller) context.Context {
	if c.UserID != uuid.Nil {
		ctx = context.WithValue(ctx, UserIDKey, c.UserID)
	}
	if c.Role != "" {
		ctx = context.WithValue(ctx, RoleKey, c.Role)
	}
	if c.Token != "" {
		ctx = context.WithValue(ctx, TokenKey, c.Token)
	}
	return ctx
}
