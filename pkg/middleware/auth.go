package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidToken = errors.New("invalid token")

// TokenVerifier resolves a bearer token to the caller it was issued for.
type TokenVerifier func(ctx context.Context, token string) (utils.Caller, error)

// UserLookup asks the auth service who a token belongs to.
type UserLookup interface {
	GetUser(ctx context.Context, accessToken string) (*entity.AuthUser, error)
}

type accessClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 tokens signed with the project's JWT secret.
func JWTVerifier(secret string) TokenVerifier {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(_ context.Context, token string) (utils.Caller, error) {
		var claims accessClaims
		if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
			return key, nil
		}); err != nil {
			return utils.Caller{}, fmt.Errorf("%w: %w", errInvalidToken, err)
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return utils.Caller{}, fmt.Errorf("%w: subject is not a user id", errInvalidToken)
		}
		return utils.Caller{UserID: userID, Role: claims.Role, Token: token}, nil
	}
}

// RemoteVerifier asks the auth service, for deployments without the JWT secret.
func RemoteVerifier(users UserLookup) TokenVerifier {
	return func(ctx context.Context, token string) (utils.Caller, error) {
		user, err := users.GetUser(ctx, token)
		if err != nil {
			return utils.Caller{}, err
		}
		return utils.Caller{UserID: user.ID, Role: user.Role, Token: token}, nil
	}
}

// Auth requires a bearer token and stores the verified caller in the request context.
func Auth(verify TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			caller, err := verify(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, errInvalidToken), errors.Is(err, repository.ErrUnauthorized):
				logger.Warn("Rejected token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			case errors.Is(err, repository.ErrTransport):
				logger.Error("Auth service unreachable", zap.Error(err))
				utils.ResponseBadGateway(w, "Auth service unavailable")
				return
			default:
				logger.Error("Failed to verify token", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithCaller(r.Context(), caller)))
		})
	}
}
