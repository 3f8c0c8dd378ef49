package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/internal/dto/response"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"
)

type AuthEventKind string

const (
	SignedIn       AuthEventKind = "SIGNED_IN"
	SignedOut      AuthEventKind = "SIGNED_OUT"
	TokenRefreshed AuthEventKind = "TOKEN_REFRESHED"
)

// AuthEvent reports a change of session. Session is nil for SignedOut.
type AuthEvent struct {
	Kind    AuthEventKind
	Session *entity.AuthSession
}

// AuthService talks to the hosted auth service. It keeps no session of its own and
// is safe for concurrent use.
type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*response.AuthResponse, error)
	SignIn(ctx context.Context, req *request.SignInRequest) (*response.AuthResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*entity.AuthUser, error)
	Refresh(ctx context.Context, refreshToken string) (*response.AuthResponse, error)

	// OnAuthStateChange registers fn for every later event. Listeners run on the
	// goroutine of the call that caused the event, in registration order.
	OnAuthStateChange(fn func(AuthEvent)) (unsubscribe func())
}

type authService struct {
	client gotrue.Client
	log    *zap.Logger

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(AuthEvent)
}

func NewAuthService(client gotrue.Client, log *zap.Logger) AuthService {
	return &authService{
		client:    client,
		log:       log.With(zap.String("service", "auth")),
		listeners: make(map[int]func(AuthEvent)),
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Sign up validation failed", zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, repository.FromAuth("sign up", err)
	}

	resp, err := s.client.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.log.Warn("Sign up failed", zap.Error(err), zap.String("email", req.Email))
		return nil, repository.FromAuth("sign up", err)
	}

	out := &response.AuthResponse{Session: toAuthSession(resp.Session)}
	if out.Session != nil {
		out.User = &out.Session.User
	} else {
		out.User = toAuthUser(resp.User)
	}

	s.log.Info("User signed up",
		zap.String("user_id", out.User.ID.String()),
		zap.Bool("confirmed", out.Session != nil),
	)

	if out.Session != nil {
		s.publish(AuthEvent{Kind: SignedIn, Session: out.Session})
	}
	return out, nil
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Sign in validation failed", zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, repository.FromAuth("sign in", err)
	}

	resp, err := s.client.SignInWithEmailPassword(req.Email, req.Password)
	if err != nil {
		s.log.Warn("Sign in failed", zap.Error(err), zap.String("email", req.Email))
		return nil, repository.FromAuth("sign in", err)
	}

	session := toAuthSession(resp.Session)
	if session == nil {
		return nil, repository.FromAuth("sign in", fmt.Errorf("auth service returned no session"))
	}

	s.log.Info("User signed in", zap.String("user_id", session.User.ID.String()))

	s.publish(AuthEvent{Kind: SignedIn, Session: session})
	return &response.AuthResponse{User: &session.User, Session: session}, nil
}

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return repository.FromAuth("sign out", err)
	}

	if err := s.client.WithToken(accessToken).Logout(); err != nil {
		s.log.Warn("Sign out failed", zap.Error(err))
		return repository.FromAuth("sign out", err)
	}

	s.log.Info("User signed out")
	s.publish(AuthEvent{Kind: SignedOut})
	return nil
}

func (s *authService) GetUser(ctx context.Context, accessToken string) (*entity.AuthUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.FromAuth("get user", err)
	}

	resp, err := s.client.WithToken(accessToken).GetUser()
	if err != nil {
		s.log.Debug("Get user failed", zap.Error(err))
		return nil, repository.FromAuth("get user", err)
	}

	return toAuthUser(resp.User), nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*response.AuthResponse, error) {
	if err := validate(&request.RefreshRequest{RefreshToken: refreshToken}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, repository.FromAuth("refresh session", err)
	}

	resp, err := s.client.RefreshToken(refreshToken)
	if err != nil {
		s.log.Warn("Refresh failed", zap.Error(err))
		return nil, repository.FromAuth("refresh session", err)
	}

	session := toAuthSession(resp.Session)
	if session == nil {
		return nil, repository.FromAuth("refresh session", fmt.Errorf("auth service returned no session"))
	}

	s.log.Debug("Session refreshed", zap.String("user_id", session.User.ID.String()))

	s.publish(AuthEvent{Kind: TokenRefreshed, Session: session})
	return &response.AuthResponse{User: &session.User, Session: session}, nil
}

func (s *authService) OnAuthStateChange(fn func(AuthEvent)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *authService) publish(ev AuthEvent) {
	s.mu.Lock()
	fns := make([]func(AuthEvent), 0, len(s.listeners))
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func toAuthUser(u types.User) *entity.AuthUser {
	return &entity.AuthUser{
		ID:               u.ID,
		Email:            u.Email,
		Role:             u.Role,
		EmailConfirmedAt: u.EmailConfirmedAt,
		LastSignInAt:     u.LastSignInAt,
		CreatedAt:        u.CreatedAt,
	}
}

// toAuthSession returns nil when no token was issued.
func toAuthSession(s types.Session) *entity.AuthSession {
	if s.AccessToken == "" {
		return nil
	}
	return &entity.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		User:         *toAuthUser(s.User),
	}
}
