package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/internal/dto/response"
	"github.com/pudey33/DreamRate/pkg/observable"
	"github.com/pudey33/DreamRate/pkg/utils"

	"go.uber.org/zap"
)

// AuthState is the signed-in state of one client process. User, Session and Loading
// start as nil, nil and true. Start must be called before the state follows sign-in
// and sign-out.
type AuthState struct {
	User    *observable.Value[*entity.AuthUser]
	Session *observable.Value[*entity.AuthSession]
	Loading *observable.Value[bool]

	auth     AuthService
	sessions repository.SessionRepository
	log      *zap.Logger
	now      func() time.Time

	start     sync.Once
	applyMu   sync.Mutex
	applied   int // events applied so far
	ready     chan struct{}
	readyOnce sync.Once
}

func NewAuthState(auth AuthService, sessions repository.SessionRepository, log *zap.Logger) *AuthState {
	return &AuthState{
		User:     observable.New[*entity.AuthUser](nil),
		Session:  observable.New[*entity.AuthSession](nil),
		Loading:  observable.New(true),
		auth:     auth,
		sessions: sessions,
		log:      log.With(zap.String("service", "auth_state")),
		now:      time.Now,
		ready:    make(chan struct{}),
	}
}

// Start follows auth events until ctx is done and restores the persisted session
// in the background. Calls after the first are no-ops.
func (a *AuthState) Start(ctx context.Context) {
	a.start.Do(func() {
		unsubscribe := a.auth.OnAuthStateChange(func(ev AuthEvent) {
			a.apply(ctx, ev)
		})
		context.AfterFunc(ctx, unsubscribe)

		a.applyMu.Lock()
		seen := a.applied
		a.applyMu.Unlock()

		go a.restore(ctx, seen)
	})
}

// apply persists and stores the event's session under applyMu, then notifies
// subscribers with the lock released so they may call back into the state.
func (a *AuthState) apply(ctx context.Context, ev AuthEvent) {
	a.applyMu.Lock()
	a.applied++

	var err error
	switch ev.Kind {
	case SignedIn, TokenRefreshed:
		err = a.sessions.Save(context.WithoutCancel(ctx), ev.Session)
	case SignedOut:
		err = a.sessions.Clear(context.WithoutCancel(ctx))
	}
	if err != nil {
		a.log.Warn("Failed to persist session", zap.Error(err), zap.String("event", string(ev.Kind)))
	}

	a.store(ev.Session)
	a.applyMu.Unlock()

	a.flush()
	a.log.Debug("Auth event applied", zap.String("event", string(ev.Kind)))
}

// store must be called with applyMu held.
func (a *AuthState) store(session *entity.AuthSession) {
	var user *entity.AuthUser
	if session != nil {
		u := session.User
		user = &u
	}
	a.Session.Store(session)
	a.User.Store(user)
	a.Loading.Store(false)
}

func (a *AuthState) flush() {
	a.Session.Flush()
	a.User.Flush()
	a.Loading.Flush()
	a.readyOnce.Do(func() { close(a.ready) })
}

// restore loads the persisted session once. An event applied after seen wins.
func (a *AuthState) restore(ctx context.Context, seen int) {
	session, err := a.sessions.Load(ctx)
	if err != nil {
		a.log.Warn("Failed to load persisted session", zap.Error(err))
		session = nil
	}

	if session.Expired(a.now()) {
		// a successful refresh arrives as a TOKEN_REFRESHED event
		if _, err := a.auth.Refresh(ctx, session.RefreshToken); err != nil {
			a.log.Info("Persisted session could not be refreshed", zap.Error(err))
			if err := a.sessions.Clear(context.WithoutCancel(ctx)); err != nil {
				a.log.Warn("Failed to clear persisted session", zap.Error(err))
			}
		}
		session = nil
	}

	a.applyMu.Lock()
	if a.applied != seen {
		a.applyMu.Unlock()
		return
	}
	a.store(session)
	a.applyMu.Unlock()

	a.flush()
}

// WaitReady blocks until the initial load or the first event has completed.
func (a *AuthState) WaitReady(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AuthState) AccessToken() string {
	if s := a.Session.Get(); s != nil {
		return s.AccessToken
	}
	return ""
}

// Bind returns ctx carrying the signed-in caller, so store calls run as that user.
func (a *AuthState) Bind(ctx context.Context) context.Context {
	s := a.Session.Get()
	if s == nil {
		return ctx
	}
	return utils.WithCaller(ctx, utils.Caller{
		UserID: s.User.ID,
		Role:   s.User.Role,
		Token:  s.AccessToken,
	})
}

func (a *AuthState) SignUp(ctx context.Context, email, password string) (*response.AuthResponse, error) {
	return a.auth.SignUp(ctx, &request.SignUpRequest{Email: email, Password: password})
}

func (a *AuthState) SignIn(ctx context.Context, email, password string) (*response.AuthResponse, error) {
	return a.auth.SignIn(ctx, &request.SignInRequest{Email: email, Password: password})
}

// SignOut ends the held session. A session the auth service already rejects is
// dropped locally.
func (a *AuthState) SignOut(ctx context.Context) error {
	token := a.AccessToken()
	if token == "" {
		return nil
	}

	err := a.auth.SignOut(ctx, token)
	if errors.Is(err, repository.ErrUnauthorized) {
		a.apply(ctx, AuthEvent{Kind: SignedOut})
		return nil
	}
	return err
}

// CurrentUser asks the auth service who the held session belongs to.
func (a *AuthState) CurrentUser(ctx context.Context) (*entity.AuthUser, error) {
	token := a.AccessToken()
	if token == "" {
		return nil, ErrNotSignedIn
	}

	user, err := a.auth.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}
