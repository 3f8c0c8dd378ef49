package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// fakeGoTrue answers the auth calls this package makes. Other gotrue.Client
// methods are left to the nil embedded interface.
type fakeGoTrue struct {
	gotrue.Client
	*authBackend
	token string
}

type authBackend struct {
	mu          sync.Mutex
	autoConfirm bool
	passwords   map[string]string
	users       map[string]types.User
	access      map[string]string // token -> email
	refresh     map[string]string // token -> email
	issued      int
	logoutErr   error
}

func newFakeGoTrue() *fakeGoTrue {
	return &fakeGoTrue{authBackend: &authBackend{
		autoConfirm: true,
		passwords:   map[string]string{},
		users:       map[string]types.User{},
		access:      map[string]string{},
		refresh:     map[string]string{},
	}}
}

func statusError(code int, body string) error {
	return fmt.Errorf("response status code %d: %s", code, body)
}

func (f *fakeGoTrue) WithToken(token string) gotrue.Client {
	return &fakeGoTrue{authBackend: f.authBackend, token: token}
}

func (f *fakeGoTrue) issue(email string) types.Session {
	f.issued++
	access := fmt.Sprintf("access-%d", f.issued)
	refresh := fmt.Sprintf("refresh-%d", f.issued)
	f.access[access] = email
	f.refresh[refresh] = email
	return types.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         f.users[email],
	}
}

func (f *fakeGoTrue) Signup(req types.SignupRequest) (*types.SignupResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[req.Email]; ok {
		return nil, statusError(422, `{"msg":"User already registered"}`)
	}
	user := types.User{ID: uuid.New(), Email: req.Email, Role: "authenticated", CreatedAt: time.Now()}
	f.users[req.Email] = user
	f.passwords[req.Email] = req.Password

	resp := &types.SignupResponse{User: user}
	if f.autoConfirm {
		resp.Session = f.issue(req.Email)
	}
	return resp, nil
}

func (f *fakeGoTrue) SignInWithEmailPassword(email, password string) (*types.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, statusError(400, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	}
	return &types.TokenResponse{Session: f.issue(email)}, nil
}

func (f *fakeGoTrue) RefreshToken(refreshToken string) (*types.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.refresh[refreshToken]
	if !ok {
		return nil, statusError(400, `{"error":"invalid_grant","error_description":"Invalid Refresh Token"}`)
	}
	delete(f.refresh, refreshToken)
	return &types.TokenResponse{Session: f.issue(email)}, nil
}

func (f *fakeGoTrue) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.logoutErr != nil {
		return f.logoutErr
	}
	if _, ok := f.access[f.token]; !ok {
		return statusError(401, `{"msg":"invalid JWT"}`)
	}
	delete(f.access, f.token)
	return nil
}

func (f *fakeGoTrue) GetUser() (*types.UserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.access[f.token]
	if !ok {
		return nil, statusError(401, `{"msg":"invalid JWT"}`)
	}
	return &types.UserResponse{User: f.users[email]}, nil
}
