// Package stores holds the session-scoped state slices of the client. Each
// store owns one slice; it is mutated only through the store's methods and
// every read returns a copy.
package stores

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, creds entities.UserCredentials) (*entities.AuthResponse, error)
	Register(ctx context.Context, creds entities.UserCredentials) (*entities.AuthResponse, error)
}

// AuthState is the persisted shape of the auth slice.
type AuthState struct {
	User   *entities.User         `json:"user"`
	Token  string                 `json:"token"`
	Status entities.SessionStatus `json:"status"`
	Error  string                 `json:"error,omitempty"`
}

// AuthStore holds the signed-in user and the bearer token.
type AuthStore struct {
	mu     sync.RWMutex
	api    Authenticator
	logger *zap.Logger

	user   *entities.User
	token  string
	status entities.SessionStatus
	err    string
}

// NewAuthStore starts signed out. logger may be nil.
func NewAuthStore(api Authenticator, logger *zap.Logger) *AuthStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthStore{
		api:    api,
		logger: logger,
		status: entities.SessionIdle,
	}
}

// Login authenticates and reports whether it succeeded. On failure the
// previous user and token are kept and Error holds the reason.
func (s *AuthStore) Login(ctx context.Context, creds entities.UserCredentials) bool {
	return s.authenticate(ctx, "login", creds, s.api.Login)
}

// Register creates an account and signs in with it.
func (s *AuthStore) Register(ctx context.Context, creds entities.UserCredentials) bool {
	return s.authenticate(ctx, "register", creds, s.api.Register)
}

func (s *AuthStore) authenticate(
	ctx context.Context,
	action string,
	creds entities.UserCredentials,
	call func(context.Context, entities.UserCredentials) (*entities.AuthResponse, error),
) bool {
	s.mu.Lock()
	s.status = entities.SessionLoading
	s.err = ""
	s.mu.Unlock()

	resp, err := call(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = entities.SessionError
		s.err = err.Error()
		s.logger.Warn(action+" failed", zap.String("email", creds.Email), zap.Error(err))
		return false
	}

	s.user = cloneUser(resp.User)
	s.token = resp.Token
	s.status = entities.SessionSuccess
	s.logger.Info(action+" succeeded", zap.String("email", creds.Email))
	return true
}

// Logout clears the session unconditionally.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.status = entities.SessionIdle
	s.logger.Info("session closed")
}

// IsAuthenticated reports whether a token is held.
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsLoading reports whether a login or register call is in flight.
func (s *AuthStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == entities.SessionLoading
}

// Token returns the bearer token, or "" when signed out.
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *AuthStore) User() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

func (s *AuthStore) Status() entities.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Error returns the message of the last failed call.
func (s *AuthStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns the slice of state that is persisted.
func (s *AuthStore) Snapshot() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AuthState{
		User:   cloneUser(s.user),
		Token:  s.token,
		Status: s.status,
		Error:  s.err,
	}
}

// Restore replaces the slice with a persisted snapshot. A snapshot taken
// mid-login is restored as idle.
func (s *AuthStore) Restore(state AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cloneUser(state.User)
	s.token = state.Token
	s.status = state.Status
	s.err = state.Error
	if s.status == "" || s.status == entities.SessionLoading {
		s.status = entities.SessionIdle
	}
}

func cloneUser(u *entities.User) *entities.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
