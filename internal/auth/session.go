package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/storage"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not signed in")

// Sessions keeps the signed-in user and mirrors it to storage under the
// token, user and lastLogin keys.
type Sessions struct {
	kv      service.Storage
	auth    service.Authenticator
	logger  *slog.Logger
	now     func() time.Time
	current *model.Session
	mu      sync.RWMutex
}

// NewSessions creates a signed-out session holder. Call Load to restore a
// previous login.
func NewSessions(kv service.Storage, authenticator service.Authenticator, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		kv:     kv,
		auth:   authenticator,
		logger: logger,
		now:    time.Now,
	}
}

// Load restores the session saved by an earlier Login. Both the token and
// the user must be present; anything missing or unreadable means signed out.
func (s *Sessions) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil

	token, err := s.kv.Get(ctx, storage.KeyToken)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("Failed to load session token", "error", err)
		}
		return
	}

	var user model.User
	if err := storage.GetJSON(ctx, s.kv, storage.KeyUser, &user); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("Failed to load session user", "error", err)
		}
		return
	}

	if len(token) == 0 {
		return
	}
	s.current = &model.Session{Token: string(token), User: user}
}

// Login authenticates creds and saves the resulting session.
func (s *Sessions) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	session, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return model.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, storage.KeyToken, []byte(session.Token)); err != nil {
		return model.Session{}, fmt.Errorf("failed to save session token: %w", err)
	}
	if err := storage.SetJSON(ctx, s.kv, storage.KeyUser, session.User); err != nil {
		return model.Session{}, fmt.Errorf("failed to save session user: %w", err)
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	if err := s.kv.Set(ctx, storage.KeyLastLogin, []byte(stamp)); err != nil {
		s.logger.Warn("Failed to record last login", "error", err)
	}

	s.current = &session
	s.logger.Info("Signed in", "user", session.User.Name)
	return session, nil
}

// Logout forgets the session. The last-login stamp is kept.
func (s *Sessions) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	var errs []error
	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, common.ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to delete %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// UpdateUser merges patch into the signed-in user and saves it.
func (s *Sessions) UpdateUser(ctx context.Context, patch model.UserPatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.User{}, ErrNotAuthenticated
	}
	user := s.current.User.Apply(patch)
	if err := storage.SetJSON(ctx, s.kv, storage.KeyUser, user); err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}
	s.current.User = user
	return user, nil
}

// Current returns the session, if any.
func (s *Sessions) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether someone is signed in.
func (s *Sessions) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// LastLogin returns the time of the most recent successful login.
func (s *Sessions) LastLogin(ctx context.Context) (time.Time, bool) {
	raw, err := s.kv.Get(ctx, storage.KeyLastLogin)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
