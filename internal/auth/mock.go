// Package auth provides the mock authenticator and the persisted session.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
)

// DefaultDelay is how long the mock authenticator pretends to think.
const DefaultDelay = time.Second

// MockUserID is the id every mock login gets.
const MockUserID = 1

// User-facing messages.
const (
	MsgMissingCredentials = "Vui lòng nhập đầy đủ thông tin đăng nhập"
	MsgMissingFields      = "Vui lòng điền đầy đủ thông tin"
	MsgPasswordMismatch   = "Mật khẩu xác nhận không khớp"
	MsgRegistered         = "Đăng ký thành công! Bạn có thể đăng nhập ngay bây giờ."
)

// Errors returned by MockAuthenticator.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
)

// MockAuthenticator accepts any non-blank credentials after a fixed delay.
type MockAuthenticator struct {
	now    func() time.Time
	logger *slog.Logger
	delay  time.Duration
}

// MockOption customizes a MockAuthenticator.
type MockOption func(*MockAuthenticator)

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockAuthenticator) { m.delay = d }
}

// WithClock replaces time.Now for token timestamps.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockAuthenticator) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) MockOption {
	return func(m *MockAuthenticator) { m.logger = logger }
}

// NewMockAuthenticator returns an authenticator with the default delay.
func NewMockAuthenticator(opts ...MockOption) *MockAuthenticator {
	m := &MockAuthenticator{
		delay:  DefaultDelay,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockAuthenticator) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Authenticate implements service.Authenticator.
func (m *MockAuthenticator) Authenticate(ctx context.Context, creds model.Credentials) (model.Session, error) {
	if err := m.wait(ctx); err != nil {
		return model.Session{}, err
	}

	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return model.Session{}, common.NewUserError(MsgMissingCredentials, ErrMissingCredentials)
	}

	user := model.User{
		ID:    MockUserID,
		Name:  username,
		Email: username + "@example.com",
	}
	token, err := MintToken(user, m.now())
	if err != nil {
		return model.Session{}, err
	}

	m.logger.Debug("Mock login succeeded", "user", username)
	return model.Session{Token: token, User: user}, nil
}

// Register pretends to create an account. Nothing is stored; the user
// signs in afterwards with Authenticate.
func (m *MockAuthenticator) Register(ctx context.Context, r model.Registration) error {
	if r.Password != r.Confirm {
		return common.NewUserError(MsgPasswordMismatch, ErrPasswordMismatch)
	}
	for _, field := range []string{r.Name, r.Email, r.Username, r.Password} {
		if strings.TrimSpace(field) == "" {
			return common.NewUserError(MsgMissingFields, ErrMissingCredentials)
		}
	}
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.logger.Debug("Mock registration succeeded", "user", r.Username)
	return nil
}
