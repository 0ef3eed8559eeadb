// Package auth signs users in and out against the directory backend.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/session"
)

// ErrMissingField is returned before any network call when a form field is
// blank.
var ErrMissingField = errors.New("missing required field")

const (
	loginFailed        = "Login failed."
	registrationFailed = "Registration failed."
)

// Backend is the part of the directory client used by auth.
type Backend interface {
	Login(ctx context.Context, email, password string) (directory.LoginResult, error)
	Register(ctx context.Context, r directory.Registration) error
}

// TokenStore keeps the bearer token between runs.
type TokenStore interface {
	SetToken(token string) error
	ClearToken() error
}

type Service struct {
	backend  Backend
	sessions *session.Store
	tokens   TokenStore
	logger   *slog.Logger
}

func NewService(b Backend, sessions *session.Store, tokens TokenStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: b, sessions: sessions, tokens: tokens, logger: logger}
}

// Login authenticates with the backend, stores the token and records the
// user in the session.
func (s *Service) Login(ctx context.Context, email, password string) (session.User, error) {
	if err := required("email", email, "password", password); err != nil {
		return session.User{}, err
	}

	res, err := s.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return session.User{}, withFallbackMessage(err, loginFailed)
	}

	if err := s.tokens.SetToken(res.Token); err != nil {
		return session.User{}, fmt.Errorf("storing token: %w", err)
	}
	user := session.User{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email}
	if err := s.sessions.Login(ctx, user); err != nil {
		return session.User{}, err
	}
	s.logger.Info("signed in", "user_id", user.ID)
	return user, nil
}

// Register creates an account. It does not sign the user in.
func (s *Service) Register(ctx context.Context, r directory.Registration) error {
	if err := required("name", r.Name, "phone", r.Phone, "email", r.Email, "password", r.Password); err != nil {
		return err
	}
	r.Email = strings.TrimSpace(r.Email)
	if err := s.backend.Register(ctx, r); err != nil {
		return withFallbackMessage(err, registrationFailed)
	}
	return nil
}

// Logout forgets the token and the session. A token that cannot be removed
// is logged; the session is cleared regardless.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.tokens.ClearToken(); err != nil {
		s.logger.Warn("clearing token failed", "error", err)
	}
	return s.sessions.Logout(ctx)
}

// required takes name/value pairs and reports the first blank value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, pairs[i])
		}
	}
	return nil
}

// withFallbackMessage fills in a user-facing message for backend rejections
// that carried none.
func withFallbackMessage(err error, fallback string) error {
	var apiErr *directory.APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		apiErr.Message = fallback
	}
	return err
}
