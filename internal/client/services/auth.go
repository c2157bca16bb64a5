// Package services contains the application services of the terminal
// client. This file defines the authentication service: credential
// exchange, OTP-based password reset, logout, and the profile operations
// that touch the session store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/infokelas/kelascli/internal/client/api"
	"github.com/infokelas/kelascli/internal/client/models"
	"github.com/infokelas/kelascli/internal/client/session"
	"github.com/infokelas/kelascli/internal/logging"
)

// AuthService drives the session lifecycle.
//
// Contract:
//   - Login: exchange credentials, persist the bundle on the tier selected
//     by remember. The store is never touched on failure.
//   - RequestOTP / ResetPassword: public endpoints, no store access.
//   - Logout: best-effort remote call; local state is always cleared.
//   - CurrentSession: the bootstrap fast path. No server-side validation;
//     a stale token is caught by the gateway on the first real call.
//   - Profile / UpdateProfile / UpdatePassword: authenticated profile ops.
//     UpdateProfile refreshes the stored snapshot, token untouched.
//
// All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, identifier, password string, remember bool) (models.User, error)
	RequestOTP(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, identifier, otp, newPassword string) error
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*session.Bundle, error)
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (models.User, error)
	UpdatePassword(ctx context.Context, currentPassword, newPassword string) error
}

type authService struct {
	client   api.Client
	sessions session.Store
	log      logging.Logger
}

// NewAuthService binds the service to the API client and session store.
func NewAuthService(client api.Client, sessions session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: client, sessions: sessions, log: log}
}

// Login performs the credential exchange and writes the resulting bundle.
// remember selects the durable tier; otherwise the session ends with the
// process.
func (a *authService) Login(ctx context.Context, identifier, password string, remember bool) (models.User, error) {
	creds, err := a.client.Login(ctx, identifier, password)
	if err != nil {
		return models.User{}, err
	}

	bundle := &session.Bundle{Token: creds.Token, User: creds.User}
	if err := a.sessions.Write(ctx, bundle, remember); err != nil {
		return models.User{}, fmt.Errorf("persist session: %w", err)
	}

	a.log.Info(ctx, "session established", "identifier", identifier, "persistent", remember)
	return creds.User, nil
}

func (a *authService) RequestOTP(ctx context.Context, identifier string) error {
	return a.client.RequestOTP(ctx, identifier)
}

func (a *authService) ResetPassword(ctx context.Context, identifier, otp, newPassword string) error {
	return a.client.ResetPassword(ctx, identifier, otp, newPassword)
}

// Logout tells the backend to drop the token and clears the local session.
// A failing remote call never blocks the local clear.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
	}
	return a.sessions.Clear(ctx)
}

// CurrentSession returns the stored bundle, or session.ErrNoSession.
func (a *authService) CurrentSession(ctx context.Context) (*session.Bundle, error) {
	return a.sessions.Read(ctx)
}

func (a *authService) Profile(ctx context.Context) (models.User, error) {
	return a.client.Profile(ctx)
}

// UpdateProfile posts the form and merges the returned fields into the
// cached snapshot, so the stored user stays in sync without a second
// round-trip. A missing session after a successful update is not an error:
// the gateway may have evicted it concurrently.
func (a *authService) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (models.User, error) {
	returned, err := a.client.UpdateProfile(ctx, update)
	if err != nil {
		return models.User{}, err
	}

	merged := returned
	if bundle, err := a.sessions.Read(ctx); err == nil {
		merged = bundle.User.Merge(returned)
		if err := a.sessions.UpdateUser(ctx, merged); err != nil && !errors.Is(err, session.ErrNoSession) {
			return models.User{}, fmt.Errorf("refresh snapshot: %w", err)
		}
	}
	return merged, nil
}

func (a *authService) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	return a.client.UpdatePassword(ctx, currentPassword, newPassword)
}
