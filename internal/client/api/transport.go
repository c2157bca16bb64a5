package api

import (
	"errors"
	"net/http"

	"github.com/infokelas/kelascli/internal/client/session"
	"github.com/infokelas/kelascli/internal/logging"
)

// AuthTransport is the single outbound pipeline every API call goes
// through: a RoundTripper decorator that attaches the current credential on
// the way out and reacts to authorization failure on the way back.
//
// Request path: if the session store holds a bundle, the bearer token is
// attached; otherwise the request goes out unauthenticated (login, OTP
// request and OTP reset are public endpoints and must work without one).
//
// Response path: a 401 or 403 clears the store across both tiers and fires
// OnAuthFailure, before the response is handed back to the caller. The
// response itself is returned unchanged so each call site still sees its
// own error. Any other status passes through untouched. No retries.
type AuthTransport struct {
	// Base performs the actual round trip. http.DefaultTransport when nil.
	Base http.RoundTripper

	// Sessions is consulted before every request and cleared on 401/403.
	Sessions session.Store

	// OnAuthFailure runs after the store has been cleared. Implementations
	// must be idempotent: two in-flight requests can both fail authorization
	// and each will trigger the callback.
	OnAuthFailure func()

	Log logging.Logger
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	log := t.Log
	if log == nil {
		log = logging.Nop()
	}

	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(ctx)
	out.Header.Set("Accept", "application/json")

	if t.Sessions != nil {
		bundle, err := t.Sessions.Read(ctx)
		switch {
		case err == nil:
			out.Header.Set("Authorization", "Bearer "+bundle.Token)
		case errors.Is(err, session.ErrNoSession):
			// Unauthenticated request; fine for public endpoints.
		default:
			log.Warn(ctx, "session read failed, sending unauthenticated", "error", err)
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		log.Info(ctx, "authorization failure, evicting session",
			"status", resp.StatusCode, "url", req.URL.Path)
		if t.Sessions != nil {
			if err := t.Sessions.Clear(ctx); err != nil {
				log.Error(ctx, "session clear failed", "error", err)
			}
		}
		if t.OnAuthFailure != nil {
			t.OnAuthFailure()
		}
	}
	return resp, nil
}
