// Package cli implements the interactive terminal client of the Infokelas
// portal: the login and password-reset views, and the authenticated shell.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/infokelas/kelascli/internal/client/api"
	"github.com/infokelas/kelascli/internal/client/config"
	"github.com/infokelas/kelascli/internal/client/services"
	"github.com/infokelas/kelascli/internal/client/session"
	"github.com/infokelas/kelascli/internal/logging"
)

// View names the screen currently rendered. The auth views form a small
// state machine; ViewShell is the authenticated application.
type View string

const (
	ViewLogin      View = "login"
	ViewOTPRequest View = "otp-request"
	ViewOTPReset   View = "otp-reset"
	ViewShell      View = "shell"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	client   api.Client
	sessions session.Store
	log      logging.Logger

	view View
	// identifier carries the NIM/email from otp-request into otp-reset and
	// keeps the entered value across a failed login.
	identifier string
	userName   string
	quit       bool

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := session.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("init session database: %w", err)
	}

	sessions := session.NewTierStore(session.NewSQLiteTier(db), session.NewMemoryTier(), log)

	app := &App{
		config:   c,
		sessions: sessions,
		log:      log,
		view:     ViewLogin,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	// The gateway evicts the session itself; the callback only moves the
	// UI back to the login view.
	client := api.NewHTTPClient(c.APIBaseURL, sessions, c.RequestTimeout, app.evictSession, log)
	app.client = client
	app.auth = services.NewAuthService(client, sessions, log)

	return app, nil
}

// evictSession forces the UI back to the login view after the gateway
// dropped the credential. Idempotent: while already on the login view (or
// on one of the reset views reachable only from it) nothing happens, so a
// 401 from the login endpoint itself cannot loop.
func (a *App) evictSession() {
	if a.view != ViewShell {
		return
	}
	a.view = ViewLogin
	a.userName = ""
	fmt.Fprintln(a.out, "Your session has ended. Please log in again.")
}

// Run drives the view loop until the user exits. On entry it performs the
// bootstrap check: an existing bundle in either tier skips the login view
// entirely. That is a convenience fast path, not a security boundary; a
// stale token is caught by the gateway on the first real request.
func (a *App) Run(ctx context.Context) {
	if bundle, err := a.auth.CurrentSession(ctx); err == nil {
		a.userName = bundle.User.Name
		a.view = ViewShell
		fmt.Fprintf(a.out, "Welcome back, %s!\n", bundle.User.Name)
	} else if !errors.Is(err, session.ErrNoSession) {
		a.log.Warn(ctx, "bootstrap session read failed", "error", err)
	}

	for !a.quit {
		switch a.view {
		case ViewLogin:
			a.loginView(ctx)
		case ViewOTPRequest:
			a.otpRequestView(ctx)
		case ViewOTPReset:
			a.otpResetView(ctx)
		case ViewShell:
			a.shell(ctx)
		}
	}
	fmt.Fprintln(a.out, "Bye!")
}

func (a *App) isLoggedIn() bool {
	return a.view == ViewShell
}
