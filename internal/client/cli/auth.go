package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/infokelas/kelascli/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// errorMessage extracts the backend-provided message from err, falling back
// to the given generic text. Call sites own their user-facing messages; the
// gateway only handles the redirect side of a failure.
func errorMessage(err error, fallback string) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	if errors.Is(err, api.ErrUnavailable) {
		return "Cannot reach the server. Check your connection and try again."
	}
	return fallback
}

// loginView renders the credential form. Submitting valid credentials
// establishes the session and moves to the shell; a failed exchange stays
// here with the entered identifier kept. "forgot" switches to the OTP
// request view.
func (a *App) loginView(ctx context.Context) {
	fmt.Fprintln(a.out, "-- Login (type 'forgot' to reset password, 'exit' to quit) --")

	prompt := "Email / NIM"
	if a.identifier != "" {
		prompt = fmt.Sprintf("Email / NIM [%s]", a.identifier)
	}
	identifier, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		a.quit = true
		return
	}
	switch identifier {
	case "exit", "quit":
		a.quit = true
		return
	case "forgot":
		a.view = ViewOTPRequest
		return
	case "":
		identifier = a.identifier
	}
	a.identifier = identifier

	password, err := getPassword("Password", a.out)
	if err != nil {
		a.quit = true
		return
	}
	defer wipe(password)

	remember, err := getYesNo(a.reader, "Remember me", true, a.out)
	if err != nil {
		a.quit = true
		return
	}

	user, err := a.auth.Login(ctx, identifier, string(password), remember)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Login failed. Check your Email/NIM and password."))
		return
	}

	a.userName = user.Name
	a.view = ViewShell
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
}

// otpRequestView asks for the identifier the one-time code should be issued
// for. Success carries the identifier into the reset view; "cancel" returns
// to login.
func (a *App) otpRequestView(ctx context.Context) {
	fmt.Fprintln(a.out, "-- Forgot password (type 'cancel' to go back) --")

	prompt := "Email / NIM"
	if a.identifier != "" {
		prompt = fmt.Sprintf("Email / NIM [%s]", a.identifier)
	}
	identifier, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		a.quit = true
		return
	}
	switch identifier {
	case "cancel":
		a.view = ViewLogin
		return
	case "":
		identifier = a.identifier
	}

	if err := a.auth.RequestOTP(ctx, identifier); err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not send the OTP."))
		return
	}

	a.identifier = identifier
	a.view = ViewOTPReset
	fmt.Fprintln(a.out, "OTP sent via WhatsApp.")
}

// otpResetView redeems the code for a new password. A wrong or expired OTP
// stays here; success returns to login with nothing staged.
func (a *App) otpResetView(ctx context.Context) {
	fmt.Fprintf(a.out, "-- Reset password for %s (type 'cancel' to go back) --\n", a.identifier)

	otp, err := getSimpleText(a.reader, "OTP code", a.out)
	if err != nil {
		a.quit = true
		return
	}
	if otp == "cancel" {
		a.view = ViewLogin
		return
	}

	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		a.quit = true
		return
	}
	defer wipe(newPassword)

	if err := a.auth.ResetPassword(ctx, a.identifier, otp, string(newPassword)); err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Wrong or expired OTP code."))
		return
	}

	a.view = ViewLogin
	fmt.Fprintln(a.out, "Password changed. Please log in.")
}

// logout clears the session and returns to the login view. The remote call
// is best effort inside the service; this always succeeds locally.
func (a *App) logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout", "error", err)
	}
	a.userName = ""
	a.view = ViewLogin
	fmt.Fprintln(a.out, "Logged out.")
}
