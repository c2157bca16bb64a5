package api

import (
	"context"

	"github.com/infokelas/kelascli/internal/client/models"
)

// Login exchanges an identifier (NIM or email) and password for a bearer
// token and user snapshot. Public endpoint; a failed exchange surfaces the
// backend message via *StatusError.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*Credentials, error) {
	in := map[string]string{"identifier": identifier, "password": password}
	var out struct {
		Data Credentials `json:"data"`
	}
	if err := c.postJSON(ctx, "/login", in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Logout invalidates the token server-side. Best effort: callers clear the
// local session regardless of the result.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/logout", nil, nil)
}

// RequestOTP asks the backend to send a one-time code to the out-of-band
// channel registered for the identifier. Public endpoint.
func (c *HTTPClient) RequestOTP(ctx context.Context, identifier string) error {
	in := map[string]string{"identifier": identifier}
	return c.postJSON(ctx, "/forgot-password", in, nil)
}

// ResetPassword redeems an OTP for a new password. Public endpoint.
func (c *HTTPClient) ResetPassword(ctx context.Context, identifier, otp, newPassword string) error {
	in := map[string]string{
		"identifier":            identifier,
		"otp":                   otp,
		"password":              newPassword,
		"password_confirmation": newPassword,
	}
	return c.postJSON(ctx, "/reset-password", in, nil)
}

// Profile fetches the authoritative user snapshot.
func (c *HTTPClient) Profile(ctx context.Context) (models.User, error) {
	var out struct {
		Data models.User `json:"data"`
	}
	if err := c.getJSON(ctx, "/profile", nil, &out); err != nil {
		return models.User{}, err
	}
	return out.Data, nil
}

// UpdateProfile posts the multipart profile form and returns the fields the
// backend echoed back (possibly a partial snapshot).
func (c *HTTPClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	fields := map[string]string{
		"name":  update.Name,
		"email": update.Email,
		"phone": update.Phone,
	}
	files := map[string]filePart{}
	if update.Avatar != nil {
		files["avatar"] = filePart{filename: update.AvatarFilename, content: update.Avatar}
	}
	var out struct {
		Data models.User `json:"data"`
	}
	if err := c.postMultipart(ctx, "/profile/update", fields, files, &out); err != nil {
		return models.User{}, err
	}
	return out.Data, nil
}

// UpdatePassword changes the password of the logged-in user.
func (c *HTTPClient) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	in := map[string]string{
		"current_password":      currentPassword,
		"password":              newPassword,
		"password_confirmation": newPassword,
	}
	return c.postJSON(ctx, "/profile/password", in, nil)
}
