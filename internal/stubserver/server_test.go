package stubserver

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infokelas/kelascli/internal/client/api"
	"github.com/infokelas/kelascli/internal/client/services"
	"github.com/infokelas/kelascli/internal/client/session"
)

type env struct {
	srv         *Server
	auth        services.AuthService
	client      api.Client
	store       session.Store
	navigations int
}

// newEnv wires the real client stack against the stub: tier store, auth
// transport and service, exactly as the terminal app assembles them.
func newEnv(t *testing.T) *env {
	t.Helper()

	srv, err := New("test-secret")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	e := &env{srv: srv}
	e.store = session.NewTierStore(session.NewMemoryTier(), session.NewMemoryTier(), nil)
	client := api.NewHTTPClient(ts.URL, e.store, 5*time.Second, func() { e.navigations++ }, nil)
	e.client = client
	e.auth = services.NewAuthService(client, e.store, nil)
	return e
}

func login(t *testing.T, e *env) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), "A12345", "rahasia", true)
	require.NoError(t, err)
}

func TestLogin_EstablishesSessionAndServesProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Login(ctx, "A12345", "rahasia", true)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", user.Name)

	bundle, err := e.store.Read(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Token)
	assert.Equal(t, "budi@example.com", bundle.User.Email)

	// The stored token authenticates follow-up requests.
	profile, err := e.client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A12345", profile.NIM)
}

func TestLogin_EmailAliasWorks(t *testing.T) {
	e := newEnv(t)

	user, err := e.auth.Login(context.Background(), "budi@example.com", "rahasia", false)
	require.NoError(t, err)
	assert.Equal(t, "A12345", user.NIM)
}

func TestLogin_WrongPasswordSurfacesBackendMessage(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Login(context.Background(), "A12345", "salah", true)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "NIM/Email atau password salah.", statusErr.Message)
	assert.Zero(t, e.navigations, "a 422 is not an authorization failure")
}

func TestRevokedToken_EvictsSessionOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	login(t, e)

	// Revoke server-side without clearing the local session, as if the
	// token had been invalidated from another device.
	bundle, err := e.store.Read(ctx)
	require.NoError(t, err)
	e.srv.mu.Lock()
	e.srv.revoked[bundle.Token] = true
	e.srv.mu.Unlock()

	_, err = e.client.Profile(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	_, err = e.store.Read(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Equal(t, 1, e.navigations)

	// A second call goes out unauthenticated and fails again, but the
	// local state is already settled.
	_, err = e.client.Profile(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 2, e.navigations)
}

func TestLogout_RevokesTokenAndClearsStore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	login(t, e)

	bundle, err := e.store.Read(ctx)
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx))

	_, err = e.store.Read(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	e.srv.mu.Lock()
	revoked := e.srv.revoked[bundle.Token]
	e.srv.mu.Unlock()
	assert.True(t, revoked)
}

func TestOTPFlow_ResetsPasswordEndToEnd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.auth.RequestOTP(ctx, "budi@example.com"))
	code := e.srv.LastOTP("budi@example.com")
	require.Len(t, code, 6)

	require.NoError(t, e.auth.ResetPassword(ctx, "budi@example.com", code, "barubanget"))

	// Old password no longer works, new one does.
	_, err := e.auth.Login(ctx, "A12345", "rahasia", true)
	require.Error(t, err)
	_, err = e.auth.Login(ctx, "A12345", "barubanget", true)
	require.NoError(t, err)
}

func TestOTPFlow_WrongCodeRejectedAndCodeSurvives(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.auth.RequestOTP(ctx, "A12345"))
	code := e.srv.LastOTP("A12345")

	err := e.auth.ResetPassword(ctx, "A12345", "000000", "barubanget")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Kode OTP salah/kadaluarsa.", statusErr.Message)

	// The issued code is still redeemable after a wrong attempt.
	require.NoError(t, e.auth.ResetPassword(ctx, "A12345", code, "barubanget"))
}

func TestOTP_SingleUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.auth.RequestOTP(ctx, "A12345"))
	code := e.srv.LastOTP("A12345")

	require.NoError(t, e.auth.ResetPassword(ctx, "A12345", code, "barubanget"))
	require.Error(t, e.auth.ResetPassword(ctx, "A12345", code, "lainlagi"))
}

func TestUpdateProfile_RoundTripsThroughMultipart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	login(t, e)

	user, err := e.auth.UpdateProfile(ctx, api.ProfileUpdate{
		Name:           "Budi S.",
		Phone:          "0811111111",
		Avatar:         strings.NewReader("png-bytes"),
		AvatarFilename: "me.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", user.Name)
	assert.Equal(t, "0811111111", user.Phone)
	assert.Equal(t, "/avatars/me.png", user.AvatarURL)
	assert.Equal(t, "budi@example.com", user.Email, "untouched fields survive")

	// The session snapshot was refreshed too.
	bundle, err := e.store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", bundle.User.Name)
}

func TestUpdatePassword_RequiresCurrentPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	login(t, e)

	err := e.auth.UpdatePassword(ctx, "salah", "barubanget")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Password saat ini salah.", statusErr.Message)

	require.NoError(t, e.auth.UpdatePassword(ctx, "rahasia", "barubanget"))
}

func TestPortal_ReadEndpoints(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	login(t, e)

	schedules, err := e.client.Schedules(ctx, false)
	require.NoError(t, err)
	assert.Len(t, schedules, 2)

	announcements, err := e.client.Announcements(ctx, 1)
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, "UTS Minggu Depan", announcements[0].Title, "newest first")

	classrooms, err := e.client.MyClassrooms(ctx)
	require.NoError(t, err)
	require.Len(t, classrooms, 1)

	subjects, err := e.client.Subjects(ctx, classrooms[0].ID)
	require.NoError(t, err)
	assert.Len(t, subjects, 2)

	assignments, err := e.client.Assignments(ctx, classrooms[0].ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	materials, err := e.client.MaterialsBySubject(ctx, subjects[0].ID)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "Slide Pertemuan 1", materials[0].Title)
}

func TestSubmitAssignment_ReturnsReceipt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	login(t, e)

	sub, err := e.client.SubmitAssignment(ctx, 100, "jawaban.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.SubmittedAt.IsZero())

	// The assignment now reads as submitted.
	a, err := e.client.Assignment(ctx, 100)
	require.NoError(t, err)
	assert.True(t, a.Submitted)
}

func TestUnauthenticatedPortalAccess_Returns401(t *testing.T) {
	e := newEnv(t)

	_, err := e.client.Schedules(context.Background(), false)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, e.navigations, "gateway still routes the user to login")
}
