package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infokelas/kelascli/internal/client/api"
	"github.com/infokelas/kelascli/internal/client/models"
	"github.com/infokelas/kelascli/internal/client/session"
)

// fakeClient stubs the few api.Client methods a test needs; anything else
// panics via the embedded nil interface.
type fakeClient struct {
	api.Client
	loginFn          func(ctx context.Context, identifier, password string) (*api.Credentials, error)
	logoutFn         func(ctx context.Context) error
	requestOTPFn     func(ctx context.Context, identifier string) error
	resetPasswordFn  func(ctx context.Context, identifier, otp, newPassword string) error
	updateProfileFn  func(ctx context.Context, update api.ProfileUpdate) (models.User, error)
	updatePasswordFn func(ctx context.Context, currentPassword, newPassword string) error
}

func (f *fakeClient) Login(ctx context.Context, identifier, password string) (*api.Credentials, error) {
	return f.loginFn(ctx, identifier, password)
}

func (f *fakeClient) Logout(ctx context.Context) error {
	return f.logoutFn(ctx)
}

func (f *fakeClient) RequestOTP(ctx context.Context, identifier string) error {
	return f.requestOTPFn(ctx, identifier)
}

func (f *fakeClient) ResetPassword(ctx context.Context, identifier, otp, newPassword string) error {
	return f.resetPasswordFn(ctx, identifier, otp, newPassword)
}

func (f *fakeClient) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (models.User, error) {
	return f.updateProfileFn(ctx, update)
}

func (f *fakeClient) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	return f.updatePasswordFn(ctx, currentPassword, newPassword)
}

func setupService(t *testing.T, client api.Client) (AuthService, session.Store, *session.MemoryTier) {
	t.Helper()
	durable := session.NewMemoryTier()
	store := session.NewTierStore(durable, session.NewMemoryTier(), nil)
	return NewAuthService(client, store, nil), store, durable
}

func TestLogin_PersistsBundleOnSelectedTier(t *testing.T) {
	client := &fakeClient{
		loginFn: func(ctx context.Context, identifier, password string) (*api.Credentials, error) {
			assert.Equal(t, "A12345", identifier)
			assert.Equal(t, "secret", password)
			return &api.Credentials{
				Token: "tok-1",
				User:  models.User{Name: "Budi", NIM: "A12345"},
			}, nil
		},
	}
	svc, store, durable := setupService(t, client)
	ctx := context.Background()

	user, err := svc.Login(ctx, "A12345", "secret", true)
	require.NoError(t, err)
	assert.Equal(t, "Budi", user.Name)

	bundle, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", bundle.Token)
	assert.Equal(t, "Budi", bundle.User.Name)

	// Remember-me selected the durable tier.
	v, err := durable.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-1"), v)
}

func TestLogin_SessionOnlySkipsDurableTier(t *testing.T) {
	client := &fakeClient{
		loginFn: func(ctx context.Context, identifier, password string) (*api.Credentials, error) {
			return &api.Credentials{Token: "tok-2", User: models.User{Name: "Budi"}}, nil
		},
	}
	svc, store, durable := setupService(t, client)
	ctx := context.Background()

	_, err := svc.Login(ctx, "A12345", "secret", false)
	require.NoError(t, err)

	v, err := durable.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, v)

	bundle, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", bundle.Token)
}

func TestLogin_FailureLeavesStoreUntouched(t *testing.T) {
	client := &fakeClient{
		loginFn: func(ctx context.Context, identifier, password string) (*api.Credentials, error) {
			return nil, &api.StatusError{Status: 422, Message: "NIM/Email atau password salah."}
		},
	}
	svc, store, _ := setupService(t, client)
	ctx := context.Background()

	_, err := svc.Login(ctx, "A12345", "wrong", true)
	require.Error(t, err)

	_, err = store.Read(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogout_ClearsSessionEvenWhenRemoteCallFails(t *testing.T) {
	client := &fakeClient{
		logoutFn: func(ctx context.Context) error { return api.ErrUnavailable },
	}
	svc, store, _ := setupService(t, client)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, &session.Bundle{Token: "tok-1", User: models.User{Name: "Budi"}}, true))

	require.NoError(t, svc.Logout(ctx))

	_, err := store.Read(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestRequestOTP_NeverTouchesStore(t *testing.T) {
	client := &fakeClient{
		requestOTPFn: func(ctx context.Context, identifier string) error {
			return &api.StatusError{Status: 422, Message: "Akun tidak ditemukan."}
		},
	}
	svc, store, _ := setupService(t, client)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, &session.Bundle{Token: "tok-1", User: models.User{Name: "Budi"}}, true))
	require.Error(t, svc.RequestOTP(ctx, "nobody@example.com"))

	bundle, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", bundle.Token)
}

func TestUpdateProfile_MergesSnapshotAndKeepsToken(t *testing.T) {
	client := &fakeClient{
		updateProfileFn: func(ctx context.Context, update api.ProfileUpdate) (models.User, error) {
			// Backend echoes only the fields it changed.
			return models.User{Name: "Budi Santoso", Phone: "0812"}, nil
		},
	}
	svc, store, _ := setupService(t, client)
	ctx := context.Background()

	original := &session.Bundle{
		Token: "tok-1",
		User:  models.User{ID: 1, Name: "Budi", NIM: "A12345", Email: "budi@example.com"},
	}
	require.NoError(t, store.Write(ctx, original, true))

	merged, err := svc.UpdateProfile(ctx, api.ProfileUpdate{Name: "Budi Santoso", Phone: "0812"})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", merged.Name)
	assert.Equal(t, "A12345", merged.NIM, "fields the backend omitted survive the merge")
	assert.Equal(t, "budi@example.com", merged.Email)

	bundle, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", bundle.Token)
	assert.Equal(t, merged, bundle.User)
}

func TestUpdateProfile_NoSessionStillReturnsUser(t *testing.T) {
	client := &fakeClient{
		updateProfileFn: func(ctx context.Context, update api.ProfileUpdate) (models.User, error) {
			return models.User{Name: "Budi"}, nil
		},
	}
	svc, _, _ := setupService(t, client)

	user, err := svc.UpdateProfile(context.Background(), api.ProfileUpdate{Name: "Budi"})
	require.NoError(t, err)
	assert.Equal(t, "Budi", user.Name)
}

func TestUpdatePassword_DoesNotTouchStore(t *testing.T) {
	client := &fakeClient{
		updatePasswordFn: func(ctx context.Context, currentPassword, newPassword string) error { return nil },
	}
	svc, store, _ := setupService(t, client)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, &session.Bundle{Token: "tok-1", User: models.User{Name: "Budi"}}, true))
	require.NoError(t, svc.UpdatePassword(ctx, "old", "new"))

	bundle, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", bundle.Token)
}

func TestCurrentSession_PassesThroughAbsence(t *testing.T) {
	svc, _, _ := setupService(t, &fakeClient{})

	_, err := svc.CurrentSession(context.Background())
	require.True(t, errors.Is(err, session.ErrNoSession))
}
