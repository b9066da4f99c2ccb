package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anchorhealth/anchor-backend/internal/apierr"
	"github.com/anchorhealth/anchor-backend/internal/requestdata"
	"github.com/anchorhealth/anchor-backend/internal/types"
)

func newAuth(te *testEnv) AuthService {
	return NewAuthService(te.db, te.log, te.userRepo, te.userTokenRepo, "test-secret", time.Hour, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	te := newTestEnv(t)
	svc := newAuth(te)
	ctx := context.Background()

	user := &types.User{
		Email:     "  New@Example.COM ",
		FirstName: "New",
		LastName:  "User",
		Password:  "password123",
	}
	require.NoError(t, svc.RegisterUser(ctx, user))
	require.Equal(t, types.RoleMember, user.Role)

	// Duplicate email conflicts regardless of casing.
	dup := &types.User{Email: "new@example.com", FirstName: "Dup", Password: "password123"}
	err := svc.RegisterUser(ctx, dup)
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	pair, err := svc.LoginUser(ctx, "new@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	_, err = svc.LoginUser(ctx, "new@example.com", "wrongpassword")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
}

func TestRegisterValidation(t *testing.T) {
	te := newTestEnv(t)
	svc := newAuth(te)
	ctx := context.Background()

	tests := []struct {
		name string
		user types.User
	}{
		{"bad email", types.User{Email: "not-an-email", FirstName: "A", Password: "password123"}},
		{"short password", types.User{Email: "short@example.com", FirstName: "A", Password: "short"}},
		{"missing first name", types.User{Email: "noname@example.com", Password: "password123"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := tc.user
			err := svc.RegisterUser(ctx, &user)
			require.Error(t, err)
			require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
		})
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	te := newTestEnv(t)
	svc := newAuth(te)
	ctx := context.Background()

	user := &types.User{Email: "rotate@example.com", FirstName: "Rot", Password: "password123"}
	require.NoError(t, svc.RegisterUser(ctx, user))
	pair, err := svc.LoginUser(ctx, "rotate@example.com", "password123")
	require.NoError(t, err)

	next, err := svc.RefreshUser(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The old refresh token is single use.
	_, err = svc.RefreshUser(ctx, pair.RefreshToken)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
}

func TestSetContextFromToken(t *testing.T) {
	te := newTestEnv(t)
	svc := newAuth(te)
	ctx := context.Background()

	user := &types.User{Email: "claims@example.com", FirstName: "Cl", Password: "password123", Role: types.RoleAdmin}
	require.NoError(t, svc.RegisterUser(ctx, user))
	pair, err := svc.LoginUser(ctx, "claims@example.com", "password123")
	require.NoError(t, err)

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	rd := requestdata.GetRequestData(authed)
	require.NotNil(t, rd)
	require.Equal(t, user.ID, rd.UserID)
	require.Equal(t, types.RoleAdmin, rd.Role)

	_, err = svc.SetContextFromToken(ctx, "garbage.token.value")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
}

func TestLogoutDeletesSession(t *testing.T) {
	te := newTestEnv(t)
	svc := newAuth(te)
	ctx := context.Background()

	user := &types.User{Email: "bye@example.com", FirstName: "Bye", Password: "password123"}
	require.NoError(t, svc.RegisterUser(ctx, user))
	pair, err := svc.LoginUser(ctx, "bye@example.com", "password123")
	require.NoError(t, err)

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.LogoutUser(authed))

	_, err = svc.RefreshUser(ctx, pair.RefreshToken)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
}
