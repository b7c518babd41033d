package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/YuBaichuan2000/e-commerce/auth"
	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
	"github.com/YuBaichuan2000/e-commerce/token"
	tokenfake "github.com/YuBaichuan2000/e-commerce/token/repofake"
	"github.com/YuBaichuan2000/e-commerce/users"
	userfake "github.com/YuBaichuan2000/e-commerce/users/repofake"
)

const (
	testName     = "John Doe"
	testEmail    = "john.doe@example.com"
	testPassword = "password123"
)

type authFixture struct {
	userRepo *userfake.FakeUserRepo
	tokens   *token.Service
	service  *auth.Service
}

func setupAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	userRepo := userfake.NewFakeUserRepo()
	tokens, err := token.NewService(tokenfake.NewFakeCacheRepo(), token.Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	})
	require.NoError(t, err)

	svc, err := auth.NewService(userRepo, tokens, zerolog.Nop())
	require.NoError(t, err)

	return &authFixture{userRepo: userRepo, tokens: tokens, service: svc}
}

func TestSignup(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	u, pair, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, testEmail, u.Email)
	require.Equal(t, users.RoleCustomer, u.Role)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The refresh token is live immediately.
	_, err = f.tokens.RotateAccess(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// Passwords are stored hashed, never verbatim.
	stored, err := f.userRepo.GetByEmail(ctx, testEmail)
	require.NoError(t, err)
	require.NotEqual(t, testPassword, stored.PasswordHash)
	require.True(t, stored.CheckPassword(testPassword))
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	_, _, err = f.service.Signup(ctx, "Other", testEmail, testPassword)
	require.ErrorIs(t, err, users.ErrEmailTaken)
}

func TestSignupWeakPassword(t *testing.T) {
	f := setupAuthFixture(t)

	_, _, err := f.service.Signup(context.Background(), testName, testEmail, "short")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	u, pair, err := f.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, testEmail, u.Email)

	userID, err := f.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	_, _, err = f.service.Login(ctx, testEmail, "wrong-password")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := setupAuthFixture(t)

	_, _, err := f.service.Login(context.Background(), "nobody@example.com", testPassword)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginSupersedesPriorSession(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	_, first, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	_, second, err := f.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	_, err = f.tokens.RotateAccess(ctx, first.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = f.tokens.RotateAccess(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	_, pair, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, pair.RefreshToken))

	_, err = f.tokens.RotateAccess(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// Logging out twice, or with garbage, stays silent.
	require.NoError(t, f.service.Logout(ctx, pair.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, "not-a-token"))
}

func TestRefresh(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	u, pair, err := f.service.Signup(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	access, err := f.service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	userID, err := f.tokens.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, u.ID, userID)
}
