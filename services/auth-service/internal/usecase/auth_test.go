package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/config"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/model"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/repository"
	authtypes "github.com/vasapolrittideah/money-tracker-web/services/auth-service/pkg/types"
	"github.com/vasapolrittideah/money-tracker-web/shared/auth"
	"github.com/vasapolrittideah/money-tracker-web/shared/security"
)

const (
	testAccessSecret  = "access-secret-access-secret"
	testRefreshSecret = "refresh-secret-refresh-secret"
)

func newTestAuth(t *testing.T) (AuthUsecase, repository.UserRepository, auth.JWTAuthenticator) {
	t.Helper()
	cfg := &config.AuthServiceConfig{
		Token: config.TokenConfig{
			Issuer:                "money-tracker",
			AccessTokenSecret:     testAccessSecret,
			RefreshTokenSecret:    testRefreshSecret,
			AccessTokenExpiresIn:  time.Minute,
			RefreshTokenExpiresIn: time.Hour,
		},
	}
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	userRepo := repository.NewUserMemoryRepository()

	return NewAuthUsecase(repository.NewSessionMemoryRepository(), userRepo, jwtAuth, cfg), userRepo, jwtAuth
}

func parseClaims(t *testing.T, jwtAuth auth.JWTAuthenticator, token, secret string) *authtypes.JWTClaims {
	t.Helper()
	claims := &authtypes.JWTClaims{}
	_, err := jwtAuth.ValidateTokenWithClaims(token, secret, claims)
	require.NoError(t, err)
	return claims
}

func TestRegisterAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	authUsecase, _, jwtAuth := newTestAuth(t)

	tokens, err := authUsecase.Register(ctx, RegisterParams{
		FullName: " Ann Example ",
		Email:    "Ann@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	access := parseClaims(t, jwtAuth, tokens.AccessToken, testAccessSecret)
	refresh := parseClaims(t, jwtAuth, tokens.RefreshToken, testRefreshSecret)
	require.Equal(t, access.SessionID, refresh.SessionID)
	require.NotEqual(t, access.ID, refresh.ID)

	profile, err := authUsecase.CurrentUser(ctx, CurrentUserParams{
		UserID:      access.UserID,
		SessionID:   access.SessionID,
		AccessToken: tokens.AccessToken,
	})
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", profile.Email)
	require.Equal(t, "Ann Example", profile.FullName)
	require.Equal(t, model.UserOriginLocal, profile.UserOrigin)
	require.Equal(t, model.UserRoleMember, profile.UserRole)
	require.True(t, profile.IsActive)
	require.NotEmpty(t, profile.CreatedAt)

	_, err = authUsecase.Register(ctx, RegisterParams{Email: "ann@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	authUsecase, userRepo, _ := newTestAuth(t)

	_, err := authUsecase.Register(ctx, RegisterParams{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	tokens, err := authUsecase.Login(ctx, LoginParams{Email: " A@B.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)

	_, err = authUsecase.Login(ctx, LoginParams{Email: "a@b.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authUsecase.Login(ctx, LoginParams{Email: "nobody@b.com", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = userRepo.CreateUser(ctx, &model.User{Email: "inactive@b.com", PasswordHash: mustHash(t, "password123")})
	require.NoError(t, err)
	_, err = authUsecase.Login(ctx, LoginParams{Email: "inactive@b.com", Password: "password123"})
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestCurrentUserRejectsReplacedToken(t *testing.T) {
	ctx := context.Background()
	authUsecase, _, jwtAuth := newTestAuth(t)

	tokens, err := authUsecase.Register(ctx, RegisterParams{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)
	claims := parseClaims(t, jwtAuth, tokens.AccessToken, testAccessSecret)

	testCases := []struct {
		name   string
		params CurrentUserParams
	}{
		{
			name:   "unknown session",
			params: CurrentUserParams{UserID: claims.UserID, SessionID: "nope", AccessToken: tokens.AccessToken},
		},
		{
			name:   "other user",
			params: CurrentUserParams{UserID: "someone", SessionID: claims.SessionID, AccessToken: tokens.AccessToken},
		},
		{
			name:   "stale token",
			params: CurrentUserParams{UserID: claims.UserID, SessionID: claims.SessionID, AccessToken: "stale"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := authUsecase.CurrentUser(ctx, testCase.params)
			require.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return hash
}
