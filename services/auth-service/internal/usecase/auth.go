package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/config"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/model"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/repository"
	authtypes "github.com/vasapolrittideah/money-tracker-web/services/auth-service/pkg/types"
	"github.com/vasapolrittideah/money-tracker-web/shared/auth"
	"github.com/vasapolrittideah/money-tracker-web/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Login(ctx context.Context, params LoginParams) (*authtypes.Tokens, error)
	Register(ctx context.Context, params RegisterParams) (*authtypes.Tokens, error)
	CurrentUser(ctx context.Context, params CurrentUserParams) (*authtypes.UserProfile, error)
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email     string
	Password  string
	UserAgent string
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FullName  string
	Email     string
	Password  string
	UserAgent string
}

// CurrentUserParams identifies the caller of a bearer-authenticated request.
type CurrentUserParams struct {
	UserID      string
	SessionID   string
	AccessToken string
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is inactive")
)

type authUsecase struct {
	sessionRepo    repository.SessionRepository
	userRepo       repository.UserRepository
	jwtAuth        auth.JWTAuthenticator
	authServiceCfg *config.AuthServiceConfig
}

func NewAuthUsecase(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	authServiceCfg *config.AuthServiceConfig,
) AuthUsecase {
	return &authUsecase{
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		jwtAuth:        jwtAuth,
		authServiceCfg: authServiceCfg,
	}
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*authtypes.Tokens, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	return u.createAuthSession(ctx, user.ID.Hex(), params.UserAgent)
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*authtypes.Tokens, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        normalizeEmail(params.Email),
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(params.FullName),
		Origin:       model.UserOriginLocal,
		Role:         model.UserRoleMember,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	return u.createAuthSession(ctx, user.ID.Hex(), params.UserAgent)
}

// CurrentUser resolves the profile behind an access token. The token must still be
// the one recorded on its session.
func (u *authUsecase) CurrentUser(ctx context.Context, params CurrentUserParams) (*authtypes.UserProfile, error) {
	session, err := u.sessionRepo.GetSession(ctx, params.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	if session.UserID != params.UserID || session.AccessToken != params.AccessToken {
		return nil, ErrSessionNotFound
	}

	user, err := u.userRepo.GetUser(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return toUserProfile(user), nil
}

func (u *authUsecase) createAuthSession(ctx context.Context, userID, userAgent string) (*authtypes.Tokens, error) {
	session, err := u.sessionRepo.CreateSession(ctx, &model.Session{
		UserID:    userID,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := u.generateToken(
		userID,
		session.ID.Hex(),
		u.authServiceCfg.Token.AccessTokenSecret,
		u.authServiceCfg.Token.AccessTokenExpiresIn,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateToken(
		userID,
		session.ID.Hex(),
		u.authServiceCfg.Token.RefreshTokenSecret,
		u.authServiceCfg.Token.RefreshTokenExpiresIn,
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := u.sessionRepo.UpdateTokens(ctx, session.ID.Hex(), repository.UpdateTokensParams{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(u.authServiceCfg.Token.AccessTokenExpiresIn),
		RefreshTokenExpiresAt: now.Add(u.authServiceCfg.Token.RefreshTokenExpiresIn),
	}); err != nil {
		return nil, err
	}

	return &authtypes.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (u *authUsecase) generateToken(userID, sessionID, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := authtypes.JWTClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.jwtAuth.Issuer(),
			Audience:  jwt.ClaimStrings{u.jwtAuth.Audience()},
		},
	}
	token, err := u.jwtAuth.GenerateToken(claims, secret)
	if err != nil {
		return "", err
	}

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserProfile(user *model.User) *authtypes.UserProfile {
	return &authtypes.UserProfile{
		CreatedAt:     user.CreatedAt.UTC().Format(time.RFC3339),
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		FullName:      user.FullName,
		IsActive:      user.Active,
		ProfilePic:    user.ProfilePic,
		UpdatedAt:     user.UpdatedAt.UTC().Format(time.RFC3339),
		UserOrigin:    user.Origin,
		UserRole:      user.Role,
	}
}
