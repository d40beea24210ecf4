package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/client"
)

const (
	loginPath    = "/auth/v1/users/login"
	registerPath = "/auth/v1/users/register"
)

// AuthUsecase defines the sign-in flows that establish the console session.
type AuthUsecase interface {
	Login(ctx context.Context, params LoginParams) error
	Register(ctx context.Context, params RegisterParams) error
	Logout(ctx context.Context)
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrSessionRejected    = errors.New("session was rejected by the backend")
	ErrInvalidRequest     = errors.New("request was rejected by the backend")
	ErrUserInactive       = errors.New("user is inactive")
)

// tokens is the backend's answer to a successful login or registration.
type tokens struct {
	AccessToken string `json:"access_token"`
	AioToken    string `json:"aio_token"`
}

type authUsecase struct {
	logger    *zerolog.Logger
	session   SessionUsecase
	validator StartupValidator
	api       API
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	logger *zerolog.Logger,
	session SessionUsecase,
	validator StartupValidator,
	api API,
) AuthUsecase {
	return &authUsecase{
		logger:    logger,
		session:   session,
		validator: validator,
		api:       api,
	}
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) error {
	var t tokens
	if _, err := u.api.Do(ctx, http.MethodPost, loginPath, params, &t); err != nil {
		return mapStatusError(err, http.StatusUnauthorized, ErrInvalidCredentials)
	}

	return u.establish(ctx, t)
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) error {
	var t tokens
	if _, err := u.api.Do(ctx, http.MethodPost, registerPath, params, &t); err != nil {
		return mapStatusError(err, http.StatusConflict, ErrUserAlreadyExists)
	}

	return u.establish(ctx, t)
}

func (u *authUsecase) Logout(ctx context.Context) {
	u.session.Logout(ctx)
	u.logger.Info().Msg("session logged out")
}

// establish stores the tokens and loads the profile they belong to.
func (u *authUsecase) establish(ctx context.Context, t tokens) error {
	if t.AccessToken == "" {
		return fmt.Errorf("%w: no access token issued", ErrSessionRejected)
	}

	u.session.SetAccessToken(ctx, t.AccessToken)
	u.session.SetSecondaryToken(ctx, t.AioToken)

	if !u.validator.Validate(ctx) {
		return ErrSessionRejected
	}

	return nil
}

func mapStatusError(err error, status int, mapped error) error {
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	switch statusErr.StatusCode {
	case status:
		return mapped
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, statusErr.Message)
	case http.StatusForbidden:
		return ErrUserInactive
	default:
		return err
	}
}
