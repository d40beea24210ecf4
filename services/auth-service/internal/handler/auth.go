package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/money-tracker-web/shared/auth"
	"github.com/vasapolrittideah/money-tracker-web/shared/interceptor"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

type authHTTPHandler struct {
	logger      *zerolog.Logger
	authUsecase usecase.AuthUsecase
	validator   *utilities.Validator
}

// NewRouter mounts the user endpoints under basePath. /auth/v1/users/me requires an
// access token signed with accessTokenSecret.
func NewRouter(
	logger *zerolog.Logger,
	authUsecase usecase.AuthUsecase,
	validator *utilities.Validator,
	jwtAuth auth.JWTAuthenticator,
	accessTokenSecret string,
	basePath string,
) http.Handler {
	h := &authHTTPHandler{
		logger:      logger,
		authUsecase: authUsecase,
		validator:   validator,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route(basePath+"/auth/v1/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(interceptor.NewJWTMiddleware(logger, jwtAuth, accessTokenSecret)).Get("/me", h.Me)
	})

	return r
}

func (h *authHTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to register user")

		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			utilities.WriteError(w, http.StatusConflict, "user already exists", nil)
		default:
			utilities.WriteError(w, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}

	utilities.WriteResponse(w, http.StatusCreated, tokens)
}

func (h *authHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to log in user")

		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			utilities.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		case errors.Is(err, usecase.ErrUserInactive):
			utilities.WriteError(w, http.StatusForbidden, "user is inactive", nil)
		default:
			utilities.WriteError(w, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}

	utilities.WriteResponse(w, http.StatusOK, tokens)
}

func (h *authHTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := interceptor.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "invalid access token claims", nil)
		return
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "invalid user_id claim", nil)
		return
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "invalid session_id claim", nil)
		return
	}

	// The middleware already accepted the header.
	accessToken, _ := auth.ExtractBearerToken(r.Header.Get("Authorization"))

	profile, err := h.authUsecase.CurrentUser(r.Context(), usecase.CurrentUserParams{
		UserID:      userID,
		SessionID:   sessionID,
		AccessToken: accessToken,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get current user")

		switch {
		case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrUserNotFound):
			utilities.WriteError(w, http.StatusUnauthorized, "session is no longer valid", nil)
		default:
			utilities.WriteError(w, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}

	utilities.WriteResponse(w, http.StatusOK, profile)
}

func (h *authHTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utilities.DecodeJSON(r, dst); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "malformed request body", nil)
		return false
	}

	fields, err := h.validator.Struct(dst)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to validate request")
		utilities.WriteError(w, http.StatusInternalServerError, "something went wrong", nil)
		return false
	}
	if fields != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid request", fields)
		return false
	}

	return true
}
