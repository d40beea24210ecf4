package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/payload"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/usecase"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

func (h *consoleHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(w, err, "failed to log in")
		return
	}

	utilities.WriteResponse(w, http.StatusOK, payload.AuthResponse{
		Redirect: resolveAppRedirectPath(r.URL.Query().Get("redirect")),
	})
}

func (h *consoleHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(w, err, "failed to register")
		return
	}

	utilities.WriteResponse(w, http.StatusCreated, payload.AuthResponse{
		Redirect: resolveAppRedirectPath(r.URL.Query().Get("redirect")),
	})
}

func (h *consoleHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authUsecase.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *consoleHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
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

func (h *consoleHandler) writeAuthError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utilities.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		utilities.WriteError(w, http.StatusConflict, "user already exists", nil)
	case errors.Is(err, usecase.ErrInvalidRequest):
		utilities.WriteError(w, http.StatusBadRequest, "invalid request", nil)
	case errors.Is(err, usecase.ErrUserInactive):
		utilities.WriteError(w, http.StatusForbidden, "user is inactive", nil)
	default:
		utilities.WriteError(w, http.StatusBadGateway, "something went wrong", nil)
	}
}

// resolveAppRedirectPath keeps a post-login redirect only when it is a local /app/ path.
func resolveAppRedirectPath(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" {
		return DashboardPage
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return DashboardPage
	}
	if !strings.HasPrefix(parsed.Path, "/app/") {
		return DashboardPage
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery
	}
	return parsed.Path
}
