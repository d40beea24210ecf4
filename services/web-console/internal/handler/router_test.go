package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/client"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/repository"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/usecase"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

func newTestRouter(t *testing.T) (http.Handler, usecase.SessionUsecase) {
	t.Helper()
	backend := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/v1/users/login":
				body, _ := io.ReadAll(r.Body)
				if strings.Contains(string(body), "inactive@b.com") {
					w.WriteHeader(http.StatusForbidden)
					fmt.Fprintln(w, `{"error":"user is inactive"}`)
					return
				}
				fmt.Fprintln(w, `{"response":{"access_token":"abc","aio_token":"def"}}`)
			case "/auth/v1/users/register":
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintln(w, `{"error":"invalid request","fields":{"full_name":"full_name is a required field"}}`)
			case "/auth/v1/users/me":
				fmt.Fprintln(w, `{"response":{"email":"a@b.com"}}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}),
	)
	t.Cleanup(backend.Close)

	logger := zerolog.Nop()
	tokens, err := repository.NewTokenRepository(context.Background(), repository.NewMemoryStorage())
	require.NoError(t, err)
	session := usecase.NewSessionUsecase(&logger, tokens)
	api := client.NewProvider(backend.URL, session, &logger)
	authUsecase := usecase.NewAuthUsecase(&logger, session, usecase.NewStartupValidator(&logger, session, api), api)
	validator, err := utilities.NewValidator()
	require.NoError(t, err)

	return NewRouter(&logger, session, authUsecase, validator, DefaultPages), session
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouterLoginFlow(t *testing.T) {
	router, session := newTestRouter(t)

	rr := serve(router, http.MethodGet, "/app/settings", "")
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/auth/login?redirect=%2Fapp%2Fsettings", rr.Header().Get("Location"))

	rr = serve(router, http.MethodGet, "/auth/login", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(
		router,
		http.MethodPost,
		"/auth/login?redirect=%2Fapp%2Fsettings",
		`{"email":"a@b.com","password":"secret"}`,
	)
	require.Equal(t, http.StatusOK, rr.Code)
	var loginResp utilities.Envelope[map[string]string]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	require.Equal(t, "/app/settings", loginResp.Response["redirect"])
	require.True(t, session.IsAuthenticated())

	rr = serve(router, http.MethodGet, "/auth/login", "")
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/app/dashboards", rr.Header().Get("Location"))

	rr = serve(router, http.MethodGet, "/app/settings", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var page utilities.Envelope[pageView]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, "Settings", page.Response.Title)
	require.True(t, page.Response.Authenticated)
	require.Equal(t, "a@b.com", page.Response.User.Email)

	rr = serve(router, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.False(t, session.IsAuthenticated())
}

func TestRouterLoginValidation(t *testing.T) {
	router, session := newTestRouter(t)

	rr := serve(router, http.MethodPost, "/auth/login", `{"email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp utilities.Envelope[json.RawMessage]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "email must be a valid email address", resp.Fields["email"])
	require.Equal(t, "password is a required field", resp.Fields["password"])

	rr = serve(router, http.MethodPost, "/auth/login", `not json`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.False(t, session.IsAuthenticated())
}

func TestRouterPassesBackendRejections(t *testing.T) {
	router, session := newTestRouter(t)

	rr := serve(router, http.MethodPost, "/auth/register",
		`{"fullName":"A B","email":"a@b.com","password":"`+strings.Repeat("x", 73)+`"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp utilities.Envelope[json.RawMessage]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Contains(t, resp.Fields, "password")

	rr = serve(router, http.MethodPost, "/auth/register", `{"fullName":"A B","email":"a@b.com","password":"password1"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(router, http.MethodPost, "/auth/login", `{"email":"inactive@b.com","password":"secret"}`)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "user is inactive", resp.Error)
	require.False(t, session.IsAuthenticated())
}

func TestResolveAppRedirectPath(t *testing.T) {
	require.Equal(t, "/app/dashboards", resolveAppRedirectPath(""))
	require.Equal(t, "/app/dashboards", resolveAppRedirectPath("https://evil.example/app/x"))
	require.Equal(t, "/app/dashboards", resolveAppRedirectPath("//evil.example/app/x"))
	require.Equal(t, "/app/dashboards", resolveAppRedirectPath("/auth/login"))
	require.Equal(t, "/app/settings?tab=billing", resolveAppRedirectPath("/app/settings?tab=billing"))
}
