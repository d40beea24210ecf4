package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/client"
)

// fakeAPI answers every call with the configured status and error.
type fakeAPI struct {
	calls  int
	status int
	err    error
}

func (f *fakeAPI) Do(context.Context, string, string, any, any) (int, error) {
	f.calls++
	return f.status, f.err
}

func TestValidateUnauthenticatedMakesNoCall(t *testing.T) {
	logger := zerolog.Nop()
	session, _ := newTestSession(t)
	api := &fakeAPI{status: http.StatusOK}

	require.False(t, NewStartupValidator(&logger, session, api).Validate(context.Background()))
	require.Zero(t, api.calls)
	require.False(t, session.Loading())
}

func TestValidateSuccess(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/interceptor/auth/v1/users/me", r.URL.Path)
			require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"response":{"email":"a@b.com","full_name":"A B","is_active":true}}`)
		}),
	)
	defer server.Close()

	ctx := context.Background()
	logger := zerolog.Nop()
	session, _ := newTestSession(t)
	session.SetAccessToken(ctx, "abc")
	api := client.NewProvider(server.URL+"/interceptor", session, &logger)

	require.True(t, NewStartupValidator(&logger, session, api).Validate(ctx))
	require.Equal(t, "a@b.com", session.User().Email)
	require.Equal(t, "A B", session.User().FullName)
	require.True(t, session.IsAuthenticated())
	require.False(t, session.Loading())
}

func TestValidateKeepsProfileFieldsAsReceived(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintln(w, `{"response":{"email":"a@b.com","is_active":1,"created_at":1700000000,"user_role":null}}`)
		}),
	)
	defer server.Close()

	ctx := context.Background()
	logger := zerolog.Nop()
	session, _ := newTestSession(t)
	session.SetAccessToken(ctx, "abc")
	api := client.NewProvider(server.URL, session, &logger)

	require.True(t, NewStartupValidator(&logger, session, api).Validate(ctx))
	require.True(t, session.IsAuthenticated())
	require.Equal(t, "a@b.com", session.User().Email)
	require.Equal(t, float64(1), session.User().IsActive)
	require.Equal(t, float64(1700000000), session.User().CreatedAt)
	require.Nil(t, session.User().UserRole)
}

func TestValidateUnauthorizedLogsOut(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}),
	)
	defer server.Close()

	ctx := context.Background()
	logger := zerolog.Nop()
	session, _ := newTestSession(t)
	session.SetAccessToken(ctx, "abc")
	session.SetSecondaryToken(ctx, "def")
	api := client.NewProvider(server.URL, session, &logger)

	require.False(t, NewStartupValidator(&logger, session, api).Validate(ctx))
	require.Empty(t, session.AccessToken())
	require.Empty(t, session.SecondaryToken())
	require.False(t, session.IsAuthenticated())
	require.Nil(t, session.User())
}

func TestValidateFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		err    error
	}{
		{
			name: "transport error",
			err:  errors.New("connection refused"),
		},
		{
			name:   "2xx other than 200",
			status: http.StatusNoContent,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			logger := zerolog.Nop()
			session, _ := newTestSession(t)
			session.SetAccessToken(ctx, "abc")
			api := &fakeAPI{status: testCase.status, err: testCase.err}

			require.False(t, NewStartupValidator(&logger, session, api).Validate(ctx))
			require.Equal(t, 1, api.calls)
			require.False(t, session.IsAuthenticated())
			require.False(t, session.Loading())
		})
	}
}

func TestStartupRunsOnce(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	session, _ := newTestSession(t)
	session.SetAccessToken(ctx, "abc")
	api := &fakeAPI{status: http.StatusOK}

	validator := NewStartupValidator(&logger, session, api)
	validator.Startup(ctx)
	validator.Startup(ctx)

	require.Equal(t, 1, api.calls)
	require.True(t, session.IsAuthenticated())
}
