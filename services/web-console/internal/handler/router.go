package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/usecase"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

type consoleHandler struct {
	logger      *zerolog.Logger
	session     usecase.SessionUsecase
	authUsecase usecase.AuthUsecase
	validator   *utilities.Validator
}

// NewRouter wires the page routes behind the navigation guard and the auth endpoints.
func NewRouter(
	logger *zerolog.Logger,
	session usecase.SessionUsecase,
	authUsecase usecase.AuthUsecase,
	validator *utilities.Validator,
	pages []Page,
) http.Handler {
	h := &consoleHandler{
		logger:      logger,
		session:     session,
		authUsecase: authUsecase,
		validator:   validator,
	}
	guard := NewNavigationGuard(logger, session, pages)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	for _, page := range pages {
		r.With(guard.Middleware(page)).Get(page.Path, h.renderPage(page))
	}

	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Post("/auth/logout", h.Logout)

	return r
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}
