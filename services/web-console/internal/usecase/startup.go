package usecase

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/model"
)

// CurrentUserPath is the backend endpoint returning the profile of the bearer token's owner.
const CurrentUserPath = "/auth/v1/users/me"

// API sends a JSON request to the backend and decodes the enveloped response into out.
type API interface {
	Do(ctx context.Context, method, path string, body, out any) (int, error)
}

// StartupValidator confirms that a persisted access token still belongs to a valid
// backend session.
type StartupValidator interface {
	// Validate fetches the current user when the session is authenticated. Any
	// failure logs the session out. It reports whether the session is valid.
	Validate(ctx context.Context) bool
	// Startup runs Validate the first time it is called and does nothing afterwards.
	Startup(ctx context.Context)
}

type startupValidator struct {
	logger  *zerolog.Logger
	session SessionUsecase
	api     API

	once sync.Once
}

// NewStartupValidator creates a new instance of StartupValidator.
func NewStartupValidator(logger *zerolog.Logger, session SessionUsecase, api API) StartupValidator {
	return &startupValidator{
		logger:  logger,
		session: session,
		api:     api,
	}
}

func (v *startupValidator) Startup(ctx context.Context) {
	v.once.Do(func() {
		v.Validate(ctx)
	})
}

func (v *startupValidator) Validate(ctx context.Context) bool {
	if !v.session.IsAuthenticated() {
		return false
	}

	v.session.SetLoading(true)
	defer v.session.SetLoading(false)

	// No timeout of its own: the caller's context bounds the call.
	var user model.UserProfile
	status, err := v.api.Do(ctx, http.MethodGet, CurrentUserPath, nil, &user)
	if err != nil {
		v.logger.Warn().Err(err).Msg("session validation failed, logging out")
		v.session.Logout(ctx)
		return false
	}

	if status != http.StatusOK {
		v.logger.Warn().Int("status", status).Msg("session validation rejected, logging out")
		v.session.Logout(ctx)
		return false
	}

	v.session.SetUser(&user)
	v.logger.Info().Interface("email", user.Email).Msg("session validated")

	return true
}
