package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/model"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/repository"
)

// SessionUsecase is the console's single session: the persisted tokens, the current
// user profile and whether a session check is in flight. None of its operations fail;
// storage errors are logged.
type SessionUsecase interface {
	User() *model.UserProfile
	AccessToken() string
	SecondaryToken() string
	// IsAuthenticated is true iff the access token is non-empty.
	IsAuthenticated() bool
	Loading() bool
	// BearerToken returns the access token and whether the session is authenticated,
	// read together.
	BearerToken() (string, bool)
	Snapshot() model.Session

	SetUser(user *model.UserProfile)
	SetAccessToken(ctx context.Context, token string)
	SetSecondaryToken(ctx context.Context, token string)
	SetLoading(loading bool)
	// Logout clears the access token, the secondary token and the user, in that order.
	Logout(ctx context.Context)
}

type sessionUsecase struct {
	logger *zerolog.Logger
	tokens repository.TokenRepository

	mu      sync.RWMutex
	user    *model.UserProfile
	loading bool
}

// NewSessionUsecase creates the session over the given token repository. It must be
// constructed once per process and shared by every component that needs it.
func NewSessionUsecase(logger *zerolog.Logger, tokens repository.TokenRepository) SessionUsecase {
	return &sessionUsecase{
		logger: logger,
		tokens: tokens,
	}
}

func (s *sessionUsecase) User() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *sessionUsecase) AccessToken() string {
	return s.tokens.Get(repository.AccessTokenSlot)
}

func (s *sessionUsecase) SecondaryToken() string {
	return s.tokens.Get(repository.SecondaryTokenSlot)
}

func (s *sessionUsecase) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *sessionUsecase) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *sessionUsecase) BearerToken() (string, bool) {
	token := s.AccessToken()
	return token, token != ""
}

func (s *sessionUsecase) Snapshot() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Session{
		AccessToken:    s.tokens.Get(repository.AccessTokenSlot),
		SecondaryToken: s.tokens.Get(repository.SecondaryTokenSlot),
		User:           s.user,
		Loading:        s.loading,
	}
}

func (s *sessionUsecase) SetUser(user *model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *sessionUsecase) SetAccessToken(ctx context.Context, token string) {
	s.setToken(ctx, repository.AccessTokenSlot, token)
}

func (s *sessionUsecase) SetSecondaryToken(ctx context.Context, token string) {
	s.setToken(ctx, repository.SecondaryTokenSlot, token)
}

func (s *sessionUsecase) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *sessionUsecase) Logout(ctx context.Context) {
	s.setToken(ctx, repository.AccessTokenSlot, "")
	s.setToken(ctx, repository.SecondaryTokenSlot, "")
	s.SetUser(nil)
}

func (s *sessionUsecase) setToken(ctx context.Context, slot repository.TokenSlot, token string) {
	if err := s.tokens.Set(ctx, slot, token); err != nil {
		s.logger.Error().Err(err).Str("slot", string(slot)).Msg("failed to persist session token")
	}
}
