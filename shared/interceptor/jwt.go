package interceptor

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/shared/auth"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

type contextKey struct{}

var UserClaimsKey = contextKey{}

// NewJWTMiddleware rejects requests without a valid bearer JWT signed with secret and
// stores the token claims in the request context under UserClaimsKey.
func NewJWTMiddleware(
	logger *zerolog.Logger,
	jwtAuth auth.JWTAuthenticator,
	secret string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndValidateJWT(r, jwtAuth, secret)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				utilities.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by the JWT middleware.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(jwt.MapClaims)
	return claims, ok
}

func extractAndValidateJWT(r *http.Request, jwtAuth auth.JWTAuthenticator, secret string) (jwt.MapClaims, error) {
	tokenString, err := auth.ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	if _, err := jwtAuth.ValidateTokenWithClaims(tokenString, secret, claims); err != nil {
		return nil, err
	}

	return claims, nil
}
