package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cr3t"

func newTestClaims(issuer string, expiresIn time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{"console"},
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	a := NewJWTAuthenticator("console", "money-tracker")

	tokenStr, err := a.GenerateToken(newTestClaims("money-tracker", time.Minute), testSecret)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	token, err := a.ValidateTokenWithClaims(tokenStr, testSecret, claims)
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, "user-1", claims["sub"])
}

func TestValidateTokenRejections(t *testing.T) {
	a := NewJWTAuthenticator("console", "money-tracker")

	testCases := []struct {
		name   string
		claims jwt.RegisteredClaims
		secret string
	}{
		{
			name:   "wrong secret",
			claims: newTestClaims("money-tracker", time.Minute),
			secret: "other",
		},
		{
			name:   "expired",
			claims: newTestClaims("money-tracker", -time.Minute),
			secret: testSecret,
		},
		{
			name:   "wrong issuer",
			claims: newTestClaims("someone-else", time.Minute),
			secret: testSecret,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tokenStr, err := a.GenerateToken(testCase.claims, testCase.secret)
			require.NoError(t, err)
			_, err = a.ValidateTokenWithClaims(tokenStr, testSecret, jwt.MapClaims{})
			require.Error(t, err)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	token, err = ExtractBearerToken("bearer abc")
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	_, err = ExtractBearerToken("")
	require.ErrorIs(t, err, ErrMissingBearer)

	_, err = ExtractBearerToken("Digest abc")
	require.ErrorIs(t, err, ErrInvalidBearer)

	_, err = ExtractBearerToken("Bearer")
	require.ErrorIs(t, err, ErrInvalidBearer)
}
