package interceptor

import (
	"net/http"
)

// TokenSource reports the bearer token of the current session at the moment a
// request is sent. ok is false when there is no authenticated session.
type TokenSource interface {
	BearerToken() (token string, ok bool)
}

// BearerTransport adds "Authorization: Bearer <token>" to outgoing requests while the
// token source is authenticated. Other request headers are left untouched.
type BearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

// NewBearerTransport wraps base; a nil base uses http.DefaultTransport.
func NewBearerTransport(base http.RoundTripper, tokens TokenSource) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &BearerTransport{
		base:   base,
		tokens: tokens,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := t.tokens.BearerToken()
	if !ok {
		return t.base.RoundTrip(req)
	}

	// A RoundTripper must not modify the caller's request.
	authReq := req.Clone(req.Context())
	authReq.Header.Set("Authorization", "Bearer "+token)

	return t.base.RoundTrip(authReq)
}
