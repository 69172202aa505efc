package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Authorizer is the opaque "is this caller authenticated" capability the
// submission pipeline consumes. Session and credential handling live behind
// it, not here.
type Authorizer interface {
	Authorized(r *http.Request) bool
}

// TokenAuthorizer accepts a single shared bearer token. An empty configured
// token authorizes nobody.
type TokenAuthorizer struct{ token string }

func NewTokenAuthorizer(token string) *TokenAuthorizer {
	return &TokenAuthorizer{token: token}
}

func (a *TokenAuthorizer) Authorized(r *http.Request) bool {
	if a.token == "" {
		return false
	}
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return false
	}
	got := strings.TrimPrefix(h, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(a.token)) == 1
}
