package qtsdk

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenStore is an immutable snapshot of the session credentials: the bearer
// token pair, the API server the tokens are valid for, and the expiry instant.
// A refresh produces a new TokenStore; an existing one is never modified.
type TokenStore struct {
	token     oauth2.Token
	apiServer string
}

// NewTokenStore builds a snapshot from its parts. A zero expiresAt means the
// expiry is unknown.
func NewTokenStore(accessToken, refreshToken, apiServer string, expiresAt time.Time) TokenStore {
	return TokenStore{
		token: oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			Expiry:       expiresAt,
		},
		apiServer: strings.TrimSuffix(apiServer, "/"),
	}
}

// AccessToken returns the bearer credential.
func (t TokenStore) AccessToken() string { return t.token.AccessToken }

// RefreshToken returns the credential used to obtain a new access token.
func (t TokenStore) RefreshToken() string { return t.token.RefreshToken }

// APIServer returns the base URL all endpoint paths resolve against, without a
// trailing slash.
func (t TokenStore) APIServer() string { return t.apiServer }

// TokenType returns the token type, "Bearer" unless the provider said otherwise.
func (t TokenStore) TokenType() string { return t.token.Type() }

// ExpiresAt returns the expiry instant, or the zero time if it is unknown.
func (t TokenStore) ExpiresAt() time.Time { return t.token.Expiry }

// HasExpiry reports whether the expiry instant is known.
func (t TokenStore) HasExpiry() bool { return !t.token.Expiry.IsZero() }

// Expired reports whether the access token must be treated as invalid at now.
// An unknown expiry counts as expired so a failed call still attempts a refresh.
func (t TokenStore) Expired(now time.Time) bool {
	if !t.HasExpiry() {
		return true
	}
	return now.After(t.token.Expiry)
}

// SetAuthHeader sets the Authorization header on req.
func (t TokenStore) SetAuthHeader(req *http.Request) {
	t.token.SetAuthHeader(req)
}

func (t TokenStore) withTokenType(tokenType string) TokenStore {
	t.token.TokenType = tokenType
	return t
}
