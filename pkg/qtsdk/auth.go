package qtsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultLoginURL is the identity provider's token endpoint.
const DefaultLoginURL = "https://login.questrade.com/oauth2/token"

// Refresher exchanges a refresh token for a new TokenStore.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (TokenStore, error)
}

// Authenticator performs the OAuth2 refresh-token grant against the identity
// provider.
type Authenticator struct {
	TokenURL   string
	HTTPClient *http.Client

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Refresh requests a new access token with the refresh_token grant. The
// returned TokenStore carries the (possibly rotated) refresh token and an
// expiry computed from the instant the request was issued.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (TokenStore, error) {
	if refreshToken == "" {
		return TokenStore{}, &AuthError{Err: ErrNoRefreshToken}
	}

	u, err := url.Parse(a.TokenURL)
	if err != nil {
		return TokenStore{}, &AuthError{Err: fmt.Errorf("invalid token url: %w", err)}
	}
	q := u.Query()
	q.Set("grant_type", "refresh_token")
	q.Set("refresh_token", refreshToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return TokenStore{}, &AuthError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	issuedAt := a.now()

	resp, err := a.client().Do(req)
	if err != nil {
		return TokenStore{}, &AuthError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenStore{}, &AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if !isSuccess(resp.StatusCode) {
		return TokenStore{}, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	tokenResp, err := mapTyped[tokenResponse](json.RawMessage(body), KindToken)
	if err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			return TokenStore{}, err
		}
		return TokenStore{}, &AuthError{StatusCode: resp.StatusCode, Body: string(body), Err: err}
	}

	if tokenResp.AccessToken == "" || tokenResp.APIServer == "" {
		return TokenStore{}, &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("%w: token response missing access_token or api_server", ErrMalformedResponse),
		}
	}

	var expiresAt time.Time
	if tokenResp.Has("expires_in") {
		expiresAt = issuedAt.Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	// Keep the old refresh token unless the provider rotated it.
	rotated := tokenResp.RefreshToken
	if rotated == "" {
		rotated = refreshToken
	}

	store := NewTokenStore(tokenResp.AccessToken, rotated, tokenResp.APIServer, expiresAt)
	return store.withTokenType(tokenResp.TokenType), nil
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Authenticator) client() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

// isSuccess is the one success predicate used for every call: any 2xx status.
func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
