package qtsdk

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/questrade/pkg/slogx"
)

// SDKClient holds the transport settings shared by every Session and creates
// authenticated Sessions from credentials.
type SDKClient struct {
	LoginURL   string
	HTTPClient *http.Client

	// Refresher performs token refreshes. When nil, an Authenticator against
	// LoginURL is used.
	Refresher Refresher

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewSDKClient creates a client for the given identity provider token
// endpoint. An empty loginURL selects DefaultLoginURL.
func NewSDKClient(loginURL string) *SDKClient {
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}

	return &SDKClient{
		LoginURL: loginURL,
		HTTPClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: slogx.NewTransport(http.DefaultTransport),
		},
	}
}

// Credentials seed a Session. Exactly one of two modes applies:
//
//   - refresh-token mode (RefreshToken set): the session refreshes on
//     construction unless AccessToken, APIServer and a future ExpiresAt are
//     all supplied, e.g. from a previous run;
//   - access-token mode (only AccessToken set): no network call is made,
//     APIServer is required, and a later refresh fails with ErrNoRefreshToken.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	APIServer    string
	ExpiresAt    time.Time
}

// NewSession creates an authenticated session from credentials.
func (c *SDKClient) NewSession(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return nil, configErrorf("credentials", "an access token or a refresh token is required")
	}

	if creds.RefreshToken == "" {
		if creds.APIServer == "" {
			return nil, configErrorf("api_server", "required when only an access token is supplied")
		}
		store := NewTokenStore(creds.AccessToken, "", creds.APIServer, creds.ExpiresAt)
		return newSession(c, store), nil
	}

	if creds.AccessToken != "" && creds.APIServer != "" &&
		!creds.ExpiresAt.IsZero() && c.now().Before(creds.ExpiresAt) {
		store := NewTokenStore(creds.AccessToken, creds.RefreshToken, creds.APIServer, creds.ExpiresAt)
		return newSession(c, store), nil
	}

	store, err := c.refresher().Refresh(ctx, creds.RefreshToken)
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("qtsdk_session_refreshed", tokenAttrs(store)...)
	return newSession(c, store), nil
}

// AuthenticateWithRefreshToken creates a session by exchanging a refresh token.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	return c.NewSession(ctx, Credentials{RefreshToken: refreshToken})
}

// NewSessionFromAccessToken creates a session from an access token alone. No
// network call is made; the session cannot refresh.
func (c *SDKClient) NewSessionFromAccessToken(apiServer, accessToken string) (*Session, error) {
	return c.NewSession(context.Background(), Credentials{
		AccessToken: accessToken,
		APIServer:   apiServer,
	})
}

func (c *SDKClient) refresher() Refresher {
	if c.Refresher != nil {
		return c.Refresher
	}
	loginURL := c.LoginURL
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}
	return &Authenticator{
		TokenURL:   loginURL,
		HTTPClient: c.httpClient(),
		Now:        c.Now,
	}
}

func (c *SDKClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *SDKClient) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
