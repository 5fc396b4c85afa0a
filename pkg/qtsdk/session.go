package qtsdk

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/questrade/pkg/cryptox"
	"github.com/aussiebroadwan/questrade/pkg/slogx"
)

// Session represents an authenticated session. It owns the current
// TokenStore and replaces it when a failed call finds the token expired.
type Session struct {
	client *SDKClient

	// mu guards store. The expiry check, refresh and replace run under the
	// write lock so concurrent callers refresh at most once per expiry.
	mu    sync.RWMutex
	store TokenStore
}

func newSession(client *SDKClient, store TokenStore) *Session {
	return &Session{
		client: client,
		store:  store,
	}
}

// Token returns the current token snapshot.
func (s *Session) Token() TokenStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string { return s.Token().AccessToken() }

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string { return s.Token().RefreshToken() }

// APIServer returns the API server of the current token.
func (s *Session) APIServer() string { return s.Token().APIServer() }

// ExpiresAt returns the expiry of the current access token, or the zero time
// when it is unknown.
func (s *Session) ExpiresAt() time.Time { return s.Token().ExpiresAt() }

// Refresh forces a token refresh and returns the new snapshot.
func (s *Session) Refresh(ctx context.Context) (TokenStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// recoverFrom replaces the token that produced a failed call. If another
// caller already replaced it while the call was in flight, the newer token is
// returned without a second refresh.
func (s *Session) recoverFrom(ctx context.Context, stale TokenStore) (TokenStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.AccessToken() != stale.AccessToken() {
		return s.store, nil
	}
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) (TokenStore, error) {
	fresh, err := s.client.refresher().Refresh(ctx, s.store.RefreshToken())
	if err != nil {
		return TokenStore{}, err
	}
	s.store = fresh

	slogx.FromContext(ctx).Info("qtsdk_token_refreshed", tokenAttrs(fresh)...)
	return fresh, nil
}

// tokenAttrs describes a token for logs without revealing it.
func tokenAttrs(t TokenStore) []any {
	return []any{
		slog.String("token_fp", cryptox.FingerprintToken(t.AccessToken())),
		slog.String("api_server", t.APIServer()),
		slog.Time("expires_at", t.ExpiresAt()),
	}
}
