package qtsdk

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenStore(t *testing.T) {
	t.Parallel()

	exp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewTokenStore("acc", "ref", "https://api01.iq.questrade.com/", exp)

	require.Equal(t, "acc", store.AccessToken())
	require.Equal(t, "ref", store.RefreshToken())
	require.Equal(t, "https://api01.iq.questrade.com", store.APIServer())
	require.Equal(t, "Bearer", store.TokenType())
	require.True(t, store.HasExpiry())
	require.Equal(t, exp, store.ExpiresAt())

	require.False(t, store.Expired(exp.Add(-time.Second)))
	require.False(t, store.Expired(exp))
	require.True(t, store.Expired(exp.Add(time.Second)))
}

func TestTokenStoreUnknownExpiryIsExpired(t *testing.T) {
	t.Parallel()

	store := NewTokenStore("acc", "", "https://api01.iq.questrade.com", time.Time{})
	require.False(t, store.HasExpiry())
	require.True(t, store.Expired(time.Now()))
}

func TestTokenStoreSetAuthHeader(t *testing.T) {
	t.Parallel()

	req, err := http.NewRequest(http.MethodGet, "https://api01.iq.questrade.com/v1/time", nil)
	require.NoError(t, err)

	NewTokenStore("acc", "", "https://api01.iq.questrade.com", time.Time{}).SetAuthHeader(req)
	require.Equal(t, "Bearer acc", req.Header.Get("Authorization"))

	custom := NewTokenStore("acc", "", "https://x", time.Time{}).withTokenType("bearer")
	require.Equal(t, "Bearer", custom.TokenType())
}

func TestTokenStoreIsValueSnapshot(t *testing.T) {
	t.Parallel()

	a := NewTokenStore("acc", "ref", "https://x", time.Time{})
	b := a.withTokenType("MAC")

	require.Equal(t, "Bearer", a.TokenType())
	require.Equal(t, "MAC", b.TokenType())
}
