package qtsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/questrade/pkg/idx"
)

// fakeLogin is an identity provider token endpoint. Each successful refresh
// mints a new access token and rotates the refresh token.
type fakeLogin struct {
	srv   *httptest.Server
	calls atomic.Int32

	mu        sync.Mutex
	apiServer string
	expiresIn int
	status    int
	body      string // replaces the generated payload when set
	lastQuery map[string]string
}

func newFakeLogin(t *testing.T) *fakeLogin {
	t.Helper()

	f := &fakeLogin{expiresIn: 1800, status: http.StatusOK}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeLogin) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	f.lastQuery = map[string]string{
		"grant_type":    q.Get("grant_type"),
		"refresh_token": q.Get("refresh_token"),
	}

	if f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if f.body != "" {
		_, _ = w.Write([]byte(f.body))
		return
	}

	access, refresh := idx.New().String(), idx.New().String()
	_, _ = fmt.Fprintf(w,
		`{"access_token":%q,"refresh_token":%q,"expires_in":%d,"token_type":"Bearer","api_server":%q}`,
		access, refresh, f.expiresIn, f.apiServer+"/",
	)
}

func (f *fakeLogin) set(fn func(f *fakeLogin)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeLogin) query(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery[key]
}

// fakeAPI serves fixed bodies per path and answers 401 to any bearer token
// that is not in its valid set.
type fakeAPI struct {
	srv   *httptest.Server
	calls atomic.Int32

	mu      sync.Mutex
	valid   map[string]bool
	bodies  map[string]string
	status  int
	queries []string
	reqIDs  []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{
		valid:  map[string]bool{},
		bodies: map[string]string{},
		status: http.StatusOK,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, r.URL.RawQuery)
	f.reqIDs = append(f.reqIDs, r.Header.Get("X-Request-ID"))

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !f.valid[token] {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":1017,"message":"Access token is invalid"}`))
		return
	}
	if f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"code":1001,"message":"Invalid argument"}`))
		return
	}

	body, ok := f.bodies[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) allow(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valid[token] = true
}

func (f *fakeAPI) respond(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = body
}

func (f *fakeAPI) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeAPI) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeAPI) requestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reqIDs...)
}

// registeringRefresher makes api accept every access token the login server
// issues.
type registeringRefresher struct {
	inner Refresher
	api   *fakeAPI
}

func (r *registeringRefresher) Refresh(ctx context.Context, refreshToken string) (TokenStore, error) {
	store, err := r.inner.Refresh(ctx, refreshToken)
	if err == nil {
		r.api.allow(store.AccessToken())
	}
	return store, err
}

// newClient returns an SDKClient that refreshes against login and whose
// fresh tokens point at api.
func newClient(t *testing.T, login *fakeLogin, api *fakeAPI) *SDKClient {
	t.Helper()

	login.set(func(f *fakeLogin) { f.apiServer = api.srv.URL })
	client := NewSDKClient(login.srv.URL)
	client.Refresher = &registeringRefresher{
		inner: &Authenticator{TokenURL: login.srv.URL, HTTPClient: client.HTTPClient},
		api:   api,
	}
	return client
}

// liveSession holds a token that api accepts and that expires in an hour.
func liveSession(client *SDKClient, api *fakeAPI) *Session {
	api.allow("live-token")
	store := NewTokenStore("live-token", "refresh-0", api.srv.URL, time.Now().Add(time.Hour))
	return newSession(client, store)
}

// expiredSession holds a token that api rejects and whose expiry has passed,
// so the first call must refresh.
func expiredSession(client *SDKClient, api *fakeAPI) *Session {
	store := NewTokenStore("stale-token", "refresh-0", api.srv.URL, time.Now().Add(-time.Minute))
	return newSession(client, store)
}
