package slogx

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/questrade/pkg/idx"
)

// RequestIDHeader carries the correlation ID of an outbound call.
const RequestIDHeader = "X-Request-ID"

// NewTransport wraps base so every outbound request carries a ULID
// X-Request-ID and is logged through the request context's logger. Query strings are not
// logged since they may hold credentials.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{base: base}
}

type transport struct {
	base http.RoundTripper
}

func (t *transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := r.Context()
	logger := FromContext(ctx)

	// Missing or malformed IDs are replaced with a fresh one
	reqID, err := idx.Parse(r.Header.Get(RequestIDHeader))
	if err != nil {
		reqID = idx.New()
		r = r.Clone(ctx)
		r.Header.Set(RequestIDHeader, reqID.String())
	}
	if RequestIDFromContext(ctx) != reqID.String() {
		logger = logger.With("req_id", reqID.String())
	}
	logger = logger.With(
		"method", r.Method,
		"host", r.URL.Host,
		"path", r.URL.Path,
	)

	resp, err := t.base.RoundTrip(r)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		logger.Warn("http_client_request",
			"error", err,
			"duration_ms", duration,
		)
		return nil, err
	}

	logger.Debug("http_client_request",
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}
