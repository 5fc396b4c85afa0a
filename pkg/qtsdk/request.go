package qtsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/questrade/pkg/idx"
	"github.com/aussiebroadwan/questrade/pkg/slogx"
)

// call describes one endpoint invocation: where to send it and how to decode
// the result.
type call struct {
	path  string
	query url.Values

	// key is the response member holding the result array. Empty means the
	// body itself is the array.
	key  string
	kind Kind
}

// attempt is the outcome of a single HTTP round trip.
type attempt struct {
	url    string
	status int
	body   []byte
	err    error
}

func (a attempt) ok() bool {
	return a.err == nil && isSuccess(a.status)
}

func (a attempt) failure() *RequestError {
	return &RequestError{
		URL:        a.url,
		StatusCode: a.status,
		Body:       string(a.body),
		Err:        a.err,
	}
}

// execute runs the request pipeline: attempt, classify the failure, refresh
// if the token has expired, retry once, surface the terminal result.
func (s *Session) execute(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx = slogx.WithRequestID(ctx, idx.New().String())

	store := s.Token()
	first := s.send(ctx, store, path, query)
	if first.ok() {
		return first.body, nil
	}

	// A failure with a live token is not an auth problem; refreshing would
	// not help.
	if !store.Expired(s.client.now()) {
		return nil, first.failure()
	}

	slogx.FromContext(ctx).Info("qtsdk_token_expired",
		"path", path,
		"status", first.status,
	)

	// The refresh error leads; the failed call stays reachable with errors.As
	// so its status and body are not lost.
	fresh, err := s.recoverFrom(ctx, store)
	if err != nil {
		return nil, errors.Join(err, first.failure())
	}

	retry := s.send(ctx, fresh, path, query)
	if retry.ok() {
		return retry.body, nil
	}
	return nil, retry.failure()
}

// send issues one authenticated GET against the store's API server.
func (s *Session) send(ctx context.Context, store TokenStore, path string, query url.Values) attempt {
	target := store.APIServer() + path
	result := attempt{url: target}

	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		result.err = fmt.Errorf("failed to create request: %w", err)
		return result
	}
	store.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(slogx.RequestIDHeader, slogx.RequestIDFromContext(ctx))

	resp, err := s.client.httpClient().Do(req)
	if err != nil {
		result.err = fmt.Errorf("failed to send request: %w", err)
		return result
	}
	defer resp.Body.Close()

	result.status = resp.StatusCode
	result.body, err = io.ReadAll(resp.Body)
	if err != nil {
		result.err = fmt.Errorf("failed to read response body: %w", err)
	}
	return result
}

// fetch executes c and maps every element of the result array into T,
// preserving order.
func fetch[T any, PT typedRecord[T]](ctx context.Context, s *Session, c call) ([]T, error) {
	body, err := s.execute(ctx, c.path, c.query)
	if err != nil {
		return nil, err
	}

	elems, err := extract(body, c.key)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(elems))
	for i, raw := range elems {
		rec, err := mapTyped[T, PT](raw, c.kind)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", c.kind, i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// fetchRaw executes c and returns the decoded body without validation.
func (s *Session) fetchRaw(ctx context.Context, c call) (RawJSON, error) {
	body, err := s.execute(ctx, c.path, c.query)
	if err != nil {
		return nil, err
	}
	return decodeRaw(body)
}

// extract returns the result array found at key, or the whole body when key
// is empty. A null or empty array yields no elements.
func extract(body []byte, key string) ([]json.RawMessage, error) {
	var elems []json.RawMessage

	if key == "" {
		if err := json.Unmarshal(body, &elems); err != nil {
			return nil, fmt.Errorf("%w: body is not an array: %v", ErrMalformedResponse, err)
		}
		return elems, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: body is not an object: %v", ErrMalformedResponse, err)
	}

	raw, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
	}
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %q is not an array: %v", ErrMalformedResponse, key, err)
	}
	return elems, nil
}

// decodeRaw parses an object body, keeping numbers as json.Number.
func decodeRaw(body []byte) (RawJSON, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	out, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: raw body is not a JSON object", ErrMalformedResponse)
	}
	return out, nil
}
