package qtsdk

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	// ErrNoRefreshToken is returned when a refresh is required but the session
	// was built from an access token alone.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrMalformedResponse is returned when a response body does not have the
	// shape the endpoint expects (not JSON, not an object, missing the result key).
	ErrMalformedResponse = errors.New("malformed response")
)

// ============================================================================
// ConfigurationError - bad input, detected before any network call
// ============================================================================

// ConfigurationError reports invalid or conflicting caller input, such as a
// session with no credentials or a symbol lookup with both ids and names.
type ConfigurationError struct {
	// Field names the offending parameter
	Field string

	// Reason is a human-readable description of the problem
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ============================================================================
// AuthError - the identity provider rejected a refresh
// ============================================================================

// AuthError is returned when a refresh token could not be exchanged for a new
// access token.
type AuthError struct {
	// StatusCode is the identity provider's HTTP status (0 if no response was received)
	StatusCode int

	// Body is the raw response body, kept for diagnostics
	Body string

	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("token refresh failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("token refresh failed with status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("token refresh failed with status %d: %s", e.StatusCode, e.Body)
	}
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error { return e.Err }

// ============================================================================
// RequestError - an API call failed
// ============================================================================

// RequestError is returned when an API call fails, either because the token
// was still valid (so refreshing would not help) or because the retry after a
// refresh failed as well.
type RequestError struct {
	// URL is the request URL without its query string
	URL string

	// StatusCode is the HTTP status (0 if the request never got a response)
	StatusCode int

	// Body is the raw response body
	Body string

	// Err is the transport error, if any
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Unwrap returns the transport error, if any.
func (e *RequestError) Unwrap() error { return e.Err }

// ============================================================================
// FieldError - the response no longer matches the record schema
// ============================================================================

// FieldError is returned when a response object carries a key that is not in
// the allow-list of its record kind. It signals upstream schema drift.
type FieldError struct {
	// Kind is the record kind being decoded
	Kind Kind

	// Key is the offending key exactly as received
	Key string

	// Received lists every key of the object as it arrived
	Received []string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf(
		"unexpected %s field %q (canonical %s; received fields: %s)",
		e.Kind,
		e.Key,
		strings.ToUpper(e.Key),
		strings.Join(e.Received, ", "),
	)
}
