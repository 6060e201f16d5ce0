package notehub

import (
	"errors"
	"fmt"
	"net/http"
)

// Error exposes methods useful for categorizing errors returned by the Notehub
// API client.
type Error interface {
	error

	// Temporary returns true if the Error might be the result of a transient
	// condition. For example, the service returns 503 while a backend is
	// restarting; repeating the request later may succeed without any change
	// on the caller's part.
	Temporary() bool
}

// AuthenticationError indicates the service rejected the caller's credentials
// or session token. It is returned on failed logins, on malformed login
// responses, and on any API call whose token the server refuses (including
// tokens revoked before their nominal TTL elapsed).
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func (e *AuthenticationError) Temporary() bool {
	return false
}

// ValidationError indicates a request was rejected locally, before any network
// I/O, because a required parameter was missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Temporary() bool {
	return false
}

// HttpError wraps a non-2xx response from the Notehub API that does not map to
// a more specific error type.
type HttpError struct {
	Code    int
	Message string
}

func (e *HttpError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Code)
	}
	return e.Message
}

func (e *HttpError) Temporary() bool {
	return e.Code == http.StatusServiceUnavailable ||
		e.Code == http.StatusGatewayTimeout ||
		e.Code == http.StatusRequestTimeout
}

// TransportError wraps a network-level failure (connection refused, timeout,
// canceled context) on the path to the Notehub API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "notehub unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Temporary() bool {
	return true
}

func newAuthenticationError(format string, a ...interface{}) error {
	return &AuthenticationError{Err: fmt.Errorf(format, a...)}
}

func missingParameter(field string) error {
	return &ValidationError{Field: field, Reason: "must not be empty"}
}

// IsAuthenticationError returns true if err indicates rejected credentials or
// a rejected session token.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsValidationError returns true if err was raised locally due to a missing or
// malformed parameter.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Temporary returns true if err categorizes itself as possibly transient.
func Temporary(err error) bool {
	var nhErr Error
	if errors.As(err, &nhErr) {
		return nhErr.Temporary()
	}
	return false
}
