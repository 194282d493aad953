package client

import (
	"errors"
	"fmt"
)

var errMissingToken = errors.New("login response missing authToken")

// NetworkError wraps a transport failure that happened before any HTTP
// response was obtained, including context cancellation.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a 4xx/5xx response from the remote API. FieldErrors carries
// the per-field validation map a 422 attaches; it is nil otherwise.
type HTTPError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// ParseError means the response body was not valid JSON, or decoded into a
// shape the client cannot accept (for example a task without an identifier).
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }
