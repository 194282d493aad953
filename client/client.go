// Package client is the typed HTTP client for the HubHiv task API. Each
// operation is a single fire-once request/response pair: no retries, no
// caching, no idempotency keys. Transport, HTTP and decode failures surface
// as NetworkError, HTTPError and ParseError respectively and propagate
// unmodified to the caller.
package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// requestTimeout bounds every call unless the caller supplies its own
// http.Client. The old probe scripts applied the same ten seconds.
const requestTimeout = 10 * time.Second

// Client issues task operations against a remote API base URL. The zero
// value is not usable; construct with New.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session *Session
}

// New creates a Client for the given base URL. A nil session gets a fresh
// empty one.
func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = NewSession()
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: requestTimeout},
		Session: session,
	}
}

// errorBody is the shape the API uses for non-2xx responses. Older endpoints
// use "error", newer ones "message"; 422 adds the field map.
type errorBody struct {
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// do runs one request. body and out may be nil; out is decoded with sonic
// from a 2xx response. A 401 clears the session before the HTTPError is
// returned.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.Session.unauthorized()
	}
	if resp.StatusCode >= 400 {
		httpErr := &HTTPError{Status: resp.StatusCode}
		var eb errorBody
		if len(data) > 0 && sonic.Unmarshal(data, &eb) == nil {
			httpErr.Message = eb.Message
			if httpErr.Message == "" {
				httpErr.Message = eb.Error
			}
			httpErr.FieldErrors = eb.Errors
		}
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// checkTask enforces the minimal response schema: a record the server returns
// must carry an identifier. Anything else decoded fine but is unusable, so it
// is reported as a ParseError rather than propagated as undefined fields.
func checkTask(id string) error {
	if id == "" {
		return &ParseError{Err: errors.New("task record missing id")}
	}
	return nil
}
