package client

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"authToken"`
	UserID    string `json:"userId,omitempty"`
}

// Login authenticates against the API and stores the returned bearer token
// in the session. Bad credentials surface as HTTPError{401}; note that a 401
// here also clears any previously stored token, same as everywhere else.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AuthToken == "" {
		return "", &ParseError{Err: errMissingToken}
	}
	c.Session.SetToken(resp.AuthToken)
	return resp.UserID, nil
}

// Logout drops the stored token. Purely client-side; the API keeps no
// session state.
func (c *Client) Logout() {
	c.Session.Clear()
}
