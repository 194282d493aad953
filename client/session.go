package client

import "sync"

// Session holds the bearer token for the active login. It replaces the
// ambient token storage of earlier revisions: set on login, cleared on
// logout or whenever the server answers 401. OnUnauthorized, when set, fires
// once per 401 so the caller can force navigation to an unauthenticated view.
type Session struct {
	mu    sync.RWMutex
	token string

	// OnUnauthorized is invoked after the token is cleared on a 401.
	OnUnauthorized func()
}

// NewSession returns an empty session.
func NewSession() *Session { return &Session{} }

// SetToken stores the bearer token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear drops the stored token.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func (s *Session) unauthorized() {
	s.Clear()
	if s.OnUnauthorized != nil {
		s.OnUnauthorized()
	}
}
