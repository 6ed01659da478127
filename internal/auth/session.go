package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionCookieName = "admin_session_token"
const sessionTTL = time.Hour

// sessionStore is an in-memory token registry. Sessions do not survive a
// process restart; admins log in again.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

var sessions = &sessionStore{sessions: make(map[string]time.Time)}

// create issues a fresh random token valid for sessionTTL.
func (s *sessionStore) create() string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(sessionTTL)
	s.mu.Unlock()
	return token
}

// valid reports whether the token exists and has not expired. Expired tokens
// are removed on sight.
func (s *sessionStore) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// revoke removes a token, if present.
func (s *sessionStore) revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
