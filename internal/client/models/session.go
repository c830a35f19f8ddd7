// Package models defines the client-side domain types: the authenticated
// session and the server-reported file records.
package models

import "sync"

// Session holds the current authenticated identity. The zero value is a
// logged-out session. It is safe for concurrent use: the token is read by
// upload and file-action goroutines while auth commands may rotate it.
type Session struct {
	mu       sync.RWMutex
	username string
	token    string
}

// Set replaces the identity with the given username and token.
func (s *Session) Set(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.token = token
}

// Clear resets the session to the logged-out state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.token = ""
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a bearer token is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
