// Package session tracks which single user, if any, is currently
// authenticated. The slot is guarded by a mutex so two concurrent Login
// calls cannot both observe an empty session and both succeed.
package session

import (
	"sync"

	"github.com/dmitrijs2005/safestorage/internal/common"
)

// Session is a single-slot authenticated-user holder. The zero value is an
// unauthenticated session ready for use.
type Session struct {
	mu       sync.Mutex
	username string
}

func New() *Session {
	return &Session{}
}

// Login transitions the session to authenticated as username. Fails with
// common.ErrAlreadyLoggedIn if another (or the same) user holds the slot.
func (s *Session) Login(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.username != "" {
		return common.ErrAlreadyLoggedIn
	}
	s.username = username
	return nil
}

// Logout clears the slot. Fails with common.ErrNotLoggedIn when the session
// is not authenticated.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.username == "" {
		return common.ErrNotLoggedIn
	}
	s.username = ""
	return nil
}

// Current returns the authenticated username and true, or "" and false when
// the session is anonymous.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.username, s.username != ""
}

// Reset unconditionally clears the slot. Used by Init to guarantee a fresh
// anonymous state regardless of prior use.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = ""
}
