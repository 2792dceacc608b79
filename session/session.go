// Package session holds the client-side login session: the opaque bearer
// token issued by the auth service and the advisory role used to pick a
// landing page. The Store is the tab-scoped analogue of browser session
// storage; it is created once by the application shell and injected into
// every resource client.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoSession is returned when an authenticated request is attempted
// without a stored token. It is a local guard; no network call is made.
var ErrNoSession = errors.New("no active session")

// Role is the coarse authorization class returned at login. It is advisory
// for UI routing only; every authorization decision is re-verified
// server-side.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole validates a role string received from the auth service.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Session is the value issued by one successful login.
type Session struct {
	Token string
	Role  Role
}

// Valid reports whether the session carries a token. A session without a
// token must never reach an authenticated request.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Store holds at most one Session for the lifetime of the process. It is
// safe for concurrent use: an in-flight delete and a list refresh may read
// it at the same time.
type Store struct {
	mu   sync.RWMutex
	cur  Session
	live bool
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored session wholesale. It is called exactly once per
// successful login.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = sess
	s.live = sess.Valid()
}

// Get returns the current session and whether one is present.
func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, s.live
}

// Token returns the stored bearer token, or ErrNoSession when the store is
// empty. Callers use it as the fail-fast guard before building a request.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.live {
		return "", ErrNoSession
	}
	return s.cur.Token, nil
}

// Role returns the advisory role of the current session, if any.
func (s *Store) Role() (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.live {
		return "", false
	}
	return s.cur.Role, true
}

// Clear destroys the session. Called on logout and when the server reports
// the token as no longer valid.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{}
	s.live = false
}
