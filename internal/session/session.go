// Package session tracks the server-side login state of each chat
// connection.
//
// A Session moves Unauthenticated → Authenticated → Closed and binds
// its identity exactly once.  Sessions live in a Registry keyed by
// connection ID rather than on the transport connection itself.
package session

import (
	"sync"

	"golang.org/x/time/rate"

	ncerr "simplechat/internal/errors"
)

// State is a session's position in the login state machine.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the login state of one connection.
type Session struct {
	ConnID string
	Addr   string

	mu       sync.Mutex
	state    State
	identity string
	limiter  *rate.Limiter // nil when flood limiting is off
}

// New returns an unauthenticated session.
func New(connID, addr string, limiter *rate.Limiter) *Session {
	return &Session{ConnID: connID, Addr: addr, limiter: limiter}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the bound identity, if any.
func (s *Session) Identity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.identity != ""
}

// Label names the session for operator output: the identity once
// known, the connection ID before that.
func (s *Session) Label() string {
	if id, ok := s.Identity(); ok {
		return id
	}
	return s.ConnID
}

// Login binds id and moves to Authenticated.  The identity is never
// overwritten: a second login fails with ErrAlreadyLoggedIn.
func (s *Session) Login(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAuthenticated:
		return ncerr.ErrAlreadyLoggedIn
	case StateClosed:
		return ncerr.ErrConnClosed
	}
	if id == "" {
		return ncerr.ErrMissingLoginID
	}
	s.identity = id
	s.state = StateAuthenticated
	return nil
}

// Close moves the session to Closed.  It reports true only for the
// call that made the transition.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return false
	}
	s.state = StateClosed
	return true
}

// Allow reports whether one more chat line fits the flood limit.
func (s *Session) Allow() bool {
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow()
}
