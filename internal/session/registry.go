package session

import (
	"sort"
	"sync"

	"golang.org/x/time/rate"
)

// Registry holds the sessions of all open connections.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	limit rate.Limit
	burst int
}

// NewRegistry returns an empty registry.  When limit is positive each
// new session gets its own token bucket of size burst.
func NewRegistry(limit float64, burst int) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		limit:    rate.Limit(limit),
		burst:    burst,
	}
}

// Open creates and stores an unauthenticated session for connID.
func (r *Registry) Open(connID, addr string) *Session {
	var lim *rate.Limiter
	if r.limit > 0 {
		lim = rate.NewLimiter(r.limit, r.burst)
	}
	s := New(connID, addr, lim)

	r.mu.Lock()
	r.sessions[connID] = s
	r.mu.Unlock()
	return s
}

// Get looks up the session for connID.
func (r *Registry) Get(connID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connID]
	return s, ok
}

// Remove deletes and closes the session for connID.  ok is false when
// it was already gone, so teardown runs once per connection.
func (r *Registry) Remove(connID string) (s *Session, ok bool) {
	r.mu.Lock()
	s, ok = r.sessions[connID]
	delete(r.sessions, connID)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return s, ok
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Identities returns the sorted identities of authenticated sessions.
func (r *Registry) Identities() []string {
	r.mu.Lock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.Unlock()

	var ids []string
	for _, s := range snapshot {
		if id, ok := s.Identity(); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
