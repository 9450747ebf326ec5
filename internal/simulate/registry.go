package simulate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("simulation session not found")
	// ErrTooManySessions is returned by Create when the registry is full.
	ErrTooManySessions = errors.New("too many simulation sessions")
)

const (
	// DefaultMaxSessions bounds live sessions.
	DefaultMaxSessions = 10_000
	// DefaultIdleTTL is how long an untouched, settled session is kept.
	DefaultIdleTTL = 30 * time.Minute
)

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithMaxSessions caps live sessions. Non-positive values keep the default.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// WithIdleTTL sets how long a settled session survives without being read. Non-positive
// values keep the default.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTTL = d
		}
	}
}

// WithRegistryClock replaces time.Now.
func WithRegistryClock(fn func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = fn }
}

type session struct {
	transfer *Transfer
	touched  time.Time
}

// Registry keeps simulated transfers by session id. Sessions that are idle or finished and
// have not been read for the idle TTL are dropped by Sweep.
type Registry struct {
	factory     func() *Transfer
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry creates a Registry that builds sessions with factory.
func NewRegistry(factory func() *Transfer, opts ...RegistryOption) *Registry {
	r := &Registry{
		factory:     factory,
		maxSessions: DefaultMaxSessions,
		idleTTL:     DefaultIdleTTL,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new idle session and returns its id. A full registry first drops
// expired sessions and returns ErrTooManySessions if that frees nothing.
func (r *Registry) Create() (string, *Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if len(r.sessions) >= r.maxSessions {
		r.sweepLocked(now)
		if len(r.sessions) >= r.maxSessions {
			return "", nil, ErrTooManySessions
		}
	}

	id := uuid.NewString()
	t := r.factory()
	r.sessions[id] = &session{transfer: t, touched: now}
	return id, t, nil
}

// Get returns the session with the given id and marks it as used.
func (r *Registry) Get(id string) (*Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touched = r.now()
	return s.transfer, nil
}

// Remove cancels and forgets a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.transfer.Cancel()
	}
}

// Sweep drops settled sessions untouched for longer than the idle TTL and returns how many
// it removed. Running transfers are kept.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.touched) <= r.idleTTL {
			continue
		}
		if state := s.transfer.Status().State; state != StateIdle && !state.Terminal() {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
