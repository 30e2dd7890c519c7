package navigation

import (
	"context"
	"errors"
	"sync"
	"time"

	"ippo/internal/platform"

	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a help menu stays usable.
const DefaultTTL = 180 * time.Second

// Outcome is the result of dispatching an input into the registry.
type Outcome int

const (
	// OutcomeAbsent means no live session exists on the surface.
	OutcomeAbsent Outcome = iota
	// OutcomeExpired means the session had outlived its TTL and was dropped.
	OutcomeExpired
	// OutcomeUnauthorized means the actor is not the owner.
	OutcomeUnauthorized
	// OutcomeRejected means the input is not valid for the current node.
	OutcomeRejected
	// OutcomeTransitioned means the session moved and the new screen was delivered.
	OutcomeTransitioned
	// OutcomeClosed means the session was closed by its owner.
	OutcomeClosed
	// OutcomeUndelivered means the move was valid but its screen could not
	// be delivered, so the session stayed where it was.
	OutcomeUndelivered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAbsent:
		return "absent"
	case OutcomeExpired:
		return "expired"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransitioned:
		return "transitioned"
	case OutcomeClosed:
		return "closed"
	case OutcomeUndelivered:
		return "undelivered"
	default:
		return "unknown"
	}
}

// Result describes a dispatch. Err holds the rejection reason or the
// delivery failure.
type Result struct {
	Outcome Outcome
	Node    Node
	Err     error
}

// DeliverFunc shows the regenerated screen on the hosting surface.
type DeliverFunc func(ctx context.Context, screen platform.Content) error

// Registry holds the live sessions keyed by hosting surface. Registry and
// session locks are never held together in registry-then-session order.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	catalog *Catalog
	ttl     time.Duration
	now     func() time.Time
	timers  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock replaces the time source and disables expiry timers; expiry is
// then driven by lazy checks and Sweep only.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
		r.timers = false
	}
}

// NewRegistry creates an empty registry over catalog.
func NewRegistry(catalog *Catalog, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		catalog:  catalog,
		ttl:      DefaultTTL,
		now:      time.Now,
		timers:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the shared catalog.
func (r *Registry) Catalog() *Catalog { return r.catalog }

// Open starts a session on surface for owner, closing any previous one there.
func (r *Registry) Open(surface string, owner platform.User) *Session {
	s := newSession(surface, owner, r.catalog, r.now(), r.ttl)
	if r.timers {
		s.timer = time.AfterFunc(r.ttl, func() { r.expire(s) })
	}

	r.mu.Lock()
	prev := r.sessions[surface]
	r.sessions[surface] = s
	r.mu.Unlock()

	if prev != nil {
		prev.mu.Lock()
		prev.closeLocked()
		prev.mu.Unlock()
		log.Debug().Str("surface", surface).Msg("Replaced help session")
	}
	log.Debug().Str("surface", surface).Str("user", owner.ID).Msg("Opened help session")
	return s
}

// Dispatch feeds one input into the session on surface. The new screen is
// delivered while the session lock is held, so transitions on one surface
// reach the platform in order, and the session only moves once delivery
// succeeded. A failed delivery leaves it on the screen the user still sees.
func (r *Registry) Dispatch(ctx context.Context, surface, actorID string, in Input, deliver DeliverFunc) Result {
	s := r.lookup(surface)
	if s == nil {
		return Result{Outcome: OutcomeAbsent}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, closed, err := s.planLocked(actorID, in, r.now())
	switch {
	case errors.Is(err, ErrInactive):
		r.removeIf(surface, s)
		return Result{Outcome: OutcomeAbsent, Node: s.node}
	case errors.Is(err, ErrExpired):
		r.removeIf(surface, s)
		log.Debug().Str("surface", surface).Msg("Help session expired")
		return Result{Outcome: OutcomeExpired, Node: s.node, Err: err}
	case errors.Is(err, ErrNotOwner):
		return Result{Outcome: OutcomeUnauthorized, Node: s.node, Err: err}
	case err != nil:
		return Result{Outcome: OutcomeRejected, Node: s.node, Err: err}
	}

	if deliver != nil {
		if err := deliver(ctx, s.screenFor(next, closed)); err != nil {
			return Result{Outcome: OutcomeUndelivered, Node: s.node, Err: err}
		}
	}
	s.commitLocked(next, closed)

	if closed {
		r.removeIf(surface, s)
		return Result{Outcome: OutcomeClosed, Node: s.node}
	}
	return Result{Outcome: OutcomeTransitioned, Node: s.node}
}

// Close ends the session on surface. It reports whether one was live.
func (r *Registry) Close(surface string) bool {
	r.mu.Lock()
	s := r.sessions[surface]
	delete(r.sessions, surface)
	r.mu.Unlock()
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.state == StateActive
	s.closeLocked()
	return live
}

// Get returns the session on surface if it is still active.
func (r *Registry) Get(surface string) (*Session, bool) {
	s := r.lookup(surface)
	if s == nil || s.expiredAt(r.now()) {
		return nil, false
	}
	return s, true
}

// Len returns the number of stored sessions, expired ones not yet swept included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops every session past its expiry and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	candidates := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		candidates = append(candidates, s)
	}
	r.mu.Unlock()

	now := r.now()
	removed := 0
	for _, s := range candidates {
		s.mu.Lock()
		if s.state == StateActive && !now.Before(s.expiresAt) {
			s.expireLocked()
		}
		gone := s.state != StateActive
		s.mu.Unlock()

		if gone && r.removeIf(s.surface, s) {
			removed++
		}
	}
	return removed
}

// Shutdown closes every session and stops their timers.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		s.closeLocked()
		s.mu.Unlock()
	}
}

func (r *Registry) lookup(surface string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[surface]
}

// removeIf deletes surface only if it still maps to s, so a replacement
// opened meanwhile survives.
func (r *Registry) removeIf(surface string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[surface] != s {
		return false
	}
	delete(r.sessions, surface)
	return true
}

func (r *Registry) expire(s *Session) {
	s.mu.Lock()
	s.timer = nil
	if s.state == StateActive {
		s.state = StateExpired
	}
	s.mu.Unlock()

	if r.removeIf(s.surface, s) {
		log.Debug().Str("surface", s.surface).Msg("Help session timed out")
	}
}
