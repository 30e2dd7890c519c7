package navigation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"ippo/internal/platform"
)

var (
	ErrNotOwner          = errors.New("not authorized to use this menu")
	ErrCategoryRequired  = errors.New("category required")
	ErrUnknownOption     = errors.New("unknown option")
	ErrInvalidTransition = errors.New("transition not offered by this screen")
	ErrInactive          = errors.New("session is not active")
	ErrExpired           = errors.New("session expired")
)

// Notice is the user-facing text for a rejected interaction.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrNotOwner):
		return "❌ Only the person who opened this menu can use it."
	case errors.Is(err, ErrCategoryRequired):
		return "Please select a category first."
	case errors.Is(err, ErrExpired), errors.Is(err, ErrInactive):
		return "This help menu has expired. Run the help command again."
	case errors.Is(err, ErrUnknownOption):
		return "That option is not available anymore."
	default:
		return "That action is not available on this screen."
	}
}

// State is the lifecycle state of a session.
type State int

const (
	StateActive State = iota
	StateExpired
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one help menu hosted on a message. Only its owner may drive it.
type Session struct {
	mu sync.Mutex

	surface   string
	owner     platform.User
	catalog   *Catalog
	node      Node
	state     State
	createdAt time.Time
	expiresAt time.Time
	timer     *time.Timer
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	Surface   string
	Owner     platform.User
	Node      Node
	State     State
	CreatedAt time.Time
	ExpiresAt time.Time
}

func newSession(surface string, owner platform.User, catalog *Catalog, now time.Time, ttl time.Duration) *Session {
	return &Session{
		surface:   surface,
		owner:     owner,
		catalog:   catalog,
		node:      Main,
		state:     StateActive,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Surface:   s.surface,
		Owner:     s.owner,
		Node:      s.node,
		State:     s.state,
		CreatedAt: s.createdAt,
		ExpiresAt: s.expiresAt,
	}
}

// Owner is the user allowed to drive the session.
func (s *Session) Owner() platform.User { return s.owner }

// planLocked checks state, expiry and ownership and works out where in
// leads. It never moves the session; commitLocked does.
func (s *Session) planLocked(actorID string, in Input, now time.Time) (next Node, closed bool, err error) {
	if s.state != StateActive {
		return s.node, false, ErrInactive
	}
	if !now.Before(s.expiresAt) {
		s.expireLocked()
		return s.node, false, ErrExpired
	}
	if actorID != s.owner.ID {
		return s.node, false, ErrNotOwner
	}
	return s.catalog.Next(s.node, in)
}

// screenFor renders the screen a planned move would show.
func (s *Session) screenFor(next Node, closed bool) platform.Content {
	if closed {
		return s.catalog.RenderClosed(s.node, s.owner)
	}
	return s.catalog.Render(next, s.owner)
}

func (s *Session) commitLocked(next Node, closed bool) {
	if closed {
		s.closeLocked()
		return
	}
	s.node = next
}

func (s *Session) closeLocked() {
	if s.state == StateActive {
		s.state = StateClosed
	}
	s.stopTimerLocked()
}

func (s *Session) expireLocked() {
	if s.state == StateActive {
		s.state = StateExpired
	}
	s.stopTimerLocked()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) expiredAt(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateActive || !now.Before(s.expiresAt)
}
