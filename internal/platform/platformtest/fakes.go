// Package platformtest provides in-memory fakes of the platform collaborators.
package platformtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ippo/internal/platform"
)

// Delivery is one recorded Presentation call.
type Delivery struct {
	Dest    platform.Destination
	Content platform.Content
}

// Presenter records deliveries. Fail makes deliveries of the given kinds fail.
type Presenter struct {
	mu         sync.Mutex
	deliveries []Delivery
	next       int
	Fail       map[platform.DestinationKind]error
}

func (p *Presenter) Deliver(_ context.Context, dest platform.Destination, content platform.Content) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.Fail[dest.Kind]; err != nil {
		return "", err
	}
	p.deliveries = append(p.deliveries, Delivery{Dest: dest, Content: content})
	p.next++
	return fmt.Sprintf("msg-%d", p.next), nil
}

// Deliveries returns a copy of everything delivered so far.
func (p *Presenter) Deliveries() []Delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Delivery, len(p.deliveries))
	copy(out, p.deliveries)
	return out
}

// Last returns the most recent delivery.
func (p *Presenter) Last() (Delivery, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.deliveries) == 0 {
		return Delivery{}, false
	}
	return p.deliveries[len(p.deliveries)-1], true
}

// Of returns the deliveries with the given destination kind.
func (p *Presenter) Of(kind platform.DestinationKind) []Delivery {
	var out []Delivery
	for _, d := range p.Deliveries() {
		if d.Dest.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Call is one recorded GuildActions call.
type Call struct {
	Op     string
	Guild  string
	User   string
	Role   string
	Reason string
}

// Guild records moderation calls. Errors keyed by op ("ban", "kick", ...)
// are returned instead of succeeding.
type Guild struct {
	mu           sync.Mutex
	calls        []Call
	Banned       map[string]platform.User
	Errors       map[string]error
	Unmanageable map[string]bool
}

func (g *Guild) record(c Call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
	return g.Errors[c.Op]
}

func (g *Guild) Ban(_ context.Context, guildID, userID, reason string) error {
	return g.record(Call{Op: "ban", Guild: guildID, User: userID, Reason: reason})
}

func (g *Guild) Unban(_ context.Context, guildID, userID, reason string) (platform.User, error) {
	if err := g.record(Call{Op: "unban", Guild: guildID, User: userID, Reason: reason}); err != nil {
		return platform.User{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.Banned[userID]
	if !ok {
		return platform.User{}, platform.ErrNotBanned
	}
	delete(g.Banned, userID)
	return u, nil
}

func (g *Guild) Kick(_ context.Context, guildID, userID, reason string) error {
	return g.record(Call{Op: "kick", Guild: guildID, User: userID, Reason: reason})
}

func (g *Guild) AddRole(_ context.Context, guildID, userID, roleID, reason string) error {
	return g.record(Call{Op: "add_role", Guild: guildID, User: userID, Role: roleID, Reason: reason})
}

func (g *Guild) RemoveRole(_ context.Context, guildID, userID, roleID, reason string) error {
	return g.record(Call{Op: "remove_role", Guild: guildID, User: userID, Role: roleID, Reason: reason})
}

func (g *Guild) CheckManageable(_ context.Context, _, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Unmanageable[userID] {
		return platform.ErrTargetNotManageable
	}
	return nil
}

// Calls returns the recorded calls, optionally filtered by op.
func (g *Guild) Calls(op string) []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Call
	for _, c := range g.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Members is a MembershipLookup over fixed data. Perms maps user id to the
// permissions that user holds.
type Members struct {
	Members map[string]platform.Member
	Roles   []platform.Role
	Perms   map[string][]platform.Permission
	PermErr error
}

func (m *Members) ResolveMember(_ context.Context, _, arg string) (platform.Member, error) {
	id := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(arg, "<@"), "!"), ">")
	if mem, ok := m.Members[id]; ok {
		return mem, nil
	}
	return platform.Member{}, platform.ErrTargetNotFound
}

func (m *Members) ResolveRole(_ context.Context, _, arg string) (platform.Role, error) {
	id := strings.TrimSuffix(strings.TrimPrefix(arg, "<@&"), ">")
	for _, r := range m.Roles {
		if r.ID == id || strings.EqualFold(r.Name, arg) {
			return r, nil
		}
	}
	return platform.Role{}, platform.ErrTargetNotFound
}

func (m *Members) HasPermission(_ context.Context, _, _, userID string, perm platform.Permission) (bool, error) {
	if m.PermErr != nil {
		return false, m.PermErr
	}
	for _, p := range m.Perms[userID] {
		if p == perm {
			return true, nil
		}
	}
	return false, nil
}
