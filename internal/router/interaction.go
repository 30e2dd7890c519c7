package router

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"ippo/internal/navigation"
	"ippo/internal/platform"

	"github.com/rs/zerolog/log"
)

const (
	unsupportedControlMessage = "This control is no longer supported."
	foreignControlMessage     = "❌ This control belongs to another moderator."
)

// ErrDuplicateAction is returned when an action name is registered twice.
var ErrDuplicateAction = errors.New("duplicate action")

// ActionContext is handed to a one-shot action.
type ActionContext struct {
	Event   platform.InteractionEvent
	ID      ActionID
	Guild   platform.GuildActions
	Members platform.MembershipLookup
}

// Action handles a one-shot control without session state. The returned
// text is shown to the actor only; an error is treated as a fault.
type Action interface {
	Name() string
	Handle(ctx context.Context, actx *ActionContext) (string, error)
}

// InteractionOutcome is what HandleInteraction did with an event.
type InteractionOutcome int

const (
	InteractionIgnored InteractionOutcome = iota
	InteractionNavigated
	InteractionClosed
	InteractionStale
	InteractionExpired
	InteractionUnauthorized
	InteractionRejected
	InteractionHandled
	InteractionFailed
	InteractionUnsupported
)

func (o InteractionOutcome) String() string {
	switch o {
	case InteractionIgnored:
		return "ignored"
	case InteractionNavigated:
		return "navigated"
	case InteractionClosed:
		return "closed"
	case InteractionStale:
		return "stale"
	case InteractionExpired:
		return "expired"
	case InteractionUnauthorized:
		return "unauthorized"
	case InteractionRejected:
		return "rejected"
	case InteractionHandled:
		return "handled"
	case InteractionFailed:
		return "failed"
	case InteractionUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// InteractionRouter routes component interactions to help sessions or
// one-shot actions.
type InteractionRouter struct {
	sessions *navigation.Registry
	present  platform.Presentation
	guild    platform.GuildActions
	members  platform.MembershipLookup

	mu      sync.RWMutex
	actions map[string]Action
}

// NewInteractionRouter creates a router over the session registry.
func NewInteractionRouter(sessions *navigation.Registry, present platform.Presentation, guild platform.GuildActions, members platform.MembershipLookup) *InteractionRouter {
	return &InteractionRouter{
		sessions: sessions,
		present:  present,
		guild:    guild,
		members:  members,
		actions:  make(map[string]Action),
	}
}

// RegisterAction makes a one-shot action reachable by name.
func (r *InteractionRouter) RegisterAction(a Action) error {
	name := strings.ToLower(a.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAction, name)
	}
	r.actions[name] = a
	return nil
}

func (r *InteractionRouter) action(name string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[strings.ToLower(name)]
	return a, ok
}

// HandleInteraction answers one component interaction.
func (r *InteractionRouter) HandleInteraction(ctx context.Context, ev platform.InteractionEvent) InteractionOutcome {
	switch {
	case navigation.IsControl(ev.CustomID):
		return r.navigate(ctx, ev)
	case IsAction(ev.CustomID):
		return r.runAction(ctx, ev)
	}
	r.deliver(ctx, platform.AckOf(ev), platform.Content{})
	return InteractionIgnored
}

func (r *InteractionRouter) navigate(ctx context.Context, ev platform.InteractionEvent) InteractionOutcome {
	in, ok := navigation.ParseControl(ev.CustomID, ev.Value())
	if !ok || !kindMatches(ev.Kind, in.Kind) {
		r.notify(ctx, ev, unsupportedControlMessage)
		return InteractionUnsupported
	}

	res := r.sessions.Dispatch(ctx, ev.MessageID, ev.Actor.ID, in, func(ctx context.Context, screen platform.Content) error {
		_, err := r.present.Deliver(ctx, platform.UpdateOf(ev), screen)
		return err
	})

	logger := log.With().Str("surface", ev.MessageID).Str("user", ev.Actor.ID).Str("input", in.Kind.String()).Logger()
	switch res.Outcome {
	case navigation.OutcomeTransitioned:
		return InteractionNavigated
	case navigation.OutcomeClosed:
		return InteractionClosed
	case navigation.OutcomeUndelivered:
		logger.Warn().Err(res.Err).Msg("Failed to update help menu")
		return InteractionFailed
	case navigation.OutcomeExpired:
		r.notify(ctx, ev, navigation.Notice(navigation.ErrExpired))
		return InteractionExpired
	case navigation.OutcomeUnauthorized:
		logger.Debug().Msg("Rejected help menu input from non-owner")
		r.notify(ctx, ev, navigation.Notice(res.Err))
		return InteractionUnauthorized
	case navigation.OutcomeRejected:
		logger.Debug().Err(res.Err).Msg("Rejected help menu input")
		r.notify(ctx, ev, navigation.Notice(res.Err))
		return InteractionRejected
	default:
		r.deliver(ctx, platform.AckOf(ev), platform.Content{})
		return InteractionStale
	}
}

// kindMatches reports whether a control of kind k can carry input e. Lists
// pick categories and commands; buttons do the rest.
func kindMatches(k platform.InteractionKind, e navigation.EventKind) bool {
	switch e {
	case navigation.EventPickCategory, navigation.EventPickCommand:
		return k == platform.InteractionSelect
	default:
		return k == platform.InteractionButton
	}
}

func (r *InteractionRouter) runAction(ctx context.Context, ev platform.InteractionEvent) InteractionOutcome {
	id, err := ParseActionID(ev.CustomID)
	if err != nil {
		log.Debug().Err(err).Str("user", ev.Actor.ID).Msg("Malformed action id")
		r.notify(ctx, ev, unsupportedControlMessage)
		return InteractionUnsupported
	}
	a, ok := r.action(id.Name)
	if !ok {
		r.notify(ctx, ev, unsupportedControlMessage)
		return InteractionUnsupported
	}
	if id.By != "" && id.By != ev.Actor.ID {
		r.notify(ctx, ev, foreignControlMessage)
		return InteractionUnauthorized
	}

	text, err := r.handle(ctx, a, &ActionContext{Event: ev, ID: id, Guild: r.guild, Members: r.members})
	if err != nil {
		log.Error().Err(err).
			Str("action", id.Name).
			Str("guild", ev.GuildID).
			Str("channel", ev.ChannelID).
			Str("user", ev.Actor.ID).
			Msg("Action failed")
		r.notify(ctx, ev, failureMessage)
		return InteractionFailed
	}
	r.notify(ctx, ev, text)
	return InteractionHandled
}

func (r *InteractionRouter) handle(ctx context.Context, a Action, actx *ActionContext) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in action %s: %v\n%s", a.Name(), rec, debug.Stack())
		}
	}()
	return a.Handle(ctx, actx)
}

func (r *InteractionRouter) notify(ctx context.Context, ev platform.InteractionEvent, text string) {
	r.deliver(ctx, platform.EphemeralTo(ev), platform.Text(text))
}

func (r *InteractionRouter) deliver(ctx context.Context, dest platform.Destination, content platform.Content) {
	if _, err := r.present.Deliver(ctx, dest, content); err != nil {
		log.Warn().Err(err).Str("interaction", dest.InteractionID).Msg("Failed to answer interaction")
	}
}
