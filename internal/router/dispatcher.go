// Package router turns inbound platform events into command executions and
// help menu transitions.
package router

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"ippo/internal/command"
	"ippo/internal/platform"
	"ippo/pkg/cmd"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultPrefix starts every text command.
const DefaultPrefix = "&"

const (
	scopeViolationMessage = "This command can only be used in a server."
	missingArgsMessage    = "You didn't provide any arguments, %s!"
	failureMessage        = "There was an error executing that command."
)

// Outcome is what HandleMessage did with an event.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeUnknown
	OutcomeScopeViolation
	OutcomeMissingArgs
	OutcomeExecuted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnknown:
		return "unknown"
	case OutcomeScopeViolation:
		return "scope_violation"
	case OutcomeMissingArgs:
		return "missing_args"
	case OutcomeExecuted:
		return "executed"
	case OutcomeFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Dispatcher routes prefixed text messages to registered commands.
type Dispatcher struct {
	registry *cmd.Registry
	prefix   string

	present platform.Presentation
	guild   platform.GuildActions
	members platform.MembershipLookup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPrefix sets the command prefix.
func WithPrefix(prefix string) DispatcherOption {
	return func(d *Dispatcher) {
		if prefix != "" {
			d.prefix = prefix
		}
	}
}

// NewDispatcher wires a dispatcher to the command registry and collaborators.
func NewDispatcher(reg *cmd.Registry, present platform.Presentation, guild platform.GuildActions, members platform.MembershipLookup, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		prefix:   DefaultPrefix,
		present:  present,
		guild:    guild,
		members:  members,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Prefix returns the configured command prefix.
func (d *Dispatcher) Prefix() string { return d.prefix }

// Parse splits prefixed text into a lower-cased command name and arguments.
// ok is false when text does not carry a command.
func Parse(prefix, text string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(text[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// HandleMessage runs the command carried by ev, if any. Command failures are
// contained here and never propagate to the caller.
func (d *Dispatcher) HandleMessage(ctx context.Context, ev platform.MessageEvent) Outcome {
	if ev.Author.Bot {
		return OutcomeIgnored
	}
	name, args, ok := Parse(d.prefix, ev.Content)
	if !ok {
		return OutcomeIgnored
	}

	c, found := d.registry.Lookup(name)
	if !found {
		log.Debug().Str("command", name).Str("user", ev.Author.ID).Msg("Unknown command")
		return OutcomeUnknown
	}

	inv := &cmd.Invocation{
		ID:            uuid.NewString(),
		Raw:           ev.Content,
		Name:          name,
		Args:          args,
		Invoker:       ev.Author.ID,
		Surface:       ev.ChannelID,
		GuildID:       ev.GuildID,
		ServerContext: ev.InServer(),
	}
	inv.Data = &command.Context{
		Invocation: inv,
		Message:    ev,
		Prefix:     d.prefix,
		Present:    d.present,
		Guild:      d.guild,
		Members:    d.members,
	}

	meta, _ := command.MetaOf(c)
	if meta != nil && meta.GuildOnly() && !inv.ServerContext {
		d.reply(ctx, ev, scopeViolationMessage)
		return OutcomeScopeViolation
	}
	if meta != nil && meta.RequiresArgs() && !inv.HasArgs() {
		d.reply(ctx, ev, missingArgsText(d.prefix, c.Name(), meta.Usage(), ev.Author))
		return OutcomeMissingArgs
	}

	if err := d.execute(ctx, c, inv); err != nil {
		log.Error().Err(err).
			Str("invocation", inv.ID).
			Str("command", c.Name()).
			Str("guild", ev.GuildID).
			Str("channel", ev.ChannelID).
			Str("user", ev.Author.ID).
			Msg("Command failed")
		d.reply(ctx, ev, failureMessage)
		return OutcomeFailed
	}
	return OutcomeExecuted
}

func (d *Dispatcher) execute(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in command %s: %v\n%s", c.Name(), r, debug.Stack())
		}
	}()
	return c.Run(ctx, inv)
}

func (d *Dispatcher) reply(ctx context.Context, ev platform.MessageEvent, text string) {
	if _, err := d.present.Deliver(ctx, platform.ReplyTo(ev), platform.Text(text)); err != nil {
		log.Warn().Err(err).Str("channel", ev.ChannelID).Msg("Failed to send reply")
	}
}

func missingArgsText(prefix, name, usage string, author platform.User) string {
	text := fmt.Sprintf(missingArgsMessage, author.Mention())
	if usage != "" {
		text += fmt.Sprintf("\nProper usage: `%s%s %s`", prefix, name, usage)
	}
	return text
}
