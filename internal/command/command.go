package command

import (
	"context"

	"ippo/internal/platform"
	"ippo/pkg/cmd"
)

// Command is what individual bot commands implement.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Category() string
	RequiresArgs() bool
	GuildOnly() bool
	Permissions() []platform.Permission
	Run(ctx *Context) error
}

// Meta is exposed by the adapter so the dispatcher and middleware can read
// preconditions without depending on the concrete command type.
type Meta interface {
	Usage() string
	Category() string
	RequiresArgs() bool
	GuildOnly() bool
	Permissions() []platform.Permission
}

// MetaOf returns the metadata of a registered command, walking through
// middleware wrappers. Commands without metadata have no preconditions.
func MetaOf(c cmd.Command) (Meta, bool) {
	m, ok := cmd.Root(c).(Meta)
	return m, ok
}

// Adapter adapts a Command to cmd.Command so it can live in the universal registry.
type Adapter struct {
	Cmd Command
}

func (a *Adapter) Name() string                       { return a.Cmd.Name() }
func (a *Adapter) Description() string                { return a.Cmd.Description() }
func (a *Adapter) Usage() string                      { return a.Cmd.Usage() }
func (a *Adapter) Category() string                   { return a.Cmd.Category() }
func (a *Adapter) RequiresArgs() bool                 { return a.Cmd.RequiresArgs() }
func (a *Adapter) GuildOnly() bool                    { return a.Cmd.GuildOnly() }
func (a *Adapter) Permissions() []platform.Permission { return a.Cmd.Permissions() }

// Run unpacks the bot Context carried in the invocation.
func (a *Adapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	c, ok := inv.Data.(*Context)
	if !ok || c == nil {
		return ErrNoContext
	}
	c.ctx = ctx
	c.Invocation = inv
	return a.Cmd.Run(c)
}

// DefaultSource collects commands registered from package init() functions.
var DefaultSource = &cmd.Collector{}

// RegisterCommand adds a command with middlewares to DefaultSource.
func RegisterCommand(c Command, mws ...cmd.Middleware) {
	DefaultSource.Add(Wrap(c, mws...))
}

// Wrap adapts c and applies middlewares without registering it.
func Wrap(c Command, mws ...cmd.Middleware) cmd.Command {
	return cmd.Apply(&Adapter{Cmd: c}, mws...)
}
