// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched (Discord prefix messages, CLI, HTTP) is defined by adapters that wrap this.
package cmd

import "context"

// Invocation is one parsed command call. Transport adapters fill the identity
// fields and set Data to their own context (collaborators, raw event).
type Invocation struct {
	ID            string
	Raw           string
	Name          string
	Args          []string
	Invoker       string
	Surface       string
	GuildID       string
	ServerContext bool
	Data          interface{}
}

// HasArgs reports whether at least one positional argument was given.
func (inv *Invocation) HasArgs() bool {
	return len(inv.Args) > 0
}

// Command is the universal contract: identity plus execution. Permissions, usage
// hints and scope restrictions stay in adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
