package command

import (
	"context"
	"errors"
	"fmt"

	"ippo/internal/platform"
	"ippo/pkg/cmd"

	"github.com/rs/zerolog/log"
)

// ErrNoContext is returned when a command runs without a bot Context.
var ErrNoContext = errors.New("command invoked without bot context")

// Context is what the runtime hands a command when executing it.
type Context struct {
	Invocation *cmd.Invocation
	Message    platform.MessageEvent
	Prefix     string

	Present platform.Presentation
	Guild   platform.GuildActions
	Members platform.MembershipLookup

	ctx context.Context
}

// Context returns the request context of the running invocation.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Args returns the positional arguments.
func (c *Context) Args() []string {
	if c.Invocation == nil {
		return nil
	}
	return c.Invocation.Args
}

// Author returns the invoking user.
func (c *Context) Author() platform.User {
	return c.Message.Author
}

// GuildID returns the guild the message came from, or "" in a DM.
func (c *Context) GuildID() string {
	return c.Message.GuildID
}

// Reply answers the invoking message.
func (c *Context) Reply(content platform.Content) error {
	_, err := c.Present.Deliver(c.Context(), platform.ReplyTo(c.Message), content)
	return err
}

// Replyf answers the invoking message with formatted text.
func (c *Context) Replyf(format string, args ...any) error {
	return c.Reply(platform.Text(fmt.Sprintf(format, args...)))
}

// Send posts into the invoking channel and returns the new message id.
func (c *Context) Send(content platform.Content) (string, error) {
	return c.Present.Deliver(c.Context(), platform.ChannelOf(c.Message.ChannelID), content)
}

// DirectMessage sends a DM. Failures (closed DMs) are logged and swallowed so
// they never abort the surrounding command.
func (c *Context) DirectMessage(user platform.User, content platform.Content) bool {
	if _, err := c.Present.Deliver(c.Context(), platform.DirectTo(user.ID), content); err != nil {
		log.Info().Err(err).Str("user", user.ID).Msgf("Could not send DM to %s", user.Tag())
		return false
	}
	return true
}
