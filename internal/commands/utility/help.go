// Package utility holds general purpose commands.
package utility

import (
	"fmt"

	"ippo/internal/command"
	"ippo/internal/navigation"
	"ippo/internal/platform"
)

// HelpCommand posts the interactive help menu. It needs the live session
// registry, so it is registered at startup rather than from init.
type HelpCommand struct {
	Sessions *navigation.Registry
}

func (c *HelpCommand) Name() string                       { return "help" }
func (c *HelpCommand) Description() string                { return "Displays a list of all available commands." }
func (c *HelpCommand) Usage() string                      { return "" }
func (c *HelpCommand) Category() string                   { return "Utility" }
func (c *HelpCommand) RequiresArgs() bool                 { return false }
func (c *HelpCommand) GuildOnly() bool                    { return false }
func (c *HelpCommand) Permissions() []platform.Permission { return nil }

func (c *HelpCommand) Run(ctx *command.Context) error {
	owner := ctx.Author()
	screen := c.Sessions.Catalog().Render(navigation.Main, owner)

	surface, err := ctx.Send(screen)
	if err != nil {
		return fmt.Errorf("failed to send help menu: %w", err)
	}
	if surface == "" {
		return fmt.Errorf("failed to send help menu: no message id returned")
	}
	c.Sessions.Open(surface, owner)
	return nil
}
