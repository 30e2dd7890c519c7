package moderation

import (
	"fmt"

	"ippo/internal/command"
	"ippo/internal/platform"
)

// WarnCommand notifies a member of a rule violation. Warnings are not stored.
type WarnCommand struct{ base }

func (c *WarnCommand) Name() string        { return "warn" }
func (c *WarnCommand) Description() string { return "Warn a user for rule violation" }
func (c *WarnCommand) Usage() string       { return "<user> [reason]" }
func (c *WarnCommand) Permissions() []platform.Permission {
	return []platform.Permission{platform.PermissionModerateMembers}
}

func (c *WarnCommand) Run(ctx *command.Context) error {
	target, found, err := resolveTarget(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Please mention a valid user to warn.")
	}

	reason := reasonFrom(ctx.Args(), 1)
	ctx.DirectMessage(target.User, noticeEmbed(ctx, "You have been warned in %s", "warned", reason, platform.ColorWarn))

	_, err = ctx.Send(resultEmbed(ctx, "User Warned",
		fmt.Sprintf("%s has been warned.", target.User.Tag()),
		platform.ColorWarn, target.User, reason, "Warned"))
	return err
}

func init() {
	register(&WarnCommand{})
}
