package moderation

import (
	"errors"
	"fmt"

	"ippo/internal/command"
	"ippo/internal/platform"
)

type KickCommand struct{ base }

func (c *KickCommand) Name() string        { return "kick" }
func (c *KickCommand) Description() string { return "Kick a user from the server" }
func (c *KickCommand) Usage() string       { return "<user> [reason]" }
func (c *KickCommand) Permissions() []platform.Permission {
	return []platform.Permission{platform.PermissionKickMembers}
}

func (c *KickCommand) Run(ctx *command.Context) error {
	target, found, err := resolveTarget(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Please mention a valid user to kick.")
	}

	err = ctx.Guild.CheckManageable(ctx.Context(), ctx.GuildID(), target.User.ID)
	if errors.Is(err, platform.ErrTargetNotManageable) {
		return ctx.Replyf("I cannot kick this user. They may have higher permissions than me, or I don't have kick permissions.")
	}
	if err != nil {
		return fmt.Errorf("failed to check manageability: %w", err)
	}

	reason := reasonFrom(ctx.Args(), 1)
	ctx.DirectMessage(target.User, noticeEmbed(ctx, "You have been kicked from %s", "kicked", reason, platform.ColorKick))

	if err := ctx.Guild.Kick(ctx.Context(), ctx.GuildID(), target.User.ID, reason); err != nil {
		return ctx.Replyf("Failed to kick %s: %v", target.User.Tag(), err)
	}

	_, err = ctx.Send(resultEmbed(ctx, "User Kicked",
		fmt.Sprintf("%s has been kicked from the server.", target.User.Tag()),
		platform.ColorKick, target.User, reason, "Kicked"))
	return err
}

func init() {
	register(&KickCommand{})
}
