package moderation

import (
	"errors"
	"fmt"

	"ippo/internal/command"
	"ippo/internal/platform"
)

type BanCommand struct{ base }

func (c *BanCommand) Name() string        { return "ban" }
func (c *BanCommand) Description() string { return "Ban a user from the server" }
func (c *BanCommand) Usage() string       { return "<user> [reason]" }
func (c *BanCommand) Permissions() []platform.Permission {
	return []platform.Permission{platform.PermissionBanMembers}
}

func (c *BanCommand) Run(ctx *command.Context) error {
	target, found, err := resolveTarget(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Please mention a valid user to ban.")
	}

	err = ctx.Guild.CheckManageable(ctx.Context(), ctx.GuildID(), target.User.ID)
	if errors.Is(err, platform.ErrTargetNotManageable) {
		return ctx.Replyf("I cannot ban this user. They may have higher permissions than me, or I don't have ban permissions.")
	}
	if err != nil {
		return fmt.Errorf("failed to check manageability: %w", err)
	}

	reason := reasonFrom(ctx.Args(), 1)
	ctx.DirectMessage(target.User, noticeEmbed(ctx, "You have been banned from %s", "banned", reason, platform.ColorBan))

	if err := ctx.Guild.Ban(ctx.Context(), ctx.GuildID(), target.User.ID, reason); err != nil {
		return ctx.Replyf("Failed to ban %s: %v", target.User.Tag(), err)
	}

	embed := resultEmbed(ctx, "User Banned",
		fmt.Sprintf("%s has been banned from the server.", target.User.Tag()),
		platform.ColorBan, target.User, reason, "Banned")
	embed.Image = banImage
	_, err = ctx.Send(embed)
	return err
}

func init() {
	register(&BanCommand{})
}
