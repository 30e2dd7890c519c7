package moderation

import (
	"errors"
	"fmt"

	"ippo/internal/command"
	"ippo/internal/platform"
)

type UnbanCommand struct{ base }

func (c *UnbanCommand) Name() string        { return "unban" }
func (c *UnbanCommand) Description() string { return "Unban a user from the server" }
func (c *UnbanCommand) Usage() string       { return "<userId> [reason]" }
func (c *UnbanCommand) Permissions() []platform.Permission {
	return []platform.Permission{platform.PermissionBanMembers}
}

func (c *UnbanCommand) Run(ctx *command.Context) error {
	args := ctx.Args()
	userID := args[0]
	if !isSnowflake(userID) {
		return ctx.Replyf("Please provide a valid user ID to unban.")
	}
	reason := reasonFrom(args, 1)

	user, err := ctx.Guild.Unban(ctx.Context(), ctx.GuildID(), userID, reason)
	if errors.Is(err, platform.ErrNotBanned) {
		return ctx.Replyf("This user is not banned.")
	}
	if err != nil {
		return ctx.Replyf("Failed to unban user with ID %s: %v", userID, err)
	}

	author := ctx.Author()
	_, err = ctx.Send(platform.Content{
		Title:       "User Unbanned",
		Description: fmt.Sprintf("%s has been unbanned from the server.", user.Tag()),
		Color:       platform.ColorUnban,
		Fields: []platform.Field{
			{Name: "User ID", Value: userID, Inline: true},
			{Name: "Moderator", Value: author.Mention(), Inline: true},
			{Name: "Reason", Value: reason},
		},
		Image:     unbanImage,
		Timestamp: true,
	})
	return err
}

// isSnowflake reports whether s is a plain decimal id.
func isSnowflake(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func init() {
	register(&UnbanCommand{})
}
