package middleware

import (
	"context"
	"fmt"

	"ippo/internal/command"
	"ippo/internal/platform"
	"ippo/pkg/cmd"

	"github.com/rs/zerolog/log"
)

// PermissionDeniedMessage is sent when the invoker lacks every required permission.
const PermissionDeniedMessage = "❌ You don't have permission to use this command."

// WithUserPermissionCheck requires the invoker to hold at least one of the
// command's permissions. Outside a guild the check is skipped; scope is the
// dispatcher's concern.
func WithUserPermissionCheck() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			bc, ok := inv.Data.(*command.Context)
			if !ok || bc.Members == nil || !bc.Message.InServer() {
				return c.Run(ctx, inv)
			}
			meta, ok := command.MetaOf(c)
			if !ok || len(meta.Permissions()) == 0 {
				return c.Run(ctx, inv)
			}

			msg := bc.Message
			for _, p := range meta.Permissions() {
				has, err := bc.Members.HasPermission(ctx, msg.GuildID, msg.ChannelID, msg.Author.ID, p)
				if err != nil {
					return fmt.Errorf("failed to get user permissions: %w", err)
				}
				if has {
					return c.Run(ctx, inv)
				}
			}

			log.Info().
				Str("command", c.Name()).
				Str("user", msg.Author.ID).
				Str("guild", msg.GuildID).
				Msg("Permission denied")
			if _, err := bc.Present.Deliver(ctx, platform.ReplyTo(msg), platform.Text(PermissionDeniedMessage)); err != nil {
				log.Warn().Err(err).Msg("Failed to send permission notice")
			}
			return nil
		})
	}
}
