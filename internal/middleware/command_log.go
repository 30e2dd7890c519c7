package middleware

import (
	"context"
	"time"

	"ippo/pkg/cmd"

	"github.com/rs/zerolog/log"
)

// WithCommandLogger logs every execution with its duration and outcome.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			started := time.Now()
			err := c.Run(ctx, inv)

			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("invocation", inv.ID).
				Str("command", c.Name()).
				Str("guild", inv.GuildID).
				Str("channel", inv.Surface).
				Str("user", inv.Invoker).
				Int("args", len(inv.Args)).
				Dur("took", time.Since(started)).
				Msg("Command executed")
			return err
		})
	}
}
