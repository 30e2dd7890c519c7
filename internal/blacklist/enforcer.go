package blacklist

import (
	"context"
	"fmt"

	"ippo/internal/platform"

	"github.com/rs/zerolog/log"
)

const kickReason = "User is blacklisted"

// Policy answers whether a user may stay in a guild.
type Policy interface {
	Contains(userID string) bool
}

// Enforcer removes blacklisted users as they join.
type Enforcer struct {
	Policy  Policy
	Present platform.Presentation
	Guild   platform.GuildActions
}

// HandleMemberJoin kicks ev.User if blacklisted. It reports whether a kick
// happened.
func (e *Enforcer) HandleMemberJoin(ctx context.Context, ev platform.MemberJoinEvent) (bool, error) {
	logger := log.With().Str("guild", ev.GuildID).Str("user", ev.User.ID).Logger()
	logger.Debug().Msgf("Member joined: %s", ev.User.Tag())

	if !e.Policy.Contains(ev.User.ID) {
		return false, nil
	}
	logger.Info().Msgf("Blacklisted user %s tried to join", ev.User.Tag())

	notice := platform.Content{
		Title:       "Access Denied",
		Description: fmt.Sprintf("You are blacklisted and have been removed from **%s**.", ev.GuildName),
		Color:       platform.ColorDenied,
		Footer:      "Blacklist Enforcement",
		Timestamp:   true,
	}
	if _, err := e.Present.Deliver(ctx, platform.DirectTo(ev.User.ID), notice); err != nil {
		logger.Info().Err(err).Msgf("Couldn't DM %s", ev.User.Tag())
	}

	if err := e.Guild.Kick(ctx, ev.GuildID, ev.User.ID, kickReason); err != nil {
		return false, fmt.Errorf("failed to kick blacklisted user %s: %w", ev.User.ID, err)
	}
	logger.Info().Msgf("Kicked blacklisted user %s", ev.User.Tag())
	return true, nil
}
