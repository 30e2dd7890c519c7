package discord

import (
	"context"
	"errors"
	"fmt"

	"ippo/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// Guild implements platform.GuildActions over the REST API.
type Guild struct {
	s    *discordgo.Session
	rest *caller
}

func (g *Guild) Ban(ctx context.Context, guildID, userID, reason string) error {
	return g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		return g.s.GuildBanCreateWithReason(guildID, userID, reason, 0, opts...)
	})
}

func (g *Guild) Unban(ctx context.Context, guildID, userID, reason string) (platform.User, error) {
	var ban *discordgo.GuildBan
	err := g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		var err error
		ban, err = g.s.GuildBan(guildID, userID, opts...)
		return err
	})
	if errors.Is(err, platform.ErrTargetNotFound) {
		return platform.User{}, platform.ErrNotBanned
	}
	if err != nil {
		return platform.User{}, fmt.Errorf("failed to fetch ban: %w", err)
	}

	err = g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		return g.s.GuildBanDelete(guildID, userID, append(opts, discordgo.WithAuditLogReason(reason))...)
	})
	if err != nil {
		return platform.User{}, err
	}
	if ban == nil || ban.User == nil {
		return platform.User{ID: userID}, nil
	}
	return toUser(ban.User), nil
}

func (g *Guild) Kick(ctx context.Context, guildID, userID, reason string) error {
	return g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		return g.s.GuildMemberDeleteWithReason(guildID, userID, reason, opts...)
	})
}

func (g *Guild) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		return g.s.GuildMemberRoleAdd(guildID, userID, roleID, append(opts, discordgo.WithAuditLogReason(reason))...)
	})
}

func (g *Guild) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		return g.s.GuildMemberRoleRemove(guildID, userID, roleID, append(opts, discordgo.WithAuditLogReason(reason))...)
	})
}

// CheckManageable compares the bot's highest role with the target's. The
// guild owner can never be acted on.
func (g *Guild) CheckManageable(ctx context.Context, guildID, userID string) error {
	guild, err := g.guild(ctx, guildID)
	if err != nil {
		return err
	}
	if userID == guild.OwnerID || userID == g.s.State.User.ID {
		return platform.ErrTargetNotManageable
	}
	self := g.s.State.User.ID
	if self == guild.OwnerID {
		return nil
	}

	target, err := g.member(ctx, guildID, userID)
	if err != nil {
		return err
	}
	bot, err := g.member(ctx, guildID, self)
	if err != nil {
		return err
	}
	if highestPosition(guild.Roles, bot.Roles) <= highestPosition(guild.Roles, target.Roles) {
		return platform.ErrTargetNotManageable
	}
	return nil
}

func (g *Guild) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if guild, err := g.s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild, nil
	}
	var guild *discordgo.Guild
	err := g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		var err error
		guild, err = g.s.Guild(guildID, opts...)
		return err
	})
	return guild, err
}

func (g *Guild) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := g.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	var m *discordgo.Member
	err := g.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		var err error
		m, err = g.s.GuildMember(guildID, userID, opts...)
		return err
	})
	return m, err
}

// highestPosition returns the top position among roleIDs, 0 for @everyone only.
func highestPosition(roles []*discordgo.Role, roleIDs []string) int {
	top := 0
	for _, id := range roleIDs {
		for _, r := range roles {
			if r.ID == id && r.Position > top {
				top = r.Position
			}
		}
	}
	return top
}
