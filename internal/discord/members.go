package discord

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"ippo/internal/platform"

	"github.com/bwmarrin/discordgo"
)

var (
	userMention = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMention = regexp.MustCompile(`^<@&(\d+)>$`)
	snowflake   = regexp.MustCompile(`^\d{15,21}$`)
)

var permissionBits = map[platform.Permission]int64{
	platform.PermissionBanMembers:      discordgo.PermissionBanMembers,
	platform.PermissionKickMembers:     discordgo.PermissionKickMembers,
	platform.PermissionManageRoles:     discordgo.PermissionManageRoles,
	platform.PermissionModerateMembers: discordgo.PermissionModerateMembers,
}

// Members implements platform.MembershipLookup from state with REST fallback.
type Members struct {
	guild *Guild
}

// parseUserArg extracts a user id from a mention or a bare id.
func parseUserArg(arg string) (string, bool) {
	if m := userMention.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if snowflake.MatchString(arg) {
		return arg, true
	}
	return "", false
}

func (m *Members) ResolveMember(ctx context.Context, guildID, arg string) (platform.Member, error) {
	id, ok := parseUserArg(arg)
	if !ok {
		return platform.Member{}, platform.ErrTargetNotFound
	}
	member, err := m.guild.member(ctx, guildID, id)
	if err != nil {
		return platform.Member{}, err
	}
	guild, err := m.guild.guild(ctx, guildID)
	if err != nil {
		return platform.Member{}, err
	}
	return toMember(guildID, member, guild.Roles), nil
}

// ResolveRole matches a role mention, an id or a case-insensitive name.
func (m *Members) ResolveRole(ctx context.Context, guildID, arg string) (platform.Role, error) {
	guild, err := m.guild.guild(ctx, guildID)
	if err != nil {
		return platform.Role{}, err
	}
	arg = strings.TrimSpace(arg)
	id := arg
	if mm := roleMention.FindStringSubmatch(arg); mm != nil {
		id = mm[1]
	}
	for _, r := range guild.Roles {
		if r.ID == id {
			return toRole(r), nil
		}
	}
	for _, r := range guild.Roles {
		if strings.EqualFold(r.Name, arg) {
			return toRole(r), nil
		}
	}
	return platform.Role{}, platform.ErrTargetNotFound
}

// HasPermission checks the user's effective permissions in the channel.
// Administrators hold every permission.
func (m *Members) HasPermission(ctx context.Context, guildID, channelID, userID string, perm platform.Permission) (bool, error) {
	bit, ok := permissionBits[perm]
	if !ok {
		return false, fmt.Errorf("unknown permission %v", perm)
	}
	var perms int64
	err := m.guild.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		var err error
		perms, err = m.guild.s.UserChannelPermissions(userID, channelID, opts...)
		return err
	})
	if err != nil {
		return false, err
	}
	return perms&discordgo.PermissionAdministrator != 0 || perms&bit != 0, nil
}

func toMember(guildID string, m *discordgo.Member, roles []*discordgo.Role) platform.Member {
	out := platform.Member{GuildID: guildID}
	if m.User != nil {
		out.User = toUser(m.User)
	}
	for _, id := range m.Roles {
		for _, r := range roles {
			if r.ID == id {
				out.Roles = append(out.Roles, toRole(r))
			}
		}
	}
	return out
}

func toRole(r *discordgo.Role) platform.Role {
	return platform.Role{ID: r.ID, Name: r.Name, Position: r.Position, Managed: r.Managed}
}
