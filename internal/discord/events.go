package discord

import (
	"ippo/internal/platform"

	"github.com/bwmarrin/discordgo"
)

func toUser(u *discordgo.User) platform.User {
	if u == nil {
		return platform.User{}
	}
	name := u.Username
	if u.Discriminator != "" && u.Discriminator != "0" {
		name += "#" + u.Discriminator
	}
	return platform.User{ID: u.ID, Username: name, AvatarURL: u.AvatarURL(""), Bot: u.Bot}
}

// guildInfo returns the cached name and icon of a guild, empty when unknown.
func guildInfo(state *discordgo.State, guildID string) (name, icon string) {
	if state == nil || guildID == "" {
		return "", ""
	}
	g, err := state.Guild(guildID)
	if err != nil || g == nil {
		return "", ""
	}
	return g.Name, g.IconURL("")
}

func toMessageEvent(state *discordgo.State, m *discordgo.Message) platform.MessageEvent {
	name, icon := guildInfo(state, m.GuildID)
	return platform.MessageEvent{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		GuildName: name,
		GuildIcon: icon,
		Content:   m.Content,
		Author:    toUser(m.Author),
	}
}

// toInteractionEvent converts a component interaction. ok is false for any
// other interaction type.
func toInteractionEvent(i *discordgo.Interaction) (platform.InteractionEvent, bool) {
	if i.Type != discordgo.InteractionMessageComponent {
		return platform.InteractionEvent{}, false
	}
	data := i.MessageComponentData()

	ev := platform.InteractionEvent{
		ID:        i.ID,
		Token:     i.Token,
		CustomID:  data.CustomID,
		Values:    data.Values,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
	}
	switch data.ComponentType {
	case discordgo.ButtonComponent:
		ev.Kind = platform.InteractionButton
	case discordgo.SelectMenuComponent:
		ev.Kind = platform.InteractionSelect
	}
	if i.Message != nil {
		ev.MessageID = i.Message.ID
	}
	// Member is set inside guilds, User in DMs.
	if i.Member != nil && i.Member.User != nil {
		ev.Actor = toUser(i.Member.User)
	} else {
		ev.Actor = toUser(i.User)
	}
	return ev, true
}

func toMemberJoinEvent(state *discordgo.State, m *discordgo.Member) platform.MemberJoinEvent {
	name, _ := guildInfo(state, m.GuildID)
	return platform.MemberJoinEvent{GuildID: m.GuildID, GuildName: name, User: toUser(m.User)}
}
