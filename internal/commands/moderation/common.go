// Package moderation holds the prefix commands that act on guild members.
package moderation

import (
	"errors"
	"fmt"
	"strings"

	"ippo/internal/command"
	"ippo/internal/middleware"
	"ippo/internal/platform"
)

const (
	category      = "Moderation"
	defaultReason = "No reason provided"
	teamFooter    = "This action was taken by the moderation team."

	banImage   = "https://pa1.aminoapps.com/7430/e356c121c37afa741180a805ee9903e70b7fc86er1-540-406_hq.gif"
	unbanImage = "https://i.redd.it/ixrakxfxc39e1.gif"
)

// reasonFrom joins the arguments after the target.
func reasonFrom(args []string, skip int) string {
	if len(args) <= skip {
		return defaultReason
	}
	if r := strings.Join(args[skip:], " "); r != "" {
		return r
	}
	return defaultReason
}

// resolveTarget looks up the first argument as a member. found is false when
// the member does not exist; other errors are faults.
func resolveTarget(ctx *command.Context) (platform.Member, bool, error) {
	args := ctx.Args()
	if len(args) == 0 {
		return platform.Member{}, false, nil
	}
	m, err := ctx.Members.ResolveMember(ctx.Context(), ctx.GuildID(), args[0])
	if errors.Is(err, platform.ErrTargetNotFound) {
		return platform.Member{}, false, nil
	}
	if err != nil {
		return platform.Member{}, false, fmt.Errorf("failed to resolve member %q: %w", args[0], err)
	}
	return m, true, nil
}

// noticeEmbed is the DM sent to the target of an action.
func noticeEmbed(ctx *command.Context, title, verb, reason string, color int) platform.Content {
	guild := ctx.Message.GuildName
	return platform.Content{
		Title:       fmt.Sprintf(title, guild),
		Description: fmt.Sprintf("You have been **%s** %s **%s**.", verb, preposition(verb), guild),
		Color:       color,
		Fields: []platform.Field{
			{Name: "Reason", Value: reason},
			{Name: "Moderator", Value: ctx.Author().Tag()},
		},
		Footer:     teamFooter,
		FooterIcon: ctx.Message.GuildIcon,
		Timestamp:  true,
	}
}

func preposition(verb string) string {
	if verb == "warned" {
		return "in"
	}
	return "from"
}

// resultEmbed is the public confirmation posted in the channel.
func resultEmbed(ctx *command.Context, title, description string, color int, target platform.User, reason, footer string) platform.Content {
	author := ctx.Author()
	return platform.Content{
		Title:       title,
		Description: description,
		Color:       color,
		Fields: []platform.Field{
			{Name: "User", Value: target.Mention(), Inline: true},
			{Name: "Moderator", Value: author.Mention(), Inline: true},
			{Name: "Reason", Value: reason},
		},
		Footer:     fmt.Sprintf("%s by %s", footer, author.Tag()),
		FooterIcon: author.AvatarURL,
		Timestamp:  true,
	}
}

// base carries the metadata every moderation command shares.
type base struct{}

func (base) Category() string   { return category }
func (base) RequiresArgs() bool { return true }
func (base) GuildOnly() bool    { return true }

func register(c command.Command) {
	command.RegisterCommand(c,
		middleware.WithUserPermissionCheck(),
		middleware.WithCommandLogger(),
	)
}
