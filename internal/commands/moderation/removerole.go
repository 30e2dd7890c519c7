package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ippo/internal/command"
	"ippo/internal/platform"
	"ippo/internal/router"
)

// RemoveRoleActionName is the one-shot action behind the role picker.
const RemoveRoleActionName = "removerole"

// maxSelectOptions is the platform limit for options in one select.
const maxSelectOptions = 25

type RemoveRoleCommand struct{ base }

func (c *RemoveRoleCommand) Name() string        { return "removerole" }
func (c *RemoveRoleCommand) Description() string { return "Remove a role from a user" }
func (c *RemoveRoleCommand) Usage() string       { return "<user> [role]" }
func (c *RemoveRoleCommand) Permissions() []platform.Permission {
	return []platform.Permission{platform.PermissionManageRoles}
}

// Run removes the named role, or offers a picker of the member's roles when
// no role is given.
func (c *RemoveRoleCommand) Run(ctx *command.Context) error {
	target, found, err := resolveTarget(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Please mention a valid user.")
	}

	args := ctx.Args()
	if len(args) < 2 {
		return c.offerPicker(ctx, target)
	}

	role, found, err := resolveRole(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Could not find that role.")
	}
	return ctx.Replyf("%s", removeRole(ctx.Context(), ctx.Guild, ctx.GuildID(), target.User, role, ctx.Author()))
}

func (c *RemoveRoleCommand) offerPicker(ctx *command.Context, target platform.Member) error {
	var options []platform.Option
	for _, r := range target.Roles {
		if r.Managed || r.ID == ctx.GuildID() {
			continue
		}
		options = append(options, platform.Option{Label: r.Name, Value: r.ID})
		if len(options) == maxSelectOptions {
			break
		}
	}
	if len(options) == 0 {
		return ctx.Replyf("**%s** has no roles that can be removed.", target.User.Tag())
	}

	id, err := router.ActionID{Name: RemoveRoleActionName, User: target.User.ID, By: ctx.Author().ID}.Encode()
	if err != nil {
		return err
	}
	return ctx.Reply(platform.Content{
		Text: fmt.Sprintf("Select a role to remove from **%s**:", target.User.Tag()),
		Controls: []platform.ControlRow{{{
			Kind:        platform.ControlSelect,
			ID:          id,
			Placeholder: "Choose a role to remove",
			Options:     options,
		}}},
	})
}

// RemoveRoleAction applies a pick from the role picker.
type RemoveRoleAction struct{}

func (RemoveRoleAction) Name() string { return RemoveRoleActionName }

func (RemoveRoleAction) Handle(ctx context.Context, actx *router.ActionContext) (string, error) {
	ev := actx.Event
	member, err := actx.Members.ResolveMember(ctx, ev.GuildID, actx.ID.User)
	if err != nil && !errors.Is(err, platform.ErrTargetNotFound) {
		return "", fmt.Errorf("failed to resolve member %s: %w", actx.ID.User, err)
	}
	if err != nil || ev.Value() == "" {
		return "❌ Member or role not found.", nil
	}

	role, err := actx.Members.ResolveRole(ctx, ev.GuildID, ev.Value())
	if errors.Is(err, platform.ErrTargetNotFound) {
		return "❌ Member or role not found.", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve role %s: %w", ev.Value(), err)
	}
	return removeRole(ctx, actx.Guild, ev.GuildID, member.User, role, ev.Actor), nil
}

func removeRole(ctx context.Context, guild platform.GuildActions, guildID string, target platform.User, role platform.Role, by platform.User) string {
	reason := fmt.Sprintf("Role removed by %s", by.Tag())
	if err := guild.RemoveRole(ctx, guildID, target.ID, role.ID, reason); err != nil {
		return fmt.Sprintf("❌ Failed to remove role: %v", err)
	}
	return fmt.Sprintf("✅ Removed **%s** from **%s**.", role.Name, target.Tag())
}

func init() {
	register(&RemoveRoleCommand{})
}
