package moderation

import (
	"errors"
	"fmt"
	"strings"

	"ippo/internal/command"
	"ippo/internal/platform"
)

type AddRoleCommand struct{ base }

func (c *AddRoleCommand) Name() string        { return "addrole" }
func (c *AddRoleCommand) Description() string { return "Add a role to a user" }
func (c *AddRoleCommand) Usage() string       { return "<user> <role>" }
func (c *AddRoleCommand) Permissions() []platform.Permission {
	return []platform.Permission{platform.PermissionManageRoles}
}

func (c *AddRoleCommand) Run(ctx *command.Context) error {
	target, found, err := resolveTarget(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Please mention a valid user.")
	}

	args := ctx.Args()
	if len(args) < 2 {
		return ctx.Replyf("Please specify a role to add.\nProper usage: `%s%s %s`", ctx.Prefix, c.Name(), c.Usage())
	}
	role, found, err := resolveRole(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if !found {
		return ctx.Replyf("Could not find that role.")
	}

	reason := fmt.Sprintf("Role added by %s", ctx.Author().Tag())
	err = ctx.Guild.AddRole(ctx.Context(), ctx.GuildID(), target.User.ID, role.ID, reason)
	switch {
	case errors.Is(err, platform.ErrTargetNotManageable):
		return ctx.Replyf("❌ I cannot manage **%s**. It may be higher than my highest role.", role.Name)
	case err != nil:
		return ctx.Replyf("❌ Failed to add role: %v", err)
	}
	return ctx.Replyf("✅ Added **%s** to **%s**.", role.Name, target.User.Tag())
}

// resolveRole looks up a role by mention, id or name.
func resolveRole(ctx *command.Context, arg string) (platform.Role, bool, error) {
	role, err := ctx.Members.ResolveRole(ctx.Context(), ctx.GuildID(), arg)
	if errors.Is(err, platform.ErrTargetNotFound) {
		return platform.Role{}, false, nil
	}
	if err != nil {
		return platform.Role{}, false, fmt.Errorf("failed to resolve role %q: %w", arg, err)
	}
	return role, true, nil
}

func init() {
	register(&AddRoleCommand{})
}
