package platform

import (
	"context"
	"errors"
)

var (
	// ErrTargetNotFound means a member, role or user could not be resolved.
	ErrTargetNotFound = errors.New("target not found")
	// ErrTargetNotManageable means the bot outranks nobody it was asked to act on.
	ErrTargetNotManageable = errors.New("target not manageable")
	// ErrNotBanned means an unban was requested for a user who is not banned.
	ErrNotBanned = errors.New("user is not banned")
	// ErrDeliveryFailed means content could not be delivered, e.g. closed DMs.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// DestinationKind selects where content goes.
type DestinationKind int

const (
	// DestChannel posts a new message in ChannelID.
	DestChannel DestinationKind = iota
	// DestReply replies to MessageID in ChannelID.
	DestReply
	// DestDirect sends a direct message to UserID.
	DestDirect
	// DestInteraction answers an interaction with a new message.
	DestInteraction
	// DestInteractionUpdate replaces the message carrying the interaction's controls.
	DestInteractionUpdate
	// DestInteractionAck acknowledges an interaction without visible change.
	DestInteractionAck
)

// Destination addresses outbound content.
type Destination struct {
	Kind             DestinationKind
	ChannelID        string
	GuildID          string
	MessageID        string
	UserID           string
	InteractionID    string
	InteractionToken string
	Ephemeral        bool
}

// ChannelOf posts into a channel.
func ChannelOf(channelID string) Destination {
	return Destination{Kind: DestChannel, ChannelID: channelID}
}

// ReplyTo replies to an inbound message.
func ReplyTo(m MessageEvent) Destination {
	return Destination{Kind: DestReply, ChannelID: m.ChannelID, GuildID: m.GuildID, MessageID: m.ID}
}

// DirectTo sends a direct message.
func DirectTo(userID string) Destination {
	return Destination{Kind: DestDirect, UserID: userID}
}

// EphemeralTo answers an interaction visibly to the actor only.
func EphemeralTo(e InteractionEvent) Destination {
	return Destination{Kind: DestInteraction, InteractionID: e.ID, InteractionToken: e.Token, Ephemeral: true}
}

// UpdateOf replaces the message the interaction came from.
func UpdateOf(e InteractionEvent) Destination {
	return Destination{Kind: DestInteractionUpdate, InteractionID: e.ID, InteractionToken: e.Token}
}

// AckOf acknowledges an interaction silently.
func AckOf(e InteractionEvent) Destination {
	return Destination{Kind: DestInteractionAck, InteractionID: e.ID, InteractionToken: e.Token}
}

// Presentation renders content and delivers it. It returns the id of a newly
// created message when the destination creates one.
type Presentation interface {
	Deliver(ctx context.Context, dest Destination, content Content) (string, error)
}

// Role is a guild role.
type Role struct {
	ID       string
	Name     string
	Position int
	Managed  bool
}

// Member is a user inside a guild.
type Member struct {
	User    User
	GuildID string
	Roles   []Role
}

// Permission is a moderation capability checked before running a command.
type Permission int

const (
	PermissionBanMembers Permission = iota + 1
	PermissionKickMembers
	PermissionManageRoles
	PermissionModerateMembers
)

func (p Permission) String() string {
	switch p {
	case PermissionBanMembers:
		return "Ban Members"
	case PermissionKickMembers:
		return "Kick Members"
	case PermissionManageRoles:
		return "Manage Roles"
	case PermissionModerateMembers:
		return "Moderate Members"
	default:
		return "Unknown"
	}
}

// GuildActions exposes the moderation primitives.
type GuildActions interface {
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID, reason string) (User, error)
	Kick(ctx context.Context, guildID, userID, reason string) error
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
	// CheckManageable returns ErrTargetNotManageable when the bot cannot act on the member.
	CheckManageable(ctx context.Context, guildID, userID string) error
}

// MembershipLookup resolves textual arguments to guild entities.
type MembershipLookup interface {
	// ResolveMember accepts a mention or a raw id and returns ErrTargetNotFound when absent.
	ResolveMember(ctx context.Context, guildID, arg string) (Member, error)
	// ResolveRole accepts a role mention, id or case-insensitive name.
	ResolveRole(ctx context.Context, guildID, arg string) (Role, error)
	HasPermission(ctx context.Context, guildID, channelID, userID string, perm Permission) (bool, error)
}
