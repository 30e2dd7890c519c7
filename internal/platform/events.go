// Package platform holds the collaborator contracts the bot core depends on:
// inbound events, outbound content and the moderation primitives. The Discord
// adapter implements them; tests use fakes from platformtest.
package platform

import "fmt"

// User is the identity of a message author, interaction actor or moderation target.
type User struct {
	ID        string
	Username  string
	AvatarURL string
	Bot       bool
}

// Tag returns the display handle used in embeds and logs.
func (u User) Tag() string {
	if u.Username == "" {
		return u.ID
	}
	return u.Username
}

// Mention returns the platform mention markup for the user.
func (u User) Mention() string {
	return fmt.Sprintf("<@%s>", u.ID)
}

// MessageEvent is an inbound text message.
type MessageEvent struct {
	ID        string
	ChannelID string
	GuildID   string
	GuildName string
	GuildIcon string
	Content   string
	Author    User
}

// InServer reports whether the message was sent inside a guild.
func (m MessageEvent) InServer() bool {
	return m.GuildID != ""
}

// InteractionKind distinguishes button presses from list selections.
type InteractionKind int

const (
	InteractionUnknown InteractionKind = iota
	InteractionButton
	InteractionSelect
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionButton:
		return "button"
	case InteractionSelect:
		return "select"
	default:
		return "unknown"
	}
}

// InteractionEvent is an inbound UI interaction on a message component.
type InteractionEvent struct {
	ID        string
	Token     string
	Kind      InteractionKind
	CustomID  string
	Values    []string
	MessageID string
	ChannelID string
	GuildID   string
	Actor     User
}

// Value returns the first selected value, or "".
func (e InteractionEvent) Value() string {
	if len(e.Values) == 0 {
		return ""
	}
	return e.Values[0]
}

// MemberJoinEvent is emitted when a user joins a guild.
type MemberJoinEvent struct {
	GuildID   string
	GuildName string
	User      User
}
