package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"ippo/internal/platform"
	"ippo/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restErr(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code}}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(restErr(http.StatusForbidden)), platform.ErrTargetNotManageable)
	assert.ErrorIs(t, mapError(restErr(http.StatusNotFound)), platform.ErrTargetNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))

	var rest *discordgo.RESTError
	assert.ErrorAs(t, mapError(restErr(http.StatusNotFound)), &rest, "original error kept in chain")
}

func TestStatusErrorExposesCode(t *testing.T) {
	err := &statusError{err: restErr(http.StatusTooManyRequests), code: http.StatusTooManyRequests}
	assert.Equal(t, http.StatusTooManyRequests, retrylimit.StatusOf(err))
	assert.True(t, retrylimit.IsRateLimited(err))
}

func TestParseUserArg(t *testing.T) {
	tests := []struct {
		arg string
		id  string
		ok  bool
	}{
		{"<@123456789012345678>", "123456789012345678", true},
		{"<@!123456789012345678>", "123456789012345678", true},
		{"123456789012345678", "123456789012345678", true},
		{"1234", "", false},
		{"someone", "", false},
		{"<@&123456789012345678>", "", false},
	}
	for _, tt := range tests {
		id, ok := parseUserArg(tt.arg)
		assert.Equal(t, tt.ok, ok, tt.arg)
		assert.Equal(t, tt.id, id, tt.arg)
	}
}

func TestHighestPosition(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "everyone", Position: 0},
		{ID: "mod", Position: 5},
		{ID: "member", Position: 2},
	}
	assert.Equal(t, 5, highestPosition(roles, []string{"member", "mod"}))
	assert.Equal(t, 2, highestPosition(roles, []string{"member"}))
	assert.Equal(t, 0, highestPosition(roles, nil))
	assert.Equal(t, 0, highestPosition(roles, []string{"gone"}))
}

func TestToUser(t *testing.T) {
	assert.Equal(t, platform.User{}, toUser(nil))

	u := toUser(&discordgo.User{ID: "1", Username: "alice", Discriminator: "0"})
	assert.Equal(t, "alice", u.Username)

	u = toUser(&discordgo.User{ID: "2", Username: "bob", Discriminator: "1234", Bot: true})
	assert.Equal(t, "bob#1234", u.Username)
	assert.True(t, u.Bot)
}

func TestToInteractionEvent(t *testing.T) {
	i := &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionMessageComponent,
		Token:     "tok",
		ChannelID: "c1",
		GuildID:   "g1",
		Message:   &discordgo.Message{ID: "m1"},
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "alice"}},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      "nav:category",
			ComponentType: discordgo.SelectMenuComponent,
			Values:        []string{"moderation"},
		},
	}
	ev, ok := toInteractionEvent(i)
	require.True(t, ok)
	assert.Equal(t, platform.InteractionSelect, ev.Kind)
	assert.Equal(t, "m1", ev.MessageID)
	assert.Equal(t, "u1", ev.Actor.ID)
	assert.Equal(t, "moderation", ev.Value())

	_, ok = toInteractionEvent(&discordgo.Interaction{Type: discordgo.InteractionApplicationCommand})
	assert.False(t, ok)
}

func TestToComponents(t *testing.T) {
	assert.Nil(t, toComponents(nil))

	rows := toComponents([]platform.ControlRow{
		{
			{Kind: platform.ControlButton, ID: "nav:open", Label: "Commands", Style: platform.StylePrimary},
			{Kind: platform.ControlLink, Label: "Support", URL: "https://example.com"},
			{Kind: platform.ControlButton, ID: "nav:close", Label: "Close", Style: platform.StyleDanger},
		},
		{
			{Kind: platform.ControlSelect, ID: "nav:command", Placeholder: "Pick", Options: []platform.Option{
				{Label: "ban", Value: "ban", Description: "Ban a user", Default: true},
			}},
		},
	})
	require.Len(t, rows, 2)

	first := rows[0].(discordgo.ActionsRow)
	require.Len(t, first.Components, 3)
	assert.Equal(t, discordgo.PrimaryButton, first.Components[0].(discordgo.Button).Style)
	link := first.Components[1].(discordgo.Button)
	assert.Equal(t, discordgo.LinkButton, link.Style)
	assert.Empty(t, link.CustomID)
	assert.Equal(t, discordgo.DangerButton, first.Components[2].(discordgo.Button).Style)

	menu := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, discordgo.StringSelectMenu, menu.MenuType)
	assert.Equal(t, "nav:command", menu.CustomID)
	require.Len(t, menu.Options, 1)
	assert.True(t, menu.Options[0].Default)
}

func TestToEmbed(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Presenter{now: func() time.Time { return at }}

	e := p.toEmbed(platform.Content{
		Title:       "Banned",
		Description: "done",
		Fields:      []platform.Field{{Name: "User", Value: "x", Inline: true}},
		Footer:      "Banned by mod",
		FooterIcon:  "https://example.com/a.png",
		Image:       "https://example.com/b.png",
		Timestamp:   true,
	})
	assert.Equal(t, "Banned", e.Title)
	assert.Equal(t, platform.ColorDefault, e.Color)
	require.Len(t, e.Fields, 1)
	assert.True(t, e.Fields[0].Inline)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Banned by mod", e.Footer.Text)
	require.NotNil(t, e.Image)
	assert.Equal(t, "https://example.com/b.png", e.Image.URL)
	assert.Equal(t, "2024-05-01T12:00:00Z", e.Timestamp)
}

func TestMessageSendReply(t *testing.T) {
	p := &Presenter{}
	ev := platform.MessageEvent{ID: "m1", ChannelID: "c1", GuildID: "g1"}

	msg := p.messageSend(platform.ReplyTo(ev), platform.Text("hi"))
	assert.Equal(t, "hi", msg.Content)
	assert.Empty(t, msg.Embeds)
	require.NotNil(t, msg.Reference)
	assert.Equal(t, "m1", msg.Reference.MessageID)

	msg = p.messageSend(platform.ChannelOf("c1"), platform.Content{Title: "x"})
	assert.Nil(t, msg.Reference)
	assert.Len(t, msg.Embeds, 1)
}

func TestResponseDataClearsEmbeds(t *testing.T) {
	p := &Presenter{}
	data := p.responseData(platform.Text("closed"))
	assert.NotNil(t, data.Embeds)
	assert.Empty(t, data.Embeds)
}
