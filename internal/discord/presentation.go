package discord

import (
	"context"
	"fmt"
	"time"

	"ippo/internal/platform"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// Presenter implements platform.Presentation: it renders Content into
// messages, embeds and components and sends them.
type Presenter struct {
	s    *discordgo.Session
	rest *caller
	now  func() time.Time
}

func (p *Presenter) Deliver(ctx context.Context, dest platform.Destination, content platform.Content) (string, error) {
	switch dest.Kind {
	case platform.DestChannel, platform.DestReply:
		return p.send(ctx, dest.ChannelID, p.messageSend(dest, content))
	case platform.DestDirect:
		var ch *discordgo.Channel
		err := p.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
			var err error
			ch, err = p.s.UserChannelCreate(dest.UserID, opts...)
			return err
		})
		if err != nil {
			return "", fmt.Errorf("%w: %w", platform.ErrDeliveryFailed, err)
		}
		id, err := p.send(ctx, ch.ID, p.messageSend(dest, content))
		if err != nil {
			return "", fmt.Errorf("%w: %w", platform.ErrDeliveryFailed, err)
		}
		return id, nil
	case platform.DestInteraction, platform.DestInteractionUpdate, platform.DestInteractionAck:
		return "", p.respond(ctx, dest, content)
	}
	return "", fmt.Errorf("unsupported destination kind %d", dest.Kind)
}

func (p *Presenter) send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (string, error) {
	var sent *discordgo.Message
	err := p.rest.do(ctx, func(opts ...discordgo.RequestOption) error {
		var err error
		sent, err = p.s.ChannelMessageSendComplex(channelID, msg, opts...)
		return err
	})
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

func (p *Presenter) messageSend(dest platform.Destination, content platform.Content) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{
		Content:    content.Text,
		Components: toComponents(content.Controls),
	}
	if content.HasEmbed() {
		msg.Embeds = []*discordgo.MessageEmbed{p.toEmbed(content)}
	}
	if dest.Kind == platform.DestReply && dest.MessageID != "" {
		msg.Reference = &discordgo.MessageReference{
			MessageID: dest.MessageID,
			ChannelID: dest.ChannelID,
			GuildID:   dest.GuildID,
		}
	}
	return msg
}

// respond answers an interaction. Interaction responses are not retried:
// the token is single use.
func (p *Presenter) respond(ctx context.Context, dest platform.Destination, content platform.Content) error {
	resp := &discordgo.InteractionResponse{}
	switch dest.Kind {
	case platform.DestInteractionAck:
		resp.Type = discordgo.InteractionResponseDeferredMessageUpdate
	case platform.DestInteractionUpdate:
		resp.Type = discordgo.InteractionResponseUpdateMessage
		resp.Data = p.responseData(content)
		// An empty list removes the controls of a closed menu.
		if resp.Data.Components == nil {
			resp.Data.Components = []discordgo.MessageComponent{}
		}
	default:
		resp.Type = discordgo.InteractionResponseChannelMessageWithSource
		resp.Data = p.responseData(content)
		if dest.Ephemeral {
			resp.Data.Flags = discordgo.MessageFlagsEphemeral
		}
	}

	interaction := &discordgo.Interaction{ID: dest.InteractionID, Token: dest.InteractionToken}
	return mapError(p.s.InteractionRespond(interaction, resp, discordgo.WithContext(ctx)))
}

func (p *Presenter) responseData(content platform.Content) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    content.Text,
		Components: toComponents(content.Controls),
		Embeds:     []*discordgo.MessageEmbed{},
	}
	if content.HasEmbed() {
		data.Embeds = append(data.Embeds, p.toEmbed(content))
	}
	return data
}

func (p *Presenter) toEmbed(c platform.Content) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetTitle(c.Title).
		SetDescription(c.Description).
		SetColor(colorOr(c.Color))
	for _, f := range c.Fields {
		e = e.AddField(f.Name, f.Value)
		e.Fields[len(e.Fields)-1].Inline = f.Inline
	}
	if c.Image != "" {
		e = e.SetImage(c.Image)
	}
	if c.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: c.Footer, IconURL: c.FooterIcon}
	}
	if c.Timestamp {
		now := time.Now
		if p.now != nil {
			now = p.now
		}
		e.Timestamp = now().UTC().Format(time.RFC3339)
	}
	return e.MessageEmbed
}

func colorOr(c int) int {
	if c == 0 {
		return platform.ColorDefault
	}
	return c
}

func toComponents(rows []platform.ControlRow) []discordgo.MessageComponent {
	if len(rows) == 0 {
		return nil
	}
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		ar := discordgo.ActionsRow{}
		for _, c := range row {
			ar.Components = append(ar.Components, toComponent(c))
		}
		out = append(out, ar)
	}
	return out
}

func toComponent(c platform.Control) discordgo.MessageComponent {
	switch c.Kind {
	case platform.ControlLink:
		return discordgo.Button{Label: c.Label, Style: discordgo.LinkButton, URL: c.URL}
	case platform.ControlSelect:
		menu := discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    c.ID,
			Placeholder: c.Placeholder,
		}
		for _, o := range c.Options {
			menu.Options = append(menu.Options, discordgo.SelectMenuOption{
				Label:       o.Label,
				Value:       o.Value,
				Description: o.Description,
				Default:     o.Default,
			})
		}
		return menu
	default:
		return discordgo.Button{Label: c.Label, Style: buttonStyle(c.Style), CustomID: c.ID}
	}
}

func buttonStyle(s platform.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case platform.StyleSecondary:
		return discordgo.SecondaryButton
	case platform.StyleDanger:
		return discordgo.DangerButton
	case platform.StyleSuccess:
		return discordgo.SuccessButton
	default:
		return discordgo.PrimaryButton
	}
}
