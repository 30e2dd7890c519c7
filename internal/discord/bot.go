// Package discord connects the bot core to Discord through discordgo. It
// translates gateway events into platform events and implements the
// platform collaborators over the REST API.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ippo/internal/platform"
	"ippo/internal/router"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Intents requested on the gateway.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsDirectMessages |
	discordgo.IntentMessageContent

// MessageHandler consumes text messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, ev platform.MessageEvent) router.Outcome
}

// InteractionHandler consumes component interactions.
type InteractionHandler interface {
	HandleInteraction(ctx context.Context, ev platform.InteractionEvent) router.InteractionOutcome
}

// JoinHandler consumes member joins. It reports whether the member was removed.
type JoinHandler interface {
	HandleMemberJoin(ctx context.Context, ev platform.MemberJoinEvent) (bool, error)
}

// Bot owns the gateway session and the collaborators built on it.
type Bot struct {
	dg        *discordgo.Session
	guild     *Guild
	members   *Members
	presenter *Presenter

	mu           sync.RWMutex
	ctx          context.Context
	messages     MessageHandler
	interactions InteractionHandler
	joins        JoinHandler
}

// NewBot creates a session for token. REST calls made by the collaborators
// are retried up to maxAttempts times; zero keeps the default policy.
func NewBot(token string, maxAttempts int) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord token is empty")
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = Intents

	rest := newCaller(maxAttempts)
	guild := &Guild{s: dg, rest: rest}
	return &Bot{
		dg:        dg,
		guild:     guild,
		members:   &Members{guild: guild},
		presenter: &Presenter{s: dg, rest: rest},
		ctx:       context.Background(),
	}, nil
}

func (b *Bot) Guild() *Guild         { return b.guild }
func (b *Bot) Members() *Members     { return b.members }
func (b *Bot) Presenter() *Presenter { return b.presenter }

// Handle sets the event consumers. Any of them may be nil.
func (b *Bot) Handle(messages MessageHandler, interactions InteractionHandler, joins JoinHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = messages
	b.interactions = interactions
	b.joins = joins
}

// Run opens the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onInteractionCreate)
	b.dg.AddHandler(b.onGuildMemberAdd)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, closing gateway")
	if err := b.dg.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}
	return nil
}

func (b *Bot) handlers() (context.Context, MessageHandler, InteractionHandler, JoinHandler) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx, b.messages, b.interactions, b.joins
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, messages, _, _ := b.handlers()
	if messages == nil || m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	messages.HandleMessage(ctx, toMessageEvent(s.State, m.Message))
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, _, interactions, _ := b.handlers()
	if interactions == nil {
		return
	}
	ev, ok := toInteractionEvent(i.Interaction)
	if !ok {
		log.Debug().Int("type", int(i.Type)).Msg("Ignoring non-component interaction")
		return
	}
	outcome := interactions.HandleInteraction(ctx, ev)
	log.Debug().
		Str("custom_id", ev.CustomID).
		Str("user", ev.Actor.ID).
		Stringer("outcome", outcome).
		Msg("Interaction handled")
}

func (b *Bot) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx, _, _, joins := b.handlers()
	if joins == nil || m.Member == nil {
		return
	}
	if _, err := joins.HandleMemberJoin(ctx, toMemberJoinEvent(s.State, m.Member)); err != nil {
		log.Error().Err(err).Str("guild", m.GuildID).Msg("Join enforcement failed")
	}
}
