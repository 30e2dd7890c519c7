package main

import (
	"fmt"

	"ippo/internal/command"
	"ippo/internal/commands/moderation"
	"ippo/internal/commands/utility"
	"ippo/internal/config"
	"ippo/internal/middleware"
	"ippo/internal/navigation"
	"ippo/internal/platform"
	"ippo/internal/router"
	"ippo/pkg/cmd"

	"github.com/rs/zerolog/log"
)

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

// newSessions builds the help session registry from the configured catalog.
func newSessions(cfg *config.Config) (*navigation.Registry, error) {
	catalog, err := navigation.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return navigation.NewRegistry(catalog, navigation.WithTTL(cfg.SessionTTL)), nil
}

// newCommandRegistry registers the init-collected commands plus help, which
// needs the live session registry.
func newCommandRegistry(sessions *navigation.Registry) *cmd.Registry {
	reg := cmd.NewRegistry()
	n := reg.Build(command.DefaultSource)
	n += reg.Build(cmd.List{
		command.Wrap(&utility.HelpCommand{Sessions: sessions}, middleware.WithCommandLogger()),
	})
	log.Info().Int("commands", n).Msg("Command registry built")
	return reg
}

// newRouters wires the message dispatcher and the interaction router on top
// of the platform collaborators.
func newRouters(cfg *config.Config, reg *cmd.Registry, sessions *navigation.Registry, present platform.Presentation, guild platform.GuildActions, members platform.MembershipLookup) (*router.Dispatcher, *router.InteractionRouter, error) {
	dispatcher := router.NewDispatcher(reg, present, guild, members, router.WithPrefix(cfg.Prefix))

	interactions := router.NewInteractionRouter(sessions, present, guild, members)
	if err := interactions.RegisterAction(moderation.RemoveRoleAction{}); err != nil {
		return nil, nil, err
	}
	return dispatcher, interactions, nil
}
