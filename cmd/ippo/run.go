package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"ippo/internal/blacklist"
	"ippo/internal/config"
	"ippo/internal/discord"
	"ippo/internal/docs"
	"ippo/internal/logging"
	"ippo/internal/version"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runBot(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closer, err := logging.Setup(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer closer.Close()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info().Str("version", version.Version).Msgf("Starting %s bot...", version.AppName)

	sessions, err := newSessions(cfg)
	if err != nil {
		return err
	}
	defer sessions.Shutdown()
	reg := newCommandRegistry(sessions)

	bot, err := discord.NewBot(cfg.DiscordToken, cfg.RESTMaxAttempts)
	if err != nil {
		return err
	}
	dispatcher, interactions, err := newRouters(cfg, reg, sessions, bot.Presenter(), bot.Guild(), bot.Members())
	if err != nil {
		return err
	}

	store := blacklist.NewStore(cfg.BlacklistPath)
	if err := store.Load(); err != nil {
		log.Warn().Err(err).Str("path", store.Path()).Msg("Blacklist not loaded")
	}
	enforcer := &blacklist.Enforcer{Policy: store, Present: bot.Presenter(), Guild: bot.Guild()}

	bot.Handle(dispatcher, interactions, enforcer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})
	g.Go(func() error {
		sessions.RunSweeper(ctx, cfg.SweepInterval)
		return nil
	})
	g.Go(func() error {
		if err := store.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Blacklist watcher stopped")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Discord bot exited cleanly")
	return nil
}

func runDocs(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sessions, err := newSessions(cfg)
	if err != nil {
		return err
	}
	defer sessions.Shutdown()
	reg := newCommandRegistry(sessions)

	if outputPath != "" {
		return docs.UpdateReadme(reg, cfg.Prefix, config.CategoryWeights, templatePath, outputPath)
	}
	return docs.Write(c.OutOrStdout(), reg, cfg.Prefix, config.CategoryWeights, templatePath)
}
