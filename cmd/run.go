package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/delegatify/internal/discord"
	"github.com/desertthunder/delegatify/internal/repositories"
	"github.com/desertthunder/delegatify/internal/server"
	"github.com/desertthunder/delegatify/internal/services"
	"github.com/desertthunder/delegatify/internal/session"
	"github.com/desertthunder/delegatify/internal/shared"
	"github.com/desertthunder/delegatify/internal/tasks"
)

// Run starts the bot and, when enabled, the OAuth callback page. It blocks until interrupted.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.New[services.PlaybackClient]()

	var recorder tasks.AuthRecorder
	if config.Database.Path != "" {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		recorder = repositories.NewAuthEventRepository(db)
	} else {
		r.logger.Warn("database.path is empty, authentication events will not be recorded")
	}

	bot, err := discord.NewBot(config.Discord.Token, config.Discord.GuildID, r.newRouter(config, store, recorder), r.logger)
	if err != nil {
		return err
	}

	srvErr := make(chan error, 1)
	if config.Server.Enabled {
		router := server.NewBasicRouter()
		router.Use(server.RequestLogger(r.logger))
		router.Handler(server.NewCallbackHandler())
		router.Handler(server.NewStatusHandler(store))

		go func() {
			if err := server.New(config.Server.Addr(), router, r.logger).Run(ctx); err != nil {
				srvErr <- fmt.Errorf("callback server: %w", err)
			}
		}()
	}

	botErr := make(chan error, 1)
	go func() { botErr <- bot.Run(ctx) }()

	select {
	case err := <-srvErr:
		stop()
		<-botErr
		return err
	case err := <-botErr:
		stop()
		return err
	}
}

// newRouter wires the slash commands to their tasks.
func (r *Runner) newRouter(config *shared.Config, store *session.Store[services.PlaybackClient], recorder tasks.AuthRecorder) *discord.Router {
	router := discord.NewRouter(r.logger, config.Bot.FormTimeout())
	router.Use(discord.Recover(), discord.Logging())

	flow := tasks.NewAuthFlow(tasks.AuthFlowOpts{
		Store:      store,
		Authorizer: r.authorizerFactory(config),
		Recorder:   recorder,
		Logger:     r.logger,
	})
	current := tasks.NewCurrentTask(store)

	router.Handle(discord.AuthenticateCommand, func(ctx context.Context, req *discord.Request) error {
		return flow.Run(ctx, req.Interaction)
	}, discord.OwnersOnly(config.IsOwner))

	router.Handle(discord.CurrentCommand, func(ctx context.Context, req *discord.Request) error {
		return current.Run(ctx, req.Interaction)
	}, discord.NewCooldown(config.Bot.Cooldown()).Middleware())

	return router
}

// authorizerFactory builds a Spotify authorizer from the configured credentials on every call.
func (r *Runner) authorizerFactory(config *shared.Config) tasks.AuthorizerFactory {
	return func() (services.Authorizer, error) {
		if !config.Credentials.Spotify.Configured() {
			return nil, fmt.Errorf("%w: credentials.spotify.client_id and client_secret must be set", shared.ErrMissingCredentials)
		}
		svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(), r.httpClientFor(config))
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}
