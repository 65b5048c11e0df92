package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/delegatify/internal/shared"
)

// CommandRegistrar is the part of [discordgo.Session] that registers slash commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

var _ CommandRegistrar = (*discordgo.Session)(nil)

// Bot owns the gateway connection and feeds interactions to a [Router].
type Bot struct {
	session *discordgo.Session
	router  *Router
	guildID string
	logger  *log.Logger
}

// NewBot creates a [Bot] for token. Commands are registered in guildID, or globally when empty.
func NewBot(token, guildID string, router *Router, logger *log.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: discord token", shared.ErrMissingCredentials)
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{session: session, router: router, guildID: guildID, logger: logger}, nil
}

// Run connects to the gateway and serves interactions until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("connected", "user", r.User.Username, "guilds", len(r.Guilds))
		registered, err := RegisterCommands(ctx, s, applicationID(r), b.guildID, b.router.Commands())
		if err != nil {
			b.logger.Error("failed to register commands", "err", err)
			return
		}
		for _, c := range registered {
			b.logger.Debug("registered command", "name", c.Name, "id", c.ID, "guild", b.guildID)
		}
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.router.Dispatch(ctx, s, i.Interaction)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	defer b.session.Close()

	<-ctx.Done()
	b.logger.Info("disconnecting")
	return nil
}

// RegisterCommands replaces the application's commands with commands and returns them as
// registered.
func RegisterCommands(ctx context.Context, rg CommandRegistrar, appID, guildID string, commands []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	registered, err := rg.ApplicationCommandBulkOverwrite(appID, guildID, commands, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return registered, nil
}

func applicationID(r *discordgo.Ready) string {
	if r.Application != nil && r.Application.ID != "" {
		return r.Application.ID
	}
	return r.User.ID
}
