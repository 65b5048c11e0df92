// submodule cmd contains command definitions
package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/delegatify/internal/shared"
)

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "delegatify",
		Usage:   "Discord bot that shows what a Spotify account is playing",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

// before loads the configuration and applies the log level; --debug wins over [log] level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	level := shared.ParseLogLevel(config.Log.Level)
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// runCommand starts the bot
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Connect to Discord and serve /authenticate and /current",
		Action: r.Run,
	}
}

// setupCommand writes the config template and prepares the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the configuration template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.RollbackDatabase,
			},
		},
	}
}

// auditCommand inspects the authentication audit log
func auditCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Inspect authentication attempts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List authentication events, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "Only events of this Discord user id",
					},
					&cli.StringFlag{
						Name:  "outcome",
						Usage: "Only events with this outcome (succeeded, failed, dismissed, rejected)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of events to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AuditList,
			},
		},
	}
}
