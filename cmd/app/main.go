// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/portal/cmd/app/commands"
	"github.com/allisson/portal/internal/app"
	"github.com/allisson/portal/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Portal authentication and authorization service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a new user account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Display name for the user",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Email address (used for login)",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Plaintext password (hashed before storage)",
					},
					&cli.BoolFlag{
						Name:  "staff",
						Value: false,
						Usage: "Grant staff access",
					},
					&cli.BoolFlag{
						Name:  "admin",
						Value: false,
						Usage: "Grant admin (superuser) access",
					},
					&cli.StringFlag{
						Name:    "membership",
						Aliases: []string{"m"},
						Value:   "",
						Usage:   "Membership tier (basic, supporting, sponsor, managing, contributing, fellow)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						userUseCase, err := container.UserUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize user use case: %w", err)
						}
						return commands.RunCreateUser(
							ctx,
							userUseCase,
							logger,
							cmd.String("name"),
							cmd.String("email"),
							cmd.String("password"),
							cmd.Bool("staff"),
							cmd.Bool("admin"),
							cmd.String("membership"),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "create-api-key",
				Usage: "Issue a new API key for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Owning user ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable key name",
					},
					&cli.IntFlag{
						Name:    "ttl-days",
						Aliases: []string{"t"},
						Value:   0,
						Usage:   "Days until the key expires (0 for no expiration)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						apiKeyUseCase, err := container.APIKeyUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize api key use case: %w", err)
						}
						return commands.RunCreateAPIKey(
							ctx,
							apiKeyUseCase,
							logger,
							cmd.String("user-id"),
							cmd.String("name"),
							int(cmd.Int("ttl-days")),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "clean-expired-api-keys",
				Usage: "Delete API keys expired more than the specified days ago",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete keys expired more than this many days ago",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Value: false,
						Usage: "Show how many keys would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						apiKeyUseCase, err := container.APIKeyUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize api key use case: %w", err)
						}
						return commands.RunCleanExpiredAPIKeys(
							ctx,
							apiKeyUseCase,
							logger,
							os.Stdout,
							int(cmd.Int("days")),
							cmd.Bool("dry-run"),
							cmd.String("format"),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withContainer builds the DI container for a one-shot command and ensures
// its resources are released on exit.
func withContainer(fn func(container *app.Container, logger *slog.Logger) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	return fn(container, logger)
}
