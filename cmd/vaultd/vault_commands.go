package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultcore/cmd/vaultd/commands"
	"github.com/allisson/vaultcore/internal/app"
	"github.com/allisson/vaultcore/internal/config"
	"github.com/allisson/vaultcore/vault"
)

// withVault loads configuration, builds the DI container, resolves the
// vault use case, and hands both to fn, shutting the container down when
// fn returns.
func withVault(ctx context.Context, fn func(ctx context.Context, container *app.Container, v vault.UseCase) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()

	v, err := container.Vault()
	if err != nil {
		return err
	}

	return fn(ctx, container, v)
}

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init",
			Usage: "Initialize a new vault and print the one-time recovery phrase",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Vault password",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(ctx context.Context, container *app.Container, v vault.UseCase) error {
					return commands.RunInitialize(ctx, v, container.Logger(), os.Stdout, cmd.String("password"))
				})
			},
		},
		{
			Name:  "status",
			Usage: "Report whether the vault is uninitialized, sealed, or unsealed",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(ctx context.Context, container *app.Container, v vault.UseCase) error {
					return commands.RunStatus(ctx, v, container.Logger(), os.Stdout)
				})
			},
		},
		{
			Name:  "change-password",
			Usage: "Re-wrap the DEK under a new password without rotating it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "old-password",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Current vault password",
				},
				&cli.StringFlag{
					Name:     "new-password",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "New vault password",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(ctx context.Context, container *app.Container, v vault.UseCase) error {
					return commands.RunChangePassword(
						ctx,
						v,
						container.Logger(),
						os.Stdout,
						cmd.String("old-password"),
						cmd.String("new-password"),
					)
				})
			},
		},
		{
			Name:  "verify-password",
			Usage: "Check that a password unwraps the stored DEK, without leaving the vault unsealed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Vault password to verify",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(ctx context.Context, container *app.Container, v vault.UseCase) error {
					return commands.RunVerifyPassword(ctx, v, container.Logger(), os.Stdout, cmd.String("password"))
				})
			},
		},
		{
			Name:  "verify-recovery",
			Usage: "Check that a recovery phrase unwraps the stored DEK, without leaving the vault unsealed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "phrase",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Recovery phrase to verify",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(ctx context.Context, container *app.Container, v vault.UseCase) error {
					return commands.RunVerifyRecovery(ctx, v, container.Logger(), os.Stdout, cmd.String("phrase"))
				})
			},
		},
	}
}
