package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/vaultcore/vault"
)

// RunVerifyPassword attempts to unseal the vault with password and seals it
// again before returning, so the credential check never leaves key material
// in memory past the process's own lifetime.
func RunVerifyPassword(
	ctx context.Context,
	v vault.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	password string,
) error {
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	if err := v.Unseal(ctx, password); err != nil {
		return fmt.Errorf("password verification failed: %w", err)
	}

	if err := v.Seal(); err != nil {
		logger.Error("failed to seal vault after verification", slog.Any("error", err))
	}

	_, _ = fmt.Fprintln(writer, "Password OK.")
	return nil
}

// RunVerifyRecovery attempts to unseal the vault with a recovery phrase and
// seals it again before returning.
func RunVerifyRecovery(
	ctx context.Context,
	v vault.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	phrase string,
) error {
	if phrase == "" {
		return fmt.Errorf("recovery phrase must not be empty")
	}

	if err := v.UnsealWithRecovery(ctx, phrase); err != nil {
		return fmt.Errorf("recovery phrase verification failed: %w", err)
	}

	if err := v.Seal(); err != nil {
		logger.Error("failed to seal vault after verification", slog.Any("error", err))
	}

	_, _ = fmt.Fprintln(writer, "Recovery phrase OK.")
	return nil
}
