package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/vaultcore/vault"
)

// RunInitialize creates a fresh vault protected by password and prints the
// one-time recovery phrase. The phrase is shown exactly once — the vault
// retains only its wrapped DEK and hash — so the output tells the operator
// to store it securely before continuing.
func RunInitialize(
	ctx context.Context,
	v vault.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	password string,
) error {
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	logger.Info("initializing vault")

	phrase, err := v.Initialize(ctx, password)
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Vault initialized successfully.")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "Recovery phrase (shown only once, store it securely):")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "  %s\n", phrase)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "Anyone holding this phrase can unlock the vault without the password.")

	logger.Info("vault initialized")
	return nil
}
