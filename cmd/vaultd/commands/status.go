package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/vaultcore/vault"
)

// RunStatus prints the vault's lifecycle state. A one-shot CLI process never
// holds the DEK, so against a live database this reports uninitialized or
// sealed; unsealed is only observable inside the server process.
func RunStatus(
	ctx context.Context,
	v vault.UseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	status, err := v.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read vault status: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "%s\n", status)
	return nil
}
