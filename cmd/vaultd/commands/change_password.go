package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/vaultcore/vault"
)

// RunChangePassword re-wraps the DEK under a KEK derived from newPassword,
// after verifying oldPassword still unwraps the current wrapper. The DEK
// itself never rotates, so records encrypted before the change remain
// decryptable afterward.
func RunChangePassword(
	ctx context.Context,
	v vault.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	oldPassword string,
	newPassword string,
) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("old and new passwords must not be empty")
	}
	if oldPassword == newPassword {
		return fmt.Errorf("new password must differ from the old password")
	}

	logger.Info("changing vault password")

	if err := v.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return fmt.Errorf("failed to change vault password: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Password changed. Existing encrypted records remain readable.")

	logger.Info("vault password changed")
	return nil
}
