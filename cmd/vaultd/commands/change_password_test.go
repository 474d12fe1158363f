package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultcore/vault/domain"
)

func TestRunChangePassword(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("success", func(t *testing.T) {
		v := &fakeVault{}
		var out bytes.Buffer

		err := RunChangePassword(ctx, v, logger, &out, "old pass", "new pass")
		require.NoError(t, err)
		require.Equal(t, "old pass", v.lastOldPassword)
		require.Equal(t, "new pass", v.lastNewPassword)
		require.Contains(t, out.String(), "Password changed")
	})

	t.Run("empty-passwords", func(t *testing.T) {
		v := &fakeVault{}
		var out bytes.Buffer

		err := RunChangePassword(ctx, v, logger, &out, "", "new pass")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("same-password", func(t *testing.T) {
		v := &fakeVault{}
		var out bytes.Buffer

		err := RunChangePassword(ctx, v, logger, &out, "pass", "pass")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must differ")
	})

	t.Run("bad-old-password", func(t *testing.T) {
		v := &fakeVault{changePasswordErr: domain.ErrBadPassword}
		var out bytes.Buffer

		err := RunChangePassword(ctx, v, logger, &out, "wrong", "new pass")
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrBadPassword)
		require.Empty(t, out.String())
	})
}
