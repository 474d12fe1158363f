package httpguard

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/vaultcore/internal/errors"
	"github.com/allisson/vaultcore/internal/httputil"
	"github.com/allisson/vaultcore/vault"
)

// RequireUnsealed rejects requests with 423 Locked while the vault is
// Sealed or Uninitialized. It is applied to every route that touches the
// in-memory DEK (encrypt/decrypt); the lifecycle routes (status,
// initialize, unseal, seal, change-password) stay open so a sealed vault
// can be unsealed in the first place.
func RequireUnsealed(v vault.UseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.IsUnsealed() {
			logger.Debug("rejected request: vault is sealed", slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrLocked, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
