// Package httpguard exposes the vault's lifecycle and cryptographic
// operations as HTTP handlers, and gates the cryptographic routes behind
// the vault's Sealed/Unsealed state.
package httpguard

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/vaultcore/internal/httpguard/dto"
	"github.com/allisson/vaultcore/internal/httputil"
	customValidation "github.com/allisson/vaultcore/internal/validation"
	"github.com/allisson/vaultcore/vault"
)

// Handler handles HTTP requests against the vault's lifecycle and
// cryptographic operations.
type Handler struct {
	vault  vault.UseCase
	logger *slog.Logger
}

// NewHandler creates a new vault handler with required dependencies.
func NewHandler(v vault.UseCase, logger *slog.Logger) *Handler {
	return &Handler{vault: v, logger: logger}
}

// StatusHandler reports the vault's current lifecycle state.
// GET /v1/vault/status - No authentication, always reachable.
func (h *Handler) StatusHandler(c *gin.Context) {
	status, err := h.vault.Status(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: string(status)})
}

// InitializeHandler creates a fresh vault and returns the one-time recovery phrase.
// POST /v1/vault/initialize - Returns 201 Created with the recovery phrase.
func (h *Handler) InitializeHandler(c *gin.Context) {
	var req dto.InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	phrase, err := h.vault.Initialize(c.Request.Context(), req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.InitializeResponse{RecoveryPhrase: phrase})
}

// UnsealHandler unseals the vault using its password.
// POST /v1/vault/unseal - Returns 200 OK on success.
func (h *Handler) UnsealHandler(c *gin.Context) {
	var req dto.UnsealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vault.Unseal(c.Request.Context(), req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "unsealed"})
}

// UnsealWithRecoveryHandler unseals the vault using its recovery phrase.
// POST /v1/vault/unseal-with-recovery - Returns 200 OK on success.
func (h *Handler) UnsealWithRecoveryHandler(c *gin.Context) {
	var req dto.UnsealWithRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vault.UnsealWithRecovery(c.Request.Context(), req.RecoveryPhrase); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "unsealed"})
}

// SealHandler zeros and drops the in-memory DEK.
// POST /v1/vault/seal - Returns 200 OK, idempotent.
func (h *Handler) SealHandler(c *gin.Context) {
	if err := h.vault.Seal(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "sealed"})
}

// ChangePasswordHandler rotates the vault's password wrapper without
// rotating the DEK itself.
// POST /v1/vault/change-password - Returns 200 OK on success.
func (h *Handler) ChangePasswordHandler(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.vault.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// EncryptHandler encrypts plaintext under the vault's in-memory DEK.
// POST /v1/vault/encrypt - Guarded by RequireUnsealed; requires Unsealed.
func (h *Handler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ciphertext, err := h.vault.EncryptString(req.Plaintext, req.AAD)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: ciphertext})
}

// DecryptHandler decrypts a base64 envelope under the vault's in-memory DEK.
// POST /v1/vault/decrypt - Guarded by RequireUnsealed; requires Unsealed.
func (h *Handler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.vault.DecryptString(req.Ciphertext, req.AAD)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: plaintext})
}
