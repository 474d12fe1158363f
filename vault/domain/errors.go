// Package domain defines core types and errors for the vault's DEK/KEK
// envelope-encryption hierarchy, independent of any storage or transport.
package domain

import (
	"fmt"

	"github.com/allisson/vaultcore/internal/errors"
)

// Vault operation errors. Each kind except ErrStorageError and ErrInternal
// wraps one of the application's base sentinels so callers can use
// errors.Is against either the specific kind or the broader category;
// those two are standalone sentinels.
var (
	// ErrNotInitialized indicates no metadata row exists yet; initialize must run first.
	ErrNotInitialized = errors.Wrap(errors.ErrNotFound, "vault not initialized")

	// ErrAlreadyInitialized indicates initialize was called against an existing metadata row.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")

	// ErrSealed indicates the DEK is not currently held in memory.
	ErrSealed = errors.Wrap(errors.ErrLocked, "vault is sealed")

	// ErrBadPassword indicates a password failed to unwrap the stored DEK.
	// Also returned when the wrapped DEK envelope is malformed, so an
	// attacker cannot distinguish a wrong password from corrupted storage.
	ErrBadPassword = errors.Wrap(errors.ErrInvalidInput, "incorrect password")

	// ErrInvalidRecoveryPhrase indicates a recovery phrase failed the hash
	// check or failed to unwrap the recovery-wrapped DEK.
	ErrInvalidRecoveryPhrase = errors.Wrap(errors.ErrInvalidInput, "invalid recovery phrase")

	// ErrRecoveryNotConfigured indicates unseal-with-recovery was attempted
	// against a vault with no recovery wrapper.
	ErrRecoveryNotConfigured = errors.Wrap(errors.ErrConflict, "recovery not configured")

	// ErrMalformedEnvelope indicates an envelope failed to decode: short
	// length, invalid base64, or an unknown version byte.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrCryptoFailure indicates an authentication tag failed to verify.
	ErrCryptoFailure = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrBadKdfParams indicates stored KDF parameters are outside the
	// bounds this implementation accepts.
	ErrBadKdfParams = errors.Wrap(errors.ErrInvalidInput, "invalid kdf parameters")

	// ErrStorageError wraps a failure surfaced by the injected store.
	ErrStorageError = errors.New("vault storage error")

	// ErrInternal is reserved for invariant violations; treat as fatal.
	ErrInternal = errors.New("vault internal error")
)

// WrapStorageError wraps an error surfaced by the injected store so callers
// can match it with errors.Is(err, ErrStorageError) while still reaching the
// underlying cause.
func WrapStorageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageError, err)
}
