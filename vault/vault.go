// Package vault implements the top-level state machine that is the only
// component client code should use: it holds the metadata record,
// coordinates the KDF and Key Wrap components, owns the DEK while
// Unsealed, and exposes EncryptString/DecryptString plus the lifecycle
// operations (Initialize, Unseal, UnsealWithRecovery, Seal,
// ChangePassword, Status).
package vault

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/allisson/vaultcore/internal/database"
	"github.com/allisson/vaultcore/vault/domain"
	"github.com/allisson/vaultcore/vault/service"
	"github.com/allisson/vaultcore/vault/store"
)

const metadataSchemaVersion = 1

// Vault is the process-local encryption-at-rest core. A Vault instance is
// intended as one-per-process; multiple instances against the same store
// are permitted but not coordinated with each other — the store's
// transactional semantics are the only synchronization across instances.
//
// All state transitions take an exclusive lock on the DEK slot;
// EncryptString/DecryptString take a shared lock to read the DEK. Cipher
// operations themselves are pure functions over an input key.
type Vault struct {
	store     store.Store
	txManager database.TxManager
	kdf       service.KDF
	keyWrap   service.KeyWrap
	recovery  *service.Recovery
	newCipher service.CipherFactory

	mu  sync.RWMutex
	dek *domain.Secret // nil while Sealed or Uninitialized
}

// New constructs a Vault against store and txManager. It does not touch
// storage beyond what Status, Initialize, Unseal, and friends explicitly
// perform.
func New(st store.Store, txManager database.TxManager) (*Vault, error) {
	kdf := service.NewArgon2idKDF()
	recovery, err := service.NewRecovery(kdf)
	if err != nil {
		return nil, err
	}

	return &Vault{
		store:     st,
		txManager: txManager,
		kdf:       kdf,
		keyWrap:   service.NewAEADKeyWrap(service.NewCipher),
		recovery:  recovery,
		newCipher: service.NewCipher,
	}, nil
}

// Status reports Uninitialized, Sealed, or Unsealed.
func (v *Vault) Status(ctx context.Context) (domain.Status, error) {
	v.mu.RLock()
	unsealed := v.dek != nil
	v.mu.RUnlock()
	if unsealed {
		return domain.StatusUnsealed, nil
	}

	_, err := v.store.GetMetadata(ctx)
	switch {
	case err == nil:
		return domain.StatusSealed, nil
	case errors.Is(err, domain.ErrNotInitialized):
		return domain.StatusUninitialized, nil
	default:
		return "", err
	}
}

// IsUnsealed reports whether the DEK is currently held in memory.
func (v *Vault) IsUnsealed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dek != nil
}

// Initialize creates a fresh vault: a new DEK, a password wrapper, and a
// recovery wrapper, written atomically in a single store transaction. It
// fails with domain.ErrAlreadyInitialized if a metadata row already exists.
// The raw recovery phrase is returned exactly once; the vault retains only
// its wrapped DEK and hash.
func (v *Vault) Initialize(ctx context.Context, password string) (recoveryPhrase string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.store.GetMetadata(ctx); err == nil {
		return "", domain.ErrAlreadyInitialized
	} else if !errors.Is(err, domain.ErrNotInitialized) {
		return "", err
	}

	dek := make([]byte, domain.DerivedKeyLength)
	if _, err := rand.Read(dek); err != nil {
		return "", domain.ErrInternal
	}

	salt := make([]byte, domain.MinSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.ErrInternal
	}

	passwordKEK, err := v.kdf.Derive([]byte(password), salt, domain.DefaultParams)
	if err != nil {
		return "", err
	}
	defer domain.Zero(passwordKEK)

	wrappedDEK, err := v.keyWrap.Wrap(dek, passwordKEK, service.PurposePassword)
	if err != nil {
		return "", err
	}

	phrase, phraseHash, err := v.recovery.GeneratePhrase()
	if err != nil {
		return "", err
	}

	recoveryKEK, err := v.recovery.DeriveKEK(phrase)
	if err != nil {
		return "", err
	}
	defer domain.Zero(recoveryKEK)

	recoveryWrappedDEK, err := v.keyWrap.Wrap(dek, recoveryKEK, service.PurposeRecovery)
	if err != nil {
		return "", err
	}

	metadata := &domain.Metadata{
		Version:            metadataSchemaVersion,
		KDFSalt:            salt,
		KDFParams:          domain.DefaultParams.String(),
		WrappedDEK:         wrappedDEK,
		RecoveryWrappedDEK: recoveryWrappedDEK,
		RecoveryKeyHash:    phraseHash,
	}

	err = v.txManager.WithTx(ctx, func(ctx context.Context) error {
		return v.store.UpsertMetadata(ctx, metadata)
	})
	if err != nil {
		domain.Zero(dek)
		return "", err
	}

	v.dek = domain.NewSecret(dek)
	return phrase, nil
}

// Unseal derives the password KEK from the stored parameters and unwraps
// the DEK. On a wrong password the vault stays Sealed and
// domain.ErrBadPassword is returned.
func (v *Vault) Unseal(ctx context.Context, password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dek != nil {
		return nil // already unsealed; idempotent
	}

	metadata, err := v.store.GetMetadata(ctx)
	if err != nil {
		return err
	}

	params, err := domain.ParseKDFParams(metadata.KDFParams)
	if err != nil {
		return err
	}

	kek, err := v.kdf.Derive([]byte(password), metadata.KDFSalt, params)
	if err != nil {
		return err
	}
	defer domain.Zero(kek)

	dek, err := v.keyWrap.Unwrap(metadata.WrappedDEK, kek, service.PurposePassword)
	if err != nil {
		return err
	}

	v.dek = domain.NewSecret(dek)
	return nil
}

// UnsealWithRecovery normalizes phrase, checks it against the stored quick-
// reject hash, and on a match derives the recovery KEK and unwraps the
// recovery-wrapped DEK. Both a hash mismatch and a failed unwrap report
// domain.ErrInvalidRecoveryPhrase so the two causes are indistinguishable.
func (v *Vault) UnsealWithRecovery(ctx context.Context, phrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dek != nil {
		return nil
	}

	metadata, err := v.store.GetMetadata(ctx)
	if err != nil {
		return err
	}

	if !metadata.HasRecovery() {
		return domain.ErrRecoveryNotConfigured
	}

	if !v.recovery.CheckHash(phrase, metadata.RecoveryKeyHash) {
		return domain.ErrInvalidRecoveryPhrase
	}

	kek, err := v.recovery.DeriveKEK(phrase)
	if err != nil {
		return err
	}
	defer domain.Zero(kek)

	dek, err := v.keyWrap.Unwrap(metadata.RecoveryWrappedDEK, kek, service.PurposeRecovery)
	if err != nil {
		return domain.ErrInvalidRecoveryPhrase
	}

	v.dek = domain.NewSecret(dek)
	return nil
}

// Seal zeros and drops the in-memory DEK. Idempotent.
func (v *Vault) Seal() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.dek.Release()
	v.dek = nil
	return nil
}

// ChangePassword re-derives the old KEK to verify it still unwraps the
// current wrapper, then generates a fresh salt, derives a new KEK, and
// re-wraps the unchanged DEK. The metadata row is updated atomically; on
// any failure the old wrapper remains intact and the in-memory DEK is
// untouched. ChangePassword never rotates the DEK itself — existing at-rest
// records encrypted under it must remain decryptable.
func (v *Vault) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	metadata, err := v.store.GetMetadata(ctx)
	if err != nil {
		return err
	}

	oldParams, err := domain.ParseKDFParams(metadata.KDFParams)
	if err != nil {
		return err
	}

	oldKEK, err := v.kdf.Derive([]byte(oldPassword), metadata.KDFSalt, oldParams)
	if err != nil {
		return err
	}

	dek, err := v.keyWrap.Unwrap(metadata.WrappedDEK, oldKEK, service.PurposePassword)
	domain.Zero(oldKEK)
	if err != nil {
		return err
	}
	defer domain.Zero(dek)

	newSalt := make([]byte, domain.MinSaltLen)
	if _, err := rand.Read(newSalt); err != nil {
		return domain.ErrInternal
	}

	newKEK, err := v.kdf.Derive([]byte(newPassword), newSalt, domain.DefaultParams)
	if err != nil {
		return err
	}
	defer domain.Zero(newKEK)

	newWrappedDEK, err := v.keyWrap.Wrap(dek, newKEK, service.PurposePassword)
	if err != nil {
		return err
	}

	updated := *metadata
	updated.KDFSalt = newSalt
	updated.KDFParams = domain.DefaultParams.String()
	updated.WrappedDEK = newWrappedDEK
	updated.UpdatedAt = time.Time{} // let the store stamp UpdatedAt on write

	return v.txManager.WithTx(ctx, func(ctx context.Context) error {
		return v.store.UpsertMetadata(ctx, &updated)
	})
}

// EncryptString seals plaintext under the in-memory DEK with aad bound as
// associated data, returning the base64 envelope. Fails with
// domain.ErrSealed if the vault is not Unsealed.
func (v *Vault) EncryptString(plaintext, aad string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.dek == nil {
		return "", domain.ErrSealed
	}

	c, err := v.newCipher(v.dek.Bytes(), service.VersionXChaCha20Poly1305)
	if err != nil {
		return "", err
	}

	ciphertextWithTag, nonce, err := c.Encrypt([]byte(plaintext), []byte(aad))
	if err != nil {
		return "", err
	}

	return service.EncodeB64(c.VersionTag(), nonce, ciphertextWithTag), nil
}

// DecryptString parses b64 as an envelope and opens it under the in-memory
// DEK with aad. Fails with domain.ErrSealed if the vault is not Unsealed,
// domain.ErrMalformedEnvelope on a structurally invalid envelope, or
// domain.ErrCryptoFailure if the tag does not verify or the aad does not
// match.
func (v *Vault) DecryptString(b64, aad string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.dek == nil {
		return "", domain.ErrSealed
	}

	env, err := service.DecodeB64(b64)
	if err != nil {
		return "", err
	}

	c, err := v.newCipher(v.dek.Bytes(), env.Version)
	if err != nil {
		return "", domain.ErrMalformedEnvelope
	}

	plaintext, err := c.Decrypt(env.CiphertextWithTag, env.Nonce, []byte(aad))
	if err != nil {
		return "", domain.ErrCryptoFailure
	}

	return string(plaintext), nil
}
