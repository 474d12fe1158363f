package service

import (
	"errors"

	"github.com/allisson/vaultcore/vault/domain"
)

// Purpose AAD strings bound into a wrapped DEK's authentication tag. They
// prevent a recovery wrapper from being substituted for a password wrapper
// and vice versa: decrypting a password wrapper with the recovery purpose
// string (or the reverse) fails the tag check even with the right key.
const (
	PurposePassword = "vault:dek:password"
	PurposeRecovery = "vault:dek:recovery"
)

// AEADKeyWrap implements KeyWrap using a CipherFactory to construct the
// Cipher variant identified by the envelope it produces or consumes.
type AEADKeyWrap struct {
	newCipher CipherFactory
}

// NewAEADKeyWrap constructs an AEADKeyWrap. In production newCipher is
// NewCipher; tests can substitute a factory that returns a fixed Cipher.
func NewAEADKeyWrap(newCipher CipherFactory) *AEADKeyWrap {
	return &AEADKeyWrap{newCipher: newCipher}
}

// Wrap seals dek under kek with purpose bound as associated data, using the
// default Cipher variant, and returns the envelope's base64 text form.
func (w *AEADKeyWrap) Wrap(dek, kek []byte, purpose string) (string, error) {
	c, err := w.newCipher(kek, VersionXChaCha20Poly1305)
	if err != nil {
		return "", err
	}

	ciphertextWithTag, nonce, err := c.Encrypt(dek, []byte(purpose))
	if err != nil {
		return "", err
	}

	return EncodeB64(c.VersionTag(), nonce, ciphertextWithTag), nil
}

// Unwrap decodes wrappedB64, selects the Cipher by its version byte, and
// decrypts with kek and purpose. Any failure — malformed envelope or a
// failed authentication tag — is surfaced as domain.ErrBadPassword so the
// two causes remain indistinguishable to an attacker. The recovered DEK
// must be exactly 32 bytes; a shorter or longer result indicates the
// wrapper was never a valid DEK envelope and is also reported as
// ErrBadPassword.
func (w *AEADKeyWrap) Unwrap(wrappedB64 string, kek []byte, purpose string) ([]byte, error) {
	env, err := DecodeB64(wrappedB64)
	if err != nil {
		return nil, domain.ErrBadPassword
	}

	c, err := w.newCipher(kek, env.Version)
	if err != nil {
		return nil, domain.ErrBadPassword
	}

	dek, err := c.Decrypt(env.CiphertextWithTag, env.Nonce, []byte(purpose))
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			return nil, domain.ErrBadPassword
		}
		return nil, err
	}

	if len(dek) != domain.DerivedKeyLength {
		return nil, domain.ErrBadPassword
	}

	return dek, nil
}
