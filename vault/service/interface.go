// Package service implements the cryptographic primitives the vault state
// machine composes: the authenticated-encryption Cipher, the Envelope
// Codec, the Argon2id KDF, and the Key Wrap operations built on top of
// them.
package service

import "github.com/allisson/vaultcore/vault/domain"

// Cipher is a narrow authenticated-encryption capability bound to a single
// 32-byte key for its lifetime. Implementations must be constant-time with
// respect to key and tag, and must generate a fresh random nonce for every
// call to Encrypt.
//
// A Cipher is selected by the Envelope's version byte, never by a
// string-keyed registry — VersionTag is the only identity a Cipher exposes.
type Cipher interface {
	// Encrypt seals plaintext with aad bound into the authentication tag.
	// It returns the ciphertext-with-tag and the nonce that was used, so
	// the caller can place both into an Envelope.
	Encrypt(plaintext, aad []byte) (ciphertextWithTag, nonce []byte, err error)

	// Decrypt opens ciphertextWithTag under nonce and aad. It fails with
	// ErrAuthenticationFailed if the tag does not verify.
	Decrypt(ciphertextWithTag, nonce, aad []byte) (plaintext []byte, err error)

	// VersionTag identifies this Cipher's wire-format version byte.
	VersionTag() byte

	// NonceSize returns the nonce length this Cipher requires, in bytes.
	NonceSize() int
}

// CipherFactory constructs a Cipher bound to key for the variant identified
// by version. Used after an envelope is decoded to select the right Cipher
// for an arbitrary stored envelope without a string-keyed registry.
type CipherFactory func(key []byte, version byte) (Cipher, error)

// KDF derives a fixed-length key from a low-entropy secret (a password or
// recovery phrase) and stored parameters. Derivation is deterministic given
// identical inputs, and deliberately expensive.
type KDF interface {
	Derive(secret, salt []byte, params domain.KDFParams) (key []byte, err error)
}

// KeyWrap seals and opens a 32-byte DEK under a 32-byte KEK, binding a
// purpose string into the associated data so a wrapper produced for one
// purpose can never be substituted for another.
type KeyWrap interface {
	Wrap(dek, kek []byte, purpose string) (wrappedB64 string, err error)
	Unwrap(wrappedB64 string, kek []byte, purpose string) (dek []byte, err error)
}
