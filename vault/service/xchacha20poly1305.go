package service

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// VersionXChaCha20Poly1305 is the wire-format version byte identifying the
// default Cipher variant. It is the only variant this implementation
// ships: a second variant would need a different nonce width than the
// Envelope's fixed 24-byte field, so none is registered.
const VersionXChaCha20Poly1305 byte = 0x01

// XChaCha20Poly1305Cipher implements Cipher using XChaCha20-Poly1305, the
// extended-nonce variant of ChaCha20-Poly1305. The 24-byte nonce makes
// random nonce selection collision-safe over realistic DEK/KEK lifetimes,
// unlike the 12-byte nonce of plain ChaCha20-Poly1305 or AES-GCM.
type XChaCha20Poly1305Cipher struct {
	aead cipher
}

// cipher is the subset of crypto/cipher.AEAD this package relies on; kept
// as an unexported alias so tests can stub it if needed.
type cipher interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
	Overhead() int
}

// NewXChaCha20Poly1305 constructs a Cipher bound to key. Returns an error
// if key is not exactly 32 bytes.
func NewXChaCha20Poly1305(key []byte) (*XChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create xchacha20-poly1305 cipher: %w", err)
	}
	return &XChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with aad, returning the ciphertext-with-tag and a
// freshly generated random nonce.
func (c *XChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertextWithTag, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertextWithTag = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertextWithTag, nonce, nil
}

// Decrypt opens ciphertextWithTag under nonce and aad. ErrAuthenticationFailed
// is returned verbatim on authentication failure; callers translate it to
// the appropriate domain error kind (CryptoFailure or BadPassword,
// depending on context) since the two must be indistinguishable to an
// attacker.
func (c *XChaCha20Poly1305Cipher) Decrypt(ciphertextWithTag, nonce, aad []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, nonce, ciphertextWithTag, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// VersionTag identifies this Cipher as version 0x01.
func (c *XChaCha20Poly1305Cipher) VersionTag() byte {
	return VersionXChaCha20Poly1305
}

// NonceSize returns 24, the XChaCha20-Poly1305 extended nonce length.
func (c *XChaCha20Poly1305Cipher) NonceSize() int {
	return c.aead.NonceSize()
}

// NewCipher is the CipherFactory used by Key Wrap and the Vault to select a
// Cipher implementation by a decoded envelope's version byte. There is a
// single registered variant today; any other version is rejected here with
// an error.
func NewCipher(key []byte, version byte) (Cipher, error) {
	switch version {
	case VersionXChaCha20Poly1305:
		return NewXChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("unsupported cipher version %d", version)
	}
}
