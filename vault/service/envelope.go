package service

import (
	"encoding/base64"
	"fmt"

	"github.com/allisson/vaultcore/vault/domain"
)

// NonceLen is the fixed nonce width the Envelope's binary layout reserves,
// matching XChaCha20-Poly1305's extended nonce. A Cipher variant with a
// different nonce width cannot be framed by this Envelope without changing
// the wire format.
const NonceLen = 24

// minEnvelopeLen is 1 (version) + 24 (nonce) + 16 (minimum AEAD tag with
// zero-length plaintext). Anything shorter cannot be a valid envelope.
const minEnvelopeLen = 1 + NonceLen + 16

// Envelope is the parsed form of the on-disk/in-DB ciphertext blob:
// [version:1][nonce:24][ciphertext+tag:N+16].
type Envelope struct {
	Version           byte
	Nonce             []byte
	CiphertextWithTag []byte
}

// Encode serializes an Envelope to its binary form.
func Encode(version byte, nonce, ciphertextWithTag []byte) []byte {
	out := make([]byte, 0, 1+len(nonce)+len(ciphertextWithTag))
	out = append(out, version)
	out = append(out, nonce...)
	out = append(out, ciphertextWithTag...)
	return out
}

// EncodeB64 serializes an Envelope to its standard-padded base64 text form.
func EncodeB64(version byte, nonce, ciphertextWithTag []byte) string {
	return base64.StdEncoding.EncodeToString(Encode(version, nonce, ciphertextWithTag))
}

// Decode parses an Envelope from its binary form. It fails with
// domain.ErrMalformedEnvelope on a short buffer; it does not itself
// validate the version byte against a known set — callers that need a
// specific Cipher do that via the CipherFactory.
func Decode(b []byte) (Envelope, error) {
	if len(b) < minEnvelopeLen {
		return Envelope{}, domain.ErrMalformedEnvelope
	}

	return Envelope{
		Version:           b[0],
		Nonce:             b[1 : 1+NonceLen],
		CiphertextWithTag: b[1+NonceLen:],
	}, nil
}

// DecodeB64 base64-decodes s and parses the result as an Envelope. Invalid
// base64 and short envelopes both fail with domain.ErrMalformedEnvelope.
func DecodeB64(s string) (Envelope, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", domain.ErrMalformedEnvelope, err)
	}
	return Decode(b)
}
