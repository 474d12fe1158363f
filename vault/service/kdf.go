package service

import (
	"golang.org/x/crypto/argon2"

	"github.com/allisson/vaultcore/vault/domain"
)

// Argon2idKDF derives keys with Argon2id, the password-hashing variant
// resistant to both GPU and side-channel attacks. Parameters travel with
// every call rather than living on the struct, since the vault stores a
// cost profile per wrapper (password wrapper costly, recovery wrapper
// lighter).
type Argon2idKDF struct{}

// NewArgon2idKDF constructs an Argon2idKDF. It holds no state; the zero
// value would work equally well, but a constructor keeps the call sites
// consistent with the rest of the service package.
func NewArgon2idKDF() *Argon2idKDF {
	return &Argon2idKDF{}
}

// Derive runs Argon2id over secret and salt with params, producing a
// 32-byte key. Derive runs params.Validate itself and fails with
// domain.ErrBadKdfParams when params are out of bounds or salt is shorter
// than domain.MinSaltLen.
func (k *Argon2idKDF) Derive(secret, salt []byte, params domain.KDFParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < domain.MinSaltLen {
		return nil, domain.ErrBadKdfParams
	}

	key := argon2.IDKey(
		secret,
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		domain.DerivedKeyLength,
	)
	return key, nil
}
