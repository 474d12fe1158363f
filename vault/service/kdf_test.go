package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultcore/vault/domain"
)

func TestArgon2idKDFIsDeterministic(t *testing.T) {
	kdf := NewArgon2idKDF()
	salt := make([]byte, domain.MinSaltLen)
	for i := range salt {
		salt[i] = byte(i)
	}

	k1, err := kdf.Derive([]byte("correct horse battery staple"), salt, domain.RecoveryParams)
	require.NoError(t, err)
	k2, err := kdf.Derive([]byte("correct horse battery staple"), salt, domain.RecoveryParams)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, domain.DerivedKeyLength)
}

func TestArgon2idKDFDifferentSecretsDiffer(t *testing.T) {
	kdf := NewArgon2idKDF()
	salt := make([]byte, domain.MinSaltLen)

	k1, err := kdf.Derive([]byte("secret-one"), salt, domain.RecoveryParams)
	require.NoError(t, err)
	k2, err := kdf.Derive([]byte("secret-two"), salt, domain.RecoveryParams)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestArgon2idKDFDifferentSaltsDiffer(t *testing.T) {
	kdf := NewArgon2idKDF()
	saltA := make([]byte, domain.MinSaltLen)
	saltB := make([]byte, domain.MinSaltLen)
	saltB[0] = 1

	k1, err := kdf.Derive([]byte("same-secret"), saltA, domain.RecoveryParams)
	require.NoError(t, err)
	k2, err := kdf.Derive([]byte("same-secret"), saltB, domain.RecoveryParams)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestArgon2idKDFRejectsInvalidParams(t *testing.T) {
	kdf := NewArgon2idKDF()
	salt := make([]byte, domain.MinSaltLen)

	_, err := kdf.Derive([]byte("secret"), salt, domain.KDFParams{MemoryKiB: 1, Iterations: 1, Parallelism: 0})
	assert.ErrorIs(t, err, domain.ErrBadKdfParams)
}

func TestArgon2idKDFRejectsShortSalt(t *testing.T) {
	kdf := NewArgon2idKDF()
	_, err := kdf.Derive([]byte("secret"), []byte("short"), domain.RecoveryParams)
	assert.ErrorIs(t, err, domain.ErrBadKdfParams)
}
