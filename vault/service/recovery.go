package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/allisson/go-pwdhash"

	"github.com/allisson/vaultcore/vault/domain"
)

// recoverySalt is the fixed, non-secret salt used to derive the recovery
// KEK and the recovery wrapper. A fixed salt trades per-vault randomness
// for a lighter cost profile — the recovery phrase already carries 128
// bits of entropy on its own, so the salt's job here is domain separation,
// not defense against precomputation (decision recorded in DESIGN.md).
var recoverySalt = []byte("vaultcore-recovery-kdf-fixed-salt")

// phraseGroups and phraseGroupLen produce the
// "XXXX-XXXX-XXXX-XXXX-XXXX-XXXX-XXXX-XXXX" shape: 128 bits of entropy,
// hex-encoded (32 symbols at 4 bits/symbol) and grouped by four.
const (
	phraseEntropyBytes = 16
	phraseGroupLen     = 4
	phraseGroups       = 8
)

// Recovery generates and verifies recovery phrases and drives the fast
// hash quick-reject before a full KDF derivation is attempted.
type Recovery struct {
	hasher *pwdhash.PasswordHasher
	kdf    KDF
}

// NewRecovery constructs a Recovery using the Interactive pwdhash policy —
// the quick-reject hash runs on every unseal-with-recovery attempt and
// should stay cheap, since the expensive work is the KDF derivation that
// follows a hash match.
func NewRecovery(kdf KDF) (*Recovery, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, fmt.Errorf("failed to construct recovery phrase hasher: %w", err)
	}
	return &Recovery{hasher: hasher, kdf: kdf}, nil
}

// GeneratePhrase samples 128 bits from a CSPRNG and renders them as a
// 39-character dash-grouped hex phrase matching
// ^[A-Z0-9]{4}(-[A-Z0-9]{4}){7}$. It also returns the phrase's quick-reject
// hash for storage.
func (r *Recovery) GeneratePhrase() (phrase, hash string, err error) {
	raw := make([]byte, phraseEntropyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate recovery phrase: %w", err)
	}

	phrase = groupPhrase(strings.ToUpper(hex.EncodeToString(raw)))

	hash, err = r.hasher.Hash([]byte(NormalizePhrase(phrase)))
	if err != nil {
		return "", "", fmt.Errorf("failed to hash recovery phrase: %w", err)
	}

	return phrase, hash, nil
}

// NormalizePhrase uppercases a phrase and collapses its dashes, giving a
// stable 32-character form to hash and derive from regardless of how the
// caller typed the dashes.
func NormalizePhrase(phrase string) string {
	return strings.ToUpper(strings.ReplaceAll(phrase, "-", ""))
}

// CheckHash performs the O(1) quick-reject comparison against a stored
// recovery hash before the caller attempts the full KDF derivation.
func (r *Recovery) CheckHash(phrase, hash string) bool {
	ok, err := r.hasher.Verify([]byte(NormalizePhrase(phrase)), hash)
	if err != nil {
		return false
	}
	return ok
}

// DeriveKEK derives the recovery KEK from a normalized phrase using the
// lighter RecoveryParams cost profile and the fixed recovery salt.
func (r *Recovery) DeriveKEK(phrase string) ([]byte, error) {
	return r.kdf.Derive([]byte(NormalizePhrase(phrase)), recoverySalt, domain.RecoveryParams)
}

// groupPhrase inserts a dash every phraseGroupLen characters.
func groupPhrase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + phraseGroups - 1)
	for i, r := range s {
		if i > 0 && i%phraseGroupLen == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}
