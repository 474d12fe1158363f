package service

import "errors"

// ErrAuthenticationFailed is the raw, package-internal signal that a
// Cipher's authentication tag failed to verify. Callers in the vault and
// key-wrap layers translate it into the appropriate domain error kind —
// CryptoFailure for user records, BadPassword/InvalidRecoveryPhrase for a
// wrapped DEK — since the two must be indistinguishable to an attacker.
var ErrAuthenticationFailed = errors.New("authentication failed")
