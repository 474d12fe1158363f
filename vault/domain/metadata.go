package domain

import "time"

// Status reports which of the three vault states a caller observes.
type Status string

const (
	// StatusUninitialized means no metadata row exists.
	StatusUninitialized Status = "uninitialized"

	// StatusSealed means a metadata row exists but the DEK is not in memory.
	StatusSealed Status = "sealed"

	// StatusUnsealed means the DEK is currently held in memory.
	StatusUnsealed Status = "unsealed"
)

// Metadata is the single persisted row describing a vault instance. It
// exists iff the vault has been initialized. When RecoveryWrappedDEK is
// non-empty, RecoveryKeyHash must be non-empty too, and vice versa.
type Metadata struct {
	// Version is a monotonic schema version, bumped whenever the row shape changes.
	Version int

	// KDFSalt is the random salt used to derive the password KEK.
	KDFSalt []byte

	// KDFParams is the compact textual form of the password KDF's cost parameters.
	KDFParams string

	// WrappedDEK is the base64 envelope of the DEK wrapped under the password KEK.
	WrappedDEK string

	// RecoveryWrappedDEK is the base64 envelope of the DEK wrapped under the
	// recovery KEK. Empty if recovery has never been configured.
	RecoveryWrappedDEK string

	// RecoveryKeyHash is the quick-reject hash of the normalized recovery
	// phrase. Empty if recovery has never been configured.
	RecoveryKeyHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRecovery reports whether this row carries a recovery wrapper.
func (m *Metadata) HasRecovery() bool {
	return m != nil && m.RecoveryWrappedDEK != "" && m.RecoveryKeyHash != ""
}
