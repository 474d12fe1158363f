// Package store persists the vault's single-row metadata record through a
// transactional relational store. The row is selected by a constant id and
// written with a single upsert instead of separate create/update/list
// operations.
package store

import (
	"context"

	"github.com/allisson/vaultcore/vault/domain"
)

// Store is the contract the Vault state machine depends on. Get and Upsert
// must honor a transaction propagated through ctx by the caller's
// database.TxManager, the way database.GetTx resolves either *sql.DB or
// *sql.Tx from context.
type Store interface {
	// GetMetadata returns the metadata row, or domain.ErrNotInitialized if
	// no row exists yet.
	GetMetadata(ctx context.Context) (*domain.Metadata, error)

	// UpsertMetadata writes the metadata row, creating it if absent or
	// replacing it entirely if present. Callers run this inside a
	// transaction for operations that must be atomic with other state.
	UpsertMetadata(ctx context.Context, m *domain.Metadata) error

	// Bootstrap creates the metadata table if it does not already exist.
	Bootstrap(ctx context.Context) error
}
