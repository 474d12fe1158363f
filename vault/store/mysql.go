package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/vaultcore/internal/database"
	"github.com/allisson/vaultcore/vault/domain"
)

// MySQLStore implements Store for MySQL using a VARBINARY salt column and an
// INSERT ... ON DUPLICATE KEY UPDATE upsert keyed on the constant row id.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL vault store.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Bootstrap creates the vault_metadata table if it does not already exist.
func (m *MySQLStore) Bootstrap(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS vault_metadata (
		id INT UNSIGNED PRIMARY KEY,
		version INT UNSIGNED NOT NULL,
		kdf_salt VARBINARY(64) NOT NULL,
		kdf_params VARCHAR(255) NOT NULL,
		wrapped_dek TEXT NOT NULL,
		recovery_wrapped_dek TEXT NOT NULL,
		recovery_key_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`

	querier := database.GetTx(ctx, m.db)
	if _, err := querier.ExecContext(ctx, ddl); err != nil {
		return domain.WrapStorageError(err)
	}
	return nil
}

// GetMetadata reads the single metadata row.
func (m *MySQLStore) GetMetadata(ctx context.Context) (*domain.Metadata, error) {
	querier := database.GetTx(ctx, m.db)

	const query = `SELECT version, kdf_salt, kdf_params, wrapped_dek,
		recovery_wrapped_dek, recovery_key_hash, created_at, updated_at
		FROM vault_metadata WHERE id = ?`

	row := querier.QueryRowContext(ctx, query, metadataRowID)

	var md domain.Metadata
	err := row.Scan(
		&md.Version,
		&md.KDFSalt,
		&md.KDFParams,
		&md.WrappedDEK,
		&md.RecoveryWrappedDEK,
		&md.RecoveryKeyHash,
		&md.CreatedAt,
		&md.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotInitialized
	}
	if err != nil {
		return nil, domain.WrapStorageError(err)
	}

	return &md, nil
}

// UpsertMetadata writes the single metadata row, inserting it if absent.
func (m *MySQLStore) UpsertMetadata(ctx context.Context, md *domain.Metadata) error {
	querier := database.GetTx(ctx, m.db)

	now := md.UpdatedAt
	if now.IsZero() {
		now = timeNow()
	}
	md.UpdatedAt = now
	if md.CreatedAt.IsZero() {
		md.CreatedAt = now
	}

	const query = `INSERT INTO vault_metadata
		(id, version, kdf_salt, kdf_params, wrapped_dek, recovery_wrapped_dek, recovery_key_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			version = VALUES(version),
			kdf_salt = VALUES(kdf_salt),
			kdf_params = VALUES(kdf_params),
			wrapped_dek = VALUES(wrapped_dek),
			recovery_wrapped_dek = VALUES(recovery_wrapped_dek),
			recovery_key_hash = VALUES(recovery_key_hash),
			updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(
		ctx,
		query,
		metadataRowID,
		md.Version,
		md.KDFSalt,
		md.KDFParams,
		md.WrappedDEK,
		md.RecoveryWrappedDEK,
		md.RecoveryKeyHash,
		md.CreatedAt,
		md.UpdatedAt,
	)
	if err != nil {
		return domain.WrapStorageError(err)
	}
	return nil
}
