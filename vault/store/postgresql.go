package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/vaultcore/internal/database"
	"github.com/allisson/vaultcore/vault/domain"
)

// metadataRowID is the single row's constant primary key.
const metadataRowID = 1

// PostgreSQLStore implements Store for PostgreSQL using native BYTEA
// columns and an upsert keyed on the constant row id.
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore creates a new PostgreSQL vault store.
func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

// Bootstrap creates the vault_metadata table if it does not already exist.
func (p *PostgreSQLStore) Bootstrap(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS vault_metadata (
		id INTEGER PRIMARY KEY,
		version INTEGER NOT NULL,
		kdf_salt BYTEA NOT NULL,
		kdf_params TEXT NOT NULL,
		wrapped_dek TEXT NOT NULL,
		recovery_wrapped_dek TEXT NOT NULL DEFAULT '',
		recovery_key_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`

	querier := database.GetTx(ctx, p.db)
	if _, err := querier.ExecContext(ctx, ddl); err != nil {
		return domain.WrapStorageError(err)
	}
	return nil
}

// GetMetadata reads the single metadata row.
func (p *PostgreSQLStore) GetMetadata(ctx context.Context) (*domain.Metadata, error) {
	querier := database.GetTx(ctx, p.db)

	const query = `SELECT version, kdf_salt, kdf_params, wrapped_dek,
		recovery_wrapped_dek, recovery_key_hash, created_at, updated_at
		FROM vault_metadata WHERE id = $1`

	row := querier.QueryRowContext(ctx, query, metadataRowID)

	var m domain.Metadata
	err := row.Scan(
		&m.Version,
		&m.KDFSalt,
		&m.KDFParams,
		&m.WrappedDEK,
		&m.RecoveryWrappedDEK,
		&m.RecoveryKeyHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotInitialized
	}
	if err != nil {
		return nil, domain.WrapStorageError(err)
	}

	return &m, nil
}

// UpsertMetadata writes the single metadata row, inserting it if absent.
func (p *PostgreSQLStore) UpsertMetadata(ctx context.Context, m *domain.Metadata) error {
	querier := database.GetTx(ctx, p.db)

	now := m.UpdatedAt
	if now.IsZero() {
		now = timeNow()
	}
	m.UpdatedAt = now
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	const query = `INSERT INTO vault_metadata
		(id, version, kdf_salt, kdf_params, wrapped_dek, recovery_wrapped_dek, recovery_key_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			version = EXCLUDED.version,
			kdf_salt = EXCLUDED.kdf_salt,
			kdf_params = EXCLUDED.kdf_params,
			wrapped_dek = EXCLUDED.wrapped_dek,
			recovery_wrapped_dek = EXCLUDED.recovery_wrapped_dek,
			recovery_key_hash = EXCLUDED.recovery_key_hash,
			updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		metadataRowID,
		m.Version,
		m.KDFSalt,
		m.KDFParams,
		m.WrappedDEK,
		m.RecoveryWrappedDEK,
		m.RecoveryKeyHash,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return domain.WrapStorageError(err)
	}
	return nil
}

// timeNow is a var so tests can freeze it; production uses time.Now().UTC().
var timeNow = func() time.Time { return time.Now().UTC() }
