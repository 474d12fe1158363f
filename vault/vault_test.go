package vault

import (
	"context"
	"encoding/base64"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultcore/vault/domain"
	"github.com/allisson/vaultcore/vault/service"
)

// fakeStore is an in-memory domain.Metadata holder. It exists because the
// production stores talk to a real database via database/sql; exercising
// the state machine itself doesn't need a driver, just something that
// satisfies store.Store.
type fakeStore struct {
	mu          sync.Mutex
	m           *domain.Metadata
	failUpserts bool
}

func (f *fakeStore) GetMetadata(ctx context.Context) (*domain.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.m == nil {
		return nil, domain.ErrNotInitialized
	}
	cp := *f.m
	return &cp, nil
}

func (f *fakeStore) UpsertMetadata(ctx context.Context, m *domain.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpserts {
		return domain.ErrStorageError
	}
	cp := *m
	f.m = &cp
	return nil
}

func (f *fakeStore) Bootstrap(ctx context.Context) error { return nil }

// fakeTxManager runs fn directly with no real transaction, since fakeStore
// has no commit/rollback semantics to exercise here (those are covered
// against sqlmock in the store package).
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(&fakeStore{}, fakeTxManager{})
	require.NoError(t, err)
	return v
}

var recoveryPhraseShape = regexp.MustCompile(`^[A-Z0-9]{4}(-[A-Z0-9]{4}){7}$`)

func TestVaultStatusUninitialized(t *testing.T) {
	v := newTestVault(t)
	status, err := v.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUninitialized, status)
	assert.False(t, v.IsUnsealed())
}

func TestVaultInitializeUnsealsAndReturnsPhrase(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	phrase, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)
	assert.Regexp(t, recoveryPhraseShape, phrase)
	assert.True(t, v.IsUnsealed())

	status, err := v.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnsealed, status)
}

func TestVaultInitializeTwiceFails(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	_, err = v.Initialize(ctx, "another password")
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestVaultEncryptDecryptRoundTrip(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(b64), 56)

	plaintext, err := v.DecryptString(b64, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hello", plaintext)
}

func TestVaultDecryptWrongAADFails(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	_, err = v.DecryptString(b64, "farewell")
	assert.ErrorIs(t, err, domain.ErrCryptoFailure)
}

func TestVaultEncryptNonceFreshness(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b1, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)
	b2, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	assert.NotEqual(t, b1, b2)
}

func TestVaultEncryptFailsWhenSealed(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	require.NoError(t, v.Seal())

	_, err = v.EncryptString("hello", "greet")
	assert.ErrorIs(t, err, domain.ErrSealed)

	_, err = v.DecryptString("aGVsbG8=", "greet")
	assert.ErrorIs(t, err, domain.ErrSealed)
}

func TestVaultSealThenUnsealWithPassword(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	require.NoError(t, v.Seal())
	assert.False(t, v.IsUnsealed())

	err = v.Unseal(ctx, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, v.IsUnsealed())

	plaintext, err := v.DecryptString(b64, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hello", plaintext)
}

func TestVaultUnsealWrongPasswordFails(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, v.Seal())

	err = v.Unseal(ctx, "wrong password")
	assert.ErrorIs(t, err, domain.ErrBadPassword)
	assert.False(t, v.IsUnsealed())
}

func TestVaultUnsealIdempotentWhenAlreadyUnsealed(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	err = v.Unseal(ctx, "irrelevant")
	assert.NoError(t, err)
}

func TestVaultUnsealBeforeInitializeFails(t *testing.T) {
	v := newTestVault(t)
	err := v.Unseal(context.Background(), "whatever")
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestVaultUnsealWithRecoveryRoundTrip(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	phrase, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	require.NoError(t, v.Seal())

	err = v.UnsealWithRecovery(ctx, phrase)
	require.NoError(t, err)
	assert.True(t, v.IsUnsealed())

	plaintext, err := v.DecryptString(b64, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hello", plaintext)
}

func TestVaultUnsealWithRecoveryIsCaseAndDashInsensitive(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	phrase, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, v.Seal())

	lower := ""
	for _, r := range phrase {
		if r == '-' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		lower += string(r)
	}

	err = v.UnsealWithRecovery(ctx, lower)
	assert.NoError(t, err)
}

func TestVaultUnsealWithWrongRecoveryPhraseFails(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, v.Seal())

	err = v.UnsealWithRecovery(ctx, "WRNG-WRNG-WRNG-WRNG-WRNG-WRNG-WRNG-WRNG")
	assert.ErrorIs(t, err, domain.ErrInvalidRecoveryPhrase)
	assert.False(t, v.IsUnsealed())
}

func TestVaultChangePasswordPreservesData(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	err = v.ChangePassword(ctx, "correct horse battery staple", "new password entirely")
	require.NoError(t, err)

	// data encrypted before the change is still readable without resealing
	plaintext, err := v.DecryptString(b64, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hello", plaintext)

	require.NoError(t, v.Seal())

	err = v.Unseal(ctx, "correct horse battery staple")
	assert.ErrorIs(t, err, domain.ErrBadPassword)

	err = v.Unseal(ctx, "new password entirely")
	require.NoError(t, err)

	plaintext, err = v.DecryptString(b64, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hello", plaintext)
}

func TestVaultChangePasswordWrongOldPasswordFails(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	err = v.ChangePassword(ctx, "wrong old password", "new password")
	assert.ErrorIs(t, err, domain.ErrBadPassword)

	// unchanged: the original password still unseals
	require.NoError(t, v.Seal())
	err = v.Unseal(ctx, "correct horse battery staple")
	assert.NoError(t, err)
}

func TestVaultChangePasswordDoesNotRotateRecoveryWrapper(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	phrase, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	err = v.ChangePassword(ctx, "correct horse battery staple", "new password entirely")
	require.NoError(t, err)

	require.NoError(t, v.Seal())
	err = v.UnsealWithRecovery(ctx, phrase)
	assert.NoError(t, err)
}

func TestVaultEnvelopeShape(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	assert.Equal(t, service.VersionXChaCha20Poly1305, raw[0])
	assert.Len(t, raw, 1+24+16+len("hello"))
}

func TestVaultDecryptTamperedCiphertextFails(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	b64, err := v.EncryptString("hello", "greet")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)

	raw[len(raw)-1] ^= 0xff
	_, err = v.DecryptString(base64.StdEncoding.EncodeToString(raw), "greet")
	assert.ErrorIs(t, err, domain.ErrCryptoFailure)

	raw[len(raw)-1] ^= 0xff // restore, then truncate below the minimum envelope length
	_, err = v.DecryptString(base64.StdEncoding.EncodeToString(raw[:40]), "greet")
	assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
}

func TestVaultChangePasswordRollsBackOnStoreFailure(t *testing.T) {
	st := &fakeStore{}
	v, err := New(st, fakeTxManager{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	st.failUpserts = true
	err = v.ChangePassword(ctx, "correct horse battery staple", "new password entirely")
	assert.ErrorIs(t, err, domain.ErrStorageError)
	st.failUpserts = false

	require.NoError(t, v.Seal())

	err = v.Unseal(ctx, "new password entirely")
	assert.ErrorIs(t, err, domain.ErrBadPassword)

	err = v.Unseal(ctx, "correct horse battery staple")
	assert.NoError(t, err)
}

func TestVaultZeroizesDEKOnSeal(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)

	rawDEK := v.dek.Bytes()
	require.NotEmpty(t, rawDEK)

	require.NoError(t, v.Seal())

	for _, b := range rawDEK {
		assert.Equal(t, byte(0), b)
	}
	assert.Nil(t, v.dek)
}

func TestVaultConcurrentUnsealsSerialize(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	_, err := v.Initialize(ctx, "correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, v.Seal())

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = v.Unseal(ctx, "correct horse battery staple")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, v.IsUnsealed())
}
