package vault

import (
	"context"
	"time"

	"github.com/allisson/vaultcore/internal/metrics"
	"github.com/allisson/vaultcore/vault/domain"
)

const metricsDomain = "vault"

// UseCase is the surface *Vault exposes to a host. It exists so
// NewUseCaseWithMetrics can decorate either a real Vault or a test double without
// depending on the concrete struct.
type UseCase interface {
	Status(ctx context.Context) (domain.Status, error)
	IsUnsealed() bool
	Initialize(ctx context.Context, password string) (string, error)
	Unseal(ctx context.Context, password string) error
	UnsealWithRecovery(ctx context.Context, phrase string) error
	Seal() error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	EncryptString(plaintext, aad string) (string, error)
	DecryptString(b64, aad string) (string, error)
}

var _ UseCase = (*Vault)(nil)

// useCaseWithMetrics decorates a UseCase with business-metrics
// instrumentation, recording an operation count and a duration histogram
// for every call except IsUnsealed, which is passed through unrecorded.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps useCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{next: useCase, metrics: m}
}

func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	u.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (u *useCaseWithMetrics) Status(ctx context.Context) (domain.Status, error) {
	start := time.Now()
	status, err := u.next.Status(ctx)
	u.record(ctx, "status", start, err)
	return status, err
}

func (u *useCaseWithMetrics) IsUnsealed() bool {
	return u.next.IsUnsealed()
}

func (u *useCaseWithMetrics) Initialize(ctx context.Context, password string) (string, error) {
	start := time.Now()
	phrase, err := u.next.Initialize(ctx, password)
	u.record(ctx, "initialize", start, err)
	return phrase, err
}

func (u *useCaseWithMetrics) Unseal(ctx context.Context, password string) error {
	start := time.Now()
	err := u.next.Unseal(ctx, password)
	u.record(ctx, "unseal", start, err)
	return err
}

func (u *useCaseWithMetrics) UnsealWithRecovery(ctx context.Context, phrase string) error {
	start := time.Now()
	err := u.next.UnsealWithRecovery(ctx, phrase)
	u.record(ctx, "unseal_with_recovery", start, err)
	return err
}

func (u *useCaseWithMetrics) Seal() error {
	start := time.Now()
	err := u.next.Seal()
	u.record(context.Background(), "seal", start, err)
	return err
}

func (u *useCaseWithMetrics) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	start := time.Now()
	err := u.next.ChangePassword(ctx, oldPassword, newPassword)
	u.record(ctx, "change_password", start, err)
	return err
}

func (u *useCaseWithMetrics) EncryptString(plaintext, aad string) (string, error) {
	start := time.Now()
	out, err := u.next.EncryptString(plaintext, aad)
	u.record(context.Background(), "encrypt_string", start, err)
	return out, err
}

func (u *useCaseWithMetrics) DecryptString(b64, aad string) (string, error) {
	start := time.Now()
	out, err := u.next.DecryptString(b64, aad)
	u.record(context.Background(), "decrypt_string", start, err)
	return out, err
}
