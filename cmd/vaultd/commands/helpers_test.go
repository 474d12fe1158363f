package commands

import (
	"context"

	"github.com/allisson/vaultcore/vault/domain"
)

// fakeVault is a hand-rolled vault.UseCase double, matching the style of
// the httpguard tests: the interface is small enough that a mock generator
// adds no clarity over a direct stub.
type fakeVault struct {
	status             domain.Status
	statusErr          error
	unsealed           bool
	initializeRecovery string
	initializeErr      error
	unsealErr          error
	unsealRecoveryErr  error
	sealErr            error
	changePasswordErr  error

	lastPassword    string
	lastOldPassword string
	lastNewPassword string
	lastRecovery    string
	sealCalls       int
}

func (f *fakeVault) Status(ctx context.Context) (domain.Status, error) { return f.status, f.statusErr }
func (f *fakeVault) IsUnsealed() bool                                  { return f.unsealed }

func (f *fakeVault) Initialize(ctx context.Context, password string) (string, error) {
	f.lastPassword = password
	return f.initializeRecovery, f.initializeErr
}

func (f *fakeVault) Unseal(ctx context.Context, password string) error {
	f.lastPassword = password
	return f.unsealErr
}

func (f *fakeVault) UnsealWithRecovery(ctx context.Context, phrase string) error {
	f.lastRecovery = phrase
	return f.unsealRecoveryErr
}

func (f *fakeVault) Seal() error {
	f.sealCalls++
	return f.sealErr
}

func (f *fakeVault) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	f.lastOldPassword = oldPassword
	f.lastNewPassword = newPassword
	return f.changePasswordErr
}

func (f *fakeVault) EncryptString(plaintext, aad string) (string, error) { return "", nil }
func (f *fakeVault) DecryptString(b64, aad string) (string, error)      { return "", nil }
