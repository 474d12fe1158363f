// Package dto provides data transfer objects for the vault's HTTP surface.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/vaultcore/internal/validation"
)

// passwordRule enforces the vault's minimum password strength for any
// password that will be used to derive a KEK.
var passwordRule = customValidation.PasswordStrength{
	MinLength:     12,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

// InitializeRequest contains the parameters for initializing a fresh vault.
type InitializeRequest struct {
	Password string `json:"password"`
}

// Validate checks if the initialize request is valid.
func (r *InitializeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			customValidation.NotBlank,
			passwordRule,
		),
	)
}

// UnsealRequest contains the parameters for unsealing the vault with its password.
type UnsealRequest struct {
	Password string `json:"password"`
}

// Validate checks if the unseal request is valid.
func (r *UnsealRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// UnsealWithRecoveryRequest contains the parameters for unsealing the vault
// with its recovery phrase.
type UnsealWithRecoveryRequest struct {
	RecoveryPhrase string `json:"recovery_phrase"`
}

// Validate checks if the recovery unseal request is valid.
func (r *UnsealWithRecoveryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RecoveryPhrase,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ChangePasswordRequest contains the parameters for rotating the vault's
// password wrapper.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate checks if the change password request is valid.
func (r *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OldPassword,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.NewPassword,
			validation.Required,
			customValidation.NotBlank,
			passwordRule,
		),
	)
}

// EncryptRequest contains the parameters for encrypting a string under the
// vault's in-memory DEK.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"`
	AAD       string `json:"aad"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
		),
	)
}

// DecryptRequest contains the parameters for decrypting a base64 envelope
// under the vault's in-memory DEK.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"`
	AAD        string `json:"aad"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}
