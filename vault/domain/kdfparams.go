package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds on Argon2id parameters this implementation accepts when loading a
// stored KDFParams record. A vault whose row carries values outside these
// bounds is refused with ErrBadKdfParams rather than silently running an
// absurd or resource-exhausting derivation.
const (
	MinMemoryKiB     = 19 * 1024 // 19 MiB
	MinIterations    = 2
	MinParallelism   = 1
	MinSaltLen       = 16
	MaxMemoryKiB     = 4 * 1024 * 1024 // 4 GiB, a generous ceiling against misconfiguration
	MaxIterations    = 64
	MaxParallelism   = 64
	DerivedKeyLength = 32
)

// DefaultParams are the recommended cost parameters for the password KDF.
var DefaultParams = KDFParams{MemoryKiB: 64 * 1024, Iterations: 3, Parallelism: 2}

// RecoveryParams are intentionally lighter: the recovery phrase already
// carries 128 bits of entropy, so the KDF's job is shaping the key, not
// adding work-factor defense against guessing.
var RecoveryParams = KDFParams{MemoryKiB: MinMemoryKiB, Iterations: MinIterations, Parallelism: MinParallelism}

// KDFParams is the Argon2id cost profile stored alongside a wrapped DEK.
type KDFParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// Validate rejects parameters below the recommended floor or above the
// sanity ceiling with ErrBadKdfParams.
func (p KDFParams) Validate() error {
	switch {
	case p.MemoryKiB < MinMemoryKiB || p.MemoryKiB > MaxMemoryKiB:
		return ErrBadKdfParams
	case p.Iterations < MinIterations || p.Iterations > MaxIterations:
		return ErrBadKdfParams
	case p.Parallelism < MinParallelism || p.Parallelism > MaxParallelism:
		return ErrBadKdfParams
	}
	return nil
}

// String renders the compact textual form stored in the metadata row, e.g.
// "argon2id$m=65536$t=3$p=2".
func (p KDFParams) String() string {
	return fmt.Sprintf("argon2id$m=%d$t=%d$p=%d", p.MemoryKiB, p.Iterations, p.Parallelism)
}

// ParseKDFParams parses the compact textual form produced by String. It
// rejects anything that doesn't match the expected algorithm tag or whose
// values fail Validate.
func ParseKDFParams(s string) (KDFParams, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 4 || parts[0] != "argon2id" {
		return KDFParams{}, ErrBadKdfParams
	}

	var p KDFParams
	for _, field := range parts[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return KDFParams{}, ErrBadKdfParams
		}

		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return KDFParams{}, ErrBadKdfParams
		}

		switch key {
		case "m":
			p.MemoryKiB = uint32(n)
		case "t":
			p.Iterations = uint32(n)
		case "p":
			p.Parallelism = uint8(n)
		default:
			return KDFParams{}, ErrBadKdfParams
		}
	}

	if err := p.Validate(); err != nil {
		return KDFParams{}, err
	}
	return p, nil
}
