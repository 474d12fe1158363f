package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataHasRecovery(t *testing.T) {
	t.Run("nil metadata", func(t *testing.T) {
		var m *Metadata
		assert.False(t, m.HasRecovery())
	})

	t.Run("neither field set", func(t *testing.T) {
		m := &Metadata{}
		assert.False(t, m.HasRecovery())
	})

	t.Run("only wrapped dek set", func(t *testing.T) {
		m := &Metadata{RecoveryWrappedDEK: "envelope"}
		assert.False(t, m.HasRecovery())
	})

	t.Run("only hash set", func(t *testing.T) {
		m := &Metadata{RecoveryKeyHash: "hash"}
		assert.False(t, m.HasRecovery())
	})

	t.Run("both set", func(t *testing.T) {
		m := &Metadata{RecoveryWrappedDEK: "envelope", RecoveryKeyHash: "hash"}
		assert.True(t, m.HasRecovery())
	})
}
