package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("zero non-empty slice", func(t *testing.T) {
		b := []byte{1, 2, 3, 4, 5}
		Zero(b)
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})

	t.Run("zero empty slice", func(t *testing.T) {
		b := []byte{}
		Zero(b)
		assert.Equal(t, 0, len(b))
	})

	t.Run("zero nil slice", func(t *testing.T) {
		var b []byte
		assert.NotPanics(t, func() { Zero(b) })
	})
}

func TestSecret(t *testing.T) {
	t.Run("Bytes returns the owned buffer", func(t *testing.T) {
		s := NewSecret([]byte("a-32-byte-dek-001234567890123456"))
		assert.Equal(t, "a-32-byte-dek-001234567890123456", string(s.Bytes()))
	})

	t.Run("Release zeros and detaches", func(t *testing.T) {
		b := make([]byte, 32)
		for i := range b {
			b[i] = byte(i + 1)
		}
		s := NewSecret(b)
		s.Release()

		assert.Nil(t, s.Bytes())
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})

	t.Run("Release is safe on nil Secret and double release", func(t *testing.T) {
		var s *Secret
		assert.NotPanics(t, func() { s.Release() })

		s2 := NewSecret([]byte("x"))
		s2.Release()
		assert.NotPanics(t, func() { s2.Release() })
	})
}
